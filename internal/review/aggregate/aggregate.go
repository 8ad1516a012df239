// Package aggregate computes score aggregates over review records.
//
// All functions are pure: they never modify their input and are safe for concurrent use.
// Missing or non-numeric scores count as 0 and are reported as warnings. Arithmetic is
// done in decimal and rounded once, when a value is returned.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/konkursant/portal/internal/review/model"
)

// ReviewerScore is the sum and average of one reviewer's criterion scores.
type ReviewerScore struct {
	ReviewerID int64     `json:"reviewer_id"`
	Sum        float64   `json:"sum"`
	Average    float64   `json:"average"`
	Warnings   []Warning `json:"warnings,omitempty"`
}

// CriterionAverage is the cross-reviewer average of one criterion.
type CriterionAverage struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Average float64 `json:"average"`
}

// recordScore is the unrounded score of a single record.
type recordScore struct {
	sum      decimal.Decimal
	average  decimal.Decimal
	warnings []Warning
}

// value returns the contribution of key to a sum and the warning it raises, if any.
func value(record model.ReviewRecord, key string) (decimal.Decimal, *Warning) {
	score, ok := record.Scores[key]
	w := &Warning{ProjectID: record.ProjectID, ReviewerID: record.ReviewerID, Key: key}
	switch {
	case !ok:
		w.Kind = KindMissingKey
		return decimal.Zero, w
	case !score.Valid:
		w.Kind = KindNonNumeric
		return decimal.Zero, w
	case !score.InRange():
		w.Kind = KindOutOfRange
		return decimal.NewFromFloat(score.Value), w
	default:
		return decimal.NewFromFloat(score.Value), nil
	}
}

// scoreRecord divides by the number of keys in the schema, not by the number of present scores.
func scoreRecord(record model.ReviewRecord, schema model.Schema) recordScore {
	keys := schema.Keys()
	sum := decimal.Zero
	var warnings []Warning
	for _, key := range keys {
		v, w := value(record, key)
		sum = sum.Add(v)
		if w != nil {
			warnings = append(warnings, *w)
		}
	}
	return recordScore{
		sum:      sum,
		average:  sum.Div(divisor(len(keys))),
		warnings: warnings,
	}
}

// PerReviewerScore returns the sum and average of record's scores for the schema's keys.
func PerReviewerScore(record model.ReviewRecord, schema model.Schema) ReviewerScore {
	rs := scoreRecord(record, schema)
	return ReviewerScore{
		ReviewerID: record.ReviewerID,
		Sum:        Round2(rs.sum),
		Average:    Round2(rs.average),
		Warnings:   rs.warnings,
	}
}

// averageOfAverages is the unrounded mean of per-reviewer averages.
func averageOfAverages(records []model.ReviewRecord, schema model.Schema) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(scoreRecord(r, schema).average)
	}
	return total.Div(divisor(len(records)))
}

// AcrossReviewersAverageOfAverages returns the mean of every reviewer's average. Empty input gives 0.
func AcrossReviewersAverageOfAverages(records []model.ReviewRecord, schema model.Schema) float64 {
	return Round2(averageOfAverages(records, schema))
}

// SumOfAverages returns the sum of every reviewer's average.
func SumOfAverages(records []model.ReviewRecord, schema model.Schema) float64 {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(scoreRecord(r, schema).average)
	}
	return Round2(total)
}

// PerCriterionAverage returns, in schema order, each criterion's sum across records divided by the record count.
func PerCriterionAverage(records []model.ReviewRecord, schema model.Schema) []CriterionAverage {
	n := divisor(len(records))
	out := make([]CriterionAverage, 0, len(schema.Criteria))
	for _, c := range schema.Criteria {
		sum := decimal.Zero
		for _, r := range records {
			v, _ := value(r, c.Key)
			sum = sum.Add(v)
		}
		out = append(out, CriterionAverage{
			Key:     c.Key,
			Label:   c.Label,
			Average: Round2(sum.Div(n)),
		})
	}
	return out
}

// PerCriterionAverageMap is PerCriterionAverage keyed by criterion.
func PerCriterionAverageMap(records []model.ReviewRecord, schema model.Schema) map[string]float64 {
	averages := PerCriterionAverage(records, schema)
	out := make(map[string]float64, len(averages))
	for _, a := range averages {
		out[a.Key] = a.Average
	}
	return out
}

// Warnings returns every missing, non-numeric and out-of-range score in records, in record order.
func Warnings(records []model.ReviewRecord, schema model.Schema) []Warning {
	var out []Warning
	for _, r := range records {
		out = append(out, scoreRecord(r, schema).warnings...)
	}
	return out
}
