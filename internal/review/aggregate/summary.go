package aggregate

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/konkursant/portal/internal/review/model"
)

// ReviewerLabelPrefix is the display prefix of positional reviewer labels.
const ReviewerLabelPrefix = "Эксперт"

// ReviewerRow is one reviewer's line in a project summary.
type ReviewerRow struct {
	Position   int           `json:"position"`
	Label      string        `json:"label"`
	ReviewerID int64         `json:"reviewer_id"`
	Scores     []model.Score `json:"scores"`
	Sum        float64       `json:"sum"`
	Average    float64       `json:"average"`
	Feedback   string        `json:"feedback"`
}

// Spread describes how far reviewers' averages disagree.
type Spread struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// ProjectSummary is the transient aggregate of every review of one project.
type ProjectSummary struct {
	ProjectID         int64               `json:"project_id"`
	ProjectTitle      string              `json:"project_title"`
	AuthorName        string              `json:"author_name"`
	SchemaVersion     model.SchemaVersion `json:"schema_version"`
	Criteria          []model.Criterion   `json:"criteria"`
	ReviewerCount     int                 `json:"reviewer_count"`
	Reviewers         []ReviewerRow       `json:"reviewers"`
	CriterionAverages []CriterionAverage  `json:"criterion_averages"`
	AverageOfAverages float64             `json:"average_of_averages"`
	SumOfAverages     float64             `json:"sum_of_averages"`
	Spread            Spread              `json:"spread"`
	Warnings          []Warning           `json:"warnings"`
}

// HasData reports whether any review contributed to the summary.
func (s ProjectSummary) HasData() bool {
	return s.ReviewerCount > 0
}

// Summarize aggregates the records of one project. Records tagged with another schema version
// are left out, duplicate reviewers are collapsed, and all data-quality problems are listed in Warnings.
func Summarize(projectID int64, records []model.ReviewRecord, schema model.Schema) ProjectSummary {
	var warnings []Warning

	matching := make([]model.ReviewRecord, 0, len(records))
	for _, r := range records {
		if r.SchemaVersion != "" && r.SchemaVersion != schema.Version {
			warnings = append(warnings, Warning{
				ProjectID:  projectID,
				ReviewerID: r.ReviewerID,
				Kind:       KindSchemaVersion,
			})
			continue
		}
		matching = append(matching, r)
	}

	unique, dupWarnings := Dedupe(matching)
	warnings = append(warnings, dupWarnings...)

	summary := ProjectSummary{
		ProjectID:     projectID,
		SchemaVersion: schema.Version,
		Criteria:      schema.Criteria,
		ReviewerCount: len(unique),
		Reviewers:     make([]ReviewerRow, 0, len(unique)),
	}
	// Title and author come from a scored record when there is one.
	switch {
	case len(matching) > 0:
		summary.ProjectTitle, summary.AuthorName = matching[0].ProjectTitle, matching[0].AuthorName
	case len(records) > 0:
		summary.ProjectTitle, summary.AuthorName = records[0].ProjectTitle, records[0].AuthorName
	}

	keys := schema.Keys()
	averages := make([]decimal.Decimal, 0, len(unique))
	for i, r := range unique {
		rs := scoreRecord(r, schema)
		warnings = append(warnings, rs.warnings...)
		averages = append(averages, rs.average)

		scores := make([]model.Score, 0, len(keys))
		for _, key := range keys {
			scores = append(scores, r.Scores[key])
		}
		summary.Reviewers = append(summary.Reviewers, ReviewerRow{
			Position:   i + 1,
			Label:      fmt.Sprintf("%s %d", ReviewerLabelPrefix, i+1),
			ReviewerID: r.ReviewerID,
			Scores:     scores,
			Sum:        Round2(rs.sum),
			Average:    Round2(rs.average),
			Feedback:   r.Feedback,
		})
	}

	total := decimal.Zero
	for _, a := range averages {
		total = total.Add(a)
	}
	summary.SumOfAverages = Round2(total)
	summary.AverageOfAverages = Round2(total.Div(divisor(len(averages))))
	summary.CriterionAverages = PerCriterionAverage(unique, schema)
	summary.Spread = spread(averages)
	if warnings == nil {
		warnings = []Warning{}
	}
	summary.Warnings = warnings
	return summary
}

// SummarizeAll groups a flat feed by project and summarizes each group in first-appearance order.
func SummarizeAll(records []model.ReviewRecord, schema model.Schema) []ProjectSummary {
	groups := GroupByProject(records)
	out := make([]ProjectSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, Summarize(g.ProjectID, g.Records, schema))
	}
	return out
}

// spread is zero for an empty input.
func spread(averages []decimal.Decimal) Spread {
	if len(averages) == 0 {
		return Spread{}
	}
	data := make(stats.Float64Data, 0, len(averages))
	for _, a := range averages {
		data = append(data, a.InexactFloat64())
	}

	var s Spread
	if v, err := data.Min(); err == nil {
		s.Min = RoundFloat2(v)
	}
	if v, err := data.Max(); err == nil {
		s.Max = RoundFloat2(v)
	}
	if v, err := data.Median(); err == nil {
		s.Median = RoundFloat2(v)
	}
	if v, err := data.StandardDeviationPopulation(); err == nil {
		s.StdDev = RoundFloat2(v)
	}
	return s
}

// Report is a list of project summaries in feed order.
type Report struct {
	Projects []ProjectSummary `json:"projects"`
}
