package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// StatusFinalized marks a review record as submitted. Records are never edited afterwards.
const StatusFinalized = "finalized"

// DefaultFeedback is stored when a reviewer leaves no comment.
const DefaultFeedback = "Комментариев нет"

// Score is a single criterion score as received. Valid is false for null or non-numeric input.
type Score struct {
	Value float64
	Valid bool
}

// NewScore returns a valid score.
func NewScore(v float64) Score {
	return Score{Value: v, Valid: true}
}

// InRange reports whether the score is numeric and within [MinScore, MaxScore].
func (s Score) InRange() bool {
	return s.Valid && s.Value >= MinScore && s.Value <= MaxScore
}

// IsInteger reports whether the score is numeric and has no fractional part.
func (s Score) IsInteger() bool {
	return s.Valid && s.Value == math.Trunc(s.Value)
}

// MarshalJSON encodes valid scores as numbers and the rest as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(s.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else yields an invalid score, never an error.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = Score{}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil
	}

	var raw string
	switch t := v.(type) {
	case json.Number:
		raw = t.String()
	case string:
		raw = strings.TrimSpace(t)
	default:
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*s = NewScore(f)
	return nil
}

// ReviewRecord is one evaluation submitted by one reviewer for one project.
// Project title and author name are denormalized for display.
type ReviewRecord struct {
	ProjectID     int64
	ReviewerID    int64
	ProjectTitle  string
	AuthorName    string
	SchemaVersion SchemaVersion
	Scores        map[string]Score
	Feedback      string
	Status        string
	CreatedAt     time.Time
}

// Record metadata fields of the flat wire format. Every other field is a criterion score.
const (
	fieldProjectID     = "project_id"
	fieldReviewerID    = "reviewer_id"
	fieldProjectTitle  = "project_title"
	fieldAuthorName    = "author_name"
	fieldSchemaVersion = "schema_version"
	fieldFeedback      = "feedback"
	fieldStatus        = "status"
	fieldCreatedAt     = "created_at"
)

var recordFields = map[string]bool{
	fieldProjectID:     true,
	fieldReviewerID:    true,
	fieldProjectTitle:  true,
	fieldAuthorName:    true,
	fieldSchemaVersion: true,
	fieldFeedback:      true,
	fieldStatus:        true,
	fieldCreatedAt:     true,
	"id_review":        true,
}

// MarshalJSON writes the record flat: criterion keys sit next to the metadata fields.
func (r ReviewRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Scores)+len(recordFields))
	for key, score := range r.Scores {
		out[key] = score
	}
	out[fieldProjectID] = r.ProjectID
	out[fieldReviewerID] = r.ReviewerID
	out[fieldProjectTitle] = r.ProjectTitle
	out[fieldAuthorName] = r.AuthorName
	out[fieldFeedback] = r.Feedback
	out[fieldStatus] = r.Status
	if r.SchemaVersion != "" {
		out[fieldSchemaVersion] = r.SchemaVersion
	}
	if !r.CreatedAt.IsZero() {
		out[fieldCreatedAt] = r.CreatedAt.Format(time.RFC3339)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat wire format.
func (r *ReviewRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	rec := ReviewRecord{Scores: make(map[string]Score)}
	for key, raw := range fields {
		if recordFields[key] {
			continue
		}
		var score Score
		if err := score.UnmarshalJSON(raw); err != nil {
			return err
		}
		rec.Scores[key] = score
	}

	if err := decodeID(fields, fieldProjectID, &rec.ProjectID); err != nil {
		return err
	}
	if err := decodeID(fields, fieldReviewerID, &rec.ReviewerID); err != nil {
		return err
	}
	decodeString(fields, fieldProjectTitle, &rec.ProjectTitle)
	decodeString(fields, fieldAuthorName, &rec.AuthorName)
	decodeString(fields, fieldFeedback, &rec.Feedback)
	decodeString(fields, fieldStatus, &rec.Status)

	var version string
	decodeString(fields, fieldSchemaVersion, &version)
	rec.SchemaVersion = SchemaVersion(version)

	var createdAt string
	decodeString(fields, fieldCreatedAt, &createdAt)
	if createdAt != "" {
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", fieldCreatedAt, err)
		}
		rec.CreatedAt = t
	}

	*r = rec
	return nil
}

func decodeID(fields map[string]json.RawMessage, key string, dst *int64) error {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

// decodeString leaves dst untouched when the field is absent or not a string.
func decodeString(fields map[string]json.RawMessage, key string, dst *string) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
