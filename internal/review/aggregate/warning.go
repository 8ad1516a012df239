package aggregate

import "fmt"

// WarningKind classifies a data-quality problem found while aggregating.
type WarningKind string

const (
	// KindMissingKey marks a criterion absent from a record. It is scored as 0.
	KindMissingKey WarningKind = "missing_key"
	// KindNonNumeric marks a criterion whose value is not a number. It is scored as 0.
	KindNonNumeric WarningKind = "non_numeric"
	// KindOutOfRange marks a numeric score outside the allowed range. It is scored as given.
	KindOutOfRange WarningKind = "out_of_range"
	// KindDuplicateReview marks a reviewer with more than one record for a project; the last one wins.
	KindDuplicateReview WarningKind = "duplicate_review"
	// KindSchemaVersion marks a record tagged with another schema version; it is left out.
	KindSchemaVersion WarningKind = "schema_version_mismatch"
)

// Warning is a non-fatal data-quality signal attached to an aggregate.
type Warning struct {
	ProjectID  int64       `json:"project_id"`
	ReviewerID int64       `json:"reviewer_id"`
	Key        string      `json:"key,omitempty"`
	Kind       WarningKind `json:"kind"`
}

func (w Warning) String() string {
	if w.Key == "" {
		return fmt.Sprintf("project %d reviewer %d: %s", w.ProjectID, w.ReviewerID, w.Kind)
	}
	return fmt.Sprintf("project %d reviewer %d: %s %s", w.ProjectID, w.ReviewerID, w.Kind, w.Key)
}
