package aggregate

import "github.com/konkursant/portal/internal/review/model"

// ProjectGroup holds the records of one project in arrival order.
type ProjectGroup struct {
	ProjectID int64
	Records   []model.ReviewRecord
}

// GroupByProject splits a flat multi-project feed. Groups appear in order of each project's
// first record and keep their records in input order, so reviewer numbering is deterministic.
func GroupByProject(records []model.ReviewRecord) []ProjectGroup {
	index := make(map[int64]int)
	var groups []ProjectGroup
	for _, r := range records {
		i, ok := index[r.ProjectID]
		if !ok {
			i = len(groups)
			index[r.ProjectID] = i
			groups = append(groups, ProjectGroup{ProjectID: r.ProjectID})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Dedupe keeps one record per reviewer. The last record wins but takes the position of the
// reviewer's first record. Every dropped record is reported.
func Dedupe(records []model.ReviewRecord) ([]model.ReviewRecord, []Warning) {
	index := make(map[int64]int, len(records))
	out := make([]model.ReviewRecord, 0, len(records))
	var warnings []Warning
	for _, r := range records {
		if i, ok := index[r.ReviewerID]; ok {
			out[i] = r
			warnings = append(warnings, Warning{
				ProjectID:  r.ProjectID,
				ReviewerID: r.ReviewerID,
				Kind:       KindDuplicateReview,
			})
			continue
		}
		index[r.ReviewerID] = len(out)
		out = append(out, r)
	}
	return out, warnings
}
