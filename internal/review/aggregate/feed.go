package aggregate

import "github.com/konkursant/portal/internal/review/model"

// SchemaFor returns the schema the first record of a batch was scored against, falling back
// to fallback for untagged batches and versions the registry does not know.
func SchemaFor(records []model.ReviewRecord, registry *model.Registry, fallback model.Schema) model.Schema {
	if len(records) == 0 || records[0].SchemaVersion == "" || registry == nil {
		return fallback
	}
	schema, err := registry.Schema(records[0].SchemaVersion)
	if err != nil {
		return fallback
	}
	return schema
}

// SummarizeFeed groups a flat feed by project and summarizes every group against its own schema.
func SummarizeFeed(records []model.ReviewRecord, registry *model.Registry, fallback model.Schema) []ProjectSummary {
	groups := GroupByProject(records)
	out := make([]ProjectSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, Summarize(g.ProjectID, g.Records, SchemaFor(g.Records, registry, fallback)))
	}
	return out
}
