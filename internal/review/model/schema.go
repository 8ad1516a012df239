// Package model provides the review record, its criterion schemas and data transfer objects for the review module.
package model

import (
	"fmt"
	"sort"
)

// SchemaVersion tags the criterion set a batch of review records was scored against.
type SchemaVersion string

const (
	// SchemaLegacy is the original 10-criterion set.
	SchemaLegacy SchemaVersion = "legacy"
	// SchemaCurrent is the 9-criterion set without additional_resources.
	SchemaCurrent SchemaVersion = "current"
)

const (
	// MinScore is the lowest score a reviewer may give for a criterion.
	MinScore = 1
	// MaxScore is the highest score a reviewer may give for a criterion.
	MaxScore = 10
)

// Criterion keys shared by the built-in schemas.
const (
	KeyTeamExperience              = "team_experience"
	KeyProjectRelevance            = "project_relevance"
	KeySolutionUniqueness          = "solution_uniqueness"
	KeyImplementationScale         = "implementation_scale"
	KeyDevelopmentPotential        = "development_potential"
	KeyProjectTransparency         = "project_transparency"
	KeyFeasibilityAndEffectiveness = "feasibility_and_effectiveness"
	KeyAdditionalResources         = "additional_resources"
	KeyPlannedExpenses             = "planned_expenses"
	KeyBudgetRealism               = "budget_realism"
)

// Criterion is one named evaluation dimension scored by a reviewer.
type Criterion struct {
	Key   string `yaml:"key"   json:"key"`
	Label string `yaml:"label" json:"label"`
}

// Schema is the ordered set of criteria in effect for a batch of review records.
type Schema struct {
	Version  SchemaVersion `yaml:"version"  json:"version"`
	Criteria []Criterion   `yaml:"criteria" json:"criteria"`
}

// Keys returns criterion keys in schema order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s.Criteria))
	for _, c := range s.Criteria {
		keys = append(keys, c.Key)
	}
	return keys
}

// Label returns the human label for key, or the key itself when the schema does not know it.
func (s Schema) Label(key string) string {
	for _, c := range s.Criteria {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}

// Has reports whether key belongs to the schema.
func (s Schema) Has(key string) bool {
	for _, c := range s.Criteria {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Validate checks that the schema has a version and a non-empty set of unique keys.
func (s Schema) Validate() error {
	if s.Version == "" {
		return fmt.Errorf("%w: empty version", ErrInvalidSchema)
	}
	if len(s.Criteria) == 0 {
		return fmt.Errorf("%w: %s has no criteria", ErrInvalidSchema, s.Version)
	}
	seen := make(map[string]bool, len(s.Criteria))
	for _, c := range s.Criteria {
		if c.Key == "" {
			return fmt.Errorf("%w: %s has a criterion without key", ErrInvalidSchema, s.Version)
		}
		if seen[c.Key] {
			return fmt.Errorf("%w: %s repeats key %s", ErrInvalidSchema, s.Version, c.Key)
		}
		seen[c.Key] = true
	}
	return nil
}

// Check returns a *ScoreError for the first criterion of the schema that is absent,
// non-numeric or outside [MinScore, MaxScore] in record.
func (s Schema) Check(record ReviewRecord) error {
	for _, key := range s.Keys() {
		score, ok := record.Scores[key]
		switch {
		case !ok:
			return &ScoreError{Key: key, Reason: "missing"}
		case !score.Valid:
			return &ScoreError{Key: key, Reason: "not a number"}
		case !score.InRange():
			return &ScoreError{Key: key, Reason: fmt.Sprintf("must be between %d and %d", MinScore, MaxScore)}
		}
	}
	return nil
}

// IsComplete reports whether every criterion of the schema has a present, numeric, in-range score.
func (s Schema) IsComplete(record ReviewRecord) bool {
	return s.Check(record) == nil
}

func legacySchema() Schema {
	return Schema{
		Version: SchemaLegacy,
		Criteria: []Criterion{
			{Key: KeyTeamExperience, Label: "Опыт и компетенции команды проекта"},
			{Key: KeyProjectRelevance, Label: "Актуальность и социальная значимость проекта"},
			{Key: KeySolutionUniqueness, Label: "Уникальность и адресность предложенного решения проблемы"},
			{Key: KeyImplementationScale, Label: "Масштаб реализации проекта"},
			{Key: KeyDevelopmentPotential, Label: "Перспектива развития и потенциал проекта"},
			{Key: KeyProjectTransparency, Label: "Информационная открытость проекта"},
			{Key: KeyFeasibilityAndEffectiveness, Label: "Реализуемость проекта и его результативность"},
			{Key: KeyAdditionalResources, Label: "Собственный вклад и дополнительные ресурсы проекта"},
			{Key: KeyPlannedExpenses, Label: "Планируемые расходы на реализацию проекта"},
			{Key: KeyBudgetRealism, Label: "Реалистичность бюджета проекта"},
		},
	}
}

func currentSchema() Schema {
	return Schema{
		Version: SchemaCurrent,
		Criteria: []Criterion{
			{Key: KeyTeamExperience, Label: "Опыт и компетенции команды проекта"},
			{Key: KeyProjectRelevance, Label: "Актуальность и социальная значимость проекта"},
			{Key: KeySolutionUniqueness, Label: "Уникальность и адресность предложенного решения проблемы"},
			{Key: KeyImplementationScale, Label: "Логическая связанность и реализуемость проекта"},
			{Key: KeyDevelopmentPotential, Label: "Перспектива развития и потенциал проекта"},
			{Key: KeyProjectTransparency, Label: "Информационная открытость проекта"},
			{Key: KeyFeasibilityAndEffectiveness, Label: "Реализуемость проекта и его результативность"},
			{Key: KeyPlannedExpenses, Label: "Планируемые расходы на реализацию проекта"},
			{Key: KeyBudgetRealism, Label: "Реалистичность бюджета проекта"},
		},
	}
}

// Registry resolves schema versions to criterion sets. It is read-only after construction.
type Registry struct {
	schemas map[SchemaVersion]Schema
}

// NewRegistry creates a registry from the given schemas. Later schemas replace earlier ones of the same version.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[SchemaVersion]Schema, len(schemas))}
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		criteria := make([]Criterion, len(s.Criteria))
		copy(criteria, s.Criteria)
		r.schemas[s.Version] = Schema{Version: s.Version, Criteria: criteria}
	}
	return r, nil
}

// DefaultRegistry returns a registry holding the built-in legacy and current schemas.
func DefaultRegistry() *Registry {
	return &Registry{schemas: map[SchemaVersion]Schema{
		SchemaLegacy:  legacySchema(),
		SchemaCurrent: currentSchema(),
	}}
}

// Schema returns the schema for version.
func (r *Registry) Schema(version SchemaVersion) (Schema, error) {
	s, ok := r.schemas[version]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownSchemaVersion, version)
	}
	criteria := make([]Criterion, len(s.Criteria))
	copy(criteria, s.Criteria)
	return Schema{Version: s.Version, Criteria: criteria}, nil
}

// Versions returns the registered versions sorted by name.
func (r *Registry) Versions() []SchemaVersion {
	versions := make([]SchemaVersion, 0, len(r.schemas))
	for v := range r.schemas {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

// CriterionKeys returns the ordered criterion keys of version.
func (r *Registry) CriterionKeys(version SchemaVersion) ([]string, error) {
	s, err := r.Schema(version)
	if err != nil {
		return nil, err
	}
	return s.Keys(), nil
}

// IsComplete reports whether record is complete under version. Unknown versions are never complete.
func (r *Registry) IsComplete(record ReviewRecord, version SchemaVersion) bool {
	s, err := r.Schema(version)
	if err != nil {
		return false
	}
	return s.IsComplete(record)
}

// CriterionKeys is DefaultRegistry().CriterionKeys. It ignores schemas loaded from a file.
func CriterionKeys(version SchemaVersion) ([]string, error) {
	return DefaultRegistry().CriterionKeys(version)
}

// IsComplete is DefaultRegistry().IsComplete. It ignores schemas loaded from a file.
func IsComplete(record ReviewRecord, version SchemaVersion) bool {
	return DefaultRegistry().IsComplete(record, version)
}
