package audit

// ComponentCategory is the architectural layer a component belongs to.
type ComponentCategory string

const (
	CategoryInfrastructure ComponentCategory = "infrastructure"
	CategoryMonetization   ComponentCategory = "monetization"
	CategoryAutomation     ComponentCategory = "automation"
	CategoryDocumentation  ComponentCategory = "documentation"
	CategoryTesting        ComponentCategory = "testing"
	CategorySecurity       ComponentCategory = "security"
)

// ComponentStatus is the operational state reported by discovery.
type ComponentStatus string

const (
	StatusOperational ComponentStatus = "operational"
	StatusDegraded    ComponentStatus = "degraded"
	StatusFailed      ComponentStatus = "failed"
	StatusUnknown     ComponentStatus = "unknown"
)

// Component is a discovered unit of the project under audit. Discovery owns
// creation; everything in this package treats it as read-only.
type Component struct {
	Name          string            `json:"name" yaml:"name"`
	Category      ComponentCategory `json:"category" yaml:"category"`
	Path          string            `json:"path" yaml:"path"`
	Status        ComponentStatus   `json:"status" yaml:"status"`
	Dependencies  []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Configuration map[string]any    `json:"configuration,omitempty" yaml:"configuration,omitempty"`
	Description   string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// EvaluationStatus classifies the outcome of a criterion or component
// evaluation. NotEvaluated is a terminal outcome, not an error.
type EvaluationStatus string

const (
	EvalPassed       EvaluationStatus = "passed"
	EvalFailed       EvaluationStatus = "failed"
	EvalWarning      EvaluationStatus = "warning"
	EvalNotEvaluated EvaluationStatus = "not_evaluated"
)

// CriterionEvaluation is the result of validating one criterion against one
// component. Immutable once created.
type CriterionEvaluation struct {
	CriterionID   string           `json:"criterion_id" yaml:"criterion_id"`
	CriterionName string           `json:"criterion_name" yaml:"criterion_name"`
	Status        EvaluationStatus `json:"status" yaml:"status"`
	Score         float64          `json:"score" yaml:"score"`
	Weight        float64          `json:"weight" yaml:"weight"`
	Required      bool             `json:"required" yaml:"required"`
	Message       string           `json:"message" yaml:"message"`
}

// ComponentEvaluation is the aggregated result for one component. Derived
// entirely from its criterion evaluations; never mutated after construction.
type ComponentEvaluation struct {
	Component            Component             `json:"component" yaml:"component"`
	Kind                 Kind                  `json:"kind" yaml:"kind"`
	OverallScore         float64               `json:"overall_score" yaml:"overall_score"`
	CompletionPercentage float64               `json:"completion_percentage" yaml:"completion_percentage"`
	Status               EvaluationStatus      `json:"status" yaml:"status"`
	CriterionEvaluations []CriterionEvaluation `json:"criterion_evaluations,omitempty" yaml:"criterion_evaluations,omitempty"`
	Issues               []string              `json:"issues,omitempty" yaml:"issues,omitempty"`
	Recommendations      []string              `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	MeetsMinimumScore    bool                  `json:"meets_minimum_score" yaml:"meets_minimum_score"`
	CriticalCriteriaPass bool                  `json:"critical_criteria_passed" yaml:"critical_criteria_passed"`
}
