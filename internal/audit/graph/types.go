// Package graph builds and analyzes the dependency graph over discovered
// components: explicit dependency lists plus edges inferred from well-known
// component relationships, analyzed for cycles, gaps, conflicts, and layer
// violations.
package graph

import "github.com/hydraops/sysaudit/internal/audit"

// DependencyType classifies how strongly a source needs its target.
type DependencyType string

const (
	DepRequired DependencyType = "required"
	DepOptional DependencyType = "optional"
)

// DependencyStatus is the satisfaction state of one edge, derived from the
// target component's operational status.
type DependencyStatus string

const (
	DepSatisfied DependencyStatus = "satisfied"
	DepDegraded  DependencyStatus = "degraded"
	DepMissing   DependencyStatus = "missing"
)

// Dependency is one directed edge from Source to Target.
type Dependency struct {
	Source             string           `json:"source" yaml:"source"`
	Target             string           `json:"target" yaml:"target"`
	Type               DependencyType   `json:"type" yaml:"type"`
	Status             DependencyStatus `json:"status" yaml:"status"`
	VersionRequirement string           `json:"version_requirement,omitempty" yaml:"version_requirement,omitempty"`
	ConfigRequirements []string         `json:"config_requirements,omitempty" yaml:"config_requirements,omitempty"`
	Description        string           `json:"description,omitempty" yaml:"description,omitempty"`
}

// Graph is the full dependency graph for one audit run. Components are
// keyed by name; Edges holds each source's outgoing dependencies.
type Graph struct {
	Components map[string]audit.Component `json:"components" yaml:"components"`
	Edges      map[string][]Dependency    `json:"edges" yaml:"edges"`
}

// Outgoing returns the edges sourced at a component, nil if it has none.
func (g *Graph) Outgoing(name string) []Dependency {
	return g.Edges[name]
}

// AnalysisResult is everything the analyzer derives from one graph. The
// input graph is never mutated.
type AnalysisResult struct {
	Graph                 *Graph             `json:"-" yaml:"-"`
	CircularDependencies  [][]string         `json:"circular_dependencies,omitempty" yaml:"circular_dependencies,omitempty"`
	MissingDependencies   []Dependency       `json:"missing_dependencies,omitempty" yaml:"missing_dependencies,omitempty"`
	ConflictingDeps       [][2]Dependency    `json:"conflicting_dependencies,omitempty" yaml:"conflicting_dependencies,omitempty"`
	DependencyViolations  []string           `json:"dependency_violations,omitempty" yaml:"dependency_violations,omitempty"`
	ComponentHealthScores map[string]float64 `json:"component_health_scores" yaml:"component_health_scores"`
	OverallHealth         float64            `json:"overall_health" yaml:"overall_health"`
}
