// Package report rolls evaluation and dependency-analysis output into a
// system summary and renders it as cli, json, yaml, markdown, or html.
package report

import (
	"sort"
	"time"

	"github.com/hydraops/sysaudit/internal/audit"
	"github.com/hydraops/sysaudit/internal/audit/graph"
)

// CategorySummary is the completion rollup for one architectural layer.
type CategorySummary struct {
	Category        audit.ComponentCategory `json:"category" yaml:"category"`
	ComponentCount  int                     `json:"component_count" yaml:"component_count"`
	AverageScore    float64                 `json:"average_score" yaml:"average_score"`
	PassedCount     int                     `json:"passed_count" yaml:"passed_count"`
	WarningCount    int                     `json:"warning_count" yaml:"warning_count"`
	FailedCount     int                     `json:"failed_count" yaml:"failed_count"`
	NotEvaluatedCnt int                     `json:"not_evaluated_count" yaml:"not_evaluated_count"`
}

// SystemSummary is the full audit rollup handed to every renderer.
type SystemSummary struct {
	GeneratedAt       time.Time                   `json:"generated_at" yaml:"generated_at"`
	ProjectRoot       string                      `json:"project_root" yaml:"project_root"`
	TotalComponents   int                         `json:"total_components" yaml:"total_components"`
	OverallCompletion float64                     `json:"overall_completion" yaml:"overall_completion"`
	DependencyHealth  float64                     `json:"dependency_health" yaml:"dependency_health"`
	Categories        []CategorySummary           `json:"categories" yaml:"categories"`
	Evaluations       []audit.ComponentEvaluation `json:"evaluations" yaml:"evaluations"`
	Analysis          *graph.AnalysisResult       `json:"dependency_analysis,omitempty" yaml:"dependency_analysis,omitempty"`
}

// BuildSummary computes the rollup. Evaluations are sorted by component
// name so every renderer emits deterministic output.
func BuildSummary(root string, evals []audit.ComponentEvaluation, analysis *graph.AnalysisResult) *SystemSummary {
	sorted := make([]audit.ComponentEvaluation, len(evals))
	copy(sorted, evals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Component.Name < sorted[j].Component.Name
	})

	byCategory := make(map[audit.ComponentCategory]*CategorySummary)
	var scoreSum float64
	scored := 0
	for _, ev := range sorted {
		cat := ev.Component.Category
		cs, ok := byCategory[cat]
		if !ok {
			cs = &CategorySummary{Category: cat}
			byCategory[cat] = cs
		}
		cs.ComponentCount++
		switch ev.Status {
		case audit.EvalPassed:
			cs.PassedCount++
		case audit.EvalWarning:
			cs.WarningCount++
		case audit.EvalFailed:
			cs.FailedCount++
		case audit.EvalNotEvaluated:
			cs.NotEvaluatedCnt++
		}
		if ev.Status != audit.EvalNotEvaluated {
			cs.AverageScore += ev.OverallScore
			scoreSum += ev.OverallScore
			scored++
		}
	}

	categories := make([]CategorySummary, 0, len(byCategory))
	for _, cs := range byCategory {
		evaluated := cs.ComponentCount - cs.NotEvaluatedCnt
		if evaluated > 0 {
			cs.AverageScore /= float64(evaluated)
		}
		categories = append(categories, *cs)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})

	s := &SystemSummary{
		GeneratedAt:     time.Now(),
		ProjectRoot:     root,
		TotalComponents: len(sorted),
		Categories:      categories,
		Evaluations:     sorted,
		Analysis:        analysis,
	}
	if scored > 0 {
		s.OverallCompletion = scoreSum / float64(scored)
	}
	if analysis != nil {
		s.DependencyHealth = analysis.OverallHealth
	}
	return s
}
