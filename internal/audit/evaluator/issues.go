package evaluator

import (
	"fmt"

	"github.com/hydraops/sysaudit/internal/audit"
	"github.com/hydraops/sysaudit/internal/audit/catalog"
)

// buildIssues renders human-readable problems in priority order: critical
// failures, minimum-score miss, remaining failures, then warnings.
func buildIssues(set *catalog.ComponentCriteria, results []audit.CriterionEvaluation, score float64, meetsMin bool) []string {
	var issues []string

	for _, r := range results {
		if r.Required && r.Status == audit.EvalFailed {
			issues = append(issues, fmt.Sprintf("CRITICAL: %s - %s", r.CriterionName, r.Message))
		}
	}

	if !meetsMin {
		issues = append(issues, fmt.Sprintf("component score (%.0f%%) below minimum threshold (%.0f%%)",
			score*100, set.MinimumScore*100))
	}

	for _, r := range results {
		if !r.Required && r.Status == audit.EvalFailed {
			issues = append(issues, fmt.Sprintf("FAILED: %s - %s", r.CriterionName, r.Message))
		}
	}

	for _, r := range results {
		if r.Status == audit.EvalWarning {
			issues = append(issues, fmt.Sprintf("WARNING: %s - %s", r.CriterionName, r.Message))
		}
	}

	return issues
}

// buildRecommendations emits one parameter-aware suggestion per failed or
// warning criterion, critical failures first.
func buildRecommendations(set *catalog.ComponentCriteria, results []audit.CriterionEvaluation) []string {
	params := make(map[string]map[string]any, len(set.Criteria))
	for _, crit := range set.Criteria {
		params[crit.ID] = crit.Params
	}

	var recs []string
	for _, r := range results {
		if r.Required && r.Status == audit.EvalFailed {
			recs = append(recs, recommend(r, params[r.CriterionID], "CRITICAL"))
		}
	}
	for _, r := range results {
		if !r.Required && r.Status == audit.EvalFailed {
			recs = append(recs, recommend(r, params[r.CriterionID], "HIGH"))
		}
	}
	for _, r := range results {
		if r.Status == audit.EvalWarning {
			recs = append(recs, recommend(r, params[r.CriterionID], "IMPROVE"))
		}
	}
	return recs
}

func recommend(r audit.CriterionEvaluation, params map[string]any, priority string) string {
	if file, ok := params["file"].(string); ok && file != "" {
		return fmt.Sprintf("[%s] create missing file %s for %s", priority, file, r.CriterionName)
	}
	if dir, ok := params["dir"].(string); ok && dir != "" {
		return fmt.Sprintf("[%s] create missing directory %s for %s", priority, dir, r.CriterionName)
	}
	if hook, ok := params["hook"].(string); ok && hook != "" {
		return fmt.Sprintf("[%s] implement the %s hook for %s", priority, hook, r.CriterionName)
	}
	if integ, ok := params["integration"].(string); ok && integ != "" {
		return fmt.Sprintf("[%s] configure %s integration for %s", priority, integ, r.CriterionName)
	}
	if env, ok := params["environment"].(string); ok && env != "" {
		return fmt.Sprintf("[%s] set up %s environment configuration for %s", priority, env, r.CriterionName)
	}
	return fmt.Sprintf("[%s] %s: %s", priority, r.CriterionName, r.Message)
}
