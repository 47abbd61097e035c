package report

import (
	"fmt"
	"strings"

	"github.com/hydraops/sysaudit/internal/audit"
	"github.com/hydraops/sysaudit/utils"
)

// PrintReport renders the summary to stdout in the requested format.
func PrintReport(s *SystemSummary, outputFormat string) {
	switch outputFormat {
	case "cli":
		printSummary(s)
	case "cli-more":
		printSummary(s)
		printDetails(s)
	default:
		fmt.Printf("Unknown output format '%s', using summary format\n\n", outputFormat)
		printSummary(s)
	}
}

func printSummary(s *SystemSummary) {
	fmt.Printf("🔍 System Completeness Audit\n")
	fmt.Printf("Project: %s  |  Components: %d\n", s.ProjectRoot, s.TotalComponents)
	fmt.Println(strings.Repeat("═", 65))

	fmt.Println("\n📈 COMPLETION SUMMARY")
	fmt.Println(strings.Repeat("─", 35))
	fmt.Printf("%s Overall Completion: %.1f%%\n",
		scoreIcon(s.OverallCompletion), s.OverallCompletion*100)
	fmt.Printf("%s Dependency Health:  %.1f%%\n",
		scoreIcon(s.DependencyHealth), s.DependencyHealth*100)

	fmt.Println("\n🗂️  CATEGORY BREAKDOWN")
	fmt.Println(strings.Repeat("─", 35))
	for _, cat := range s.Categories {
		fmt.Printf("%s %-16s %d components, %.1f%% avg (%d passed, %d warning, %d failed",
			scoreIcon(cat.AverageScore), cat.Category, cat.ComponentCount,
			cat.AverageScore*100, cat.PassedCount, cat.WarningCount, cat.FailedCount)
		if cat.NotEvaluatedCnt > 0 {
			fmt.Printf(", %d not evaluated", cat.NotEvaluatedCnt)
		}
		fmt.Println(")")
	}

	if s.Analysis != nil {
		fmt.Println("\n🔗 DEPENDENCY ANALYSIS")
		fmt.Println(strings.Repeat("─", 35))
		printAnalysisCounts(s)
	}

	fmt.Printf("\n🎯 Overall Assessment: %s\n", assessment(s.OverallCompletion))
}

func printAnalysisCounts(s *SystemSummary) {
	a := s.Analysis
	if len(a.CircularDependencies) > 0 {
		fmt.Printf("🔴 Circular dependencies: %d\n", len(a.CircularDependencies))
		for _, cycle := range a.CircularDependencies {
			fmt.Printf("   %s\n", utils.CriticalLightStyle.Render(strings.Join(cycle, " → ")))
		}
	} else {
		fmt.Println("✅ No circular dependencies")
	}
	if len(a.MissingDependencies) > 0 {
		fmt.Printf("🔴 Missing dependencies: %d\n", len(a.MissingDependencies))
		for _, dep := range a.MissingDependencies {
			fmt.Printf("   %s depends on %s (%s)\n", dep.Source, dep.Target, dep.Type)
		}
	}
	if len(a.ConflictingDeps) > 0 {
		fmt.Printf("🟡 Conflicting dependencies: %d\n", len(a.ConflictingDeps))
		for _, pair := range a.ConflictingDeps {
			fmt.Printf("   %s → %s: %q vs %q\n",
				pair[0].Source, pair[0].Target,
				pair[0].VersionRequirement, pair[1].VersionRequirement)
		}
	}
	if len(a.DependencyViolations) > 0 {
		fmt.Printf("🟡 Layer violations: %d\n", len(a.DependencyViolations))
		for _, v := range a.DependencyViolations {
			fmt.Printf("   %s\n", utils.WarningLightStyle.Render(v))
		}
	}
}

func printDetails(s *SystemSummary) {
	fmt.Println("\n📋 COMPONENT DETAILS")
	fmt.Println(strings.Repeat("═", 65))

	for _, ev := range s.Evaluations {
		fmt.Printf("\n%s %s (%s)\n", statusIcon(ev.Status), ev.Component.Name, ev.Kind)
		fmt.Println(strings.Repeat("─", 50))
		fmt.Printf("Completion:     %.1f%%\n", ev.CompletionPercentage)
		fmt.Printf("Status:         %s\n", ev.Status)
		fmt.Printf("Critical Pass:  %v\n", ev.CriticalCriteriaPass)

		for _, ce := range ev.CriterionEvaluations {
			fmt.Printf("  %s %-28s %.0f%% - %s\n",
				statusIcon(ce.Status), ce.CriterionName, ce.Score*100,
				utils.TruncateString(ce.Message, 60))
		}

		if len(ev.Issues) > 0 {
			fmt.Println("  Issues:")
			for _, issue := range ev.Issues {
				fmt.Printf("    • %s\n", styleIssue(issue))
			}
		}
		if len(ev.Recommendations) > 0 {
			fmt.Println("  Recommendations:")
			for _, rec := range ev.Recommendations {
				fmt.Printf("    → %s\n", rec)
			}
		}
	}
}

func styleIssue(issue string) string {
	prefix, _, ok := strings.Cut(issue, ":")
	if !ok {
		return issue
	}
	switch strings.ToLower(prefix) {
	case "critical", "failed", "warning":
		return utils.GetSeverityStyle(prefix).Render(issue)
	default:
		return issue
	}
}

func statusIcon(status audit.EvaluationStatus) string {
	switch status {
	case audit.EvalPassed:
		return "✅"
	case audit.EvalWarning:
		return "🟡"
	case audit.EvalFailed:
		return "🔴"
	default:
		return "⚪"
	}
}

func scoreIcon(score float64) string {
	switch {
	case score >= 0.8:
		return "✅"
	case score >= 0.5:
		return "🟡"
	default:
		return "🔴"
	}
}

func assessment(score float64) string {
	switch {
	case score >= 0.9:
		return "Excellent"
	case score >= 0.8:
		return "Good"
	case score >= 0.5:
		return "Needs Attention"
	default:
		return "Critical"
	}
}
