package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RenderJSON serializes the full summary, indented for direct file output.
func RenderJSON(s *SystemSummary) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}

// RenderYAML serializes the full summary as YAML.
func RenderYAML(s *SystemSummary) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}

// RenderMarkdown produces a report suitable for checking into a repo or
// pasting into an issue.
func RenderMarkdown(s *SystemSummary) []byte {
	var b strings.Builder

	b.WriteString("# System Completeness Audit\n\n")
	fmt.Fprintf(&b, "Project: `%s`  \n", s.ProjectRoot)
	fmt.Fprintf(&b, "Generated: %s  \n", s.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Components: %d\n\n", s.TotalComponents)

	fmt.Fprintf(&b, "**Overall completion: %.1f%%**  \n", s.OverallCompletion*100)
	fmt.Fprintf(&b, "**Dependency health: %.1f%%**\n\n", s.DependencyHealth*100)

	b.WriteString("## Categories\n\n")
	b.WriteString("| Category | Components | Avg Score | Passed | Warning | Failed |\n")
	b.WriteString("|----------|-----------:|----------:|-------:|--------:|-------:|\n")
	for _, cat := range s.Categories {
		fmt.Fprintf(&b, "| %s | %d | %.1f%% | %d | %d | %d |\n",
			cat.Category, cat.ComponentCount, cat.AverageScore*100,
			cat.PassedCount, cat.WarningCount, cat.FailedCount)
	}

	b.WriteString("\n## Components\n\n")
	for _, ev := range s.Evaluations {
		fmt.Fprintf(&b, "### %s (%s)\n\n", ev.Component.Name, ev.Kind)
		fmt.Fprintf(&b, "- Status: **%s**\n", ev.Status)
		fmt.Fprintf(&b, "- Completion: %.1f%%\n", ev.CompletionPercentage)
		if len(ev.Issues) > 0 {
			b.WriteString("- Issues:\n")
			for _, issue := range ev.Issues {
				fmt.Fprintf(&b, "  - %s\n", issue)
			}
		}
		if len(ev.Recommendations) > 0 {
			b.WriteString("- Recommendations:\n")
			for _, rec := range ev.Recommendations {
				fmt.Fprintf(&b, "  - %s\n", rec)
			}
		}
		b.WriteString("\n")
	}

	if a := s.Analysis; a != nil {
		b.WriteString("## Dependency Analysis\n\n")
		if len(a.CircularDependencies) > 0 {
			b.WriteString("### Circular dependencies\n\n")
			for _, cycle := range a.CircularDependencies {
				fmt.Fprintf(&b, "- %s\n", strings.Join(cycle, " → "))
			}
			b.WriteString("\n")
		}
		if len(a.MissingDependencies) > 0 {
			b.WriteString("### Missing dependencies\n\n")
			for _, dep := range a.MissingDependencies {
				fmt.Fprintf(&b, "- %s → %s (%s)\n", dep.Source, dep.Target, dep.Type)
			}
			b.WriteString("\n")
		}
		if len(a.DependencyViolations) > 0 {
			b.WriteString("### Layer violations\n\n")
			for _, v := range a.DependencyViolations {
				fmt.Fprintf(&b, "- %s\n", v)
			}
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}
