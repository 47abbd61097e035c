package tui

import (
	"fmt"
	"strings"

	"github.com/hydraops/sysaudit/internal/report"
)

// componentIssue pairs an issue string with the component that raised it.
type componentIssue struct {
	Component string
	Text      string
}

// renderIssues shows one severity bucket at a time, cycled with left/right.
func (m *Model) renderIssues(width, height int) string {
	counts := issueCounts(m.summary)

	var tabs []string
	for _, f := range issueFilters {
		label := fmt.Sprintf("%s (%d)", f, counts[f])
		if f == m.issuesFilter {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabInactiveStyle.Render(label))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	issues := filteredIssues(m.summary, m.issuesFilter)
	if len(issues) == 0 {
		b.WriteString(GoodStyle.Render("  ✓ nothing in this bucket"))
		return b.String()
	}

	offset := min(m.scrollPositions[IssuesTab], max(0, len(issues)-1))
	m.scrollPositions[IssuesTab] = offset

	style := WarningLightStyle
	switch m.issuesFilter {
	case "critical":
		style = CriticalStyle
	case "failed":
		style = CriticalLightStyle
	}

	for _, issue := range issues[offset:] {
		b.WriteString(fmt.Sprintf("  %-22s %s\n",
			MutedStyle.Render(issue.Component), style.Render(issue.Text)))
	}

	return clipToHeight(b.String(), height)
}

// renderDependencies shows the graph edges plus everything the analyzer
// flagged.
func (m *Model) renderDependencies(width, height int) string {
	a := m.summary.Analysis
	if a == nil {
		return MutedStyle.Render("  dependency analysis not available")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Dependency Health") + "\n\n")
	b.WriteString(fmt.Sprintf("  Overall: %s %5.1f%%\n\n",
		CreateProgressBar(a.OverallHealth, 30, scoreColor(a.OverallHealth)), a.OverallHealth*100))

	if len(a.CircularDependencies) > 0 {
		b.WriteString(CriticalStyle.Render("  Circular dependencies") + "\n")
		for _, cycle := range a.CircularDependencies {
			b.WriteString("    " + strings.Join(cycle, " → ") + "\n")
		}
		b.WriteString("\n")
	}

	if len(a.MissingDependencies) > 0 {
		b.WriteString(CriticalLightStyle.Render("  Missing dependencies") + "\n")
		for _, dep := range a.MissingDependencies {
			b.WriteString(fmt.Sprintf("    %s → %s (%s)\n", dep.Source, dep.Target, dep.Type))
		}
		b.WriteString("\n")
	}

	if len(a.DependencyViolations) > 0 {
		b.WriteString(WarningStyle.Render("  Layer violations") + "\n")
		for _, v := range a.DependencyViolations {
			b.WriteString("    " + v + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(TitleStyle.Render("Edges") + "\n")
	for _, ev := range m.summary.Evaluations {
		for _, dep := range a.Graph.Outgoing(ev.Component.Name) {
			icon := "✅"
			switch dep.Status {
			case "degraded":
				icon = "🟡"
			case "missing":
				icon = "🔴"
			}
			b.WriteString(fmt.Sprintf("  %s %s → %s (%s)\n", icon, dep.Source, dep.Target, dep.Type))
		}
	}

	offset := m.scrollPositions[DependenciesTab]
	lines := strings.Split(b.String(), "\n")
	if offset > max(0, len(lines)-height) {
		offset = max(0, len(lines)-height)
		m.scrollPositions[DependenciesTab] = offset
	}
	return clipToHeight(strings.Join(lines[offset:], "\n"), height)
}

func issueCounts(s *report.SystemSummary) map[string]int {
	counts := make(map[string]int, len(issueFilters))
	for _, f := range issueFilters {
		counts[f] = len(filteredIssues(s, f))
	}
	return counts
}

func filteredIssues(s *report.SystemSummary, filter string) []componentIssue {
	var out []componentIssue
	for _, ev := range s.Evaluations {
		for _, issue := range ev.Issues {
			bucket := "warning"
			switch {
			case strings.HasPrefix(issue, "CRITICAL:"):
				bucket = "critical"
			case strings.HasPrefix(issue, "FAILED:"):
				bucket = "failed"
			}
			if bucket == filter {
				out = append(out, componentIssue{Component: ev.Component.Name, Text: issue})
			}
		}
	}
	return out
}
