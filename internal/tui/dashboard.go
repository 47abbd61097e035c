package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// renderOverview shows the system-level rollup: headline scores and a bar
// chart of per-category completion.
func (m *Model) renderOverview(width, height int) string {
	s := m.summary

	var b strings.Builder
	b.WriteString(TitleStyle.Render("System Completeness") + "\n\n")

	barWidth := min(40, width-30)
	b.WriteString(fmt.Sprintf("  Overall Completion  %s %5.1f%%\n",
		CreateProgressBar(s.OverallCompletion, barWidth, scoreColor(s.OverallCompletion)),
		s.OverallCompletion*100))
	b.WriteString(fmt.Sprintf("  Dependency Health   %s %5.1f%%\n\n",
		CreateProgressBar(s.DependencyHealth, barWidth, scoreColor(s.DependencyHealth)),
		s.DependencyHealth*100))

	b.WriteString(TitleStyle.Render("Completion by Category") + "\n\n")
	b.WriteString(m.renderCategoryChart(width, height-10))

	return b.String()
}

// renderCategoryChart draws per-category average scores as a bar chart.
func (m *Model) renderCategoryChart(width, height int) string {
	if len(m.summary.Categories) == 0 {
		return MutedStyle.Render("  no components discovered")
	}

	chartHeight := max(6, min(height, 12))
	chart := barchart.New(min(width-4, 70), chartHeight)

	for _, cat := range m.summary.Categories {
		chart.Push(barchart.BarData{
			Label: string(cat.Category),
			Values: []barchart.BarValue{{
				Name:  string(cat.Category),
				Value: cat.AverageScore * 100,
				Style: lipgloss.NewStyle().Foreground(scoreColor(cat.AverageScore)),
			}},
		})
	}
	chart.Draw()

	return chart.View()
}

// renderComponents lists every evaluation with the selected one expanded.
func (m *Model) renderComponents(width, height int) string {
	evals := m.summary.Evaluations
	if len(evals) == 0 {
		return MutedStyle.Render("  no components discovered")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Components") + "\n\n")

	for i, ev := range evals {
		cursor := "  "
		if i == m.selectedComponent {
			cursor = InfoStyle.Render("▶ ")
		}
		bar := CreateProgressBar(ev.OverallScore, 20, scoreColor(ev.OverallScore))
		b.WriteString(fmt.Sprintf("%s%-24s %s %5.1f%%  %s\n",
			cursor, ev.Component.Name, bar, ev.CompletionPercentage, statusStyle(ev.Status)))
	}

	if m.selectedComponent < len(evals) {
		ev := evals[m.selectedComponent]
		b.WriteString("\n" + TitleStyle.Render(ev.Component.Name) + "\n")
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  kind: %s  category: %s  path: %s\n",
			ev.Kind, ev.Component.Category, ev.Component.Path)))
		for _, ce := range ev.CriterionEvaluations {
			b.WriteString(fmt.Sprintf("  %-28s %5.0f%%  %s\n",
				ce.CriterionName, ce.Score*100, statusStyle(ce.Status)))
		}
	}

	return clipToHeight(b.String(), height)
}

func clipToHeight(s string, height int) string {
	if height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	return strings.Join(lines[:height], "\n")
}
