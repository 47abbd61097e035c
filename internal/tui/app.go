// Package tui is the interactive dashboard over an audit run: overview,
// per-component scores, issues by severity, and the dependency graph.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hydraops/sysaudit/internal/report"
)

func initialModel(summary *report.SystemSummary) *Model {
	return &Model{
		currentTab:      OverviewTab,
		summary:         summary,
		keys:            DefaultKeyMap(),
		scrollPositions: make(map[TabType]int),
		issuesFilter:    firstNonEmptyFilter(summary),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab1):
			m.currentTab = OverviewTab
		case key.Matches(msg, m.keys.Tab2):
			m.currentTab = ComponentsTab
		case key.Matches(msg, m.keys.Tab3):
			m.currentTab = IssuesTab
		case key.Matches(msg, m.keys.Tab4):
			m.currentTab = DependenciesTab

		case key.Matches(msg, m.keys.Left):
			return m.cycleFilter(-1)
		case key.Matches(msg, m.keys.Right):
			return m.cycleFilter(1)

		case key.Matches(msg, m.keys.Up):
			m.scroll(-1)
		case key.Matches(msg, m.keys.Down):
			m.scroll(1)
		}
	}

	return m, nil
}

func (m *Model) cycleFilter(dir int) (tea.Model, tea.Cmd) {
	if m.currentTab != IssuesTab {
		return m, nil
	}
	idx := 0
	for i, f := range issueFilters {
		if f == m.issuesFilter {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(issueFilters)) % len(issueFilters)
	m.issuesFilter = issueFilters[idx]
	m.scrollPositions[IssuesTab] = 0
	return m, nil
}

// scroll moves the cursor on the components tab and the scroll offset
// everywhere else. The upper scroll bound is enforced in rendering.
func (m *Model) scroll(dir int) {
	if m.currentTab == ComponentsTab {
		next := m.selectedComponent + dir
		if next >= 0 && next < len(m.summary.Evaluations) {
			m.selectedComponent = next
		}
		return
	}
	if next := m.scrollPositions[m.currentTab] + dir; next >= 0 {
		m.scrollPositions[m.currentTab] = next
	}
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.currentTab {
	case OverviewTab:
		content = m.renderOverview(m.width, m.height-7)
	case ComponentsTab:
		content = m.renderComponents(m.width, m.height-7)
	case IssuesTab:
		content = m.renderIssues(m.width, m.height-7)
	case DependenciesTab:
		content = m.renderDependencies(m.width, m.height-7)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderHelpBar(),
	)
}

func (m *Model) renderHelpBar() string {
	bindings := []key.Binding{
		m.keys.Tab1, m.keys.Tab2, m.keys.Tab3, m.keys.Tab4,
		m.keys.Left, m.keys.Right, m.keys.Up, m.keys.Down, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return HelpBarStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m *Model) renderHeader() string {
	tabIcons := []string{"📊", "📦", "⚠️", "🔗"}
	tabNames := []string{"Overview", "Components", "Issues", "Dependencies"}

	var tabs []string
	for i, name := range tabNames {
		style := TabInactiveStyle
		indicator := " "
		if TabType(i) == m.currentTab {
			style = TabActiveStyle
			indicator = "●"
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%s %s %s [%d]", indicator, tabIcons[i], name, i+1)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(tabs, "  "),
		strings.Repeat("─", m.width),
	)
}

// StartTUI runs the dashboard until the user quits.
func StartTUI(summary *report.SystemSummary) error {
	program := tea.NewProgram(
		initialModel(summary),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := program.Run()
	return err
}

func firstNonEmptyFilter(summary *report.SystemSummary) string {
	counts := issueCounts(summary)
	for _, f := range issueFilters {
		if counts[f] > 0 {
			return f
		}
	}
	return issueFilters[0]
}
