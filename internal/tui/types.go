package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/hydraops/sysaudit/internal/audit"
	"github.com/hydraops/sysaudit/internal/report"
)

type Model struct {
	// Data
	summary *report.SystemSummary

	// UI State
	currentTab TabType
	width      int
	height     int

	scrollPositions   map[TabType]int
	issuesFilter      string
	selectedComponent int

	// Key bindings
	keys KeyMap
}

type TabType int

const (
	OverviewTab TabType = iota
	ComponentsTab
	IssuesTab
	DependenciesTab
)

type KeyMap struct {
	Tab1  key.Binding
	Tab2  key.Binding
	Tab3  key.Binding
	Tab4  key.Binding
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	Quit  key.Binding
}

func k(keys []string, help, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(help, desc),
	)
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:  k([]string{"1"}, "1", "overview"),
		Tab2:  k([]string{"2"}, "2", "components"),
		Tab3:  k([]string{"3"}, "3", "issues"),
		Tab4:  k([]string{"4"}, "4", "dependencies"),
		Left:  k([]string{"left", "h"}, "←/h", "prev filter"),
		Right: k([]string{"right", "l"}, "→/l", "next filter"),
		Up:    k([]string{"up", "k"}, "↑/k", "up"),
		Down:  k([]string{"down", "j"}, "↓/j", "down"),
		Quit:  k([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}

// issueFilters are the severity buckets the issues tab cycles through.
var issueFilters = []string{"critical", "failed", "warning"}

func statusStyle(status audit.EvaluationStatus) string {
	switch status {
	case audit.EvalPassed:
		return GoodStyle.Render(string(status))
	case audit.EvalWarning:
		return WarningStyle.Render(string(status))
	case audit.EvalFailed:
		return CriticalStyle.Render(string(status))
	default:
		return MutedStyle.Render(string(status))
	}
}
