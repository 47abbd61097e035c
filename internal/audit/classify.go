package audit

import "strings"

// Kind is the concrete component kind used to look up criteria sets and
// dependency inference rules. Unknown means no rubric applies.
type Kind string

const (
	KindNCAToolkit           Kind = "nca_toolkit"
	KindPodmanStack          Kind = "podman_stack"
	KindDatabase             Kind = "database"
	KindMinioStorage         Kind = "minio_storage"
	KindPrometheus           Kind = "prometheus"
	KindGrafana              Kind = "grafana"
	KindNetworking           Kind = "networking"
	KindAffiliateMarketing   Kind = "affiliate_marketing"
	KindGrantTracking        Kind = "grant_tracking"
	KindRevenueStreams       Kind = "revenue_streams"
	KindPaymentProcessing    Kind = "payment_processing"
	KindAnalyticsTracking    Kind = "analytics_tracking"
	KindVSCodeTasks          Kind = "vscode_tasks"
	KindDeploymentScripts    Kind = "deployment_scripts"
	KindAgentHooks           Kind = "agent_hooks"
	KindCICDPipeline         Kind = "cicd_pipeline"
	KindBuildAutomation      Kind = "build_automation"
	KindTestingAutomation    Kind = "testing_automation"
	KindMonitoringAutomation Kind = "monitoring_automation"
	KindUnknown              Kind = "unknown"
)

// KeywordRule maps free-text name/path keywords to a component kind. Rules
// are evaluated in order; the first match wins. An empty Category matches
// any category.
type KeywordRule struct {
	Kind         Kind
	Category     ComponentCategory
	NameKeywords []string
	PathKeywords []string
}

// DefaultKeywordTable returns the built-in keyword rules. Path keywords are
// checked before name keywords within a rule because paths are the more
// reliable signal for automation components.
func DefaultKeywordTable() []KeywordRule {
	return []KeywordRule{
		{Kind: KindNCAToolkit, Category: CategoryInfrastructure, NameKeywords: []string{"nca", "toolkit"}},
		{Kind: KindPodmanStack, Category: CategoryInfrastructure, NameKeywords: []string{"podman", "container"}},
		{Kind: KindDatabase, Category: CategoryInfrastructure, NameKeywords: []string{"database", "postgres"}},
		{Kind: KindMinioStorage, Category: CategoryInfrastructure, NameKeywords: []string{"minio", "s3"}},
		{Kind: KindPrometheus, Category: CategoryInfrastructure, NameKeywords: []string{"prometheus"}},
		{Kind: KindGrafana, Category: CategoryInfrastructure, NameKeywords: []string{"grafana"}},
		{Kind: KindNetworking, Category: CategoryInfrastructure, NameKeywords: []string{"network", "proxy"}},

		{Kind: KindAffiliateMarketing, Category: CategoryMonetization, NameKeywords: []string{"affiliate"}},
		{Kind: KindGrantTracking, Category: CategoryMonetization, NameKeywords: []string{"grant"}},
		{Kind: KindRevenueStreams, Category: CategoryMonetization, NameKeywords: []string{"revenue"}},
		{Kind: KindPaymentProcessing, Category: CategoryMonetization, NameKeywords: []string{"payment"}},
		{Kind: KindAnalyticsTracking, Category: CategoryMonetization, NameKeywords: []string{"analytics"}},

		{Kind: KindVSCodeTasks, Category: CategoryAutomation, NameKeywords: []string{"vscode", "vs code", "ide"}, PathKeywords: []string{".vscode"}},
		{Kind: KindAgentHooks, Category: CategoryAutomation, NameKeywords: []string{"hook"}, PathKeywords: []string{"hooks"}},
		{Kind: KindCICDPipeline, Category: CategoryAutomation, NameKeywords: []string{"cicd", "pipeline"}, PathKeywords: []string{".github"}},
		{Kind: KindDeploymentScripts, Category: CategoryAutomation, NameKeywords: []string{"deployment"}, PathKeywords: []string{"scripts"}},
		{Kind: KindBuildAutomation, Category: CategoryAutomation, NameKeywords: []string{"build"}},
		{Kind: KindTestingAutomation, Category: CategoryAutomation, NameKeywords: []string{"test"}},
		{Kind: KindTestingAutomation, Category: CategoryTesting, NameKeywords: []string{"test"}},
		{Kind: KindMonitoringAutomation, Category: CategoryAutomation, NameKeywords: []string{"monitor"}},
	}
}

// Classifier resolves a component to its kind using an injectable keyword
// table, so the matching behavior is testable independent of the rubric.
type Classifier struct {
	rules []KeywordRule
}

func NewClassifier(rules []KeywordRule) *Classifier {
	if rules == nil {
		rules = DefaultKeywordTable()
	}
	return &Classifier{rules: rules}
}

// Classify returns the kind for a component, or KindUnknown when no rule
// matches. Matching is case-insensitive over name and path.
func (c *Classifier) Classify(comp Component) Kind {
	name := strings.ToLower(comp.Name)
	path := strings.ToLower(comp.Path)

	for _, rule := range c.rules {
		if rule.Category != "" && rule.Category != comp.Category {
			continue
		}
		if matchAny(path, rule.PathKeywords) || matchAny(name, rule.NameKeywords) {
			return rule.Kind
		}
	}

	// Automation components without a specific match default to VS Code
	// tasks, mirroring how the rubric treats generic editor automation.
	if comp.Category == CategoryAutomation {
		return KindVSCodeTasks
	}

	return KindUnknown
}

func matchAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
