package graph

import (
	"fmt"

	"github.com/hydraops/sysaudit/internal/audit"
)

// InferenceRule declares a well-known dependency between component kinds:
// any source-kind component is assumed to depend on some target-kind
// component, whether or not the discovery data says so.
type InferenceRule struct {
	SourceKind  audit.Kind
	TargetKind  audit.Kind
	Type        DependencyType
	Description string
}

// DefaultInferenceRules returns the built-in relationship table for the
// component kinds the rubric knows about.
func DefaultInferenceRules() []InferenceRule {
	return []InferenceRule{
		{audit.KindNCAToolkit, audit.KindDatabase, DepRequired, "toolkit persists job state in the database"},
		{audit.KindNCAToolkit, audit.KindMinioStorage, DepRequired, "toolkit stores processed media in object storage"},
		{audit.KindGrafana, audit.KindPrometheus, DepRequired, "dashboards read metrics from Prometheus"},
		{audit.KindAffiliateMarketing, audit.KindDatabase, DepRequired, "affiliate tracking persists referrals in the database"},
		{audit.KindAffiliateMarketing, audit.KindNCAToolkit, DepOptional, "affiliate content pipeline uses the toolkit API"},
		{audit.KindRevenueStreams, audit.KindDatabase, DepRequired, "revenue tracking persists metrics in the database"},
		{audit.KindRevenueStreams, audit.KindAffiliateMarketing, DepOptional, "revenue rollups include affiliate earnings"},
		{audit.KindDeploymentScripts, audit.KindPodmanStack, DepRequired, "deployment scripts drive the container stack"},
		{audit.KindAgentHooks, audit.KindVSCodeTasks, DepOptional, "agent hooks run through editor task automation"},
	}
}

// Builder assembles a Graph from discovered components.
type Builder struct {
	classifier *audit.Classifier
	rules      []InferenceRule
}

func NewBuilder(classifier *audit.Classifier, rules []InferenceRule) *Builder {
	if classifier == nil {
		classifier = audit.NewClassifier(nil)
	}
	if rules == nil {
		rules = DefaultInferenceRules()
	}
	return &Builder{classifier: classifier, rules: rules}
}

// Build creates the dependency graph. Explicit dependency names that do not
// resolve to a known component still produce an edge, marked missing, so
// gaps stay visible downstream. Inferred edges are added when a component
// of the rule's target kind exists; an inferred edge never duplicates an
// explicit one to the same target.
func (b *Builder) Build(comps []audit.Component) *Graph {
	g := &Graph{
		Components: make(map[string]audit.Component, len(comps)),
		Edges:      make(map[string][]Dependency, len(comps)),
	}
	kinds := make(map[string]audit.Kind, len(comps))
	byKind := make(map[audit.Kind][]string)
	for _, c := range comps {
		g.Components[c.Name] = c
		k := b.classifier.Classify(c)
		kinds[c.Name] = k
		byKind[k] = append(byKind[k], c.Name)
	}

	for _, c := range comps {
		for _, depName := range c.Dependencies {
			target, known := g.Components[depName]
			edge := Dependency{
				Source: c.Name,
				Target: depName,
				Type:   DepRequired,
			}
			if known {
				edge.Status = edgeStatus(target.Status)
			} else {
				edge.Status = DepMissing
				edge.Description = fmt.Sprintf("declared dependency %q is not a known component", depName)
			}
			g.Edges[c.Name] = append(g.Edges[c.Name], edge)
		}

		for _, rule := range b.rules {
			if rule.SourceKind != kinds[c.Name] {
				continue
			}
			for _, targetName := range byKind[rule.TargetKind] {
				if targetName == c.Name || hasEdge(g.Edges[c.Name], targetName) {
					continue
				}
				g.Edges[c.Name] = append(g.Edges[c.Name], Dependency{
					Source:      c.Name,
					Target:      targetName,
					Type:        rule.Type,
					Status:      edgeStatus(g.Components[targetName].Status),
					Description: rule.Description,
				})
			}
		}
	}

	return g
}

func edgeStatus(target audit.ComponentStatus) DependencyStatus {
	switch target {
	case audit.StatusOperational:
		return DepSatisfied
	case audit.StatusDegraded:
		return DepDegraded
	default:
		return DepMissing
	}
}

func hasEdge(edges []Dependency, target string) bool {
	for _, e := range edges {
		if e.Target == target {
			return true
		}
	}
	return false
}
