package graph

import (
	"fmt"
	"sort"

	"github.com/hydraops/sysaudit/internal/audit"
)

// Health deductions applied by the analyzer.
const (
	missingPenaltyPerEdge  = 0.1
	conflictPenaltyPerPair = 0.15
	cyclePenaltyOverall    = 0.1
	missingPenaltyOverall  = 0.05
	conflictPenaltyOverall = 0.1

	requiredEdgeWeight = 1.0
	optionalEdgeWeight = 0.5
	degradedEdgeCredit = 0.5
)

// allowedLayerDeps is the permitted dependency direction between
// architectural layers. A category absent from the table is unconstrained;
// same-layer dependencies are always allowed.
var allowedLayerDeps = map[audit.ComponentCategory]map[audit.ComponentCategory]bool{
	audit.CategoryMonetization: {
		audit.CategoryInfrastructure: true,
		audit.CategoryAutomation:     true,
	},
	audit.CategoryAutomation: {
		audit.CategoryInfrastructure: true,
	},
	audit.CategoryInfrastructure: {},
}

// Analyzer derives cycles, gaps, conflicts, layer violations, and health
// scores from a built graph. It never mutates its input.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze runs every detection pass over the graph and returns a fresh
// result. An empty graph yields zero overall health rather than an error.
func (a *Analyzer) Analyze(g *Graph) *AnalysisResult {
	res := &AnalysisResult{
		Graph:                 g,
		CircularDependencies:  a.findCycles(g),
		MissingDependencies:   a.findMissing(g),
		ComponentHealthScores: make(map[string]float64, len(g.Components)),
	}
	res.ConflictingDeps = a.findConflicts(g)
	res.DependencyViolations = a.findLayerViolations(g)

	conflictCounts := make(map[string]int)
	for _, pair := range res.ConflictingDeps {
		conflictCounts[pair[0].Source]++
	}
	missingCounts := make(map[string]int)
	for _, dep := range res.MissingDependencies {
		missingCounts[dep.Source]++
	}

	var sum float64
	for name := range g.Components {
		score := a.componentHealth(g, name, missingCounts[name], conflictCounts[name])
		res.ComponentHealthScores[name] = score
		sum += score
	}

	if len(g.Components) == 0 {
		res.OverallHealth = 0.0
		return res
	}

	health := sum / float64(len(g.Components))
	health -= cyclePenaltyOverall * float64(len(res.CircularDependencies))
	health -= missingPenaltyOverall * float64(len(res.MissingDependencies))
	health -= conflictPenaltyOverall * float64(len(res.ConflictingDeps))
	res.OverallHealth = clamp01(health)
	return res
}

// findCycles runs a depth-first traversal from every unvisited node with an
// explicit recursion stack. Hitting a node already on the stack closes a
// cycle: the reported walk is the stack suffix from that node's first
// occurrence. Overlapping cycles may repeat nodes across groups; each
// reported group is a genuine closed walk.
func (a *Analyzer) findCycles(g *Graph) [][]string {
	var cycles [][]string
	visited := make(map[string]bool, len(g.Components))
	onStack := make(map[string]bool, len(g.Components))
	var stack []string

	var visit func(name string)
	visit = func(name string) {
		visited[name] = true
		onStack[name] = true
		stack = append(stack, name)

		for _, edge := range g.Edges[name] {
			if _, known := g.Components[edge.Target]; !known {
				continue
			}
			if onStack[edge.Target] {
				start := 0
				for i, n := range stack {
					if n == edge.Target {
						start = i
						break
					}
				}
				cycle := make([]string, len(stack)-start)
				copy(cycle, stack[start:])
				cycles = append(cycles, cycle)
				continue
			}
			if !visited[edge.Target] {
				visit(edge.Target)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[name] = false
	}

	for _, name := range sortedNames(g) {
		if !visited[name] {
			visit(name)
		}
	}
	return cycles
}

// findMissing collects every unsatisfied edge: edges already marked missing
// (unresolved declarations and failed targets) and required edges whose
// target is absent from the component set. Each edge is reported once.
func (a *Analyzer) findMissing(g *Graph) []Dependency {
	var missing []Dependency
	for _, name := range sortedNames(g) {
		for _, edge := range g.Edges[name] {
			_, known := g.Components[edge.Target]
			if edge.Status == DepMissing || (edge.Type == DepRequired && !known) {
				missing = append(missing, edge)
			}
		}
	}
	return missing
}

// findConflicts groups each source's outgoing edges by target and reports
// pairs whose version requirements disagree.
func (a *Analyzer) findConflicts(g *Graph) [][2]Dependency {
	var conflicts [][2]Dependency
	for _, name := range sortedNames(g) {
		byTarget := make(map[string][]Dependency)
		for _, edge := range g.Edges[name] {
			byTarget[edge.Target] = append(byTarget[edge.Target], edge)
		}
		targets := make([]string, 0, len(byTarget))
		for t := range byTarget {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			edges := byTarget[t]
			for i := 0; i < len(edges); i++ {
				for j := i + 1; j < len(edges); j++ {
					if edges[i].VersionRequirement != edges[j].VersionRequirement {
						conflicts = append(conflicts, [2]Dependency{edges[i], edges[j]})
					}
				}
			}
		}
	}
	return conflicts
}

// findLayerViolations checks every edge between known components against
// the allowed layer-direction table.
func (a *Analyzer) findLayerViolations(g *Graph) []string {
	var violations []string
	for _, name := range sortedNames(g) {
		source := g.Components[name]
		allowed, constrained := allowedLayerDeps[source.Category]
		if !constrained {
			continue
		}
		for _, edge := range g.Edges[name] {
			target, known := g.Components[edge.Target]
			if !known || target.Category == source.Category {
				continue
			}
			if !allowed[target.Category] {
				violations = append(violations, fmt.Sprintf(
					"%s (%s) must not depend on %s (%s)",
					edge.Source, source.Category, edge.Target, target.Category))
			}
		}
	}
	return violations
}

// componentHealth scores one component's outgoing dependencies: required
// edges weigh twice optional ones, degraded targets earn half credit, and
// each missing or conflicting dependency takes a flat deduction.
func (a *Analyzer) componentHealth(g *Graph, name string, missing, conflicts int) float64 {
	edges := g.Edges[name]

	base := 1.0
	if len(edges) > 0 {
		var creditSum, weightSum float64
		for _, edge := range edges {
			weight := optionalEdgeWeight
			if edge.Type == DepRequired {
				weight = requiredEdgeWeight
			}
			var credit float64
			switch edge.Status {
			case DepSatisfied:
				credit = 1.0
			case DepDegraded:
				credit = degradedEdgeCredit
			}
			creditSum += weight * credit
			weightSum += weight
		}
		base = creditSum / weightSum
	}

	base -= missingPenaltyPerEdge * float64(missing)
	base -= conflictPenaltyPerPair * float64(conflicts)
	return clamp01(base)
}

func sortedNames(g *Graph) []string {
	names := make([]string, 0, len(g.Components))
	for name := range g.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
