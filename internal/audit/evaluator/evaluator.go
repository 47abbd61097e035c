// Package evaluator aggregates per-criterion validation results into one
// weighted completion score per component and classifies the outcome.
package evaluator

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hydraops/sysaudit/internal/audit"
	"github.com/hydraops/sysaudit/internal/audit/catalog"
	"github.com/hydraops/sysaudit/internal/audit/validator"
)

// ScorePolicy holds the aggregation knobs. The defaults encode the scoring
// contract; tests pin them so a knob change is a deliberate act.
type ScorePolicy struct {
	// CriticalFailurePenalty is the per-failure multiplicative reduction
	// applied for each required criterion that failed.
	CriticalFailurePenalty float64
	// MaxCriticalPenalty caps the total reduction from critical failures.
	MaxCriticalPenalty float64
	// HighPerformerBonus multiplies the base score when more than
	// HighPerformerShare of criteria scored at least HighScoreThreshold.
	HighPerformerBonus float64
	HighPerformerShare float64
	HighScoreThreshold float64
	// PassScore and WarnScore are the status ladder cutoffs.
	PassScore float64
	WarnScore float64
}

func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		CriticalFailurePenalty: 0.2,
		MaxCriticalPenalty:     0.8,
		HighPerformerBonus:     1.05,
		HighPerformerShare:     0.8,
		HighScoreThreshold:     0.9,
		PassScore:              0.8,
		WarnScore:              0.5,
	}
}

// CriterionValidator scores one criterion against one component. The
// filesystem-probing implementation lives in the validator package; tests
// substitute their own.
type CriterionValidator interface {
	Validate(ctx context.Context, comp audit.Component, crit catalog.Criterion) validator.Result
}

// Evaluator scores components against the criteria catalog.
type Evaluator struct {
	catalog     *catalog.Catalog
	validator   CriterionValidator
	classifier  *audit.Classifier
	policy      ScorePolicy
	parallelism int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

func WithPolicy(p ScorePolicy) Option {
	return func(e *Evaluator) { e.policy = p }
}

func WithClassifier(c *audit.Classifier) Option {
	return func(e *Evaluator) { e.classifier = c }
}

// WithParallelism bounds the worker count for EvaluateAll. Values below 1
// are ignored.
func WithParallelism(n int) Option {
	return func(e *Evaluator) {
		if n >= 1 {
			e.parallelism = n
		}
	}
}

func New(cat *catalog.Catalog, val CriterionValidator, opts ...Option) *Evaluator {
	e := &Evaluator{
		catalog:     cat,
		validator:   val,
		classifier:  audit.NewClassifier(nil),
		policy:      DefaultScorePolicy(),
		parallelism: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores one component. A component whose kind has no catalog entry
// gets a NotEvaluated result; that is a terminal outcome, not an error. A
// panic during scoring degrades this single component to NotEvaluated so a
// batch run always completes.
func (e *Evaluator) Evaluate(ctx context.Context, comp audit.Component) (ev audit.ComponentEvaluation) {
	kind := e.classifier.Classify(comp)

	defer func() {
		if r := recover(); r != nil {
			ev = notEvaluated(comp, kind, fmt.Sprintf("evaluation aborted: %v", r))
		}
	}()

	if kind == audit.KindUnknown {
		return notEvaluated(comp, kind, fmt.Sprintf("no criteria mapping for component %q", comp.Name))
	}
	set, ok := e.catalog.ForKind(kind)
	if !ok {
		return notEvaluated(comp, kind, fmt.Sprintf("no criteria set defined for kind %q", kind))
	}

	results := make([]audit.CriterionEvaluation, 0, len(set.Criteria))
	for _, crit := range set.Criteria {
		res := e.validator.Validate(ctx, comp, crit)
		results = append(results, audit.CriterionEvaluation{
			CriterionID:   crit.ID,
			CriterionName: crit.Name,
			Status:        res.Status,
			Score:         res.Score,
			Weight:        crit.Weight,
			Required:      crit.Required,
			Message:       res.Message,
		})
	}

	score := e.aggregate(results)
	meetsMin := score >= set.MinimumScore
	criticalPass := criticalCriteriaPassed(set.CriticalCriteria, results)

	var status audit.EvaluationStatus
	switch {
	case !criticalPass:
		status = audit.EvalFailed
	case meetsMin && score >= e.policy.PassScore:
		status = audit.EvalPassed
	case score >= e.policy.WarnScore:
		status = audit.EvalWarning
	default:
		status = audit.EvalFailed
	}

	return audit.ComponentEvaluation{
		Component:            comp,
		Kind:                 kind,
		OverallScore:         score,
		CompletionPercentage: score * 100,
		Status:               status,
		CriterionEvaluations: results,
		Issues:               buildIssues(set, results, score, meetsMin),
		Recommendations:      buildRecommendations(set, results),
		MeetsMinimumScore:    meetsMin,
		CriticalCriteriaPass: criticalPass,
	}
}

// EvaluateAll fans component evaluation out across a bounded worker pool.
// Each worker writes into its own result slot, so no mutex is needed and
// output order matches input order.
func (e *Evaluator) EvaluateAll(ctx context.Context, comps []audit.Component) []audit.ComponentEvaluation {
	if len(comps) == 0 {
		return nil
	}

	sem := make(chan struct{}, e.parallelism)
	out := make([]audit.ComponentEvaluation, len(comps))

	var wg sync.WaitGroup
	for i, comp := range comps {
		wg.Add(1)
		go func(i int, comp audit.Component) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = e.Evaluate(ctx, comp)
		}(i, comp)
	}
	wg.Wait()

	return out
}

// aggregate computes the weighted score with the critical-failure penalty
// and high-performer bonus applied, clamped to [0,1].
func (e *Evaluator) aggregate(results []audit.CriterionEvaluation) float64 {
	if len(results) == 0 {
		return 0.0
	}

	var weightedSum, weightSum float64
	for _, r := range results {
		weightedSum += r.Score * r.Weight
		weightSum += r.Weight
	}

	var base float64
	if weightSum > 0 {
		base = weightedSum / weightSum
	} else {
		var sum float64
		for _, r := range results {
			sum += r.Score
		}
		base = sum / float64(len(results))
	}

	criticalFailures := 0
	for _, r := range results {
		if r.Required && r.Status == audit.EvalFailed {
			criticalFailures++
		}
	}
	if criticalFailures > 0 {
		factor := 1.0 - e.policy.CriticalFailurePenalty*float64(criticalFailures)
		floor := 1.0 - e.policy.MaxCriticalPenalty
		if factor < floor {
			factor = floor
		}
		base *= factor
	}

	high := 0
	for _, r := range results {
		if r.Score >= e.policy.HighScoreThreshold {
			high++
		}
	}
	if float64(high) > e.policy.HighPerformerShare*float64(len(results)) {
		base *= e.policy.HighPerformerBonus
	}

	return clamp01(base)
}

func criticalCriteriaPassed(critical []string, results []audit.CriterionEvaluation) bool {
	byID := make(map[string]audit.EvaluationStatus, len(results))
	for _, r := range results {
		byID[r.CriterionID] = r.Status
	}
	for _, id := range critical {
		if byID[id] != audit.EvalPassed {
			return false
		}
	}
	return true
}

func notEvaluated(comp audit.Component, kind audit.Kind, reason string) audit.ComponentEvaluation {
	return audit.ComponentEvaluation{
		Component:            comp,
		Kind:                 kind,
		OverallScore:         0.0,
		CompletionPercentage: 0.0,
		Status:               audit.EvalNotEvaluated,
		Issues:               []string{reason},
		CriticalCriteriaPass: false,
	}
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
