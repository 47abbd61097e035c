package evaluator

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydraops/sysaudit/internal/audit"
	"github.com/hydraops/sysaudit/internal/audit/catalog"
	"github.com/hydraops/sysaudit/internal/audit/validator"
)

// scriptedValidator returns canned results keyed by criterion ID.
type scriptedValidator struct {
	results map[string]validator.Result
	calls   atomic.Int32
	panicOn string
}

func (s *scriptedValidator) Validate(_ context.Context, _ audit.Component, crit catalog.Criterion) validator.Result {
	s.calls.Add(1)
	if s.panicOn != "" && crit.ID == s.panicOn {
		panic("scripted validator failure")
	}
	if res, ok := s.results[crit.ID]; ok {
		return res
	}
	return validator.Result{Score: 1.0, Status: audit.EvalPassed, Message: "ok"}
}

func testCatalog(t *testing.T, set catalog.ComponentCriteria) *catalog.Catalog {
	t.Helper()
	c := catalog.New(set)
	require.Empty(t, c.Validate())
	return c
}

func dbSet(criteria []catalog.Criterion, critical ...string) catalog.ComponentCriteria {
	return catalog.ComponentCriteria{
		Kind:             audit.KindDatabase,
		MinimumScore:     0.7,
		CriticalCriteria: critical,
		Criteria:         criteria,
	}
}

func dbComponent() audit.Component {
	return audit.Component{Name: "database", Category: audit.CategoryInfrastructure, Status: audit.StatusOperational}
}

func passed(score float64) validator.Result {
	return validator.Result{Score: score, Status: audit.EvalPassed, Message: "ok"}
}

func failed(msg string) validator.Result {
	return validator.Result{Score: 0.0, Status: audit.EvalFailed, Message: msg}
}

func TestEvaluateWeightedAggregation(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 0.6, Method: catalog.MethodExistence},
		{ID: "b", Name: "B", Weight: 0.4, Method: catalog.MethodExistence},
	})
	val := &scriptedValidator{results: map[string]validator.Result{
		"a": passed(1.0),
		"b": {Score: 0.5, Status: audit.EvalWarning, Message: "partial"},
	}}

	e := New(testCatalog(t, set), val)
	ev := e.Evaluate(context.Background(), dbComponent())

	// 1.0*0.6 + 0.5*0.4 = 0.8
	assert.InDelta(t, 0.8, ev.OverallScore, 1e-9)
	assert.InDelta(t, 80.0, ev.CompletionPercentage, 1e-9)
	assert.Equal(t, audit.EvalPassed, ev.Status)
	assert.True(t, ev.MeetsMinimumScore)
	assert.True(t, ev.CriticalCriteriaPass)
	assert.Len(t, ev.CriterionEvaluations, 2)
}

func TestEvaluateCriticalFailurePenalty(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 0.5, Required: true, Method: catalog.MethodExistence},
		{ID: "b", Name: "B", Weight: 0.5, Method: catalog.MethodExistence},
	})
	val := &scriptedValidator{results: map[string]validator.Result{
		"a": failed("config missing"),
		"b": passed(1.0),
	}}

	e := New(testCatalog(t, set), val)
	ev := e.Evaluate(context.Background(), dbComponent())

	// base 0.5, one required failure: 0.5 * (1 - 0.2) = 0.4
	assert.InDelta(t, 0.4, ev.OverallScore, 1e-9)
	assert.Equal(t, audit.EvalFailed, ev.Status)
}

func TestEvaluatePenaltyCap(t *testing.T) {
	criteria := make([]catalog.Criterion, 10)
	results := make(map[string]validator.Result, 10)
	for i := range criteria {
		id := string(rune('a' + i))
		criteria[i] = catalog.Criterion{ID: id, Name: id, Weight: 0.1, Required: true, Method: catalog.MethodExistence}
		if i < 6 {
			results[id] = failed("missing")
		} else {
			results[id] = passed(1.0)
		}
	}

	e := New(testCatalog(t, dbSet(criteria)), &scriptedValidator{results: results})
	ev := e.Evaluate(context.Background(), dbComponent())

	// base 0.4 with six required failures: factor floors at 0.2, so 0.08.
	assert.InDelta(t, 0.08, ev.OverallScore, 1e-9)
}

func TestEvaluateHighPerformerBonus(t *testing.T) {
	criteria := make([]catalog.Criterion, 5)
	results := make(map[string]validator.Result, 5)
	for i := range criteria {
		id := string(rune('a' + i))
		criteria[i] = catalog.Criterion{ID: id, Name: id, Weight: 0.2, Method: catalog.MethodExistence}
		results[id] = passed(0.95)
	}

	e := New(testCatalog(t, dbSet(criteria)), &scriptedValidator{results: results})
	ev := e.Evaluate(context.Background(), dbComponent())

	// All five criteria ≥0.9: 0.95 * 1.05 = 0.9975
	assert.InDelta(t, 0.9975, ev.OverallScore, 1e-9)
}

func TestEvaluateBonusCappedAtOne(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 1.0, Method: catalog.MethodExistence},
	})

	e := New(testCatalog(t, set), &scriptedValidator{results: map[string]validator.Result{"a": passed(1.0)}})
	ev := e.Evaluate(context.Background(), dbComponent())

	assert.Equal(t, 1.0, ev.OverallScore)
}

func TestEvaluateCriticalCriteriaGateStatus(t *testing.T) {
	// High score, but a critical criterion only warned: status must be Failed.
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 0.5, Method: catalog.MethodExistence},
		{ID: "b", Name: "B", Weight: 0.5, Method: catalog.MethodExistence},
	}, "b")
	val := &scriptedValidator{results: map[string]validator.Result{
		"a": passed(1.0),
		"b": {Score: 0.9, Status: audit.EvalWarning, Message: "close"},
	}}

	e := New(testCatalog(t, set), val)
	ev := e.Evaluate(context.Background(), dbComponent())

	assert.False(t, ev.CriticalCriteriaPass)
	assert.Equal(t, audit.EvalFailed, ev.Status)
}

func TestEvaluateStatusLadder(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  audit.EvaluationStatus
	}{
		{"warning band", 0.6, audit.EvalWarning},
		{"failed band", 0.3, audit.EvalFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := dbSet([]catalog.Criterion{
				{ID: "a", Name: "A", Weight: 1.0, Method: catalog.MethodExistence},
			})
			val := &scriptedValidator{results: map[string]validator.Result{
				"a": {Score: tt.score, Status: audit.EvalWarning, Message: "partial"},
			}}

			e := New(testCatalog(t, set), val)
			ev := e.Evaluate(context.Background(), dbComponent())
			assert.Equal(t, tt.want, ev.Status)
		})
	}
}

func TestEvaluateUnknownKindNotEvaluated(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 1.0, Method: catalog.MethodExistence},
	})
	e := New(testCatalog(t, set), &scriptedValidator{})

	ev := e.Evaluate(context.Background(), audit.Component{Name: "mystery", Category: audit.CategoryDocumentation})

	assert.Equal(t, audit.EvalNotEvaluated, ev.Status)
	assert.Equal(t, audit.KindUnknown, ev.Kind)
	assert.Zero(t, ev.OverallScore)
	assert.NotEmpty(t, ev.Issues)
}

func TestEvaluateMissingCatalogEntryNotEvaluated(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 1.0, Method: catalog.MethodExistence},
	})
	e := New(testCatalog(t, set), &scriptedValidator{})

	// Classifies to a kind with no criteria set in this catalog.
	ev := e.Evaluate(context.Background(), audit.Component{Name: "grafana", Category: audit.CategoryInfrastructure})

	assert.Equal(t, audit.EvalNotEvaluated, ev.Status)
	assert.Equal(t, audit.KindGrafana, ev.Kind)
}

func TestEvaluatePanicDegradesSingleComponent(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 1.0, Method: catalog.MethodExistence},
	})
	val := &scriptedValidator{panicOn: "a"}
	e := New(testCatalog(t, set), val)

	evs := e.EvaluateAll(context.Background(), []audit.Component{
		dbComponent(),
		{Name: "mystery", Category: audit.CategoryDocumentation},
	})

	require.Len(t, evs, 2)
	for _, ev := range evs {
		assert.Equal(t, audit.EvalNotEvaluated, ev.Status)
	}
}

func TestEvaluateAllCoversEveryComponent(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 1.0, Method: catalog.MethodExistence},
	})
	val := &scriptedValidator{}
	e := New(testCatalog(t, set), val, WithParallelism(2))

	comps := []audit.Component{
		{Name: "db-1", Category: audit.CategoryInfrastructure, Status: audit.StatusOperational},
		{Name: "db-2", Category: audit.CategoryInfrastructure, Status: audit.StatusOperational},
		{Name: "db-3", Category: audit.CategoryInfrastructure, Status: audit.StatusOperational},
	}
	evs := e.EvaluateAll(context.Background(), comps)

	require.Len(t, evs, 3)
	seen := make(map[string]bool)
	for _, ev := range evs {
		seen[ev.Component.Name] = true
		assert.Equal(t, audit.EvalPassed, ev.Status)
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, int32(3), val.calls.Load())
}

func TestEvaluateAllEmptyInput(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "A", Weight: 1.0, Method: catalog.MethodExistence},
	})
	e := New(testCatalog(t, set), &scriptedValidator{})

	assert.Nil(t, e.EvaluateAll(context.Background(), nil))
}

func TestEvaluateIssuesAndRecommendations(t *testing.T) {
	set := dbSet([]catalog.Criterion{
		{ID: "a", Name: "Config present", Weight: 0.5, Required: true, Method: catalog.MethodExistence,
			Params: map[string]any{"file": "configs/database.yaml"}},
		{ID: "b", Name: "Backups automated", Weight: 0.5, Method: catalog.MethodAutomation,
			Params: map[string]any{"feature": "backup"}},
	}, "a")
	val := &scriptedValidator{results: map[string]validator.Result{
		"a": failed("configs/database.yaml not found"),
		"b": {Score: 0.6, Status: audit.EvalWarning, Message: "partial automation"},
	}}

	e := New(testCatalog(t, set), val)
	ev := e.Evaluate(context.Background(), dbComponent())

	require.NotEmpty(t, ev.Issues)
	assert.Contains(t, ev.Issues[0], "CRITICAL: Config present")

	require.NotEmpty(t, ev.Recommendations)
	assert.Contains(t, ev.Recommendations[0], "[CRITICAL] create missing file configs/database.yaml")

	foundWarning := false
	for _, rec := range ev.Recommendations {
		if rec == "[IMPROVE] Backups automated: partial automation" {
			foundWarning = true
		}
	}
	assert.True(t, foundWarning, "recommendations: %v", ev.Recommendations)
}

func TestDefaultScorePolicyValues(t *testing.T) {
	p := DefaultScorePolicy()

	assert.Equal(t, 0.2, p.CriticalFailurePenalty)
	assert.Equal(t, 0.8, p.MaxCriticalPenalty)
	assert.Equal(t, 1.05, p.HighPerformerBonus)
	assert.Equal(t, 0.8, p.HighPerformerShare)
	assert.Equal(t, 0.9, p.HighScoreThreshold)
	assert.Equal(t, 0.8, p.PassScore)
	assert.Equal(t, 0.5, p.WarnScore)
}
