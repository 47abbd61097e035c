package catalog

import (
	"fmt"
	"math"
)

// WeightSumTolerance is the allowed drift of a criteria set's weight sum
// from 1.0. Rubric weights are authored by hand, so small rounding slack is
// tolerated; anything beyond it is an authoring defect.
const WeightSumTolerance = 0.01

// Validate checks the catalog for authoring defects: weight sums off 1.0,
// critical criteria referencing undefined IDs, duplicate criterion IDs,
// weights outside (0,1], and duplicate kinds. It returns one human-readable
// string per defect; an empty slice means the catalog is sound. This runs at
// startup and in tests, never during evaluation.
func (c *Catalog) Validate() []string {
	var defects []string

	seenKinds := make(map[string]bool)
	for _, set := range c.Sets {
		kind := string(set.Kind)
		if seenKinds[kind] {
			defects = append(defects, fmt.Sprintf("%s: duplicate criteria set", kind))
		}
		seenKinds[kind] = true

		if len(set.Criteria) == 0 {
			defects = append(defects, fmt.Sprintf("%s: criteria set is empty", kind))
			continue
		}

		if set.MinimumScore < 0 || set.MinimumScore > 1 {
			defects = append(defects, fmt.Sprintf("%s: minimum score %.2f outside [0,1]", kind, set.MinimumScore))
		}

		ids := make(map[string]bool, len(set.Criteria))
		var weightSum float64
		for _, crit := range set.Criteria {
			if ids[crit.ID] {
				defects = append(defects, fmt.Sprintf("%s: duplicate criterion id %q", kind, crit.ID))
			}
			ids[crit.ID] = true

			if crit.Weight <= 0 || crit.Weight > 1 {
				defects = append(defects, fmt.Sprintf("%s: criterion %q weight %.3f outside (0,1]", kind, crit.ID, crit.Weight))
			}
			weightSum += crit.Weight

			if !knownMethod(crit.Method) {
				defects = append(defects, fmt.Sprintf("%s: criterion %q has unknown method %q", kind, crit.ID, crit.Method))
			}
		}

		if math.Abs(weightSum-1.0) > WeightSumTolerance {
			defects = append(defects, fmt.Sprintf("%s: criterion weights sum to %.3f, want 1.0 ±%.2f", kind, weightSum, WeightSumTolerance))
		}

		for _, id := range set.CriticalCriteria {
			if !ids[id] {
				defects = append(defects, fmt.Sprintf("%s: critical criterion %q is not defined in the set", kind, id))
			}
		}
	}

	return defects
}

func knownMethod(m Method) bool {
	switch m {
	case MethodExistence, MethodConfiguration, MethodFunctionality,
		MethodQuality, MethodIntegration, MethodDeployment, MethodAutomation:
		return true
	}
	return false
}
