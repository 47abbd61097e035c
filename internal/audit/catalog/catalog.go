// Package catalog holds the audit rubric: per-kind criteria sets with
// weights, minimum scores, and critical criterion lists. The rubric itself
// is declarative data embedded at build time; the scoring engine never
// depends on which specific criteria are defined.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hydraops/sysaudit/internal/audit"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Method selects the validation strategy for a criterion.
type Method string

const (
	MethodExistence     Method = "existence"
	MethodConfiguration Method = "configuration"
	MethodFunctionality Method = "functionality"
	MethodQuality       Method = "quality"
	MethodIntegration   Method = "integration"
	MethodDeployment    Method = "deployment"
	MethodAutomation    Method = "automation"
)

// Criterion is one weighted check within a criteria set.
type Criterion struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Category    string         `yaml:"category,omitempty" json:"category,omitempty"`
	Weight      float64        `yaml:"weight" json:"weight"`
	Required    bool           `yaml:"required" json:"required"`
	Method      Method         `yaml:"method" json:"method"`
	Params      map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// ComponentCriteria is the complete criteria set for one component kind.
type ComponentCriteria struct {
	Kind             audit.Kind  `yaml:"kind" json:"kind"`
	MinimumScore     float64     `yaml:"minimum_score" json:"minimum_score"`
	CriticalCriteria []string    `yaml:"critical_criteria,omitempty" json:"critical_criteria,omitempty"`
	Criteria         []Criterion `yaml:"criteria" json:"criteria"`
}

// Catalog is the full rubric, indexed by component kind.
type Catalog struct {
	Sets []ComponentCriteria `yaml:"criteria_sets"`

	byKind map[audit.Kind]*ComponentCriteria
}

// New builds a catalog from in-memory criteria sets.
func New(sets ...ComponentCriteria) *Catalog {
	c := &Catalog{Sets: sets}
	c.index()
	return c
}

// Load parses a catalog from raw YAML.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing criteria catalog: %w", err)
	}
	c.index()
	return &c, nil
}

// Default returns the embedded rubric. The embedded file is part of the
// build, so a decode failure is a programming error.
func Default() *Catalog {
	c, err := Load(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

func (c *Catalog) index() {
	c.byKind = make(map[audit.Kind]*ComponentCriteria, len(c.Sets))
	for i := range c.Sets {
		c.byKind[c.Sets[i].Kind] = &c.Sets[i]
	}
}

// ForKind returns the criteria set for a component kind, if one is defined.
func (c *Catalog) ForKind(kind audit.Kind) (*ComponentCriteria, bool) {
	set, ok := c.byKind[kind]
	return set, ok
}

// Kinds returns every kind the catalog defines criteria for.
func (c *Catalog) Kinds() []audit.Kind {
	kinds := make([]audit.Kind, 0, len(c.Sets))
	for i := range c.Sets {
		kinds = append(kinds, c.Sets[i].Kind)
	}
	return kinds
}
