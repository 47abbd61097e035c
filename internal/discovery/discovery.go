// Package discovery produces the component inventory for an audit run. A
// project can declare its components in a sysaudit.yaml manifest; without
// one, discovery falls back to scanning the tree for well-known layouts.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hydraops/sysaudit/internal/audit"
)

// ManifestName is the component manifest looked up at the project root.
const ManifestName = "sysaudit.yaml"

// Manifest is the on-disk shape of sysaudit.yaml.
type Manifest struct {
	Components []audit.Component `yaml:"components"`
}

// Discover returns the component inventory for a project. A manifest, when
// present, is authoritative; otherwise the tree scan applies. Component
// names must be unique within a run.
func Discover(root string) ([]audit.Component, error) {
	manifestPath := filepath.Join(root, ManifestName)
	if data, err := os.ReadFile(manifestPath); err == nil {
		return fromManifest(data)
	}
	return scanTree(root)
}

func fromManifest(data []byte) ([]audit.Component, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestName, err)
	}

	seen := make(map[string]bool, len(m.Components))
	for i, c := range m.Components {
		if c.Name == "" {
			return nil, fmt.Errorf("%s: component %d has no name", ManifestName, i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%s: duplicate component name %q", ManifestName, c.Name)
		}
		seen[c.Name] = true
		if c.Status == "" {
			m.Components[i].Status = audit.StatusUnknown
		}
	}
	return m.Components, nil
}

// layoutProbe maps a well-known path to the component it implies.
type layoutProbe struct {
	path     string
	dir      bool
	name     string
	category audit.ComponentCategory
	desc     string
}

var probes = []layoutProbe{
	{path: "compose.yaml", name: "podman-stack", category: audit.CategoryInfrastructure, desc: "container stack"},
	{path: "podman-compose.yaml", name: "podman-stack", category: audit.CategoryInfrastructure, desc: "container stack"},
	{path: "docker-compose.yml", name: "podman-stack", category: audit.CategoryInfrastructure, desc: "container stack"},
	{path: "migrations", dir: true, name: "database", category: audit.CategoryInfrastructure, desc: "relational database"},
	{path: "configs/minio.yaml", name: "minio-storage", category: audit.CategoryInfrastructure, desc: "object storage"},
	{path: "monitoring/prometheus.yml", name: "prometheus", category: audit.CategoryInfrastructure, desc: "metrics collection"},
	{path: "monitoring/grafana", dir: true, name: "grafana", category: audit.CategoryInfrastructure, desc: "dashboards"},
	{path: "configs/affiliate.yaml", name: "affiliate-marketing", category: audit.CategoryMonetization, desc: "affiliate tracking"},
	{path: "configs/grants.yaml", name: "grant-tracking", category: audit.CategoryMonetization, desc: "grant pipeline"},
	{path: "configs/revenue.yaml", name: "revenue-streams", category: audit.CategoryMonetization, desc: "revenue tracking"},
	{path: "configs/payments.yaml", name: "payment-processing", category: audit.CategoryMonetization, desc: "payment provider"},
	{path: ".vscode/tasks.json", name: "vscode-tasks", category: audit.CategoryAutomation, desc: "editor task automation"},
	{path: "scripts", dir: true, name: "deployment-scripts", category: audit.CategoryAutomation, desc: "deployment scripting"},
	{path: "hooks", dir: true, name: "agent-hooks", category: audit.CategoryAutomation, desc: "agent hook automation"},
	{path: ".github/workflows", dir: true, name: "cicd-pipeline", category: audit.CategoryAutomation, desc: "CI/CD pipeline"},
	{path: "Makefile", name: "build-automation", category: audit.CategoryAutomation, desc: "build entry point"},
	{path: "tests", dir: true, name: "testing-automation", category: audit.CategoryTesting, desc: "test suite"},
}

// scanTree derives components from well-known file layouts. Discovered
// components start with Unknown status; the rubric, not discovery, judges
// their completeness.
func scanTree(root string) ([]audit.Component, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}

	byName := make(map[string]audit.Component)
	for _, p := range probes {
		info, err := os.Stat(filepath.Join(root, p.path))
		if err != nil || (p.dir && !info.IsDir()) {
			continue
		}
		if _, dup := byName[p.name]; dup {
			continue
		}
		byName[p.name] = audit.Component{
			Name:        p.name,
			Category:    p.category,
			Path:        p.path,
			Status:      audit.StatusUnknown,
			Description: p.desc,
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	comps := make([]audit.Component, 0, len(names))
	for _, name := range names {
		comps = append(comps, byName[name])
	}
	return comps, nil
}
