// Package validator scores individual rubric criteria against a component.
// Every strategy is a pure function of the component, the criterion params,
// and read-only filesystem probes under the project root.
package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hydraops/sysaudit/internal/audit"
	"github.com/hydraops/sysaudit/internal/audit/catalog"
)

// Ratio-score thresholds shared by the quality, integration, and automation
// strategies.
const (
	ratioPassThreshold = 0.8
	ratioWarnThreshold = 0.5
)

// Credit given for a criterion that can only be judged by the component's
// reported operational status.
const (
	statusOperationalScore = 0.8
	statusDegradedScore    = 0.5
	statusUnknownScore     = 0.2
)

// Result is the outcome of validating one criterion.
type Result struct {
	Score   float64
	Status  audit.EvaluationStatus
	Message string
}

// Validator probes the project filesystem to score criteria. Root is the
// project directory under audit; all param paths are relative to it.
type Validator struct {
	Root string
}

func New(root string) *Validator {
	return &Validator{Root: root}
}

// Validate scores one criterion against one component. It never panics past
// its own boundary: any panic inside a strategy is converted to a failed
// result so a single bad probe cannot abort a batch evaluation.
func (v *Validator) Validate(ctx context.Context, comp audit.Component, crit catalog.Criterion) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Score: 0.0, Status: audit.EvalFailed, Message: fmt.Sprintf("validation error: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return Result{Score: 0.0, Status: audit.EvalFailed, Message: fmt.Sprintf("validation canceled: %v", err)}
	}

	switch crit.Method {
	case catalog.MethodExistence:
		return v.validateExistence(crit.Params)
	case catalog.MethodConfiguration:
		return v.validateConfiguration(crit.Params)
	case catalog.MethodFunctionality:
		return v.validateFunctionality(comp, crit.Params)
	case catalog.MethodQuality:
		return v.validateQuality(crit.Params)
	case catalog.MethodIntegration:
		return v.validateIntegration(crit.Params)
	case catalog.MethodDeployment:
		return v.validateDeployment(crit.Params)
	case catalog.MethodAutomation:
		return v.validateAutomation(crit.Params)
	}

	// No strategy for the method: fall back to the component's reported
	// operational status.
	return statusFallback(comp)
}

// validateExistence is a binary check: the named path (or any of a candidate
// list) exists, or it does not.
func (v *Validator) validateExistence(params map[string]any) Result {
	if file, ok := stringParam(params, "file"); ok {
		if v.exists(file) {
			return Result{1.0, audit.EvalPassed, fmt.Sprintf("file %s exists", file)}
		}
		return Result{0.0, audit.EvalFailed, fmt.Sprintf("file %s not found", file)}
	}

	if dir, ok := stringParam(params, "dir"); ok {
		if v.isDir(dir) {
			return Result{1.0, audit.EvalPassed, fmt.Sprintf("directory %s exists", dir)}
		}
		return Result{0.0, audit.EvalFailed, fmt.Sprintf("directory %s not found", dir)}
	}

	if candidates, ok := stringSliceParam(params, "any_of"); ok {
		var found []string
		for _, p := range candidates {
			if v.exists(p) {
				found = append(found, p)
			}
		}
		if len(found) > 0 {
			return Result{1.0, audit.EvalPassed, "found: " + strings.Join(found, ", ")}
		}
		return Result{0.0, audit.EvalFailed, "none of the expected paths found: " + strings.Join(candidates, ", ")}
	}

	return Result{0.5, audit.EvalWarning, "existence check has no recognizable parameters"}
}

// validateConfiguration parses a config file by extension and optionally
// verifies one key/value pair: exact match scores 1.0, key present with a
// different value scores 0.5, key or file absent scores 0.0.
func (v *Validator) validateConfiguration(params map[string]any) Result {
	file, ok := stringParam(params, "file")
	if !ok {
		return Result{0.5, audit.EvalWarning, "configuration check has no recognizable parameters"}
	}

	full := filepath.Join(v.Root, file)
	data, err := os.ReadFile(full)
	if err != nil {
		return Result{0.0, audit.EvalFailed, fmt.Sprintf("configuration file %s not found", file)}
	}

	cfg, parseErr := parseConfig(file, data)
	key, hasKey := stringParam(params, "key")

	if parseErr != nil {
		// Dockerfiles, env files, and nginx configs have no structured
		// decoder; fall back to a line scan for the key.
		if hasKey {
			if lineScanHasKey(data, key) {
				return Result{1.0, audit.EvalPassed, fmt.Sprintf("key %q present in %s", key, file)}
			}
			return Result{0.0, audit.EvalFailed, fmt.Sprintf("key %q not found in %s", key, file)}
		}
		return Result{0.8, audit.EvalPassed, fmt.Sprintf("configuration file %s is readable", file)}
	}

	if !hasKey {
		return Result{0.8, audit.EvalPassed, fmt.Sprintf("configuration file %s is valid", file)}
	}

	got, present := cfg[key]
	if !present {
		return Result{0.0, audit.EvalFailed, fmt.Sprintf("configuration key %q not found in %s", key, file)}
	}
	if want, hasWant := params["value"]; hasWant {
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return Result{0.5, audit.EvalWarning, fmt.Sprintf("configuration key %q has value %v, expected %v", key, got, want)}
		}
	}
	return Result{1.0, audit.EvalPassed, fmt.Sprintf("configuration key %q found with expected value", key)}
}

// validateFunctionality checks that a named hook implementation exists under
// the hooks directory; without hook params it falls back to the component's
// reported status.
func (v *Validator) validateFunctionality(comp audit.Component, params map[string]any) Result {
	hook, hasHook := stringParam(params, "hook")
	hooksDir, hasDir := stringParam(params, "hooks_dir")
	if !hasHook || !hasDir {
		return statusFallback(comp)
	}

	if !v.isDir(hooksDir) {
		return Result{0.0, audit.EvalFailed, fmt.Sprintf("hooks directory %s not found", hooksDir)}
	}

	found := false
	root := filepath.Join(v.Root, hooksDir)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.Contains(strings.ToLower(d.Name()), strings.ToLower(hook)) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})

	if found {
		return Result{1.0, audit.EvalPassed, fmt.Sprintf("hook implementation found for %s", hook)}
	}
	return Result{0.0, audit.EvalFailed, fmt.Sprintf("no hook implementation found for %s", hook)}
}

// validateQuality computes the share of scanned files that contain at least
// one indicator substring, then maps the ratio onto pass/warn/fail.
func (v *Validator) validateQuality(params map[string]any) Result {
	indicators, ok := stringSliceParam(params, "indicators")
	if !ok || len(indicators) == 0 {
		return Result{0.7, audit.EvalWarning, "quality check has no indicators configured"}
	}
	scanDirs, _ := stringSliceParam(params, "scan_dirs")
	scanExts, _ := stringSliceParam(params, "scan_exts")
	if len(scanDirs) == 0 {
		scanDirs = []string{"."}
	}

	matched, total := 0, 0
	for _, dir := range scanDirs {
		v.scanFiles(dir, scanExts, func(data []byte) {
			total++
			content := strings.ToLower(string(data))
			for _, ind := range indicators {
				if strings.Contains(content, strings.ToLower(ind)) {
					matched++
					break
				}
			}
		})
	}

	if total == 0 {
		return Result{0.0, audit.EvalFailed, fmt.Sprintf("no files to scan under %s", strings.Join(scanDirs, ", "))}
	}
	ratio := float64(matched) / float64(total)
	return ratioResult(ratio, fmt.Sprintf("indicators present in %d/%d files", matched, total))
}

// validateIntegration scores the fraction of expected wiring files that
// exist.
func (v *Validator) validateIntegration(params map[string]any) Result {
	name, _ := stringParam(params, "integration")
	checkFiles, ok := stringSliceParam(params, "check_files")
	if !ok || len(checkFiles) == 0 {
		return Result{0.6, audit.EvalWarning, "integration check has no files configured"}
	}

	found := 0
	for _, f := range checkFiles {
		if v.exists(f) {
			found++
		}
	}
	ratio := float64(found) / float64(len(checkFiles))
	return ratioResult(ratio, fmt.Sprintf("%s integration: %d/%d expected files present", name, found, len(checkFiles)))
}

// validateDeployment looks for environment-specific configuration under the
// conventional locations.
func (v *Validator) validateDeployment(params map[string]any) Result {
	env, ok := stringParam(params, "environment")
	if !ok {
		return Result{0.5, audit.EvalWarning, "deployment check has no environment configured"}
	}

	lower := strings.ToLower(env)
	candidates := []string{
		"configs/" + lower + ".yml",
		"configs/" + lower + ".yaml",
		"configs/" + lower + ".json",
		"configs/" + lower + ".toml",
		".env." + lower,
		"compose." + lower + ".yaml",
		"docker-compose." + lower + ".yml",
	}

	var found []string
	for _, c := range candidates {
		if v.exists(c) {
			found = append(found, c)
		}
	}
	if len(found) > 0 {
		return Result{1.0, audit.EvalPassed, fmt.Sprintf("%s deployment configuration found: %s", env, strings.Join(found, ", "))}
	}
	return Result{0.0, audit.EvalFailed, fmt.Sprintf("no %s deployment configuration found", env)}
}

// validateAutomation scores the fraction of indicator names that match some
// path in the project tree.
func (v *Validator) validateAutomation(params map[string]any) Result {
	feature, _ := stringParam(params, "feature")
	indicators, ok := stringSliceParam(params, "indicators")
	if !ok || len(indicators) == 0 {
		return Result{0.5, audit.EvalWarning, "automation check has no indicators configured"}
	}

	names := v.pathNames()
	found := 0
	for _, ind := range indicators {
		lower := strings.ToLower(ind)
		for _, n := range names {
			if strings.Contains(n, lower) {
				found++
				break
			}
		}
	}
	ratio := float64(found) / float64(len(indicators))
	return ratioResult(ratio, fmt.Sprintf("%s automation: %d/%d indicators found", feature, found, len(indicators)))
}

func ratioResult(ratio float64, detail string) Result {
	switch {
	case ratio >= ratioPassThreshold:
		return Result{ratio, audit.EvalPassed, detail}
	case ratio >= ratioWarnThreshold:
		return Result{ratio, audit.EvalWarning, detail + " (partial)"}
	default:
		return Result{ratio, audit.EvalFailed, detail + " (insufficient)"}
	}
}

func statusFallback(comp audit.Component) Result {
	switch comp.Status {
	case audit.StatusOperational:
		return Result{statusOperationalScore, audit.EvalPassed, "component is operational"}
	case audit.StatusDegraded:
		return Result{statusDegradedScore, audit.EvalWarning, "component is degraded"}
	default:
		return Result{statusUnknownScore, audit.EvalFailed, "component is not operational"}
	}
}

func (v *Validator) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(v.Root, rel))
	return err == nil
}

func (v *Validator) isDir(rel string) bool {
	info, err := os.Stat(filepath.Join(v.Root, rel))
	return err == nil && info.IsDir()
}

// scanFiles walks one directory and feeds each file with a matching
// extension to fn. An empty extension list matches every file.
func (v *Validator) scanFiles(dir string, exts []string, fn func(data []byte)) {
	root := filepath.Join(v.Root, dir)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if len(exts) > 0 && !matchExt(path, exts) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		fn(data)
		return nil
	})
}

// pathNames returns every relative path in the project tree, lowercased,
// skipping dot-directories other than the well-known automation ones.
func (v *Validator) pathNames() []string {
	var names []string
	_ = filepath.WalkDir(v.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() && strings.HasPrefix(name, ".") && name != "." && name != ".github" && name != ".vscode" {
			return filepath.SkipDir
		}
		rel, relErr := filepath.Rel(v.Root, path)
		if relErr == nil && rel != "." {
			names = append(names, strings.ToLower(filepath.ToSlash(rel)))
		}
		return nil
	})
	return names
}

func matchExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// parseConfig decodes a config file into a flat key map by extension.
// Unsupported extensions return an error so the caller can line-scan.
func parseConfig(file string, data []byte) (map[string]any, error) {
	cfg := make(map[string]any)
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no structured decoder for %s", file)
	}
	return cfg, nil
}

// lineScanHasKey matches "KEY=..." and "key: ..." style lines in env files
// and dockerfiles.
func lineScanHasKey(data []byte, key string) bool {
	lowerKey := strings.ToLower(key)
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(trimmed, lowerKey+"=") || strings.HasPrefix(trimmed, lowerKey+":") ||
			strings.HasPrefix(trimmed, lowerKey+" ") {
			return true
		}
	}
	return false
}

func stringParam(params map[string]any, key string) (string, bool) {
	val, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok && s != ""
}

// stringSliceParam tolerates the []any shape YAML decoding produces.
func stringSliceParam(params map[string]any, key string) ([]string, bool) {
	val, ok := params[key]
	if !ok {
		return nil, false
	}
	switch vs := val.(type) {
	case []string:
		return vs, true
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
