package validator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydraops/sysaudit/internal/audit"
	"github.com/hydraops/sysaudit/internal/audit/catalog"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func crit(method catalog.Method, params map[string]any) catalog.Criterion {
	return catalog.Criterion{ID: "c", Name: "check", Weight: 1.0, Method: method, Params: params}
}

func TestValidateExistence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "compose.yaml", "services: {}\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "migrations"), 0755))

	v := New(root)
	ctx := context.Background()
	comp := audit.Component{Name: "db"}

	tests := []struct {
		name       string
		params     map[string]any
		wantScore  float64
		wantStatus audit.EvaluationStatus
	}{
		{"file present", map[string]any{"file": "compose.yaml"}, 1.0, audit.EvalPassed},
		{"file absent", map[string]any{"file": "nope.yaml"}, 0.0, audit.EvalFailed},
		{"dir present", map[string]any{"dir": "migrations"}, 1.0, audit.EvalPassed},
		{"dir absent", map[string]any{"dir": "nope"}, 0.0, audit.EvalFailed},
		{"file is not a dir", map[string]any{"dir": "compose.yaml"}, 0.0, audit.EvalFailed},
		{"any_of one present", map[string]any{"any_of": []any{"nope.yml", "compose.yaml"}}, 1.0, audit.EvalPassed},
		{"any_of none present", map[string]any{"any_of": []any{"a.yml", "b.yml"}}, 0.0, audit.EvalFailed},
		{"no params", map[string]any{}, 0.5, audit.EvalWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(ctx, comp, crit(catalog.MethodExistence, tt.params))
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestValidateConfiguration(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "configs/app.yaml", "provider: stripe\nmode: live\n")
	writeFile(t, root, "configs/app.json", `{"tasks": ["build"]}`)
	writeFile(t, root, "configs/app.toml", "provider = \"stripe\"\n")
	writeFile(t, root, "configs/broken.yaml", "provider: [unclosed\n")
	writeFile(t, root, ".env", "DATABASE_URL=postgres://localhost\n")

	v := New(root)
	ctx := context.Background()
	comp := audit.Component{Name: "app"}

	tests := []struct {
		name       string
		params     map[string]any
		wantScore  float64
		wantStatus audit.EvaluationStatus
	}{
		{"yaml key and value match", map[string]any{"file": "configs/app.yaml", "key": "provider", "value": "stripe"}, 1.0, audit.EvalPassed},
		{"yaml key value mismatch", map[string]any{"file": "configs/app.yaml", "key": "provider", "value": "paypal"}, 0.5, audit.EvalWarning},
		{"yaml key absent", map[string]any{"file": "configs/app.yaml", "key": "ghost"}, 0.0, audit.EvalFailed},
		{"yaml key present no value", map[string]any{"file": "configs/app.yaml", "key": "mode"}, 1.0, audit.EvalPassed},
		{"json key present", map[string]any{"file": "configs/app.json", "key": "tasks"}, 1.0, audit.EvalPassed},
		{"toml key present", map[string]any{"file": "configs/app.toml", "key": "provider"}, 1.0, audit.EvalPassed},
		{"file absent", map[string]any{"file": "configs/ghost.yaml", "key": "x"}, 0.0, audit.EvalFailed},
		{"parse valid no key", map[string]any{"file": "configs/app.yaml"}, 0.8, audit.EvalPassed},
		{"unparsable", map[string]any{"file": "configs/broken.yaml", "key": "provider"}, 0.0, audit.EvalFailed},
		{"env line scan hit", map[string]any{"file": ".env", "key": "DATABASE_URL"}, 1.0, audit.EvalPassed},
		{"env line scan miss", map[string]any{"file": ".env", "key": "REDIS_URL"}, 0.0, audit.EvalFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(ctx, comp, crit(catalog.MethodConfiguration, tt.params))
			assert.InDelta(t, tt.wantScore, res.Score, 1e-9)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestValidateFunctionality(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "hooks/revenue_update.sh", "#!/bin/sh\n")

	v := New(root)
	ctx := context.Background()

	res := v.Validate(ctx, audit.Component{Name: "hooks"},
		crit(catalog.MethodFunctionality, map[string]any{"hook": "revenue", "hooks_dir": "hooks"}))
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, audit.EvalPassed, res.Status)

	res = v.Validate(ctx, audit.Component{Name: "hooks"},
		crit(catalog.MethodFunctionality, map[string]any{"hook": "deploy", "hooks_dir": "hooks"}))
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, audit.EvalFailed, res.Status)

	// Without hook params it falls back to the component status.
	res = v.Validate(ctx, audit.Component{Name: "svc", Status: audit.StatusOperational},
		crit(catalog.MethodFunctionality, nil))
	assert.Equal(t, 0.8, res.Score)
	assert.Equal(t, audit.EvalPassed, res.Status)

	res = v.Validate(ctx, audit.Component{Name: "svc", Status: audit.StatusDegraded},
		crit(catalog.MethodFunctionality, nil))
	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, audit.EvalWarning, res.Status)

	res = v.Validate(ctx, audit.Component{Name: "svc", Status: audit.StatusFailed},
		crit(catalog.MethodFunctionality, nil))
	assert.Equal(t, 0.2, res.Score)
	assert.Equal(t, audit.EvalFailed, res.Status)
}

func TestValidateQualityRatio(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scripts/deploy.sh", "set -e\necho deploying\n")
	writeFile(t, root, "scripts/cleanup.sh", "rm -rf ./tmp\n")

	v := New(root)
	ctx := context.Background()
	comp := audit.Component{Name: "scripts"}

	// One of two scripts carries the indicator: ratio 0.5 is a warning.
	res := v.Validate(ctx, comp, crit(catalog.MethodQuality, map[string]any{
		"indicators": []any{"set -e"},
		"scan_dirs":  []any{"scripts"},
		"scan_exts":  []any{".sh"},
	}))
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Equal(t, audit.EvalWarning, res.Status)

	// Both scripts match: passes.
	res = v.Validate(ctx, comp, crit(catalog.MethodQuality, map[string]any{
		"indicators": []any{"echo", "rm"},
		"scan_dirs":  []any{"scripts"},
		"scan_exts":  []any{".sh"},
	}))
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, audit.EvalPassed, res.Status)

	// Nothing to scan: fails.
	res = v.Validate(ctx, comp, crit(catalog.MethodQuality, map[string]any{
		"indicators": []any{"echo"},
		"scan_dirs":  []any{"ghost"},
	}))
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, audit.EvalFailed, res.Status)
}

func TestValidateIntegrationRatio(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "configs/minio.yaml", "buckets: []\n")

	v := New(root)
	ctx := context.Background()
	comp := audit.Component{Name: "storage"}

	res := v.Validate(ctx, comp, crit(catalog.MethodIntegration, map[string]any{
		"integration": "storage",
		"check_files": []any{"configs/minio.yaml", "compose.yaml"},
	}))
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Equal(t, audit.EvalWarning, res.Status)

	res = v.Validate(ctx, comp, crit(catalog.MethodIntegration, map[string]any{
		"integration": "storage",
		"check_files": []any{"configs/minio.yaml"},
	}))
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, audit.EvalPassed, res.Status)
}

func TestValidateDeployment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "configs/production.yaml", "replicas: 3\n")

	v := New(root)
	ctx := context.Background()
	comp := audit.Component{Name: "svc"}

	res := v.Validate(ctx, comp, crit(catalog.MethodDeployment, map[string]any{"environment": "production"}))
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, audit.EvalPassed, res.Status)

	res = v.Validate(ctx, comp, crit(catalog.MethodDeployment, map[string]any{"environment": "staging"}))
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, audit.EvalFailed, res.Status)
}

func TestValidateAutomation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scripts/backup.sh", "pg_dump\n")
	writeFile(t, root, "go.mod", "module example.com/x\n")

	v := New(root)
	ctx := context.Background()
	comp := audit.Component{Name: "db"}

	res := v.Validate(ctx, comp, crit(catalog.MethodAutomation, map[string]any{
		"feature":    "backup",
		"indicators": []any{"backup", "go.mod"},
	}))
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, audit.EvalPassed, res.Status)

	res = v.Validate(ctx, comp, crit(catalog.MethodAutomation, map[string]any{
		"feature":    "backup",
		"indicators": []any{"backup", "vault", "replica", "failover"},
	}))
	assert.InDelta(t, 0.25, res.Score, 1e-9)
	assert.Equal(t, audit.EvalFailed, res.Status)
}

func TestValidateCanceledContext(t *testing.T) {
	v := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := v.Validate(ctx, audit.Component{Name: "x"}, crit(catalog.MethodExistence, map[string]any{"file": "a"}))
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, audit.EvalFailed, res.Status)
	assert.Contains(t, res.Message, "canceled")
}

func TestValidateUnknownMethodFallsBackToStatus(t *testing.T) {
	v := New(t.TempDir())

	res := v.Validate(context.Background(),
		audit.Component{Name: "x", Status: audit.StatusOperational},
		crit("mystery", nil))
	assert.Equal(t, 0.8, res.Score)
	assert.Equal(t, audit.EvalPassed, res.Status)
}
