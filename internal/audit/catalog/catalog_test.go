package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydraops/sysaudit/internal/audit"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	cat := Default()

	defects := cat.Validate()
	assert.Empty(t, defects, "embedded catalog must have no authoring defects")
	assert.NotEmpty(t, cat.Kinds())
}

func TestDefaultCatalogCoversKnownKinds(t *testing.T) {
	cat := Default()

	for _, kind := range []audit.Kind{
		audit.KindPodmanStack,
		audit.KindNCAToolkit,
		audit.KindDatabase,
		audit.KindGrafana,
		audit.KindAffiliateMarketing,
		audit.KindRevenueStreams,
		audit.KindDeploymentScripts,
		audit.KindCICDPipeline,
	} {
		set, ok := cat.ForKind(kind)
		require.True(t, ok, "no criteria set for %s", kind)
		assert.NotEmpty(t, set.Criteria)
		assert.Greater(t, set.MinimumScore, 0.0)
	}

	_, ok := cat.ForKind(audit.KindUnknown)
	assert.False(t, ok)
}

func TestValidateDetectsWeightSumDrift(t *testing.T) {
	c := &Catalog{Sets: []ComponentCriteria{{
		Kind:         audit.KindDatabase,
		MinimumScore: 0.7,
		Criteria: []Criterion{
			{ID: "a", Weight: 0.5, Method: MethodExistence},
			{ID: "b", Weight: 0.3, Method: MethodExistence},
		},
	}}}

	defects := c.Validate()
	require.Len(t, defects, 1)
	assert.Contains(t, defects[0], "weights sum to 0.800")
}

func TestValidateToleratesSmallDrift(t *testing.T) {
	c := &Catalog{Sets: []ComponentCriteria{{
		Kind:         audit.KindDatabase,
		MinimumScore: 0.7,
		Criteria: []Criterion{
			{ID: "a", Weight: 0.505, Method: MethodExistence},
			{ID: "b", Weight: 0.5, Method: MethodExistence},
		},
	}}}

	assert.Empty(t, c.Validate())
}

func TestValidateDetectsDefects(t *testing.T) {
	tests := []struct {
		name string
		set  ComponentCriteria
		want string
	}{
		{
			name: "duplicate criterion ids",
			set: ComponentCriteria{
				Kind: audit.KindDatabase,
				Criteria: []Criterion{
					{ID: "a", Weight: 0.5, Method: MethodExistence},
					{ID: "a", Weight: 0.5, Method: MethodExistence},
				},
			},
			want: `duplicate criterion id "a"`,
		},
		{
			name: "critical id not in set",
			set: ComponentCriteria{
				Kind:             audit.KindDatabase,
				CriticalCriteria: []string{"ghost"},
				Criteria:         []Criterion{{ID: "a", Weight: 1.0, Method: MethodExistence}},
			},
			want: `critical criterion "ghost"`,
		},
		{
			name: "weight out of range",
			set: ComponentCriteria{
				Kind: audit.KindDatabase,
				Criteria: []Criterion{
					{ID: "a", Weight: 0, Method: MethodExistence},
					{ID: "b", Weight: 1.0, Method: MethodExistence},
				},
			},
			want: "outside (0,1]",
		},
		{
			name: "unknown method",
			set: ComponentCriteria{
				Kind:     audit.KindDatabase,
				Criteria: []Criterion{{ID: "a", Weight: 1.0, Method: "vibes"}},
			},
			want: `unknown method "vibes"`,
		},
		{
			name: "empty set",
			set:  ComponentCriteria{Kind: audit.KindDatabase},
			want: "criteria set is empty",
		},
		{
			name: "minimum score out of range",
			set: ComponentCriteria{
				Kind:         audit.KindDatabase,
				MinimumScore: 1.5,
				Criteria:     []Criterion{{ID: "a", Weight: 1.0, Method: MethodExistence}},
			},
			want: "minimum score 1.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Catalog{Sets: []ComponentCriteria{tt.set}}
			defects := c.Validate()
			require.NotEmpty(t, defects)
			found := false
			for _, d := range defects {
				if strings.Contains(d, tt.want) {
					found = true
				}
			}
			assert.True(t, found, "defects %v should mention %q", defects, tt.want)
		})
	}
}

func TestValidateDetectsDuplicateSets(t *testing.T) {
	set := ComponentCriteria{
		Kind:     audit.KindDatabase,
		Criteria: []Criterion{{ID: "a", Weight: 1.0, Method: MethodExistence}},
	}
	c := &Catalog{Sets: []ComponentCriteria{set, set}}

	defects := c.Validate()
	require.NotEmpty(t, defects)
	assert.Contains(t, defects[0], "duplicate criteria set")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load([]byte("criteria_sets: ["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing criteria catalog")
}
