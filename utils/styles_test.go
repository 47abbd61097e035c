package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSeverityStyle(t *testing.T) {
	assert.Equal(t, CriticalStyle, GetSeverityStyle("CRITICAL:"))
	assert.Equal(t, CriticalStyle, GetSeverityStyle("critical"))
	assert.Equal(t, CriticalLightStyle, GetSeverityStyle("FAILED"))
	assert.Equal(t, WarningStyle, GetSeverityStyle("Warning"))
	assert.Equal(t, GoodStyle, GetSeverityStyle("passed"))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "exact", 5, "exact"},
		{"truncated with ellipsis", "longer text", 5, "lo..."},
		{"narrower than ellipsis", "abcdef", 3, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.in, tt.width))
		})
	}
}
