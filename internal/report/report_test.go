package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tomashby/ramsgen/internal/domain"
)

func TestRiskColor(t *testing.T) {
	tests := []struct {
		name  string
		level domain.RiskLevel
		want  string
	}{
		{"high is red", domain.RiskLevelHigh, "#DC2626"},
		{"medium is amber", domain.RiskLevelMedium, "#F59E0B"},
		{"low is green", domain.RiskLevelLow, "#16A34A"},
		{"unknown falls back to muted", domain.RiskLevel("weird"), BrandColors.TextMuted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskColor(tt.level))
		})
	}
}

func TestRiskLabel(t *testing.T) {
	assert.Equal(t, "High", RiskLabel(domain.RiskLevelHigh))
	assert.Equal(t, "Medium", RiskLabel(domain.RiskLevelMedium))
	assert.Equal(t, "Low", RiskLabel(domain.RiskLevelLow))
	assert.Equal(t, "odd", RiskLabel(domain.RiskLevel("odd")))
}

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b int
	}{
		{"#FFFFFF", 255, 255, 255},
		{"#000000", 0, 0, 0},
		{"#DC2626", 220, 38, 38},
		{"1E3A5F", 30, 58, 95},
		{"nope", 0, 0, 0},
	}

	for _, tt := range tests {
		r, g, b := HexToRGB(tt.hex)
		assert.Equal(t, tt.r, r, tt.hex)
		assert.Equal(t, tt.g, g, tt.hex)
		assert.Equal(t, tt.b, b, tt.hex)
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "exactly", TruncateText("exactly", 7))
	assert.Equal(t, "trun...", TruncateText("truncated text", 7))
	assert.Equal(t, "tr", TruncateText("truncated", 2))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Consumer Unit Replacement", TitleCase("consumer unit replacement"))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "10 March 2026", FormatDate(d))
	assert.Equal(t, "10 March 2026 at 14:30", FormatDateTime(d))
}
