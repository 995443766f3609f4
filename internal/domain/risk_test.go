package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  RiskLevel
	}{
		{"minimum score", 1, RiskLevelLow},
		{"just under medium", 7, RiskLevelLow},
		{"medium boundary is inclusive", 8, RiskLevelMedium},
		{"mid medium", 12, RiskLevelMedium},
		{"just under high", 14, RiskLevelMedium},
		{"high boundary is inclusive", 15, RiskLevelHigh},
		{"maximum score", 25, RiskLevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskLevelForScore(tt.score))
		})
	}
}

func TestOverallRiskLevel(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    RiskLevel
	}{
		{"no risks defaults to medium", nil, RiskLevelMedium},
		{"empty slice defaults to medium", []int{}, RiskLevelMedium},
		{"low average", []int{4, 6}, RiskLevelLow},
		{"boundary 8 is not medium", []int{8}, RiskLevelLow},
		{"just above 8", []int{9}, RiskLevelMedium},
		// Mean of exactly 15 stays medium: the overall boundary is strict (>15),
		// unlike the inclusive per-hazard boundary.
		{"boundary mean 15 is medium", []int{20, 10}, RiskLevelMedium},
		{"above 15", []int{20, 12}, RiskLevelHigh},
		{"single very high", []int{25}, RiskLevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallRiskLevel(tt.ratings))
		})
	}
}

func TestResidualRiskFor(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{25, 12},
		{15, 7},
		{8, 4},
		{3, 1},
		{1, 1}, // never drops below 1
	}

	for _, tt := range tests {
		got := ResidualRiskFor(tt.score)
		assert.Equal(t, tt.want, got, "score %d", tt.score)
		assert.LessOrEqual(t, got, tt.score)
		assert.GreaterOrEqual(t, got, 1)
	}
}

func TestRiskLevel_IsValid(t *testing.T) {
	assert.True(t, RiskLevelLow.IsValid())
	assert.True(t, RiskLevelMedium.IsValid())
	assert.True(t, RiskLevelHigh.IsValid())
	assert.False(t, RiskLevel("very-high").IsValid())
	assert.False(t, RiskLevel("").IsValid())
}
