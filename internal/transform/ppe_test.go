package transform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestNormalizePPE_Strings(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantType     string
		wantStandard string
	}{
		{"legacy form", "Safety helmet to BS EN 397", "Safety helmet", "BS EN 397"},
		{"iso standard", "Safety boots to BS EN ISO 20345", "Safety boots", "BS EN ISO 20345"},
		{"no standard", "Gauntlets for handling", "Gauntlets for handling", "N/A"},
		{"standard without BS prefix", "Goggles to EN 166", "Goggles", "EN 166"},
		{"no separator keeps whole text", "Hi-vis vest BS EN ISO 20471", "Hi-vis vest BS EN ISO 20471", "BS EN ISO 20471"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := NormalizePPE([]agent.PPEEntry{{Text: tt.text}})
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantType, items[0].PPEType)
			assert.Equal(t, tt.wantStandard, items[0].Standard)
			assert.True(t, items[0].Mandatory)
			assert.Equal(t, domain.DefaultPPEPurpose, items[0].Purpose)
		})
	}
}

func TestNormalizePPE_Objects(t *testing.T) {
	items := NormalizePPE([]agent.PPEEntry{
		{Item: &agent.PPEObject{PPEType: "Arc flash visor", Standard: "GS ET 29", Purpose: "Face protection", Mandatory: boolPtr(false)}},
		{Item: &agent.PPEObject{}},
	})
	require.Len(t, items, 2)

	assert.Equal(t, "Arc flash visor", items[0].PPEType)
	assert.False(t, items[0].Mandatory)
	assert.Equal(t, "Face protection", items[0].Purpose)

	assert.Equal(t, "Unspecified PPE", items[1].PPEType)
	assert.Equal(t, "N/A", items[1].Standard)
	assert.True(t, items[1].Mandatory, "mandatory defaults true when unspecified")
	assert.Equal(t, domain.DefaultPPEPurpose, items[1].Purpose)
}

func TestNormalizePPE_ItemNumbersSequential(t *testing.T) {
	items := NormalizePPE([]agent.PPEEntry{
		{Text: "Safety helmet to BS EN 397"},
		{Item: &agent.PPEObject{ItemNumber: 99, PPEType: "Gloves"}},
		{Text: "Safety glasses to BS EN 166"},
	})
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, i+1, item.ItemNumber)
		assert.NotEmpty(t, item.ID)
	}
}

func TestNormalizePPE_SkippedEntriesLeaveNoGaps(t *testing.T) {
	// An unrecognized entry shape (here a bare number) decodes to an empty
	// PPEEntry and is dropped; the surviving items must still number from 1.
	var entries []agent.PPEEntry
	require.NoError(t, json.Unmarshal(
		[]byte(`[42, "Safety helmet to BS EN 397", "Safety boots to BS EN ISO 20345"]`),
		&entries,
	))

	items := NormalizePPE(entries)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ItemNumber)
	assert.Equal(t, "Safety helmet", items[0].PPEType)
	assert.Equal(t, 2, items[1].ItemNumber)
}

func TestNormalizePPE_RoundTrip(t *testing.T) {
	// Re-normalizing the legacy rendering of a normalized item must give back
	// the same type and standard.
	originals := NormalizePPE([]agent.PPEEntry{
		{Text: "Insulated gloves to BS EN 60903"},
		{Text: "High-visibility vest to BS EN ISO 20471"},
	})
	require.Len(t, originals, 2)

	entries := make([]agent.PPEEntry, len(originals))
	for i, item := range originals {
		entries[i] = agent.PPEEntry{Text: item.LegacyString()}
	}
	again := NormalizePPE(entries)
	require.Len(t, again, 2)

	for i := range originals {
		assert.Equal(t, originals[i].PPEType, again[i].PPEType)
		assert.Equal(t, originals[i].Standard, again[i].Standard)
		assert.Equal(t, originals[i].Mandatory, again[i].Mandatory)
		assert.Equal(t, originals[i].Purpose, again[i].Purpose)
	}
}

func TestNormalizePPE_Empty(t *testing.T) {
	assert.Empty(t, NormalizePPE(nil))
}
