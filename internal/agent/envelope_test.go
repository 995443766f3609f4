package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthSafetyResponse_UnwrapOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string // expected first hazard description, "" means no hazards
	}{
		{
			name: "direct riskAssessment",
			body: `{"riskAssessment":{"hazards":[{"hazard":"Electric shock","likelihood":3,"severity":5}]}}`,
			want: "Electric shock",
		},
		{
			name: "under structuredData",
			body: `{"structuredData":{"riskAssessment":{"hazards":[{"hazard":"Arc flash"}]}}}`,
			want: "Arc flash",
		},
		{
			name: "under response.structuredData",
			body: `{"response":{"structuredData":{"riskAssessment":{"hazards":[{"hazard":"Working at height"}]}}}}`,
			want: "Working at height",
		},
		{
			name: "direct wins over nested",
			body: `{"riskAssessment":{"hazards":[{"hazard":"direct"}]},"structuredData":{"riskAssessment":{"hazards":[{"hazard":"nested"}]}}}`,
			want: "direct",
		},
		{
			name: "free text only",
			body: `{"response":"Hazard: something informal"}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp HealthSafetyResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))

			hazards := resp.Hazards()
			if tt.want == "" {
				assert.Empty(t, hazards)
			} else {
				require.NotEmpty(t, hazards)
				assert.Equal(t, tt.want, hazards[0].Hazard)
			}
		})
	}
}

func TestHealthSafetyResponse_FreeText(t *testing.T) {
	var resp HealthSafetyResponse
	require.NoError(t, json.Unmarshal([]byte(`{"response":"Hazard: live busbars"}`), &resp))
	assert.Equal(t, "Hazard: live busbars", resp.FreeText())
	assert.Nil(t, resp.Assessment())

	// Nested object form keeps the inner prose too.
	require.NoError(t, json.Unmarshal([]byte(`{"response":{"response":"inner text","structuredData":{}}}`), &resp))
	assert.Equal(t, "inner text", resp.FreeText())
}

func TestControls_UnmarshalJSON(t *testing.T) {
	var h SourceHazard
	require.NoError(t, json.Unmarshal([]byte(`{"hazard":"x","controls":["a","b"]}`), &h))
	assert.Equal(t, []string{"a", "b"}, h.Controls.Items)

	require.NoError(t, json.Unmarshal([]byte(`{"hazard":"x","controls":"isolate first"}`), &h))
	assert.Equal(t, "isolate first", h.Controls.Text)

	require.NoError(t, json.Unmarshal([]byte(`{"hazard":"x","controls":42}`), &h))
	assert.True(t, h.Controls.IsZero())
}

func TestPPEEntry_UnmarshalJSON(t *testing.T) {
	var ra RiskAssessment
	body := `{"ppe":["Safety helmet to BS EN 397",{"ppeType":"Insulated gloves","standard":"BS EN 60903","mandatory":false}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &ra))
	require.Len(t, ra.PPE, 2)

	assert.Equal(t, "Safety helmet to BS EN 397", ra.PPE[0].Text)
	assert.Nil(t, ra.PPE[0].Item)

	require.NotNil(t, ra.PPE[1].Item)
	assert.Equal(t, "Insulated gloves", ra.PPE[1].Item.PPEType)
	require.NotNil(t, ra.PPE[1].Item.Mandatory)
	assert.False(t, *ra.PPE[1].Item.Mandatory)
}

func TestInstallerResponse_UnwrapOrder(t *testing.T) {
	body := `{
		"response": {
			"structuredData": {
				"methodStatementSteps": [
					{"step": "Isolate supply", "duration": "30 minutes"}
				],
				"practicalTips": ["label everything"],
				"totalEstimatedTime": "2 days",
				"compliance": {"regulations": ["BS 7671"], "warnings": ["notifiable work"]}
			}
		}
	}`
	var resp InstallerResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	steps := resp.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "Isolate supply", steps[0].EffectiveTitle())
	assert.Equal(t, "30 minutes", steps[0].EffectiveDuration())

	assert.Equal(t, []string{"label everything"}, resp.Tips())
	assert.Equal(t, "2 days", resp.TotalTime())

	comp := resp.ComplianceData()
	require.NotNil(t, comp)
	assert.Equal(t, []string{"BS 7671"}, comp.Regulations)
}

func TestSourceStep_AlternateFieldNames(t *testing.T) {
	var s SourceStep
	require.NoError(t, json.Unmarshal([]byte(`{"title":"A","safetyNotes":["x"],"equipment":["drill"]}`), &s))
	assert.Equal(t, "A", s.EffectiveTitle())
	assert.Equal(t, []string{"x"}, s.EffectiveSafety())
	assert.Equal(t, []string{"drill"}, s.EffectiveEquipment())

	// Primary names win when both are present.
	require.NoError(t, json.Unmarshal([]byte(`{"safetyRequirements":["a"],"safetyNotes":["b"]}`), &s))
	assert.Equal(t, []string{"a"}, s.EffectiveSafety())
}
