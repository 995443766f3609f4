package transform

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
)

func TestExtractHazardsAndRisks_Structured(t *testing.T) {
	tr := newTestTransformer()

	var resp agent.HealthSafetyResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"riskAssessment": {
			"hazards": [
				{
					"hazard": "Electric shock from live conductors",
					"risk": "Fatal injury",
					"likelihood": 4,
					"severity": 5,
					"controls": ["Safe isolation", "Prove dead"],
					"regulation": "EAWR 1989"
				},
				{
					"hazard": "Working at height",
					"likelihood": 2,
					"severity": 4
				}
			],
			"ppe": ["Safety helmet to BS EN 397"],
			"emergencyProcedures": ["Call 999"]
		}
	}`), &resp))

	result := tr.ExtractHazardsAndRisks(&resp, "J Smith")
	require.Len(t, result.Risks, 2)
	require.Len(t, result.Hazards, 2)
	assert.False(t, result.FromFreeText)

	shock := result.Risks[0]
	assert.Equal(t, 20, shock.RiskRating)
	assert.Equal(t, "• Safe isolation\n• Prove dead", shock.Controls)
	assert.Equal(t, 10, shock.ResidualRisk)
	assert.Equal(t, "J Smith", shock.Responsible)
	assert.Equal(t, time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC), shock.ActionBy)
	assert.False(t, shock.Done)

	assert.Equal(t, domain.RiskLevelHigh, result.Hazards[0].RiskLevel)
	assert.Equal(t, "EAWR 1989", result.Hazards[0].Regulation)
	assert.Equal(t, "hazard-1", result.Hazards[0].ID)

	height := result.Risks[1]
	assert.Equal(t, 8, height.RiskRating)
	assert.Equal(t, domain.RiskLevelMedium, result.Hazards[1].RiskLevel)
	assert.NotEmpty(t, height.Controls, "controls inferred when agent gives none")
	assert.Equal(t, defaultConsequence, height.Risk)

	require.Len(t, result.PPEDetails, 1)
	assert.Equal(t, "Safety helmet", result.PPEDetails[0].PPEType)
	assert.Equal(t, []string{"Call 999"}, result.EmergencyProcedures)
}

func TestExtractHazardsAndRisks_NestedShapes(t *testing.T) {
	tr := newTestTransformer()

	payloads := []string{
		`{"riskAssessment": {"hazards": [{"hazard": "Dust exposure", "likelihood": 3, "severity": 2}]}}`,
		`{"structuredData": {"riskAssessment": {"hazards": [{"hazard": "Dust exposure", "likelihood": 3, "severity": 2}]}}}`,
		`{"response": {"structuredData": {"riskAssessment": {"hazards": [{"hazard": "Dust exposure", "likelihood": 3, "severity": 2}]}}}}`,
	}
	for _, payload := range payloads {
		var resp agent.HealthSafetyResponse
		require.NoError(t, json.Unmarshal([]byte(payload), &resp))

		result := tr.ExtractHazardsAndRisks(&resp, "J Smith")
		require.Len(t, result.Hazards, 1, "payload: %s", payload)
		assert.Equal(t, "Dust exposure", result.Hazards[0].Hazard)
	}
}

func TestExtractHazardsAndRisks_ControlsString(t *testing.T) {
	tr := newTestTransformer()

	var resp agent.HealthSafetyResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"riskAssessment": {
			"hazards": [{"hazard": "Noise", "likelihood": 2, "severity": 2, "controls": "Wear hearing protection"}]
		}
	}`), &resp))

	result := tr.ExtractHazardsAndRisks(&resp, "")
	require.Len(t, result.Risks, 1)
	assert.Equal(t, "Wear hearing protection", result.Risks[0].Controls)
	assert.Equal(t, defaultResponsible, result.Risks[0].Responsible)
}

func TestExtractHazardsAndRisks_FreeText(t *testing.T) {
	tr := newTestTransformer()

	var resp agent.HealthSafetyResponse
	resp.Response.Text = `Assessment of the works follows.

Activity: First fix wiring
Hazard: Electric shock from existing circuits
Risk: Burns and cardiac injury
Likelihood: 3
Severity: 5
Control: Safe isolation before work
- Insulated tools

Hazard: Silica dust from chasing
likelihood is 4 and severity is 2
Mitigation: On-tool extraction
`

	result := tr.ExtractHazardsAndRisks(&resp, "J Smith")
	assert.True(t, result.FromFreeText)
	require.Len(t, result.Risks, 2)

	assert.Equal(t, "Electric shock from existing circuits", result.Hazards[0].Hazard)
	assert.Equal(t, 15, result.Hazards[0].RiskScore)
	assert.Equal(t, "Burns and cardiac injury", result.Risks[0].Risk)
	assert.Equal(t, "• Safe isolation before work\n• Insulated tools", result.Risks[0].Controls)

	assert.Equal(t, 8, result.Hazards[1].RiskScore)
	assert.Equal(t, "• On-tool extraction", result.Risks[1].Controls)

	assert.Equal(t, []string{"First fix wiring"}, result.Activities)
}

func TestExtractHazardsAndRisks_NeverEmpty(t *testing.T) {
	tr := newTestTransformer()

	tests := []struct {
		name string
		resp agent.HealthSafetyResponse
	}{
		{"empty envelope", agent.HealthSafetyResponse{}},
		{"prose without hazard lines", func() agent.HealthSafetyResponse {
			var r agent.HealthSafetyResponse
			r.Response.Text = "All looks fine to me."
			return r
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tr.ExtractHazardsAndRisks(&tt.resp, "J Smith")
			require.Len(t, result.Risks, 1)

			risk := result.Risks[0]
			assert.Equal(t, "Electric shock from live conductors", risk.Hazard)
			assert.Equal(t, 15, risk.RiskRating)
			assert.Equal(t, domain.RiskLevelHigh, result.Hazards[0].RiskLevel)
			assert.Contains(t, risk.Controls, "Comply with Electricity at Work Regulations 1989")
		})
	}
}

func TestExtractHazardsAndRisks_DefaultPPEAndProcedures(t *testing.T) {
	tr := newTestTransformer()

	result := tr.ExtractHazardsAndRisks(&agent.HealthSafetyResponse{}, "J Smith")

	require.Len(t, result.PPEDetails, 5)
	standards := make([]string, len(result.PPEDetails))
	for i, item := range result.PPEDetails {
		standards[i] = item.Standard
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, i+1, item.ItemNumber)
	}
	assert.Equal(t, []string{"BS EN 397", "BS EN ISO 20345", "BS EN ISO 20471", "BS EN 60903", "BS EN 166"}, standards)

	assert.Equal(t, domain.DefaultEmergencyProcedures(), result.EmergencyProcedures)
}

func TestClampRating(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 3},
		{-1, 3},
		{1, 1},
		{5, 5},
		{9, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampRating(tt.in))
	}
}
