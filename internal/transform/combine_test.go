package transform

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
)

func testProject() domain.ProjectInfo {
	return domain.ProjectInfo{
		ProjectName: "Unit 4 rewire",
		Location:    "Bristol",
		Date:        "2026-03-10",
		Assessor:    "J Smith",
		Contractor:  "Ashby Electrical Ltd",
		Supervisor:  "P Jones",
		WorkType:    "Commercial rewire",
		TeamSize:    2,
	}
}

func hsResponse(t *testing.T, payload string) *agent.HealthSafetyResponse {
	t.Helper()
	var resp agent.HealthSafetyResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	return &resp
}

func installerResponse(t *testing.T, payload string) *agent.InstallerResponse {
	t.Helper()
	var resp agent.InstallerResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	return &resp
}

func TestCombine(t *testing.T) {
	tr := newTestTransformer()

	hs := hsResponse(t, `{
		"riskAssessment": {
			"hazards": [
				{"hazard": "Electric shock from live conductors", "likelihood": 4, "severity": 5},
				{"hazard": "Working at height", "likelihood": 2, "severity": 4}
			]
		},
		"compliance": {
			"regulations": ["BS 7671:2018", "EAWR 1989"],
			"warnings": ["Notify the DNO before disconnection"]
		}
	}`)
	installer := installerResponse(t, `{
		"methodStatementSteps": [
			{"title": "Isolate the supply", "estimatedDuration": "30 minutes"},
			{"title": "Install new circuits", "estimatedDuration": "45 minutes"}
		],
		"practicalTips": ["Photograph the board before stripping out"],
		"difficultyLevel": "moderate",
		"compliance": {
			"regulations": ["BS 7671:2018", "CDM 2015"],
			"warnings": []
		}
	}`)

	result := tr.Combine(hs, installer, testProject())

	// Project metadata flows onto both documents.
	assert.Equal(t, "Unit 4 rewire", result.RAMS.ProjectName)
	assert.Equal(t, "Bristol", result.Method.ProjectLocation)
	assert.Equal(t, "Commercial rewire", result.Method.WorkType)
	assert.Equal(t, 2, result.Method.TeamSize)

	// Compliance is the deduplicated union of both agents, first seen wins.
	assert.Equal(t, []string{"BS 7671:2018", "EAWR 1989", "CDM 2015"}, result.RAMS.ComplianceRegulations)
	assert.Equal(t, []string{"Notify the DNO before disconnection"}, result.Method.ComplianceWarnings)
	assert.Equal(t, result.RAMS.ComplianceRegulations, result.Method.ComplianceRegulations)

	// 30 + 45 minutes rounds to one hour.
	assert.Equal(t, "1 hour", result.Method.Duration)

	// Ratings 20 and 8 average 14: medium.
	assert.Equal(t, domain.RiskLevelMedium, result.Method.OverallRisk)

	assert.Equal(t, "2027-03-10", result.Method.ReviewDate)
	assert.Equal(t, []string{"Photograph the board before stripping out"}, result.Method.PracticalTips)
	assert.Equal(t, "moderate", result.Method.DifficultyLevel)

	// Hazards link into steps wherever keywords overlap.
	require.Len(t, result.Method.Steps, 2)
	assert.NotEmpty(t, result.Method.Steps[1].LinkedHazards)

	assert.Equal(t, 2, result.Stats.Hazards)
	assert.Equal(t, 2, result.Stats.Steps)
	assert.True(t, result.Stats.DurationEstimate)
}

func TestCombine_OverallRiskBoundary(t *testing.T) {
	// A mean of exactly 15 is medium: the overall band is strict (>15),
	// unlike the per-hazard band which is inclusive (>=15).
	tr := newTestTransformer()

	hs := hsResponse(t, `{
		"riskAssessment": {
			"hazards": [
				{"hazard": "Electric shock", "likelihood": 4, "severity": 5},
				{"hazard": "Manual handling", "likelihood": 2, "severity": 5}
			]
		}
	}`)

	result := tr.Combine(hs, &agent.InstallerResponse{}, testProject())

	require.Len(t, result.RAMS.Risks, 2)
	assert.Equal(t, 20, result.RAMS.Risks[0].RiskRating)
	assert.Equal(t, 10, result.RAMS.Risks[1].RiskRating)
	assert.Equal(t, domain.RiskLevelMedium, result.Method.OverallRisk)

	// The 20-rated hazard itself is still banded high.
	assert.Equal(t, domain.RiskLevelHigh, result.RAMS.Hazards[0].RiskLevel)
}

func TestCombine_TotalTimePassthrough(t *testing.T) {
	tr := newTestTransformer()

	installer := installerResponse(t, `{
		"methodStatementSteps": [{"title": "Install containment", "estimatedDuration": "30 minutes"}],
		"totalEstimatedTime": "3 days"
	}`)

	result := tr.Combine(&agent.HealthSafetyResponse{}, installer, testProject())
	assert.Equal(t, "3 days", result.Method.Duration)
	assert.False(t, result.Stats.DurationEstimate)
}

func TestCombine_EmptyResponses(t *testing.T) {
	// Two empty envelopes still produce complete documents.
	tr := newTestTransformer()

	result := tr.Combine(&agent.HealthSafetyResponse{}, &agent.InstallerResponse{}, testProject())

	require.Len(t, result.RAMS.Risks, 1)
	assert.Equal(t, "Electric shock from live conductors", result.RAMS.Risks[0].Hazard)
	assert.Len(t, result.RAMS.PPEDetails, 5)
	assert.Len(t, result.RAMS.RequiredPPE, 5)
	assert.Equal(t, "Safety helmet to BS EN 397", result.RAMS.RequiredPPE[0])
	assert.NotEmpty(t, result.RAMS.EmergencyProcedures)

	require.Len(t, result.Method.Steps, 1)
	assert.Equal(t, "Preparation and Safety Checks", result.Method.Steps[0].Title)
	assert.Equal(t, domain.RiskLevelMedium, result.Method.OverallRisk, "single default risk rates 15, mean 15 stays medium")
	assert.NotEmpty(t, result.Method.Description)
}

func TestDeriveDescription(t *testing.T) {
	t.Run("takes first three substantive lines", func(t *testing.T) {
		text := strings.Join([]string{
			"short",
			"This is the first substantive line of the method.",
			"The *second* line has _markdown_ emphasis in it.",
			"# A third heading line that is long enough to count.",
			"A fourth line that must not appear in the output at all.",
		}, "\n")

		desc := deriveDescription(text)
		assert.Contains(t, desc, "first substantive line")
		assert.Contains(t, desc, "second line has markdown emphasis")
		assert.NotContains(t, desc, "*")
		assert.NotContains(t, desc, "#")
		assert.NotContains(t, desc, "fourth line")
	})

	t.Run("truncates to 300 characters", func(t *testing.T) {
		desc := deriveDescription(strings.Repeat("All work is carried out to BS 7671 requirements. ", 20))
		assert.LessOrEqual(t, len(desc), 300)
	})

	t.Run("truncation never splits a multi-byte character", func(t *testing.T) {
		// A two-byte rune straddling the cut point must be dropped whole,
		// not cut into a dangling lead byte.
		desc := deriveDescription(strings.Repeat("a", 299) + "é fitted to façade trunking")
		assert.True(t, utf8.ValidString(desc), "truncated description must stay valid UTF-8")
		assert.LessOrEqual(t, len(desc), 300)
		assert.Equal(t, strings.Repeat("a", 299), desc)
	})

	t.Run("fallback for empty text", func(t *testing.T) {
		assert.NotEmpty(t, deriveDescription(""))
	})
}
