package transform

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
)

func newTestTransformer() *Transformer {
	tr := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	tr.now = func() time.Time {
		return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	return tr
}

func TestInferEquipment(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		contains []string
		exact    []string
	}{
		{
			name:  "survey phase",
			title: "Site survey and load assessment",
			exact: []string{"Tape measure", "Digital camera", "Voltage indicator", "Socket tester", "Notepad or tablet"},
		},
		{
			name:  "procurement phase",
			title: "Ordering materials",
			exact: []string{"No special tools required"},
		},
		{
			name:     "isolation phase",
			title:    "Isolate the supply and apply permit to work",
			contains: []string{"Lock-off kit", "Proving unit"},
		},
		{
			name:     "install with termination combines sub-categories",
			title:    "Install distribution board and terminate cables",
			contains: []string{"Cordless drill", "SDS drill", "Wall fixings", "Torque screwdriver", "Cable strippers"},
		},
		{
			name:     "install with cable routing",
			title:    "Route cables through the riser",
			contains: []string{"Cable rods", "Draw tape", "Cable cutters"},
		},
		{
			name:     "decommission wins over test despite commission substring",
			title:    "Decommission the old board",
			contains: []string{"Voltage indicator", "Cable cutters"},
		},
		{
			name:     "testing phase with rcd",
			title:    "Test and commission circuits including RCD trip times",
			contains: []string{"Multi-function tester", "RCD tester"},
		},
		{
			name:  "handover phase",
			title: "Handover and certificates",
			exact: []string{"No special tools required"},
		},
		{
			name:  "fallback",
			title: "Tidy the work area",
			exact: []string{"Standard electrician hand tools"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferEquipment(tt.title)
			if tt.exact != nil {
				assert.Equal(t, tt.exact, got)
			}
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestInferEquipment_DecommissionNotTesting(t *testing.T) {
	// "Decommission" contains "commission"; the decommission branch must win.
	got := InferEquipment("Decommission and remove redundant circuits")
	assert.NotContains(t, got, "Multi-function tester")
}

func TestInferQualifications(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"isolation", "Isolate and lock off the supply", []string{"Authorised Person (Electrical)"}},
		{"testing", "Test and commission the installation", []string{"BS 7671 18th Edition", "Inspection & Testing (2391)"}},
		{"design", "Calculate cable sizes for the submain", []string{"Electrical Installation Design"}},
		{"fallback", "Fit the back boxes", []string{"Qualified electrician"}},
		{
			"combined",
			"Isolate the board then test each circuit",
			[]string{"Authorised Person (Electrical)", "BS 7671 18th Edition", "Inspection & Testing (2391)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferQualifications(tt.text))
		})
	}
}

func TestExtractMethodSteps_Structured(t *testing.T) {
	tr := newTestTransformer()
	resp := &agent.InstallerResponse{
		MethodStatementSteps: []agent.SourceStep{
			{
				Title:             "Isolate the supply",
				Description:       "Lock off at the main switch and prove dead",
				EstimatedDuration: "30 minutes",
				RiskLevel:         "high",
			},
			{
				Step:     "Install the new consumer unit", // alternate title field
				Duration: "2 hours",                       // alternate duration field
			},
		},
	}
	hazards := []domain.Hazard{{ID: "h-1", Hazard: "Electric shock from live conductors"}}

	steps := tr.ExtractMethodSteps(resp, hazards)
	require.Len(t, steps, 2)

	assert.Equal(t, 1, steps[0].StepNumber)
	assert.Equal(t, "step-1", steps[0].ID)
	assert.Equal(t, domain.RiskLevelHigh, steps[0].RiskLevel)
	assert.NotEmpty(t, steps[0].EquipmentNeeded)
	assert.Contains(t, steps[0].Qualifications, "Authorised Person (Electrical)")

	assert.Equal(t, 2, steps[1].StepNumber)
	assert.Equal(t, "Install the new consumer unit", steps[1].Title)
	assert.Equal(t, "2 hours", steps[1].EstimatedDuration)
	assert.False(t, steps[1].IsCompleted)
}

func TestExtractMethodSteps_InfersMissingRiskLevel(t *testing.T) {
	tr := newTestTransformer()
	resp := &agent.InstallerResponse{
		MethodStatementSteps: []agent.SourceStep{
			{Title: "Work on the energised busbar"},
			{Title: "Run cables above the ceiling from a ladder"},
			{Title: "Fit blanking plates"},
		},
	}
	steps := tr.ExtractMethodSteps(resp, nil)
	require.Len(t, steps, 3)
	assert.Equal(t, domain.RiskLevelHigh, steps[0].RiskLevel)
	assert.Equal(t, domain.RiskLevelMedium, steps[1].RiskLevel)
	assert.Equal(t, domain.RiskLevelLow, steps[2].RiskLevel)
}

func TestExtractMethodSteps_FreeText(t *testing.T) {
	tr := newTestTransformer()
	resp := &agent.InstallerResponse{}
	resp.Response.Text = `Method for the rewire.

Step 1: Isolate the supply
Lock off the main switch before starting.
Safety:
- Prove dead at the point of work
Equipment:
- Lock-off kit
- Voltage indicator
Estimated time: 1 hour

Step 2: Route new cables
Run the new circuits through the ceiling void.
Time required: 45 minutes
`

	steps := tr.ExtractMethodSteps(resp, nil)
	require.Len(t, steps, 2)

	assert.Equal(t, "Isolate the supply", steps[0].Title)
	assert.Equal(t, "1 hour", steps[0].EstimatedDuration)
	assert.Equal(t, []string{"Prove dead at the point of work"}, steps[0].SafetyRequirements)
	assert.Equal(t, []string{"Lock-off kit", "Voltage indicator"}, steps[0].EquipmentNeeded)

	assert.Equal(t, "Route new cables", steps[1].Title)
	assert.Equal(t, "45 minutes", steps[1].EstimatedDuration)
	assert.NotEmpty(t, steps[1].EquipmentNeeded, "equipment inferred when prose gives none")
}

func TestExtractMethodSteps_DefaultStep(t *testing.T) {
	tr := newTestTransformer()

	steps := tr.ExtractMethodSteps(&agent.InstallerResponse{}, nil)
	require.Len(t, steps, 1)
	assert.Equal(t, "Preparation and Safety Checks", steps[0].Title)
	assert.Equal(t, 1, steps[0].StepNumber)
	assert.Equal(t, domain.RiskLevelLow, steps[0].RiskLevel)
	assert.NotEmpty(t, steps[0].EquipmentNeeded)
	assert.NotEmpty(t, steps[0].Qualifications)
}
