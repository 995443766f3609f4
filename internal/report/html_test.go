package report

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomashby/ramsgen/internal/domain"
)

func testData() *Data {
	return &Data{
		RAMS: &domain.RAMSData{
			ProjectName:     "Consumer Unit Replacement",
			ProjectLocation: "14 Harbour Lane, Bristol",
			Date:            "2026-03-10",
			Assessor:        "J. Smith",
			Contractor:      "Ashby Electrical Ltd",
			Supervisor:      "T. Brown",
			Activities:      []string{"Isolate supply", "Replace consumer unit"},
			Risks: []domain.Risk{
				{
					ID:            "r-1",
					Hazard:        "Electric shock from live conductors",
					Risk:          "Potential injury or harm to operatives or others",
					Likelihood:    3,
					Severity:      5,
					RiskRating:    15,
					Controls:      "• Safe isolation to GS38\n• Lock-off and prove dead",
					ResidualRisk:  7,
					FurtherAction: "Monitor and review controls",
					Responsible:   "Site Supervisor",
					ActionBy:      time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
				},
			},
			Hazards: []domain.Hazard{
				{ID: "hazard-1", Hazard: "Electric shock from live conductors", Likelihood: 3, Severity: 5, RiskScore: 15, RiskLevel: domain.RiskLevelHigh},
			},
			PPEDetails: []domain.PPEItem{
				{ID: "ppe-1", ItemNumber: 1, PPEType: "Safety helmet", Standard: "BS EN 397", Mandatory: true, Purpose: "Head protection"},
			},
			EmergencyProcedures:   []string{"Call 999 in case of serious injury"},
			ComplianceRegulations: []string{"BS 7671:2018", "Electricity at Work Regulations 1989"},
		},
		Method: &domain.MethodStatementData{
			ProjectName:     "Consumer Unit Replacement",
			ProjectLocation: "14 Harbour Lane, Bristol",
			WorkType:        "Electrical installation",
			Duration:        "1 day",
			Description:     "Replacement of the existing consumer unit.",
			OverallRisk:     domain.RiskLevelMedium,
			ReviewDate:      "2027-03-10",
			Steps: []domain.MethodStep{
				{
					ID:                 "step-1",
					StepNumber:         1,
					Title:              "Preparation and Safety Checks",
					Description:        "Review drawings and isolate the supply.",
					EstimatedDuration:  "30 minutes",
					RiskLevel:          domain.RiskLevelLow,
					SafetyRequirements: []string{"Prove dead before touching conductors"},
					EquipmentNeeded:    []string{"Voltage indicator"},
					Qualifications:     []string{"Qualified electrician"},
				},
			},
		},
		GeneratedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTMLGenerator_Generate(t *testing.T) {
	gen := NewHTMLGenerator(discardLogger())
	assert.Equal(t, domain.DocumentFormatHTML, gen.Format())

	var buf bytes.Buffer
	n, err := gen.Generate(context.Background(), testData(), &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	html := buf.String()
	assert.Contains(t, html, "Consumer Unit Replacement")
	assert.Contains(t, html, "Electric shock from live conductors")
	assert.Contains(t, html, "Safe isolation to GS38")
	assert.Contains(t, html, "Preparation and Safety Checks")
	assert.Contains(t, html, "BS EN 397")
	assert.Contains(t, html, "2027-03-10")
	// Controls are split out of their bullet-joined form
	assert.NotContains(t, html, "•")
}

func TestHTMLGenerator_IncompleteData(t *testing.T) {
	gen := NewHTMLGenerator(discardLogger())

	var buf bytes.Buffer
	_, err := gen.Generate(context.Background(), &Data{}, &buf)
	require.Error(t, err)

	_, err = gen.Generate(context.Background(), nil, &buf)
	require.Error(t, err)
}

func TestPDFGenerator_Generate(t *testing.T) {
	gen := NewPDFGenerator()
	assert.Equal(t, domain.DocumentFormatPDF, gen.Format())

	var buf bytes.Buffer
	n, err := gen.Generate(context.Background(), testData(), &buf)
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
