// Package mock provides a canned agent provider for development and tests.
package mock

import (
	"context"
	"log/slog"

	"github.com/tomashby/ramsgen/internal/agent"
)

// Provider is a mock agent provider for testing and development.
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	RiskAssessmentResponse  *agent.HealthSafetyResponse
	RiskAssessmentError     error
	MethodStatementResponse *agent.InstallerResponse
	MethodStatementError    error

	// Call tracking for testing
	RiskAssessmentCalls  int
	MethodStatementCalls int
}

// New creates a new mock agent provider.
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// GenerateRiskAssessment returns a canned risk assessment for a small
// commercial installation job.
func (p *Provider) GenerateRiskAssessment(ctx context.Context, params agent.GenerateParams) (*agent.HealthSafetyResponse, error) {
	p.RiskAssessmentCalls++

	if p.RiskAssessmentError != nil {
		return nil, p.RiskAssessmentError
	}
	if p.RiskAssessmentResponse != nil {
		return p.RiskAssessmentResponse, nil
	}

	p.logger.Debug("mock risk assessment", "query", params.Query)

	resp := &agent.HealthSafetyResponse{
		RiskAssessment: &agent.RiskAssessment{
			Hazards: []agent.SourceHazard{
				{
					Hazard:     "Electric shock from live conductors during connection work",
					Risk:       "Serious injury or death from contact with live parts",
					Likelihood: 3,
					Severity:   5,
					Controls: agent.Controls{Items: []string{
						"Safe isolation following GS38 procedure",
						"Prove dead with approved voltage indicator",
						"Lock-off devices fitted at all isolation points",
					}},
					Regulation: "Electricity at Work Regulations 1989",
				},
				{
					Hazard:     "Working at height when routing cables above ceiling level",
					Risk:       "Injury from falls while using access equipment",
					Likelihood: 2,
					Severity:   4,
				},
				{
					Hazard:     "Dust from drilling fixing holes in masonry",
					Risk:       "Respiratory irritation and eye injury",
					Likelihood: 3,
					Severity:   2,
				},
			},
			PPE: []agent.PPEEntry{
				{Text: "Safety helmet to BS EN 397"},
				{Text: "Insulated gloves to BS EN 60903"},
				{Text: "Safety glasses to BS EN 166"},
			},
			EmergencyProcedures: []string{
				"Isolate the supply before approaching a casualty in contact with live parts",
				"Call 999 for any serious injury and report near misses to the supervisor",
			},
		},
		Compliance: &agent.Compliance{
			Regulations: []string{"BS 7671:2018+A2:2022", "Electricity at Work Regulations 1989", "CDM 2015"},
			Warnings:    []string{"Confirm the supply characteristics with the DNO before final connection"},
		},
	}
	return resp, nil
}

// GenerateMethodStatement returns a canned method statement matching the
// mock risk assessment.
func (p *Provider) GenerateMethodStatement(ctx context.Context, params agent.GenerateParams) (*agent.InstallerResponse, error) {
	p.MethodStatementCalls++

	if p.MethodStatementError != nil {
		return nil, p.MethodStatementError
	}
	if p.MethodStatementResponse != nil {
		return p.MethodStatementResponse, nil
	}

	p.logger.Debug("mock method statement", "query", params.Query)

	resp := &agent.InstallerResponse{
		MethodStatementSteps: []agent.SourceStep{
			{
				Title:             "Site survey and circuit identification",
				Description:       "Confirm the scope of work, identify affected circuits and record existing board details.",
				EstimatedDuration: "45 minutes",
				RiskLevel:         "low",
			},
			{
				Title:             "Isolate the supply and apply lock-off",
				Description:       "Isolate at the main switch, fit lock-off devices and prove dead at the point of work.",
				EstimatedDuration: "30 minutes",
				RiskLevel:         "high",
			},
			{
				Title:             "Install containment and route cables",
				Description:       "Fix containment, route new circuits through the ceiling void and dress into the board.",
				EstimatedDuration: "3 hours",
				RiskLevel:         "medium",
			},
			{
				Title:             "Terminate and test the installation",
				Description:       "Terminate all conductors to torque settings, then complete dead and live testing to BS 7671.",
				EstimatedDuration: "2 hours",
				RiskLevel:         "medium",
			},
		},
		PracticalTips: []string{
			"Photograph the board before stripping out so circuits can be reinstated correctly",
		},
		CommonMistakes: []string{
			"Relying on circuit labels without proving dead at the point of work",
		},
		ToolsRequired:      []string{"Multi-function tester", "Lock-off kit", "SDS drill"},
		MaterialsRequired:  []string{"Twin and earth cable", "Cable clips", "Circuit labels"},
		TotalEstimatedTime: "1 day",
		DifficultyLevel:    "moderate",
		Compliance: &agent.Compliance{
			Regulations: []string{"BS 7671:2018+A2:2022"},
		},
	}
	return resp, nil
}
