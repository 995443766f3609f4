package openai

import (
	"fmt"
	"strings"

	"github.com/tomashby/ramsgen/internal/agent"
)

const healthSafetySystemPrompt = `You are a UK health and safety consultant specialising in electrical contracting. You produce risk assessments compliant with BS 7671, the Electricity at Work Regulations 1989 and CDM 2015.

Respond with a JSON object of this shape:
{
  "riskAssessment": {
    "hazards": [
      {
        "hazard": "description of the hazard",
        "risk": "description of the consequence",
        "likelihood": 1-5,
        "severity": 1-5,
        "controls": ["control measure", ...],
        "regulation": "relevant regulation if any"
      }
    ],
    "ppe": [
      {"ppeType": "item", "standard": "BS EN reference", "mandatory": true, "purpose": "why"}
    ],
    "emergencyProcedures": ["procedure", ...]
  },
  "compliance": {
    "regulations": ["regulation", ...],
    "warnings": ["warning", ...]
  }
}

Rate likelihood and severity on a 1-5 scale. Include every hazard a competent assessor would record for the described work, not only electrical ones.`

const installerSystemPrompt = `You are an experienced UK electrician writing method statements for electrical installation work to BS 7671.

Respond with a JSON object of this shape:
{
  "methodStatementSteps": [
    {
      "title": "step title",
      "description": "what is done and how",
      "estimatedDuration": "e.g. 30 minutes or 2 hours",
      "riskLevel": "low|medium|high",
      "safetyRequirements": ["requirement", ...],
      "equipmentNeeded": ["tool", ...],
      "qualifications": ["qualification", ...]
    }
  ],
  "practicalTips": ["tip", ...],
  "commonMistakes": ["mistake", ...],
  "toolsRequired": ["tool", ...],
  "materialsRequired": ["material", ...],
  "totalEstimatedTime": "overall estimate",
  "difficultyLevel": "easy|moderate|difficult",
  "compliance": {"regulations": [...], "warnings": [...]}
}

Order the steps as the work would actually be carried out, starting from isolation and ending with testing and handover.`

// buildHealthSafetyPrompt renders the user message for the risk assessment.
func buildHealthSafetyPrompt(params agent.GenerateParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce a risk assessment for the following electrical work.\n\n")
	fmt.Fprintf(&b, "Work description: %s\n", params.Query)
	writeProjectContext(&b, params)
	return b.String()
}

// buildInstallerPrompt renders the user message for the method statement.
func buildInstallerPrompt(params agent.GenerateParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce a step-by-step method statement for the following electrical work.\n\n")
	fmt.Fprintf(&b, "Work description: %s\n", params.Query)
	writeProjectContext(&b, params)
	return b.String()
}

func writeProjectContext(b *strings.Builder, params agent.GenerateParams) {
	p := params.Project
	if p.ProjectName != "" {
		fmt.Fprintf(b, "Project: %s\n", p.ProjectName)
	}
	if p.Location != "" {
		fmt.Fprintf(b, "Location: %s\n", p.Location)
	}
	if p.WorkType != "" {
		fmt.Fprintf(b, "Work type: %s\n", p.WorkType)
	}
	if p.TeamSize > 0 {
		fmt.Fprintf(b, "Team size: %d\n", p.TeamSize)
	}
	if p.Contractor != "" {
		fmt.Fprintf(b, "Contractor: %s\n", p.Contractor)
	}
}
