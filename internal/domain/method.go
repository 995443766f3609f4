package domain

// MethodStep is one ordered unit of work in a method statement.
//
// StepNumber is contiguous starting at 1 in emission order. LinkedHazards
// holds Hazard ids (weak references into the sibling RAMS document), already
// deduplicated. IsCompleted is always false at creation; completion is
// tracked downstream.
type MethodStep struct {
	ID                 string    `json:"id"`
	StepNumber         int       `json:"stepNumber"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	EstimatedDuration  string    `json:"estimatedDuration"`
	RiskLevel          RiskLevel `json:"riskLevel"`
	SafetyRequirements []string  `json:"safetyRequirements"`
	EquipmentNeeded    []string  `json:"equipmentNeeded"`
	Qualifications     []string  `json:"qualifications"`
	LinkedHazards      []string  `json:"linkedHazards"`
	IsCompleted        bool      `json:"isCompleted"`
}

// MethodStatementData is the generated method statement document.
type MethodStatementData struct {
	ProjectName     string    `json:"projectName"`
	ProjectLocation string    `json:"location"`
	Contractor      string    `json:"contractor"`
	Supervisor      string    `json:"supervisor"`
	Date            string    `json:"date"`
	WorkType        string    `json:"workType"`
	Duration        string    `json:"duration"` // aggregate, derived from steps
	TeamSize        int       `json:"teamSize,omitempty"`
	Description     string    `json:"description"`
	OverallRisk     RiskLevel `json:"overallRiskLevel"`
	ReviewDate      string    `json:"reviewDate"` // one year after generation

	Steps []MethodStep `json:"steps"`

	// Supplementary installer output, passed through when present.
	PracticalTips      []string `json:"practicalTips,omitempty"`
	CommonMistakes     []string `json:"commonMistakes,omitempty"`
	ToolsRequired      []string `json:"toolsRequired,omitempty"`
	MaterialsRequired  []string `json:"materialsRequired,omitempty"`
	TotalEstimatedTime string   `json:"totalEstimatedTime,omitempty"`
	DifficultyLevel    string   `json:"difficultyLevel,omitempty"`

	ComplianceRegulations []string `json:"complianceRegulations"`
	ComplianceWarnings    []string `json:"complianceWarnings"`
}
