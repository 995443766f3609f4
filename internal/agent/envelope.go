package agent

import (
	"encoding/json"
)

// Agent responses arrive in inconsistent shapes: the structured payload may
// sit at the top level, under "structuredData", or under
// "response.structuredData", and several fields accept more than one JSON
// type. The envelope types in this file absorb every shape we have observed,
// and the accessor methods implement the unwrap order: direct field first,
// then structuredData, then response.structuredData. Callers use only the
// accessors.

// =============================================================================
// Shared field types
// =============================================================================

// Controls holds a hazard's control measures, which arrive either as a JSON
// array of strings or as a single string.
type Controls struct {
	Items []string // set when the payload carried an array
	Text  string   // set when the payload carried a plain string
}

// UnmarshalJSON accepts either a string or an array of strings.
func (c *Controls) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		c.Items = items
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.Text = text
		return nil
	}
	// Unknown shape: treat as absent rather than failing the whole envelope.
	return nil
}

// IsZero returns true when no control data was supplied.
func (c Controls) IsZero() bool {
	return len(c.Items) == 0 && c.Text == ""
}

// PPEEntry is one PPE list element: either legacy free text
// ("Safety helmet to BS EN 397") or a structured object.
type PPEEntry struct {
	Text string
	Item *PPEObject
}

// PPEObject is the structured PPE shape.
type PPEObject struct {
	ItemNumber int    `json:"itemNumber"`
	PPEType    string `json:"ppeType"`
	Standard   string `json:"standard"`
	Mandatory  *bool  `json:"mandatory"` // nil means unspecified (defaults true)
	Purpose    string `json:"purpose"`
}

// UnmarshalJSON accepts either a string or a PPE object.
func (p *PPEEntry) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		p.Text = text
		return nil
	}
	var obj PPEObject
	if err := json.Unmarshal(data, &obj); err == nil {
		p.Item = &obj
		return nil
	}
	return nil
}

// =============================================================================
// Health & safety agent
// =============================================================================

// SourceHazard is one hazard as emitted by the health & safety agent.
type SourceHazard struct {
	ID              string   `json:"id"`
	Hazard          string   `json:"hazard"`
	Risk            string   `json:"risk"` // consequence description
	Likelihood      int      `json:"likelihood"`
	Severity        int      `json:"severity"`
	Controls        Controls `json:"controls"`
	ControlMeasures []string `json:"controlMeasures"`
	Regulation      string   `json:"regulation"`
}

// RiskAssessment is the structured risk-assessment block.
type RiskAssessment struct {
	Hazards             []SourceHazard `json:"hazards"`
	PPE                 []PPEEntry     `json:"ppe"`
	EmergencyProcedures []string       `json:"emergencyProcedures"`
}

// Compliance carries regulation and warning lists attached to a response.
type Compliance struct {
	Regulations []string `json:"regulations"`
	Warnings    []string `json:"warnings"`
}

// HealthSafetyData is the structured payload of the health & safety agent.
type HealthSafetyData struct {
	RiskAssessment *RiskAssessment `json:"riskAssessment"`
	Compliance     *Compliance     `json:"compliance"`
}

// NestedHSResponse is the "response" field of a health & safety envelope,
// which is either a free-text string or a nested object carrying
// structuredData one level down.
type NestedHSResponse struct {
	Text           string
	StructuredData *HealthSafetyData
}

// UnmarshalJSON accepts either a string or a nested response object.
func (n *NestedHSResponse) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		n.Text = text
		return nil
	}
	var obj struct {
		Response       string            `json:"response"`
		StructuredData *HealthSafetyData `json:"structuredData"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		n.Text = obj.Response
		n.StructuredData = obj.StructuredData
		return nil
	}
	return nil
}

// HealthSafetyResponse is the full envelope returned by the health & safety
// agent, in any of its observed nestings.
type HealthSafetyResponse struct {
	RiskAssessment *RiskAssessment   `json:"riskAssessment"`
	Compliance     *Compliance       `json:"compliance"`
	StructuredData *HealthSafetyData `json:"structuredData"`
	Response       NestedHSResponse  `json:"response"`
}

// Assessment returns the first risk-assessment block found in unwrap order,
// or nil if the envelope carries none.
func (r *HealthSafetyResponse) Assessment() *RiskAssessment {
	if r == nil {
		return nil
	}
	if r.RiskAssessment != nil {
		return r.RiskAssessment
	}
	if r.StructuredData != nil && r.StructuredData.RiskAssessment != nil {
		return r.StructuredData.RiskAssessment
	}
	if r.Response.StructuredData != nil && r.Response.StructuredData.RiskAssessment != nil {
		return r.Response.StructuredData.RiskAssessment
	}
	return nil
}

// Hazards returns the source hazards, or nil.
func (r *HealthSafetyResponse) Hazards() []SourceHazard {
	if a := r.Assessment(); a != nil {
		return a.Hazards
	}
	return nil
}

// PPE returns the PPE entries, or nil.
func (r *HealthSafetyResponse) PPE() []PPEEntry {
	if a := r.Assessment(); a != nil {
		return a.PPE
	}
	return nil
}

// EmergencyProcedures returns the emergency procedures, or nil.
func (r *HealthSafetyResponse) EmergencyProcedures() []string {
	if a := r.Assessment(); a != nil {
		return a.EmergencyProcedures
	}
	return nil
}

// ComplianceData returns the compliance block found in unwrap order, or nil.
func (r *HealthSafetyResponse) ComplianceData() *Compliance {
	if r == nil {
		return nil
	}
	if r.Compliance != nil {
		return r.Compliance
	}
	if r.StructuredData != nil && r.StructuredData.Compliance != nil {
		return r.StructuredData.Compliance
	}
	if r.Response.StructuredData != nil && r.Response.StructuredData.Compliance != nil {
		return r.Response.StructuredData.Compliance
	}
	return nil
}

// FreeText returns the agent's prose response, used as the parsing fallback
// when no structured data is present.
func (r *HealthSafetyResponse) FreeText() string {
	if r == nil {
		return ""
	}
	return r.Response.Text
}

// =============================================================================
// Installer agent
// =============================================================================

// SourceStep is one method step as emitted by the installer agent. Several
// fields have two accepted names; the first non-empty wins.
type SourceStep struct {
	ID                 string   `json:"id"`
	StepNumber         int      `json:"stepNumber"`
	Title              string   `json:"title"`
	Step               string   `json:"step"` // alternate name for title
	Description        string   `json:"description"`
	EstimatedDuration  string   `json:"estimatedDuration"`
	Duration           string   `json:"duration"` // alternate name
	RiskLevel          string   `json:"riskLevel"`
	SafetyRequirements []string `json:"safetyRequirements"`
	SafetyNotes        []string `json:"safetyNotes"` // alternate name
	EquipmentNeeded    []string `json:"equipmentNeeded"`
	Equipment          []string `json:"equipment"` // alternate name
	Qualifications     []string `json:"qualifications"`
}

// EffectiveTitle returns the step title, whichever field carried it.
func (s SourceStep) EffectiveTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Step
}

// EffectiveDuration returns the step duration, whichever field carried it.
func (s SourceStep) EffectiveDuration() string {
	if s.EstimatedDuration != "" {
		return s.EstimatedDuration
	}
	return s.Duration
}

// EffectiveSafety returns the safety list, whichever field carried it.
func (s SourceStep) EffectiveSafety() []string {
	if len(s.SafetyRequirements) > 0 {
		return s.SafetyRequirements
	}
	return s.SafetyNotes
}

// EffectiveEquipment returns the equipment list, whichever field carried it.
func (s SourceStep) EffectiveEquipment() []string {
	if len(s.EquipmentNeeded) > 0 {
		return s.EquipmentNeeded
	}
	return s.Equipment
}

// InstallerData is the structured payload of the installer agent.
type InstallerData struct {
	MethodStatementSteps []SourceStep `json:"methodStatementSteps"`
	PracticalTips        []string     `json:"practicalTips"`
	CommonMistakes       []string     `json:"commonMistakes"`
	ToolsRequired        []string     `json:"toolsRequired"`
	MaterialsRequired    []string     `json:"materialsRequired"`
	TotalEstimatedTime   string       `json:"totalEstimatedTime"`
	DifficultyLevel      string       `json:"difficultyLevel"`
	Compliance           *Compliance  `json:"compliance"`
}

// NestedInstallerResponse is the "response" field of an installer envelope:
// free text or a nested object.
type NestedInstallerResponse struct {
	Text           string
	StructuredData *InstallerData
}

// UnmarshalJSON accepts either a string or a nested response object.
func (n *NestedInstallerResponse) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		n.Text = text
		return nil
	}
	var obj struct {
		Response       string         `json:"response"`
		StructuredData *InstallerData `json:"structuredData"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		n.Text = obj.Response
		n.StructuredData = obj.StructuredData
		return nil
	}
	return nil
}

// InstallerResponse is the full envelope returned by the installer agent.
type InstallerResponse struct {
	MethodStatementSteps []SourceStep            `json:"methodStatementSteps"`
	PracticalTips        []string                `json:"practicalTips"`
	CommonMistakes       []string                `json:"commonMistakes"`
	ToolsRequired        []string                `json:"toolsRequired"`
	MaterialsRequired    []string                `json:"materialsRequired"`
	TotalEstimatedTime   string                  `json:"totalEstimatedTime"`
	DifficultyLevel      string                  `json:"difficultyLevel"`
	Compliance           *Compliance             `json:"compliance"`
	StructuredData       *InstallerData          `json:"structuredData"`
	Response             NestedInstallerResponse `json:"response"`
}

// data returns the structured payload found in unwrap order, or nil.
func (r *InstallerResponse) data() *InstallerData {
	if r == nil {
		return nil
	}
	if r.StructuredData != nil {
		return r.StructuredData
	}
	return r.Response.StructuredData
}

// Steps returns the method steps found in unwrap order, or nil.
func (r *InstallerResponse) Steps() []SourceStep {
	if r == nil {
		return nil
	}
	if len(r.MethodStatementSteps) > 0 {
		return r.MethodStatementSteps
	}
	if d := r.data(); d != nil {
		return d.MethodStatementSteps
	}
	return nil
}

// stringList resolves a pass-through list field in unwrap order.
func (r *InstallerResponse) stringList(direct []string, nested func(*InstallerData) []string) []string {
	if r == nil {
		return nil
	}
	if len(direct) > 0 {
		return direct
	}
	if d := r.data(); d != nil {
		return nested(d)
	}
	return nil
}

// Tips returns the practical tips, or nil.
func (r *InstallerResponse) Tips() []string {
	return r.stringList(r.PracticalTips, func(d *InstallerData) []string { return d.PracticalTips })
}

// Mistakes returns the common mistakes, or nil.
func (r *InstallerResponse) Mistakes() []string {
	return r.stringList(r.CommonMistakes, func(d *InstallerData) []string { return d.CommonMistakes })
}

// Tools returns the required tools, or nil.
func (r *InstallerResponse) Tools() []string {
	return r.stringList(r.ToolsRequired, func(d *InstallerData) []string { return d.ToolsRequired })
}

// Materials returns the required materials, or nil.
func (r *InstallerResponse) Materials() []string {
	return r.stringList(r.MaterialsRequired, func(d *InstallerData) []string { return d.MaterialsRequired })
}

// TotalTime returns the installer's overall time estimate, or "".
func (r *InstallerResponse) TotalTime() string {
	if r == nil {
		return ""
	}
	if r.TotalEstimatedTime != "" {
		return r.TotalEstimatedTime
	}
	if d := r.data(); d != nil {
		return d.TotalEstimatedTime
	}
	return ""
}

// Difficulty returns the installer's difficulty rating, or "".
func (r *InstallerResponse) Difficulty() string {
	if r == nil {
		return ""
	}
	if r.DifficultyLevel != "" {
		return r.DifficultyLevel
	}
	if d := r.data(); d != nil {
		return d.DifficultyLevel
	}
	return ""
}

// ComplianceData returns the compliance block found in unwrap order, or nil.
func (r *InstallerResponse) ComplianceData() *Compliance {
	if r == nil {
		return nil
	}
	if r.Compliance != nil {
		return r.Compliance
	}
	if d := r.data(); d != nil {
		return d.Compliance
	}
	return nil
}

// FreeText returns the agent's prose response, used as the parsing fallback
// when no structured steps are present.
func (r *InstallerResponse) FreeText() string {
	if r == nil {
		return ""
	}
	return r.Response.Text
}
