package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
)

// ExtractMethodSteps builds the ordered method-step list from an installer
// response. Structured steps are preferred; prose is parsed as fallback; and
// if neither yields anything, a single default preparation step is emitted.
// The hazards argument is used only for linking and is not mutated.
func (t *Transformer) ExtractMethodSteps(resp *agent.InstallerResponse, hazards []domain.Hazard) []domain.MethodStep {
	var steps []domain.MethodStep

	source := resp.Steps()
	if len(source) > 0 {
		for i, s := range source {
			steps = append(steps, t.buildStep(s, i, hazards))
		}
	} else {
		steps = parseFreeTextSteps(resp.FreeText())
		for i := range steps {
			finalizeStep(&steps[i], i, hazards)
		}
	}

	if len(steps) == 0 {
		step := defaultStep()
		finalizeStep(&step, 0, hazards)
		steps = append(steps, step)
	}

	t.logger.Debug("extracted method steps", "steps", len(steps), "from_free_text", len(source) == 0)
	return steps
}

// buildStep maps one structured source step, inferring any field the agent
// left blank. Every structurally required field is filled; only safety
// requirements may legitimately end up empty.
func (t *Transformer) buildStep(s agent.SourceStep, i int, hazards []domain.Hazard) domain.MethodStep {
	title := s.EffectiveTitle()
	if title == "" {
		title = fmt.Sprintf("Step %d", i+1)
	}

	duration := s.EffectiveDuration()
	if duration == "" {
		duration = "1 hour"
	}

	level := domain.RiskLevel(strings.ToLower(s.RiskLevel))
	if !level.IsValid() {
		level = riskLevelFromText(title + " " + s.Description)
	}

	safety := s.EffectiveSafety()
	if len(safety) == 0 {
		safety = inferSafety(title + " " + s.Description)
	}

	equipment := s.EffectiveEquipment()
	if len(equipment) == 0 {
		equipment = InferEquipment(title)
	}

	qualifications := s.Qualifications
	if len(qualifications) == 0 {
		qualifications = InferQualifications(title + " " + s.Description)
	}

	id := s.ID
	if id == "" {
		id = fmt.Sprintf("step-%d", i+1)
	}

	return domain.MethodStep{
		ID:                 id,
		StepNumber:         i + 1,
		Title:              title,
		Description:        s.Description,
		EstimatedDuration:  duration,
		RiskLevel:          level,
		SafetyRequirements: safety,
		EquipmentNeeded:    equipment,
		Qualifications:     qualifications,
		LinkedHazards:      LinkHazards(title+" "+s.Description, hazards),
		IsCompleted:        false,
	}
}

// finalizeStep fills inferred fields and numbering on a step built from prose
// or from the default branch.
func finalizeStep(step *domain.MethodStep, i int, hazards []domain.Hazard) {
	step.StepNumber = i + 1
	if step.ID == "" {
		step.ID = fmt.Sprintf("step-%d", i+1)
	}
	if step.EstimatedDuration == "" {
		step.EstimatedDuration = "1 hour"
	}
	if !step.RiskLevel.IsValid() {
		step.RiskLevel = riskLevelFromText(step.Title + " " + step.Description)
	}
	if len(step.SafetyRequirements) == 0 {
		step.SafetyRequirements = inferSafety(step.Title + " " + step.Description)
	}
	if len(step.EquipmentNeeded) == 0 {
		step.EquipmentNeeded = InferEquipment(step.Title)
	}
	if len(step.Qualifications) == 0 {
		step.Qualifications = InferQualifications(step.Title + " " + step.Description)
	}
	step.LinkedHazards = LinkHazards(step.Title+" "+step.Description, hazards)
}

func defaultStep() domain.MethodStep {
	return domain.MethodStep{
		Title:             "Preparation and Safety Checks",
		Description:       "Review the risk assessment with all operatives, confirm isolation requirements and check tools and PPE before work begins.",
		EstimatedDuration: "30 minutes",
		RiskLevel:         domain.RiskLevelLow,
	}
}

// riskLevelFromText decides a step's risk band from its text alone. Prose
// carries less signal than structured data, so the rule is deliberately
// simpler than the hazard scoring matrix.
func riskLevelFromText(text string) domain.RiskLevel {
	lower := strings.ToLower(text)
	if containsAny(lower, []string{"live", "energised", "danger"}) {
		return domain.RiskLevelHigh
	}
	if containsAny(lower, []string{"height", "confined", "ladder", "scaffold"}) {
		return domain.RiskLevelMedium
	}
	return domain.RiskLevelLow
}

// inferSafety scans step text for work-phase keywords and collects the
// matching safety requirements. Unlike equipment and qualifications this may
// return nothing: it records requirements detected, not a guaranteed minimum.
func inferSafety(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	if containsAny(lower, []string{"isolation", "isolate", "dead"}) {
		out = append(out, "Verify safe isolation and prove dead before touching conductors")
	}
	if containsAny(lower, []string{"live", "energised"}) {
		out = append(out, "Live working only where unavoidable, with a standby person present")
	}
	if containsAny(lower, []string{"height", "ladder", "podium"}) {
		out = append(out, "Working at height precautions and pre-use access equipment checks")
	}
	if containsAny(lower, []string{"drill", "dust"}) {
		out = append(out, "Dust extraction or suppression and suitable RPE")
	}
	if containsAny(lower, []string{"manual", "lift", "heavy"}) {
		out = append(out, "Assess loads before lifting and use mechanical aids where practicable")
	}
	if strings.Contains(lower, "test") {
		out = append(out, "Test leads and probes to GS38 with in-calibration instruments")
	}
	return out
}

// =============================================================================
// Equipment inference
// =============================================================================

// InferEquipment classifies a step by its title into a work phase and
// returns a tool list for that phase. The branches form an ordered
// if/else-if chain and the first matching phase wins, so a title matching
// several phase vocabularies settles on the earliest branch. Within the
// install branch, sub-keywords each add their own tool group and can combine.
func InferEquipment(title string) []string {
	lower := strings.ToLower(title)

	switch {
	case containsAny(lower, []string{"survey", "planning", "assessment"}):
		return []string{"Tape measure", "Digital camera", "Voltage indicator", "Socket tester", "Notepad or tablet"}

	case containsAny(lower, []string{"procurement", "ordering", "order"}):
		return []string{"No special tools required"}

	case containsAny(lower, []string{"isolation", "isolate", "shutdown", "permit"}):
		return []string{"Lock-off kit", "Padlocks and warning tags", "Voltage indicator", "Proving unit"}

	case containsAny(lower, []string{"install", "mount", "fix", "route", "wire", "wiring"}):
		equipment := []string{"Cordless drill", "Screwdriver set", "Pliers and side cutters"}
		if containsAny(lower, []string{"mount", "board", "unit", "fix"}) {
			equipment = append(equipment, "SDS drill", "Masonry bits", "Wall fixings", "Spirit level")
		}
		if containsAny(lower, []string{"cable", "route", "wire", "wiring"}) {
			equipment = append(equipment, "Cable rods", "Draw tape", "Cable clips", "Cable cutters")
		}
		if containsAny(lower, []string{"terminat", "connect"}) {
			equipment = append(equipment, "Torque screwdriver", "Cable strippers", "Crimping tool")
		}
		if strings.Contains(lower, "label") {
			equipment = append(equipment, "Label printer")
		}
		return equipment

	case containsAny(lower, []string{"decommission", "remove", "disconnect", "strip out"}):
		return []string{"Voltage indicator", "Cable cutters", "Insulation tape", "Waste bags"}

	case containsAny(lower, []string{"test", "commission", "verify", "inspect"}):
		equipment := []string{"Multi-function tester"}
		if strings.Contains(lower, "insulation") {
			equipment = append(equipment, "Insulation resistance tester")
		}
		if strings.Contains(lower, "earth") {
			equipment = append(equipment, "Earth loop impedance tester")
		}
		if strings.Contains(lower, "rcd") {
			equipment = append(equipment, "RCD tester")
		}
		return equipment

	case containsAny(lower, []string{"prepare", "new location"}):
		return []string{"SDS drill", "Masonry bits", "Wall fixings", "Spirit level"}

	case containsAny(lower, []string{"handover", "document", "certificate", "brief"}):
		return []string{"No special tools required"}

	default:
		return []string{"Standard electrician hand tools"}
	}
}

// InferQualifications scans step text for task keywords and collects the
// qualifications each implies. With no match, a qualified electrician is the
// baseline for any electrical work.
func InferQualifications(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	if containsAny(lower, []string{"isolation", "isolate", "switching", "energis"}) {
		out = append(out, "Authorised Person (Electrical)")
	}
	if containsAny(lower, []string{"test", "commission"}) {
		out = append(out, "BS 7671 18th Edition", "Inspection & Testing (2391)")
	}
	if containsAny(lower, []string{"design", "calculat"}) {
		out = append(out, "Electrical Installation Design")
	}
	if len(out) == 0 {
		out = append(out, "Qualified electrician")
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// =============================================================================
// Free-text parsing
// =============================================================================

var (
	stepHeaderRe = regexp.MustCompile(`(?i)^(?:step|stage)\s*(\d+)[:.)\s-]*(.*)$`)
	numberedRe   = regexp.MustCompile(`^(\d+)[.)]\s*(.*)$`)
	timeRe       = regexp.MustCompile(`(?i)(\d+)\s*(hour|min)`)
)

// textSection tracks which list bullet lines currently attach to.
type textSection int

const (
	sectionNone textSection = iota
	sectionSafety
	sectionEquipment
)

// parseFreeTextSteps reconstructs method steps from prose. Step headers
// ("Step 1", "Stage 2:", "3.") flush the previous step; Safety and Equipment
// labels switch which list bullets feed; a line mentioning time with an hour
// or minute figure sets the duration.
func parseFreeTextSteps(text string) []domain.MethodStep {
	var steps []domain.MethodStep
	var current *domain.MethodStep
	section := sectionNone

	flush := func() {
		if current != nil && current.Title != "" {
			steps = append(steps, *current)
		}
		current = nil
		section = sectionNone
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		title, ok := matchStepHeader(line)
		if ok {
			flush()
			if title == "" {
				title = fmt.Sprintf("Step %d", len(steps)+1)
			}
			current = &domain.MethodStep{Title: title}
			continue
		}
		if current == nil {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "safety:"), strings.HasPrefix(lower, "ppe:"),
			strings.HasPrefix(lower, "precaution"):
			section = sectionSafety
			if _, value := splitLabel(line); value != "" {
				current.SafetyRequirements = append(current.SafetyRequirements, value)
			}

		case strings.HasPrefix(lower, "equipment:"), strings.HasPrefix(lower, "material:"),
			strings.HasPrefix(lower, "tool:"), strings.HasPrefix(lower, "tools:"):
			section = sectionEquipment
			if _, value := splitLabel(line); value != "" {
				current.EquipmentNeeded = append(current.EquipmentNeeded, value)
			}

		case strings.Contains(lower, "time") && timeRe.MatchString(line):
			m := timeRe.FindStringSubmatch(line)
			unit := "minutes"
			if strings.EqualFold(m[2], "hour") {
				unit = "hours"
				if m[1] == "1" {
					unit = "hour"
				}
			}
			current.EstimatedDuration = m[1] + " " + unit

		case isBullet(line):
			item := trimBullet(line)
			switch section {
			case sectionSafety:
				current.SafetyRequirements = append(current.SafetyRequirements, item)
			case sectionEquipment:
				current.EquipmentNeeded = append(current.EquipmentNeeded, item)
			default:
				current.Description = joinSentences(current.Description, item)
			}

		default:
			current.Description = joinSentences(current.Description, line)
		}
	}
	flush()
	return steps
}

// matchStepHeader reports whether a line starts a new step, returning the
// remainder of the line as the step title.
func matchStepHeader(line string) (string, bool) {
	if m := stepHeaderRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), true
	}
	if m := numberedRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), true
	}
	return "", false
}

func joinSentences(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + " " + addition
}
