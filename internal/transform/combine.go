// Package transform normalizes loosely-structured agent responses into RAMS
// and method-statement documents.
//
// The pipeline is deterministic keyword matching and record mapping with a
// "never fail, always degrade" posture: every extraction path has a fixed
// fallback, so a transformation always yields a complete document even from
// an empty or garbage response. The only non-pure inputs are generated ids
// and the clock.
package transform

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
)

// reviewAfterDays is how far ahead the document review date is set.
const reviewAfterDays = 365

// Transformer converts agent responses into generated documents. Safe for
// concurrent use: it holds no per-call state.
type Transformer struct {
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Transformer logging through the given logger.
func New(logger *slog.Logger) *Transformer {
	return &Transformer{
		logger: logger.With("component", "transform"),
		now:    time.Now,
	}
}

// Result is the pair of documents produced by one transformation, plus the
// extraction statistics recorded for diagnostics.
type Result struct {
	RAMS   domain.RAMSData
	Method domain.MethodStatementData
	Stats  Stats
}

// Stats counts what was extracted, and whether fallbacks fired. Exposed so
// callers can log or meter fallback rates; nothing downstream depends on it.
type Stats struct {
	Hazards          int
	PPEItems         int
	Steps            int
	HazardFallback   bool
	DurationEstimate bool
}

// Combine runs the full pipeline: risk extraction, method-step extraction
// with hazard linking, compliance merging and the derived aggregate fields.
func (t *Transformer) Combine(hs *agent.HealthSafetyResponse, installer *agent.InstallerResponse, project domain.ProjectInfo) Result {
	extraction := t.ExtractHazardsAndRisks(hs, project.Assessor)
	steps := t.ExtractMethodSteps(installer, extraction.Hazards)

	regulations, warnings := mergeCompliance(hs.ComplianceData(), installer.ComplianceData())

	duration := installer.TotalTime()
	estimated := duration == ""
	if estimated {
		duration = EstimateTotalDuration(steps)
	}

	ratings := make([]int, len(extraction.Risks))
	for i, r := range extraction.Risks {
		ratings[i] = r.RiskRating
	}

	now := t.now()
	rams := domain.RAMSData{
		ProjectName:      project.ProjectName,
		ProjectLocation:  project.Location,
		Date:             project.Date,
		Assessor:         project.Assessor,
		Contractor:       project.Contractor,
		Supervisor:       project.Supervisor,
		EmergencyContact: project.EmergencyContact,
		EmergencyPhone:   project.EmergencyPhone,
		NearestHospital:  project.NearestHospital,
		AssemblyPoint:    project.AssemblyPoint,

		Activities:          extraction.Activities,
		Risks:               extraction.Risks,
		Hazards:             extraction.Hazards,
		RequiredPPE:         legacyPPEStrings(extraction.PPEDetails),
		PPEDetails:          extraction.PPEDetails,
		EmergencyProcedures: extraction.EmergencyProcedures,

		ComplianceRegulations: regulations,
		ComplianceWarnings:    warnings,
	}

	method := domain.MethodStatementData{
		ProjectName:     project.ProjectName,
		ProjectLocation: project.Location,
		Contractor:      project.Contractor,
		Supervisor:      project.Supervisor,
		Date:            project.Date,
		WorkType:        project.WorkType,
		Duration:        duration,
		TeamSize:        project.TeamSize,
		Description:     deriveDescription(installer.FreeText()),
		OverallRisk:     domain.OverallRiskLevel(ratings),
		ReviewDate:      now.AddDate(0, 0, reviewAfterDays).Format("2006-01-02"),

		Steps: steps,

		PracticalTips:      installer.Tips(),
		CommonMistakes:     installer.Mistakes(),
		ToolsRequired:      installer.Tools(),
		MaterialsRequired:  installer.Materials(),
		TotalEstimatedTime: installer.TotalTime(),
		DifficultyLevel:    installer.Difficulty(),

		ComplianceRegulations: regulations,
		ComplianceWarnings:    warnings,
	}

	stats := Stats{
		Hazards:          len(extraction.Hazards),
		PPEItems:         len(extraction.PPEDetails),
		Steps:            len(steps),
		HazardFallback:   extraction.FromFreeText,
		DurationEstimate: estimated,
	}

	t.logger.Info("transformation complete",
		"project", project.ProjectName,
		"hazards", stats.Hazards,
		"steps", stats.Steps,
		"overall_risk", method.OverallRisk,
	)

	return Result{RAMS: rams, Method: method, Stats: stats}
}

// mergeCompliance unions the regulation and warning lists from both agents,
// deduplicated in order of first appearance.
func mergeCompliance(blocks ...*agent.Compliance) (regulations, warnings []string) {
	var regs, warns []string
	for _, b := range blocks {
		if b == nil {
			continue
		}
		regs = append(regs, b.Regulations...)
		warns = append(warns, b.Warnings...)
	}
	return dedupe(regs), dedupe(warns)
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func legacyPPEStrings(items []domain.PPEItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.LegacyString()
	}
	return out
}

const maxDescriptionLen = 300

// deriveDescription summarizes the installer's prose: the first three
// substantive lines (over 20 characters), markdown emphasis stripped,
// truncated to 300 characters. Falls back to a generic sentence when the
// response carried no usable text.
func deriveDescription(text string) string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if len(line) > 20 {
			lines = append(lines, line)
			if len(lines) == 3 {
				break
			}
		}
	}
	if len(lines) == 0 {
		return "Method statement for electrical installation works, produced from the project risk assessment."
	}

	desc := strings.Join(lines, " ")
	desc = strings.NewReplacer("*", "", "_", "", "#", "").Replace(desc)
	desc = strings.TrimSpace(desc)
	if len(desc) > maxDescriptionLen {
		// Back up to a rune boundary so the cut never splits a multi-byte
		// character.
		cut := maxDescriptionLen
		for cut > 0 && !utf8.RuneStart(desc[cut]) {
			cut--
		}
		desc = desc[:cut]
	}
	return desc
}
