package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
)

// ExtractResult is everything pulled out of a health & safety response.
type ExtractResult struct {
	Risks               []domain.Risk
	Hazards             []domain.Hazard
	Activities          []string
	PPEDetails          []domain.PPEItem
	EmergencyProcedures []string

	// FromFreeText reports whether the hazards came from prose parsing
	// rather than structured data.
	FromFreeText bool
}

const (
	defaultFurtherAction = "Monitor effectiveness of control measures and review if conditions change"
	defaultConsequence   = "Potential injury or harm to operatives or others"
	defaultResponsible   = "Site Supervisor"

	// actionByDays is the lead time given for completing control actions.
	actionByDays = 7
)

// ExtractHazardsAndRisks builds the risk-assessment side of a document from
// an agent response. It never returns zero risks: structurally absent hazards
// fall back to free-text parsing, and if that finds nothing either, a single
// default electric-shock record is emitted.
func (t *Transformer) ExtractHazardsAndRisks(resp *agent.HealthSafetyResponse, assessor string) ExtractResult {
	var result ExtractResult

	now := t.now()
	source := resp.Hazards()
	if len(source) > 0 {
		for i, h := range source {
			hazard, risk := t.buildRecords(h, i, assessor, now)
			result.Hazards = append(result.Hazards, hazard)
			result.Risks = append(result.Risks, risk)
		}
	} else {
		parsed := parseFreeTextHazards(resp.FreeText())
		result.Activities = parsed.activities
		result.FromFreeText = true
		for i, h := range parsed.hazards {
			hazard, risk := t.buildRecords(h, i, assessor, now)
			result.Hazards = append(result.Hazards, hazard)
			result.Risks = append(result.Risks, risk)
		}
	}

	if len(result.Risks) == 0 {
		hazard, risk := t.defaultShockRecords(assessor, now)
		result.Hazards = append(result.Hazards, hazard)
		result.Risks = append(result.Risks, risk)
	}

	result.PPEDetails = NormalizePPE(resp.PPE())
	if len(result.PPEDetails) == 0 {
		result.PPEDetails = withIDs(domain.DefaultPPEItems())
	}

	result.EmergencyProcedures = resp.EmergencyProcedures()
	if len(result.EmergencyProcedures) == 0 {
		result.EmergencyProcedures = domain.DefaultEmergencyProcedures()
	}

	t.logger.Debug("extracted risk assessment",
		"hazards", len(result.Hazards),
		"ppe_items", len(result.PPEDetails),
		"from_free_text", result.FromFreeText,
	)
	return result
}

// buildRecords turns one source hazard into the lightweight Hazard and the
// full Risk row. i is the hazard's position, used for generated ids.
func (t *Transformer) buildRecords(h agent.SourceHazard, i int, assessor string, now time.Time) (domain.Hazard, domain.Risk) {
	likelihood := clampRating(h.Likelihood)
	severity := clampRating(h.Severity)
	score := likelihood * severity

	id := h.ID
	if id == "" {
		id = fmt.Sprintf("hazard-%d", i+1)
	}

	hazard := domain.Hazard{
		ID:         id,
		Hazard:     h.Hazard,
		Likelihood: likelihood,
		Severity:   severity,
		RiskScore:  score,
		RiskLevel:  domain.RiskLevelForScore(score),
		Regulation: h.Regulation,
	}

	consequence := h.Risk
	if consequence == "" {
		consequence = defaultConsequence
	}
	responsible := assessor
	if responsible == "" {
		responsible = defaultResponsible
	}

	risk := domain.Risk{
		ID:            uuid.NewString(),
		Hazard:        h.Hazard,
		Risk:          consequence,
		Likelihood:    likelihood,
		Severity:      severity,
		RiskRating:    score,
		Controls:      resolveControls(h),
		ResidualRisk:  domain.ResidualRiskFor(score),
		FurtherAction: defaultFurtherAction,
		Responsible:   responsible,
		ActionBy:      now.AddDate(0, 0, actionByDays),
		Done:          false,
	}
	return hazard, risk
}

// resolveControls assembles the control-measure text for a hazard, in
// priority order: controls array, controls string, controlMeasures array,
// then keyword inference. List forms are bullet-joined.
func resolveControls(h agent.SourceHazard) string {
	switch {
	case len(h.Controls.Items) > 0:
		return bulletJoin(h.Controls.Items)
	case h.Controls.Text != "":
		return h.Controls.Text
	case len(h.ControlMeasures) > 0:
		return bulletJoin(h.ControlMeasures)
	default:
		return bulletJoin(InferControls(h.Hazard, h.Regulation))
	}
}

func bulletJoin(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(item)
	}
	return b.String()
}

// clampRating forces a likelihood or severity value onto the 1-5 matrix.
// Missing or zero values default to 3, the middle of the scale.
func clampRating(v int) int {
	switch {
	case v <= 0:
		return 3
	case v > 5:
		return 5
	default:
		return v
	}
}

// defaultShockRecords is the last-resort risk row: a generated document is
// never allowed to claim there are no risks in electrical work.
func (t *Transformer) defaultShockRecords(assessor string, now time.Time) (domain.Hazard, domain.Risk) {
	return t.buildRecords(agent.SourceHazard{
		Hazard:     "Electric shock from live conductors",
		Risk:       "Serious injury or death from contact with live parts",
		Likelihood: 3,
		Severity:   5,
		Regulation: "Electricity at Work Regulations 1989",
	}, 0, assessor, now)
}

// withIDs assigns fresh UUIDs to the default PPE items, which are declared
// without ids so each document gets its own.
func withIDs(items []domain.PPEItem) []domain.PPEItem {
	for i := range items {
		items[i].ID = uuid.NewString()
	}
	return items
}

// =============================================================================
// Free-text parsing
// =============================================================================

var (
	likelihoodRe = regexp.MustCompile(`(?i)likelihood\D*(\d)`)
	severityRe   = regexp.MustCompile(`(?i)severity\D*(\d)`)
)

type parsedHazards struct {
	hazards    []agent.SourceHazard
	activities []string
}

// parseFreeTextHazards reconstructs hazard blocks from prose. A "Hazard:"
// line starts a new block and flushes the previous one; risk, rating and
// control lines attach to the current block.
func parseFreeTextHazards(text string) parsedHazards {
	var out parsedHazards
	var current *agent.SourceHazard

	flush := func() {
		if current != nil && current.Hazard != "" {
			out.hazards = append(out.hazards, *current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "hazard:"):
			flush()
			current = &agent.SourceHazard{Hazard: strings.TrimSpace(line[len("hazard:"):])}

		case strings.HasPrefix(lower, "risk:"), strings.HasPrefix(lower, "consequence:"):
			if current != nil {
				_, value := splitLabel(line)
				current.Risk = value
			}

		case strings.Contains(lower, "likelihood") || strings.Contains(lower, "severity"):
			// Both ratings may share one line ("likelihood 3, severity 5").
			if current != nil {
				if m := likelihoodRe.FindStringSubmatch(line); m != nil {
					current.Likelihood, _ = strconv.Atoi(m[1])
				}
				if m := severityRe.FindStringSubmatch(line); m != nil {
					current.Severity, _ = strconv.Atoi(m[1])
				}
			}

		case strings.HasPrefix(lower, "control:"), strings.HasPrefix(lower, "measure:"),
			strings.HasPrefix(lower, "mitigation:"):
			if current != nil {
				_, value := splitLabel(line)
				current.ControlMeasures = append(current.ControlMeasures, value)
			}

		case isBullet(line):
			if current != nil {
				current.ControlMeasures = append(current.ControlMeasures, trimBullet(line))
			}

		case strings.HasPrefix(lower, "activity:"), strings.HasPrefix(lower, "task:"),
			strings.HasPrefix(lower, "work:"):
			_, value := splitLabel(line)
			out.activities = append(out.activities, value)
		}
	}
	flush()
	return out
}

// splitLabel separates a "Label: value" line, returning the trimmed value.
func splitLabel(line string) (string, string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", strings.TrimSpace(line)
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:])
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*")
}

func trimBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-•* "))
}
