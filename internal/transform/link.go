package transform

import (
	"strings"

	"github.com/tomashby/ramsgen/internal/domain"
)

// linkRule pairs the vocabulary of a hazard category with the step-text
// vocabulary that exercises it. A hazard links to a step only when BOTH
// sides match: the hazard description hits a hazard keyword and the step
// text hits a step keyword from the same pair.
type linkRule struct {
	hazardKeywords []string
	stepKeywords   []string
}

var linkRules = []linkRule{
	{
		hazardKeywords: []string{"electric", "shock", "live", "voltage"},
		stepKeywords:   []string{"electric", "cable", "wire", "circuit", "terminal", "connect", "test", "energise"},
	},
	{
		hazardKeywords: []string{"height", "fall"},
		stepKeywords:   []string{"ladder", "scaffold", "height", "above", "ceiling", "roof", "elevated"},
	},
	{
		hazardKeywords: []string{"manual", "handling", "lifting"},
		stepKeywords:   []string{"lift", "carry", "move", "install", "position", "transport", "handling"},
	},
	{
		hazardKeywords: []string{"confined space"},
		stepKeywords:   []string{"confined", "enclosed", "restricted", "access", "tight"},
	},
	{
		hazardKeywords: []string{"dust", "silica", "debris"},
		stepKeywords:   []string{"dust", "drill", "cut", "chase", "grind", "debris"},
	},
	{
		hazardKeywords: []string{"fire", "burn"},
		stepKeywords:   []string{"hot", "heat", "solder", "burn", "flame", "fire"},
	},
	{
		hazardKeywords: []string{"sharp", "cut"},
		stepKeywords:   []string{"cut", "strip", "sharp", "blade", "knife", "trim"},
	},
	{
		hazardKeywords: []string{"noise"},
		stepKeywords:   []string{"drill", "noise", "loud", "power tool", "drilling"},
	},
	{
		hazardKeywords: []string{"trip", "slip"},
		stepKeywords:   []string{"cable", "route", "floor", "access", "install"},
	},
}

// LinkHazards returns the ids of the hazards relevant to a step, decided by
// the keyword-pair table above. Pure and idempotent: the result carries no
// duplicates and neither input is mutated.
func LinkHazards(stepText string, hazards []domain.Hazard) []string {
	step := strings.ToLower(stepText)

	var linked []string
	seen := make(map[string]bool)
	for _, hazard := range hazards {
		desc := strings.ToLower(hazard.Hazard)
		for _, rule := range linkRules {
			if containsAny(desc, rule.hazardKeywords) && containsAny(step, rule.stepKeywords) {
				if !seen[hazard.ID] {
					seen[hazard.ID] = true
					linked = append(linked, hazard.ID)
				}
				break
			}
		}
	}
	return linked
}
