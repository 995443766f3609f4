package transform

import "strings"

// controlRule maps a group of hazard keywords to the control measures that
// address them. Rules are evaluated in order and every matching group
// contributes, so a hazard like "arc flash during live testing" collects
// controls from more than one group.
type controlRule struct {
	keywords []string
	controls []string
}

// controlRules is the fixed inference table used when an agent supplies a
// hazard without explicit control measures. It is a pure constant: never
// mutated at runtime.
var controlRules = []controlRule{
	{
		keywords: []string{"electric shock", "live", "electrocution"},
		controls: []string{
			"Safe isolation following GS38 procedure before work commences",
			"Lock-off devices and warning tags on all isolation points",
			"Prove dead with approved voltage indicator and proving unit",
			"Insulated tools rated to IEC 60900",
		},
	},
	{
		keywords: []string{"arc flash", "arc blast"},
		controls: []string{
			"Arc-rated PPE appropriate to the incident energy level",
			"Face shield and arc flash suit for live proving on large boards",
			"De-energise wherever reasonably practicable before work",
		},
	},
	{
		keywords: []string{"asbestos"},
		controls: []string{
			"Check the asbestos register before any intrusive work",
			"Stop work immediately if suspect materials are found",
			"Licensed contractor required for removal of ACMs",
		},
	},
	{
		keywords: []string{"dust", "silica"},
		controls: []string{
			"On-tool dust extraction for all drilling and chasing",
			"FFP3 respiratory protection where extraction cannot be fitted",
			"Wet cutting methods to suppress airborne dust",
		},
	},
	{
		keywords: []string{"height", "ladder", "podium"},
		controls: []string{
			"Use podium steps or tower in preference to ladders",
			"Ladders only for short-duration light work, footed or tied",
			"Inspect access equipment before each use",
		},
	},
	{
		keywords: []string{"manual handling", "lifting"},
		controls: []string{
			"Assess loads before lifting and break down where possible",
			"Two-person lift for items over 25kg",
			"Use mechanical aids for heavy switchgear and cable drums",
		},
	},
	{
		keywords: []string{"fire"},
		controls: []string{
			"CO2 extinguisher within reach of electrical work areas",
			"Hot work permit for any soldering or heat gun use",
			"Keep combustible materials clear of the work area",
		},
	},
	{
		keywords: []string{"hidden services", "striking"},
		controls: []string{
			"Scan walls and floors with a cable and pipe detector before drilling",
			"Review building drawings for buried services",
			"Hand-dig trial holes where underground services are indicated",
		},
	},
	{
		keywords: []string{"slip", "trip", "fall"},
		controls: []string{
			"Route cables and leads away from walkways",
			"Keep the work area tidy and materials stored safely",
			"Clean up spills immediately",
		},
	},
	{
		keywords: []string{"public", "customer"},
		controls: []string{
			"Barrier off the work area with signage",
			"Keep tools and materials within the barriered area",
			"Brief occupants on restricted areas before starting",
		},
	},
	{
		keywords: []string{"noise", "vibration"},
		controls: []string{
			"Hearing protection for prolonged power tool use",
			"Limit trigger time on percussive tools and rotate operatives",
			"Use low-vibration tools where available",
		},
	},
	{
		keywords: []string{"tool", "equipment"},
		controls: []string{
			"Visual inspection of tools and leads before each use",
			"In-date PAT records for all portable equipment",
			"110V or battery tools on construction sites",
		},
	},
	{
		keywords: []string{"competence", "supervision"},
		controls: []string{
			"Work allocated to operatives with appropriate qualifications",
			"Apprentices supervised at all times by a qualified electrician",
			"Toolbox talk covering this assessment before work starts",
		},
	},
	{
		keywords: []string{"backfeed", "isolation", "ups", "generator"},
		controls: []string{
			"Identify all sources of supply including UPS and standby generation",
			"Isolate and lock off every source before proving dead",
			"Treat all conductors as live until proven dead at the point of work",
		},
	},
	{
		keywords: []string{"fire alarm", "emergency lighting"},
		controls: []string{
			"Notify the responsible person before disabling any life-safety system",
			"Agree temporary cover measures for the affected areas",
			"Recommission and test life-safety systems before leaving site",
		},
	},
}

// genericControls is the last-resort control set when no keyword group
// matches the hazard description.
var genericControls = []string{
	"Follow safe systems of work and method statement at all times",
	"Wear the PPE specified for this task",
	"Report any changed conditions to the site supervisor before continuing",
}

// InferControls produces control measures for a hazard description when the
// agent supplied none. The function is total: it always returns at least one
// control. If the hazard carries a regulation reference, a compliance line is
// prepended to whatever the rule table produces.
func InferControls(hazard, regulation string) []string {
	desc := strings.ToLower(hazard)

	var out []string
	if regulation != "" {
		out = append(out, "Comply with "+regulation)
	}

	matched := false
	for _, rule := range controlRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				out = append(out, rule.controls...)
				matched = true
				break
			}
		}
	}

	if !matched {
		out = append(out, genericControls...)
	}
	return out
}
