package domain

import "fmt"

// PPEItem is a single item of personal protective equipment on a generated
// document, with its BS/EN standard reference. Items are value objects:
// created once by the PPE normalizer, never updated or deleted.
type PPEItem struct {
	ID         string `json:"id"`
	ItemNumber int    `json:"itemNumber"` // 1-based position in the list
	PPEType    string `json:"ppeType"`
	Standard   string `json:"standard"`
	Mandatory  bool   `json:"mandatory"`
	Purpose    string `json:"purpose"`
}

// LegacyString renders the item in the flattened "<type> to <standard>"
// form kept on RAMSData.RequiredPPE for older document templates.
func (p PPEItem) LegacyString() string {
	return fmt.Sprintf("%s to %s", p.PPEType, p.Standard)
}

// DefaultPPEPurpose is the purpose recorded when the source payload gives none.
const DefaultPPEPurpose = "General site safety protection"

// DefaultPPEItems is the baseline five-item PPE set applied whenever an agent
// response carries no PPE at all. Every generated document gets at least this
// list, so a failed or partial agent run still produces a usable RAMS.
func DefaultPPEItems() []PPEItem {
	return []PPEItem{
		{ItemNumber: 1, PPEType: "Safety helmet", Standard: "BS EN 397", Mandatory: true, Purpose: "Protection from falling objects and head impact"},
		{ItemNumber: 2, PPEType: "Safety boots", Standard: "BS EN ISO 20345", Mandatory: true, Purpose: "Protection from crush injuries and punctures"},
		{ItemNumber: 3, PPEType: "High-visibility vest", Standard: "BS EN ISO 20471", Mandatory: true, Purpose: "Visibility on site and near vehicle movements"},
		{ItemNumber: 4, PPEType: "Insulated gloves", Standard: "BS EN 60903", Mandatory: true, Purpose: "Protection against electric shock during live proving"},
		{ItemNumber: 5, PPEType: "Safety glasses", Standard: "BS EN 166", Mandatory: true, Purpose: "Eye protection from debris and arc flash"},
	}
}

// DefaultEmergencyProcedures is the fallback emergency-procedure list used
// when the health & safety agent supplies none.
func DefaultEmergencyProcedures() []string {
	return []string{
		"In case of electric shock, do not touch the casualty until the supply is isolated",
		"Call 999 immediately for any serious injury",
		"Report all incidents and near misses to the site supervisor",
		"Know the location of the nearest first aid kit and fire extinguisher",
	}
}
