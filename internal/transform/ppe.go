package transform

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
)

// standardRe matches a BS EN style standard reference, tolerating missing
// "BS", an "ISO" insert and variable spacing: "BS EN 397", "EN ISO 20345",
// "BSEN 60903", "EN166".
var standardRe = regexp.MustCompile(`(?i)(?:BS\s*)?EN(?:\s*ISO)?\s*\d+(?:-\d+)*`)

// NormalizePPE converts a mixed PPE list, free-text strings and structured
// objects in any combination, into uniform PPEItem records. ItemNumber is the
// 1-based position in the returned slice regardless of any itemNumber the
// source object carried. An empty input returns an empty slice; callers that
// need the baseline set use domain.DefaultPPEItems themselves.
func NormalizePPE(entries []agent.PPEEntry) []domain.PPEItem {
	items := make([]domain.PPEItem, 0, len(entries))
	for _, entry := range entries {
		var item domain.PPEItem
		switch {
		case entry.Item != nil:
			item = normalizePPEObject(entry.Item)
		case entry.Text != "":
			item = normalizePPEText(entry.Text)
		default:
			// Skipped entries must not leave gaps in the numbering.
			continue
		}
		item.ID = uuid.NewString()
		item.ItemNumber = len(items) + 1
		items = append(items, item)
	}
	return items
}

// normalizePPEText parses the legacy "<type> to <standard>" form. The type is
// everything before the first " to "; the standard is the first BS EN style
// reference anywhere in the string.
func normalizePPEText(text string) domain.PPEItem {
	ppeType := text
	if idx := strings.Index(text, " to "); idx >= 0 {
		ppeType = text[:idx]
	}

	standard := "N/A"
	if m := standardRe.FindString(text); m != "" {
		standard = m
	}

	return domain.PPEItem{
		PPEType:   strings.TrimSpace(ppeType),
		Standard:  standard,
		Mandatory: true,
		Purpose:   domain.DefaultPPEPurpose,
	}
}

func normalizePPEObject(obj *agent.PPEObject) domain.PPEItem {
	item := domain.PPEItem{
		PPEType:   obj.PPEType,
		Standard:  obj.Standard,
		Purpose:   obj.Purpose,
		Mandatory: true,
	}
	if item.PPEType == "" {
		item.PPEType = "Unspecified PPE"
	}
	if item.Standard == "" {
		item.Standard = "N/A"
	}
	if item.Purpose == "" {
		item.Purpose = domain.DefaultPPEPurpose
	}
	if obj.Mandatory != nil {
		item.Mandatory = *obj.Mandatory
	}
	return item
}
