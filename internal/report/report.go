// Package report renders generated RAMS document pairs into downloadable
// artifacts.
//
// This package defines a Generator interface implemented by HTMLGenerator,
// PDFGenerator and DOCXGenerator, along with common helpers for formatting
// and styling the rendered documents.
package report

import (
	"context"
	"io"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tomashby/ramsgen/internal/domain"
)

// =============================================================================
// Generator Interface
// =============================================================================

// Generator defines the interface for document renderers.
// Implementations handle the specifics of each format (HTML, PDF, DOCX).
type Generator interface {
	// Generate renders the document pair and writes it to the provided writer.
	// Returns the number of bytes written and any error.
	Generate(ctx context.Context, data *Data, w io.Writer) (int64, error)

	// Format returns the output format of this generator.
	Format() domain.DocumentFormat
}

// Data is the complete input to a renderer: the risk assessment, the method
// statement, and the render timestamp shown in the document footer.
type Data struct {
	RAMS        *domain.RAMSData
	Method      *domain.MethodStatementData
	GeneratedAt time.Time
}

// =============================================================================
// Brand Colors
// =============================================================================

// BrandColors defines the color palette for rendered documents.
var BrandColors = struct {
	Navy       string // Primary heading color
	Accent     string // Accent color for section rules
	TextDark   string // Primary text
	TextMuted  string // Secondary text
	Border     string // Borders and dividers
	Background string // Light background
	White      string // White
}{
	Navy:       "#1E3A5F",
	Accent:     "#F59E0B",
	TextDark:   "#1F2937",
	TextMuted:  "#6B7280",
	Border:     "#E5E7EB",
	Background: "#F9FAFB",
	White:      "#FFFFFF",
}

// =============================================================================
// Risk Level Colors
// =============================================================================

// RiskColors maps risk levels to display colors.
var RiskColors = map[domain.RiskLevel]string{
	domain.RiskLevelHigh:   "#DC2626", // Red-600
	domain.RiskLevelMedium: "#F59E0B", // Amber-500
	domain.RiskLevelLow:    "#16A34A", // Green-600
}

// RiskColor returns the color for a risk level.
func RiskColor(level domain.RiskLevel) string {
	if color, ok := RiskColors[level]; ok {
		return color
	}
	return BrandColors.TextMuted
}

// RiskLabel returns a human-readable label for a risk level.
func RiskLabel(level domain.RiskLevel) string {
	switch level {
	case domain.RiskLevelHigh:
		return "High"
	case domain.RiskLevelMedium:
		return "Medium"
	case domain.RiskLevelLow:
		return "Low"
	default:
		return string(level)
	}
}

// =============================================================================
// Color Conversion Helpers
// =============================================================================

// HexToRGB converts a hex color string to RGB values.
// Input format: "#RRGGBB" or "RRGGBB"
func HexToRGB(hex string) (r, g, b int) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}

	r = hexToDec(hex[0:2])
	g = hexToDec(hex[2:4])
	b = hexToDec(hex[4:6])
	return
}

// hexToDec converts a 2-character hex string to decimal.
func hexToDec(hex string) int {
	val := 0
	for _, c := range hex {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

// =============================================================================
// Text Formatting Helpers
// =============================================================================

// britishTitle capitalizes per British English conventions.
var britishTitle = cases.Title(language.BritishEnglish)

// TitleCase formats a heading string with British English title casing.
func TitleCase(text string) string {
	return britishTitle.String(text)
}

// TruncateText truncates text to a maximum length, adding ellipsis if needed.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}

// FormatDate formats a date for display in rendered documents.
func FormatDate(t interface{ Format(string) string }) string {
	return t.Format("2 January 2006")
}

// FormatDateTime formats a datetime for display in rendered documents.
func FormatDateTime(t interface{ Format(string) string }) string {
	return t.Format("2 January 2006 at 15:04")
}
