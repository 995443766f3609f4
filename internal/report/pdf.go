package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/tomashby/ramsgen/internal/domain"
)

// =============================================================================
// PDF Generator
// =============================================================================

// PDFGenerator renders the RAMS document pair as a PDF.
type PDFGenerator struct {
	// Page dimensions (A4 in mm)
	pageWidth  float64
	pageHeight float64
	margin     float64

	// Content area
	contentWidth float64
}

// NewPDFGenerator creates a new PDF generator with default settings.
func NewPDFGenerator() *PDFGenerator {
	margin := 15.0
	pageWidth := 210.0 // A4 width in mm
	return &PDFGenerator{
		pageWidth:    pageWidth,
		pageHeight:   297.0, // A4 height in mm
		margin:       margin,
		contentWidth: pageWidth - (2 * margin),
	}
}

// Format returns the output format of this generator.
func (g *PDFGenerator) Format() domain.DocumentFormat {
	return domain.DocumentFormatPDF
}

// Generate renders the document pair and writes it to the provided writer.
func (g *PDFGenerator) Generate(ctx context.Context, data *Data, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if data == nil || data.RAMS == nil || data.Method == nil {
		return 0, fmt.Errorf("render pdf: incomplete document data")
	}

	pdf := fpdf.New("P", "mm", "A4", "")

	// Set document metadata
	pdf.SetTitle("RAMS - "+data.RAMS.ProjectName, true)
	pdf.SetAuthor(data.RAMS.Assessor, true)
	pdf.SetCreator(data.RAMS.Contractor, true)

	// Enable automatic page breaks with footer space
	pdf.SetAutoPageBreak(true, 20)

	// Set up footer on each page
	pdf.SetFooterFunc(func() {
		g.addFooter(pdf, data)
	})

	// Document sections
	g.addCoverPage(pdf, data)
	g.addRiskAssessment(pdf, data.RAMS)
	g.addPPE(pdf, data.RAMS)
	g.addEmergencyProcedures(pdf, data.RAMS)
	g.addMethodStatement(pdf, data.Method)

	if len(data.RAMS.ComplianceRegulations) > 0 || len(data.RAMS.ComplianceWarnings) > 0 {
		g.addCompliance(pdf, data.RAMS)
	}

	// Check for errors during generation
	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("pdf generation error: %w", err)
	}

	// Write to buffer to count bytes
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("pdf output error: %w", err)
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// =============================================================================
// Cover Page
// =============================================================================

func (g *PDFGenerator) addCoverPage(pdf *fpdf.Fpdf, data *Data) {
	pdf.AddPage()

	// Navy header bar
	r, gr, b := HexToRGB(BrandColors.Navy)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(0, 0, g.pageWidth, 70, "F")

	// Title
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetXY(g.margin, 22)
	pdf.Cell(0, 12, "Risk Assessment & Method Statement")

	// Subtitle with project name
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(g.margin, 42)
	pdf.Cell(0, 8, data.RAMS.ProjectName)

	// Reset text color for body content
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)

	// Project information block
	pdf.SetXY(g.margin, 90)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "PROJECT")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	g.coverLine(pdf, data.RAMS.ProjectLocation)
	g.coverLine(pdf, "Date: "+data.RAMS.Date)

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "RESPONSIBILITIES")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	g.coverLine(pdf, "Assessor: "+data.RAMS.Assessor)
	g.coverLine(pdf, "Contractor: "+data.RAMS.Contractor)
	g.coverLine(pdf, "Supervisor: "+data.RAMS.Supervisor)

	// Overall risk banner
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "OVERALL RISK")
	pdf.Ln(10)
	r, gr, b = HexToRGB(RiskColor(data.Method.OverallRisk))
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 8, RiskLabel(data.Method.OverallRisk))
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	g.coverLine(pdf, "Review by: "+data.Method.ReviewDate)

	// Emergency details, when supplied
	if data.RAMS.EmergencyContact != "" || data.RAMS.NearestHospital != "" {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "EMERGENCY")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 12)
		if data.RAMS.EmergencyContact != "" {
			contact := data.RAMS.EmergencyContact
			if data.RAMS.EmergencyPhone != "" {
				contact += " (" + data.RAMS.EmergencyPhone + ")"
			}
			g.coverLine(pdf, "Contact: "+contact)
		}
		if data.RAMS.NearestHospital != "" {
			g.coverLine(pdf, "Nearest hospital: "+data.RAMS.NearestHospital)
		}
		if data.RAMS.AssemblyPoint != "" {
			g.coverLine(pdf, "Assembly point: "+data.RAMS.AssemblyPoint)
		}
	}
}

func (g *PDFGenerator) coverLine(pdf *fpdf.Fpdf, value string) {
	if value == "" {
		return
	}
	pdf.Cell(0, 7, value)
	pdf.Ln(7)
}

// =============================================================================
// Risk Assessment
// =============================================================================

func (g *PDFGenerator) addRiskAssessment(pdf *fpdf.Fpdf, rams *domain.RAMSData) {
	pdf.AddPage()
	g.addSectionHeader(pdf, "Risk Assessment")

	if len(rams.Activities) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Activities")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 10)
		for _, act := range rams.Activities {
			pdf.MultiCell(g.contentWidth, 5, "- "+act, "", "L", false)
		}
		pdf.Ln(6)
	}

	if len(rams.Risks) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 10, "No hazards were identified for this work.")
		return
	}

	for i, risk := range rams.Risks {
		// Leave room for at least the hazard header
		if pdf.GetY() > 230 {
			pdf.AddPage()
		}

		g.addRiskRow(pdf, risk, i+1)

		if i < len(rams.Risks)-1 {
			pdf.Ln(6)
			r, gr, b := HexToRGB(BrandColors.Border)
			pdf.SetDrawColor(r, gr, b)
			pdf.Line(g.margin, pdf.GetY(), g.pageWidth-g.margin, pdf.GetY())
			pdf.Ln(6)
		}
	}
}

func (g *PDFGenerator) addRiskRow(pdf *fpdf.Fpdf, risk domain.Risk, number int) {
	level := domain.RiskLevelForScore(risk.RiskRating)

	// Hazard header with risk color indicator
	r, gr, b := HexToRGB(RiskColor(level))
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(g.margin, pdf.GetY(), 4, 8, "F")

	pdf.SetX(g.margin + 8)
	pdf.SetFont("Helvetica", "B", 12)
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.Cell(0, 8, fmt.Sprintf("Hazard #%d: %s", number, risk.Hazard))
	pdf.Ln(10)

	// Scoring line
	pdf.SetX(g.margin + 8)
	pdf.SetFont("Helvetica", "", 10)
	r, gr, b = HexToRGB(RiskColor(level))
	pdf.SetTextColor(r, gr, b)
	pdf.Cell(0, 6, fmt.Sprintf("Likelihood %d x Severity %d = %d (%s), residual %d",
		risk.Likelihood, risk.Severity, risk.RiskRating, RiskLabel(level), risk.ResidualRisk))
	pdf.Ln(8)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)

	// Consequence
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, "Risk:")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(g.contentWidth, 5, risk.Risk, "", "L", false)
	pdf.Ln(2)

	// Control measures
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, "Control Measures:")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(g.contentWidth, 5, risk.Controls, "", "L", false)
	pdf.Ln(2)

	// Ownership
	pdf.SetFont("Helvetica", "I", 9)
	r, gr, b = HexToRGB(BrandColors.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.Cell(0, 5, fmt.Sprintf("%s. Responsible: %s, action by %s.",
		risk.FurtherAction, risk.Responsible, FormatDate(risk.ActionBy)))
	pdf.Ln(6)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
}

// =============================================================================
// PPE
// =============================================================================

func (g *PDFGenerator) addPPE(pdf *fpdf.Fpdf, rams *domain.RAMSData) {
	pdf.AddPage()
	g.addSectionHeader(pdf, "Personal Protective Equipment")

	// Table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(10, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 8, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Standard", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Mandatory", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 8, "Purpose", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range rams.PPEDetails {
		mandatory := "No"
		if item.Mandatory {
			mandatory = "Yes"
		}
		pdf.CellFormat(10, 8, fmt.Sprintf("%d", item.ItemNumber), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 8, TruncateText(item.PPEType, 40), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, TruncateText(item.Standard, 28), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, mandatory, "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 8, TruncateText(item.Purpose, 36), "1", 1, "L", false, 0, "")
	}
}

// =============================================================================
// Emergency Procedures
// =============================================================================

func (g *PDFGenerator) addEmergencyProcedures(pdf *fpdf.Fpdf, rams *domain.RAMSData) {
	pdf.Ln(10)
	if pdf.GetY() > 220 {
		pdf.AddPage()
	}
	g.addSectionHeader(pdf, "Emergency Procedures")

	pdf.SetFont("Helvetica", "", 10)
	for _, proc := range rams.EmergencyProcedures {
		pdf.MultiCell(g.contentWidth, 5, "- "+proc, "", "L", false)
		pdf.Ln(1)
	}
}

// =============================================================================
// Method Statement
// =============================================================================

func (g *PDFGenerator) addMethodStatement(pdf *fpdf.Fpdf, method *domain.MethodStatementData) {
	pdf.AddPage()
	g.addSectionHeader(pdf, "Method Statement")

	pdf.SetFont("Helvetica", "", 10)
	if method.Description != "" {
		pdf.MultiCell(g.contentWidth, 5, method.Description, "", "L", false)
		pdf.Ln(4)
	}

	g.addLabelValue(pdf, "Work Type", method.WorkType)
	g.addLabelValue(pdf, "Duration", method.Duration)
	if method.TeamSize > 0 {
		g.addLabelValue(pdf, "Team Size", fmt.Sprintf("%d", method.TeamSize))
	}
	pdf.Ln(4)

	for _, step := range method.Steps {
		if pdf.GetY() > 230 {
			pdf.AddPage()
		}
		g.addStep(pdf, step)
	}
}

func (g *PDFGenerator) addStep(pdf *fpdf.Fpdf, step domain.MethodStep) {
	// Step header with risk color indicator
	r, gr, b := HexToRGB(RiskColor(step.RiskLevel))
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(g.margin, pdf.GetY(), 4, 8, "F")

	pdf.SetX(g.margin + 8)
	pdf.SetFont("Helvetica", "B", 12)
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.Cell(0, 8, fmt.Sprintf("Step %d: %s", step.StepNumber, step.Title))
	pdf.Ln(10)

	pdf.SetX(g.margin + 8)
	pdf.SetFont("Helvetica", "", 9)
	r, gr, b = HexToRGB(BrandColors.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.Cell(0, 5, fmt.Sprintf("Duration: %s   Risk: %s", step.EstimatedDuration, RiskLabel(step.RiskLevel)))
	pdf.Ln(7)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)

	if step.Description != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(g.contentWidth, 5, step.Description, "", "L", false)
		pdf.Ln(2)
	}

	g.addStepList(pdf, "Safety Requirements", step.SafetyRequirements)
	g.addStepList(pdf, "Equipment", step.EquipmentNeeded)
	g.addStepList(pdf, "Qualifications", step.Qualifications)

	pdf.Ln(4)
}

func (g *PDFGenerator) addStepList(pdf *fpdf.Fpdf, label string, items []string) {
	if len(items) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, label+":")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.MultiCell(g.contentWidth, 5, "- "+item, "", "L", false)
	}
	pdf.Ln(2)
}

// =============================================================================
// Compliance Appendix
// =============================================================================

func (g *PDFGenerator) addCompliance(pdf *fpdf.Fpdf, rams *domain.RAMSData) {
	pdf.AddPage()
	g.addSectionHeader(pdf, "Appendix: Compliance")

	if len(rams.ComplianceRegulations) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Applicable Regulations")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 10)
		for _, reg := range rams.ComplianceRegulations {
			r, gr, b := HexToRGB(BrandColors.Accent)
			pdf.SetTextColor(r, gr, b)
			pdf.MultiCell(g.contentWidth, 5, reg, "", "L", false)
			r, gr, b = HexToRGB(BrandColors.TextDark)
			pdf.SetTextColor(r, gr, b)
			pdf.Ln(1)
		}
	}

	if len(rams.ComplianceWarnings) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Warnings")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 10)
		for _, warning := range rams.ComplianceWarnings {
			pdf.MultiCell(g.contentWidth, 5, "- "+warning, "", "L", false)
			pdf.Ln(1)
		}
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (g *PDFGenerator) addSectionHeader(pdf *fpdf.Fpdf, title string) {
	r, gr, b := HexToRGB(BrandColors.Navy)
	pdf.SetDrawColor(r, gr, b)
	pdf.SetLineWidth(0.5)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(r, gr, b)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.Line(g.margin, pdf.GetY(), g.pageWidth-g.margin, pdf.GetY())
	pdf.Ln(10)

	// Reset text color
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
}

func (g *PDFGenerator) addLabelValue(pdf *fpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(40, 6, label+":")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(g.contentWidth-40, 6, value, "", "L", false)
}

func (g *PDFGenerator) addFooter(pdf *fpdf.Fpdf, data *Data) {
	pdf.SetY(-15)

	// Draw separator line
	r, gr, b := HexToRGB(BrandColors.Border)
	pdf.SetDrawColor(r, gr, b)
	pdf.Line(g.margin, pdf.GetY()-3, g.pageWidth-g.margin, pdf.GetY()-3)

	// Footer text
	r, gr, b = HexToRGB(BrandColors.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 8)

	// Left: generation date
	pdf.Cell(0, 10, "Generated: "+FormatDateTime(data.GeneratedAt))

	// Right: page number
	pdf.SetX(-g.margin - 30)
	pdf.CellFormat(30, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
}
