package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"

	"github.com/tomashby/ramsgen/internal/domain"
)

// =============================================================================
// DOCX Generator
// =============================================================================

// DOCXGenerator renders the RAMS document pair as a DOCX.
type DOCXGenerator struct{}

// NewDOCXGenerator creates a new DOCX generator.
func NewDOCXGenerator() *DOCXGenerator {
	return &DOCXGenerator{}
}

// Format returns the output format of this generator.
func (g *DOCXGenerator) Format() domain.DocumentFormat {
	return domain.DocumentFormatDOCX
}

// Generate renders the document pair and writes it to the provided writer.
func (g *DOCXGenerator) Generate(ctx context.Context, data *Data, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if data == nil || data.RAMS == nil || data.Method == nil {
		return 0, fmt.Errorf("render docx: incomplete document data")
	}

	doc := document.New()
	defer doc.Close()

	// Set document properties
	props := doc.CoreProperties
	props.SetTitle("RAMS - " + data.RAMS.ProjectName)
	props.SetAuthor(data.RAMS.Assessor)

	// Document sections
	g.addCoverSection(doc, data)
	g.addRiskAssessment(doc, data.RAMS)
	g.addPPE(doc, data.RAMS)
	g.addEmergencyProcedures(doc, data.RAMS)
	g.addMethodStatement(doc, data.Method)

	if len(data.RAMS.ComplianceRegulations) > 0 || len(data.RAMS.ComplianceWarnings) > 0 {
		g.addCompliance(doc, data.RAMS)
	}

	// Write to buffer to count bytes
	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return 0, fmt.Errorf("docx save error: %w", err)
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// =============================================================================
// Cover Section
// =============================================================================

func (g *DOCXGenerator) addCoverSection(doc *document.Document, data *Data) {
	// Main title
	title := doc.AddParagraph()
	titleRun := title.AddRun()
	titleRun.Properties().SetBold(true)
	titleRun.Properties().SetSize(28 * measurement.Point)
	titleRun.Properties().SetColor(color.RGB(30, 58, 95)) // Navy
	titleRun.AddText("Risk Assessment & Method Statement")
	title.Properties().SetSpacing(0, 20*measurement.Point)

	// Project name
	subtitle := doc.AddParagraph()
	subtitleRun := subtitle.AddRun()
	subtitleRun.Properties().SetSize(14 * measurement.Point)
	subtitleRun.AddText(data.RAMS.ProjectName)
	subtitle.Properties().SetSpacing(0, 30*measurement.Point)

	// Project information
	g.addLabeledSection(doc, "PROJECT", func() {
		g.addTextLine(doc, data.RAMS.ProjectLocation, false)
		g.addTextLine(doc, "Date: "+data.RAMS.Date, false)
	})

	g.addLabeledSection(doc, "RESPONSIBILITIES", func() {
		g.addTextLine(doc, "Assessor: "+data.RAMS.Assessor, false)
		g.addTextLine(doc, "Contractor: "+data.RAMS.Contractor, false)
		g.addTextLine(doc, "Supervisor: "+data.RAMS.Supervisor, false)
	})

	// Overall risk
	g.addLabeledSection(doc, "OVERALL RISK", func() {
		para := doc.AddParagraph()
		run := para.AddRun()
		run.Properties().SetBold(true)
		run.Properties().SetSize(14 * measurement.Point)
		r, g_, b := HexToRGB(RiskColor(data.Method.OverallRisk))
		run.Properties().SetColor(color.RGB(uint8(r), uint8(g_), uint8(b)))
		run.AddText(RiskLabel(data.Method.OverallRisk))

		g.addTextLine(doc, "Review by: "+data.Method.ReviewDate, false)
	})

	// Emergency details, when supplied
	if data.RAMS.EmergencyContact != "" || data.RAMS.NearestHospital != "" {
		g.addLabeledSection(doc, "EMERGENCY", func() {
			if data.RAMS.EmergencyContact != "" {
				contact := data.RAMS.EmergencyContact
				if data.RAMS.EmergencyPhone != "" {
					contact += " (" + data.RAMS.EmergencyPhone + ")"
				}
				g.addTextLine(doc, "Contact: "+contact, false)
			}
			if data.RAMS.NearestHospital != "" {
				g.addTextLine(doc, "Nearest hospital: "+data.RAMS.NearestHospital, false)
			}
			if data.RAMS.AssemblyPoint != "" {
				g.addTextLine(doc, "Assembly point: "+data.RAMS.AssemblyPoint, false)
			}
		})
	}

	// Page break
	doc.AddParagraph().AddRun().AddPageBreak()
}

// =============================================================================
// Risk Assessment
// =============================================================================

func (g *DOCXGenerator) addRiskAssessment(doc *document.Document, rams *domain.RAMSData) {
	g.addSectionHeader(doc, "Risk Assessment")

	if len(rams.Activities) > 0 {
		g.addSubsectionHeader(doc, "Activities")
		for _, act := range rams.Activities {
			g.addTextLine(doc, "- "+act, false)
		}
	}

	if len(rams.Risks) == 0 {
		para := doc.AddParagraph()
		run := para.AddRun()
		run.Properties().SetItalic(true)
		run.AddText("No hazards were identified for this work.")
		return
	}

	for i, risk := range rams.Risks {
		g.addRiskRow(doc, risk, i+1)

		if i < len(rams.Risks)-1 {
			sep := doc.AddParagraph()
			sep.Properties().SetSpacing(10*measurement.Point, 10*measurement.Point)
			sepRun := sep.AddRun()
			sepRun.Properties().SetColor(color.LightGray)
			sepRun.AddText("────────────────────────────────────────")
		}
	}

	doc.AddParagraph().AddRun().AddPageBreak()
}

func (g *DOCXGenerator) addRiskRow(doc *document.Document, risk domain.Risk, number int) {
	level := domain.RiskLevelForScore(risk.RiskRating)

	// Hazard header
	header := doc.AddParagraph()
	headerRun := header.AddRun()
	headerRun.Properties().SetBold(true)
	headerRun.Properties().SetSize(14 * measurement.Point)
	headerRun.AddText(fmt.Sprintf("Hazard #%d: %s", number, risk.Hazard))

	// Scoring line
	score := doc.AddParagraph()
	scoreRun := score.AddRun()
	scoreRun.Properties().SetBold(true)
	r, g_, b := HexToRGB(RiskColor(level))
	scoreRun.Properties().SetColor(color.RGB(uint8(r), uint8(g_), uint8(b)))
	scoreRun.AddText(fmt.Sprintf("Likelihood %d x Severity %d = %d (%s), residual %d",
		risk.Likelihood, risk.Severity, risk.RiskRating, RiskLabel(level), risk.ResidualRisk))

	// Consequence
	g.addLabelValue(doc, "Risk", risk.Risk)

	// Control measures
	ctrlLabel := doc.AddParagraph()
	ctrlLabelRun := ctrlLabel.AddRun()
	ctrlLabelRun.Properties().SetBold(true)
	ctrlLabelRun.AddText("Control Measures:")
	g.addTextLine(doc, risk.Controls, false)

	// Ownership
	owner := doc.AddParagraph()
	ownerRun := owner.AddRun()
	ownerRun.Properties().SetItalic(true)
	ownerRun.Properties().SetColor(color.Gray)
	ownerRun.AddText(fmt.Sprintf("%s. Responsible: %s, action by %s.",
		risk.FurtherAction, risk.Responsible, FormatDate(risk.ActionBy)))

	doc.AddParagraph() // Spacing
}

// =============================================================================
// PPE
// =============================================================================

func (g *DOCXGenerator) addPPE(doc *document.Document, rams *domain.RAMSData) {
	g.addSectionHeader(doc, "Personal Protective Equipment")

	table := doc.AddTable()
	table.Properties().SetWidthPercent(100)

	headerRow := table.AddRow()
	g.addTableCell(headerRow, "#", true, "")
	g.addTableCell(headerRow, "Type", true, "")
	g.addTableCell(headerRow, "Standard", true, "")
	g.addTableCell(headerRow, "Mandatory", true, "")
	g.addTableCell(headerRow, "Purpose", true, "")

	for _, item := range rams.PPEDetails {
		mandatory := "No"
		if item.Mandatory {
			mandatory = "Yes"
		}
		row := table.AddRow()
		g.addTableCell(row, fmt.Sprintf("%d", item.ItemNumber), false, "")
		g.addTableCell(row, item.PPEType, false, "")
		g.addTableCell(row, item.Standard, false, "")
		g.addTableCell(row, mandatory, false, "")
		g.addTableCell(row, item.Purpose, false, "")
	}

	doc.AddParagraph() // Spacing
}

// =============================================================================
// Emergency Procedures
// =============================================================================

func (g *DOCXGenerator) addEmergencyProcedures(doc *document.Document, rams *domain.RAMSData) {
	g.addSectionHeader(doc, "Emergency Procedures")

	for _, proc := range rams.EmergencyProcedures {
		g.addTextLine(doc, "- "+proc, false)
	}

	doc.AddParagraph().AddRun().AddPageBreak()
}

// =============================================================================
// Method Statement
// =============================================================================

func (g *DOCXGenerator) addMethodStatement(doc *document.Document, method *domain.MethodStatementData) {
	g.addSectionHeader(doc, "Method Statement")

	if method.Description != "" {
		g.addTextLine(doc, method.Description, false)
	}

	g.addLabelValue(doc, "Work Type", method.WorkType)
	g.addLabelValue(doc, "Duration", method.Duration)
	if method.TeamSize > 0 {
		g.addLabelValue(doc, "Team Size", fmt.Sprintf("%d", method.TeamSize))
	}
	doc.AddParagraph()

	for _, step := range method.Steps {
		g.addStep(doc, step)
	}
}

func (g *DOCXGenerator) addStep(doc *document.Document, step domain.MethodStep) {
	// Step header
	header := doc.AddParagraph()
	headerRun := header.AddRun()
	headerRun.Properties().SetBold(true)
	headerRun.Properties().SetSize(13 * measurement.Point)
	headerRun.AddText(fmt.Sprintf("Step %d: %s", step.StepNumber, step.Title))

	meta := doc.AddParagraph()
	metaRun := meta.AddRun()
	metaRun.Properties().SetColor(color.Gray)
	metaRun.AddText("Duration: " + step.EstimatedDuration + "   Risk: ")
	riskRun := meta.AddRun()
	riskRun.Properties().SetBold(true)
	r, g_, b := HexToRGB(RiskColor(step.RiskLevel))
	riskRun.Properties().SetColor(color.RGB(uint8(r), uint8(g_), uint8(b)))
	riskRun.AddText(RiskLabel(step.RiskLevel))

	if step.Description != "" {
		g.addTextLine(doc, step.Description, false)
	}

	g.addStepList(doc, "Safety Requirements", step.SafetyRequirements)
	g.addStepList(doc, "Equipment", step.EquipmentNeeded)
	g.addStepList(doc, "Qualifications", step.Qualifications)

	doc.AddParagraph() // Spacing
}

func (g *DOCXGenerator) addStepList(doc *document.Document, label string, items []string) {
	if len(items) == 0 {
		return
	}
	labelPara := doc.AddParagraph()
	labelRun := labelPara.AddRun()
	labelRun.Properties().SetBold(true)
	labelRun.AddText(label + ":")
	for _, item := range items {
		g.addTextLine(doc, "- "+item, false)
	}
}

// =============================================================================
// Compliance Appendix
// =============================================================================

func (g *DOCXGenerator) addCompliance(doc *document.Document, rams *domain.RAMSData) {
	doc.AddParagraph().AddRun().AddPageBreak()
	g.addSectionHeader(doc, "Appendix: Compliance")

	if len(rams.ComplianceRegulations) > 0 {
		g.addSubsectionHeader(doc, "Applicable Regulations")
		for _, reg := range rams.ComplianceRegulations {
			para := doc.AddParagraph()
			run := para.AddRun()
			run.Properties().SetBold(true)
			run.Properties().SetColor(color.RGB(245, 158, 11)) // Accent amber
			run.AddText(reg)
		}
	}

	if len(rams.ComplianceWarnings) > 0 {
		g.addSubsectionHeader(doc, "Warnings")
		for _, warning := range rams.ComplianceWarnings {
			g.addTextLine(doc, "- "+warning, false)
		}
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (g *DOCXGenerator) addSectionHeader(doc *document.Document, title string) {
	para := doc.AddParagraph()
	run := para.AddRun()
	run.Properties().SetBold(true)
	run.Properties().SetSize(18 * measurement.Point)
	run.Properties().SetColor(color.RGB(30, 58, 95)) // Navy
	run.AddText(title)
	para.Properties().SetSpacing(0, 12*measurement.Point)

	// Add underline effect with a second paragraph
	underline := doc.AddParagraph()
	underlineRun := underline.AddRun()
	underlineRun.Properties().SetColor(color.RGB(30, 58, 95))
	underlineRun.AddText("══════════════════════════════════════════════════")
	underline.Properties().SetSpacing(0, 12*measurement.Point)
}

func (g *DOCXGenerator) addSubsectionHeader(doc *document.Document, title string) {
	para := doc.AddParagraph()
	run := para.AddRun()
	run.Properties().SetBold(true)
	run.Properties().SetSize(12 * measurement.Point)
	run.AddText(title)
	para.Properties().SetSpacing(12*measurement.Point, 6*measurement.Point)
}

func (g *DOCXGenerator) addLabeledSection(doc *document.Document, label string, content func()) {
	labelPara := doc.AddParagraph()
	labelRun := labelPara.AddRun()
	labelRun.Properties().SetBold(true)
	labelRun.Properties().SetSize(10 * measurement.Point)
	labelRun.Properties().SetColor(color.Gray)
	labelRun.AddText(label)
	labelPara.Properties().SetSpacing(12*measurement.Point, 4*measurement.Point)

	content()
}

func (g *DOCXGenerator) addTextLine(doc *document.Document, text string, italic bool) {
	if text == "" {
		return
	}
	para := doc.AddParagraph()
	run := para.AddRun()
	if italic {
		run.Properties().SetItalic(true)
	}
	run.AddText(text)
}

func (g *DOCXGenerator) addLabelValue(doc *document.Document, label, value string) {
	if value == "" {
		return
	}
	para := doc.AddParagraph()
	labelRun := para.AddRun()
	labelRun.Properties().SetBold(true)
	labelRun.AddText(label + ": ")
	para.AddRun().AddText(value)
}

func (g *DOCXGenerator) addTableCell(row document.Row, text string, bold bool, colorHex string) {
	cell := row.AddCell()
	para := cell.AddParagraph()
	run := para.AddRun()
	if bold {
		run.Properties().SetBold(true)
	}
	if colorHex != "" {
		r, g_, b := HexToRGB(colorHex)
		run.Properties().SetColor(color.RGB(uint8(r), uint8(g_), uint8(b)))
	}
	run.AddText(text)
}
