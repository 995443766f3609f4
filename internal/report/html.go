package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"

	"github.com/tomashby/ramsgen/internal/domain"
)

// =============================================================================
// HTML Generator
// =============================================================================

// HTMLGenerator renders the RAMS and method statement pair as a single
// self-contained HTML page. The same output feeds the converter-based PDF
// and DOCX generators.
type HTMLGenerator struct {
	tmpl   *template.Template
	logger *slog.Logger
}

// NewHTMLGenerator creates a new HTML renderer.
func NewHTMLGenerator(logger *slog.Logger) *HTMLGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLGenerator{
		tmpl:   documentTemplate,
		logger: logger,
	}
}

// Format returns the output format of this generator.
func (g *HTMLGenerator) Format() domain.DocumentFormat {
	return domain.DocumentFormatHTML
}

// Generate renders the document pair and writes it to the provided writer.
func (g *HTMLGenerator) Generate(ctx context.Context, data *Data, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if data == nil || data.RAMS == nil || data.Method == nil {
		return 0, fmt.Errorf("render html: incomplete document data")
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return 0, fmt.Errorf("render template: %w", err)
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("write output: %w", err)
	}

	g.logger.Debug("HTML document rendered",
		"size_bytes", n,
		"hazards", len(data.RAMS.Hazards),
		"steps", len(data.Method.Steps),
	)

	return int64(n), nil
}

// RenderHTML renders the document pair to a byte slice. The converter-based
// generators use this as their intermediate representation.
func (g *HTMLGenerator) RenderHTML(ctx context.Context, data *Data) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := g.Generate(ctx, data, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Template
// =============================================================================

var templateFuncs = template.FuncMap{
	"riskColor":  RiskColor,
	"riskLabel":  RiskLabel,
	"titleCase":  TitleCase,
	"formatDate": FormatDate,
	"bulletLines": func(s string) []string {
		var lines []string
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
			if line != "" {
				lines = append(lines, line)
			}
		}
		return lines
	},
}

var documentTemplate = template.Must(template.New("document").Funcs(templateFuncs).Parse(documentTemplateText))

const documentTemplateText = `<!DOCTYPE html>
<html lang="en-GB">
<head>
<meta charset="utf-8">
<title>RAMS - {{.RAMS.ProjectName}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1F2937; margin: 2em; font-size: 11pt; }
  h1 { color: #1E3A5F; border-bottom: 3px solid #F59E0B; padding-bottom: 0.2em; }
  h2 { color: #1E3A5F; margin-top: 1.5em; }
  h3 { color: #1F2937; }
  table { border-collapse: collapse; width: 100%; margin: 1em 0; }
  th, td { border: 1px solid #E5E7EB; padding: 6px 8px; text-align: left; vertical-align: top; }
  th { background: #1E3A5F; color: #FFFFFF; }
  tr:nth-child(even) { background: #F9FAFB; }
  .meta { color: #6B7280; }
  .risk-badge { font-weight: bold; }
  .step { margin-bottom: 1.2em; padding: 0.6em 0.8em; border-left: 4px solid #1E3A5F; background: #F9FAFB; }
  ul { margin: 0.3em 0; padding-left: 1.4em; }
  .page-break { page-break-before: always; }
  footer { margin-top: 2em; color: #6B7280; font-size: 9pt; border-top: 1px solid #E5E7EB; padding-top: 0.5em; }
</style>
</head>
<body>

<h1>Risk Assessment &amp; Method Statement</h1>
<table>
  <tr><th>Project</th><td>{{.RAMS.ProjectName}}</td><th>Location</th><td>{{.RAMS.ProjectLocation}}</td></tr>
  <tr><th>Date</th><td>{{.RAMS.Date}}</td><th>Assessor</th><td>{{.RAMS.Assessor}}</td></tr>
  <tr><th>Contractor</th><td>{{.RAMS.Contractor}}</td><th>Supervisor</th><td>{{.RAMS.Supervisor}}</td></tr>
  <tr><th>Overall Risk</th><td><span class="risk-badge" style="color: {{riskColor .Method.OverallRisk}}">{{riskLabel .Method.OverallRisk}}</span></td><th>Review Date</th><td>{{.Method.ReviewDate}}</td></tr>
</table>

{{if .RAMS.Activities}}
<h2>Activities</h2>
<ul>{{range .RAMS.Activities}}<li>{{.}}</li>{{end}}</ul>
{{end}}

<h2>Risk Assessment</h2>
<table>
  <tr>
    <th>Hazard</th><th>Risk</th><th>L</th><th>S</th><th>Rating</th>
    <th>Control Measures</th><th>Residual</th><th>Responsible</th>
  </tr>
  {{range .RAMS.Risks}}
  <tr>
    <td>{{.Hazard}}</td>
    <td>{{.Risk}}</td>
    <td>{{.Likelihood}}</td>
    <td>{{.Severity}}</td>
    <td><span class="risk-badge">{{.RiskRating}}</span></td>
    <td><ul>{{range bulletLines .Controls}}<li>{{.}}</li>{{end}}</ul></td>
    <td>{{.ResidualRisk}}</td>
    <td>{{.Responsible}}</td>
  </tr>
  {{end}}
</table>

<h2>Personal Protective Equipment</h2>
<table>
  <tr><th>#</th><th>Type</th><th>Standard</th><th>Mandatory</th><th>Purpose</th></tr>
  {{range .RAMS.PPEDetails}}
  <tr>
    <td>{{.ItemNumber}}</td>
    <td>{{.PPEType}}</td>
    <td>{{.Standard}}</td>
    <td>{{if .Mandatory}}Yes{{else}}No{{end}}</td>
    <td>{{.Purpose}}</td>
  </tr>
  {{end}}
</table>

<h2>Emergency Procedures</h2>
<ul>{{range .RAMS.EmergencyProcedures}}<li>{{.}}</li>{{end}}</ul>

{{if .RAMS.ComplianceRegulations}}
<h2>Compliance Regulations</h2>
<ul>{{range .RAMS.ComplianceRegulations}}<li>{{.}}</li>{{end}}</ul>
{{end}}

{{if .RAMS.ComplianceWarnings}}
<h2>Compliance Warnings</h2>
<ul>{{range .RAMS.ComplianceWarnings}}<li>{{.}}</li>{{end}}</ul>
{{end}}

<div class="page-break"></div>
<h1>Method Statement</h1>
<table>
  <tr><th>Project</th><td>{{.Method.ProjectName}}</td><th>Location</th><td>{{.Method.ProjectLocation}}</td></tr>
  <tr><th>Work Type</th><td>{{.Method.WorkType}}</td><th>Duration</th><td>{{.Method.Duration}}</td></tr>
  <tr><th>Overall Risk</th><td><span class="risk-badge" style="color: {{riskColor .Method.OverallRisk}}">{{riskLabel .Method.OverallRisk}}</span></td><th>Review Date</th><td>{{.Method.ReviewDate}}</td></tr>
</table>

{{if .Method.Description}}<p>{{.Method.Description}}</p>{{end}}

<h2>Sequence of Works</h2>
{{range .Method.Steps}}
<div class="step">
  <h3>Step {{.StepNumber}}: {{.Title}}</h3>
  <p class="meta">Duration: {{.EstimatedDuration}} &middot;
     Risk: <span class="risk-badge" style="color: {{riskColor .RiskLevel}}">{{riskLabel .RiskLevel}}</span></p>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  {{if .SafetyRequirements}}
  <p><strong>Safety requirements</strong></p>
  <ul>{{range .SafetyRequirements}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
  {{if .EquipmentNeeded}}
  <p><strong>Equipment</strong></p>
  <ul>{{range .EquipmentNeeded}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
  {{if .Qualifications}}
  <p><strong>Qualifications</strong></p>
  <ul>{{range .Qualifications}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
</div>
{{end}}

{{if .Method.PracticalTips}}
<h2>Practical Tips</h2>
<ul>{{range .Method.PracticalTips}}<li>{{.}}</li>{{end}}</ul>
{{end}}

{{if .Method.ToolsRequired}}
<h2>Tools Required</h2>
<ul>{{range .Method.ToolsRequired}}<li>{{.}}</li>{{end}}</ul>
{{end}}

{{if .Method.MaterialsRequired}}
<h2>Materials Required</h2>
<ul>{{range .Method.MaterialsRequired}}<li>{{.}}</li>{{end}}</ul>
{{end}}

<footer>Generated {{formatDate .GeneratedAt}}. Review by {{.Method.ReviewDate}}.</footer>

</body>
</html>
`
