package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tomashby/ramsgen/internal/domain"
)

// Converter transforms HTML content to a specific output format.
type Converter interface {
	// Convert transforms HTML content and writes the result to w.
	Convert(ctx context.Context, html []byte, w io.Writer) error

	// Format returns the output format of this converter.
	Format() domain.DocumentFormat
}

// =============================================================================
// WeasyPrint Converter (HTML → PDF)
// =============================================================================

// WeasyPrintConverter converts HTML to PDF using WeasyPrint.
// Requires weasyprint to be installed: pip install weasyprint
type WeasyPrintConverter struct {
	// Command is the weasyprint command to execute. Defaults to "weasyprint".
	Command string
}

// NewWeasyPrintConverter creates a new WeasyPrint converter.
func NewWeasyPrintConverter() *WeasyPrintConverter {
	return &WeasyPrintConverter{
		Command: "weasyprint",
	}
}

// Format returns the output format (PDF).
func (c *WeasyPrintConverter) Format() domain.DocumentFormat {
	return domain.DocumentFormatPDF
}

// Convert transforms HTML to PDF using WeasyPrint.
func (c *WeasyPrintConverter) Convert(ctx context.Context, html []byte, w io.Writer) error {
	tmpDir, err := os.MkdirTemp("", "rams-pdf-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inputPath := filepath.Join(tmpDir, "input.html")
	outputPath := filepath.Join(tmpDir, "output.pdf")

	if err := os.WriteFile(inputPath, html, 0644); err != nil {
		return fmt.Errorf("write input file: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Command, inputPath, outputPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("weasyprint failed: %w, stderr: %s", err, stderr.String())
	}

	pdfData, err := os.ReadFile(outputPath)
	if err != nil {
		return fmt.Errorf("read output file: %w", err)
	}

	if _, err := w.Write(pdfData); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// =============================================================================
// Pandoc Converter (HTML → DOCX)
// =============================================================================

// PandocConverter converts HTML to DOCX using Pandoc.
// Requires pandoc to be installed: apt-get install pandoc
type PandocConverter struct {
	// Command is the pandoc command to execute. Defaults to "pandoc".
	Command string

	// ReferenceDoc is an optional path to a reference.docx for styling.
	// If empty, Pandoc's default styling is used.
	ReferenceDoc string
}

// NewPandocConverter creates a new Pandoc converter.
func NewPandocConverter() *PandocConverter {
	return &PandocConverter{
		Command: "pandoc",
	}
}

// Format returns the output format (DOCX).
func (c *PandocConverter) Format() domain.DocumentFormat {
	return domain.DocumentFormatDOCX
}

// Convert transforms HTML to DOCX using Pandoc.
func (c *PandocConverter) Convert(ctx context.Context, html []byte, w io.Writer) error {
	tmpDir, err := os.MkdirTemp("", "rams-docx-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inputPath := filepath.Join(tmpDir, "input.html")
	outputPath := filepath.Join(tmpDir, "output.docx")

	if err := os.WriteFile(inputPath, html, 0644); err != nil {
		return fmt.Errorf("write input file: %w", err)
	}

	args := []string{
		inputPath,
		"-o", outputPath,
		"--from=html",
		"--to=docx",
	}

	if c.ReferenceDoc != "" {
		args = append(args, "--reference-doc="+c.ReferenceDoc)
	}

	cmd := exec.CommandContext(ctx, c.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pandoc failed: %w, stderr: %s", err, stderr.String())
	}

	docxData, err := os.ReadFile(outputPath)
	if err != nil {
		return fmt.Errorf("read output file: %w", err)
	}

	if _, err := w.Write(docxData); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// =============================================================================
// Converter-Backed Generator
// =============================================================================

// ConverterGenerator implements Generator by rendering the HTML template and
// piping it through an external converter. This produces higher-fidelity
// output than the native generators when the external tools are installed.
type ConverterGenerator struct {
	html      *HTMLGenerator
	converter Converter
}

// NewConverterGenerator creates a Generator backed by the given converter.
func NewConverterGenerator(converter Converter, logger *slog.Logger) *ConverterGenerator {
	return &ConverterGenerator{
		html:      NewHTMLGenerator(logger),
		converter: converter,
	}
}

// Format returns the output format of the underlying converter.
func (g *ConverterGenerator) Format() domain.DocumentFormat {
	return g.converter.Format()
}

// Generate renders the document pair and writes it to the provided writer.
func (g *ConverterGenerator) Generate(ctx context.Context, data *Data, w io.Writer) (int64, error) {
	html, err := g.html.RenderHTML(ctx, data)
	if err != nil {
		return 0, err
	}

	var outBuf bytes.Buffer
	if err := g.converter.Convert(ctx, html, &outBuf); err != nil {
		return 0, fmt.Errorf("convert to %s: %w", g.converter.Format(), err)
	}

	n, err := w.Write(outBuf.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("write output: %w", err)
	}
	return int64(n), nil
}

// =============================================================================
// Converter Availability Checks
// =============================================================================

// IsWeasyPrintAvailable checks if weasyprint is installed and accessible.
func IsWeasyPrintAvailable() bool {
	_, err := exec.LookPath("weasyprint")
	return err == nil
}

// IsPandocAvailable checks if pandoc is installed and accessible.
func IsPandocAvailable() bool {
	_, err := exec.LookPath("pandoc")
	return err == nil
}
