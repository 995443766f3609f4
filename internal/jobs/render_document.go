package jobs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tomashby/ramsgen/internal/domain"
	"github.com/tomashby/ramsgen/internal/metrics"
	"github.com/tomashby/ramsgen/internal/report"
	"github.com/tomashby/ramsgen/internal/repository"
	"github.com/tomashby/ramsgen/internal/storage"
	"github.com/tomashby/ramsgen/internal/worker"
)

// RenderDocumentHandler processes jobs that render a generated document pair
// into a downloadable artifact and upload it to storage.
type RenderDocumentHandler struct {
	queries    *repository.Queries
	storage    storage.Storage
	generators map[domain.DocumentFormat]report.Generator
	logger     *slog.Logger
}

// NewRenderDocumentHandler creates a new handler for rendering jobs.
//
// PDF and DOCX use the native generators. When WeasyPrint or Pandoc are
// installed the converter-backed generators are used instead for their
// higher-fidelity output.
func NewRenderDocumentHandler(
	queries *repository.Queries,
	store storage.Storage,
	logger *slog.Logger,
) *RenderDocumentHandler {
	generators := map[domain.DocumentFormat]report.Generator{
		domain.DocumentFormatHTML: report.NewHTMLGenerator(logger),
		domain.DocumentFormatPDF:  report.NewPDFGenerator(),
		domain.DocumentFormatDOCX: report.NewDOCXGenerator(),
	}
	if report.IsWeasyPrintAvailable() {
		generators[domain.DocumentFormatPDF] = report.NewConverterGenerator(report.NewWeasyPrintConverter(), logger)
	}
	if report.IsPandocAvailable() {
		generators[domain.DocumentFormatDOCX] = report.NewConverterGenerator(report.NewPandocConverter(), logger)
	}

	return &RenderDocumentHandler{
		queries:    queries,
		storage:    store,
		generators: generators,
		logger:     logger,
	}
}

// Type returns the job type identifier.
func (h *RenderDocumentHandler) Type() string {
	return worker.JobTypeRenderDocument
}

// Handle executes the rendering job.
func (h *RenderDocumentHandler) Handle(ctx context.Context, payload []byte) error {
	// 1. Unmarshal the payload
	var p worker.RenderDocumentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	// 2. Validate format
	format := domain.DocumentFormat(p.Format)
	if !format.IsValid() {
		return worker.NewPermanentError(fmt.Errorf(
			"invalid format: %s (must be 'html', 'pdf' or 'docx')", p.Format))
	}

	h.logger.Info("Rendering document artifact",
		"document_id", p.DocumentID,
		"format", format,
	)

	// 3. Fetch and validate the document
	doc, err := h.queries.GetDocument(ctx, p.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worker.NewPermanentError(fmt.Errorf("document not found: %s", p.DocumentID))
		}
		return fmt.Errorf("fetch document: %w", err)
	}

	switch domain.DocumentStatus(doc.Status) {
	case domain.DocumentStatusReady:
		// proceed
	case domain.DocumentStatusFailed:
		return worker.NewPermanentError(fmt.Errorf("document generation failed, nothing to render"))
	default:
		// Generation still in flight; retry after backoff
		return fmt.Errorf("document not ready yet: status %s", doc.Status)
	}

	data, err := h.documentData(doc)
	if err != nil {
		return worker.NewPermanentError(err)
	}

	// 4. Select generator and render to a buffer
	gen, ok := h.generators[format]
	if !ok {
		return worker.NewPermanentError(fmt.Errorf("no generator for format %s", format))
	}

	var buf bytes.Buffer
	bytesWritten, err := gen.Generate(ctx, data, &buf)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	h.logger.Info("Artifact rendered",
		"document_id", p.DocumentID,
		"format", format,
		"size_bytes", bytesWritten,
	)

	// 5. Upload to storage
	baseKey := storage.DocumentKey(p.DocumentID)
	storageKey := format.Filename(baseKey)
	err = h.storage.Put(ctx, storageKey, &buf, storage.PutOptions{
		ContentType: storage.ContentTypeForFormat(string(format)),
		Overwrite:   true,
	})
	if err != nil {
		return fmt.Errorf("upload artifact to storage: %w", err)
	}

	// 6. Record the artifact on the document
	err = h.queries.UpdateDocumentStored(ctx, repository.UpdateDocumentStoredParams{
		ID:         p.DocumentID,
		StorageKey: baseKey,
		Format:     string(format),
	})
	if err != nil {
		return fmt.Errorf("record rendered artifact: %w", err)
	}

	metrics.ArtifactsRendered.WithLabelValues(string(format)).Inc()

	h.logger.Info("Artifact rendering completed",
		"document_id", p.DocumentID,
		"storage_key", storageKey,
		"format", format,
	)

	return nil
}

// documentData unpacks the stored document pair into renderer input.
func (h *RenderDocumentHandler) documentData(doc repository.Document) (*report.Data, error) {
	if !doc.Rams.Valid || !doc.MethodStatement.Valid {
		return nil, fmt.Errorf("document %s has no generated content", doc.ID)
	}

	var rams domain.RAMSData
	if err := json.Unmarshal(doc.Rams.RawMessage, &rams); err != nil {
		return nil, fmt.Errorf("unmarshal rams: %w", err)
	}

	var method domain.MethodStatementData
	if err := json.Unmarshal(doc.MethodStatement.RawMessage, &method); err != nil {
		return nil, fmt.Errorf("unmarshal method statement: %w", err)
	}

	return &report.Data{
		RAMS:        &rams,
		Method:      &method,
		GeneratedAt: time.Now(),
	}, nil
}
