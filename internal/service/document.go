// Package service implements business logic for RAMS document generation.
//
// Services sit between the HTTP handlers and the repository layer. They
// validate input, enforce lifecycle rules, enqueue background work and
// translate repository rows into domain types.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tomashby/ramsgen/internal/domain"
	"github.com/tomashby/ramsgen/internal/metrics"
	"github.com/tomashby/ramsgen/internal/repository"
	"github.com/tomashby/ramsgen/internal/storage"
	"github.com/tomashby/ramsgen/internal/worker"
)

// downloadURLExpiry is how long presigned download links remain valid.
const downloadURLExpiry = 15 * time.Minute

// =============================================================================
// Interface Definition
// =============================================================================

// DocumentService manages RAMS document generation requests.
type DocumentService interface {
	// Create accepts a generation request, persists it as a pending document
	// and enqueues the generation job.
	// Returns a validation error if required fields are missing.
	Create(ctx context.Context, params domain.CreateDocumentParams) (*domain.Document, error)

	// GetByID retrieves a document by ID.
	// Returns domain.ENOTFOUND if the document doesn't exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// List retrieves a paginated list of documents, newest first, optionally
	// filtered by status.
	List(ctx context.Context, params domain.ListDocumentsParams) (*domain.ListDocumentsResult, error)

	// Delete removes a document and its stored artifacts.
	// Returns domain.ENOTFOUND if the document doesn't exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Retry moves a failed or ready document back to pending and enqueues a
	// fresh generation job.
	// Returns domain.ENOTFOUND if the document doesn't exist and
	// domain.ECONFLICT if it is still pending or generating.
	Retry(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// DownloadURL returns a URL for a rendered artifact.
	// Returns domain.ENOTFOUND if the document or format doesn't exist and
	// domain.ECONFLICT if the document isn't ready for download.
	DownloadURL(ctx context.Context, id uuid.UUID, format domain.DocumentFormat) (string, error)

	// Download streams a rendered artifact directly from storage. The caller
	// must close the reader.
	// Returns the same errors as DownloadURL.
	Download(ctx context.Context, id uuid.UUID, format domain.DocumentFormat) (io.ReadCloser, storage.ObjectInfo, error)

	// StatusCounts returns the number of documents in each lifecycle status.
	StatusCounts(ctx context.Context) (map[string]int64, error)
}

// =============================================================================
// Implementation
// =============================================================================

type documentService struct {
	queries *repository.Queries
	storage storage.Storage
	logger  *slog.Logger
}

// NewDocumentService creates a new document service.
//
// Parameters:
//   - queries: Database access layer
//   - store: Object storage for rendered artifacts
//   - logger: Structured logger for service operations
//
// Example:
//
//	documentService := service.NewDocumentService(repo, store, logger)
func NewDocumentService(
	queries *repository.Queries,
	store storage.Storage,
	logger *slog.Logger,
) DocumentService {
	return &documentService{
		queries: queries,
		storage: store,
		logger:  logger,
	}
}

// =============================================================================
// Create
// =============================================================================

// Create accepts a generation request and enqueues the generation job.
func (s *documentService) Create(ctx context.Context, params domain.CreateDocumentParams) (*domain.Document, error) {
	const op = "document.create"

	// Validate parameters
	if err := params.Validate(); err != nil {
		return nil, err
	}

	projectJSON, err := json.Marshal(params.Project)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode project details")
	}

	// Create the pending document
	row, err := s.queries.CreateDocument(ctx, repository.CreateDocumentParams{
		ID:      uuid.New(),
		Project: projectJSON,
		Query:   params.Query,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create document")
	}

	// Enqueue the generation job
	if _, err := worker.EnqueueGenerateRAMS(ctx, s.queries, row.ID); err != nil {
		// The pending row would never progress without its job, so undo it.
		if _, delErr := s.queries.DeleteDocument(ctx, row.ID); delErr != nil {
			s.logger.Error("failed to clean up document after enqueue failure",
				"document_id", row.ID,
				"error", delErr,
			)
		}
		return nil, domain.Internal(err, op, "failed to queue generation")
	}

	doc, err := s.rowToDocument(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode document")
	}

	s.logger.Info("document created",
		"document_id", doc.ID,
		"project_name", doc.Project.ProjectName,
	)
	metrics.DocumentsCreated.Inc()

	return doc, nil
}

// =============================================================================
// GetByID
// =============================================================================

// GetByID retrieves a document by ID.
func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	const op = "document.get"

	row, err := s.queries.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "document", id.String())
		}
		return nil, domain.Internal(err, op, "failed to get document")
	}

	doc, err := s.rowToDocument(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode document")
	}

	return doc, nil
}

// =============================================================================
// List
// =============================================================================

// List retrieves a paginated list of documents.
func (s *documentService) List(ctx context.Context, params domain.ListDocumentsParams) (*domain.ListDocumentsResult, error) {
	const op = "document.list"

	// Validate status filters before they reach the query
	statuses := make([]string, 0, len(params.Statuses))
	for _, status := range params.Statuses {
		if !status.IsValid() {
			return nil, domain.Invalid(op, "unknown status "+string(status))
		}
		statuses = append(statuses, string(status))
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	// Get total count for the same filter
	total, err := s.queries.CountDocuments(ctx, statuses)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count documents")
	}

	// Get paginated results
	rows, err := s.queries.ListDocuments(ctx, repository.ListDocumentsParams{
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list documents")
	}

	// Convert to domain types
	documents := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := s.rowToDocument(row)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to decode document")
		}
		documents = append(documents, *doc)
	}

	return &domain.ListDocumentsResult{
		Documents: documents,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// =============================================================================
// Delete
// =============================================================================

// Delete removes a document and its stored artifacts.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "document.delete"

	row, err := s.queries.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "document", id.String())
		}
		return domain.Internal(err, op, "failed to get document")
	}

	// Remove rendered artifacts first. Storage deletes are idempotent, and a
	// failed delete leaves an orphaned file rather than a broken record.
	if row.StorageKey.Valid {
		for _, format := range row.RenderedFormats {
			key := domain.DocumentFormat(format).Filename(row.StorageKey.String)
			if err := s.storage.Delete(ctx, key); err != nil {
				s.logger.Warn("failed to delete stored artifact",
					"document_id", id,
					"key", key,
					"error", err,
				)
			}
		}
	}

	deleted, err := s.queries.DeleteDocument(ctx, id)
	if err != nil {
		return domain.Internal(err, op, "failed to delete document")
	}
	if deleted == 0 {
		return domain.NotFound(op, "document", id.String())
	}

	s.logger.Info("document deleted", "document_id", id)
	return nil
}

// =============================================================================
// Retry
// =============================================================================

// Retry moves a failed or ready document back to pending and requeues it.
func (s *documentService) Retry(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	const op = "document.retry"

	// The reset only matches failed or ready rows, so a no-match needs a
	// second look to distinguish missing from in-flight.
	row, err := s.queries.ResetDocumentForRetry(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			current, getErr := s.queries.GetDocument(ctx, id)
			if getErr != nil {
				if errors.Is(getErr, sql.ErrNoRows) {
					return nil, domain.NotFound(op, "document", id.String())
				}
				return nil, domain.Internal(getErr, op, "failed to get document")
			}
			return nil, domain.Conflict(op,
				"document is "+current.Status+" and cannot be retried yet")
		}
		return nil, domain.Internal(err, op, "failed to reset document")
	}

	if _, err := worker.EnqueueGenerateRAMS(ctx, s.queries, id); err != nil {
		return nil, domain.Internal(err, op, "failed to queue generation")
	}

	doc, err := s.rowToDocument(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode document")
	}

	s.logger.Info("document retry requested", "document_id", id)
	return doc, nil
}

// =============================================================================
// Download
// =============================================================================

// DownloadURL returns a URL for a rendered artifact.
func (s *documentService) DownloadURL(ctx context.Context, id uuid.UUID, format domain.DocumentFormat) (string, error) {
	const op = "document.download"

	key, err := s.artifactKey(ctx, op, id, format)
	if err != nil {
		return "", err
	}

	url, err := s.storage.URL(ctx, key, downloadURLExpiry)
	if err != nil {
		return "", domain.Internal(err, op, "failed to build download URL")
	}
	return url, nil
}

// Download streams a rendered artifact from storage.
func (s *documentService) Download(ctx context.Context, id uuid.UUID, format domain.DocumentFormat) (io.ReadCloser, storage.ObjectInfo, error) {
	const op = "document.download"

	key, err := s.artifactKey(ctx, op, id, format)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}

	reader, info, err := s.storage.Get(ctx, key)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, storage.ObjectInfo{}, domain.NotFound(op, "artifact", key)
		}
		return nil, storage.ObjectInfo{}, domain.Internal(err, op, "failed to read artifact")
	}
	return reader, info, nil
}

// artifactKey resolves the storage key for a document artifact, enforcing
// lifecycle and format checks.
func (s *documentService) artifactKey(ctx context.Context, op string, id uuid.UUID, format domain.DocumentFormat) (string, error) {
	if !format.IsValid() {
		return "", domain.Invalid(op, "unknown format "+string(format))
	}

	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if !doc.CanDownload() {
		return "", domain.Conflict(op,
			"document is "+doc.Status.String()+" and has no downloadable files")
	}
	if !doc.HasFormat(format) {
		return "", domain.NotFound(op, "rendered "+string(format)+" for document", id.String())
	}

	return format.Filename(doc.StorageKey), nil
}

// =============================================================================
// StatusCounts
// =============================================================================

// StatusCounts returns the number of documents in each lifecycle status.
func (s *documentService) StatusCounts(ctx context.Context) (map[string]int64, error) {
	const op = "document.status_counts"

	counts, err := s.queries.CountDocumentsByStatus(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count documents")
	}
	return counts, nil
}

// =============================================================================
// Conversion
// =============================================================================

// rowToDocument converts a repository row to a domain document.
func (s *documentService) rowToDocument(row repository.Document) (*domain.Document, error) {
	var project domain.ProjectInfo
	if err := json.Unmarshal(row.Project, &project); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:           row.ID,
		Status:       domain.DocumentStatus(row.Status),
		Project:      project,
		Query:        row.Query,
		CurrentStep:  domain.NullStringValue(row.CurrentStep),
		Progress:     int(row.Progress),
		StorageKey:   domain.NullStringValue(row.StorageKey),
		ErrorMessage: domain.NullStringValue(row.ErrorMessage),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	for _, format := range row.RenderedFormats {
		doc.RenderedFormats = append(doc.RenderedFormats, domain.DocumentFormat(format))
	}

	if row.Rams.Valid {
		var rams domain.RAMSData
		if err := json.Unmarshal(row.Rams.RawMessage, &rams); err != nil {
			return nil, err
		}
		doc.RAMS = &rams
	}
	if row.MethodStatement.Valid {
		var method domain.MethodStatementData
		if err := json.Unmarshal(row.MethodStatement.RawMessage, &method); err != nil {
			return nil, err
		}
		doc.MethodStatement = &method
	}

	return doc, nil
}
