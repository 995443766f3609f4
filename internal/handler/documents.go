// Package handler contains HTTP handlers for the RAMS generation API.
//
// This file implements document lifecycle handlers: requesting generation,
// polling progress and downloading rendered artifacts.
package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomashby/ramsgen/internal/domain"
	"github.com/tomashby/ramsgen/internal/service"
	"github.com/tomashby/ramsgen/internal/storage"
)

// =============================================================================
// Response Types
// =============================================================================

// DocumentResponse is the JSON representation of a document.
type DocumentResponse struct {
	ID              uuid.UUID                   `json:"id"`
	Status          domain.DocumentStatus       `json:"status"`
	Project         domain.ProjectInfo          `json:"project"`
	Query           string                      `json:"query"`
	CurrentStep     string                      `json:"currentStep,omitempty"`
	Progress        int                         `json:"progress"`
	RAMS            *domain.RAMSData            `json:"rams,omitempty"`
	MethodStatement *domain.MethodStatementData `json:"methodStatement,omitempty"`
	RenderedFormats []domain.DocumentFormat     `json:"renderedFormats,omitempty"`
	ErrorMessage    string                      `json:"errorMessage,omitempty"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// DocumentListResponse is the JSON representation of a document page.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int64              `json:"total"`
	Limit     int32              `json:"limit"`
	Offset    int32              `json:"offset"`
}

// toDocumentResponse converts a domain document to its JSON representation.
func toDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:              doc.ID,
		Status:          doc.Status,
		Project:         doc.Project,
		Query:           doc.Query,
		CurrentStep:     doc.CurrentStep,
		Progress:        doc.Progress,
		RAMS:            doc.RAMS,
		MethodStatement: doc.MethodStatement,
		RenderedFormats: doc.RenderedFormats,
		ErrorMessage:    doc.ErrorMessage,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// =============================================================================
// Handler Configuration
// =============================================================================

// DocumentHandler handles document-related HTTP requests.
type DocumentHandler struct {
	documentService service.DocumentService
	logger          *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// RegisterRoutes registers document routes on the provided ServeMux.
func (h *DocumentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/documents", h.Create)
	mux.HandleFunc("GET /api/v1/documents", h.List)
	mux.HandleFunc("GET /api/v1/documents/{id}", h.Get)
	mux.HandleFunc("DELETE /api/v1/documents/{id}", h.Delete)
	mux.HandleFunc("POST /api/v1/documents/{id}/retry", h.Retry)
	mux.HandleFunc("GET /api/v1/documents/{id}/download", h.Download)
	mux.HandleFunc("GET /api/v1/documents/{id}/url", h.GetDownloadURL)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
}

// =============================================================================
// Create
// =============================================================================

// CreateDocumentRequest is the request body for requesting a generation.
type CreateDocumentRequest struct {
	Project domain.ProjectInfo `json:"project"`
	Query   string             `json:"query"`
}

// Create accepts a generation request.
// POST /api/v1/documents
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	// 1. Decode the request body
	var req CreateDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// 2. Create the pending document and enqueue generation
	doc, err := h.documentService.Create(r.Context(), domain.CreateDocumentParams{
		Project: req.Project,
		Query:   strings.TrimSpace(req.Query),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// 3. Return the pending document; the client polls for progress
	respondJSON(w, h.logger, http.StatusAccepted, toDocumentResponse(doc))
}

// =============================================================================
// Get / List
// =============================================================================

// Get returns a single document, including generated content once ready.
// GET /api/v1/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseDocumentID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	doc, err := h.documentService.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toDocumentResponse(doc))
}

// List returns a page of documents, newest first.
// GET /api/v1/documents?status=ready,failed&limit=20&offset=0
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	// 1. Parse filters and pagination
	params := domain.ListDocumentsParams{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			params.Statuses = append(params.Statuses, domain.DocumentStatus(strings.TrimSpace(s)))
		}
	}
	params.Limit = parseInt32(r.URL.Query().Get("limit"), 20)
	params.Offset = parseInt32(r.URL.Query().Get("offset"), 0)

	// 2. Fetch the page
	result, err := h.documentService.List(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// 3. Convert to response types
	resp := DocumentListResponse{
		Documents: make([]DocumentResponse, 0, len(result.Documents)),
		Total:     result.Total,
		Limit:     result.Limit,
		Offset:    result.Offset,
	}
	for i := range result.Documents {
		resp.Documents = append(resp.Documents, toDocumentResponse(&result.Documents[i]))
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}

// =============================================================================
// Delete / Retry
// =============================================================================

// Delete removes a document and its stored artifacts.
// DELETE /api/v1/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseDocumentID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.documentService.Delete(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Retry requeues generation for a failed or ready document.
// POST /api/v1/documents/{id}/retry
func (h *DocumentHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id, err := parseDocumentID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	doc, err := h.documentService.Retry(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusAccepted, toDocumentResponse(doc))
}

// =============================================================================
// Download
// =============================================================================

// Download streams a rendered artifact.
// GET /api/v1/documents/{id}/download?format=html|pdf|docx
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	// 1. Parse ID and format
	id, err := parseDocumentID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	format := parseFormat(r)

	// 2. Fetch from storage
	reader, info, err := h.documentService.Download(r.Context(), id, format)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	defer reader.Close()

	// 3. Set response headers
	contentType := info.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForFormat(string(format))
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size))

	filename := fmt.Sprintf("rams-%s.%s", id.String()[:8], format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	// 4. Stream the file
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("failed to stream artifact", "error", err, "document_id", id)
		return
	}

	h.logger.Info("artifact downloaded", "document_id", id, "format", format)
}

// GetDownloadURL redirects to a presigned URL for a rendered artifact.
// GET /api/v1/documents/{id}/url?format=html|pdf|docx
func (h *DocumentHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	id, err := parseDocumentID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	format := parseFormat(r)

	url, err := h.documentService.DownloadURL(r.Context(), id, format)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// =============================================================================
// Stats
// =============================================================================

// Stats returns document counts per lifecycle status.
// GET /api/v1/stats
func (h *DocumentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.documentService.StatusCounts(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"documents": counts,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// parseDocumentID extracts and validates the {id} path parameter.
func parseDocumentID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.Invalid("handler.parse_id", "invalid document ID")
	}
	return id, nil
}

// parseFormat reads the format query parameter, defaulting to PDF. Unknown
// values pass through so the service can reject them with a proper error.
func parseFormat(r *http.Request) domain.DocumentFormat {
	format := r.URL.Query().Get("format")
	if format == "" {
		return domain.DocumentFormatPDF
	}
	return domain.DocumentFormat(format)
}

// parseInt32 parses a query parameter with a fallback.
func parseInt32(raw string, fallback int32) int32 {
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(n)
}
