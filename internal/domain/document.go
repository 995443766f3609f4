// Package domain contains core business types and interfaces.
//
// This file defines the Document type tracking a RAMS generation request
// through its lifecycle, from creation through agent generation to a stored,
// downloadable document pair.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Document Status
// =============================================================================

// DocumentStatus represents the lifecycle state of a generation request.
type DocumentStatus string

const (
	// DocumentStatusPending indicates the request has been accepted and
	// queued but generation has not started.
	DocumentStatusPending DocumentStatus = "pending"

	// DocumentStatusGenerating indicates agent calls and transformation are
	// in progress. Progress and CurrentStep are updated while in this state.
	DocumentStatusGenerating DocumentStatus = "generating"

	// DocumentStatusReady indicates the RAMS and method statement documents
	// have been generated and stored.
	DocumentStatusReady DocumentStatus = "ready"

	// DocumentStatusFailed indicates generation failed permanently.
	DocumentStatusFailed DocumentStatus = "failed"
)

// String returns the string representation of the status.
func (s DocumentStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusGenerating,
		DocumentStatusReady, DocumentStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo checks if the document can move to the target status.
//
// Valid transitions:
// - pending -> generating (worker picked up the job)
// - generating -> ready (generation succeeded)
// - generating -> failed (generation failed permanently)
// - failed -> pending (caller requested a retry)
// - ready -> pending (caller requested regeneration)
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case DocumentStatusPending:
		return target == DocumentStatusGenerating
	case DocumentStatusGenerating:
		return target == DocumentStatusReady || target == DocumentStatusFailed
	case DocumentStatusReady:
		return target == DocumentStatusPending
	case DocumentStatusFailed:
		return target == DocumentStatusPending
	}
	return false
}

// =============================================================================
// Document Domain Type
// =============================================================================

// Document represents one RAMS generation request and its outputs.
type Document struct {
	ID          uuid.UUID
	Status      DocumentStatus
	Project     ProjectInfo
	Query       string // the job description sent to the agents
	CurrentStep string // human-readable progress message while generating
	Progress    int    // 0-100

	// Populated once generation completes.
	RAMS            *RAMSData
	MethodStatement *MethodStatementData
	StorageKey      string           // base key of rendered documents in storage
	RenderedFormats []DocumentFormat // artifact formats already written to storage
	ErrorMessage    string           // populated on failure

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransitionTo moves the document to the target status, validating the
// transition. The status is unchanged if the transition is invalid.
func (d *Document) TransitionTo(target DocumentStatus) error {
	if !target.IsValid() {
		return Errorf(EINVALID, "document.transition", "invalid status %q", target)
	}
	if !d.Status.CanTransitionTo(target) {
		return Errorf(EINVALID, "document.transition",
			"cannot transition from %s to %s", d.Status, target)
	}
	d.Status = target
	return nil
}

// IsTerminal returns true once no further generation work will happen
// without an explicit retry.
func (d *Document) IsTerminal() bool {
	return d.Status == DocumentStatusReady || d.Status == DocumentStatusFailed
}

// CanDownload returns true if rendered documents exist for this request.
func (d *Document) CanDownload() bool {
	return d.Status == DocumentStatusReady && d.StorageKey != ""
}

// HasFormat returns true if the given format has been rendered to storage.
func (d *Document) HasFormat(f DocumentFormat) bool {
	for _, rendered := range d.RenderedFormats {
		if rendered == f {
			return true
		}
	}
	return false
}

// =============================================================================
// Service Parameters
// =============================================================================

// CreateDocumentParams contains validated parameters for requesting a
// document generation.
type CreateDocumentParams struct {
	Project ProjectInfo
	Query   string
}

// Validate checks required fields.
func (p CreateDocumentParams) Validate() error {
	var err error
	if p.Project.ProjectName == "" {
		err = AddFieldError(err, "projectName", "project name is required")
	}
	if p.Project.Location == "" {
		err = AddFieldError(err, "location", "location is required")
	}
	if p.Query == "" {
		err = AddFieldError(err, "query", "a job description is required")
	}
	if err != nil {
		return err
	}
	return nil
}

// ListDocumentsParams contains filtering and pagination parameters for
// listing documents. An empty Statuses slice matches every status.
type ListDocumentsParams struct {
	Statuses []DocumentStatus
	Limit    int32
	Offset   int32
}

// ListDocumentsResult holds a page of documents and the total count matching
// the filter.
type ListDocumentsResult struct {
	Documents []Document
	Total     int64
	Limit     int32
	Offset    int32
}

// DocumentFormat identifies a rendered output format.
type DocumentFormat string

const (
	DocumentFormatHTML DocumentFormat = "html"
	DocumentFormatPDF  DocumentFormat = "pdf"
	DocumentFormatDOCX DocumentFormat = "docx"
)

// IsValid returns true if the format is supported.
func (f DocumentFormat) IsValid() bool {
	switch f {
	case DocumentFormatHTML, DocumentFormatPDF, DocumentFormatDOCX:
		return true
	}
	return false
}

// Filename returns the storage filename for this format under a base key.
func (f DocumentFormat) Filename(baseKey string) string {
	return fmt.Sprintf("%s.%s", baseKey, f)
}
