package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomashby/ramsgen/internal/repository"
)

// Job type constants - these must match the JobHandler.Type() values
const (
	JobTypeGenerateRAMS   = "generate_rams"
	JobTypeRenderDocument = "render_document"
)

// Priority constants for job scheduling
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// GenerateRAMSPayload is the payload for document generation jobs.
type GenerateRAMSPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
}

// RenderDocumentPayload is the payload for artifact rendering jobs.
type RenderDocumentPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	Format     string    `json:"format"` // "html", "pdf" or "docx"
}

// EnqueueOption is a functional option for customizing job enqueue parameters.
type EnqueueOption func(*repository.EnqueueJobParams)

// WithPriority sets the job priority.
func WithPriority(priority int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.Priority = priority
	}
}

// WithMaxAttempts sets the maximum number of retry attempts.
func WithMaxAttempts(attempts int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.MaxAttempts = attempts
	}
}

// WithDelay schedules the job to run after a delay.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.ScheduledAt = time.Now().Add(delay)
	}
}

// EnqueueJob is a generic helper for enqueuing jobs with custom options.
func EnqueueJob(
	ctx context.Context,
	queries *repository.Queries,
	jobType string,
	payload interface{},
	opts ...EnqueueOption,
) (repository.Job, error) {
	// Marshal the payload to JSON
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return repository.Job{}, fmt.Errorf("marshal payload: %w", err)
	}

	// Default parameters
	params := repository.EnqueueJobParams{
		JobType:     jobType,
		Payload:     payloadJSON,
		Priority:    PriorityNormal,
		MaxAttempts: 3,
		ScheduledAt: time.Now(),
	}

	// Apply options
	for _, opt := range opts {
		opt(&params)
	}

	// Enqueue the job
	job, err := queries.EnqueueJob(ctx, params)
	if err != nil {
		return repository.Job{}, fmt.Errorf("enqueue job: %w", err)
	}

	return job, nil
}

// EnqueueGenerateRAMS enqueues a job to generate the RAMS and method
// statement for a document. This is called when a document is created.
func EnqueueGenerateRAMS(
	ctx context.Context,
	queries *repository.Queries,
	documentID uuid.UUID,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := GenerateRAMSPayload{
		DocumentID: documentID,
	}

	return EnqueueJob(ctx, queries, JobTypeGenerateRAMS, payload, opts...)
}

// EnqueueRenderDocument enqueues a job to render a generated document into a
// downloadable artifact. The format should be "html", "pdf" or "docx".
func EnqueueRenderDocument(
	ctx context.Context,
	queries *repository.Queries,
	documentID uuid.UUID,
	format string,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := RenderDocumentPayload{
		DocumentID: documentID,
		Format:     format,
	}

	return EnqueueJob(ctx, queries, JobTypeRenderDocument, payload, opts...)
}
