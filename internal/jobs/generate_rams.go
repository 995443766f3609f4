// Package jobs contains the background job handlers executed by the worker:
// document generation (agent calls plus transformation) and artifact
// rendering.
package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
	"github.com/tomashby/ramsgen/internal/metrics"
	"github.com/tomashby/ramsgen/internal/repository"
	"github.com/tomashby/ramsgen/internal/transform"
	"github.com/tomashby/ramsgen/internal/worker"
)

// renderFormats are the artifact formats queued automatically once a
// document pair has been generated.
var renderFormats = []domain.DocumentFormat{
	domain.DocumentFormatHTML,
	domain.DocumentFormatPDF,
	domain.DocumentFormatDOCX,
}

// GenerateRAMSHandler processes jobs that generate a RAMS document pair.
// It calls both agents in parallel, runs the transformation, stores the
// results and queues rendering jobs for the downloadable formats.
type GenerateRAMSHandler struct {
	queries     *repository.Queries
	provider    agent.Provider
	transformer *transform.Transformer
	logger      *slog.Logger
}

// NewGenerateRAMSHandler creates a new handler for document generation jobs.
func NewGenerateRAMSHandler(
	queries *repository.Queries,
	provider agent.Provider,
	transformer *transform.Transformer,
	logger *slog.Logger,
) *GenerateRAMSHandler {
	return &GenerateRAMSHandler{
		queries:     queries,
		provider:    provider,
		transformer: transformer,
		logger:      logger,
	}
}

// Type returns the job type identifier.
func (h *GenerateRAMSHandler) Type() string {
	return worker.JobTypeGenerateRAMS
}

// Handle executes the document generation job.
//
// Agent failures are handled asymmetrically: a retryable error on either
// call fails the whole job so the worker retries with backoff, while a
// permanent error on ONE agent degrades to the transformer's defaults for
// that side. Only when both agents fail permanently is the document marked
// failed.
func (h *GenerateRAMSHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.GenerateRAMSPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	h.logger.Info("Generating RAMS documents", "document_id", p.DocumentID)

	// 1. Fetch and validate the document
	doc, err := h.queries.GetDocument(ctx, p.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worker.NewPermanentError(fmt.Errorf("document not found: %s", p.DocumentID))
		}
		return fmt.Errorf("fetch document: %w", err)
	}

	// Allow pending (first attempt) and generating (retry after a crash)
	status := domain.DocumentStatus(doc.Status)
	if status != domain.DocumentStatusPending && status != domain.DocumentStatusGenerating {
		return worker.NewPermanentError(fmt.Errorf(
			"invalid document status: %s (expected pending or generating)", status))
	}

	var project domain.ProjectInfo
	if err := json.Unmarshal(doc.Project, &project); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid project info: %w", err))
	}

	// 2. Move to generating
	if status == domain.DocumentStatusPending {
		err = h.queries.UpdateDocumentStatus(ctx, repository.UpdateDocumentStatusParams{
			ID:          p.DocumentID,
			Status:      domain.DocumentStatusGenerating.String(),
			CurrentStep: sql.NullString{String: "contacting agents", Valid: true},
			Progress:    5,
		})
		if err != nil {
			return fmt.Errorf("update document status to generating: %w", err)
		}
	}

	// 3. Call both agents in parallel
	params := agent.GenerateParams{
		Query:      doc.Query,
		Project:    project,
		DocumentID: doc.ID,
	}

	var (
		wg      sync.WaitGroup
		hsResp  *agent.HealthSafetyResponse
		insResp *agent.InstallerResponse
		hsErr   error
		insErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		hsResp, hsErr = h.provider.GenerateRiskAssessment(ctx, params)
		metrics.AgentCalls.WithLabelValues("health_safety", callStatus(hsErr)).Inc()
		h.heartbeat(ctx, p.DocumentID, "risk assessment received", 40)
	}()
	go func() {
		defer wg.Done()
		insResp, insErr = h.provider.GenerateMethodStatement(ctx, params)
		metrics.AgentCalls.WithLabelValues("installer", callStatus(insErr)).Inc()
		h.heartbeat(ctx, p.DocumentID, "method statement received", 40)
	}()
	wg.Wait()

	if err := h.resolveAgentErrors(ctx, p.DocumentID, hsErr, insErr); err != nil {
		return err
	}

	// 4. Transform into the document pair
	h.heartbeat(ctx, p.DocumentID, "transforming agent responses", 70)

	result := h.transformer.Combine(hsResp, insResp, project)
	h.recordTransformStats(result.Stats)

	// 5. Store the generated documents
	ramsJSON, err := json.Marshal(result.RAMS)
	if err != nil {
		return worker.NewPermanentError(fmt.Errorf("marshal rams: %w", err))
	}
	methodJSON, err := json.Marshal(result.Method)
	if err != nil {
		return worker.NewPermanentError(fmt.Errorf("marshal method statement: %w", err))
	}

	err = h.queries.UpdateDocumentResults(ctx, repository.UpdateDocumentResultsParams{
		ID:              p.DocumentID,
		Rams:            pqtype.NullRawMessage{RawMessage: ramsJSON, Valid: true},
		MethodStatement: pqtype.NullRawMessage{RawMessage: methodJSON, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("store document results: %w", err)
	}

	metrics.DocumentsGenerated.WithLabelValues("ready").Inc()

	// 6. Queue rendering of the downloadable artifacts
	for _, format := range renderFormats {
		if _, err := worker.EnqueueRenderDocument(ctx, h.queries, p.DocumentID, string(format)); err != nil {
			// The document itself is ready; a missed render can be requested again
			h.logger.Error("Failed to enqueue render job",
				"document_id", p.DocumentID,
				"format", format,
				"error", err,
			)
		}
	}

	h.logger.Info("RAMS generation completed",
		"document_id", p.DocumentID,
		"hazards", result.Stats.Hazards,
		"steps", result.Stats.Steps,
		"ppe_items", result.Stats.PPEItems,
		"hazard_fallback", result.Stats.HazardFallback,
	)

	return nil
}

// resolveAgentErrors decides what a pair of agent call results means for the
// job. Retryable errors propagate, a single permanent failure degrades, a
// double permanent failure fails the document.
func (h *GenerateRAMSHandler) resolveAgentErrors(ctx context.Context, documentID uuid.UUID, hsErr, insErr error) error {
	if hsErr == nil && insErr == nil {
		return nil
	}

	if agent.IsRetryable(hsErr) || agent.IsRetryable(insErr) {
		return fmt.Errorf("agent call (retryable): %w", errors.Join(hsErr, insErr))
	}

	if hsErr != nil && insErr != nil {
		err := errors.Join(hsErr, insErr)
		h.markDocumentFailed(ctx, documentID, "both agents failed: "+err.Error())
		return worker.NewPermanentError(fmt.Errorf("both agent calls failed: %w", err))
	}

	// One agent failed permanently: continue with defaults for that side
	h.logger.Warn("Agent call failed, degrading to defaults",
		"document_id", documentID,
		"health_safety_error", hsErr,
		"installer_error", insErr,
	)
	return nil
}

// heartbeat advances the document's progress figure. Failures are logged and
// swallowed; a missed heartbeat must never fail generation.
func (h *GenerateRAMSHandler) heartbeat(ctx context.Context, documentID uuid.UUID, step string, progress int32) {
	err := h.queries.UpdateDocumentProgress(ctx, repository.UpdateDocumentProgressParams{
		ID:          documentID,
		CurrentStep: step,
		Progress:    progress,
	})
	if err != nil {
		h.logger.Warn("Failed to update document progress",
			"document_id", documentID,
			"step", step,
			"error", err,
		)
	}
}

// markDocumentFailed records a permanent generation failure on the document.
func (h *GenerateRAMSHandler) markDocumentFailed(ctx context.Context, documentID uuid.UUID, message string) {
	err := h.queries.UpdateDocumentFailed(ctx, repository.UpdateDocumentFailedParams{
		ID:           documentID,
		ErrorMessage: message,
	})
	if err != nil {
		h.logger.Error("Failed to mark document as failed",
			"document_id", documentID,
			"error", err,
		)
	}
	metrics.DocumentsGenerated.WithLabelValues("failed").Inc()
}

func (h *GenerateRAMSHandler) recordTransformStats(stats transform.Stats) {
	metrics.HazardsExtracted.Add(float64(stats.Hazards))
	if stats.HazardFallback {
		metrics.TransformFallbacks.WithLabelValues("hazards").Inc()
	}
	if stats.DurationEstimate {
		metrics.TransformFallbacks.WithLabelValues("duration").Inc()
	}
}

// callStatus maps an agent call error to a metric label.
func callStatus(err error) string {
	if err == nil {
		return "ok"
	}
	if agent.IsRetryable(err) {
		return "retryable"
	}
	return "error"
}
