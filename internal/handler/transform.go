// Package handler contains HTTP handlers for the RAMS generation API.
//
// This file implements the synchronous transform endpoint, which converts
// already-captured agent responses into a document pair without persistence.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tomashby/ramsgen/internal/domain"
	"github.com/tomashby/ramsgen/internal/service"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// TransformHandler handles synchronous transformation requests.
type TransformHandler struct {
	transformService service.TransformService
	logger           *slog.Logger
}

// NewTransformHandler creates a new TransformHandler.
func NewTransformHandler(transformService service.TransformService, logger *slog.Logger) *TransformHandler {
	return &TransformHandler{
		transformService: transformService,
		logger:           logger,
	}
}

// RegisterRoutes registers transform routes on the provided ServeMux.
func (h *TransformHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/transform", h.Transform)
}

// =============================================================================
// Transform
// =============================================================================

// TransformRequest is the request body for a synchronous transformation. The
// agent responses are passed through verbatim, in whatever envelope shape the
// agents produced.
type TransformRequest struct {
	Project      domain.ProjectInfo `json:"project"`
	HealthSafety json.RawMessage    `json:"healthSafetyResponse,omitempty"`
	Installer    json.RawMessage    `json:"installerResponse,omitempty"`
}

// TransformResponse is the transformed document pair.
type TransformResponse struct {
	RAMS            domain.RAMSData            `json:"rams"`
	MethodStatement domain.MethodStatementData `json:"methodStatement"`
	Stats           TransformStats             `json:"stats"`
}

// TransformStats summarizes what the transformation extracted.
type TransformStats struct {
	Hazards          int  `json:"hazards"`
	PPEItems         int  `json:"ppeItems"`
	Steps            int  `json:"steps"`
	HazardFallback   bool `json:"hazardFallback"`
	DurationEstimate bool `json:"durationEstimate"`
}

// Transform converts raw agent responses into a RAMS and method statement
// pair.
// POST /api/v1/transform
func (h *TransformHandler) Transform(w http.ResponseWriter, r *http.Request) {
	// 1. Decode the request body
	var req TransformRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// 2. Run the transformation pipeline
	result, err := h.transformService.Transform(r.Context(), service.TransformParams{
		Project:      req.Project,
		HealthSafety: req.HealthSafety,
		Installer:    req.Installer,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// 3. Return the document pair
	respondJSON(w, h.logger, http.StatusOK, TransformResponse{
		RAMS:            result.RAMS,
		MethodStatement: result.Method,
		Stats: TransformStats{
			Hazards:          result.Stats.Hazards,
			PPEItems:         result.Stats.PPEItems,
			Steps:            result.Stats.Steps,
			HazardFallback:   result.Stats.HazardFallback,
			DurationEstimate: result.Stats.DurationEstimate,
		},
	})
}
