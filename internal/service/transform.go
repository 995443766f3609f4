package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/domain"
	"github.com/tomashby/ramsgen/internal/metrics"
	"github.com/tomashby/ramsgen/internal/transform"
)

// =============================================================================
// Interface Definition
// =============================================================================

// TransformParams contains the raw agent responses to transform. Either
// payload may be empty, in which case the pipeline falls back to defaults for
// that side.
type TransformParams struct {
	Project      domain.ProjectInfo
	HealthSafety json.RawMessage
	Installer    json.RawMessage
}

// TransformResult is the structured document pair produced from raw agent
// responses, along with extraction statistics.
type TransformResult struct {
	RAMS   domain.RAMSData
	Method domain.MethodStatementData
	Stats  transform.Stats
}

// TransformService converts raw agent responses into a RAMS and method
// statement pair synchronously, without persisting anything.
type TransformService interface {
	// Transform parses the supplied agent payloads and runs the
	// transformation pipeline.
	// Returns domain.EINVALID if both payloads are empty or either fails to
	// parse as JSON.
	Transform(ctx context.Context, params TransformParams) (*TransformResult, error)
}

// =============================================================================
// Implementation
// =============================================================================

type transformService struct {
	transformer *transform.Transformer
	logger      *slog.Logger
}

// NewTransformService creates a new transform service.
func NewTransformService(transformer *transform.Transformer, logger *slog.Logger) TransformService {
	return &transformService{
		transformer: transformer,
		logger:      logger,
	}
}

// Transform parses the agent payloads and runs the transformation pipeline.
func (s *transformService) Transform(ctx context.Context, params TransformParams) (*TransformResult, error) {
	const op = "transform.run"

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(params.HealthSafety) == 0 && len(params.Installer) == 0 {
		return nil, domain.Invalid(op, "at least one agent response is required")
	}

	var hs *agent.HealthSafetyResponse
	if len(params.HealthSafety) > 0 {
		hs = &agent.HealthSafetyResponse{}
		if err := json.Unmarshal(params.HealthSafety, hs); err != nil {
			return nil, domain.Invalid(op, "health and safety response is not valid JSON")
		}
	}

	var installer *agent.InstallerResponse
	if len(params.Installer) > 0 {
		installer = &agent.InstallerResponse{}
		if err := json.Unmarshal(params.Installer, installer); err != nil {
			return nil, domain.Invalid(op, "installer response is not valid JSON")
		}
	}

	result := s.transformer.Combine(hs, installer, params.Project)

	metrics.HazardsExtracted.Add(float64(result.Stats.Hazards))
	if result.Stats.HazardFallback {
		metrics.TransformFallbacks.WithLabelValues("hazards").Inc()
	}
	if result.Stats.DurationEstimate {
		metrics.TransformFallbacks.WithLabelValues("duration").Inc()
	}

	s.logger.Info("transform completed",
		"project_name", params.Project.ProjectName,
		"hazards", result.Stats.Hazards,
		"steps", result.Stats.Steps,
		"hazard_fallback", result.Stats.HazardFallback,
	)

	return &TransformResult{
		RAMS:   result.RAMS,
		Method: result.Method,
		Stats:  result.Stats,
	}, nil
}
