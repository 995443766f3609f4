// Package agent defines the interface to the AI agents that draft risk
// assessments and method statements, together with the loosely-shaped
// response envelopes they return.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomashby/ramsgen/internal/domain"
)

// Provider defines the interface for the AI agents backing document
// generation. Implementations call a remote model; the mock implementation
// returns canned payloads for development and tests.
type Provider interface {
	// GenerateRiskAssessment asks the health & safety agent for hazards,
	// PPE and emergency procedures for the described work.
	GenerateRiskAssessment(ctx context.Context, params GenerateParams) (*HealthSafetyResponse, error)

	// GenerateMethodStatement asks the installer agent for ordered method
	// steps and supporting installer guidance.
	GenerateMethodStatement(ctx context.Context, params GenerateParams) (*InstallerResponse, error)
}

// GenerateParams contains the request context shared by both agents.
type GenerateParams struct {
	Query      string             // Job description
	Project    domain.ProjectInfo // Project metadata for prompt context
	DocumentID uuid.UUID          // Document ID for tracking
}

// ProviderConfig contains common configuration for agent providers.
type ProviderConfig struct {
	MaxRetries     int           // Maximum retry attempts for transient errors
	RetryBaseDelay time.Duration // Base delay for exponential backoff
	RequestTimeout time.Duration // Timeout for individual requests
}

// UsageInfo tracks API usage for monitoring.
type UsageInfo struct {
	Model        string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// Error codes for agent operations.
var (
	// ERateLimit indicates the API rate limit has been exceeded.
	ERateLimit = errors.New("agent rate limit exceeded")

	// ETimeout indicates the request timed out.
	ETimeout = errors.New("agent request timed out")

	// EUnavailable indicates the agent service is temporarily unavailable.
	EUnavailable = errors.New("agent service temporarily unavailable")

	// EUnauthorized indicates invalid API credentials.
	EUnauthorized = errors.New("agent authentication failed")

	// EBadResponse indicates the agent returned a response that could not
	// be parsed at all (not even as free text).
	EBadResponse = errors.New("agent returned an unparseable response")
)

// IsRetryable returns true if the error is transient and the call can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ERateLimit) ||
		errors.Is(err, ETimeout) ||
		errors.Is(err, EUnavailable)
}

// WrapError wraps an error with context about the agent operation.
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("agent %s: %w", operation, err)
}
