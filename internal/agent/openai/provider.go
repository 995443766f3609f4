// Package openai implements the agent provider against the OpenAI
// chat-completions API. Both agents (health & safety and installer) share the
// transport; they differ only in their prompts.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/metrics"
)

const (
	// DefaultBaseURL is the chat-completions endpoint.
	DefaultBaseURL = "https://api.openai.com/v1/chat/completions"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	maxOutputTokens = 4096
)

// Config contains configuration for the OpenAI provider.
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	ProviderConfig agent.ProviderConfig
}

// Provider implements agent.Provider using the OpenAI API.
type Provider struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a new OpenAI agent provider.
func New(config Config, logger *slog.Logger) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.ProviderConfig.MaxRetries == 0 {
		config.ProviderConfig.MaxRetries = 3
	}
	if config.ProviderConfig.RetryBaseDelay == 0 {
		config.ProviderConfig.RetryBaseDelay = 1 * time.Second
	}
	if config.ProviderConfig.RequestTimeout == 0 {
		config.ProviderConfig.RequestTimeout = 120 * time.Second
	}

	return &Provider{
		config: config,
		client: &http.Client{
			Timeout: config.ProviderConfig.RequestTimeout,
		},
		logger: logger,
	}, nil
}

// GenerateRiskAssessment asks the health & safety agent for hazards, PPE and
// emergency procedures.
func (p *Provider) GenerateRiskAssessment(ctx context.Context, params agent.GenerateParams) (*agent.HealthSafetyResponse, error) {
	content, err := p.complete(ctx, healthSafetySystemPrompt, buildHealthSafetyPrompt(params), "risk assessment")
	if err != nil {
		return nil, err
	}

	// Structured JSON is preferred, but a model that answers in prose is
	// still usable: the transformer parses free text as a fallback.
	var resp agent.HealthSafetyResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		resp = agent.HealthSafetyResponse{}
		resp.Response.Text = content
	}
	return &resp, nil
}

// GenerateMethodStatement asks the installer agent for ordered method steps.
func (p *Provider) GenerateMethodStatement(ctx context.Context, params agent.GenerateParams) (*agent.InstallerResponse, error) {
	content, err := p.complete(ctx, installerSystemPrompt, buildInstallerPrompt(params), "method statement")
	if err != nil {
		return nil, err
	}

	var resp agent.InstallerResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		resp = agent.InstallerResponse{}
		resp.Response.Text = content
	}
	return &resp, nil
}

// complete runs one chat completion and returns the message content.
func (p *Provider) complete(ctx context.Context, system, user, operation string) (string, error) {
	start := time.Now()

	body, err := json.Marshal(apiRequest{
		Model:     p.config.Model,
		MaxTokens: maxOutputTokens,
		Messages: []apiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &apiResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", agent.WrapError("marshal request", err)
	}

	resp, err := p.executeWithRetry(ctx, body)
	if err != nil {
		return "", agent.WrapError(operation, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", agent.WrapError(operation, agent.EBadResponse)
	}

	metrics.AgentTokensTotal.WithLabelValues("input").Add(float64(resp.Usage.PromptTokens))
	metrics.AgentTokensTotal.WithLabelValues("output").Add(float64(resp.Usage.CompletionTokens))
	p.logger.Info("agent completion finished",
		"operation", operation,
		"model", p.config.Model,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
		"duration", time.Since(start),
	)
	return resp.Choices[0].Message.Content, nil
}

// executeWithRetry executes the request with exponential backoff on
// transient errors. The body is re-wrapped per attempt since each send
// consumes it.
func (p *Provider) executeWithRetry(ctx context.Context, body []byte) (*apiResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.ProviderConfig.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

		resp, err := p.executeRequest(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !agent.IsRetryable(err) {
			return nil, err
		}
		if attempt >= p.config.ProviderConfig.MaxRetries {
			break
		}

		delay := p.config.ProviderConfig.RetryBaseDelay * time.Duration(1<<(attempt-1))
		p.logger.Info("retrying agent request", "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func (p *Provider) executeRequest(req *http.Request) (*apiResponse, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		// Network errors are typically transient.
		return nil, agent.EUnavailable
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mapHTTPError(resp.StatusCode, bodyBytes)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &apiResp, nil
}

// mapHTTPError maps HTTP status codes to agent errors.
func mapHTTPError(statusCode int, body []byte) error {
	var errResp apiErrorResponse
	_ = json.Unmarshal(body, &errResp)

	switch statusCode {
	case http.StatusUnauthorized:
		return agent.EUnauthorized
	case http.StatusTooManyRequests:
		return agent.ERateLimit
	case http.StatusRequestTimeout:
		return agent.ETimeout
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return agent.EUnavailable
	default:
		return fmt.Errorf("API error (status %d): %s", statusCode, errResp.Error.Message)
	}
}

// API request/response types

type apiRequest struct {
	Model          string             `json:"model"`
	MaxTokens      int                `json:"max_tokens"`
	Messages       []apiMessage       `json:"messages"`
	ResponseFormat *apiResponseFormat `json:"response_format,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponseFormat struct {
	Type string `json:"type"`
}

type apiResponse struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Index        int        `json:"index"`
	Message      apiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
