package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomashby/ramsgen/internal/repository"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "concurrency too low",
			config: Config{
				Concurrency:       0,
				PollInterval:      5 * time.Second,
				JobTimeout:        5 * time.Minute,
				ShutdownTimeout:   30 * time.Second,
				StaleJobThreshold: 10 * time.Minute,
			},
			wantErr: true,
		},
		{
			name: "concurrency too high",
			config: Config{
				Concurrency:       101,
				PollInterval:      5 * time.Second,
				JobTimeout:        5 * time.Minute,
				ShutdownTimeout:   30 * time.Second,
				StaleJobThreshold: 10 * time.Minute,
			},
			wantErr: true,
		},
		{
			name: "poll interval too short",
			config: Config{
				Concurrency:       2,
				PollInterval:      500 * time.Millisecond,
				JobTimeout:        5 * time.Minute,
				ShutdownTimeout:   30 * time.Second,
				StaleJobThreshold: 10 * time.Minute,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "permanent error",
			err:  NewPermanentError(context.Canceled),
			want: true,
		},
		{
			name: "regular error",
			err:  context.Canceled,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermanent(tt.err); got != tt.want {
				t.Errorf("IsPermanent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnqueueOptions(t *testing.T) {
	params := repository.EnqueueJobParams{
		JobType:     JobTypeGenerateRAMS,
		Priority:    PriorityNormal,
		MaxAttempts: 3,
		ScheduledAt: time.Now(),
	}

	WithPriority(PriorityHigh)(&params)
	WithMaxAttempts(5)(&params)
	before := time.Now()
	WithDelay(time.Minute)(&params)

	if params.Priority != PriorityHigh {
		t.Errorf("Priority = %d, want %d", params.Priority, PriorityHigh)
	}
	if params.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", params.MaxAttempts)
	}
	if params.ScheduledAt.Before(before.Add(59 * time.Second)) {
		t.Errorf("ScheduledAt = %v, want at least a minute out", params.ScheduledAt)
	}
}

func TestRenderDocumentPayload_RoundTrip(t *testing.T) {
	id := uuid.New()
	raw, err := json.Marshal(RenderDocumentPayload{DocumentID: id, Format: "pdf"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var decoded RenderDocumentPayload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded.DocumentID != id {
		t.Errorf("DocumentID = %v, want %v", decoded.DocumentID, id)
	}
	if decoded.Format != "pdf" {
		t.Errorf("Format = %q, want %q", decoded.Format, "pdf")
	}
}
