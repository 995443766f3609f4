package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/worker"
)

func TestCallStatus(t *testing.T) {
	assert.Equal(t, "ok", callStatus(nil))
	assert.Equal(t, "retryable", callStatus(agent.ERateLimit))
	assert.Equal(t, "retryable", callStatus(fmt.Errorf("wrapped: %w", agent.EUnavailable)))
	assert.Equal(t, "error", callStatus(agent.EUnauthorized))
	assert.Equal(t, "error", callStatus(errors.New("boom")))
}

func TestResolveAgentErrors(t *testing.T) {
	h := &GenerateRAMSHandler{logger: discardLogger()}
	ctx := context.Background()
	docID := uuid.New()

	t.Run("no errors", func(t *testing.T) {
		assert.NoError(t, h.resolveAgentErrors(ctx, docID, nil, nil))
	})

	t.Run("retryable error propagates", func(t *testing.T) {
		err := h.resolveAgentErrors(ctx, docID, agent.ERateLimit, nil)
		require.Error(t, err)
		assert.False(t, worker.IsPermanent(err))
	})

	t.Run("retryable beats permanent", func(t *testing.T) {
		err := h.resolveAgentErrors(ctx, docID, agent.EUnauthorized, agent.ETimeout)
		require.Error(t, err)
		assert.False(t, worker.IsPermanent(err))
	})

	t.Run("single permanent failure degrades", func(t *testing.T) {
		assert.NoError(t, h.resolveAgentErrors(ctx, docID, agent.EUnauthorized, nil))
		assert.NoError(t, h.resolveAgentErrors(ctx, docID, nil, errors.New("bad payload")))
	})
}
