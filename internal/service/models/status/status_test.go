package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oms-labs/order-svc/internal/service/models/status"
)

func TestCanTransition(t *testing.T) {
	all := []status.Status{
		status.StatusDraft,
		status.StatusSubmitted,
		status.StatusCompleted,
		status.StatusCancelled,
	}

	allowed := map[status.Status][]status.Status{
		status.StatusDraft:     {status.StatusSubmitted, status.StatusCancelled},
		status.StatusSubmitted: {status.StatusCompleted, status.StatusCancelled},
		status.StatusCompleted: {},
		status.StatusCancelled: {status.StatusCancelled},
	}

	for from, targets := range allowed {
		ok := map[status.Status]bool{}
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, status.StatusDraft.Terminal())
	assert.False(t, status.StatusSubmitted.Terminal())
	assert.True(t, status.StatusCompleted.Terminal())
	assert.True(t, status.StatusCancelled.Terminal())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []status.Status{
		status.StatusDraft,
		status.StatusSubmitted,
		status.StatusCompleted,
		status.StatusCancelled,
	} {
		parsed, err := status.ParseStatus(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := status.ParseStatus("Shipped")
	assert.ErrorIs(t, err, status.ErrInvalidStatus)
}
