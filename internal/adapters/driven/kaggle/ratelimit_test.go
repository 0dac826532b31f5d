package kaggle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	r := NewRateLimiter(1, 2)

	assert.True(t, r.Allow())
	assert.True(t, r.Allow())
	assert.False(t, r.Allow())
}

func TestRateLimiter_RecordRateLimitError(t *testing.T) {
	r := NewRateLimiter(100, 10)

	r.RecordRateLimitError(time.Minute)

	assert.False(t, r.Allow())
}

func TestRateLimiter_RecordRateLimitError_DefaultBackoff(t *testing.T) {
	r := NewRateLimiter(100, 10)

	r.RecordRateLimitError(0)

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(defaultBackoff), retryAt, time.Second)
}

func TestRateLimiter_Wait_RespectsContextDuringBackoff(t *testing.T) {
	r := NewRateLimiter(100, 10)
	r.RecordRateLimitError(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Wait(t *testing.T) {
	r := NewRateLimiter(100, 1)

	assert.NoError(t, r.Wait(context.Background()))
}
