package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(retries int) Options {
	return Options{Timeout: 5 * time.Second, MaxRetries: retries, BaseDelay: time.Millisecond}
}

// TestJobEnd_RetriesTransientErrors tests that retryable failures are attempted again
func TestJobEnd_RetriesTransientErrors(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "index", 1, fastOptions(3))
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls, "should succeed on the third attempt")
}

// TestJobEnd_StopsOnPermanentError tests that permanent errors are not retried
func TestJobEnd_StopsOnPermanentError(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "summary", 0, fastOptions(5))
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		return Permanent(errors.New("no utterances"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, ErrPermanent)
}

// TestJobEnd_ExhaustsRetries tests the error after the last attempt
func TestJobEnd_ExhaustsRetries(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "asr", 0, fastOptions(2))
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("429 too many requests")
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "max retries (2) exceeded")
}

// TestJobEnd_RecoversPanic tests that a panicking job becomes an error
func TestJobEnd_RecoversPanic(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "index", 0, fastOptions(3))
	defer cancel()

	err := JobEnd(ctx, func(ctx context.Context) error {
		panic("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered: boom")
}

func TestJobMetadata(t *testing.T) {
	id := uuid.New()
	ctx, cancel := JobBegin(context.Background(), id, "summary", 7, Options{})
	defer cancel()

	meta := GetJobMetadata(ctx)
	assert.Equal(t, id, meta.MeetingID)
	assert.Equal(t, "summary", meta.Stage)
	assert.Equal(t, 7, meta.WorkerID)
	assert.Equal(t, DefaultMaxRetries, meta.MaxRetries)
	assert.False(t, meta.StartTime.IsZero())
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, 5*time.Second, CalculateBackoff(0, 5*time.Second))
	assert.Equal(t, 20*time.Second, CalculateBackoff(2, 5*time.Second))
	assert.Equal(t, 60*time.Second, CalculateBackoff(10, 5*time.Second))
	assert.Equal(t, 60*time.Second, CalculateBackoff(40, 5*time.Second))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(errors.New("dial tcp: connection refused")))
	assert.True(t, IsRetryableError(context.DeadlineExceeded))
	assert.False(t, IsRetryableError(context.Canceled))
	assert.False(t, IsRetryableError(errors.New("invalid json")))
	assert.False(t, IsRetryableError(Permanent(errors.New("status 503"))))
	assert.False(t, IsRetryableError(nil))
}
