package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is the key-value contract shared by the Redis and in-memory caches
type Store interface {
	// Get returns the value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl. A zero ttl keeps the key until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Acquire takes a short lived lock and returns the holder token. It
	// returns false when another holder has it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)

	// Release drops the lock only while token still holds it
	Release(ctx context.Context, key, token string) error

	Close() error
}

// SummaryKey is the cache key for a meeting's summary payload
func SummaryKey(meetingID uuid.UUID) string {
	return fmt.Sprintf("summary:%s", meetingID)
}

// IndexLockKey serialises indexing runs for one meeting
func IndexLockKey(meetingID uuid.UUID) string {
	return fmt.Sprintf("lock:index:%s", meetingID)
}

// SummaryLockKey serialises summarisation runs for one meeting
func SummaryLockKey(meetingID uuid.UUID) string {
	return fmt.Sprintf("lock:summary:%s", meetingID)
}

// SubmitLockKey serialises ASR submissions for one meeting
func SubmitLockKey(meetingID uuid.UUID) string {
	return fmt.Sprintf("lock:asr:%s", meetingID)
}
