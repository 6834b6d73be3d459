package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	val, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	require.NoError(t, store.Set(ctx, "forever", []byte("v"), 0))

	time.Sleep(30 * time.Millisecond)

	_, ok, _ := store.Get(ctx, "short")
	assert.False(t, ok, "expired key should be gone")
	_, ok, _ = store.Get(ctx, "forever")
	assert.True(t, ok, "zero ttl should not expire")
}

// TestMemoryStore_Acquire tests that a lock has a single holder until released
func TestMemoryStore_Acquire(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	key := IndexLockKey(uuid.New())

	token, ok, err := store.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = store.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while held")

	require.NoError(t, store.Release(ctx, key, token))

	_, ok, err = store.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestMemoryStore_ReleaseChecksToken tests that a stale holder cannot drop a newer lock
func TestMemoryStore_ReleaseChecksToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	key := IndexLockKey(uuid.New())

	stale, ok, err := store.Acquire(ctx, key, 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	current, ok, err := store.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, stale, current)

	require.NoError(t, store.Release(ctx, key, stale))
	_, ok, _ = store.Acquire(ctx, key, time.Minute)
	assert.False(t, ok, "stale release must keep the current lock")

	require.NoError(t, store.Release(ctx, key, current))
	_, ok, _ = store.Acquire(ctx, key, time.Minute)
	assert.True(t, ok)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	in := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", in, 0))
	in[0] = 'X'

	out, _, _ := store.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), out)
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "summary:11111111-2222-3333-4444-555555555555", SummaryKey(id))
	assert.Equal(t, "lock:summary:11111111-2222-3333-4444-555555555555", SummaryLockKey(id))
}
