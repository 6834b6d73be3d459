package rag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-intel/internal/testutil"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	"github.com/johnquangdev/meeting-intel/internal/usecase/lifecycle"
)

func newTestIndexer(t *testing.T, db *testutil.DB, embedder *testutil.Embedder, locks cache.Store) *Indexer {
	t.Helper()
	m := metrics.NewNoopMetrics()
	return NewIndexer(IndexerDeps{
		Meetings:   db.Meetings,
		Utterances: db.Utterances,
		Summaries:  db.Summaries,
		Chunks:     db.Chunks,
		Embedder:   embedder,
		Locks:      locks,
		Lifecycle:  lifecycle.NewTransitioner(db.Meetings, m, nil),
		Metrics:    m,
	}, 20)
}

func TestIndexer_Transcript(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(2)
	embedder := &testutil.Embedder{Dim: 2}
	ix := newTestIndexer(t, db, embedder, nil)

	meeting := db.AddMeeting(entities.MeetingStatusASRDone)
	require.NoError(t, db.Utterances.ReplaceForMeeting(ctx, meeting.ID, []entities.Utterance{
		utt("A", 0, 2, "hello there"),
		utt("B", 2, 4, "hi"),
		utt("B", 6, 9, "let's start"),
	}))

	result, err := ix.Index(ctx, meeting.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entities.ChunkSourceTranscript, result.Source)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, entities.MeetingStatusIndexed, db.Status(meeting.ID))

	chunks, err := db.Chunks.ListByMeeting(ctx, meeting.ID, entities.ChunkSourceTranscript)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		require.NotNil(t, c.Embedding)
		assert.Len(t, c.Embedding.Slice(), 2)
	}

	// A second run replaces rather than appends
	_, err = ix.Index(ctx, meeting.ID, entities.ChunkSourceTranscript)
	require.NoError(t, err)
	chunks, _ = db.Chunks.ListByMeeting(ctx, meeting.ID, "")
	assert.Len(t, chunks, 2)
}

func TestIndexer_ReindexKeepsLaterStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(2)
	ix := newTestIndexer(t, db, &testutil.Embedder{Dim: 2}, nil)

	meeting := db.AddMeeting(entities.MeetingStatusSummarized)
	require.NoError(t, db.Utterances.ReplaceForMeeting(ctx, meeting.ID, []entities.Utterance{utt("A", 0, 1, "x")}))

	_, err := ix.Index(ctx, meeting.ID, entities.ChunkSourceTranscript)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusSummarized, db.Status(meeting.ID))
}

func TestIndexer_Summary(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(2)
	ix := newTestIndexer(t, db, &testutil.Embedder{Dim: 2}, nil)

	meeting := db.AddMeeting(entities.MeetingStatusSummarized)
	require.NoError(t, db.Summaries.Upsert(ctx, entities.NewSummary(meeting.ID, entities.SummaryPayload{
		Overview:  "o",
		Decisions: []string{"d1", "d2"},
	}, "m")))

	result, err := ix.Index(ctx, meeting.ID, entities.ChunkSourceSummary)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)

	chunks, _ := db.Chunks.ListByMeeting(ctx, meeting.ID, entities.ChunkSourceSummary)
	require.Len(t, chunks, 3)
	assert.Equal(t, entities.SummarySpeaker, chunks[0].SpeakerLabel())
}

func TestIndexer_Errors(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(2)
	embedder := &testutil.Embedder{Dim: 2}
	ix := newTestIndexer(t, db, embedder, nil)

	_, err := ix.Index(ctx, uuid.New(), entities.ChunkSourceTranscript)
	assert.ErrorIs(t, err, entities.ErrMeetingNotFound)

	meeting := db.AddMeeting(entities.MeetingStatusASRDone)

	_, err = ix.Index(ctx, meeting.ID, entities.ChunkSource("slides"))
	assert.ErrorIs(t, err, entities.ErrInvalidSource)

	_, err = ix.Index(ctx, meeting.ID, entities.ChunkSourceTranscript)
	assert.ErrorIs(t, err, entities.ErrTranscriptUnavailable)

	_, err = ix.Index(ctx, meeting.ID, entities.ChunkSourceSummary)
	assert.ErrorIs(t, err, entities.ErrSummaryNotFound)

	require.NoError(t, db.Utterances.ReplaceForMeeting(ctx, meeting.ID, []entities.Utterance{utt("A", 0, 1, "x")}))
	embedder.Err = errors.New("quota")
	_, err = ix.Index(ctx, meeting.ID, entities.ChunkSourceTranscript)
	assert.ErrorIs(t, err, usecaseErrors.ErrEmbedding)
	assert.Equal(t, entities.MeetingStatusASRDone, db.Status(meeting.ID))
}

func TestIndexer_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(2)
	ix := newTestIndexer(t, db, &testutil.Embedder{Dim: 3, Default: []float32{1, 0, 0}}, nil)

	meeting := db.AddMeeting(entities.MeetingStatusASRDone)
	require.NoError(t, db.Utterances.ReplaceForMeeting(ctx, meeting.ID, []entities.Utterance{utt("A", 0, 1, "x")}))

	_, err := ix.Index(ctx, meeting.ID, entities.ChunkSourceTranscript)
	assert.ErrorIs(t, err, entities.ErrDimensionMismatch)
}

func TestIndexer_LockHeld(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(2)
	locks := cache.NewMemoryStore()
	defer locks.Close()
	ix := newTestIndexer(t, db, &testutil.Embedder{Dim: 2}, locks)

	meeting := db.AddMeeting(entities.MeetingStatusASRDone)
	require.NoError(t, db.Utterances.ReplaceForMeeting(ctx, meeting.ID, []entities.Utterance{utt("A", 0, 1, "x")}))

	token, ok, err := locks.Acquire(ctx, cache.IndexLockKey(meeting.ID), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = ix.Index(ctx, meeting.ID, entities.ChunkSourceTranscript)
	assert.ErrorIs(t, err, usecaseErrors.ErrBusy)

	require.NoError(t, locks.Release(ctx, cache.IndexLockKey(meeting.ID), token))
	_, err = ix.Index(ctx, meeting.ID, entities.ChunkSourceTranscript)
	assert.NoError(t, err)

	// The run released its lock
	_, ok, _ = locks.Acquire(ctx, cache.IndexLockKey(meeting.ID), time.Minute)
	assert.True(t, ok)
}

func TestWithLock_KeepsLockTakenAfterExpiry(t *testing.T) {
	ctx := context.Background()
	locks := cache.NewMemoryStore()
	defer locks.Close()
	key := cache.IndexLockKey(uuid.New())

	var otherToken string
	err := WithLock(ctx, locks, key, 10*time.Millisecond, func() error {
		time.Sleep(30 * time.Millisecond)
		var ok bool
		var err error
		otherToken, ok, err = locks.Acquire(ctx, key, time.Minute)
		require.NoError(t, err)
		require.True(t, ok, "expired lock should be free")
		return nil
	})
	require.NoError(t, err)

	// The first holder's release must not drop the second holder's lock
	_, ok, err := locks.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locks.Release(ctx, key, otherToken))
	_, ok, _ = locks.Acquire(ctx, key, time.Minute)
	assert.True(t, ok)
}

type brokenLocks struct {
	*cache.MemoryStore
}

func (brokenLocks) Acquire(context.Context, string, time.Duration) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestWithLock_AcquireFailureIsCacheError(t *testing.T) {
	locks := brokenLocks{cache.NewMemoryStore()}
	defer locks.Close()

	called := false
	err := WithLock(context.Background(), locks, "lock:x", time.Minute, func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, usecaseErrors.ErrCache)
	assert.False(t, called)
}
