package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	"github.com/johnquangdev/meeting-intel/internal/usecase/lifecycle"
	"github.com/johnquangdev/meeting-intel/pkg/ai"
)

// DefaultLockTTL bounds how long a crashed run can block the next one
const DefaultLockTTL = 15 * time.Minute

// IndexResult reports one indexing run
type IndexResult struct {
	MeetingID uuid.UUID            `json:"meeting_id"`
	Source    entities.ChunkSource `json:"source"`
	Inserted  int                  `json:"inserted"`
}

// Indexer chunks a meeting's transcript or summary, embeds the chunks and
// replaces the stored ones
type Indexer struct {
	meetings   repositories.MeetingRepository
	utterances repositories.UtteranceRepository
	summaries  repositories.SummaryRepository
	chunks     repositories.ChunkRepository
	embedder   ai.Embedder
	locks      cache.Store
	lifecycle  *lifecycle.Transitioner
	metrics    *metrics.PipelineMetrics
	maxChars   int
	lockTTL    time.Duration
	logger     *zap.Logger
}

// IndexerDeps groups the Indexer collaborators
type IndexerDeps struct {
	Meetings   repositories.MeetingRepository
	Utterances repositories.UtteranceRepository
	Summaries  repositories.SummaryRepository
	Chunks     repositories.ChunkRepository
	Embedder   ai.Embedder
	Locks      cache.Store
	Lifecycle  *lifecycle.Transitioner
	Metrics    *metrics.PipelineMetrics
	Logger     *zap.Logger
}

// NewIndexer creates an Indexer. maxChars bounds transcript chunks.
func NewIndexer(deps IndexerDeps, maxChars int) *Indexer {
	if maxChars <= 0 {
		maxChars = DefaultChunkMaxChars
	}
	return &Indexer{
		meetings:   deps.Meetings,
		utterances: deps.Utterances,
		summaries:  deps.Summaries,
		chunks:     deps.Chunks,
		embedder:   deps.Embedder,
		locks:      deps.Locks,
		lifecycle:  deps.Lifecycle,
		metrics:    deps.Metrics,
		maxChars:   maxChars,
		lockTTL:    DefaultLockTTL,
		logger:     deps.Logger,
	}
}

// Index rebuilds the meeting's chunks for source. Indexing the transcript
// advances the meeting to indexed; a meeting already past that stays put.
func (ix *Indexer) Index(ctx context.Context, meetingID uuid.UUID, source entities.ChunkSource) (*IndexResult, error) {
	if source == "" {
		source = entities.ChunkSourceTranscript
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: %s", entities.ErrInvalidSource, source)
	}

	meeting, err := ix.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, entities.ErrMeetingNotFound
	}

	started := time.Now()
	var result *IndexResult
	err = WithLock(ctx, ix.locks, cache.IndexLockKey(meetingID), ix.lockTTL, func() error {
		var runErr error
		result, runErr = ix.index(ctx, meetingID, source)
		return runErr
	})
	ix.metrics.ObserveStage("index_"+string(source), started, err)
	if err != nil {
		if ix.logger != nil {
			ix.logger.Error("❌ Indexing failed",
				zap.String("meeting_id", meetingID.String()),
				zap.String("source", string(source)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if source == entities.ChunkSourceTranscript && ix.lifecycle != nil {
		if _, err := ix.lifecycle.Advance(ctx, meetingID, entities.MeetingStatusIndexed); err != nil {
			return nil, err
		}
	}

	if ix.logger != nil {
		ix.logger.Info("✅ Meeting indexed",
			zap.String("meeting_id", meetingID.String()),
			zap.String("source", string(source)),
			zap.Int("chunks", result.Inserted),
			zap.Duration("duration", time.Since(started)),
		)
	}
	return result, nil
}

func (ix *Indexer) index(ctx context.Context, meetingID uuid.UUID, source entities.ChunkSource) (*IndexResult, error) {
	chunks, err := ix.buildChunks(ctx, meetingID, source)
	if err != nil {
		return nil, err
	}

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = chunks[i].Text
		}

		vectors, err := ix.embedder.Embed(ctx, texts)
		ix.metrics.ObserveProvider("embeddings", "embed", err)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrEmbedding, err)
		}
		if len(vectors) != len(chunks) {
			return nil, fmt.Errorf("%w: expected %d vectors, got %d", usecaseErrors.ErrEmbedding, len(chunks), len(vectors))
		}

		for i := range chunks {
			v := pgvector.NewVector(vectors[i])
			chunks[i].Embedding = &v
		}
	}

	if err := ix.chunks.ReplaceForMeeting(ctx, meetingID, source, chunks); err != nil {
		return nil, err
	}
	ix.metrics.ObserveIndexed(string(source), len(chunks))

	return &IndexResult{MeetingID: meetingID, Source: source, Inserted: len(chunks)}, nil
}

func (ix *Indexer) buildChunks(ctx context.Context, meetingID uuid.UUID, source entities.ChunkSource) ([]entities.Chunk, error) {
	switch source {
	case entities.ChunkSourceSummary:
		summary, err := ix.summaries.FindByMeetingID(ctx, meetingID)
		if err != nil {
			return nil, err
		}
		if summary == nil {
			return nil, entities.ErrSummaryNotFound
		}
		return ChunkSummary(summary.Payload.Data()), nil

	default:
		utts, err := ix.utterances.ListByMeeting(ctx, meetingID, entities.UtteranceFilter{})
		if err != nil {
			return nil, err
		}
		if len(utts) == 0 {
			return nil, entities.ErrTranscriptUnavailable
		}
		return ChunkUtterances(utts, ix.maxChars), nil
	}
}

// WithLock runs fn while holding key. A nil store runs fn unguarded.
func WithLock(ctx context.Context, locks cache.Store, key string, ttl time.Duration, fn func() error) error {
	if locks == nil {
		return fn()
	}

	token, ok, err := locks.Acquire(ctx, key, ttl)
	if err != nil {
		return fmt.Errorf("%w: acquire %s: %w", usecaseErrors.ErrCache, key, err)
	}
	if !ok {
		return usecaseErrors.ErrBusy
	}
	defer locks.Release(context.WithoutCancel(ctx), key, token)

	return fn()
}
