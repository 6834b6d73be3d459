package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// UtteranceRepository defines persistence for diarized utterances
type UtteranceRepository interface {
	// ReplaceForMeeting swaps the meeting's utterances in one transaction
	ReplaceForMeeting(ctx context.Context, meetingID uuid.UUID, utterances []entities.Utterance) error

	// ListByMeeting returns utterances ordered by start time
	ListByMeeting(ctx context.Context, meetingID uuid.UUID, filter entities.UtteranceFilter) ([]entities.Utterance, error)
}

// ChunkRepository defines persistence and similarity search for chunks
type ChunkRepository interface {
	// ReplaceForMeeting deletes the meeting's chunks of source and inserts chunks
	ReplaceForMeeting(ctx context.Context, meetingID uuid.UUID, source entities.ChunkSource, chunks []entities.Chunk) error

	// ListByMeeting returns chunks ordered by start time; empty source means all
	ListByMeeting(ctx context.Context, meetingID uuid.UUID, source entities.ChunkSource) ([]entities.Chunk, error)

	// MatchChunks returns up to k embedded chunks of the meeting ordered by
	// ascending cosine distance to query, ties broken by chunk id
	MatchChunks(ctx context.Context, meetingID uuid.UUID, query []float32, k int, filter entities.ChunkFilter) ([]entities.MatchedChunk, error)

	// Dimension is the vector size the store was configured with
	Dimension() int

	// ColumnDimension reads the declared dimension of the embedding column
	ColumnDimension(ctx context.Context) (int, error)
}

// SummaryRepository defines persistence for meeting summaries
type SummaryRepository interface {
	// Upsert inserts or replaces the meeting's summary
	Upsert(ctx context.Context, summary *entities.Summary) error

	// FindByMeetingID retrieves the summary, nil when absent
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error)
}
