package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ChunkSource tells where a chunk's text came from
type ChunkSource string

const (
	ChunkSourceTranscript ChunkSource = "transcript"
	ChunkSourceSummary    ChunkSource = "summary"
)

// IsValid reports whether s is a known source
func (s ChunkSource) IsValid() bool {
	return s == ChunkSourceTranscript || s == ChunkSourceSummary
}

// Topic tags written by the chunker
const (
	ChunkTopicASR        = "asr"
	ChunkTopicOverview   = "overview"
	ChunkTopicKeyPoint   = "key_point"
	ChunkTopicDecision   = "decision"
	ChunkTopicActionItem = "action_item"

	SummarySpeaker = "SUMMARY"
)

// DefaultMatchCount is K when the caller does not set one
const DefaultMatchCount = 5

// Chunk is a retrieval unit with an optional embedding
type Chunk struct {
	ID           int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID    uuid.UUID        `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Speaker      *string          `json:"speaker,omitempty" gorm:"type:text"`
	StartSeconds float64          `json:"start_seconds" gorm:"not null"`
	EndSeconds   float64          `json:"end_seconds" gorm:"not null"`
	Topic        *string          `json:"topic,omitempty" gorm:"type:text"`
	Text         string           `json:"text" gorm:"type:text;not null"`
	Source       ChunkSource      `json:"source" gorm:"type:text;not null;default:'transcript'"`
	Embedding    *pgvector.Vector `json:"-" gorm:"type:vector"`
	CreatedAt    time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Chunk) TableName() string {
	return "chunks"
}

// SpeakerLabel returns the speaker or an empty string
func (c *Chunk) SpeakerLabel() string {
	if c.Speaker == nil {
		return ""
	}
	return *c.Speaker
}

// MatchedChunk is a chunk row returned by similarity search
type MatchedChunk struct {
	Chunk
	Similarity float64 `json:"similarity"`
}

// ChunkFilter narrows similarity search inside one meeting
type ChunkFilter struct {
	Speaker string
	// TimeStart and TimeEnd keep chunks overlapping the window
	TimeStart *float64
	TimeEnd   *float64
	Source    ChunkSource
}
