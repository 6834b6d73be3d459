package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Utterance is a single diarized speaker turn
type Utterance struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID    uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Speaker      string    `json:"speaker" gorm:"type:text;not null"`
	StartSeconds float64   `json:"start_seconds" gorm:"not null"`
	EndSeconds   float64   `json:"end_seconds" gorm:"not null"`
	Text         string    `json:"text" gorm:"type:text;not null"`
	Confidence   *float64  `json:"confidence,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Utterance) TableName() string {
	return "utterances"
}

// Validate checks the time range of an utterance
func (u *Utterance) Validate() error {
	if u.StartSeconds < 0 || u.EndSeconds < u.StartSeconds {
		return fmt.Errorf("%w: start=%.2f end=%.2f", ErrInvalidTimeRange, u.StartSeconds, u.EndSeconds)
	}
	return nil
}

// UtteranceFilter narrows utterance listings
type UtteranceFilter struct {
	Speaker string
	// Start and End select utterances overlapping [Start, End]
	Start *float64
	End   *float64
	// Query is a case-insensitive substring match on text
	Query string
}

// FormatTranscript renders utterances as "[12.34s] SPEAKER: text" lines
func FormatTranscript(utts []Utterance) string {
	var b strings.Builder
	for i, u := range utts {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%.2fs] %s: %s", u.StartSeconds, u.Speaker, u.Text)
	}
	return b.String()
}
