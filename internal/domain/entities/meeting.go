package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus is the lifecycle state of a meeting
type MeetingStatus string

const (
	MeetingStatusUploaded   MeetingStatus = "uploaded"    // Media stored, waiting for ASR submission
	MeetingStatusASRStarted MeetingStatus = "asr_started" // Submitted to the ASR provider
	MeetingStatusASRDone    MeetingStatus = "asr_done"    // Utterances stored
	MeetingStatusIndexed    MeetingStatus = "indexed"     // Transcript chunks embedded
	MeetingStatusSummarized MeetingStatus = "summarized"  // Summary stored
	MeetingStatusError      MeetingStatus = "error"       // A stage failed, see Meeting.Error
)

// MeetingStatuses lists every valid status in pipeline order
var MeetingStatuses = []MeetingStatus{
	MeetingStatusUploaded,
	MeetingStatusASRStarted,
	MeetingStatusASRDone,
	MeetingStatusIndexed,
	MeetingStatusSummarized,
	MeetingStatusError,
}

// ParseMeetingStatus validates a raw status string
func ParseMeetingStatus(s string) (MeetingStatus, error) {
	status := MeetingStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidMeetingStatus
	}
	return status, nil
}

// IsValid reports whether s is one of the enumerated statuses
func (s MeetingStatus) IsValid() bool {
	return s.rank() >= 0
}

// rank orders the forward states; error sits outside the order
func (s MeetingStatus) rank() int {
	switch s {
	case MeetingStatusUploaded:
		return 0
	case MeetingStatusASRStarted:
		return 1
	case MeetingStatusASRDone:
		return 2
	case MeetingStatusIndexed:
		return 3
	case MeetingStatusSummarized:
		return 4
	case MeetingStatusError:
		return 5
	default:
		return -1
	}
}

// CanTransitionTo reports whether moving from s to next is a real transition.
// Forward moves may skip stages, error is reachable from anywhere and a retry
// may resume from error at any stage after upload.
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	if !s.IsValid() || !next.IsValid() || s == next {
		return false
	}
	switch next {
	case MeetingStatusError:
		return true
	case MeetingStatusUploaded:
		return false
	}
	if s == MeetingStatusError {
		return true
	}
	return next.rank() > s.rank()
}

// Predecessors returns every status that may transition to s
func (s MeetingStatus) Predecessors() []MeetingStatus {
	out := make([]MeetingStatus, 0, len(MeetingStatuses))
	for _, from := range MeetingStatuses {
		if from.CanTransitionTo(s) {
			out = append(out, from)
		}
	}
	return out
}

// HasTranscript reports whether utterances are expected to exist
func (s MeetingStatus) HasTranscript() bool {
	switch s {
	case MeetingStatusASRDone, MeetingStatusIndexed, MeetingStatusSummarized:
		return true
	default:
		return false
	}
}

// Meeting is the root aggregate; every other record cascades from it
type Meeting struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title     string        `json:"title" gorm:"type:text;not null"`
	VideoURL  *string       `json:"video_url,omitempty" gorm:"type:text"`
	Consent   bool          `json:"consent" gorm:"not null;default:false"`
	Status    MeetingStatus `json:"status" gorm:"type:text;not null;default:'uploaded';index"`
	Error     *string       `json:"error,omitempty" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting in the uploaded state
func NewMeeting(title string, consent bool) *Meeting {
	now := time.Now()
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		Consent:   consent,
		Status:    MeetingStatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MeetingStats is the per-meeting record count used by detail views
type MeetingStats struct {
	Utterances int64 `json:"utterances"`
	Chunks     int64 `json:"chunks"`
	Files      int64 `json:"files"`
	AsrJobs    int64 `json:"asr_jobs"`
	HasSummary bool  `json:"has_summary"`
}
