package meeting

import (
	"time"

	"github.com/google/uuid"
)

// IngestResponse is returned after an upload is stored
type IngestResponse struct {
	MeetingID uuid.UUID `json:"meeting_id"`
}

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Consent   bool      `json:"consent"`
	Status    string    `json:"status"`
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatsResponse counts what a meeting owns
type StatsResponse struct {
	Utterances int64 `json:"utterances"`
	Chunks     int64 `json:"chunks"`
	Files      int64 `json:"files"`
	AsrJobs    int64 `json:"asr_jobs"`
	HasSummary bool  `json:"has_summary"`
}

// MeetingDetailResponse is a meeting with its counts
type MeetingDetailResponse struct {
	MeetingResponse
	Stats StatsResponse `json:"stats"`
}

// ListMeetingsResponse wraps a meeting listing
type ListMeetingsResponse struct {
	Items []MeetingResponse `json:"items"`
}

// UtteranceItem is one transcript turn
type UtteranceItem struct {
	Speaker      string  `json:"speaker"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Text         string  `json:"text"`
}

// UtterancesResponse wraps an utterance listing
type UtterancesResponse struct {
	Items []UtteranceItem `json:"items"`
}

// TranscriptResponse is the rendered transcript of a meeting
type TranscriptResponse struct {
	MeetingID  uuid.UUID `json:"meeting_id"`
	Transcript string    `json:"transcript"`
}

// FileResponse is stored file metadata with a download link
type FileResponse struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	SizeBytes *int64    `json:"size_bytes,omitempty"`
	MimeType  *string   `json:"mime_type,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FilesResponse wraps a file listing
type FilesResponse struct {
	Items []FileResponse `json:"items"`
}

// TranscribeResponse describes a submitted ASR job
type TranscribeResponse struct {
	MeetingID uuid.UUID `json:"meeting_id"`
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
}
