package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AsrJobStatus mirrors the provider's transcript status
type AsrJobStatus string

const (
	AsrJobStatusQueued     AsrJobStatus = "queued"
	AsrJobStatusProcessing AsrJobStatus = "processing"
	AsrJobStatusCompleted  AsrJobStatus = "completed"
	AsrJobStatusError      AsrJobStatus = "error"
)

// IsTerminal reports whether the provider is done with the job
func (s AsrJobStatus) IsTerminal() bool {
	return s == AsrJobStatusCompleted || s == AsrJobStatusError
}

const AsrProviderAssemblyAI = "assemblyai"

// AsrJob tracks one transcription request at the provider.
// ID is the provider's job id.
type AsrJob struct {
	ID          string         `json:"id" gorm:"type:text;primaryKey"`
	MeetingID   uuid.UUID      `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Provider    string         `json:"provider" gorm:"type:text;not null"`
	CallbackURL *string        `json:"callback_url,omitempty" gorm:"type:text"`
	Status      AsrJobStatus   `json:"status" gorm:"type:text;not null;default:'queued';index"`
	Error       *string        `json:"error,omitempty" gorm:"type:text"`
	Raw         datatypes.JSON `json:"raw,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (AsrJob) TableName() string {
	return "asr_jobs"
}

// NewAsrJob creates a queued job for the provider job id
func NewAsrJob(providerJobID string, meetingID uuid.UUID, provider string, callbackURL string) *AsrJob {
	job := &AsrJob{
		ID:        providerJobID,
		MeetingID: meetingID,
		Provider:  provider,
		Status:    AsrJobStatusQueued,
	}
	if callbackURL != "" {
		job.CallbackURL = &callbackURL
	}
	return job
}
