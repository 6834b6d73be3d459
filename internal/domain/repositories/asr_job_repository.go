package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// AsrJobRepository defines persistence for provider transcription jobs
type AsrJobRepository interface {
	// Create records a submitted job
	Create(ctx context.Context, job *entities.AsrJob) error

	// FindByID retrieves a job by provider job id, nil when absent
	FindByID(ctx context.Context, id string) (*entities.AsrJob, error)

	// ListStale returns non-terminal jobs not updated since before
	ListStale(ctx context.Context, before time.Time, limit int) ([]entities.AsrJob, error)

	// UpdateStatus sets status, error message and raw provider payload
	UpdateStatus(ctx context.Context, id string, status entities.AsrJobStatus, errMsg *string, raw []byte) error

	// Touch bumps updated_at so the poller waits another interval
	Touch(ctx context.Context, id string) error
}

// FileRepository defines persistence for stored artifact metadata
type FileRepository interface {
	// Create records a stored object
	Create(ctx context.Context, file *entities.File) error

	// Replace records file as the only one of its kind for the meeting
	Replace(ctx context.Context, file *entities.File) error

	// ListByMeeting returns the meeting's files, newest first; empty kind means all
	ListByMeeting(ctx context.Context, meetingID uuid.UUID, kind entities.FileKind) ([]entities.File, error)

	// LatestByKind returns the newest file of kind, nil when absent
	LatestByKind(ctx context.Context, meetingID uuid.UUID, kind entities.FileKind) (*entities.File, error)
}
