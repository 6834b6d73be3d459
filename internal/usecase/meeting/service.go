package meeting

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// Service defines the interface for meeting business logic
type Service interface {
	// Ingest stores an uploaded media file and creates the meeting for it
	Ingest(ctx context.Context, input IngestInput) (*entities.Meeting, error)

	// List returns recent meetings, newest first
	List(ctx context.Context, input ListInput) ([]*entities.Meeting, error)

	// Get returns a meeting with its record counts
	Get(ctx context.Context, meetingID uuid.UUID) (*Detail, error)

	// Delete removes a meeting, its records and its stored objects
	Delete(ctx context.Context, meetingID uuid.UUID) error

	// Utterances lists a meeting's utterances matching the filter
	Utterances(ctx context.Context, meetingID uuid.UUID, filter entities.UtteranceFilter) ([]entities.Utterance, error)

	// Transcript renders the full transcript as text
	Transcript(ctx context.Context, meetingID uuid.UUID) (string, error)

	// Files lists stored artifacts with presigned download URLs
	Files(ctx context.Context, meetingID uuid.UUID, kind entities.FileKind) ([]FileLink, error)
}

// ObjectStore is the part of object storage the meeting service needs
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (int64, error)
	GetFileURL(ctx context.Context, objectName string) (string, error)
	RemovePrefix(ctx context.Context, prefix string) (int, error)
}

// IngestInput represents input for ingesting a media upload
type IngestInput struct {
	Title       string
	Consent     bool
	Filename    string
	ContentType string
	// Size may be -1 when the length is unknown
	Size   int64
	Reader io.Reader
}

// ListInput represents input for listing meetings
type ListInput struct {
	Status *entities.MeetingStatus
	Limit  int
}

// Detail is a meeting with its dependent record counts
type Detail struct {
	*entities.Meeting
	Stats entities.MeetingStats `json:"stats"`
}

// FileLink is file metadata plus a short lived download URL
type FileLink struct {
	entities.File
	URL string `json:"url,omitempty"`
}
