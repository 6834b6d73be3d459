package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// List retrieves recent meetings, newest first
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, error)

	// TransitionStatus moves a meeting to status only if its current status
	// is an allowed predecessor. Returns false when no row changed.
	TransitionStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus, errMsg *string) (bool, error)

	// UpdateVideoURL sets the media URL
	UpdateVideoURL(ctx context.Context, id uuid.UUID, url string) error

	// Delete removes a meeting; dependents go with it through FK cascades
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Stats counts the dependents of a meeting
	Stats(ctx context.Context, id uuid.UUID) (*entities.MeetingStats, error)
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	Status *entities.MeetingStatus
	Limit  int
	Offset int
}
