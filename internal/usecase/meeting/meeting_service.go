package meeting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/storage"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
)

const (
	// DefaultListLimit is used when a listing does not ask for a size
	DefaultListLimit = 10
	// MaxListLimit caps a single listing
	MaxListLimit = 100
	// DefaultTitle names meetings uploaded without one
	DefaultTitle = "Untitled meeting"
)

// MeetingService implements Service
type MeetingService struct {
	meetings   repositories.MeetingRepository
	utterances repositories.UtteranceRepository
	files      repositories.FileRepository
	objects    ObjectStore
	cache      cache.Store
	logger     *zap.Logger
}

var _ Service = (*MeetingService)(nil)

// NewMeetingService creates a new meeting service. cache may be nil.
func NewMeetingService(
	meetings repositories.MeetingRepository,
	utterances repositories.UtteranceRepository,
	files repositories.FileRepository,
	objects ObjectStore,
	store cache.Store,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		meetings:   meetings,
		utterances: utterances,
		files:      files,
		objects:    objects,
		cache:      store,
		logger:     logger,
	}
}

// Ingest uploads the media before creating any rows, so the upload worker
// never sees a meeting without its upload file.
func (s *MeetingService) Ingest(ctx context.Context, input IngestInput) (*entities.Meeting, error) {
	if input.Reader == nil {
		return nil, fmt.Errorf("%w: file is required", usecaseErrors.ErrInvalidInput)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = DefaultTitle
	}
	meeting := entities.NewMeeting(title, input.Consent)

	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := storage.UploadPath(meeting.ID, input.Filename)

	size, err := s.objects.UploadFile(ctx, objectName, input.Reader, input.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrStorage, err)
	}

	meeting.VideoURL = &objectName
	if err := s.meetings.Create(ctx, meeting); err != nil {
		s.discardUpload(ctx, meeting.ID)
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	if err := s.files.Create(ctx, &entities.File{
		MeetingID: meeting.ID,
		Path:      objectName,
		Kind:      entities.FileKindUpload,
		SizeBytes: &size,
		MimeType:  &contentType,
	}); err != nil {
		s.discardMeeting(ctx, meeting.ID)
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Meeting ingested",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("object", objectName),
			zap.Int64("size", size),
			zap.Bool("consent", meeting.Consent),
		)
	}

	return meeting, nil
}

// discardMeeting rolls back a half-ingested meeting so the upload worker
// never picks up a row without its upload file
func (s *MeetingService) discardMeeting(ctx context.Context, meetingID uuid.UUID) {
	if _, err := s.meetings.Delete(context.WithoutCancel(ctx), meetingID); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to remove half-ingested meeting",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
	s.discardUpload(ctx, meetingID)
}

func (s *MeetingService) discardUpload(ctx context.Context, meetingID uuid.UUID) {
	if _, err := s.objects.RemovePrefix(context.WithoutCancel(ctx), meetingID.String()+"/"); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to remove orphaned upload",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
}

// List returns recent meetings
func (s *MeetingService) List(ctx context.Context, input ListInput) ([]*entities.Meeting, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, entities.ErrInvalidMeetingStatus
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	meetings, err := s.meetings.List(ctx, repositories.MeetingFilters{
		Status: input.Status,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// Get returns a meeting with its record counts
func (s *MeetingService) Get(ctx context.Context, meetingID uuid.UUID) (*Detail, error) {
	meeting, err := s.find(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	stats, err := s.meetings.Stats(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to count meeting records: %w", err)
	}

	return &Detail{Meeting: meeting, Stats: *stats}, nil
}

// Delete removes the meeting rows first. Object and cache cleanup is best
// effort; a leftover object is harmless once its rows are gone.
func (s *MeetingService) Delete(ctx context.Context, meetingID uuid.UUID) error {
	deleted, err := s.meetings.Delete(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if !deleted {
		return entities.ErrMeetingNotFound
	}

	removed, err := s.objects.RemovePrefix(ctx, meetingID.String()+"/")
	if err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to remove meeting objects",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.SummaryKey(meetingID)); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to drop cached summary",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("🗑️ Meeting deleted",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("objects_removed", removed),
		)
	}
	return nil
}

// Utterances lists utterances, ordered by start time
func (s *MeetingService) Utterances(ctx context.Context, meetingID uuid.UUID, filter entities.UtteranceFilter) ([]entities.Utterance, error) {
	if filter.Start != nil && filter.End != nil && *filter.Start > *filter.End {
		return nil, fmt.Errorf("%w: start is after end", entities.ErrInvalidTimeRange)
	}
	if _, err := s.find(ctx, meetingID); err != nil {
		return nil, err
	}

	filter.Speaker = strings.TrimSpace(filter.Speaker)
	filter.Query = strings.TrimSpace(filter.Query)

	utts, err := s.utterances.ListByMeeting(ctx, meetingID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list utterances: %w", err)
	}
	if utts == nil {
		utts = []entities.Utterance{}
	}
	return utts, nil
}

// Transcript renders every utterance of the meeting
func (s *MeetingService) Transcript(ctx context.Context, meetingID uuid.UUID) (string, error) {
	if _, err := s.find(ctx, meetingID); err != nil {
		return "", err
	}

	utts, err := s.utterances.ListByMeeting(ctx, meetingID, entities.UtteranceFilter{})
	if err != nil {
		return "", fmt.Errorf("failed to list utterances: %w", err)
	}
	if len(utts) == 0 {
		return "", entities.ErrTranscriptUnavailable
	}
	return entities.FormatTranscript(utts), nil
}

// Files lists stored artifacts. A file whose URL cannot be signed is still
// listed, without a URL.
func (s *MeetingService) Files(ctx context.Context, meetingID uuid.UUID, kind entities.FileKind) ([]FileLink, error) {
	if kind != "" && !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown file kind %q", usecaseErrors.ErrInvalidInput, kind)
	}
	if _, err := s.find(ctx, meetingID); err != nil {
		return nil, err
	}

	files, err := s.files.ListByMeeting(ctx, meetingID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	links := make([]FileLink, 0, len(files))
	for _, f := range files {
		link := FileLink{File: f}
		if f.PublicURL != nil {
			link.URL = *f.PublicURL
		} else if url, err := s.objects.GetFileURL(ctx, f.Path); err == nil {
			link.URL = url
		} else if s.logger != nil {
			s.logger.Warn("⚠️ Failed to presign file",
				zap.Int64("file_id", f.ID),
				zap.String("path", f.Path),
				zap.Error(err),
			)
		}
		links = append(links, link)
	}
	return links, nil
}

func (s *MeetingService) find(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if meeting == nil {
		return nil, entities.ErrMeetingNotFound
	}
	return meeting, nil
}
