package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
)

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&entities.Meeting{})
	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}

	var meetings []*entities.Meeting
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *meetingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus, errMsg *string) (bool, error) {
	if !status.IsValid() {
		return false, entities.ErrInvalidMeetingStatus
	}

	preds := status.Predecessors()
	if len(preds) == 0 {
		return false, nil
	}
	from := make([]string, 0, len(preds))
	for _, p := range preds {
		from = append(from, string(p))
	}

	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
		"error":      nil,
	}
	if status == entities.MeetingStatusError {
		updates["error"] = errMsg
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *meetingRepository) UpdateVideoURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"video_url":  url,
			"updated_at": time.Now(),
		}).Error
}

func (r *meetingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Meeting{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *meetingRepository) Stats(ctx context.Context, id uuid.UUID) (*entities.MeetingStats, error) {
	stats := &entities.MeetingStats{}
	db := r.db.WithContext(ctx)

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&entities.Utterance{}, &stats.Utterances},
		{&entities.Chunk{}, &stats.Chunks},
		{&entities.File{}, &stats.Files},
		{&entities.AsrJob{}, &stats.AsrJobs},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where("meeting_id = ?", id).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var summaries int64
	if err := db.Model(&entities.Summary{}).Where("meeting_id = ?", id).Count(&summaries).Error; err != nil {
		return nil, err
	}
	stats.HasSummary = summaries > 0

	return stats, nil
}
