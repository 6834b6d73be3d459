package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
)

const insertBatchSize = 200

type utteranceRepository struct {
	db *gorm.DB
}

// NewUtteranceRepository creates a new utterance repository
func NewUtteranceRepository(db *gorm.DB) repositories.UtteranceRepository {
	return &utteranceRepository{db: db}
}

func (r *utteranceRepository) ReplaceForMeeting(ctx context.Context, meetingID uuid.UUID, utterances []entities.Utterance) error {
	for i := range utterances {
		utterances[i].MeetingID = meetingID
		if err := utterances[i].Validate(); err != nil {
			return err
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&entities.Utterance{}).Error; err != nil {
			return err
		}
		if len(utterances) == 0 {
			return nil
		}
		return tx.CreateInBatches(utterances, insertBatchSize).Error
	})
}

func (r *utteranceRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID, filter entities.UtteranceFilter) ([]entities.Utterance, error) {
	query := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID)

	if filter.Speaker != "" {
		query = query.Where("speaker = ?", filter.Speaker)
	}
	if filter.Start != nil {
		query = query.Where("end_seconds >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("start_seconds <= ?", *filter.End)
	}
	if filter.Query != "" {
		query = query.Where("text ILIKE ?", "%"+filter.Query+"%")
	}

	var utterances []entities.Utterance
	if err := query.Order("start_seconds ASC, id ASC").Find(&utterances).Error; err != nil {
		return nil, err
	}
	return utterances, nil
}

type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) repositories.SummaryRepository {
	return &summaryRepository{db: db}
}

// Upsert writes the payload with ON CONFLICT so a meeting never has two summaries
func (r *summaryRepository) Upsert(ctx context.Context, summary *entities.Summary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}

	payload, err := summary.Payload.MarshalJSON()
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO summaries (meeting_id, payload, model, created_at, updated_at)
		VALUES (?, ?::jsonb, ?, now(), now())
		ON CONFLICT (meeting_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			model = EXCLUDED.model,
			updated_at = now()
	`, summary.MeetingID, string(payload), summary.Model).Error
}

func (r *summaryRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	var summary entities.Summary
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}
