package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
)

type asrJobRepository struct {
	db *gorm.DB
}

// NewAsrJobRepository creates a new ASR job repository
func NewAsrJobRepository(db *gorm.DB) repositories.AsrJobRepository {
	return &asrJobRepository{db: db}
}

func (r *asrJobRepository) Create(ctx context.Context, job *entities.AsrJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *asrJobRepository) FindByID(ctx context.Context, id string) (*entities.AsrJob, error) {
	var job entities.AsrJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *asrJobRepository) ListStale(ctx context.Context, before time.Time, limit int) ([]entities.AsrJob, error) {
	if limit <= 0 {
		limit = 100
	}
	var jobs []entities.AsrJob
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", []string{
			string(entities.AsrJobStatusQueued),
			string(entities.AsrJobStatusProcessing),
		}, before).
		Order("updated_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *asrJobRepository) UpdateStatus(ctx context.Context, id string, status entities.AsrJobStatus, errMsg *string, raw []byte) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"error":      errMsg,
		"updated_at": time.Now(),
	}
	if len(raw) > 0 {
		updates["raw"] = datatypes.JSON(raw)
	}
	return r.db.WithContext(ctx).
		Model(&entities.AsrJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *asrJobRepository) Touch(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entities.AsrJob{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file metadata repository
func NewFileRepository(db *gorm.DB) repositories.FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *entities.File) error {
	if file == nil {
		return errors.New("file cannot be nil")
	}
	if !file.Kind.IsValid() {
		return errors.New("invalid file kind")
	}
	return r.db.WithContext(ctx).Create(file).Error
}

// Replace drops earlier rows of the same kind so re-generated artifacts keep one row
func (r *fileRepository) Replace(ctx context.Context, file *entities.File) error {
	if file == nil {
		return errors.New("file cannot be nil")
	}
	if !file.Kind.IsValid() {
		return errors.New("invalid file kind")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ? AND kind = ?", file.MeetingID, string(file.Kind)).
			Delete(&entities.File{}).Error; err != nil {
			return err
		}
		return tx.Create(file).Error
	})
}

func (r *fileRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID, kind entities.FileKind) ([]entities.File, error) {
	query := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID)
	if kind != "" {
		query = query.Where("kind = ?", string(kind))
	}
	var files []entities.File
	if err := query.Order("created_at DESC, id DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepository) LatestByKind(ctx context.Context, meetingID uuid.UUID, kind entities.FileKind) (*entities.File, error) {
	var file entities.File
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND kind = ?", meetingID, string(kind)).
		Order("created_at DESC, id DESC").
		First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}
