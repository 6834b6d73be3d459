package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
)

// Transitioner persists meeting status changes through the status machine
type Transitioner struct {
	meetings repositories.MeetingRepository
	metrics  *metrics.PipelineMetrics
	logger   *zap.Logger
}

// NewTransitioner creates a Transitioner
func NewTransitioner(meetings repositories.MeetingRepository, m *metrics.PipelineMetrics, logger *zap.Logger) *Transitioner {
	return &Transitioner{
		meetings: meetings,
		metrics:  m,
		logger:   logger,
	}
}

// Advance moves the meeting to status when the move is allowed.
// A move to the current or an earlier state is a no-op and returns false.
// It also returns false when another writer changed the row first.
func (t *Transitioner) Advance(ctx context.Context, meetingID uuid.UUID, status entities.MeetingStatus) (bool, error) {
	return t.transition(ctx, meetingID, status, nil)
}

// Fail moves the meeting to error, recording cause as its message
func (t *Transitioner) Fail(ctx context.Context, meetingID uuid.UUID, cause error) (bool, error) {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return t.transition(ctx, meetingID, entities.MeetingStatusError, &msg)
}

func (t *Transitioner) transition(ctx context.Context, meetingID uuid.UUID, status entities.MeetingStatus, errMsg *string) (bool, error) {
	if !status.IsValid() {
		return false, fmt.Errorf("%w: %s", entities.ErrInvalidMeetingStatus, status)
	}

	meeting, err := t.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return false, err
	}
	if meeting == nil {
		return false, entities.ErrMeetingNotFound
	}

	if !meeting.Status.CanTransitionTo(status) {
		if t.logger != nil {
			t.logger.Debug("⏭️ Status unchanged",
				zap.String("meeting_id", meetingID.String()),
				zap.String("current", string(meeting.Status)),
				zap.String("requested", string(status)),
			)
		}
		return false, nil
	}

	changed, err := t.meetings.TransitionStatus(ctx, meetingID, status, errMsg)
	if err != nil {
		return false, err
	}
	if !changed {
		if t.logger != nil {
			t.logger.Info("⏭️ Meeting already moved by another worker",
				zap.String("meeting_id", meetingID.String()),
				zap.String("requested", string(status)),
			)
		}
		return false, nil
	}

	t.metrics.ObserveTransition(string(status))

	if t.logger != nil {
		fields := []zap.Field{
			zap.String("meeting_id", meetingID.String()),
			zap.String("from", string(meeting.Status)),
			zap.String("to", string(status)),
		}
		if errMsg != nil {
			t.logger.Warn("❌ Meeting moved to error", append(fields, zap.String("error", *errMsg))...)
		} else {
			t.logger.Info("✅ Meeting status updated", fields...)
		}
	}

	return true, nil
}
