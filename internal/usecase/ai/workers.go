package ai

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
)

// ProcessIndexing indexes the transcripts of asr_done meetings. It returns
// how many meetings were indexed.
func (s *pipelineService) ProcessIndexing(ctx context.Context, workerID int) int {
	if s.indexer == nil {
		return 0
	}
	return s.processStage(ctx, workerID, "index",
		[]entities.MeetingStatus{entities.MeetingStatusASRDone},
		func(ctx context.Context, meetingID uuid.UUID) error {
			_, err := s.indexer.Index(ctx, meetingID, entities.ChunkSourceTranscript)
			return err
		})
}

// ProcessSummaries summarizes indexed meetings, and asr_done ones when
// automatic indexing is off. It returns how many meetings were summarized.
func (s *pipelineService) ProcessSummaries(ctx context.Context, workerID int) int {
	if s.summarizer == nil {
		return 0
	}
	statuses := []entities.MeetingStatus{entities.MeetingStatusIndexed}
	if !s.cfg.AutoIndex {
		statuses = append(statuses, entities.MeetingStatusASRDone)
	}
	return s.processStage(ctx, workerID, "summarize", statuses,
		func(ctx context.Context, meetingID uuid.UUID) error {
			_, err := s.summarizer.Summarize(ctx, meetingID)
			return err
		})
}

func (s *pipelineService) processStage(
	ctx context.Context,
	workerID int,
	stage string,
	statuses []entities.MeetingStatus,
	run func(context.Context, uuid.UUID) error,
) int {
	done := 0
	for _, status := range statuses {
		status := status
		meetings, err := s.meetings.List(ctx, repositories.MeetingFilters{Status: &status, Limit: s.batchSize})
		if err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to poll meetings",
					zap.String("stage", stage),
					zap.Int("worker_id", workerID),
					zap.Error(err),
				)
			}
			continue
		}

		for _, m := range meetings {
			// Another worker may have finished it since the listing
			current, err := s.meetings.FindByID(ctx, m.ID)
			if err != nil || current == nil || current.Status != status {
				continue
			}

			if s.logger != nil {
				s.logger.Info("👷 Worker picked meeting",
					zap.String("stage", stage),
					zap.Int("worker_id", workerID),
					zap.String("meeting_id", m.ID.String()),
				)
			}

			meetingID := m.ID
			if s.runJob(ctx, meetingID, stage, workerID, func(ctx context.Context) error {
				return run(ctx, meetingID)
			}) {
				done++
			}
		}
	}
	return done
}
