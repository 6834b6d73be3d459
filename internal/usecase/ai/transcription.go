package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	"github.com/johnquangdev/meeting-intel/internal/usecase/rag"
	pkgai "github.com/johnquangdev/meeting-intel/pkg/ai"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

// submitLockTTL covers presigning plus the provider's submit retries
const submitLockTTL = 2 * time.Minute

// unknownSpeaker labels segments the provider did not diarize
const unknownSpeaker = "UNKNOWN"

func canSubmit(status entities.MeetingStatus) bool {
	return status == entities.MeetingStatusUploaded || status == entities.MeetingStatusError
}

// Transcribe submits the meeting's upload to the ASR provider
func (s *pipelineService) Transcribe(ctx context.Context, meetingID uuid.UUID) (*entities.AsrJob, error) {
	meeting, err := s.findMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !canSubmit(meeting.Status) {
		return nil, apperrors.ErrInvalidStateTransition(
			meetingID.String(), string(meeting.Status), string(entities.MeetingStatusASRStarted))
	}
	return s.submit(ctx, meetingID)
}

// submit presigns the upload, queues it at the provider, records the job and
// moves the meeting to asr_started. The status is checked again under the
// lock so two callers never submit the same meeting.
func (s *pipelineService) submit(ctx context.Context, meetingID uuid.UUID) (*entities.AsrJob, error) {
	started := time.Now()
	var job *entities.AsrJob

	err := rag.WithLock(ctx, s.locks, cache.SubmitLockKey(meetingID), submitLockTTL, func() error {
		meeting, err := s.findMeeting(ctx, meetingID)
		if err != nil {
			return err
		}
		if !canSubmit(meeting.Status) {
			return fmt.Errorf("%w: meeting is %s", usecaseErrors.ErrConflict, meeting.Status)
		}

		objectName, err := s.uploadObject(ctx, meeting)
		if err != nil {
			return err
		}

		s.uploadSemaphore <- struct{}{}
		defer func() { <-s.uploadSemaphore }()

		audioURL, err := s.media.GetFileURL(ctx, objectName)
		if err != nil {
			return fmt.Errorf("%w: %w", usecaseErrors.ErrStorage, err)
		}

		result, err := s.transcriber.Submit(ctx, audioURL)
		s.metrics.ObserveProvider("assemblyai", "submit", err)
		if err != nil {
			return fmt.Errorf("%w: %w", usecaseErrors.ErrTranscription, err)
		}

		// A webhook that beats this insert finds no job and is acked; the
		// poll worker picks the transcript up instead.
		job = entities.NewAsrJob(result.ID, meetingID, entities.AsrProviderAssemblyAI, s.transcriber.WebhookURL())
		if err := s.asrJobs.Create(ctx, job); err != nil {
			return fmt.Errorf("failed to record ASR job: %w", err)
		}

		_, err = s.lifecycle.Advance(ctx, meetingID, entities.MeetingStatusASRStarted)
		return err
	})
	s.metrics.ObserveStage("asr_submit", started, err)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcription job submitted",
			zap.String("meeting_id", meetingID.String()),
			zap.String("transcript_id", job.ID),
		)
	}
	return job, nil
}

// uploadObject is the object key of the meeting's media. Ingest sets the
// meeting's video URL before its file row exists, so it is the fallback.
func (s *pipelineService) uploadObject(ctx context.Context, meeting *entities.Meeting) (string, error) {
	file, err := s.files.LatestByKind(ctx, meeting.ID, entities.FileKindUpload)
	if err != nil {
		return "", fmt.Errorf("failed to find upload: %w", err)
	}
	if file != nil {
		return file.Path, nil
	}
	if meeting.VideoURL != nil && *meeting.VideoURL != "" {
		return *meeting.VideoURL, nil
	}
	return "", fmt.Errorf("%w: meeting has no uploaded media", usecaseErrors.ErrInvalidInput)
}

// HandleWebhook processes an AssemblyAI callback. Unknown and already
// finished jobs are acknowledged so the provider stops retrying.
func (s *pipelineService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !pkgai.VerifyWebhook(s.secret, payload, signature) {
		if s.logger != nil {
			s.logger.Warn("🚫 Rejected webhook with invalid signature")
		}
		return usecaseErrors.ErrUnauthorized
	}

	event, err := pkgai.ParseWebhook(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", usecaseErrors.ErrInvalidInput, err)
	}

	if s.logger != nil {
		s.logger.Info("📥 Received AssemblyAI webhook",
			zap.String("transcript_id", event.TranscriptID),
			zap.String("status", event.Status),
		)
	}

	job, err := s.asrJobs.FindByID(ctx, event.TranscriptID)
	if err != nil {
		return fmt.Errorf("failed to find ASR job: %w", err)
	}
	if job == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ ASR job not found for webhook",
				zap.String("transcript_id", event.TranscriptID),
			)
		}
		return nil
	}
	if job.Status.IsTerminal() {
		return nil
	}

	switch event.Status {
	case pkgai.TranscriptStatusCompleted, pkgai.TranscriptStatusError:
		// The callback carries no utterances, fetch the full transcript
		result, err := s.transcriber.Get(ctx, job.ID)
		s.metrics.ObserveProvider("assemblyai", "get", err)
		if err != nil {
			return fmt.Errorf("%w: %w", usecaseErrors.ErrTranscription, err)
		}
		return s.handleTranscript(ctx, job, result)
	default:
		return s.markProgress(ctx, job, event.Status)
	}
}

// handleTranscript applies a fetched transcript to its job and meeting.
// Webhooks and the poll worker both land here.
func (s *pipelineService) handleTranscript(ctx context.Context, job *entities.AsrJob, result *pkgai.TranscriptResult) error {
	if job.Status.IsTerminal() {
		return nil
	}

	switch result.Status {
	case pkgai.TranscriptStatusCompleted:
		return s.completeTranscript(ctx, job, result)
	case pkgai.TranscriptStatusError:
		msg := result.Error
		if msg == "" {
			msg = "provider reported an error"
		}
		return s.failTranscript(ctx, job, msg, result.Raw)
	default:
		return s.markProgress(ctx, job, result.Status)
	}
}

func (s *pipelineService) completeTranscript(ctx context.Context, job *entities.AsrJob, result *pkgai.TranscriptResult) error {
	utts := make([]entities.Utterance, 0, len(result.Segments))
	for _, seg := range result.Segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = unknownSpeaker
		}
		utts = append(utts, entities.Utterance{
			MeetingID:    job.MeetingID,
			Speaker:      speaker,
			StartSeconds: seg.Start,
			EndSeconds:   seg.End,
			Text:         seg.Text,
			Confidence:   seg.Confidence,
		})
	}
	if len(utts) == 0 {
		return s.failTranscript(ctx, job, "transcript has no utterances", result.Raw)
	}

	if err := s.utterances.ReplaceForMeeting(ctx, job.MeetingID, utts); err != nil {
		return fmt.Errorf("failed to store utterances: %w", err)
	}
	if err := s.asrJobs.UpdateStatus(ctx, job.ID, entities.AsrJobStatusCompleted, nil, result.Raw); err != nil {
		return fmt.Errorf("failed to complete ASR job: %w", err)
	}
	job.Status = entities.AsrJobStatusCompleted

	if _, err := s.lifecycle.Advance(ctx, job.MeetingID, entities.MeetingStatusASRDone); err != nil {
		return err
	}
	s.metrics.ObserveStage("asr", job.CreatedAt, nil)

	if s.logger != nil {
		s.logger.Info("✅ Transcript stored",
			zap.String("meeting_id", job.MeetingID.String()),
			zap.String("transcript_id", job.ID),
			zap.Int("utterances", len(utts)),
		)
	}
	return nil
}

func (s *pipelineService) failTranscript(ctx context.Context, job *entities.AsrJob, msg string, raw []byte) error {
	if err := s.asrJobs.UpdateStatus(ctx, job.ID, entities.AsrJobStatusError, &msg, raw); err != nil {
		return fmt.Errorf("failed to mark ASR job failed: %w", err)
	}
	job.Status = entities.AsrJobStatusError

	cause := fmt.Errorf("%w: %s", usecaseErrors.ErrTranscription, msg)
	s.metrics.ObserveStage("asr", job.CreatedAt, cause)
	if _, err := s.lifecycle.Fail(ctx, job.MeetingID, cause); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Error("❌ AssemblyAI reported error",
			zap.String("meeting_id", job.MeetingID.String()),
			zap.String("transcript_id", job.ID),
			zap.String("error", msg),
		)
	}
	return nil
}

// markProgress records a queued job moving to processing, or just bumps
// updated_at so the poller waits another interval
func (s *pipelineService) markProgress(ctx context.Context, job *entities.AsrJob, status string) error {
	if status == pkgai.TranscriptStatusProcessing && job.Status == entities.AsrJobStatusQueued {
		if err := s.asrJobs.UpdateStatus(ctx, job.ID, entities.AsrJobStatusProcessing, nil, nil); err != nil {
			return fmt.Errorf("failed to update ASR job: %w", err)
		}
		job.Status = entities.AsrJobStatusProcessing
		return nil
	}
	return s.asrJobs.Touch(ctx, job.ID)
}

// ProcessUploads submits every uploaded meeting. It returns how many were submitted.
func (s *pipelineService) ProcessUploads(ctx context.Context) int {
	status := entities.MeetingStatusUploaded
	meetings, err := s.meetings.List(ctx, repositories.MeetingFilters{Status: &status, Limit: s.batchSize})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to poll uploaded meetings", zap.Error(err))
		}
		return 0
	}

	submitted := 0
	for _, m := range meetings {
		meetingID := m.ID
		ok := s.runJob(ctx, meetingID, "asr_submit", 0, func(ctx context.Context) error {
			_, err := s.submit(ctx, meetingID)
			return err
		})
		if ok {
			submitted++
		}
	}
	return submitted
}

// PollTranscripts checks jobs whose webhook has not arrived. It returns how
// many jobs were polled successfully.
func (s *pipelineService) PollTranscripts(ctx context.Context) int {
	jobs, err := s.asrJobs.ListStale(ctx, time.Now().Add(-s.cfg.ASRPollAfter), s.batchSize)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to query stale ASR jobs", zap.Error(err))
		}
		return 0
	}

	polled := 0
	for i := range jobs {
		job := &jobs[i]

		if s.logger != nil {
			s.logger.Info("🔍 Polling AssemblyAI for stale job",
				zap.String("transcript_id", job.ID),
				zap.String("meeting_id", job.MeetingID.String()),
				zap.Duration("stale_for", time.Since(job.UpdatedAt)),
			)
		}

		jobCtx, cancel := jobcontext.JobBegin(ctx, job.MeetingID, "asr_poll", 0, s.jobOptions())
		err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
			result, err := s.transcriber.Get(ctx, job.ID)
			s.metrics.ObserveProvider("assemblyai", "get", err)
			if err != nil {
				return markPermanent(err)
			}
			return s.handleTranscript(ctx, job, result)
		})
		cancel()

		if err != nil {
			// Provider errors may be temporary; wait another interval
			if s.logger != nil {
				s.logger.Error("❌ Failed to poll AssemblyAI",
					zap.String("transcript_id", job.ID),
					zap.Error(err),
				)
			}
			if touchErr := s.asrJobs.Touch(ctx, job.ID); touchErr != nil && s.logger != nil {
				s.logger.Warn("⚠️ Failed to touch ASR job", zap.String("transcript_id", job.ID), zap.Error(touchErr))
			}
			continue
		}
		polled++
	}
	return polled
}

func (s *pipelineService) findMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if meeting == nil {
		return nil, entities.ErrMeetingNotFound
	}
	return meeting, nil
}

func (s *pipelineService) jobOptions() jobcontext.Options {
	return jobcontext.Options{
		Timeout:    s.cfg.JobTimeout,
		MaxRetries: s.cfg.MaxRetries,
	}
}

// runJob runs one retried worker job for a meeting stage and settles it.
// It reports whether the job succeeded.
func (s *pipelineService) runJob(ctx context.Context, meetingID uuid.UUID, stage string, workerID int, fn func(context.Context) error) bool {
	jobCtx, cancel := jobcontext.JobBegin(ctx, meetingID, stage, workerID, s.jobOptions())
	defer cancel()

	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		return markPermanent(fn(ctx))
	})
	return s.finishJob(jobCtx, err)
}

// markPermanent flags errors that another attempt cannot fix
func markPermanent(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, entities.ErrTranscriptUnavailable),
		errors.Is(err, entities.ErrMeetingNotFound),
		errors.Is(err, entities.ErrInvalidSource),
		errors.Is(err, entities.ErrDimensionMismatch),
		errors.Is(err, pkgai.ErrDimensionMismatch),
		errors.Is(err, usecaseErrors.ErrInvalidInput),
		errors.Is(err, usecaseErrors.ErrBusy),
		errors.Is(err, usecaseErrors.ErrConflict):
		return jobcontext.Permanent(err)
	}
	if code := pkgai.HTTPStatus(err); code >= 400 && !pkgai.Retryable(code) {
		return jobcontext.Permanent(err)
	}
	return err
}

// finishJob settles a worker job. Runs skipped because another holder has
// the meeting are not failures; anything else moves the meeting to error.
// It reports whether the job succeeded.
func (s *pipelineService) finishJob(jobCtx context.Context, err error) bool {
	meta := jobcontext.GetJobMetadata(jobCtx)
	fields := []zap.Field{
		zap.String("meeting_id", meta.MeetingID.String()),
		zap.String("stage", meta.Stage),
		zap.Int("worker_id", meta.WorkerID),
		zap.Duration("elapsed", time.Since(meta.StartTime)),
	}

	if err == nil {
		if s.logger != nil {
			s.logger.Info("✅ Job finished", fields...)
		}
		return true
	}

	if errors.Is(err, usecaseErrors.ErrBusy) || errors.Is(err, usecaseErrors.ErrConflict) {
		if s.logger != nil {
			s.logger.Debug("⏭️ Meeting already claimed", fields...)
		}
		return false
	}

	if s.logger != nil {
		s.logger.Error("❌ Job failed",
			append(fields,
				zap.Int("max_retries", meta.MaxRetries),
				zap.Bool("permanent", errors.Is(err, jobcontext.ErrPermanent)),
				zap.Error(err),
			)...,
		)
	}
	cause := fmt.Errorf("%s: %w", meta.Stage, err)
	if _, failErr := s.lifecycle.Fail(context.WithoutCancel(jobCtx), meta.MeetingID, cause); failErr != nil && s.logger != nil {
		s.logger.Error("❌ Failed to mark meeting as failed",
			zap.String("meeting_id", meta.MeetingID.String()),
			zap.Error(failErr),
		)
	}
	return false
}
