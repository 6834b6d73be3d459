package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/storage"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	"github.com/johnquangdev/meeting-intel/internal/usecase/lifecycle"
	"github.com/johnquangdev/meeting-intel/pkg/ai"
)

// SummarySystemPrompt asks for the summary as strict JSON
const SummarySystemPrompt = `You write concise minutes for meeting transcripts.
Reply with one JSON object and nothing else. Use exactly these keys:
- "overview": a short paragraph
- "key_points": array of strings
- "decisions": array of strings
- "action_items": array of objects with "owner", "task", "due" and "timestamp" (seconds into the meeting where it was raised)
Only use facts stated in the transcript. Use empty arrays when nothing applies.
A visual narration of the recording may follow the transcript. Use it only as context for what was shown.`

// DefaultSummaryMaxChars bounds the transcript sent to the model
const DefaultSummaryMaxChars = 60000

// ArtifactStore writes JSON artifacts to object storage
type ArtifactStore interface {
	UploadJSON(ctx context.Context, objectName string, content []byte) (int64, error)
}

// NarrationSource supplies the narration of a meeting video
type NarrationSource interface {
	Ensure(ctx context.Context, meetingID uuid.UUID) (*entities.Narration, error)
}

// SummarizerConfig tunes the Summarizer
type SummarizerConfig struct {
	MaxChars     int
	CacheTTL     time.Duration
	IndexSummary bool
}

// SummarizerDeps groups the Summarizer collaborators
type SummarizerDeps struct {
	Meetings   repositories.MeetingRepository
	Utterances repositories.UtteranceRepository
	Summaries  repositories.SummaryRepository
	Files      repositories.FileRepository
	Artifacts  ArtifactStore
	Cache      cache.Store
	Generator  ai.Generator
	// Narrations is optional. When set, summaries of videos also see what was on screen.
	Narrations NarrationSource
	Indexer    *Indexer
	Lifecycle  *lifecycle.Transitioner
	Metrics    *metrics.PipelineMetrics
	Logger     *zap.Logger
}

// Summarizer produces and serves structured meeting summaries
type Summarizer struct {
	deps SummarizerDeps
	cfg  SummarizerConfig
}

// NewSummarizer creates a Summarizer
func NewSummarizer(deps SummarizerDeps, cfg SummarizerConfig) *Summarizer {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultSummaryMaxChars
	}
	return &Summarizer{deps: deps, cfg: cfg}
}

// BuildTranscript renders utterances as "[mm:ss] SPEAKER: text" lines and
// stops before maxChars. The bool reports whether lines were dropped.
func BuildTranscript(utts []entities.Utterance, maxChars int) (string, bool) {
	var b strings.Builder
	runes := 0
	for _, u := range utts {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}
		line := fmt.Sprintf("[%s] %s: %s", FormatTime(u.StartSeconds), u.Speaker, text)
		n := utf8.RuneCountInString(line)
		if maxChars > 0 && runes+n+1 > maxChars {
			return b.String(), true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			runes++
		}
		b.WriteString(line)
		runes += n
	}
	return b.String(), false
}

// Summarize generates the meeting summary, stores it and advances the
// meeting to summarized
func (s *Summarizer) Summarize(ctx context.Context, meetingID uuid.UUID) (*entities.SummaryPayload, error) {
	meeting, err := s.deps.Meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, entities.ErrMeetingNotFound
	}

	started := time.Now()
	narration := s.narration(ctx, meetingID)

	var payload *entities.SummaryPayload
	err = WithLock(ctx, s.deps.Cache, cache.SummaryLockKey(meetingID), DefaultLockTTL, func() error {
		var runErr error
		payload, runErr = s.summarize(ctx, meetingID, narration)
		return runErr
	})
	s.deps.Metrics.ObserveStage("summarize", started, err)
	if err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Error("❌ Summarization failed",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if s.deps.Lifecycle != nil {
		if _, err := s.deps.Lifecycle.Advance(ctx, meetingID, entities.MeetingStatusSummarized); err != nil {
			return nil, err
		}
	}

	if s.cfg.IndexSummary && s.deps.Indexer != nil {
		if _, err := s.deps.Indexer.Index(ctx, meetingID, entities.ChunkSourceSummary); err != nil && s.deps.Logger != nil {
			s.deps.Logger.Warn("⚠️ Failed to index summary",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Info("✅ Meeting summarized",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("key_points", len(payload.KeyPoints)),
			zap.Int("decisions", len(payload.Decisions)),
			zap.Int("action_items", len(payload.ActionItems)),
			zap.Duration("duration", time.Since(started)),
		)
	}
	return payload, nil
}

// narration renders the video narration for the prompt. Narration is best
// effort and an empty string means the summary uses the transcript alone.
func (s *Summarizer) narration(ctx context.Context, meetingID uuid.UUID) string {
	if s.deps.Narrations == nil {
		return ""
	}
	n, err := s.deps.Narrations.Ensure(ctx, meetingID)
	if err != nil {
		if s.deps.Logger != nil {
			level := s.deps.Logger.Warn
			if errors.Is(err, usecaseErrors.ErrInvalidInput) {
				level = s.deps.Logger.Debug
			}
			level("⚠️ Summarizing without narration",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
		return ""
	}
	return RenderNarration(n.Windows, s.cfg.MaxChars)
}

func (s *Summarizer) summarize(ctx context.Context, meetingID uuid.UUID, narration string) (*entities.SummaryPayload, error) {
	utts, err := s.deps.Utterances.ListByMeeting(ctx, meetingID, entities.UtteranceFilter{})
	if err != nil {
		return nil, err
	}

	transcript, truncated := BuildTranscript(utts, s.cfg.MaxChars)
	if transcript == "" {
		return nil, entities.ErrTranscriptUnavailable
	}
	if truncated && s.deps.Logger != nil {
		s.deps.Logger.Warn("✂️ Transcript truncated for summary",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("max_chars", s.cfg.MaxChars),
		)
	}

	user := "Transcript:\n" + transcript
	if narration != "" {
		user += "\n\nVisual narration:\n" + narration
	}

	content, err := s.deps.Generator.Generate(ctx, SummarySystemPrompt, user)
	s.deps.Metrics.ObserveProvider("llm", "summarize", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrSummarization, err)
	}

	payload, err := ParseSummary(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrSummarization, err)
	}

	summary := entities.NewSummary(meetingID, *payload, s.deps.Generator.Model())
	if err := s.deps.Summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	s.invalidate(ctx, meetingID)

	s.storeArtifact(ctx, meetingID, payload)

	return payload, nil
}

// storeArtifact keeps a JSON copy of the summary in object storage. The
// summary row is the source of truth so failures are only logged.
func (s *Summarizer) storeArtifact(ctx context.Context, meetingID uuid.UUID, payload *entities.SummaryPayload) {
	if s.deps.Artifacts == nil || s.deps.Files == nil {
		return
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err == nil {
		path := storage.SummaryPath(meetingID)
		var size int64
		size, err = s.deps.Artifacts.UploadJSON(ctx, path, body)
		if err == nil {
			mime := "application/json"
			err = s.deps.Files.Replace(ctx, &entities.File{
				MeetingID: meetingID,
				Path:      path,
				Kind:      entities.FileKindSummary,
				SizeBytes: &size,
				MimeType:  &mime,
			})
		}
	}

	if err != nil && s.deps.Logger != nil {
		s.deps.Logger.Warn("⚠️ Failed to store summary artifact",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
}

// Get returns the stored summary, served from cache when possible
func (s *Summarizer) Get(ctx context.Context, meetingID uuid.UUID) (*entities.SummaryPayload, error) {
	key := cache.SummaryKey(meetingID)

	if s.deps.Cache != nil {
		if raw, ok, err := s.deps.Cache.Get(ctx, key); err == nil && ok {
			var payload entities.SummaryPayload
			if err := json.Unmarshal(raw, &payload); err == nil {
				payload.Normalize()
				return &payload, nil
			}
		} else if err != nil && s.deps.Logger != nil {
			s.deps.Logger.Warn("⚠️ Summary cache read failed", zap.Error(err))
		}
	}

	summary, err := s.deps.Summaries.FindByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		meeting, err := s.deps.Meetings.FindByID(ctx, meetingID)
		if err != nil {
			return nil, err
		}
		if meeting == nil {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, entities.ErrSummaryNotFound
	}

	payload := summary.Payload.Data()
	payload.Normalize()

	if s.deps.Cache != nil {
		if raw, err := json.Marshal(payload); err == nil {
			if err := s.deps.Cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil && s.deps.Logger != nil {
				s.deps.Logger.Warn("⚠️ Summary cache write failed", zap.Error(err))
			}
		}
	}
	return &payload, nil
}

// Invalidate drops the cached summary of a meeting
func (s *Summarizer) Invalidate(ctx context.Context, meetingID uuid.UUID) {
	s.invalidate(ctx, meetingID)
}

func (s *Summarizer) invalidate(ctx context.Context, meetingID uuid.UUID) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Delete(ctx, cache.SummaryKey(meetingID)); err != nil && s.deps.Logger != nil {
		s.deps.Logger.Warn("⚠️ Summary cache invalidation failed",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
}
