package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/storage"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	"github.com/johnquangdev/meeting-intel/pkg/ai"
)

// DefaultNarrationWindow is the span in seconds one narration entry covers
const DefaultNarrationWindow = 30

// NarrationPrompt asks for a window-by-window description as JSON
func NarrationPrompt(windowSeconds int) string {
	return fmt.Sprintf(`Watch this meeting recording and describe it in consecutive windows of %d seconds.
For each window say what is visible (people, slides, screens, whiteboards, on-screen text) and what is heard.
Write [inaudible] where speech cannot be made out. Do not invent names or facts.
Reply with one JSON object and nothing else:
{"windows": [{"start": <seconds>, "end": <seconds>, "text": "<description>"}]}`, windowSeconds)
}

type narrationResponse struct {
	Windows []struct {
		Start flexibleTimestamp `json:"start"`
		End   flexibleTimestamp `json:"end"`
		Text  string            `json:"text"`
	} `json:"windows"`
}

// ParseNarration extracts narration windows from a model reply. Blank
// windows are dropped and the rest are ordered by start time.
func ParseNarration(content string) ([]entities.NarrationWindow, error) {
	var raw narrationResponse
	if err := json.Unmarshal([]byte(extractJSON(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	out := make([]entities.NarrationWindow, 0, len(raw.Windows))
	for _, w := range raw.Windows {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		win := entities.NarrationWindow{Text: text}
		if w.Start.value != nil {
			win.Start = *w.Start.value
		}
		if w.End.value != nil {
			win.End = *w.End.value
		}
		if win.End < win.Start {
			win.End = win.Start
		}
		out = append(out, win)
	}
	if len(out) == 0 {
		return nil, errors.New("narration has no content")
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// RenderNarration writes windows as "[mm:ss–mm:ss] text" lines, stopping
// before maxChars when it is positive
func RenderNarration(windows []entities.NarrationWindow, maxChars int) string {
	var b strings.Builder
	runes := 0
	for _, w := range windows {
		line := fmt.Sprintf("[%s–%s] %s", FormatTime(w.Start), FormatTime(w.End), w.Text)
		n := utf8.RuneCountInString(line)
		if maxChars > 0 && runes+n+1 > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			runes++
		}
		b.WriteString(line)
		runes += n
	}
	return b.String()
}

// MediaReader streams stored objects
type MediaReader interface {
	OpenFile(ctx context.Context, objectName string) (io.ReadCloser, error)
}

// NarratorDeps groups the NarrationService collaborators
type NarratorDeps struct {
	Meetings  repositories.MeetingRepository
	Files     repositories.FileRepository
	Media     MediaReader
	Artifacts ArtifactStore
	Provider  ai.Narrator
	Metrics   *metrics.PipelineMetrics
	Logger    *zap.Logger
}

// NarrationService describes uploaded meeting videos with a multimodal
// model and keeps the result as a narration artifact
type NarrationService struct {
	deps   NarratorDeps
	window int
}

// NewNarrationService creates a NarrationService
func NewNarrationService(deps NarratorDeps, windowSeconds int) *NarrationService {
	if windowSeconds <= 0 {
		windowSeconds = DefaultNarrationWindow
	}
	return &NarrationService{deps: deps, window: windowSeconds}
}

// videoExtensions covers containers that system MIME tables often miss
var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
}

// VideoMimeType returns the MIME type of an upload when it is a video
func VideoMimeType(file *entities.File) (string, bool) {
	if file == nil {
		return "", false
	}
	mt := ""
	if file.MimeType != nil {
		mt = *file.MimeType
	}
	if mt == "" || mt == "application/octet-stream" {
		ext := strings.ToLower(path.Ext(file.Path))
		if known, ok := videoExtensions[ext]; ok {
			mt = known
		} else {
			mt = mime.TypeByExtension(ext)
		}
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt, strings.HasPrefix(mt, "video/")
}

// Narrate describes the meeting's uploaded video and stores the narration,
// replacing any earlier one
func (s *NarrationService) Narrate(ctx context.Context, meetingID uuid.UUID) (*entities.Narration, error) {
	if err := s.requireMeeting(ctx, meetingID); err != nil {
		return nil, err
	}

	upload, err := s.deps.Files.LatestByKind(ctx, meetingID, entities.FileKindUpload)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, fmt.Errorf("%w: meeting has no uploaded media", usecaseErrors.ErrInvalidInput)
	}
	mimeType, ok := VideoMimeType(upload)
	if !ok {
		return nil, fmt.Errorf("%w: upload is not a video", usecaseErrors.ErrInvalidInput)
	}

	started := time.Now()
	windows, err := s.describe(ctx, upload.Path, mimeType)
	s.deps.Metrics.ObserveStage("narrate", started, err)
	if err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Error("❌ Narration failed",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	narration := &entities.Narration{
		MeetingID: meetingID,
		Model:     s.deps.Provider.Model(),
		Window:    s.window,
		Windows:   windows,
	}
	if err := s.store(ctx, narration); err != nil {
		return nil, err
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Info("🎬 Meeting narrated",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("windows", len(windows)),
			zap.Duration("duration", time.Since(started)),
		)
	}
	return narration, nil
}

func (s *NarrationService) describe(ctx context.Context, objectName, mimeType string) ([]entities.NarrationWindow, error) {
	media, err := s.deps.Media.OpenFile(ctx, objectName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrStorage, err)
	}
	defer media.Close()

	content, err := s.deps.Provider.Narrate(ctx, media, mimeType, NarrationPrompt(s.window))
	s.deps.Metrics.ObserveProvider("gemini", "narrate", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrNarration, err)
	}

	windows, err := ParseNarration(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrNarration, err)
	}
	return windows, nil
}

func (s *NarrationService) store(ctx context.Context, narration *entities.Narration) error {
	body, err := json.MarshalIndent(narration, "", "  ")
	if err != nil {
		return err
	}
	objectName := storage.NarrationPath(narration.MeetingID)
	size, err := s.deps.Artifacts.UploadJSON(ctx, objectName, body)
	if err != nil {
		return fmt.Errorf("%w: %w", usecaseErrors.ErrStorage, err)
	}
	mimeType := "application/json"
	return s.deps.Files.Replace(ctx, &entities.File{
		MeetingID: narration.MeetingID,
		Path:      objectName,
		Kind:      entities.FileKindNarration,
		SizeBytes: &size,
		MimeType:  &mimeType,
	})
}

// Get returns the stored narration or entities.ErrNarrationNotFound
func (s *NarrationService) Get(ctx context.Context, meetingID uuid.UUID) (*entities.Narration, error) {
	if err := s.requireMeeting(ctx, meetingID); err != nil {
		return nil, err
	}

	file, err := s.deps.Files.LatestByKind(ctx, meetingID, entities.FileKindNarration)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, entities.ErrNarrationNotFound
	}

	rc, err := s.deps.Media.OpenFile(ctx, file.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrStorage, err)
	}
	defer rc.Close()

	var narration entities.Narration
	if err := json.NewDecoder(rc).Decode(&narration); err != nil {
		return nil, fmt.Errorf("%w: decode narration: %w", usecaseErrors.ErrStorage, err)
	}
	return &narration, nil
}

// Ensure returns the stored narration, producing one first when the
// meeting has none
func (s *NarrationService) Ensure(ctx context.Context, meetingID uuid.UUID) (*entities.Narration, error) {
	narration, err := s.Get(ctx, meetingID)
	if err == nil {
		return narration, nil
	}
	if !errors.Is(err, entities.ErrNarrationNotFound) {
		return nil, err
	}
	return s.Narrate(ctx, meetingID)
}

func (s *NarrationService) requireMeeting(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.deps.Meetings.FindByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting == nil {
		return entities.ErrMeetingNotFound
	}
	return nil
}
