package rag

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-intel/internal/testutil"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
)

const narrationJSON = "```json\n" + `{"windows": [
  {"start": 30, "end": 60, "text": "Ana shares the launch checklist slide."},
  {"start": 0, "end": 30, "text": "Two people at a table. [inaudible]"},
  {"start": 60, "end": 90, "text": "  "}
]}` + "\n```"

type narrationFixture struct {
	db       *testutil.DB
	objects  *testutil.ObjectStore
	provider *testutil.Narrator
	svc      *NarrationService
}

func newNarrationFixture(t *testing.T) *narrationFixture {
	t.Helper()
	f := &narrationFixture{
		db:       testutil.NewDB(2),
		objects:  testutil.NewObjectStore(),
		provider: &testutil.Narrator{Response: narrationJSON},
	}
	f.svc = NewNarrationService(NarratorDeps{
		Meetings:  f.db.Meetings,
		Files:     f.db.Files,
		Media:     f.objects,
		Artifacts: f.objects,
		Provider:  f.provider,
		Metrics:   metrics.NewNoopMetrics(),
	}, 30)
	return f
}

func (f *narrationFixture) meetingWithUpload(t *testing.T, filename, mimeType string) *entities.Meeting {
	t.Helper()
	ctx := context.Background()
	m := f.db.AddMeeting(entities.MeetingStatusASRDone)
	path := storage.UploadPath(m.ID, filename)
	_, err := f.objects.UploadJSON(ctx, path, []byte("media-bytes"))
	require.NoError(t, err)
	require.NoError(t, f.db.Files.Create(ctx, &entities.File{
		MeetingID: m.ID,
		Path:      path,
		Kind:      entities.FileKindUpload,
		MimeType:  &mimeType,
	}))
	return m
}

func TestParseNarration(t *testing.T) {
	windows, err := ParseNarration(narrationJSON)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, entities.NarrationWindow{Start: 0, End: 30, Text: "Two people at a table. [inaudible]"}, windows[0])
	assert.Equal(t, 30.0, windows[1].Start)
}

func TestParseNarration_ClockTimesAndInvertedRange(t *testing.T) {
	windows, err := ParseNarration(`Here you go: {"windows": [{"start": "01:30", "end": "01:00", "text": "Whiteboard"}]}`)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, 90.0, windows[0].Start)
	assert.Equal(t, 90.0, windows[0].End)
}

func TestParseNarration_Empty(t *testing.T) {
	_, err := ParseNarration(`{"windows": [{"start": 0, "end": 30, "text": ""}]}`)
	assert.Error(t, err)

	_, err = ParseNarration("not json")
	assert.Error(t, err)
}

func TestRenderNarration(t *testing.T) {
	windows := []entities.NarrationWindow{
		{Start: 0, End: 30, Text: "Intro"},
		{Start: 30, End: 60, Text: "Slides"},
	}
	assert.Equal(t, "[00:00–00:30] Intro\n[00:30–01:00] Slides", RenderNarration(windows, 0))
	assert.Equal(t, "[00:00–00:30] Intro", RenderNarration(windows, 25))
}

func TestVideoMimeType(t *testing.T) {
	mt := func(s string) *string { return &s }
	cases := []struct {
		name  string
		file  *entities.File
		want  string
		video bool
	}{
		{"nil", nil, "", false},
		{"declared video", &entities.File{Path: "a/rec.bin", MimeType: mt("video/webm")}, "video/webm", true},
		{"declared with params", &entities.File{Path: "a/rec", MimeType: mt("video/mp4; codecs=avc1")}, "video/mp4", true},
		{"audio", &entities.File{Path: "a/call.mp3", MimeType: mt("audio/mpeg")}, "audio/mpeg", false},
		{"extension fallback", &entities.File{Path: "a/REC.MOV", MimeType: mt("application/octet-stream")}, "video/quicktime", true},
		{"no type", &entities.File{Path: "a/rec.mp4"}, "video/mp4", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := VideoMimeType(tc.file)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.video, ok)
		})
	}
}

func TestNarrationService_Narrate(t *testing.T) {
	ctx := context.Background()
	f := newNarrationFixture(t)
	m := f.meetingWithUpload(t, "standup.mp4", "video/mp4")

	narration, err := f.svc.Narrate(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "fake-narrator", narration.Model)
	assert.Equal(t, 30, narration.Window)
	assert.Len(t, narration.Windows, 2)

	require.Len(t, f.provider.Media, 1)
	assert.Equal(t, []byte("media-bytes"), f.provider.Media[0])
	assert.Equal(t, "video/mp4", f.provider.MimeTypes[0])
	assert.Contains(t, f.provider.Prompts[0], "windows of 30 seconds")

	raw, ok := f.objects.Get(storage.NarrationPath(m.ID))
	require.True(t, ok)
	var stored entities.Narration
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, narration.Windows, stored.Windows)

	file, err := f.db.Files.LatestByKind(ctx, m.ID, entities.FileKindNarration)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, storage.NarrationPath(m.ID), file.Path)
}

func TestNarrationService_RenarrateKeepsOneArtifactRow(t *testing.T) {
	ctx := context.Background()
	f := newNarrationFixture(t)
	m := f.meetingWithUpload(t, "standup.mp4", "video/mp4")

	for i := 0; i < 2; i++ {
		_, err := f.svc.Narrate(ctx, m.ID)
		require.NoError(t, err)
	}

	files, err := f.db.Files.ListByMeeting(ctx, m.ID, entities.FileKindNarration)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestNarrationService_RejectsNonVideo(t *testing.T) {
	f := newNarrationFixture(t)
	m := f.meetingWithUpload(t, "call.mp3", "audio/mpeg")

	_, err := f.svc.Narrate(context.Background(), m.ID)
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
	assert.Zero(t, f.provider.CallCount())
}

func TestNarrationService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown meeting", func(t *testing.T) {
		f := newNarrationFixture(t)
		_, err := f.svc.Narrate(ctx, uuid.New())
		assert.ErrorIs(t, err, entities.ErrMeetingNotFound)
	})

	t.Run("no upload", func(t *testing.T) {
		f := newNarrationFixture(t)
		m := f.db.AddMeeting(entities.MeetingStatusUploaded)
		_, err := f.svc.Narrate(ctx, m.ID)
		assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newNarrationFixture(t)
		f.provider.Err = errors.New("quota")
		m := f.meetingWithUpload(t, "standup.mp4", "video/mp4")
		_, err := f.svc.Narrate(ctx, m.ID)
		assert.ErrorIs(t, err, usecaseErrors.ErrNarration)
		_, stored := f.objects.Get(storage.NarrationPath(m.ID))
		assert.False(t, stored)
	})

	t.Run("unusable reply", func(t *testing.T) {
		f := newNarrationFixture(t)
		f.provider.Response = `{"windows": []}`
		m := f.meetingWithUpload(t, "standup.mp4", "video/mp4")
		_, err := f.svc.Narrate(ctx, m.ID)
		assert.ErrorIs(t, err, usecaseErrors.ErrNarration)
	})
}

func TestNarrationService_GetAndEnsure(t *testing.T) {
	ctx := context.Background()
	f := newNarrationFixture(t)
	m := f.meetingWithUpload(t, "standup.mp4", "video/mp4")

	_, err := f.svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, entities.ErrNarrationNotFound)

	first, err := f.svc.Ensure(ctx, m.ID)
	require.NoError(t, err)
	second, err := f.svc.Ensure(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Windows, second.Windows)
	assert.Equal(t, 1, f.provider.CallCount())

	got, err := f.svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.MeetingID)
}
