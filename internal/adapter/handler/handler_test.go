package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-intel/internal/testutil"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	"github.com/johnquangdev/meeting-intel/internal/usecase/lifecycle"
	meetingUsecase "github.com/johnquangdev/meeting-intel/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intel/internal/usecase/rag"
	"github.com/johnquangdev/meeting-intel/pkg/config"
	"github.com/johnquangdev/meeting-intel/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/meeting-intel/pkg/validator"
)

// fakePipeline stands in for the ASR pipeline service
type fakePipeline struct {
	job       *entities.AsrJob
	err       error
	payload   []byte
	signature string
}

func (p *fakePipeline) Transcribe(_ context.Context, meetingID uuid.UUID) (*entities.AsrJob, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.job, nil
}

func (p *fakePipeline) HandleWebhook(_ context.Context, payload []byte, signature string) error {
	p.payload = payload
	p.signature = signature
	return p.err
}

func (p *fakePipeline) StartWorkerPool(context.Context, int) error { return nil }

func (p *fakePipeline) StopWorkerPool() error { return nil }

type env struct {
	e        *echo.Echo
	db       *testutil.DB
	objects  *testutil.ObjectStore
	answers  *testutil.Generator
	pipeline *fakePipeline
	narrator *testutil.Narrator
	pingErr  error
}

type options struct {
	maxUploadMB int
	auth        *jwt.Manager
	narration   bool
}

func newEnv(t *testing.T, opts options) *env {
	t.Helper()
	en := &env{
		db:       testutil.NewDB(2),
		objects:  testutil.NewObjectStore(),
		answers:  &testutil.Generator{Response: "Ship on Monday."},
		pipeline: &fakePipeline{},
		narrator: &testutil.Narrator{Response: `{"windows": [{"start": 0, "end": 30, "text": "Slide titled Launch plan."}]}`},
	}
	store := cache.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	m := metrics.NewNoopMetrics()
	embedder := &testutil.Embedder{Dim: 2}
	transitions := lifecycle.NewTransitioner(en.db.Meetings, m, nil)
	indexer := rag.NewIndexer(rag.IndexerDeps{
		Meetings:   en.db.Meetings,
		Utterances: en.db.Utterances,
		Summaries:  en.db.Summaries,
		Chunks:     en.db.Chunks,
		Embedder:   embedder,
		Locks:      store,
		Lifecycle:  transitions,
		Metrics:    m,
	}, 0)
	summarizer := rag.NewSummarizer(rag.SummarizerDeps{
		Meetings:   en.db.Meetings,
		Utterances: en.db.Utterances,
		Summaries:  en.db.Summaries,
		Files:      en.db.Files,
		Artifacts:  en.objects,
		Cache:      store,
		Generator:  &testutil.Generator{Response: `{"overview": "Release planning", "decisions": ["Ship Monday"]}`},
		Indexer:    indexer,
		Lifecycle:  transitions,
		Metrics:    m,
	}, rag.SummarizerConfig{CacheTTL: time.Minute})
	chat := rag.NewChatService(en.db.Meetings, en.db.Chunks, embedder, en.answers, nil, m, 0, nil)
	meetings := meetingUsecase.NewMeetingService(en.db.Meetings, en.db.Utterances, en.db.Files, en.objects, store, nil)
	ragHandler := NewRAGHandler(indexer, summarizer, chat, nil)
	if opts.narration {
		ragHandler.WithNarrations(rag.NewNarrationService(rag.NarratorDeps{
			Meetings:  en.db.Meetings,
			Files:     en.db.Files,
			Media:     en.objects,
			Artifacts: en.objects,
			Provider:  en.narrator,
			Metrics:   m,
		}, 30))
	}

	cfg := &config.Config{Server: config.ServerConfig{Environment: "test", MaxUploadMB: opts.maxUploadMB}}
	var authMW echo.MiddlewareFunc
	if opts.auth != nil {
		authMW = middleware.EchoAuth(opts.auth)
	}

	en.e = echo.New()
	en.e.Validator = pkgvalidator.New()
	en.e.HTTPErrorHandler = HTTPErrorHandler(nil)
	NewRouter(
		cfg,
		func(context.Context) error { return en.pingErr },
		nil,
		NewMeetingHandler(meetings, opts.maxUploadMB, nil),
		ragHandler,
		NewAIController(en.pipeline, nil),
		NewAIWebhookHandler(en.pipeline, "X-Webhook-Secret", nil),
		authMW,
	).Setup(en.e)
	return en
}

func (en *env) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	en.e.ServeHTTP(rec, req)
	return rec
}

func (en *env) get(path string) *httptest.ResponseRecorder {
	return en.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (en *env) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return en.do(req)
}

func (en *env) seedTranscript(t *testing.T, status entities.MeetingStatus) *entities.Meeting {
	t.Helper()
	m := en.db.AddMeeting(status)
	require.NoError(t, en.db.Utterances.ReplaceForMeeting(context.Background(), m.ID, []entities.Utterance{
		{Speaker: "A", StartSeconds: 0, EndSeconds: 4, Text: "Welcome everyone"},
		{Speaker: "B", StartSeconds: 5, EndSeconds: 9, Text: "Ship it on Monday"},
	}))
	return m
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	assert.Equal(t, code, decode(t, rec)["code"])
}

func multipartRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestIngest(t *testing.T) {
	en := newEnv(t, options{maxUploadMB: 1})

	rec := en.do(multipartRequest(t, map[string]string{"title": "Weekly sync", "consent": "true"}, "sync.mp4", []byte("video")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	id, err := uuid.Parse(decode(t, rec)["meeting_id"].(string))
	require.NoError(t, err)

	m, err := en.db.Meetings.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Weekly sync", m.Title)
	assert.True(t, m.Consent)
	assert.Equal(t, entities.MeetingStatusUploaded, m.Status)

	data, ok := en.objects.Get(id.String() + "/sync.mp4")
	require.True(t, ok)
	assert.Equal(t, "video", string(data))
}

func TestIngest_Rejects(t *testing.T) {
	en := newEnv(t, options{maxUploadMB: 1})

	rec := en.do(multipartRequest(t, map[string]string{"title": "no file"}, "", nil))
	assertError(t, rec, http.StatusBadRequest, "INVALID_ARGUMENT")

	rec = en.do(multipartRequest(t, map[string]string{"consent": "maybe"}, "a.wav", []byte("a")))
	assertError(t, rec, http.StatusBadRequest, "INVALID_ARGUMENT")

	big := bytes.Repeat([]byte("x"), 1<<20+1)
	rec = en.do(multipartRequest(t, nil, "big.wav", big))
	assertError(t, rec, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE")
}

func TestMeetings(t *testing.T) {
	en := newEnv(t, options{})
	m := en.seedTranscript(t, entities.MeetingStatusASRDone)
	en.db.AddMeeting(entities.MeetingStatusUploaded)

	rec := en.get("/api/meetings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 2)

	rec = en.get("/api/meetings?status=asr_done&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, m.ID.String(), items[0].(map[string]interface{})["id"])

	assertError(t, en.get("/api/meetings?status=paused"), http.StatusBadRequest, "INVALID_ARGUMENT")
	assertError(t, en.get("/api/meetings?limit=500"), http.StatusBadRequest, "INVALID_ARGUMENT")

	rec = en.get("/api/meetings/" + m.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)
	assert.Equal(t, "asr_done", detail["status"])
	assert.Equal(t, float64(2), detail["stats"].(map[string]interface{})["utterances"])

	assertError(t, en.get("/api/meetings/not-a-uuid"), http.StatusBadRequest, "INVALID_ARGUMENT")
	assertError(t, en.get("/api/meetings/"+uuid.NewString()), http.StatusNotFound, "MEETING_NOT_FOUND")
}

func TestDeleteMeeting(t *testing.T) {
	en := newEnv(t, options{})
	m := en.seedTranscript(t, entities.MeetingStatusASRDone)

	req := httptest.NewRequest(http.MethodDelete, "/api/meetings/"+m.ID.String(), nil)
	rec := en.do(req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/meetings/"+m.ID.String(), nil)
	assertError(t, en.do(req), http.StatusNotFound, "MEETING_NOT_FOUND")
}

func TestUtterances(t *testing.T) {
	en := newEnv(t, options{})
	m := en.seedTranscript(t, entities.MeetingStatusASRDone)
	base := "/api/utterances?meeting_id=" + m.ID.String()

	rec := en.get(base)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "A", first["speaker"])
	assert.Equal(t, float64(0), first["start_seconds"])
	assert.Equal(t, float64(4), first["end_seconds"])
	assert.Equal(t, "Welcome everyone", first["text"])

	rec = en.get(base + "&speaker=B")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	rec = en.get(base + "&start=4.5&end=20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	rec = en.get(base + "&q=MONDAY")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	assertError(t, en.get(base+"&start=9&end=1"), http.StatusBadRequest, "INVALID_ARGUMENT")
	assertError(t, en.get(base+"&start=abc"), http.StatusBadRequest, "INVALID_ARGUMENT")
	assertError(t, en.get("/api/utterances"), http.StatusBadRequest, "INVALID_ARGUMENT")
	assertError(t, en.get("/api/utterances?meeting_id="+uuid.NewString()), http.StatusNotFound, "MEETING_NOT_FOUND")

	// An empty meeting lists an empty array, never null
	empty := en.db.AddMeeting(entities.MeetingStatusUploaded)
	rec = en.get("/api/utterances?meeting_id=" + empty.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestTranscriptAndFiles(t *testing.T) {
	en := newEnv(t, options{})
	pending := en.db.AddMeeting(entities.MeetingStatusASRStarted)
	assertError(t, en.get("/api/transcript?meeting_id="+pending.ID.String()), http.StatusConflict, "TRANSCRIPT_NOT_READY")

	m := en.seedTranscript(t, entities.MeetingStatusASRDone)
	rec := en.get("/api/transcript?meeting_id=" + m.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[0.00s] A: Welcome everyone\n[5.00s] B: Ship it on Monday", decode(t, rec)["transcript"])

	require.NoError(t, en.db.Files.Create(context.Background(), &entities.File{
		MeetingID: m.ID,
		Path:      m.ID.String() + "/call.wav",
		Kind:      entities.FileKindUpload,
	}))
	rec = en.get("/api/files?meeting_id=" + m.ID.String() + "&kind=upload")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "https://storage.test/"+m.ID.String()+"/call.wav?signed=1", items[0].(map[string]interface{})["url"])

	assertError(t, en.get("/api/files?meeting_id="+m.ID.String()+"&kind=slides"), http.StatusBadRequest, "INVALID_ARGUMENT")
}

func TestIndexAndChat(t *testing.T) {
	en := newEnv(t, options{})
	m := en.seedTranscript(t, entities.MeetingStatusASRDone)

	rec := en.postJSON("/api/index", map[string]interface{}{"meeting_id": m.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, m.ID.String(), body["meeting_id"])
	assert.Equal(t, "transcript", body["source"])
	assert.Equal(t, float64(1), body["inserted"])
	assert.Equal(t, entities.MeetingStatusIndexed, en.db.Status(m.ID))

	rec = en.postJSON("/api/chat", map[string]interface{}{
		"meeting_id": m.ID,
		"query":      "When do we ship?",
		"k":          3,
		"filters":    map[string]interface{}{"speaker": "A", "time_start": 0, "time_end": 60},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Equal(t, "Ship on Monday.", body["answer"])
	citations := body["citations"].([]interface{})
	require.Len(t, citations, 1)
	c := citations[0].(map[string]interface{})
	assert.Equal(t, "A", c["speaker"])
	assert.Equal(t, float64(0), c["start"])
	assert.Equal(t, float64(9), c["end"])
	assert.Contains(t, c["text"], "Ship it on Monday")
}

func TestChat_Rejects(t *testing.T) {
	en := newEnv(t, options{})
	m := en.db.AddMeeting(entities.MeetingStatusIndexed)

	rec := en.postJSON("/api/chat", map[string]interface{}{"meeting_id": m.ID, "query": "x", "k": 51})
	assertError(t, rec, http.StatusBadRequest, "INVALID_ARGUMENT")
	assert.Contains(t, decode(t, rec)["message"], "k must be at most 50")

	rec = en.postJSON("/api/chat", map[string]interface{}{"meeting_id": m.ID})
	assertError(t, rec, http.StatusBadRequest, "INVALID_ARGUMENT")

	rec = en.postJSON("/api/chat", map[string]interface{}{"meeting_id": uuid.New(), "query": "x"})
	assertError(t, rec, http.StatusNotFound, "MEETING_NOT_FOUND")

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	assertError(t, en.do(req), http.StatusBadRequest, "INVALID_PAYLOAD")
}

func TestChat_NoIndexedContent(t *testing.T) {
	en := newEnv(t, options{})
	m := en.db.AddMeeting(entities.MeetingStatusIndexed)

	rec := en.postJSON("/api/chat", map[string]interface{}{"meeting_id": m.ID, "query": "anything?"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, rag.NoContentAnswer, body["answer"])
	assert.Equal(t, []interface{}{}, body["citations"])
	assert.Zero(t, en.answers.CallCount())
}

func TestSummarizeAndSummary(t *testing.T) {
	en := newEnv(t, options{})
	m := en.seedTranscript(t, entities.MeetingStatusIndexed)
	query := "?meeting_id=" + m.ID.String()

	assertError(t, en.get("/api/summary"+query), http.StatusNotFound, "SUMMARY_NOT_FOUND")

	rec := en.get("/api/summarize" + query)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"overview":"Release planning","key_points":[],"decisions":["Ship Monday"],"action_items":[]}`, rec.Body.String())
	assert.Equal(t, entities.MeetingStatusSummarized, en.db.Status(m.ID))

	rec = en.get("/api/summary" + query)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Release planning", decode(t, rec)["overview"])

	assertError(t, en.get("/api/summary?meeting_id="+uuid.NewString()), http.StatusNotFound, "MEETING_NOT_FOUND")
	assertError(t, en.get("/api/summarize"), http.StatusBadRequest, "INVALID_ARGUMENT")
}

func TestNarrateAndNarration(t *testing.T) {
	en := newEnv(t, options{narration: true})
	ctx := context.Background()
	m := en.seedTranscript(t, entities.MeetingStatusIndexed)
	video := "video/mp4"
	_, err := en.objects.UploadJSON(ctx, m.ID.String()+"/call.mp4", []byte("video"))
	require.NoError(t, err)
	require.NoError(t, en.db.Files.Create(ctx, &entities.File{MeetingID: m.ID, Path: m.ID.String() + "/call.mp4", Kind: entities.FileKindUpload, MimeType: &video}))
	query := "?meeting_id=" + m.ID.String()

	assertError(t, en.get("/api/narration"+query), http.StatusNotFound, "NOT_FOUND")

	rec := en.do(httptest.NewRequest(http.MethodPost, "/api/narrate"+query, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"meeting_id":"`+m.ID.String()+`","model":"fake-narrator","window_seconds":30,"windows":[{"start":0,"end":30,"text":"Slide titled Launch plan."}]}`, rec.Body.String())

	rec = en.get("/api/narration" + query)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "fake-narrator", decode(t, rec)["model"])
	assert.Equal(t, 1, en.narrator.CallCount())

	audio := en.db.AddMeeting(entities.MeetingStatusIndexed)
	mp3 := "audio/mpeg"
	require.NoError(t, en.db.Files.Create(ctx, &entities.File{MeetingID: audio.ID, Path: audio.ID.String() + "/call.mp3", Kind: entities.FileKindUpload, MimeType: &mp3}))
	rec = en.do(httptest.NewRequest(http.MethodPost, "/api/narrate?meeting_id="+audio.ID.String(), nil))
	assertError(t, rec, http.StatusBadRequest, "INVALID_ARGUMENT")

	assertError(t, en.get("/api/narration?meeting_id="+uuid.NewString()), http.StatusNotFound, "MEETING_NOT_FOUND")
}

func TestNarrationRoutesNeedProvider(t *testing.T) {
	en := newEnv(t, options{})
	rec := en.do(httptest.NewRequest(http.MethodPost, "/api/narrate?meeting_id="+uuid.NewString(), nil))
	assertError(t, rec, http.StatusNotImplemented, "NOT_IMPLEMENTED")
}

func TestTranscribe(t *testing.T) {
	en := newEnv(t, options{})
	m := en.db.AddMeeting(entities.MeetingStatusUploaded)
	en.pipeline.job = &entities.AsrJob{ID: "tr-1", MeetingID: m.ID, Status: entities.AsrJobStatusQueued}

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/"+m.ID.String()+"/transcribe", nil)
	rec := en.do(req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"meeting_id":"`+m.ID.String()+`","job_id":"tr-1","status":"queued"}`, rec.Body.String())

	en.pipeline.err = apperrors.ErrInvalidStateTransition(m.ID.String(), "indexed", "asr_started")
	req = httptest.NewRequest(http.MethodPost, "/api/meetings/"+m.ID.String()+"/transcribe", nil)
	assertError(t, en.do(req), http.StatusConflict, "INVALID_STATE_TRANSITION")
}

func TestWebhook(t *testing.T) {
	en := newEnv(t, options{auth: jwt.NewManager("secret", "", time.Hour)})

	payload := `{"transcript_id":"tr-1","status":"completed"}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/assemblyai", strings.NewReader(payload))
	req.Header.Set("X-Webhook-Secret", "s3cret")
	rec := en.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, payload, string(en.pipeline.payload))
	assert.Equal(t, "s3cret", en.pipeline.signature)

	en.pipeline.err = usecaseErrors.ErrUnauthorized
	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/assemblyai", strings.NewReader(payload))
	assertError(t, en.do(req), http.StatusUnauthorized, "UNAUTHENTICATED")
}

func TestAuth(t *testing.T) {
	manager := jwt.NewManager("secret", "", time.Hour)
	en := newEnv(t, options{auth: manager})

	assertError(t, en.get("/api/meetings"), http.StatusUnauthorized, "UNAUTHENTICATED")

	req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assertError(t, en.do(req), http.StatusUnauthorized, "AUTH_INVALID_TOKEN")

	token, err := manager.GenerateAccessToken("dashboard", "")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := en.do(req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Health stays public
	assert.Equal(t, http.StatusOK, en.get("/health").Code)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	en := newEnv(t, options{})

	rec := en.get("/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok","environment":"test"}`, rec.Body.String())

	en.pingErr = errors.New("connection refused")
	rec = en.get("/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unreachable", decode(t, rec)["database"])

	assertError(t, en.get("/nope"), http.StatusNotFound, "NOT_FOUND")
}

func TestHandleError_UnknownError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, HandleError(nil, c, errors.New("boom")))
	assertError(t, rec, http.StatusInternalServerError, "INTERNAL")
	assert.Equal(t, "boom", decode(t, rec)["info"])
}
