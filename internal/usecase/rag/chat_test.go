package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-intel/internal/testutil"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	"github.com/johnquangdev/meeting-intel/pkg/ai"
)

type chatFixture struct {
	db        *testutil.DB
	embedder  *testutil.Embedder
	generator *testutil.Generator
	reranker  *testutil.Reranker
	meeting   *entities.Meeting
	ids       map[string]int64
}

// newChatFixture seeds a meeting whose chunks sit at known angles to the
// query vector (1, 0): A is closest, then B, then D. C has no embedding.
func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	f := &chatFixture{
		db:        testutil.NewDB(2),
		embedder:  &testutil.Embedder{Dim: 2, Default: []float32{1, 0}},
		generator: &testutil.Generator{Response: "They chose Friday [A @ 00:00–00:10]."},
		reranker:  &testutil.Reranker{},
		ids:       make(map[string]int64),
	}
	f.meeting = f.db.AddMeeting(entities.MeetingStatusIndexed)

	add := func(name, speaker string, start, end float64, vec []float32) {
		c := entities.Chunk{
			MeetingID:    f.meeting.ID,
			Speaker:      &speaker,
			StartSeconds: start,
			EndSeconds:   end,
			Text:         "text " + name,
		}
		if vec != nil {
			c.Embedding = testutil.Vec(vec...)
		}
		f.ids[name] = f.db.Chunks.Put(c)
	}
	add("A", "S1", 0, 10, []float32{1, 0.1})
	add("B", "S2", 10, 20, []float32{1, 0.5})
	add("C", "S1", 20, 30, nil)
	add("D", "S2", 30, 40, []float32{0.2, 1})

	// A chunk of another meeting that is a perfect match
	other := f.db.AddMeeting(entities.MeetingStatusIndexed)
	f.db.Chunks.Put(entities.Chunk{MeetingID: other.ID, Text: "foreign", Embedding: testutil.Vec(1, 0)})

	return f
}

func (f *chatFixture) service(withReranker bool) *ChatService {
	var reranker ai.Reranker
	if withReranker {
		reranker = f.reranker
	}
	return NewChatService(f.db.Meetings, f.db.Chunks, f.embedder, f.generator, reranker, metrics.NewNoopMetrics(), 30, nil)
}

func TestChat_CitationsFollowSimilarity(t *testing.T) {
	f := newChatFixture(t)

	answer, err := f.service(false).Chat(context.Background(), ChatRequest{
		MeetingID: f.meeting.ID,
		Query:     "when do we ship?",
		K:         5,
	})
	require.NoError(t, err)

	assert.Equal(t, "They chose Friday [A @ 00:00–00:10].", answer.Answer)
	require.Len(t, answer.Citations, 3, "null embedding and foreign chunks are excluded")
	assert.Equal(t, "text A", answer.Citations[0].Text)
	assert.Equal(t, "text B", answer.Citations[1].Text)
	assert.Equal(t, "text D", answer.Citations[2].Text)
	assert.Equal(t, Citation{Speaker: "S1", Start: 0, End: 10, Text: "text A"}, answer.Citations[0])

	require.Equal(t, 1, f.generator.CallCount())
	assert.Equal(t, SystemPrompt, f.generator.Systems[0])
	assert.Contains(t, f.generator.Users[0], "[S1 @ 00:00–00:10] text A")
	assert.NotContains(t, f.generator.Users[0], "foreign")
}

func TestChat_KLimitsCitations(t *testing.T) {
	f := newChatFixture(t)

	answer, err := f.service(false).Chat(context.Background(), ChatRequest{
		MeetingID: f.meeting.ID,
		Query:     "q",
		K:         1,
	})
	require.NoError(t, err)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "text A", answer.Citations[0].Text)
}

func TestChat_RerankOrder(t *testing.T) {
	f := newChatFixture(t)
	// Candidates arrive as [A, B, D]; the reranker prefers D then A
	f.reranker.Order = []int{2, 0, 1}

	answer, err := f.service(true).Chat(context.Background(), ChatRequest{
		MeetingID: f.meeting.ID,
		Query:     "q",
		K:         2,
		Rerank:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.reranker.Calls)
	require.Len(t, answer.Citations, 2)
	assert.Equal(t, "text D", answer.Citations[0].Text)
	assert.Equal(t, "text A", answer.Citations[1].Text)
}

func TestChat_RerankFailureKeepsSimilarityOrder(t *testing.T) {
	f := newChatFixture(t)
	f.reranker.Err = errors.New("cohere down")

	answer, err := f.service(true).Chat(context.Background(), ChatRequest{
		MeetingID: f.meeting.ID,
		Query:     "q",
		K:         2,
		Rerank:    true,
	})
	require.NoError(t, err)
	require.Len(t, answer.Citations, 2)
	assert.Equal(t, "text A", answer.Citations[0].Text)
	assert.Equal(t, "text B", answer.Citations[1].Text)
}

func TestChat_RerankWithoutRerankerIsIgnored(t *testing.T) {
	f := newChatFixture(t)

	answer, err := f.service(false).Chat(context.Background(), ChatRequest{
		MeetingID: f.meeting.ID,
		Query:     "q",
		K:         1,
		Rerank:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.reranker.Calls)
	assert.Len(t, answer.Citations, 1)
}

func TestChat_Filters(t *testing.T) {
	f := newChatFixture(t)
	start, end := 25.0, 100.0

	answer, err := f.service(false).Chat(context.Background(), ChatRequest{
		MeetingID: f.meeting.ID,
		Query:     "q",
		Speaker:   "S2",
		TimeStart: &start,
		TimeEnd:   &end,
	})
	require.NoError(t, err)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "text D", answer.Citations[0].Text)
}

func TestChat_NoContentSkipsLLM(t *testing.T) {
	f := newChatFixture(t)
	empty := f.db.AddMeeting(entities.MeetingStatusASRDone)

	answer, err := f.service(false).Chat(context.Background(), ChatRequest{
		MeetingID: empty.ID,
		Query:     "anything?",
	})
	require.NoError(t, err)
	assert.Equal(t, NoContentAnswer, answer.Answer)
	assert.Empty(t, answer.Citations)
	assert.NotNil(t, answer.Citations)
	assert.Equal(t, 0, f.generator.CallCount())
}

func TestChat_Validation(t *testing.T) {
	f := newChatFixture(t)
	svc := f.service(false)
	ctx := context.Background()

	_, err := svc.Chat(ctx, ChatRequest{MeetingID: f.meeting.ID, Query: "  "})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)

	start, end := 10.0, 5.0
	_, err = svc.Chat(ctx, ChatRequest{MeetingID: f.meeting.ID, Query: "q", TimeStart: &start, TimeEnd: &end})
	assert.ErrorIs(t, err, entities.ErrInvalidTimeRange)

	_, err = svc.Chat(ctx, ChatRequest{MeetingID: uuid.New(), Query: "q"})
	assert.ErrorIs(t, err, entities.ErrMeetingNotFound)
}

func TestChat_DimensionMismatch(t *testing.T) {
	f := newChatFixture(t)
	f.embedder.Default = []float32{1, 0, 0}

	_, err := f.service(false).Chat(context.Background(), ChatRequest{MeetingID: f.meeting.ID, Query: "q"})
	require.Error(t, err)

	var dimErr *entities.DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
	assert.Equal(t, 0, f.generator.CallCount())
}

func TestChat_GeneratorError(t *testing.T) {
	f := newChatFixture(t)
	f.generator.Err = errors.New("rate limited")

	_, err := f.service(false).Chat(context.Background(), ChatRequest{MeetingID: f.meeting.ID, Query: "q"})
	assert.ErrorIs(t, err, usecaseErrors.ErrGeneration)
}
