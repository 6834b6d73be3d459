package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	"github.com/johnquangdev/meeting-intel/pkg/ai"
)

const (
	// MaxChatK caps the number of citations per answer
	MaxChatK = 50
	// DefaultCandidatePool is how many chunks a rerank run considers
	DefaultCandidatePool = 30
)

// ChatRequest is a question about one meeting
type ChatRequest struct {
	MeetingID uuid.UUID
	Query     string
	K         int
	Speaker   string
	TimeStart *float64
	TimeEnd   *float64
	Rerank    bool
}

// ChatService answers questions from a meeting's indexed chunks
type ChatService struct {
	meetings      repositories.MeetingRepository
	chunks        repositories.ChunkRepository
	embedder      ai.Embedder
	generator     ai.Generator
	reranker      ai.Reranker
	metrics       *metrics.PipelineMetrics
	candidatePool int
	logger        *zap.Logger
}

// NewChatService creates a ChatService. reranker may be nil.
func NewChatService(
	meetings repositories.MeetingRepository,
	chunks repositories.ChunkRepository,
	embedder ai.Embedder,
	generator ai.Generator,
	reranker ai.Reranker,
	m *metrics.PipelineMetrics,
	candidatePool int,
	logger *zap.Logger,
) *ChatService {
	if candidatePool <= 0 {
		candidatePool = DefaultCandidatePool
	}
	return &ChatService{
		meetings:      meetings,
		chunks:        chunks,
		embedder:      embedder,
		generator:     generator,
		reranker:      reranker,
		metrics:       m,
		candidatePool: candidatePool,
		logger:        logger,
	}
}

// Chat retrieves the top chunks for the query and composes a cited answer.
// Citations come only from retrieved chunk rows, in relevance order.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (answer *Answer, err error) {
	started := time.Now()
	reranked := false
	defer func() {
		citations := 0
		if answer != nil {
			citations = len(answer.Citations)
		}
		s.metrics.ObserveChat(started, reranked, citations, err)
	}()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", usecaseErrors.ErrInvalidInput)
	}
	k := req.K
	if k <= 0 {
		k = entities.DefaultMatchCount
	}
	if k > MaxChatK {
		k = MaxChatK
	}
	if req.TimeStart != nil && req.TimeEnd != nil && *req.TimeStart > *req.TimeEnd {
		return nil, fmt.Errorf("%w: time_start is after time_end", entities.ErrInvalidTimeRange)
	}

	meeting, err := s.meetings.FindByID(ctx, req.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, entities.ErrMeetingNotFound
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	s.metrics.ObserveProvider("embeddings", "embed", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrEmbedding, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1 vector, got %d", usecaseErrors.ErrEmbedding, len(vectors))
	}

	useRerank := req.Rerank && s.reranker != nil
	fetch := k
	if useRerank && s.candidatePool > fetch {
		fetch = s.candidatePool
	}

	filter := entities.ChunkFilter{
		Speaker:   strings.TrimSpace(req.Speaker),
		TimeStart: req.TimeStart,
		TimeEnd:   req.TimeEnd,
	}
	candidates, err := s.chunks.MatchChunks(ctx, req.MeetingID, vectors[0], fetch, filter)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		if s.logger != nil {
			s.logger.Info("📭 No indexed content for chat",
				zap.String("meeting_id", req.MeetingID.String()),
			)
		}
		return &Answer{Answer: NoContentAnswer, Citations: []Citation{}}, nil
	}

	selected := topK(candidates, k)
	if useRerank {
		ranked, ok := s.rerank(ctx, query, candidates, k)
		if ok {
			selected = ranked
			reranked = true
		}
	}

	content, err := s.generator.Generate(ctx, SystemPrompt, BuildUserPrompt(query, BuildContext(selected)))
	s.metrics.ObserveProvider("llm", "chat", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrGeneration, err)
	}

	if s.logger != nil {
		s.logger.Info("💬 Chat answered",
			zap.String("meeting_id", req.MeetingID.String()),
			zap.Int("candidates", len(candidates)),
			zap.Int("citations", len(selected)),
			zap.Bool("reranked", reranked),
		)
	}

	return &Answer{Answer: content, Citations: Citations(selected)}, nil
}

// rerank orders candidates with the reranker. On failure it reports false
// and the caller keeps similarity order.
func (s *ChatService) rerank(ctx context.Context, query string, candidates []entities.MatchedChunk, k int) ([]entities.Chunk, bool) {
	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Text
	}

	ranked, err := s.reranker.Rerank(ctx, query, docs, k)
	s.metrics.ObserveProvider("rerank", "rerank", err)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Rerank failed, keeping similarity order", zap.Error(err))
		}
		return nil, false
	}

	out := make([]entities.Chunk, 0, k)
	seen := make(map[int]bool, len(ranked))
	for _, r := range ranked {
		if r.Index < 0 || r.Index >= len(candidates) || seen[r.Index] {
			continue
		}
		seen[r.Index] = true
		out = append(out, candidates[r.Index].Chunk)
		if len(out) == k {
			break
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func topK(candidates []entities.MatchedChunk, k int) []entities.Chunk {
	n := len(candidates)
	if n > k {
		n = k
	}
	out := make([]entities.Chunk, n)
	for i := 0; i < n; i++ {
		out[i] = candidates[i].Chunk
	}
	return out
}
