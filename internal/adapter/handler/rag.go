package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/rag"
	"github.com/johnquangdev/meeting-intel/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	ragUsecase "github.com/johnquangdev/meeting-intel/internal/usecase/rag"
)

// Indexer rebuilds a meeting's retrieval chunks
type Indexer interface {
	Index(ctx context.Context, meetingID uuid.UUID, source entities.ChunkSource) (*ragUsecase.IndexResult, error)
}

// Summarizer generates and serves meeting summaries
type Summarizer interface {
	Summarize(ctx context.Context, meetingID uuid.UUID) (*entities.SummaryPayload, error)
	Get(ctx context.Context, meetingID uuid.UUID) (*entities.SummaryPayload, error)
}

// Narrations describes meeting videos and serves stored narrations
type Narrations interface {
	Narrate(ctx context.Context, meetingID uuid.UUID) (*entities.Narration, error)
	Get(ctx context.Context, meetingID uuid.UUID) (*entities.Narration, error)
}

// Chatter answers questions about a meeting
type Chatter interface {
	Chat(ctx context.Context, req ragUsecase.ChatRequest) (*ragUsecase.Answer, error)
}

var (
	_ Indexer    = (*ragUsecase.Indexer)(nil)
	_ Summarizer = (*ragUsecase.Summarizer)(nil)
	_ Chatter    = (*ragUsecase.ChatService)(nil)
	_ Narrations = (*ragUsecase.NarrationService)(nil)
)

// RAG handles indexing, summary and chat requests
type RAG struct {
	indexer    Indexer
	summarizer Summarizer
	chat       Chatter
	narrations Narrations
	logger     *zap.Logger
}

// NewRAGHandler creates a new RAG handler
func NewRAGHandler(indexer Indexer, summarizer Summarizer, chat Chatter, logger *zap.Logger) *RAG {
	return &RAG{
		indexer:    indexer,
		summarizer: summarizer,
		chat:       chat,
		logger:     logger,
	}
}

// WithNarrations enables the narration endpoints
func (h *RAG) WithNarrations(n Narrations) *RAG {
	h.narrations = n
	return h
}

// Index handles POST /api/index
// @Summary      Index a meeting
// @Description  Chunks and embeds the transcript (or summary) and replaces the stored chunks
// @Tags         RAG
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      rag.IndexRequest  true  "Index request"
// @Success      200  {object}  rag.IndexResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      409  {object}  common.ErrorResponse  "Indexing already running"
// @Failure      500  {object}  common.ErrorResponse
// @Router       /index [post]
func (h *RAG) Index(c echo.Context) error {
	var req rag.IndexRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseMeetingID(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.indexer.Index(c.Request().Context(), meetingID, entities.ChunkSource(req.Source))
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToIndexResponse(result))
}

// Summarize handles GET /api/summarize
// @Summary      Summarize a meeting
// @Description  Generates the structured summary, stores it and returns it
// @Tags         RAG
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  query     string  true  "Meeting ID (UUID)"
// @Success      200  {object}  rag.SummaryResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      409  {object}  common.ErrorResponse  "Transcript not ready or summary already running"
// @Failure      500  {object}  common.ErrorResponse
// @Router       /summarize [get]
func (h *RAG) Summarize(c echo.Context) error {
	meetingID, err := h.meetingQuery(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	payload, err := h.summarizer.Summarize(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToSummaryResponse(payload))
}

// Summary handles GET /api/summary
// @Summary      Get the stored summary
// @Description  Returns the stored summary without calling the model
// @Tags         RAG
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  query     string  true  "Meeting ID (UUID)"
// @Success      200  {object}  rag.SummaryResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /summary [get]
func (h *RAG) Summary(c echo.Context) error {
	meetingID, err := h.meetingQuery(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	payload, err := h.summarizer.Get(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToSummaryResponse(payload))
}

// Narrate handles POST /api/narrate
// @Summary      Narrate a meeting video
// @Description  Describes the uploaded video window by window with a multimodal model and stores the result. Later summaries use it as context.
// @Tags         RAG
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  query     string  true  "Meeting ID (UUID)"
// @Success      200  {object}  rag.NarrationResponse
// @Failure      400  {object}  common.ErrorResponse  "Upload is not a video"
// @Failure      404  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /narrate [post]
func (h *RAG) Narrate(c echo.Context) error {
	meetingID, err := h.meetingQuery(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	narration, err := h.narrations.Narrate(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToNarrationResponse(narration))
}

// Narration handles GET /api/narration
// @Summary      Get the stored narration
// @Tags         RAG
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  query     string  true  "Meeting ID (UUID)"
// @Success      200  {object}  rag.NarrationResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /narration [get]
func (h *RAG) Narration(c echo.Context) error {
	meetingID, err := h.meetingQuery(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	narration, err := h.narrations.Get(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToNarrationResponse(narration))
}

// Chat handles POST /api/chat
// @Summary      Ask about a meeting
// @Description  Answers from the meeting's indexed chunks. Citations come from the retrieved chunks only.
// @Tags         RAG
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      rag.ChatRequest  true  "Chat request"
// @Success      200  {object}  rag.ChatResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /chat [post]
func (h *RAG) Chat(c echo.Context) error {
	var req rag.ChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseMeetingID(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	chatReq := ragUsecase.ChatRequest{
		MeetingID: meetingID,
		Query:     req.Query,
		K:         req.K,
		Rerank:    req.Rerank,
	}
	if req.Filters != nil {
		chatReq.Speaker = req.Filters.Speaker
		chatReq.TimeStart = req.Filters.TimeStart
		chatReq.TimeEnd = req.Filters.TimeEnd
	}

	answer, err := h.chat.Chat(c.Request().Context(), chatReq)
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToChatResponse(answer))
}

func (h *RAG) meetingQuery(c echo.Context) (uuid.UUID, error) {
	var req meeting.MeetingQuery
	if err := bindAndValidate(c, &req); err != nil {
		return uuid.Nil, err
	}
	return parseMeetingID(req.MeetingID)
}
