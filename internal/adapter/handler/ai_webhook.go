package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/common"
	aiuse "github.com/johnquangdev/meeting-intel/internal/usecase/ai"
)

// maxWebhookBody bounds the callback payload, which only carries ids
const maxWebhookBody = 1 << 20

// AIWebhookHandler handles incoming webhooks from AI providers (AssemblyAI)
type AIWebhookHandler struct {
	svc    aiuse.Service
	header string
	logger *zap.Logger
}

// NewAIWebhookHandler creates a new handler. header names the request
// header carrying the shared secret.
func NewAIWebhookHandler(svc aiuse.Service, header string, logger *zap.Logger) *AIWebhookHandler {
	if header == "" {
		header = "X-Webhook-Secret"
	}
	return &AIWebhookHandler{svc: svc, header: header, logger: logger}
}

// HandleAssemblyAIWebhook receives webhooks from AssemblyAI
// @Summary      AssemblyAI webhook
// @Description  Receives transcript status callbacks. Unknown transcript ids are acknowledged.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        request  body      object{transcript_id=string,status=string}  true  "Callback payload"
// @Success      200  {object}  common.StatusResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /webhooks/assemblyai [post]
func (h *AIWebhookHandler) HandleAssemblyAIWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	signature := c.Request().Header.Get(h.header)
	if signature == "" {
		signature = c.Request().Header.Get("Authorization")
	}

	if err := h.svc.HandleWebhook(c.Request().Context(), body, signature); err != nil {
		if h.logger != nil {
			h.logger.Error("ai webhook handler error", zap.Error(err))
		}
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, common.StatusResponse{Status: "ok"})
}
