package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/meeting"
	aiuse "github.com/johnquangdev/meeting-intel/internal/usecase/ai"
)

// AIController handles API endpoints that trigger pipeline stages
type AIController struct {
	svc    aiuse.Service
	logger *zap.Logger
}

// NewAIController creates a new AI controller
func NewAIController(svc aiuse.Service, logger *zap.Logger) *AIController {
	return &AIController{svc: svc, logger: logger}
}

// Transcribe submits a meeting to the ASR provider
// @Summary      Transcribe a meeting
// @Description  Submits an uploaded (or failed) meeting for transcription. Completion arrives by webhook or polling.
// @Tags         AI
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      202  {object}  meeting.TranscribeResponse  "Transcription submitted"
// @Failure      404  {object}  common.ErrorResponse
// @Failure      409  {object}  common.ErrorResponse  "Meeting is past the upload stage"
// @Failure      500  {object}  common.ErrorResponse
// @Router       /meetings/{id}/transcribe [post]
func (ac *AIController) Transcribe(c echo.Context) error {
	meetingID, err := parseMeetingID(c.Param("id"))
	if err != nil {
		return HandleError(ac.logger, c, err)
	}

	job, err := ac.svc.Transcribe(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(ac.logger, c, err, meetingID)
	}

	return HandleSuccess(ac.logger, c, http.StatusAccepted, meeting.TranscribeResponse{
		MeetingID: meetingID,
		JobID:     job.ID,
		Status:    string(job.Status),
	})
}
