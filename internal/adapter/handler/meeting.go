package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intel/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	meetingUsecase "github.com/johnquangdev/meeting-intel/internal/usecase/meeting"
)

// Meeting handles meeting-related HTTP requests
type Meeting struct {
	meetingService meetingUsecase.Service
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler. maxUploadMB <= 0
// disables the upload size check.
func NewMeetingHandler(meetingService meetingUsecase.Service, maxUploadMB int, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		maxUploadBytes: int64(maxUploadMB) << 20,
		logger:         logger,
	}
}

// Ingest handles POST /api/ingest
// @Summary      Upload a meeting recording
// @Description  Stores the uploaded media and creates a meeting in the uploaded state
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file     formData  file    true   "Audio or video file"
// @Param        title    formData  string  false  "Meeting title"
// @Param        consent  formData  bool    false  "Participants consented to recording"
// @Success      201  {object}  meeting.IngestResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      413  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /ingest [post]
func (h *Meeting) Ingest(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("file is required"))
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(h.maxUploadBytes))
	}

	consent := false
	if raw := strings.TrimSpace(c.FormValue("consent")); raw != "" {
		if consent, err = strconv.ParseBool(raw); err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("consent must be a boolean"))
		}
	}

	src, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer src.Close()

	m, err := h.meetingService.Ingest(c.Request().Context(), meetingUsecase.IngestInput{
		Title:       c.FormValue("title"),
		Consent:     consent,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      src,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, meeting.IngestResponse{MeetingID: m.ID})
}

// ListMeetings handles GET /api/meetings
// @Summary      List recent meetings
// @Description  Lists meetings newest first, optionally filtered by status
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Meeting status"  Enums(uploaded, asr_started, asr_done, indexed, summarized, error)
// @Param        limit   query     int     false  "Max results (default 10, max 100)"
// @Success      200  {object}  meeting.ListMeetingsResponse
// @Failure      400  {object}  common.ErrorResponse
// @Router       /meetings [get]
func (h *Meeting) ListMeetings(c echo.Context) error {
	var req meeting.ListMeetingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := meetingUsecase.ListInput{Limit: req.Limit}
	if req.Status != "" {
		status := entities.MeetingStatus(req.Status)
		input.Status = &status
	}

	meetings, err := h.meetingService.List(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToListMeetingsResponse(meetings))
}

// GetMeeting handles GET /api/meetings/:id
// @Summary      Get meeting details
// @Description  Returns a meeting with utterance, chunk and file counts
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingDetailResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /meetings/{id} [get]
func (h *Meeting) GetMeeting(c echo.Context) error {
	meetingID, err := parseMeetingID(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	detail, err := h.meetingService.Get(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingDetailResponse(detail))
}

// DeleteMeeting handles DELETE /api/meetings/:id
// @Summary      Delete a meeting
// @Description  Deletes the meeting, everything it owns and its stored objects
// @Tags         Meetings
// @Security     BearerAuth
// @Param        id   path  string  true  "Meeting ID (UUID)"
// @Success      204
// @Failure      404  {object}  common.ErrorResponse
// @Router       /meetings/{id} [delete]
func (h *Meeting) DeleteMeeting(c echo.Context) error {
	meetingID, err := parseMeetingID(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.meetingService.Delete(c.Request().Context(), meetingID); err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusNoContent, nil)
}

// Utterances handles GET /api/utterances
// @Summary      List transcript utterances
// @Description  Lists a meeting's utterances by start time with optional filters
// @Tags         Transcripts
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  query     string  true   "Meeting ID (UUID)"
// @Param        speaker     query     string  false  "Exact speaker label"
// @Param        start       query     number  false  "Window start in seconds"
// @Param        end         query     number  false  "Window end in seconds"
// @Param        q           query     string  false  "Case-insensitive text search"
// @Success      200  {object}  meeting.UtterancesResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /utterances [get]
func (h *Meeting) Utterances(c echo.Context) error {
	var req meeting.UtterancesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseMeetingID(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	filter := entities.UtteranceFilter{Speaker: req.Speaker, Query: req.Query}
	if filter.Start, err = queryFloat(c, "start"); err != nil {
		return HandleError(h.logger, c, err)
	}
	if filter.End, err = queryFloat(c, "end"); err != nil {
		return HandleError(h.logger, c, err)
	}

	utts, err := h.meetingService.Utterances(c.Request().Context(), meetingID, filter)
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToUtterancesResponse(utts))
}

// Transcript handles GET /api/transcript
// @Summary      Get the full transcript
// @Description  Renders the transcript as "[12.34s] SPEAKER: text" lines
// @Tags         Transcripts
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  query     string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.TranscriptResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      409  {object}  common.ErrorResponse  "Transcript not ready"
// @Router       /transcript [get]
func (h *Meeting) Transcript(c echo.Context) error {
	var req meeting.MeetingQuery
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseMeetingID(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	text, err := h.meetingService.Transcript(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, meeting.TranscriptResponse{
		MeetingID:  meetingID,
		Transcript: text,
	})
}

// Files handles GET /api/files
// @Summary      List stored files
// @Description  Lists a meeting's stored files with download URLs
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  query     string  true   "Meeting ID (UUID)"
// @Param        kind        query     string  false  "File kind"  Enums(upload, narration, summary, other)
// @Success      200  {object}  meeting.FilesResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /files [get]
func (h *Meeting) Files(c echo.Context) error {
	var req meeting.FilesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseMeetingID(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	links, err := h.meetingService.Files(c.Request().Context(), meetingID, entities.FileKind(req.Kind))
	if err != nil {
		return HandleError(h.logger, c, err, meetingID)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToFilesResponse(links))
}
