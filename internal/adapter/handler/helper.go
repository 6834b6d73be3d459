package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	usecaseErrors "github.com/johnquangdev/meeting-intel/internal/usecase/errors"
	pkgvalidator "github.com/johnquangdev/meeting-intel/pkg/validator"
)

// Error envelope
type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes data as the bare response body
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	if data == nil {
		return c.NoContent(status)
	}
	return c.JSON(status, data)
}

// HandleError centralizes error handling and logging. meetingID, when
// given, fills the message of not-found style errors.
func HandleError(logger *zap.Logger, c echo.Context, err error, meetingID ...uuid.UUID) error {
	id := uuid.Nil
	if len(meetingID) > 0 {
		id = meetingID[0]
	}

	var appErr errors.AppError
	if !stdErrors.As(usecaseErrors.Translate(err, id), &appErr) {
		appErr = errors.ErrInternal(err)
	}

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	return c.JSON(appErr.HTTPCode, toErrs(appErr))
}

func toErrs(appErr errors.AppError) errs {
	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}
	return errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
	}
}

// HTTPErrorHandler renders errors that escape handlers, such as unknown
// routes or middleware rejections, in the same envelope
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if stdErrors.As(err, &he) {
			appErr := fromHTTPError(he)
			if logger != nil {
				logger.Warn("http.response.error",
					zap.String("request_id", getRequestID(c)),
					zap.String("path", c.Request().URL.Path),
					zap.Int("status", he.Code),
				)
			}
			_ = c.JSON(appErr.HTTPCode, toErrs(appErr))
			return
		}

		_ = HandleError(logger, c, err)
	}
}

func fromHTTPError(he *echo.HTTPError) errors.AppError {
	msg := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		msg = s
	}

	var appErr errors.AppError
	switch he.Code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		appErr = errors.ErrNotFound("route")
	case http.StatusUnauthorized:
		appErr = errors.ErrUnauthenticated()
	case http.StatusRequestEntityTooLarge:
		appErr = errors.AppError{
			HTTPCode: he.Code,
			Code:     errors.ErrorCode_PAYLOAD_TOO_LARGE,
			Message:  "Uploaded file is too large",
		}
	case http.StatusBadRequest:
		appErr = errors.ErrInvalidArgument(msg)
	default:
		appErr = errors.ErrInternal(he)
		appErr.HTTPCode = he.Code
	}
	return appErr
}

// bindAndValidate binds the request into req and runs struct validation
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument(pkgvalidator.Message(err))
	}
	return nil
}

// parseMeetingID reads a meeting id from the given path param or query param
func parseMeetingID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, errors.ErrInvalidArgument("meeting_id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("meeting_id must be a UUID")
	}
	return id, nil
}

// queryFloat parses an optional float query parameter
func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, errors.ErrInvalidArgument(name + " must be a non-negative number")
	}
	return &v, nil
}
