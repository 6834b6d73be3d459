package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/pkg/ai"
)

// Common usecase errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("resource conflict")
	ErrBusy         = errors.New("another run holds the lock")
	ErrUnauthorized = errors.New("unauthorized")
)

// Provider errors wrapped by the pipeline stages
var (
	ErrTranscription = errors.New("transcription failed")
	ErrEmbedding     = errors.New("embedding failed")
	ErrGeneration    = errors.New("generation failed")
	ErrSummarization = errors.New("summarization failed")
	ErrRerank        = errors.New("rerank failed")
	ErrStorage       = errors.New("object storage failed")
	ErrNarration     = errors.New("narration failed")
)

// ErrCache wraps failures of the shared cache and lock store
var ErrCache = errors.New("cache failed")

// Translate maps domain and usecase errors to the AppError surfaced over HTTP.
// AppErrors pass through untouched. Provider rate limits and outages win over
// the stage that hit them, and unknown errors become INTERNAL.
func Translate(err error, meetingID uuid.UUID) error {
	if err == nil {
		return nil
	}

	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	id := ""
	if meetingID != uuid.Nil {
		id = meetingID.String()
	}

	var repoDim *entities.DimensionError
	if errors.As(err, &repoDim) {
		return withRaw(apperrors.ErrDimensionMismatch(repoDim.Expected, repoDim.Got), err)
	}
	var aiDim *ai.DimensionError
	if errors.As(err, &aiDim) {
		return withRaw(apperrors.ErrDimensionMismatch(aiDim.Expected, aiDim.Got), err)
	}

	if code := ai.HTTPStatus(err); code != 0 {
		switch {
		case code == http.StatusTooManyRequests:
			return withRaw(apperrors.ErrAIQuotaExceeded(), err)
		case code >= http.StatusInternalServerError:
			return withRaw(apperrors.ErrAIServiceUnavailable(providerService(err)), err)
		}
	}

	switch {
	case errors.Is(err, entities.ErrMeetingNotFound):
		return apperrors.ErrMeetingNotFound(id)
	case errors.Is(err, entities.ErrSummaryNotFound):
		return apperrors.ErrSummaryNotFound(id)
	case errors.Is(err, entities.ErrNarrationNotFound):
		return apperrors.ErrNotFound("Narration").WithDetail("meeting_id", id)
	case errors.Is(err, entities.ErrTranscriptUnavailable):
		return apperrors.ErrTranscriptNotReady(id)
	case errors.Is(err, entities.ErrInvalidMeetingStatus),
		errors.Is(err, entities.ErrInvalidSource),
		errors.Is(err, entities.ErrInvalidTimeRange),
		errors.Is(err, ErrInvalidInput):
		return withRaw(apperrors.ErrInvalidArgument(err.Error()), err)
	case errors.Is(err, ErrUnauthorized):
		return withRaw(apperrors.ErrUnauthenticated(), err)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrBusy):
		return withRaw(apperrors.ErrAlreadyExists("a run for this meeting"), err)
	case errors.Is(err, ErrTranscription):
		return apperrors.ErrAITranscriptionFailed(err)
	case errors.Is(err, ErrEmbedding):
		return apperrors.ErrAIEmbeddingFailed(err)
	case errors.Is(err, ErrSummarization):
		return apperrors.ErrAISummaryFailed(err)
	case errors.Is(err, ErrGeneration):
		return apperrors.ErrAIChatFailed(err)
	case errors.Is(err, ErrRerank):
		return apperrors.ErrAIRerankFailed(err)
	case errors.Is(err, ErrNarration):
		return apperrors.ErrAINarrationFailed(err)
	case errors.Is(err, ErrStorage):
		return apperrors.ErrStorageFailed("object", err)
	case errors.Is(err, ErrCache):
		return apperrors.ErrCacheFailed("lock", err)
	default:
		return translateDB(err)
	}
}

// providerService names the pipeline stage whose provider failed
func providerService(err error) string {
	switch {
	case errors.Is(err, ErrTranscription):
		return "transcription"
	case errors.Is(err, ErrEmbedding):
		return "embedding"
	case errors.Is(err, ErrSummarization), errors.Is(err, ErrGeneration):
		return "llm"
	case errors.Is(err, ErrNarration):
		return "narration"
	case errors.Is(err, ErrRerank):
		return "rerank"
	default:
		return "ai"
	}
}

// translateDB maps driver and ORM failures; anything else is INTERNAL
func translateDB(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE class 23 is integrity constraint violation
		if strings.HasPrefix(pgErr.Code, "23") {
			return apperrors.ErrDBConstraintViolation(pgErr.ConstraintName, err)
		}
		return apperrors.ErrDBQueryFailed(pgErr.Code, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return apperrors.ErrDBConnectionFailed(err)
	}

	switch {
	case errors.Is(err, gorm.ErrInvalidTransaction):
		return apperrors.ErrDBTransactionFailed(err)
	case errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidField),
		errors.Is(err, gorm.ErrMissingWhereClause),
		errors.Is(err, gorm.ErrPrimaryKeyRequired):
		return apperrors.ErrDBQueryFailed("", err)
	}
	return apperrors.ErrInternal(err)
}

func withRaw(e apperrors.AppError, err error) apperrors.AppError {
	e.Raw = err
	return e
}
