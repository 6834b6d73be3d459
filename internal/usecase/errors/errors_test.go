package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/pkg/ai"
)

func translate(t *testing.T, err error, meetingID uuid.UUID) apperrors.AppError {
	t.Helper()
	var appErr apperrors.AppError
	require.True(t, stdErrors.As(Translate(err, meetingID), &appErr))
	return appErr
}

func TestTranslate(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name   string
		err    error
		code   apperrors.ErrorCode
		status int
	}{
		{"meeting not found", fmt.Errorf("get: %w", entities.ErrMeetingNotFound), apperrors.ErrorCode_MEETING_NOT_FOUND, http.StatusNotFound},
		{"summary not found", entities.ErrSummaryNotFound, apperrors.ErrorCode_SUMMARY_NOT_FOUND, http.StatusNotFound},
		{"narration not found", entities.ErrNarrationNotFound, apperrors.ErrorCode_NOT_FOUND, http.StatusNotFound},
		{"transcript missing", entities.ErrTranscriptUnavailable, apperrors.ErrorCode_TRANSCRIPT_NOT_READY, http.StatusConflict},
		{"bad source", entities.ErrInvalidSource, apperrors.ErrorCode_INVALID_ARGUMENT, http.StatusBadRequest},
		{"bad time range", entities.ErrInvalidTimeRange, apperrors.ErrorCode_INVALID_ARGUMENT, http.StatusBadRequest},
		{"busy", fmt.Errorf("index: %w", ErrBusy), apperrors.ErrorCode_ALREADY_EXISTS, http.StatusConflict},
		{"repo dimension", &entities.DimensionError{Expected: 3072, Got: 1536}, apperrors.ErrorCode_DIMENSION_MISMATCH, http.StatusInternalServerError},
		{"provider dimension", fmt.Errorf("embed: %w", &ai.DimensionError{Expected: 3072, Got: 8}), apperrors.ErrorCode_DIMENSION_MISMATCH, http.StatusInternalServerError},
		{"embedding", fmt.Errorf("%w: timeout", ErrEmbedding), apperrors.ErrorCode_AI_EMBEDDING_FAILED, http.StatusInternalServerError},
		{"narration", fmt.Errorf("%w: empty reply", ErrNarration), apperrors.ErrorCode_AI_NARRATION_FAILED, http.StatusInternalServerError},
		{"lock store down", fmt.Errorf("%w: dial tcp", ErrCache), apperrors.ErrorCode_INTEGRATION_CACHE_FAILED, http.StatusInternalServerError},
		{"provider rate limit", fmt.Errorf("%w: %w", ErrGeneration, &openai.APIError{HTTPStatusCode: 429}), apperrors.ErrorCode_AI_QUOTA_EXCEEDED, http.StatusTooManyRequests},
		{"provider outage", fmt.Errorf("%w: %w", ErrRerank, &ai.StatusError{Provider: "cohere", Code: 503}), apperrors.ErrorCode_AI_SERVICE_UNAVAILABLE, http.StatusServiceUnavailable},
		{"provider client error keeps stage", fmt.Errorf("%w: %w", ErrTranscription, &ai.StatusError{Provider: "assemblyai", Code: 400}), apperrors.ErrorCode_AI_TRANSCRIPTION_FAILED, http.StatusInternalServerError},
		{"unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "files_pkey"}), apperrors.ErrorCode_DB_CONSTRAINT_VIOLATION, http.StatusInternalServerError},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, apperrors.ErrorCode_DB_QUERY_FAILED, http.StatusInternalServerError},
		{"invalid transaction", fmt.Errorf("commit: %w", gorm.ErrInvalidTransaction), apperrors.ErrorCode_DB_TRANSACTION_FAILED, http.StatusInternalServerError},
		{"missing where", gorm.ErrMissingWhereClause, apperrors.ErrorCode_DB_QUERY_FAILED, http.StatusInternalServerError},
		{"unknown", stdErrors.New("boom"), apperrors.ErrorCode_INTERNAL, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := translate(t, tc.err, id)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.status, appErr.HTTPCode)
		})
	}
}

func TestTranslate_MeetingIDDetail(t *testing.T) {
	id := uuid.New()
	appErr := translate(t, entities.ErrMeetingNotFound, id)
	assert.Equal(t, id.String(), appErr.Details["meeting_id"])
}

func TestTranslate_Details(t *testing.T) {
	appErr := translate(t, fmt.Errorf("%w: %w", ErrEmbedding, &ai.StatusError{Provider: "openai", Code: 502}), uuid.Nil)
	assert.Equal(t, "embedding", appErr.Details["service"])

	appErr = translate(t, &pgconn.PgError{Code: "23503", ConstraintName: "chunks_meeting_id_fkey"}, uuid.Nil)
	assert.Equal(t, "chunks_meeting_id_fkey", appErr.Details["constraint"])

	appErr = translate(t, &pgconn.PgError{Code: "57014"}, uuid.Nil)
	assert.Equal(t, "57014", appErr.Details["sqlstate"])
}

func TestTranslate_PassThrough(t *testing.T) {
	assert.NoError(t, Translate(nil, uuid.Nil))

	original := apperrors.ErrPayloadTooLarge(1 << 20)
	appErr := translate(t, original, uuid.Nil)
	assert.Equal(t, apperrors.ErrorCode_PAYLOAD_TOO_LARGE, appErr.Code)
}
