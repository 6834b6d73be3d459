package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode is the machine readable code returned in error bodies
type ErrorCode int32

const (
	ErrorCode_UNKNOWN ErrorCode = 0
	ErrorCode_HTTP_OK ErrorCode = 1

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1006
	ErrorCode_PAYLOAD_TOO_LARGE ErrorCode = 1007

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	// Meeting pipeline
	ErrorCode_MEETING_NOT_FOUND        ErrorCode = 3000
	ErrorCode_SUMMARY_NOT_FOUND        ErrorCode = 3001
	ErrorCode_INVALID_STATE_TRANSITION ErrorCode = 3002
	ErrorCode_TRANSCRIPT_NOT_READY     ErrorCode = 3003
	ErrorCode_DIMENSION_MISMATCH       ErrorCode = 3004

	// AI providers
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 4000
	ErrorCode_AI_EMBEDDING_FAILED     ErrorCode = 4001
	ErrorCode_AI_SUMMARY_FAILED       ErrorCode = 4002
	ErrorCode_AI_CHAT_FAILED          ErrorCode = 4003
	ErrorCode_AI_RERANK_FAILED        ErrorCode = 4004
	ErrorCode_AI_SERVICE_UNAVAILABLE  ErrorCode = 4005
	ErrorCode_AI_QUOTA_EXCEEDED       ErrorCode = 4006
	ErrorCode_AI_NARRATION_FAILED     ErrorCode = 4007

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 5001

	// Database
	ErrorCode_DB_CONNECTION_FAILED    ErrorCode = 6000
	ErrorCode_DB_QUERY_FAILED         ErrorCode = 6001
	ErrorCode_DB_TRANSACTION_FAILED   ErrorCode = 6002
	ErrorCode_DB_CONSTRAINT_VIOLATION ErrorCode = 6003
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                         "UNKNOWN",
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_PAYLOAD_TOO_LARGE:               "PAYLOAD_TOO_LARGE",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_MEETING_NOT_FOUND:               "MEETING_NOT_FOUND",
	ErrorCode_SUMMARY_NOT_FOUND:               "SUMMARY_NOT_FOUND",
	ErrorCode_INVALID_STATE_TRANSITION:        "INVALID_STATE_TRANSITION",
	ErrorCode_TRANSCRIPT_NOT_READY:            "TRANSCRIPT_NOT_READY",
	ErrorCode_DIMENSION_MISMATCH:              "DIMENSION_MISMATCH",
	ErrorCode_AI_TRANSCRIPTION_FAILED:         "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_EMBEDDING_FAILED:             "AI_EMBEDDING_FAILED",
	ErrorCode_AI_SUMMARY_FAILED:               "AI_SUMMARY_FAILED",
	ErrorCode_AI_CHAT_FAILED:                  "AI_CHAT_FAILED",
	ErrorCode_AI_RERANK_FAILED:                "AI_RERANK_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:          "AI_SERVICE_UNAVAILABLE",
	ErrorCode_AI_QUOTA_EXCEEDED:               "AI_QUOTA_EXCEEDED",
	ErrorCode_AI_NARRATION_FAILED:             "AI_NARRATION_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:           "DB_TRANSACTION_FAILED",
	ErrorCode_DB_CONSTRAINT_VIOLATION:         "DB_CONSTRAINT_VIOLATION",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int32(c))
}

// MarshalJSON renders the code by name so clients can switch on it
func (c ErrorCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
