package ai

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 0},
		{"cohere", &StatusError{Provider: "cohere", Code: 503}, 503},
		{"wrapped cohere", fmt.Errorf("rerank: %w", &StatusError{Provider: "cohere", Code: 429}), 429},
		{"openai", fmt.Errorf("embed: %w", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}), 429},
		{"openai request", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, 502},
		{"anthropic", &anthropic.Error{StatusCode: 529}, 529},
		{"assemblyai", fmt.Errorf("submit: %w", aai.APIError{Status: 400, Message: "bad audio"}), 400},
		{"google", fmt.Errorf("gemini: %w", &googleapi.Error{Code: 500}), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(http.StatusTooManyRequests))
	assert.True(t, Retryable(http.StatusServiceUnavailable))
	assert.False(t, Retryable(http.StatusBadRequest))
	assert.False(t, Retryable(http.StatusUnauthorized))
	assert.False(t, Retryable(0))
}
