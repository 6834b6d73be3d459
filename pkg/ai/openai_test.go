package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intel/pkg/config"
)

func TestOpenAIGenerator_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
		assert.Less(t, req.Temperature, 0.001)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "c1",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "  The budget is owned by A.  "}},
			},
		})
	}))
	defer ts.Close()

	g := NewOpenAIGenerator(config.LLMConfig{
		APIKey:  "k",
		BaseURL: ts.URL + "/v1",
		Model:   "llama-3.3-70b-versatile",
	})

	out, err := g.Generate(context.Background(), "be brief", "who owns the budget?")
	require.NoError(t, err)
	assert.Equal(t, "The budget is owned by A.", out)
}

func TestNewGenerator_Providers(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{Provider: config.ProviderGroq, Model: "m", APIKey: "k"}}
	g, err := NewGenerator(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, g)

	cfg.LLM.Provider = config.ProviderAnthropic
	g, err = NewGenerator(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicGenerator{}, g)

	cfg.LLM.Provider = "bogus"
	_, err = NewGenerator(context.Background(), cfg)
	assert.Error(t, err)
}
