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

// newEmbeddingServer answers every request with vectors of size dim and
// records the batch sizes it saw.
func newEmbeddingServer(t *testing.T, dim int, batches *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)

		var req struct {
			Input      []string `json:"input"`
			Model      string   `json:"model"`
			Dimensions int      `json:"dimensions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*batches = append(*batches, len(req.Input))

		data := make([]map[string]interface{}, 0, len(req.Input))
		// Reverse order to check that results are sorted by index
		for i := len(req.Input) - 1; i >= 0; i-- {
			vec := make([]float32, dim)
			vec[0] = float32(i)
			data = append(data, map[string]interface{}{
				"object":    "embedding",
				"index":     i,
				"embedding": vec,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"model":  req.Model,
			"data":   data,
		})
	}))
}

func TestOpenAIEmbedder_BatchesAndOrders(t *testing.T) {
	var batches []int
	ts := newEmbeddingServer(t, 8, &batches)
	defer ts.Close()

	e := NewOpenAIEmbedder(config.EmbeddingConfig{
		APIKey:    "k",
		BaseURL:   ts.URL + "/v1",
		Model:     "text-embedding-3-large",
		Dim:       8,
		BatchSize: 2,
	})

	vectors, err := e.Embed(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, batches)
	require.Len(t, vectors, 5)
	assert.Equal(t, float32(0), vectors[0][0])
	assert.Equal(t, float32(1), vectors[1][0])
	assert.Equal(t, float32(0), vectors[4][0], "fifth input is first in its batch")
}

// TestOpenAIEmbedder_DimensionMismatch tests that a wrong vector size is rejected
func TestOpenAIEmbedder_DimensionMismatch(t *testing.T) {
	var batches []int
	ts := newEmbeddingServer(t, 4, &batches)
	defer ts.Close()

	e := NewOpenAIEmbedder(config.EmbeddingConfig{
		APIKey:  "k",
		BaseURL: ts.URL + "/v1",
		Model:   "text-embedding-3-large",
		Dim:     3072,
	})

	_, err := e.Embed(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestOpenAIEmbedder_Empty(t *testing.T) {
	e := NewOpenAIEmbedder(config.EmbeddingConfig{APIKey: "k", Model: "m", Dim: 4})
	vectors, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}
