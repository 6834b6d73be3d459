package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// ErrDimensionMismatch is returned when a provider vector has the wrong size
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// DimensionError carries the sizes behind ErrDimensionMismatch
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", ErrDimensionMismatch, e.Expected, e.Got)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// Embedder turns texts into fixed-size vectors
type Embedder interface {
	// Embed returns one vector per input, in input order
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Model() string
}

// OpenAIEmbedder calls the OpenAI embeddings API in batches
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	dim       int
	batchSize int
}

// NewOpenAIEmbedder creates an embedder from config
func NewOpenAIEmbedder(cfg config.EmbeddingConfig) *OpenAIEmbedder {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 96
	}

	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(oc),
		model:     cfg.Model,
		dim:       cfg.Dim,
		batchSize: batch,
	}
}

func (e *OpenAIEmbedder) Dimension() int { return e.dim }

func (e *OpenAIEmbedder) Model() string { return e.model }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}

	return out, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input: batch,
		Model: openai.EmbeddingModel(e.model),
	}
	// Only the text-embedding-3 family accepts a requested size
	if strings.HasPrefix(e.model, "text-embedding-3") {
		req.Dimensions = e.dim
	}

	rsp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(rsp.Data) != len(batch) {
		return nil, fmt.Errorf("openai embeddings: expected %d vectors, got %d", len(batch), len(rsp.Data))
	}

	sort.Slice(rsp.Data, func(i, j int) bool { return rsp.Data[i].Index < rsp.Data[j].Index })

	vectors := make([][]float32, len(rsp.Data))
	for i, d := range rsp.Data {
		if len(d.Embedding) != e.dim {
			return nil, &DimensionError{Expected: e.dim, Got: len(d.Embedding)}
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
