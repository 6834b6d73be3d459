package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// RankedDocument points back into the candidate list passed to Rerank
type RankedDocument struct {
	Index int
	Score float64
}

// Reranker orders candidate documents by relevance to a query
type Reranker interface {
	// Rerank returns at most topN entries, most relevant first
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RankedDocument, error)
}

// NewReranker returns the Cohere reranker when configured, otherwise nil
func NewReranker(cfg *config.Config) Reranker {
	if !cfg.RerankEnabled() {
		return nil
	}
	return NewCohereReranker(cfg.Rerank)
}

// CohereReranker calls Cohere's /v1/rerank endpoint
type CohereReranker struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewCohereReranker creates a Cohere client
func NewCohereReranker(cfg config.RerankConfig) *CohereReranker {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.cohere.ai"
	}
	return &CohereReranker{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(base, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type cohereRerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type cohereRerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

func (r *CohereReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]RankedDocument, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	if topN <= 0 || topN > len(documents) {
		topN = len(documents)
	}

	b, err := json.Marshal(cohereRerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	})
	if err != nil {
		return nil, err
	}

	var out cohereRerankResponse
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/rerank", bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			err := &StatusError{Provider: "cohere", Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			if Retryable(resp.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}

		return json.NewDecoder(resp.Body).Decode(&out)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second
	if err := backoff.Retry(call, backoff.WithContext(backoff.WithMaxRetries(bo, 2), ctx)); err != nil {
		return nil, err
	}

	ranked := make([]RankedDocument, 0, len(out.Results))
	for _, res := range out.Results {
		if res.Index < 0 || res.Index >= len(documents) {
			return nil, fmt.Errorf("cohere returned out of range index %d", res.Index)
		}
		ranked = append(ranked, RankedDocument{Index: res.Index, Score: res.RelevanceScore})
		if len(ranked) == topN {
			break
		}
	}
	return ranked, nil
}
