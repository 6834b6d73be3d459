package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/johnquangdev/meeting-intel/pkg/ai"
)

// Embedder returns fixed vectors per text, or Default for unknown texts
type Embedder struct {
	mu      sync.Mutex
	Dim     int
	Vectors map[string][]float32
	Default []float32
	Err     error
	Calls   [][]string
}

func (e *Embedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, append([]string(nil), texts...))
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := e.Vectors[t]; ok {
			out[i] = v
			continue
		}
		if e.Default != nil {
			out[i] = e.Default
			continue
		}
		out[i] = make([]float32, e.Dim)
		out[i][0] = 1
	}
	return out, nil
}

func (e *Embedder) Dimension() int { return e.Dim }

func (e *Embedder) Model() string { return "fake-embed" }

// Generator records prompts and returns Response
type Generator struct {
	mu       sync.Mutex
	Response string
	Err      error
	Systems  []string
	Users    []string
}

func (g *Generator) Generate(_ context.Context, system, user string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Systems = append(g.Systems, system)
	g.Users = append(g.Users, user)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Response, nil
}

func (g *Generator) Model() string { return "fake-llm" }

// CallCount returns how many times Generate ran
func (g *Generator) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Users)
}

// Reranker returns Order as the ranking, most relevant first
type Reranker struct {
	Order []int
	Err   error
	Calls int
}

func (r *Reranker) Rerank(_ context.Context, _ string, documents []string, topN int) ([]ai.RankedDocument, error) {
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]ai.RankedDocument, 0, len(r.Order))
	for i, idx := range r.Order {
		if idx >= len(documents) {
			continue
		}
		out = append(out, ai.RankedDocument{Index: idx, Score: 1 - float64(i)*0.01})
	}
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// ObjectStore keeps objects in memory
type ObjectStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

// NewObjectStore creates an empty store
func NewObjectStore() *ObjectStore {
	return &ObjectStore{Objects: make(map[string][]byte)}
}

func (s *ObjectStore) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[objectName] = data
	return int64(len(data)), nil
}

func (s *ObjectStore) UploadJSON(ctx context.Context, objectName string, content []byte) (int64, error) {
	return s.UploadFile(ctx, objectName, strings.NewReader(string(content)), int64(len(content)), "application/json")
}

func (s *ObjectStore) GetFileURL(_ context.Context, objectName string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return "https://storage.test/" + objectName + "?signed=1", nil
}

func (s *ObjectStore) RemovePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.Objects {
		if strings.HasPrefix(k, prefix) {
			delete(s.Objects, k)
			n++
		}
	}
	return n, nil
}

func (s *ObjectStore) OpenFile(_ context.Context, objectName string) (io.ReadCloser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	b, ok := s.Get(objectName)
	if !ok {
		return nil, fmt.Errorf("object %s not found", objectName)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Get returns a stored object
func (s *ObjectStore) Get(objectName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.Objects[objectName]
	return b, ok
}

// Transcriber fakes the ASR provider
type Transcriber struct {
	mu        sync.Mutex
	SubmitErr error
	Submitted []string
	Results   map[string]*ai.TranscriptResult
	n         int
}

func (t *Transcriber) Submit(_ context.Context, audioURL string) (*ai.TranscriptResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SubmitErr != nil {
		return nil, t.SubmitErr
	}
	t.n++
	t.Submitted = append(t.Submitted, audioURL)
	return &ai.TranscriptResult{
		ID:     fmt.Sprintf("tr-%d", t.n),
		Status: ai.TranscriptStatusQueued,
	}, nil
}

func (t *Transcriber) Get(_ context.Context, transcriptID string) (*ai.TranscriptResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.Results[transcriptID]; ok {
		return r, nil
	}
	return &ai.TranscriptResult{ID: transcriptID, Status: ai.TranscriptStatusProcessing}, nil
}

// SetResult registers the transcript Get returns for id
func (t *Transcriber) SetResult(id string, r *ai.TranscriptResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Results == nil {
		t.Results = make(map[string]*ai.TranscriptResult)
	}
	t.Results[id] = r
}

func (t *Transcriber) WebhookURL() string { return "" }

// Narrator returns Response and records the media it was sent
type Narrator struct {
	mu        sync.Mutex
	Response  string
	Err       error
	Media     [][]byte
	MimeTypes []string
	Prompts   []string
}

func (n *Narrator) Narrate(_ context.Context, media io.Reader, mimeType, prompt string) (string, error) {
	data, err := io.ReadAll(media)
	if err != nil {
		return "", err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Media = append(n.Media, data)
	n.MimeTypes = append(n.MimeTypes, mimeType)
	n.Prompts = append(n.Prompts, prompt)
	if n.Err != nil {
		return "", n.Err
	}
	return n.Response, nil
}

func (n *Narrator) Model() string { return "fake-narrator" }

// CallCount returns how many times Narrate ran
func (n *Narrator) CallCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Prompts)
}
