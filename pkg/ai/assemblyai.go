package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// Transcript statuses reported by AssemblyAI
const (
	TranscriptStatusQueued     = string(aai.TranscriptStatusQueued)
	TranscriptStatusProcessing = string(aai.TranscriptStatusProcessing)
	TranscriptStatusCompleted  = string(aai.TranscriptStatusCompleted)
	TranscriptStatusError      = string(aai.TranscriptStatusError)
)

// Segment is one diarized utterance with times in seconds
type Segment struct {
	Speaker    string
	Start      float64
	End        float64
	Text       string
	Confidence *float64
}

// TranscriptResult is the provider-neutral view of a transcript
type TranscriptResult struct {
	ID       string
	Status   string
	Error    string
	Segments []Segment
	// Raw is the provider response as JSON, kept on the ASR job
	Raw []byte
}

// AssemblyAIClient wraps the official SDK
type AssemblyAIClient struct {
	client        *aai.Client
	webhookURL    string
	webhookHeader string
	webhookSecret string
	language      string
	speakerLabels bool
	retry         func() backoff.BackOff
}

// AssemblyAIOption customises the client, mostly for tests
type AssemblyAIOption func(*assemblyAIOptions)

type assemblyAIOptions struct {
	baseURL string
	retry   func() backoff.BackOff
}

// WithAssemblyAIBaseURL points the SDK at another endpoint
func WithAssemblyAIBaseURL(url string) AssemblyAIOption {
	return func(o *assemblyAIOptions) { o.baseURL = url }
}

// WithAssemblyAIRetry replaces the submit backoff policy
func WithAssemblyAIRetry(fn func() backoff.BackOff) AssemblyAIOption {
	return func(o *assemblyAIOptions) { o.retry = fn }
}

// NewAssemblyAIClient creates an AssemblyAI client from config
func NewAssemblyAIClient(cfg config.AssemblyConfig, opts ...AssemblyAIOption) *AssemblyAIClient {
	o := assemblyAIOptions{retry: defaultSubmitBackoff}
	for _, opt := range opts {
		opt(&o)
	}

	var clientOpts []aai.ClientOption
	if o.baseURL != "" {
		clientOpts = append(clientOpts, aai.WithBaseURL(o.baseURL))
	}

	return &AssemblyAIClient{
		client:        aai.NewClientWithOptions(append([]aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}, clientOpts...)...),
		webhookURL:    cfg.WebhookURL,
		webhookHeader: cfg.WebhookHeader,
		webhookSecret: cfg.WebhookSecret,
		language:      cfg.Language,
		speakerLabels: cfg.SpeakerLabels,
		retry:         o.retry,
	}
}

func defaultSubmitBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	bo.MaxInterval = 10 * time.Second
	return bo
}

// WebhookURL is the callback sent with each submission
func (c *AssemblyAIClient) WebhookURL() string {
	return c.webhookURL
}

// Submit queues a transcription of audioURL and returns the provider job.
// The call does not wait for the transcript; completion arrives by webhook
// or by polling Get.
func (c *AssemblyAIClient) Submit(ctx context.Context, audioURL string) (*TranscriptResult, error) {
	audioURL = strings.TrimSpace(audioURL)
	if audioURL == "" {
		return nil, errors.New("audio URL is required")
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(c.speakerLabels),
	}
	if c.language != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(c.language)
	}
	if c.webhookURL != "" {
		params.WebhookURL = aai.String(c.webhookURL)
		if c.webhookSecret != "" {
			params.WebhookAuthHeaderName = aai.String(c.webhookHeader)
			params.WebhookAuthHeaderValue = aai.String(c.webhookSecret)
		}
	}

	var transcript aai.Transcript
	submitFn := func() error {
		var err error
		transcript, err = c.client.Transcripts.SubmitFromURL(ctx, audioURL, params)
		if code := HTTPStatus(err); code >= 400 && !Retryable(code) {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(submitFn, backoff.WithContext(c.retry(), ctx)); err != nil {
		return nil, fmt.Errorf("failed to submit to AssemblyAI: %w", err)
	}

	return convertTranscript(transcript)
}

// Get fetches a transcript by provider id
func (c *AssemblyAIClient) Get(ctx context.Context, transcriptID string) (*TranscriptResult, error) {
	transcript, err := c.client.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript %s: %w", transcriptID, err)
	}
	return convertTranscript(transcript)
}

func convertTranscript(t aai.Transcript) (*TranscriptResult, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}

	res := &TranscriptResult{
		Status:   string(t.Status),
		Segments: ConvertUtterances(t.Utterances),
		Raw:      raw,
	}
	if t.ID != nil {
		res.ID = *t.ID
	}
	if t.Error != nil {
		res.Error = *t.Error
	}
	return res, nil
}

// ConvertUtterances maps SDK utterances to segments. AssemblyAI reports
// times in milliseconds.
func ConvertUtterances(utts []aai.TranscriptUtterance) []Segment {
	out := make([]Segment, 0, len(utts))
	for _, utt := range utts {
		seg := Segment{Confidence: utt.Confidence}
		if utt.Text != nil {
			seg.Text = strings.TrimSpace(*utt.Text)
		}
		if utt.Speaker != nil {
			seg.Speaker = *utt.Speaker
		}
		if utt.Start != nil {
			seg.Start = float64(*utt.Start) / 1000.0
		}
		if utt.End != nil {
			seg.End = float64(*utt.End) / 1000.0
		}
		if seg.End < seg.Start {
			seg.End = seg.Start
		}
		if seg.Text == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// WebhookEvent is the body AssemblyAI posts when a transcript changes state
type WebhookEvent struct {
	TranscriptID string
	Status       string
}

// ParseWebhook extracts the transcript id and status from a webhook body
func ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	id, _ := body["transcript_id"].(string)
	if id == "" {
		// Older payloads use "id"
		id, _ = body["id"].(string)
	}
	if id == "" {
		return nil, errors.New("transcript ID missing in webhook")
	}

	status, _ := body["status"].(string)
	return &WebhookEvent{TranscriptID: id, Status: status}, nil
}
