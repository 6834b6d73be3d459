package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	genaiopt "google.golang.org/api/option"

	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// Narrator describes a recording from its pictures and sound
type Narrator interface {
	// Narrate sends the media with the prompt and returns the model reply
	Narrate(ctx context.Context, media io.Reader, mimeType, prompt string) (string, error)
	Model() string
}

// ErrMediaNotReady is returned when uploaded media never became usable
var ErrMediaNotReady = errors.New("media processing did not finish")

// GeminiNarrator uploads media through the Gemini File API and asks a
// multimodal model about it
type GeminiNarrator struct {
	client *genai.Client
	model  string
	wait   func() backoff.BackOff
}

// NewGeminiNarrator creates a narrator. Close releases the client.
func NewGeminiNarrator(ctx context.Context, cfg config.GeminiConfig) (*GeminiNarrator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GOOGLE_API_KEY is required for narration")
	}
	client, err := genai.NewClient(ctx, genaiopt.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiNarrator{
		client: client,
		model:  cfg.Model,
		wait:   defaultFileWait,
	}, nil
}

func defaultFileWait() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 5 * time.Minute
	return bo
}

func (n *GeminiNarrator) Model() string { return n.model }

func (n *GeminiNarrator) Narrate(ctx context.Context, media io.Reader, mimeType, prompt string) (string, error) {
	file, err := n.client.UploadFile(ctx, "", media, &genai.UploadFileOptions{MIMEType: mimeType})
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}
	defer n.client.DeleteFile(context.WithoutCancel(ctx), file.Name)

	file, err = n.waitActive(ctx, file)
	if err != nil {
		return "", err
	}

	model := n.client.GenerativeModel(n.model)
	model.ResponseMIMEType = "application/json"
	rsp, err := model.GenerateContent(ctx,
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
		genai.Text(prompt),
	)
	if err != nil {
		return "", err
	}
	return responseText(rsp)
}

// waitActive polls until the uploaded file leaves the processing state
func (n *GeminiNarrator) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	current := file
	check := func() error {
		switch current.State {
		case genai.FileStateActive:
			return nil
		case genai.FileStateProcessing:
			next, err := n.client.GetFile(ctx, current.Name)
			if err != nil {
				return err
			}
			current = next
			if current.State == genai.FileStateActive {
				return nil
			}
			return ErrMediaNotReady
		default:
			return backoff.Permanent(fmt.Errorf("%w: state %v", ErrMediaNotReady, current.State))
		}
	}
	if err := backoff.Retry(check, backoff.WithContext(n.wait(), ctx)); err != nil {
		return nil, err
	}
	return current, nil
}

func (n *GeminiNarrator) Close() error {
	return n.client.Close()
}

// responseText joins the text parts of the first candidate
func responseText(rsp *genai.GenerateContentResponse) (string, error) {
	if rsp == nil || len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Google")
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}
