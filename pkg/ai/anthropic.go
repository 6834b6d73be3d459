package ai

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// AnthropicGenerator calls the Claude Messages API
type AnthropicGenerator struct {
	client      *anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewAnthropicGenerator creates a Messages API generator
func NewAnthropicGenerator(cfg config.LLMConfig) *AnthropicGenerator {
	opts := []anthropicopt.RequestOption{anthropicopt.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &AnthropicGenerator{
		client:      &client,
		model:       cfg.Model,
		temperature: float64(cfg.Temperature),
		maxTokens:   maxTokens,
	}
}

func (g *AnthropicGenerator) Model() string { return g.model }

func (g *AnthropicGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	req := anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   g.maxTokens,
		Temperature: anthropic.Float(g.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if system != "" {
		req.System = []anthropic.TextBlockParam{{Text: system}}
	}

	rsp, err := g.client.Messages.New(ctx, req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, content := range rsp.Content {
		if text, ok := content.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}

	result := strings.TrimSpace(b.String())
	if len(result) == 0 {
		return "", errors.New("no response from Anthropic")
	}

	return result, nil
}
