package ai

import (
	"context"
	"fmt"

	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// Generator produces text from a system and a user prompt
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Model() string
}

// NewGenerator builds the generator for cfg.LLM.Provider
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	llm := cfg.LLM
	switch llm.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(llm), nil
	case config.ProviderGroq:
		if llm.BaseURL == "" {
			llm.BaseURL = GroqBaseURL
		}
		return NewOpenAIGenerator(llm), nil
	case config.ProviderAnthropic:
		return NewAnthropicGenerator(llm), nil
	case config.ProviderGemini:
		if llm.Model == "" || llm.Model == "gpt-4o-mini" {
			llm.Model = cfg.Gemini.Model
		}
		if llm.APIKey == "" {
			llm.APIKey = cfg.Gemini.APIKey
		}
		return NewGeminiGenerator(ctx, llm)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llm.Provider)
	}
}
