package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the test and restores them afterwards
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_EMBED_MODEL", "text-embedding-3-large")
	unsetenv(t, "EMBEDDING_DIM", "PGVECTOR_DIM", "ENVIRONMENT")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3072, cfg.Embedding.Dim)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey, "openai generator reuses the embeddings key")
	assert.Equal(t, 900, cfg.Pipeline.ChunkMaxChars)
	assert.Equal(t, 15*time.Second, cfg.Pipeline.PollInterval)
	assert.Equal(t, "X-Webhook-Secret", cfg.Assembly.WebhookHeader)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EMBEDDING_DIM", "1536")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("RERANK_PROVIDER", "cohere")
	t.Setenv("RERANK_API_KEY", "co-test")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PIPELINE_POLL_INTERVAL", "3s")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1536, cfg.Embedding.Dim)
	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.True(t, cfg.RerankEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Pipeline.PollInterval)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Embedding: EmbeddingConfig{Provider: ProviderOpenAI, Dim: 1536},
			LLM:       LLMConfig{Provider: ProviderGemini},
			Rerank:    RerankConfig{Provider: ProviderNone},
			Pipeline:  PipelineConfig{Workers: 1, PollInterval: time.Second, ChunkMaxChars: 900},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"zero dimension":      func(c *Config) { c.Embedding.Dim = 0 },
		"unknown embedder":    func(c *Config) { c.Embedding.Provider = "ollama" },
		"unknown llm":         func(c *Config) { c.LLM.Provider = "mystery" },
		"unknown reranker":    func(c *Config) { c.Rerank.Provider = "jina" },
		"negative workers":    func(c *Config) { c.Pipeline.Workers = -1 },
		"zero poll interval":  func(c *Config) { c.Pipeline.PollInterval = 0 },
		"zero chunk max size": func(c *Config) { c.Pipeline.ChunkMaxChars = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultDimension(t *testing.T) {
	assert.Equal(t, 3072, DefaultDimension("text-embedding-3-large"))
	assert.Equal(t, 1536, DefaultDimension("text-embedding-3-small"))
}
