package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Pipeline  PipelineConfig
	Assembly  AssemblyConfig
	Embedding EmbeddingConfig
	LLM       LLMConfig
	Rerank    RerankConfig
	Gemini    GeminiConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
	// WriteTimeout covers long multipart ingest requests
	WriteTimeout time.Duration
	MaxUploadMB  int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
	PresignExpiry   time.Duration
}

// AuthConfig holds API token configuration. An empty secret disables auth.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// PipelineConfig controls the background workers that drive meeting status
type PipelineConfig struct {
	Workers         int
	PollInterval    time.Duration
	ASRPollAfter    time.Duration
	JobTimeout      time.Duration
	MaxRetries      int
	AutoIndex       bool
	AutoSummarize   bool
	IndexSummary    bool
	ChunkMaxChars   int
	CandidatePool   int
	SummaryCacheTTL time.Duration
}

// AssemblyConfig holds AssemblyAI settings
type AssemblyConfig struct {
	APIKey        string `envconfig:"ASSEMBLYAI_API_KEY"`
	WebhookURL    string `envconfig:"ASSEMBLYAI_WEBHOOK_URL"`
	WebhookSecret string `envconfig:"ASSEMBLYAI_WEBHOOK_SECRET"`
	WebhookHeader string `envconfig:"ASSEMBLYAI_WEBHOOK_HEADER" default:"X-Webhook-Secret"`
	Language      string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"en"`
	SpeakerLabels bool   `envconfig:"ASSEMBLYAI_SPEAKER_LABELS" default:"true"`
}

// EmbeddingConfig holds embedding provider settings
type EmbeddingConfig struct {
	Provider  string `envconfig:"EMBEDDINGS_PROVIDER" default:"openai"`
	APIKey    string `envconfig:"OPENAI_API_KEY"`
	BaseURL   string `envconfig:"OPENAI_BASE_URL"`
	Model     string `envconfig:"OPENAI_EMBED_MODEL" default:"text-embedding-3-large"`
	Dim       int    `envconfig:"EMBEDDING_DIM"`
	BatchSize int    `envconfig:"EMBEDDING_BATCH_SIZE" default:"96"`
}

// LLMConfig holds the answer/summary generator settings
type LLMConfig struct {
	Provider        string  `envconfig:"LLM_PROVIDER" default:"openai"`
	Model           string  `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	APIKey          string  `envconfig:"LLM_API_KEY"`
	BaseURL         string  `envconfig:"LLM_BASE_URL"`
	Temperature     float32 `envconfig:"LLM_TEMPERATURE" default:"0"`
	MaxTokens       int     `envconfig:"LLM_MAX_TOKENS" default:"1024"`
	SummaryMaxChars int     `envconfig:"SUMMARY_MAX_CHARS" default:"60000"`
}

// RerankConfig holds reranker settings
type RerankConfig struct {
	Provider string `envconfig:"RERANK_PROVIDER" default:"cohere"`
	Model    string `envconfig:"RERANK_MODEL" default:"rerank-3.5"`
	APIKey   string `envconfig:"RERANK_API_KEY"`
	BaseURL  string `envconfig:"RERANK_BASE_URL" default:"https://api.cohere.ai"`
}

// GeminiConfig holds Google Gemini settings
type GeminiConfig struct {
	APIKey string `envconfig:"GOOGLE_API_KEY"`
	Model  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	// NarrationEnabled turns on video narration ahead of summaries
	NarrationEnabled bool `envconfig:"GEMINI_NARRATION_ENABLED" default:"false"`
	NarrationWindow  int  `envconfig:"GEMINI_NARRATION_WINDOW_SECONDS" default:"30"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderCohere    = "cohere"
	ProviderNone      = "none"
)

// DefaultDimension returns the vector size produced by a known embedding model
func DefaultDimension(model string) int {
	if strings.Contains(model, "3-large") {
		return 3072
	}
	return 1536
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "600s"),
			MaxUploadMB:     getEnvAsInt("MAX_UPLOAD_MB", 1024),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meeting_intel"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meetings"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			PresignExpiry:   getEnvAsDuration("STORAGE_PRESIGN_EXPIRY", "24h"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("API_JWT_SECRET", ""),
			Issuer:    getEnv("API_JWT_ISSUER", "meeting-intel"),
		},
		Pipeline: PipelineConfig{
			Workers:         getEnvAsInt("PIPELINE_WORKERS", 2),
			PollInterval:    getEnvAsDuration("PIPELINE_POLL_INTERVAL", "15s"),
			ASRPollAfter:    getEnvAsDuration("ASR_POLL_AFTER", "5m"),
			JobTimeout:      getEnvAsDuration("PIPELINE_JOB_TIMEOUT", "10m"),
			MaxRetries:      getEnvAsInt("PIPELINE_MAX_RETRIES", 3),
			AutoIndex:       getEnvAsBool("AUTO_INDEX", true),
			AutoSummarize:   getEnvAsBool("AUTO_SUMMARIZE", true),
			IndexSummary:    getEnvAsBool("INDEX_SUMMARY", true),
			ChunkMaxChars:   getEnvAsInt("CHUNK_MAX_CHARS", 900),
			CandidatePool:   getEnvAsInt("CHAT_CANDIDATE_POOL", 30),
			SummaryCacheTTL: getEnvAsDuration("SUMMARY_CACHE_TTL", "1h"),
		},
	}

	// Provider sections are declared with struct tags
	for _, section := range []interface{}{&config.Assembly, &config.Embedding, &config.LLM, &config.Rerank, &config.Gemini} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to read provider config: %w", err)
		}
	}

	if config.Embedding.Dim == 0 {
		config.Embedding.Dim = getEnvAsInt("PGVECTOR_DIM", DefaultDimension(config.Embedding.Model))
	}

	if config.LLM.APIKey == "" {
		switch config.LLM.Provider {
		case ProviderOpenAI:
			config.LLM.APIKey = config.Embedding.APIKey
		case ProviderGemini:
			config.LLM.APIKey = config.Gemini.APIKey
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.warnMissingKeys()

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Embedding.Dim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive")
	}
	switch c.Embedding.Provider {
	case ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported EMBEDDINGS_PROVIDER: %s", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGroq, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLM.Provider)
	}
	switch c.Rerank.Provider {
	case ProviderCohere, ProviderNone, "":
	default:
		return fmt.Errorf("unsupported RERANK_PROVIDER: %s", c.Rerank.Provider)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("PIPELINE_WORKERS must not be negative")
	}
	if c.Pipeline.PollInterval <= 0 {
		return fmt.Errorf("PIPELINE_POLL_INTERVAL must be positive")
	}
	if c.Pipeline.ChunkMaxChars <= 0 {
		return fmt.Errorf("CHUNK_MAX_CHARS must be positive")
	}
	return nil
}

func (c *Config) warnMissingKeys() {
	if c.Assembly.APIKey == "" {
		log.Printf("Warning: ASSEMBLYAI_API_KEY is empty, transcription will fail")
	}
	if c.Embedding.APIKey == "" {
		log.Printf("Warning: OPENAI_API_KEY is empty, indexing and chat will fail")
	}
	if c.LLM.APIKey == "" {
		log.Printf("Warning: LLM_API_KEY is empty for provider %s", c.LLM.Provider)
	}
}

// RerankEnabled reports whether a reranker is configured
func (c *Config) RerankEnabled() bool {
	return c.Rerank.Provider == ProviderCohere && c.Rerank.APIKey != ""
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key string, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
