package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-intel/pkg/validator"

	_ "github.com/johnquangdev/meeting-intel/docs"
	"github.com/johnquangdev/meeting-intel/internal/adapter/handler"
	"github.com/johnquangdev/meeting-intel/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/meeting-intel/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/storage"
	aiuse "github.com/johnquangdev/meeting-intel/internal/usecase/ai"
	"github.com/johnquangdev/meeting-intel/internal/usecase/lifecycle"
	"github.com/johnquangdev/meeting-intel/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intel/internal/usecase/rag"
	pkgai "github.com/johnquangdev/meeting-intel/pkg/ai"
	"github.com/johnquangdev/meeting-intel/pkg/config"
	"github.com/johnquangdev/meeting-intel/pkg/jwt"
)

// @title           Meeting Intelligence API
// @version         1.0
// @description     Upload meetings, transcribe them, and ask cited questions about what was said.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the API token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(logger)

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema with `admin migrate up`.
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with `admin migrate up`.")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping AutoMigrate; use `admin migrate up` for schema migrations in CI/CD/production")
	}

	// Initialize cache and locks (Redis, or in-memory fallback)
	log.Println("📦 Connecting to Redis...")
	store := cache.New(cfg)
	defer store.Close()

	// Initialize object storage
	log.Println("🪣 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	utteranceRepo := repository.NewUtteranceRepository(db)
	chunkRepo := repository.NewChunkRepository(db, cfg.Embedding.Dim)
	summaryRepo := repository.NewSummaryRepository(db)
	asrJobRepo := repository.NewAsrJobRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// The vector column must match what the embedder produces
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	colDim, err := chunkRepo.ColumnDimension(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to read embedding column dimension: %v", err)
	}
	if colDim > 0 && colDim != cfg.Embedding.Dim {
		log.Fatalf("EMBEDDING_DIM=%d does not match chunks.embedding vector(%d)", cfg.Embedding.Dim, colDim)
	}

	// Initialize AI providers
	log.Println("🤖 Initializing AI components...")
	embedder := pkgai.NewOpenAIEmbedder(cfg.Embedding)
	generator, err := pkgai.NewGenerator(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s generator: %v", cfg.LLM.Provider, err)
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}
	reranker := pkgai.NewReranker(cfg)
	if reranker == nil {
		log.Println("ℹ️ Reranking disabled")
	}
	transcriber := pkgai.NewAssemblyAIClient(cfg.Assembly)

	var narrations *rag.NarrationService
	if cfg.Gemini.NarrationEnabled {
		narrator, err := pkgai.NewGeminiNarrator(context.Background(), cfg.Gemini)
		if err != nil {
			log.Fatalf("Failed to initialize narrator: %v", err)
		}
		defer narrator.Close()
		narrations = rag.NewNarrationService(rag.NarratorDeps{
			Meetings:  meetingRepo,
			Files:     fileRepo,
			Media:     minioClient,
			Artifacts: minioClient,
			Provider:  narrator,
			Metrics:   pipelineMetrics,
			Logger:    logger,
		}, cfg.Gemini.NarrationWindow)
		log.Printf("🎬 Video narration enabled (model=%s, window=%ds)", narrator.Model(), cfg.Gemini.NarrationWindow)
	}

	// Initialize services
	log.Println("✨ Initializing services...")
	transitions := lifecycle.NewTransitioner(meetingRepo, pipelineMetrics, logger)
	indexer := rag.NewIndexer(rag.IndexerDeps{
		Meetings:   meetingRepo,
		Utterances: utteranceRepo,
		Summaries:  summaryRepo,
		Chunks:     chunkRepo,
		Embedder:   embedder,
		Locks:      store,
		Lifecycle:  transitions,
		Metrics:    pipelineMetrics,
		Logger:     logger,
	}, cfg.Pipeline.ChunkMaxChars)
	summarizer := rag.NewSummarizer(rag.SummarizerDeps{
		Meetings:   meetingRepo,
		Utterances: utteranceRepo,
		Summaries:  summaryRepo,
		Files:      fileRepo,
		Artifacts:  minioClient,
		Cache:      store,
		Generator:  generator,
		Narrations: narrationSource(narrations),
		Indexer:    indexer,
		Lifecycle:  transitions,
		Metrics:    pipelineMetrics,
		Logger:     logger,
	}, rag.SummarizerConfig{
		MaxChars:     cfg.LLM.SummaryMaxChars,
		CacheTTL:     cfg.Pipeline.SummaryCacheTTL,
		IndexSummary: cfg.Pipeline.IndexSummary,
	})
	chatService := rag.NewChatService(
		meetingRepo,
		chunkRepo,
		embedder,
		generator,
		reranker,
		pipelineMetrics,
		cfg.Pipeline.CandidatePool,
		logger,
	)
	meetingService := meeting.NewMeetingService(meetingRepo, utteranceRepo, fileRepo, minioClient, store, logger)
	pipelineService := aiuse.NewPipelineService(aiuse.Deps{
		Meetings:    meetingRepo,
		Utterances:  utteranceRepo,
		AsrJobs:     asrJobRepo,
		Files:       fileRepo,
		Media:       minioClient,
		Transcriber: transcriber,
		Indexer:     indexer,
		Summarizer:  summarizer,
		Locks:       store,
		Lifecycle:   transitions,
		Metrics:     pipelineMetrics,
		Logger:      logger,
	}, aiuse.Options{
		Pipeline:      cfg.Pipeline,
		WebhookSecret: cfg.Assembly.WebhookSecret,
	})

	// Start background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := pipelineService.StartWorkerPool(workerCtx, cfg.Pipeline.Workers); err != nil {
		log.Fatalf("Failed to start pipeline workers: %v", err)
	}
	log.Printf("👷 Pipeline workers started (workers=%d, auto_index=%t, auto_summarize=%t)",
		cfg.Pipeline.Workers, cfg.Pipeline.AutoIndex, cfg.Pipeline.AutoSummarize)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	meetingHandler := handler.NewMeetingHandler(meetingService, cfg.Server.MaxUploadMB, logger)
	ragHandler := handler.NewRAGHandler(indexer, summarizer, chatService, logger)
	if narrations != nil {
		ragHandler.WithNarrations(narrations)
	}
	aiController := handler.NewAIController(pipelineService, logger)
	aiWebhookHandler := handler.NewAIWebhookHandler(pipelineService, cfg.Assembly.WebhookHeader, logger)

	// Optional bearer auth on /api
	var authEchoMW echo.MiddlewareFunc
	if cfg.Auth.JWTSecret != "" {
		log.Println("🔑 API token auth enabled")
		authEchoMW = httpmw.EchoAuth(jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, 0))
	} else {
		log.Println("⚠️  API_JWT_SECRET is empty, /api is open")
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		database.Pinger(db),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		meetingHandler,
		ragHandler,
		aiController,
		aiWebhookHandler,
		authEchoMW,
	)
	router.Setup(e)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		ReadTimeout:  cfg.Server.WriteTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)
		log.Printf("📚 Swagger UI: http://%s/swagger/index.html", addr)

		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	if err := pipelineService.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Failed to stop pipeline workers: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// narrationSource keeps a nil service from becoming a non-nil interface
func narrationSource(n *rag.NarrationService) rag.NarrationSource {
	if n == nil {
		return nil
	}
	return n
}
