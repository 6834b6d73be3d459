package ai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-intel/internal/usecase/lifecycle"
	"github.com/johnquangdev/meeting-intel/internal/usecase/rag"
	pkgai "github.com/johnquangdev/meeting-intel/pkg/ai"
	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// Service drives meetings through transcription, indexing and summarization
type Service interface {
	// Transcribe submits a meeting in uploaded or error state to the ASR provider
	Transcribe(ctx context.Context, meetingID uuid.UUID) (*entities.AsrJob, error)

	// HandleWebhook processes an ASR provider callback
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// StartWorkerPool starts the background workers
	StartWorkerPool(ctx context.Context, workerCount int) error

	// StopWorkerPool stops the workers and waits for in-flight jobs
	StopWorkerPool() error
}

// Transcriber is the ASR provider
type Transcriber interface {
	Submit(ctx context.Context, audioURL string) (*pkgai.TranscriptResult, error)
	Get(ctx context.Context, transcriptID string) (*pkgai.TranscriptResult, error)
	WebhookURL() string
}

// MediaStore signs URLs the ASR provider downloads media from
type MediaStore interface {
	GetFileURL(ctx context.Context, objectName string) (string, error)
}

var _ Transcriber = (*pkgai.AssemblyAIClient)(nil)

// Deps groups the pipeline collaborators
type Deps struct {
	Meetings    repositories.MeetingRepository
	Utterances  repositories.UtteranceRepository
	AsrJobs     repositories.AsrJobRepository
	Files       repositories.FileRepository
	Media       MediaStore
	Transcriber Transcriber
	Indexer     *rag.Indexer
	Summarizer  *rag.Summarizer
	Locks       cache.Store
	Lifecycle   *lifecycle.Transitioner
	Metrics     *metrics.PipelineMetrics
	Logger      *zap.Logger
}

// Options tunes the pipeline
type Options struct {
	Pipeline      config.PipelineConfig
	WebhookSecret string
	// MaxConcurrentSubmits bounds parallel ASR submissions
	MaxConcurrentSubmits int
	// BatchSize bounds how many rows a worker tick picks up
	BatchSize int
}

type pipelineService struct {
	meetings    repositories.MeetingRepository
	utterances  repositories.UtteranceRepository
	asrJobs     repositories.AsrJobRepository
	files       repositories.FileRepository
	media       MediaStore
	transcriber Transcriber
	indexer     *rag.Indexer
	summarizer  *rag.Summarizer
	locks       cache.Store
	lifecycle   *lifecycle.Transitioner
	metrics     *metrics.PipelineMetrics
	cfg         config.PipelineConfig
	secret      string
	batchSize   int
	logger      *zap.Logger

	uploadSemaphore     chan struct{} // bounds concurrent ASR submissions
	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

var _ Service = (*pipelineService)(nil)

// NewPipelineService constructs the pipeline service
func NewPipelineService(deps Deps, opts Options) Service {
	if opts.MaxConcurrentSubmits <= 0 {
		opts.MaxConcurrentSubmits = 2
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.Pipeline.PollInterval <= 0 {
		opts.Pipeline.PollInterval = 15 * time.Second
	}
	if opts.Pipeline.ASRPollAfter <= 0 {
		opts.Pipeline.ASRPollAfter = 5 * time.Minute
	}

	return &pipelineService{
		meetings:        deps.Meetings,
		utterances:      deps.Utterances,
		asrJobs:         deps.AsrJobs,
		files:           deps.Files,
		media:           deps.Media,
		transcriber:     deps.Transcriber,
		indexer:         deps.Indexer,
		summarizer:      deps.Summarizer,
		locks:           deps.Locks,
		lifecycle:       deps.Lifecycle,
		metrics:         deps.Metrics,
		cfg:             opts.Pipeline,
		secret:          opts.WebhookSecret,
		batchSize:       opts.BatchSize,
		logger:          deps.Logger,
		uploadSemaphore: make(chan struct{}, opts.MaxConcurrentSubmits),
		workerStopChan:  make(chan struct{}),
	}
}

// StartWorkerPool starts the upload and poll workers plus workerCount
// index and summary workers
func (s *pipelineService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}
	if workerCount <= 0 {
		workerCount = 1
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting pipeline worker pool",
			zap.Int("worker_count", workerCount),
			zap.Duration("poll_interval", s.cfg.PollInterval),
			zap.Bool("auto_index", s.cfg.AutoIndex),
			zap.Bool("auto_summarize", s.cfg.AutoSummarize),
		)
	}

	s.workerWg.Add(2)
	go s.runWorker(ctx, "upload", 0, func(ctx context.Context, _ int) { s.ProcessUploads(ctx) })
	go s.runWorker(ctx, "asr_poll", 0, func(ctx context.Context, _ int) { s.PollTranscripts(ctx) })

	for i := 0; i < workerCount; i++ {
		if s.cfg.AutoIndex {
			s.workerWg.Add(1)
			go s.runWorker(ctx, "index", i, func(ctx context.Context, id int) { s.ProcessIndexing(ctx, id) })
		}
		if s.cfg.AutoSummarize {
			s.workerWg.Add(1)
			go s.runWorker(ctx, "summary", i, func(ctx context.Context, id int) { s.ProcessSummaries(ctx, id) })
		}
	}

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *pipelineService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping pipeline worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Pipeline worker pool stopped")
	}

	return nil
}

// runWorker calls tick on every poll interval until the pool stops
func (s *pipelineService) runWorker(parentCtx context.Context, name string, workerID int, tick func(context.Context, int)) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Worker started",
			zap.String("worker", name),
			zap.Int("worker_id", workerID),
		)
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Worker stopping",
					zap.String("worker", name),
					zap.Int("worker_id", workerID),
				)
			}
			return

		case <-parentCtx.Done():
			return

		case <-ticker.C:
			tick(parentCtx, workerID)
		}
	}
}
