package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics holds the Prometheus metrics for ingest, indexing and chat
type PipelineMetrics struct {
	// Pipeline metrics
	StageRunsTotal    *prometheus.CounterVec
	StageSeconds      *prometheus.HistogramVec
	StatusTransitions *prometheus.CounterVec

	// Retrieval metrics
	ChunksIndexedTotal *prometheus.CounterVec
	ChatRequestsTotal  *prometheus.CounterVec
	ChatSeconds        *prometheus.HistogramVec
	ChatCitations      prometheus.Histogram

	// Provider metrics
	ProviderCallsTotal *prometheus.CounterVec
}

// NewPipelineMetrics registers the metrics with reg
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)

	return &PipelineMetrics{
		StageRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_pipeline_stage_runs_total",
				Help: "Pipeline stage runs by outcome",
			},
			[]string{"stage", "status"},
		),
		StageSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meeting_pipeline_stage_seconds",
				Help:    "Duration of a pipeline stage",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
			},
			[]string{"stage"},
		),
		StatusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_status_transitions_total",
				Help: "Meeting status changes by target status",
			},
			[]string{"status"},
		),
		ChunksIndexedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_chunks_indexed_total",
				Help: "Chunks written by the indexer",
			},
			[]string{"source"},
		),
		ChatRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_chat_requests_total",
				Help: "Chat requests by outcome",
			},
			[]string{"status", "reranked"},
		),
		ChatSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meeting_chat_seconds",
				Help:    "End to end chat latency",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"reranked"},
		),
		ChatCitations: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meeting_chat_citations",
				Help:    "Citations returned per chat answer",
				Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
			},
		),
		ProviderCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_provider_calls_total",
				Help: "External AI provider calls by outcome",
			},
			[]string{"provider", "operation", "status"},
		),
	}
}

// NewNoopMetrics registers on a private registry, for tests and tools
func NewNoopMetrics() *PipelineMetrics {
	return NewPipelineMetrics(prometheus.NewRegistry())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// ObserveStage records one stage run
func (m *PipelineMetrics) ObserveStage(stage string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.StageRunsTotal.WithLabelValues(stage, statusLabel(err)).Inc()
	m.StageSeconds.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

// ObserveTransition counts a persisted status change
func (m *PipelineMetrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

// ObserveIndexed counts chunks written for a source
func (m *PipelineMetrics) ObserveIndexed(source string, n int) {
	if m == nil {
		return
	}
	m.ChunksIndexedTotal.WithLabelValues(source).Add(float64(n))
}

// ObserveChat records one chat request
func (m *PipelineMetrics) ObserveChat(started time.Time, reranked bool, citations int, err error) {
	if m == nil {
		return
	}
	m.ChatRequestsTotal.WithLabelValues(statusLabel(err), boolLabel(reranked)).Inc()
	m.ChatSeconds.WithLabelValues(boolLabel(reranked)).Observe(time.Since(started).Seconds())
	if err == nil {
		m.ChatCitations.Observe(float64(citations))
	}
}

// ObserveProvider counts one provider call
func (m *PipelineMetrics) ObserveProvider(provider, operation string, err error) {
	if m == nil {
		return
	}
	m.ProviderCallsTotal.WithLabelValues(provider, operation, statusLabel(err)).Inc()
}
