package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPipelineMetrics_Observe(t *testing.T) {
	m := NewPipelineMetrics(prometheus.NewRegistry())

	m.ObserveStage("index", time.Now(), nil)
	m.ObserveStage("index", time.Now(), errors.New("boom"))
	m.ObserveIndexed("transcript", 12)
	m.ObserveTransition("indexed")
	m.ObserveChat(time.Now(), true, 3, nil)
	m.ObserveProvider("openai", "embed", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageRunsTotal.WithLabelValues("index", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageRunsTotal.WithLabelValues("index", "error")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.ChunksIndexedTotal.WithLabelValues("transcript")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("indexed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequestsTotal.WithLabelValues("success", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderCallsTotal.WithLabelValues("openai", "embed", "success")))
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.ObserveStage("asr", time.Now(), nil)
		m.ObserveChat(time.Now(), false, 0, nil)
	})
}
