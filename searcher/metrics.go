package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetrics struct {
	Goroutines   int
	Duration     time.Duration
	Episodes     int64
	FullPlayouts int64
}

type MetricsCollector interface {
	Start(goroutines int)
	AddFullPlayout()
	AddEpisode()
	Complete() SearchMetrics
}

type metricsCollector struct {
	goroutines   int
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start(goroutines int) {
	m.goroutines = goroutines
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *metricsCollector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *metricsCollector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *metricsCollector) Complete() SearchMetrics {
	return SearchMetrics{
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Episodes:     m.episodes.Load(),
		FullPlayouts: m.fullPlayouts.Load(),
	}
}
