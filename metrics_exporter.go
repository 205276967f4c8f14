package redsync

import (
	"context"
	"time"
)

// StatsRecorder receives periodic snapshots of accumulated lock-engine
// counters. It decouples redsync from any specific metrics backend the
// embedding application already runs (Prometheus, Datadog, StatsD, ...).
type StatsRecorder interface {
	RecordLockStats(counters map[string]int, gauges map[string]float64)
}

// MetricsExporter periodically snapshots an *InMemoryMetrics sink and hands
// it to a StatsRecorder. Useful when a Manager is built with
// NewInMemoryMetrics() (e.g. during tests or a staged rollout) but the
// surrounding application still wants periodic export to its own backend.
type MetricsExporter struct {
	source   *InMemoryMetrics
	recorder StatsRecorder
	interval time.Duration
	stopCh   chan struct{}
}

// NewMetricsExporter creates an exporter that polls source every interval.
func NewMetricsExporter(source *InMemoryMetrics, recorder StatsRecorder, interval time.Duration) *MetricsExporter {
	return &MetricsExporter{
		source:   source,
		recorder: recorder,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins exporting on a ticker until ctx is canceled or Stop is
// called.
func (e *MetricsExporter) Start(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.ExportOnce()
		case <-e.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the exporter.
func (e *MetricsExporter) Stop() {
	close(e.stopCh)
}

// ExportOnce takes one snapshot and hands it to the recorder immediately.
func (e *MetricsExporter) ExportOnce() {
	counters := make(map[string]int, len(e.source.Counters))
	for k, v := range e.source.Counters {
		counters[k] = v
	}
	gauges := make(map[string]float64, len(e.source.Gauges))
	for k, v := range e.source.Gauges {
		gauges[k] = v
	}
	e.recorder.RecordLockStats(counters, gauges)
}
