package redsync

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements the Metrics interface using Prometheus.
type PrometheusMetrics struct {
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	registry   *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance. If
// registry is nil, uses the default Prometheus registry.
func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer.(*prometheus.Registry)
	}

	pm := &PrometheusMetrics{
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		registry:   registry,
	}

	pm.registerDefaultMetrics()
	return pm
}

// registerDefaultMetrics registers the standard redsync metrics.
func (p *PrometheusMetrics) registerDefaultMetrics() {
	p.counters[MetricAcquireSuccess] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "acquire",
			Name:      "success_total",
			Help:      "Total number of acquire attempts that reached quorum under a valid window",
		},
		[]string{},
	)

	p.counters[MetricAcquireAttemptFail] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "acquire",
			Name:      "attempt_failed_total",
			Help:      "Total number of individual acquire attempts that failed to reach quorum",
		},
		[]string{},
	)

	p.counters[MetricExtendSuccess] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "extend",
			Name:      "success_total",
			Help:      "Total number of extend attempts that reached quorum under a valid window",
		},
		[]string{},
	)

	p.counters[MetricExtendAttemptFail] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "extend",
			Name:      "attempt_failed_total",
			Help:      "Total number of individual extend attempts that failed to reach quorum",
		},
		[]string{},
	)

	p.counters[MetricUnlockSuccess] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "unlock",
			Name:      "success_total",
			Help:      "Total number of unlock calls that reached quorum",
		},
		[]string{"op"},
	)

	p.counters[MetricUnlockFailed] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "unlock",
			Name:      "failed_total",
			Help:      "Total number of unlock calls that fell below quorum",
		},
		[]string{"op"},
	)

	p.counters[MetricInstanceCallError] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "instance",
			Name:      "call_errors_total",
			Help:      "Total number of per-instance call errors, by error kind",
		},
		[]string{"kind"},
	)

	p.histograms[MetricInstanceCallLatency] = promauto.With(p.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "redsync",
			Subsystem: "instance",
			Name:      "call_duration_seconds",
			Help:      "Per-instance acquire/extend/release call duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"op"},
	)

	p.counters[MetricCircuitOpen] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "circuit",
			Name:      "opened_total",
			Help:      "Total number of times a per-instance circuit breaker opened",
		},
		[]string{},
	)

	p.counters[MetricCircuitHalfOpen] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redsync",
			Subsystem: "circuit",
			Name:      "half_opened_total",
			Help:      "Total number of times a per-instance circuit breaker moved to half-open",
		},
		[]string{},
	)
}

// Increment increments a Prometheus counter.
func (p *PrometheusMetrics) Increment(name string, tags ...string) {
	counter, ok := p.counters[name]
	if !ok {
		counter = promauto.With(p.registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "redsync",
				Name:      strings.ReplaceAll(name, ".", "_"),
				Help:      "Dynamic counter: " + name,
			},
			p.extractLabels(tags),
		)
		p.counters[name] = counter
	}

	labels := p.extractLabelValues(tags)
	counter.With(labels).Inc()
}

// Gauge sets a Prometheus gauge value.
func (p *PrometheusMetrics) Gauge(name string, value float64, tags ...string) {
	gauge, ok := p.gauges[name]
	if !ok {
		gauge = promauto.With(p.registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "redsync",
				Name:      strings.ReplaceAll(name, ".", "_"),
				Help:      "Dynamic gauge: " + name,
			},
			p.extractLabels(tags),
		)
		p.gauges[name] = gauge
	}

	labels := p.extractLabelValues(tags)
	gauge.With(labels).Set(value)
}

// Histogram records a value in a Prometheus histogram.
func (p *PrometheusMetrics) Histogram(name string, value float64, tags ...string) {
	histogram, ok := p.histograms[name]
	if !ok {
		histogram = promauto.With(p.registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "redsync",
				Name:      strings.ReplaceAll(name, ".", "_"),
				Help:      "Dynamic histogram: " + name,
				Buckets:   prometheus.DefBuckets,
			},
			p.extractLabels(tags),
		)
		p.histograms[name] = histogram
	}

	labels := p.extractLabelValues(tags)
	histogram.With(labels).Observe(value)
}

// Timing records a duration in a Prometheus histogram, in seconds.
func (p *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...string) {
	p.Histogram(name, duration.Seconds(), tags...)
}

// extractLabels extracts label names from tags (every even index).
func (p *PrometheusMetrics) extractLabels(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	labels := make([]string, 0, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		if i < len(tags) {
			labels = append(labels, tags[i])
		}
	}
	return labels
}

// extractLabelValues creates a label map from tags (key-value pairs).
func (p *PrometheusMetrics) extractLabelValues(tags []string) prometheus.Labels {
	if len(tags) == 0 {
		return prometheus.Labels{}
	}

	labels := make(prometheus.Labels)
	for i := 0; i < len(tags)-1; i += 2 {
		labels[tags[i]] = tags[i+1]
	}
	return labels
}

// GetRegistry returns the underlying Prometheus registry.
func (p *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return p.registry
}
