package redsync

import "time"

const (
	defaultRetryCount  = 3
	defaultRetryDelay  = 200 * time.Millisecond
	defaultDriftFactor = 0.01
)

// Builder validates and assembles a Manager with tuned retry/jitter/drift
// parameters. Unset options fall back to the defaults the Redlock reference
// implementation uses.
type Builder struct {
	cluster     []Instance
	retryCount  int
	retryDelay  time.Duration
	retryJitter time.Duration
	jitterSet   bool
	logger      Logger
	metrics     Metrics
}

// NewBuilder starts a Builder over cluster with default tuning:
// retry_count=3, retry_delay=200ms, retry_jitter=half of retry_delay,
// drift_factor=0.01.
func NewBuilder(cluster []Instance) *Builder {
	return &Builder{
		cluster:    cluster,
		retryCount: defaultRetryCount,
		retryDelay: defaultRetryDelay,
	}
}

// RetryCount overrides the total attempts made in one Lock/Extend call.
func (b *Builder) RetryCount(n int) *Builder {
	b.retryCount = n
	return b
}

// RetryDelay overrides the base inter-attempt sleep. If RetryJitter has not
// been called, the jitter bound is recomputed as half of delay at Build
// time.
func (b *Builder) RetryDelay(d time.Duration) *Builder {
	b.retryDelay = d
	return b
}

// RetryJitter overrides the symmetric jitter bound directly, instead of
// deriving it from RetryDelay.
func (b *Builder) RetryJitter(d time.Duration) *Builder {
	b.retryJitter = d
	b.jitterSet = true
	return b
}

// WithLogger attaches a structured Logger to the resulting Manager.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetrics attaches a Metrics sink to the resulting Manager.
func (b *Builder) WithMetrics(metrics Metrics) *Builder {
	b.metrics = metrics
	return b
}

// Build validates the accumulated options and returns an immutable Manager,
// or the first validation error encountered.
func (b *Builder) Build() (*Manager, error) {
	if len(b.cluster) == 0 {
		return nil, WithContext(ErrEmptyCluster, map[string]interface{}{"size": 0})
	}
	if b.retryCount < 1 {
		return nil, WithContext(ErrInvalidRetryCount, map[string]interface{}{"retry_count": b.retryCount})
	}
	if b.retryDelay <= 0 {
		return nil, WithContext(ErrInvalidRetryDelay, map[string]interface{}{"retry_delay": b.retryDelay})
	}

	jitter := b.retryJitter
	if !b.jitterSet {
		jitter = time.Duration(float64(b.retryDelay) * 0.5)
	}
	if jitter < 0 {
		return nil, WithContext(ErrInvalidJitter, map[string]interface{}{"retry_jitter": jitter})
	}

	logger := b.logger
	if logger == nil {
		logger = &NoOpLogger{}
	}
	metrics := b.metrics
	if metrics == nil {
		metrics = &NoOpMetrics{}
	}

	cluster := make([]Instance, len(b.cluster))
	copy(cluster, b.cluster)

	return &Manager{
		cluster:     cluster,
		quorum:      len(cluster)/2 + 1,
		retryCount:  b.retryCount,
		retryDelay:  b.retryDelay,
		retryJitter: jitter,
		driftFactor: defaultDriftFactor,
		logger:      logger,
		metrics:     metrics,
	}, nil
}

// Quorum returns ⌊N/2⌋+1 for a cluster of size n.
func Quorum(n int) int {
	return n/2 + 1
}
