package redsync

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockInfo describes one key a node currently believes is locked. It is a
// single node's view: in a cluster of N instances, a resource can show up
// locked on some nodes and already expired on others.
type LockInfo struct {
	Resource string
	Value    string
	TTL      time.Duration
}

// InstanceAdmin exposes diagnostic and break-glass operations against the
// raw keyspace of one RedisInstance's client. It never participates in
// Manager's quorum math — ListLocks/ForceRelease talk to a single node and
// can disagree with the cluster's actual quorum state. Use it for
// dashboards and incident response, not for lock correctness decisions.
type InstanceAdmin struct {
	client  *redis.Client
	logger  Logger
	metrics Metrics
}

// NewInstanceAdmin wraps a Redis client for administrative inspection. Pass
// the same client backing one of the cluster's RedisInstance values.
func NewInstanceAdmin(client *redis.Client, logger Logger, metrics Metrics) *InstanceAdmin {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if metrics == nil {
		metrics = &NoOpMetrics{}
	}
	return &InstanceAdmin{client: client, logger: logger, metrics: metrics}
}

// ListLocks scans the node for keys matching pattern (e.g. "accounts/*")
// and reports their remaining TTL. Keys with no TTL set (ttl < 0) are
// skipped: they are not locks this engine created, since every lock here
// is written with PX.
func (a *InstanceAdmin) ListLocks(ctx context.Context, pattern string) ([]LockInfo, error) {
	var locks []LockInfo
	var cursor uint64

	for {
		keys, next, err := a.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redsync: scan failed: %w", err)
		}

		for _, key := range keys {
			ttl, err := a.client.PTTL(ctx, key).Result()
			if err != nil {
				a.logger.Warn("failed to read lock ttl", "key", key, "error", err)
				continue
			}
			if ttl <= 0 {
				continue
			}

			value, err := a.client.Get(ctx, key).Result()
			if err != nil {
				a.logger.Warn("failed to read lock value", "key", key, "error", err)
				continue
			}

			locks = append(locks, LockInfo{Resource: key, Value: value, TTL: ttl})
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	a.metrics.Gauge(MetricAdminLocksListed, float64(len(locks)))
	return locks, nil
}

// GetLockInfo reports the current state of a single resource key.
func (a *InstanceAdmin) GetLockInfo(ctx context.Context, resource string) (*LockInfo, error) {
	ttl, err := a.client.PTTL(ctx, resource).Result()
	if err != nil {
		return nil, fmt.Errorf("redsync: ttl lookup failed: %w", err)
	}
	if ttl <= 0 {
		return nil, ErrLockNotFound
	}

	value, err := a.client.Get(ctx, resource).Result()
	if err != nil {
		return nil, fmt.Errorf("redsync: value lookup failed: %w", err)
	}

	return &LockInfo{Resource: resource, Value: value, TTL: ttl}, nil
}

// ForceRelease deletes a resource's lock key unconditionally, without
// checking the nonce that owns it. This is a break-glass operation: only
// use it once you are certain the holder has crashed and will never call
// Unlock itself, since it can release a lock still legitimately held.
func (a *InstanceAdmin) ForceRelease(ctx context.Context, resource string) error {
	deleted, err := a.client.Del(ctx, resource).Result()
	if err != nil {
		a.metrics.Increment(MetricAdminReleaseFailed, "resource", resource)
		return fmt.Errorf("redsync: force release failed: %w", err)
	}
	if deleted == 0 {
		return ErrLockNotFound
	}

	a.logger.Warn("force-released lock", "resource", resource)
	a.metrics.Increment(MetricAdminForceRelease, "resource", resource)
	return nil
}
