// Package redsync implements the Redlock distributed locking algorithm
// against a cluster of independent Redis-compatible servers. A lock is
// granted only once a quorum of the cluster agrees, with a validity window
// derived from the slowest acquisition and the cluster's clock drift.
//
// # Overview
//
// redsync gives multiple processes mutual exclusion over a named resource
// without a single point of failure. It provides:
//
//   - Quorum-based lock acquisition across N independent Redis nodes
//   - Lease extension and release, fenced by a per-lock nonce
//   - Bounded retry with jittered backoff on transient failures
//   - Per-instance circuit breaking so one dead node can't stall the cluster
//   - Full observability (Prometheus metrics + structured logging)
//
// # Quick Start
//
//	clients := []redis.Options{
//	    {Addr: "redis-1:6379"}, {Addr: "redis-2:6379"}, {Addr: "redis-3:6379"},
//	}
//	cluster := make([]redsync.Instance, len(clients))
//	for i, opts := range clients {
//	    inst, _ := redsync.NewRedisInstance(redis.NewClient(&opts), nil)
//	    cluster[i] = inst
//	}
//
//	manager, err := redsync.NewBuilder(cluster).Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	lock, err := manager.Lock("accounts/123", 10*time.Second)
//	if err != nil {
//	    // quorum could not be reached; safe to retry or fail the operation
//	}
//	defer manager.Unlock(lock)
//
// # Core Concepts
//
// Instance: the adapter talking to one backing server. RedisInstance is the
// production implementation (Lua EVAL over go-redis), wrapped in a circuit
// breaker so a down node degrades to fast failures instead of hanging the
// whole cluster.
//
// Manager: orchestrates Lock/Extend/Unlock across the cluster, computing
// quorum, validity, and retry/backoff. Built once via Builder and reused
// concurrently by every caller.
//
// Lock: the value object returned by a successful acquisition — resource
// name, nonce, TTL, and computed expiry. Passing it back into Extend or
// Unlock proves ownership via the nonce.
//
// # Production Setup with Observability
//
//	logger, _ := redsync.NewProductionZapLogger()
//	metrics := redsync.NewPrometheusMetrics(prometheus.NewRegistry())
//
//	manager, err := redsync.NewBuilder(cluster).
//	    WithLogger(logger).
//	    WithMetrics(metrics).
//	    RetryCount(5).
//	    RetryDelay(200 * time.Millisecond).
//	    Build()
//
// # Critical Gotchas
//
// 1. Clock drift: the validity window already subtracts an estimated drift
// budget from the raw TTL. Extremely skewed node clocks still erode the
// window Redlock promises; keep NTP running on every node.
//
// 2. Quorum loss mid-lease: Extend can fail even after a successful Lock if
// enough nodes become unreachable. Callers doing long critical sections
// should treat an Extend failure as "assume the lock is gone."
//
// 3. Best-effort cleanup: Unlock (and a failed Lock attempt's internal
// cleanup) fan out to every cluster node, but a node that is down simply
// won't release early — its key still expires on its own TTL.
//
// 4. Fencing: FenceToken derives a token from a lock's expiry, mixed with a
// hash of its resource and value, for passing to a downstream resource that
// can reject stale writers. Tokens are not strictly monotonic (see
// FenceToken). It is advisory only; the engine itself never consults it.
//
// # Repository and License
//
// Repository: https://github.com/distsyslabs/redsync
//
// License: MIT License - See LICENSE file for details
package redsync
