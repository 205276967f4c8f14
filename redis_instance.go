package redsync

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// lockScript implements the LOCK primitive: set resource=value if absent,
// with a millisecond expiry. KEYS=[resource], ARGV=[value, ttl_ms].
var lockScript = redis.NewScript(`return redis.call("set", KEYS[1], ARGV[1], "nx", "px", ARGV[2])`)

// unlockScript implements the UNLOCK primitive: delete resource only if it
// still holds the caller's value. KEYS=[resource], ARGV=[value].
var unlockScript = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`)

// extendScript implements the EXTEND primitive: refresh the expiry only if
// resource still holds the caller's value. KEYS=[resource], ARGV=[value, ttl_ms].
var extendScript = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("pexpire", KEYS[1], ARGV[2]) else return 0 end`)

// RedisInstance adapts a single go-redis client to the Instance interface,
// wrapping every call with a connection-acquisition timeout scaled to the
// lease ttl and a circuit breaker so one unhealthy node degrades to fast
// failures instead of consuming every attempt's deadline.
type RedisInstance struct {
	client  *redis.Client
	breaker *circuitBreaker
	cfg     ConnectionConfig
	metrics Metrics
}

// NewRedisInstance wraps client using the given connection config. A nil
// cfg uses DefaultConnectionConfig().
func NewRedisInstance(client *redis.Client, cfg *ConnectionConfig) (*RedisInstance, error) {
	c := DefaultConnectionConfig()
	if cfg != nil {
		c = *cfg
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ri := &RedisInstance{client: client, cfg: c, metrics: &NoOpMetrics{}}
	ri.breaker = newCircuitBreaker(c).withStateChangeCallback(ri.onCircuitStateChange)
	return ri, nil
}

// WithMetrics attaches a metrics sink used for circuit-state and per-call
// error observability.
func (r *RedisInstance) WithMetrics(metrics Metrics) *RedisInstance {
	r.metrics = metrics
	return r
}

func (r *RedisInstance) onCircuitStateChange(from, to string) {
	switch to {
	case "open":
		r.metrics.Increment(MetricCircuitOpen)
	case "half-open":
		r.metrics.Increment(MetricCircuitHalfOpen)
	}
}

func (r *RedisInstance) withTimeout(ttl time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.cfg.timeout(ttl))
}

// Acquire runs the LOCK script: set resource=lock.Value, NX, PX lock.TTL.
func (r *RedisInstance) Acquire(lock *Lock) error {
	return r.breaker.Execute(func() error {
		ctx, cancel := r.withTimeout(lock.TTL)
		defer cancel()

		res, err := lockScript.Run(ctx, r.client, []string{lock.Resource}, lock.Value, lock.TTL.Milliseconds()).Result()
		if err != nil {
			if err == redis.Nil {
				return r.recordError(NewResourceLocked())
			}
			return r.recordError(NewTransportError(err))
		}
		if status, ok := res.(string); ok && status == "OK" {
			return nil
		}
		return r.recordError(NewUnexpectedResponse(res))
	})
}

// Release runs the UNLOCK script: delete resource iff it still holds
// lock.Value.
func (r *RedisInstance) Release(lock *Lock) error {
	return r.breaker.Execute(func() error {
		ctx, cancel := r.withTimeout(lock.TTL)
		defer cancel()

		res, err := unlockScript.Run(ctx, r.client, []string{lock.Resource}, lock.Value).Result()
		if err != nil {
			return r.recordError(NewTransportError(err))
		}
		return r.interpretIntReply(res)
	})
}

// Extend runs the EXTEND script: refresh resource's expiry iff it still
// holds lock.Value.
func (r *RedisInstance) Extend(lock *Lock) error {
	return r.breaker.Execute(func() error {
		ctx, cancel := r.withTimeout(lock.TTL)
		defer cancel()

		res, err := extendScript.Run(ctx, r.client, []string{lock.Resource}, lock.Value, lock.TTL.Milliseconds()).Result()
		if err != nil {
			return r.recordError(NewTransportError(err))
		}
		return r.interpretIntReply(res)
	})
}

// interpretIntReply maps the UNLOCK/EXTEND scripts' reply (1 success, 0
// value mismatch or missing key) onto the engine's error kinds.
func (r *RedisInstance) interpretIntReply(res interface{}) error {
	n, ok := res.(int64)
	if !ok {
		return r.recordError(NewUnexpectedResponse(res))
	}
	switch n {
	case 1:
		return nil
	case 0:
		return r.recordError(NewInvalidLease())
	default:
		return r.recordError(NewUnexpectedResponse(res))
	}
}

func (r *RedisInstance) recordError(err error) error {
	var ie *InstanceError
	if as, ok := err.(*InstanceError); ok {
		ie = as
	}
	if ie != nil {
		r.metrics.Increment(MetricInstanceCallError, "kind", ie.Kind.String())
	}
	return err
}

// Close releases the underlying Redis client.
func (r *RedisInstance) Close() error {
	return r.client.Close()
}

// String identifies the instance by its configured address, for logging.
func (r *RedisInstance) String() string {
	return fmt.Sprintf("redis(%s)", r.client.Options().Addr)
}
