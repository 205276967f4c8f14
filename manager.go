package redsync

import (
	"math/rand"
	"time"
)

// Manager is a distributed lock manager implementing the Redlock algorithm
// over an ordered cluster of Instances. Its configuration is read-only
// after Build: the cluster list, quorum, and retry/jitter/drift parameters
// never change for the Manager's lifetime, which makes it safe for
// concurrent use by multiple callers provided each Instance is itself safe
// for concurrent use.
type Manager struct {
	cluster     []Instance
	quorum      int
	retryCount  int
	retryDelay  time.Duration
	retryJitter time.Duration
	driftFactor float64
	logger      Logger
	metrics     Metrics
}

// NewManager builds a Manager with default tuning (equivalent to
// NewBuilder(cluster).Build()). Use NewBuilder directly to override
// retry_count, retry_delay, or retry_jitter.
func NewManager(cluster []Instance) (*Manager, error) {
	return NewBuilder(cluster).Build()
}

type callKind int

const (
	callAcquire callKind = iota
	callExtend
)

// Lock attempts to acquire a lease on resource for ttl. A fresh 20-character
// nonce is generated once for this call and carried through every Instance
// contacted in every retry attempt. On exhaustion it returns
// *LockRetriesExceededError carrying the final attempt's MultiError.
func (m *Manager) Lock(resource string, ttl time.Duration) (*Lock, error) {
	value := newNonce()
	lock, errs := m.call(callAcquire, resource, value, ttl)
	if errs != nil {
		return nil, &LockRetriesExceededError{Errors: errs}
	}
	return lock, nil
}

// Extend renews an already-held lease for ttl, reusing lock.Value as the
// ownership nonce. On exhaustion it returns *ExtendRetriesExceededError.
func (m *Manager) Extend(lock *Lock, ttl time.Duration) (*Lock, error) {
	newLock, errs := m.call(callExtend, lock.Resource, lock.Value, ttl)
	if errs != nil {
		return nil, &ExtendRetriesExceededError{Errors: errs}
	}
	return newLock, nil
}

// call runs the shared acquire/extend retry loop: drift computation, the
// per-attempt quorum + validity-window check, best-effort cleanup of partial
// acquisitions, and jittered sleep between attempts.
func (m *Manager) call(kind callKind, resource, value string, ttl time.Duration) (*Lock, *MultiError) {
	drift := time.Duration(float64(ttl)*m.driftFactor) + 2*time.Millisecond

	errs := NewMultiError()

	for attempt := 1; attempt <= m.retryCount; attempt++ {
		votes := 0
		start := time.Now()

		lock := &Lock{
			Resource: resource,
			Value:    value,
			TTL:      ttl,
			Expiry:   start.Add(ttl - drift),
		}

		for _, instance := range m.cluster {
			var err error
			switch kind {
			case callAcquire:
				err = instance.Acquire(lock)
			case callExtend:
				err = instance.Extend(lock)
			}

			if err == nil {
				votes++
				continue
			}
			errs.Push(err)
			m.logDebug("instance call failed", "op", kind, "resource", resource, "error", err)
		}

		if votes >= m.quorum && lock.Expiry.After(time.Now()) {
			m.logInfo("lease acquired", "op", kind, "resource", resource, "votes", votes, "quorum", m.quorum)
			m.recordSuccess(kind)
			return lock, nil
		}

		m.logWarn("attempt failed to reach quorum", "op", kind, "resource", resource, "attempt", attempt, "votes", votes, "quorum", m.quorum)
		m.recordFailedAttempt(kind)

		// Best-effort cleanup of any partial acquisition. Run on every
		// failing attempt, including the last, so the remainder of the TTL
		// does not block other contenders. Result intentionally discarded.
		_ = m.Unlock(lock)

		if attempt < m.retryCount {
			errs.Reset()
			time.Sleep(m.jitteredRetryDelay())
		}
	}

	return nil, errs
}

// Unlock releases lock on every Instance, counting successes. There is no
// retry: server-side TTLs reclaim any entries a failed release leaves
// behind. Returns *UnlockFailedError when fewer than quorum instances
// confirm the release.
func (m *Manager) Unlock(lock *Lock) error {
	n := 0
	errs := NewMultiError()

	for _, instance := range m.cluster {
		if err := instance.Release(lock); err != nil {
			errs.Push(err)
			continue
		}
		n++
	}

	if n < m.quorum {
		m.logWarn("unlock failed to reach quorum", "resource", lock.Resource, "released", n, "quorum", m.quorum)
		m.recordFailure("unlock")
		return &UnlockFailedError{Errors: errs}
	}

	m.logInfo("lease released", "resource", lock.Resource, "released", n)
	m.recordSuccessCount("unlock")
	return nil
}

// jitteredRetryDelay returns retry_delay +/- U(-retry_jitter, +retry_jitter),
// clamped at zero since a duration cannot go negative.
func (m *Manager) jitteredRetryDelay() time.Duration {
	if m.retryJitter <= 0 {
		return m.retryDelay
	}
	jitter := (rand.Float64()*2 - 1) * float64(m.retryJitter)
	delay := m.retryDelay + time.Duration(jitter)
	if delay < 0 {
		return 0
	}
	return delay
}

func (k callKind) String() string {
	if k == callExtend {
		return "extend"
	}
	return "acquire"
}
