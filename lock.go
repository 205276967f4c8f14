package redsync

import "time"

// Lock describes one acquired or extended lease. It is immutable after
// being returned from Manager.Lock/Manager.Extend: callers may read its
// fields freely from multiple goroutines, but must not mutate them.
//
// Value uniquely binds an owner to Resource for the duration of the lease;
// any Instance operation that mutates server-side state must present the
// matching Value. The engine never reuses a Value across Manager.Lock
// calls; the retry attempts within one Lock call share its Value.
type Lock struct {
	Resource string
	Value    string
	TTL      time.Duration
	Expiry   time.Time
}

// Valid reports whether the lease is still inside its validity window as of
// now. The engine itself never calls this — it is a convenience for callers
// who want to check before doing critical-section work. The engine
// provides a lease, not a fence: a caller that has already stalled past
// Expiry and ignores this check can still race with a new lease holder.
func (l *Lock) Valid(now time.Time) bool {
	return now.Before(l.Expiry)
}
