package redsync

import "hash/fnv"

// FenceToken derives an advisory fencing token from a lock. It is NOT
// consulted anywhere in this engine: Manager provides a lease, not a fence,
// and a caller that needs real protection against a stale writer still
// needs a server-side monotonic counter (e.g. an INCR against the
// resource's own storage) that rejects any token lower than the last one it
// accepted.
//
// The value returned here is the lock's expiry in nanoseconds with its low
// 32 bits XORed with an FNV-1a hash of Resource and Value. Tokens therefore
// follow expiry order only when two expiries differ by at least 2^32 ns
// (about 4.3s); closer expiries can produce tokens in either order, and a
// clock that moves backwards breaks the ordering altogether. Treat it as a
// debugging aid, not a correctness mechanism.
func FenceToken(lock *Lock) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(lock.Resource))
	_, _ = h.Write([]byte(lock.Value))
	mix := h.Sum64()

	expiry := uint64(lock.Expiry.UnixNano())
	return expiry ^ (mix >> 32)
}
