package redsync

import (
	"crypto/rand"

	"github.com/google/uuid"
)

const nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const nonceLength = 20

// newNonce generates the 20-character alphanumeric lock value that proves
// ownership of a lease. It is drawn from a CSPRNG (crypto/rand), not a
// general-purpose PRNG, since collisions here would let an unrelated
// acquirer extend or release someone else's lease. One nonce is generated
// per Manager.Lock call and carried through every Instance contacted in
// every attempt of that call and through any later extend.
func newNonce() string {
	b := make([]byte, nonceLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// unavailable, which means nothing else on the machine would work
		// either; there is no sane fallback.
		panic("redsync: failed to read random bytes for lock nonce: " + err.Error())
	}
	out := make([]byte, nonceLength)
	for i, v := range b {
		out[i] = nonceAlphabet[int(v)%len(nonceAlphabet)]
	}
	return string(out)
}

// NewCorrelationID returns a UUIDv7 (time-ordered) identifier that callers
// can attach to their own log lines to tie together one Lock/Extend/Unlock
// call. Manager does not generate or log one itself. It is not the lease's
// Value — the lease Value must stay a 20-character [A-Za-z0-9] nonce — this
// is purely a logging/metrics correlation aid.
func NewCorrelationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
