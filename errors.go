package redsync

import (
	"errors"
	"fmt"
)

// ErrorKind tags the outcome of a single Instance operation. It is a closed
// set: acquire/extend/release never produce anything outside this list.
type ErrorKind int

const (
	// ResourceLocked means acquire found the key already held by someone else.
	ResourceLocked ErrorKind = iota
	// InvalidLease means extend/release found a missing key or a value mismatch.
	InvalidLease
	// UnexpectedResponse means the backing server replied with a shape the
	// script doesn't recognize (protocol drift, not a semantic denial).
	UnexpectedResponse
	// TransportError means the call never reached a semantic outcome at all
	// (dial failure, timeout, connection reset).
	TransportError
)

func (k ErrorKind) String() string {
	switch k {
	case ResourceLocked:
		return "resource_locked"
	case InvalidLease:
		return "invalid_lease"
	case UnexpectedResponse:
		return "unexpected_response"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// InstanceError is the error a single Instance call returns on any
// non-success outcome. Payload carries the raw response for
// UnexpectedResponse; Cause carries the underlying error for TransportError.
type InstanceError struct {
	Kind    ErrorKind
	Payload interface{}
	Cause   error
}

func (e *InstanceError) Error() string {
	switch e.Kind {
	case ResourceLocked:
		return "redsync: resource already locked"
	case InvalidLease:
		return "redsync: invalid lease (value mismatch or key gone)"
	case UnexpectedResponse:
		return fmt.Sprintf("redsync: unexpected response from backing server: %#v", e.Payload)
	case TransportError:
		return fmt.Sprintf("redsync: transport error: %v", e.Cause)
	default:
		return "redsync: unknown instance error"
	}
}

func (e *InstanceError) Unwrap() error {
	return e.Cause
}

// NewResourceLocked constructs the ResourceLocked instance error.
func NewResourceLocked() error {
	return &InstanceError{Kind: ResourceLocked}
}

// NewInvalidLease constructs the InvalidLease instance error.
func NewInvalidLease() error {
	return &InstanceError{Kind: InvalidLease}
}

// NewUnexpectedResponse wraps a raw backing-server reply that matched none
// of the documented success/failure shapes for the script that produced it.
func NewUnexpectedResponse(payload interface{}) error {
	return &InstanceError{Kind: UnexpectedResponse, Payload: payload}
}

// NewTransportError wraps a connection or RPC failure that never produced a
// semantic result (dial timeout, network reset, context cancellation).
func NewTransportError(cause error) error {
	return &InstanceError{Kind: TransportError, Cause: cause}
}

// MultiError is an ordered, resettable aggregate of per-instance errors
// collected during one fan-out. It does not layer inheritance between error
// kinds; membership is checked by tag, ignoring payload.
type MultiError struct {
	errs []*InstanceError
}

// NewMultiError returns an empty aggregate.
func NewMultiError() *MultiError {
	return &MultiError{}
}

// Push appends err to the aggregate. Non-*InstanceError values are wrapped
// as TransportError so the aggregate only ever holds the four instance kinds.
func (m *MultiError) Push(err error) {
	if err == nil {
		return
	}
	var ie *InstanceError
	if errors.As(err, &ie) {
		m.errs = append(m.errs, ie)
		return
	}
	m.errs = append(m.errs, &InstanceError{Kind: TransportError, Cause: err})
}

// Reset empties the aggregate in place so a fresh attempt starts clean.
func (m *MultiError) Reset() {
	m.errs = m.errs[:0]
}

// Len returns the number of errors currently held.
func (m *MultiError) Len() int {
	return len(m.errs)
}

// Includes reports whether any held error carries the given kind.
func (m *MultiError) Includes(kind ErrorKind) bool {
	for _, e := range m.errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Errors returns a copy of the held errors in fan-out order.
func (m *MultiError) Errors() []error {
	out := make([]error, len(m.errs))
	for i, e := range m.errs {
		out[i] = e
	}
	return out
}

func (m *MultiError) Error() string {
	if len(m.errs) == 0 {
		return "redsync: no instance errors"
	}
	s := fmt.Sprintf("redsync: %d instance error(s):", len(m.errs))
	for _, e := range m.errs {
		s += " [" + e.Kind.String() + "] " + e.Error() + ";"
	}
	return s
}

// LockRetriesExceededError is returned by Manager.Lock when every attempt
// failed to reach quorum under a valid window.
type LockRetriesExceededError struct {
	Errors *MultiError
}

func (e *LockRetriesExceededError) Error() string {
	return "redsync: lock retries exceeded: " + e.Errors.Error()
}

func (e *LockRetriesExceededError) Unwrap() error {
	return e.Errors
}

// ExtendRetriesExceededError is returned by Manager.Extend when every
// attempt failed to reach quorum under a valid window.
type ExtendRetriesExceededError struct {
	Errors *MultiError
}

func (e *ExtendRetriesExceededError) Error() string {
	return "redsync: extend retries exceeded: " + e.Errors.Error()
}

func (e *ExtendRetriesExceededError) Unwrap() error {
	return e.Errors
}

// UnlockFailedError is returned by Manager.Unlock when fewer than quorum
// instances confirmed the release.
type UnlockFailedError struct {
	Errors *MultiError
}

func (e *UnlockFailedError) Error() string {
	return "redsync: unlock failed: " + e.Errors.Error()
}

func (e *UnlockFailedError) Unwrap() error {
	return e.Errors
}

// Sentinel errors for Builder-time validation. These are not part of the
// per-instance contract; they fail construction immediately and are never
// retried.
var (
	ErrEmptyCluster       = errors.New("redsync: cluster must contain at least one instance")
	ErrInvalidRetryCount  = errors.New("redsync: retry_count must be >= 1")
	ErrInvalidRetryDelay  = errors.New("redsync: retry_delay must be > 0")
	ErrInvalidJitter      = errors.New("redsync: retry_jitter must be >= 0")
	ErrInvalidDriftFactor = errors.New("redsync: drift_factor must be in (0, 1)")

	ErrInvalidConnectionTimeoutFactor = errors.New("redsync: connection timeout factor must be in (0, 1]")
	ErrInvalidCircuitMaxFailures      = errors.New("redsync: circuit max failures must be >= 1")
	ErrInvalidCircuitResetTimeout     = errors.New("redsync: circuit reset timeout must be > 0")

	// ErrCircuitOpen is returned by a circuit-wrapped Instance call that was
	// rejected without reaching the backing server at all.
	ErrCircuitOpen = errors.New("redsync: circuit breaker is open")

	// ErrLockNotFound is returned by InstanceAdmin.GetLockInfo when the
	// resource key does not exist on the node it queried.
	ErrLockNotFound = errors.New("redsync: lock not found")
)

// ErrorWithContext adds structured context to a sentinel error, the way
// Builder validation failures report which field and value were rejected.
type ErrorWithContext struct {
	Err     error
	Context map[string]interface{}
}

func (e *ErrorWithContext) Error() string {
	if len(e.Context) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (context: %+v)", e.Err, e.Context)
}

func (e *ErrorWithContext) Unwrap() error {
	return e.Err
}

// WithContext wraps err with key/value context for diagnostics.
func WithContext(err error, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ErrorWithContext{Err: err, Context: context}
}

// IsResourceLocked reports whether err (or any error it wraps) denotes a
// contended-but-healthy acquire attempt, as opposed to a broken instance.
func IsResourceLocked(err error) bool {
	var ie *InstanceError
	return errors.As(err, &ie) && ie.Kind == ResourceLocked
}

// IsInvalidLease reports whether err denotes a lease that already expired or
// was already released — the common benign case inside an UnlockFailedError
// aggregate, which callers typically treat as success.
func IsInvalidLease(err error) bool {
	var ie *InstanceError
	return errors.As(err, &ie) && ie.Kind == InvalidLease
}
