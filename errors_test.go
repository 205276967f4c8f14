package redsync

import (
	"errors"
	"fmt"
	"testing"
)

func TestMultiError_PushAndIncludes(t *testing.T) {
	m := NewMultiError()
	m.Push(NewResourceLocked())
	m.Push(NewInvalidLease())

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	if !m.Includes(ResourceLocked) {
		t.Error("expected Includes(ResourceLocked) = true")
	}
	if !m.Includes(InvalidLease) {
		t.Error("expected Includes(InvalidLease) = true")
	}
	if m.Includes(UnexpectedResponse) {
		t.Error("expected Includes(UnexpectedResponse) = false")
	}
}

func TestMultiError_PushWrapsForeignErrors(t *testing.T) {
	m := NewMultiError()
	m.Push(errors.New("boom"))

	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	if !m.Includes(TransportError) {
		t.Error("expected a foreign error to be classified as TransportError")
	}
}

func TestMultiError_PushNilIsNoop(t *testing.T) {
	m := NewMultiError()
	m.Push(nil)
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after pushing nil", m.Len())
	}
}

func TestMultiError_Reset(t *testing.T) {
	m := NewMultiError()
	m.Push(NewResourceLocked())
	m.Reset()

	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Reset", m.Len())
	}
}

func TestMultiError_Errors(t *testing.T) {
	m := NewMultiError()
	m.Push(NewResourceLocked())
	m.Push(NewInvalidLease())

	errs := m.Errors()
	if len(errs) != 2 {
		t.Fatalf("Errors() returned %d errors, want 2", len(errs))
	}
}

func TestLockRetriesExceededError_Unwrap(t *testing.T) {
	m := NewMultiError()
	m.Push(NewResourceLocked())
	err := &LockRetriesExceededError{Errors: m}

	if errors.Unwrap(err) != m {
		t.Error("expected Unwrap() to return the underlying MultiError")
	}
}

func TestIsResourceLocked(t *testing.T) {
	if !IsResourceLocked(NewResourceLocked()) {
		t.Error("expected IsResourceLocked(NewResourceLocked()) = true")
	}
	if IsResourceLocked(NewInvalidLease()) {
		t.Error("expected IsResourceLocked(NewInvalidLease()) = false")
	}
	if IsResourceLocked(errors.New("other")) {
		t.Error("expected IsResourceLocked on a foreign error = false")
	}
}

func TestIsInvalidLease(t *testing.T) {
	if !IsInvalidLease(NewInvalidLease()) {
		t.Error("expected IsInvalidLease(NewInvalidLease()) = true")
	}
	if IsInvalidLease(NewResourceLocked()) {
		t.Error("expected IsInvalidLease(NewResourceLocked()) = false")
	}
}

func TestWithContext(t *testing.T) {
	err := WithContext(ErrInvalidRetryCount, map[string]interface{}{"retry_count": 0})
	if !errors.Is(err, ErrInvalidRetryCount) {
		t.Error("expected wrapped error to still match the sentinel via errors.Is")
	}
	if err.Error() == ErrInvalidRetryCount.Error() {
		t.Error("expected context to be visible in the error string")
	}
}

func TestWithContext_Nil(t *testing.T) {
	if WithContext(nil, map[string]interface{}{"x": 1}) != nil {
		t.Error("expected WithContext(nil, ...) to return nil")
	}
}

func TestInstanceError_UnexpectedResponsePayload(t *testing.T) {
	err := NewUnexpectedResponse("garbage")
	var ie *InstanceError
	if !errors.As(err, &ie) {
		t.Fatal("expected errors.As to match *InstanceError")
	}
	if ie.Payload != "garbage" {
		t.Errorf("Payload = %v, want %q", ie.Payload, "garbage")
	}
	if got := fmt.Sprint(err); got == "" {
		t.Error("expected non-empty error string")
	}
}

func TestErrorKind_String(t *testing.T) {
	cases := map[ErrorKind]string{
		ResourceLocked:     "resource_locked",
		InvalidLease:       "invalid_lease",
		UnexpectedResponse: "unexpected_response",
		TransportError:     "transport_error",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
