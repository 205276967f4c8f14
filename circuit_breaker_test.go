package redsync

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_StateTransitions(t *testing.T) {
	cb := newCircuitBreaker(ConnectionConfig{CircuitMaxFailures: 3, CircuitResetTimeout: 100 * time.Millisecond})

	if cb.State() != "closed" {
		t.Errorf("expected initial state 'closed', got %s", cb.State())
	}

	testErr := errors.New("test error")
	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return testErr })
	}

	if cb.State() != "open" {
		t.Errorf("expected state 'open' after 3 failures, got %s", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("should not execute when circuit is open")
		return nil
	})
	if err == nil {
		t.Fatal("expected error when circuit is open")
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	cb.Execute(func() error { return nil })

	if cb.State() != "closed" {
		t.Errorf("expected state 'closed' after successful half-open request, got %s", cb.State())
	}
}

func TestCircuitBreaker_FailureCount(t *testing.T) {
	cb := newCircuitBreaker(ConnectionConfig{CircuitMaxFailures: 5, CircuitResetTimeout: time.Second})

	testErr := errors.New("test error")
	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return testErr })
	}

	if cb.Failures() != 3 {
		t.Errorf("expected 3 failures, got %d", cb.Failures())
	}

	cb.Execute(func() error { return nil })

	if cb.Failures() != 0 {
		t.Errorf("expected failures reset to 0 after success, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string

	cb := newCircuitBreaker(ConnectionConfig{CircuitMaxFailures: 2, CircuitResetTimeout: 50 * time.Millisecond}).
		withStateChangeCallback(func(from, to string) {
			transitions = append(transitions, from+"->"+to)
		})

	testErr := errors.New("test error")
	cb.Execute(func() error { return testErr })
	cb.Execute(func() error { return testErr })

	if len(transitions) == 0 {
		t.Fatal("expected state change callback to be called")
	}
	if transitions[0] != "closed->open" {
		t.Errorf("expected 'closed->open' transition, got %s", transitions[0])
	}

	time.Sleep(100 * time.Millisecond)

	cb.Execute(func() error { return nil })

	if len(transitions) < 2 {
		t.Errorf("expected at least 2 transitions, got %d", len(transitions))
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := newCircuitBreaker(ConnectionConfig{CircuitMaxFailures: 2, CircuitResetTimeout: time.Second})

	testErr := errors.New("test error")
	cb.Execute(func() error { return testErr })
	cb.Execute(func() error { return testErr })

	if cb.State() != "open" {
		t.Fatal("circuit should be open")
	}

	cb.Reset()

	if cb.State() != "closed" {
		t.Errorf("expected state 'closed' after reset, got %s", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("expected 0 failures after reset, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := newCircuitBreaker(ConnectionConfig{CircuitMaxFailures: 2, CircuitResetTimeout: 50 * time.Millisecond})

	testErr := errors.New("test error")
	cb.Execute(func() error { return testErr })
	cb.Execute(func() error { return testErr })

	time.Sleep(100 * time.Millisecond)

	cb.Execute(func() error { return testErr })

	if cb.State() != "open" {
		t.Errorf("expected state 'open' after failed half-open request, got %s", cb.State())
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := newCircuitBreaker(ConnectionConfig{CircuitMaxFailures: 10, CircuitResetTimeout: 100 * time.Millisecond})

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			cb.Execute(func() error {
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if cb.State() != "closed" {
		t.Errorf("expected state 'closed' after concurrent successful requests, got %s", cb.State())
	}
}
