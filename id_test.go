package redsync

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewNonce_LengthAndCharset(t *testing.T) {
	nonce := newNonce()
	if len(nonce) != nonceLength {
		t.Errorf("len(nonce) = %d, want %d", len(nonce), nonceLength)
	}
	for _, r := range nonce {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			t.Errorf("nonce contains non-alphanumeric rune %q", r)
		}
	}
}

func TestNewNonce_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := newNonce()
		if seen[n] {
			t.Fatalf("nonce %q generated twice in %d draws", n, i)
		}
		seen[n] = true
	}
}

func TestNewCorrelationID_IsUUIDv7(t *testing.T) {
	id := NewCorrelationID()
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("NewCorrelationID() returned unparsable uuid: %v", err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected UUIDv7, got version %d", parsed.Version())
	}
}

func TestNewCorrelationID_Unique(t *testing.T) {
	first := NewCorrelationID()
	second := NewCorrelationID()
	if first == second {
		t.Error("expected two correlation IDs to differ")
	}
}

func BenchmarkNewNonce(b *testing.B) {
	for i := 0; i < b.N; i++ {
		newNonce()
	}
}
