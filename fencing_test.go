package redsync

import (
	"testing"
	"time"
)

func TestFenceToken_Deterministic(t *testing.T) {
	lock := &Lock{Resource: "job-1", Value: "abc", TTL: 30 * time.Second, Expiry: time.Unix(1000, 0)}

	a := FenceToken(lock)
	b := FenceToken(lock)
	if a != b {
		t.Errorf("FenceToken() not deterministic: %d != %d", a, b)
	}
}

func TestFenceToken_IncreasesWithLaterExpiry(t *testing.T) {
	earlier := &Lock{Resource: "job-1", Value: "abc", Expiry: time.Unix(1000, 0)}
	later := &Lock{Resource: "job-1", Value: "xyz", Expiry: time.Unix(2000, 0)}

	if FenceToken(later) <= FenceToken(earlier) {
		t.Errorf("expected later acquisition to produce a larger token")
	}
}

func TestFenceToken_DiffersByResource(t *testing.T) {
	expiry := time.Unix(1000, 0)
	a := &Lock{Resource: "job-1", Value: "abc", Expiry: expiry}
	b := &Lock{Resource: "job-2", Value: "abc", Expiry: expiry}

	if FenceToken(a) == FenceToken(b) {
		t.Errorf("expected different resources to produce different tokens")
	}
}
