package connection

import (
	"testing"
	"time"
)

func TestFixedBackoff(t *testing.T) {
	b := FixedBackoff(DefaultReconnectWait)
	for _, retries := range []uint64{0, 1, 5, 100} {
		if got := b.Wait(retries); got != 2*time.Second {
			t.Errorf("Wait(%d) = %v, want 2s", retries, got)
		}
	}
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff{Base: DefaultBackoffBase, Max: DefaultReconnectWait}

	tests := []struct {
		retries uint64
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1600 * time.Millisecond},
		{5, 2 * time.Second},
		{64, 2 * time.Second},
		{1 << 40, 2 * time.Second},
	}

	for _, tt := range tests {
		if got := b.Wait(tt.retries); got != tt.want {
			t.Errorf("Wait(%d) = %v, want %v", tt.retries, got, tt.want)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateDisconnected:     "disconnected",
		StateConnected:        "connected",
		StateReconnectPending: "reconnect_pending",
		State(99):             "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
