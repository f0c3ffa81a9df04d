package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrConnectFailure = errors.New("connect failed")
)

// Default values.
const (
	DefaultReconnectWait = 2 * time.Second
	DefaultBackoffBase   = 100 * time.Millisecond
)

// State is the lifecycle state of a Client.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateReconnectPending
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateReconnectPending:
		return "reconnect_pending"
	default:
		return "unknown"
	}
}

// Config configures a Client.
type Config struct {
	Backoff      Backoff       // Reconnect wait policy (nil = fixed DefaultReconnectWait)
	DialTimeout  time.Duration // 0 = transport default
	WriteTimeout time.Duration // 0 = no write deadline
}

// DefaultConfig returns the fixed 2s reconnect policy with no timeouts.
func DefaultConfig() Config {
	return Config{
		Backoff: FixedBackoff(DefaultReconnectWait),
	}
}

// Stats is a point-in-time view of a Client, safe to read from any goroutine.
type Stats struct {
	State      State
	Retries    uint64 // Reconnect requests since the last successful connect
	Sent       int64  // Successful writes
	Failed     int64  // Failed writes (including writes with no live socket)
	Reconnects int64  // Reconnect dials attempted
	Skipped    int64  // Reconnect requests inside the wait period
}
