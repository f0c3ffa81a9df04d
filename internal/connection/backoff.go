package connection

import "time"

// Backoff decides how long to wait after the last connection attempt before
// another reconnect may proceed.
type Backoff interface {
	Wait(retries uint64) time.Duration
}

// FixedBackoff waits the same period regardless of retries.
type FixedBackoff time.Duration

func (b FixedBackoff) Wait(uint64) time.Duration {
	return time.Duration(b)
}

// ExponentialBackoff waits min(Max, 2^retries * Base).
type ExponentialBackoff struct {
	Base time.Duration
	Max  time.Duration
}

func (b ExponentialBackoff) Wait(retries uint64) time.Duration {
	wait := b.Base
	for i := uint64(0); i < retries && wait < b.Max; i++ {
		wait *= 2
	}
	return min(wait, b.Max)
}
