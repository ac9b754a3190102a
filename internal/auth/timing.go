package auth

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"
)

// FailureFloor pads failed credential checks to a minimum duration so that
// an unknown email and a wrong password cannot be told apart by latency.
type FailureFloor struct {
	Min    time.Duration
	Jitter time.Duration
}

func (f FailureFloor) target() time.Duration {
	if f.Jitter <= 0 {
		return f.Min
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return f.Min
	}
	return f.Min + time.Duration(binary.BigEndian.Uint64(b[:])%uint64(f.Jitter))
}

// Pad blocks until at least the floor has elapsed since start, or ctx ends.
func (f FailureFloor) Pad(ctx context.Context, start time.Time) {
	remaining := f.target() - time.Since(start)
	if remaining <= 0 {
		return
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
