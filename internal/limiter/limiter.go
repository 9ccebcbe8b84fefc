// Package limiter throttles login attempts per (email, client address).
package limiter

import (
	"context"
	"crypto/sha256"
	"net"
	"time"
)

// Limiter controls login attempts and temporary lockouts.
type Limiter interface {
	// Allow reports whether a login may be attempted now and, if not, for how long to wait.
	Allow(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, email string, ipHash []byte) error
	// Failure records a failed attempt and reports whether it triggered a lockout.
	Failure(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error)
}

// HashIP returns a stable hash of the client host so raw addresses are never stored.
// The port is dropped: a client reconnecting from a new port is the same client.
func HashIP(addr string) []byte {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	h := sha256.Sum256([]byte(host))
	return h[:]
}

// Disabled never limits. Used when no failure threshold is configured.
type Disabled struct{}

func (Disabled) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return true, 0, nil
}

func (Disabled) Success(context.Context, string, []byte) error { return nil }

func (Disabled) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	return false, 0, nil
}
