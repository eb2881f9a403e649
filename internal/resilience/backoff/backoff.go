// Package backoff computes reconnect delays.
package backoff

import "time"

// Default delays for panel reconnection.
const (
	DefaultBase = 1 * time.Second
	DefaultMax  = 30 * time.Second
)

// Policy is a deterministic exponential backoff with a hard ceiling.
// No jitter: delays are reproducible under test.
type Policy struct {
	Base time.Duration
	Max  time.Duration
}

// DefaultPolicy returns the standard panel reconnect policy (1s base, 30s cap).
func DefaultPolicy() Policy {
	return Policy{Base: DefaultBase, Max: DefaultMax}
}

// Delay returns min(Base * 2^attempt, Max). Attempt is 0-indexed for the
// first automatic retry; negative attempts are treated as 0.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := p.Base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.Max {
			return p.Max
		}
	}
	if delay > p.Max {
		return p.Max
	}
	return delay
}
