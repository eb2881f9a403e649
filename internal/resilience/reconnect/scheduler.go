package reconnect

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. Reports whether it was still pending.
	Stop() bool
}

// Scheduler abstracts timer creation so the state machine runs under
// simulated time in tests instead of wall-clock waits.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock returns the real-time scheduler backed by time.AfterFunc.
func WallClock() Scheduler {
	return wallClock{}
}
