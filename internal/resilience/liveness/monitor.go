// Package liveness observes network connectivity for panel boundaries.
package liveness

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often the probe is checked when the push
// signal is unavailable or silent.
const DefaultPollInterval = 5 * time.Second

// Probe is a pull-based liveness check (e.g. a Redis PING or a gRPC
// health check). A nil error means the environment is live.
type Probe interface {
	Check(ctx context.Context) error
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func(ctx context.Context) error

// Check implements Probe.
func (f ProbeFunc) Check(ctx context.Context) error { return f(ctx) }

// Signal is a push-based connectivity source (e.g. transport connectivity
// events). Subscribe registers a listener and returns its unsubscribe func.
type Signal interface {
	Subscribe(onChange func(online bool)) (cancel func())
}

// CancelHandle stops a running monitor. Cancelling twice is a no-op.
type CancelHandle struct {
	once sync.Once
	stop func()
}

// Cancel stops the poll loop and unregisters the push subscription.
func (h *CancelHandle) Cancel() {
	h.once.Do(h.stop)
}

// Monitor merges a push signal and a periodic probe into a single
// deduplicated online/offline stream.
type Monitor struct {
	signal   Signal
	probe    Probe
	interval time.Duration

	mu   sync.Mutex
	last bool
	emit func(bool)
}

// NewMonitor creates a monitor. Either source may be nil; interval <= 0
// selects DefaultPollInterval.
func NewMonitor(signal Signal, probe Probe, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		signal:   signal,
		probe:    probe,
		interval: interval,
	}
}

// Start begins observing and invokes onChange once per actual transition.
// The environment is assumed live at start, so the first emission happens
// only when connectivity is observed lost.
func (m *Monitor) Start(onChange func(online bool)) *CancelHandle {
	m.mu.Lock()
	m.last = true
	m.emit = onChange
	m.mu.Unlock()

	var unsubscribe func()
	if m.signal != nil {
		unsubscribe = m.signal.Subscribe(m.update)
	}

	done := make(chan struct{})
	if m.probe != nil {
		go m.poll(done)
	}

	return &CancelHandle{stop: func() {
		close(done)
		if unsubscribe != nil {
			unsubscribe()
		}
		m.mu.Lock()
		m.emit = nil
		m.mu.Unlock()
	}}
}

func (m *Monitor) poll(done <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.interval)
			err := m.probe.Check(ctx)
			cancel()
			m.update(err == nil)
		}
	}
}

// update deduplicates observations: only a real transition reaches the
// callback, regardless of which source observed it.
func (m *Monitor) update(online bool) {
	m.mu.Lock()
	if m.emit == nil || online == m.last {
		m.mu.Unlock()
		return
	}
	m.last = online
	emit := m.emit
	m.mu.Unlock()

	emit(online)
}
