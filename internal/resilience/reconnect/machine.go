// Package reconnect drives automatic reconnection for a panel boundary.
package reconnect

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/liveboard/internal/core/domain"
	"github.com/vietddude/liveboard/internal/resilience/backoff"
)

// ReconnectFunc attempts to restore the live-data connection.
// Supplied by the caller wrapping the transport client; the machine only
// reacts to whether it succeeds or fails.
type ReconnectFunc func(ctx context.Context) error

// Config controls automatic reconnection behaviour.
type Config struct {
	EnableAutoReconnect bool
	MaxAttempts         int
	Policy              backoff.Policy
}

// DefaultConfig enables auto-reconnect with 5 attempts and standard backoff.
func DefaultConfig() Config {
	return Config{
		EnableAutoReconnect: true,
		MaxAttempts:         5,
		Policy:              backoff.DefaultPolicy(),
	}
}

// Snapshot is an immutable view of the machine state.
type Snapshot struct {
	Status          domain.ConnectionStatus
	Attempts        int
	LastConnectedAt *time.Time
}

// Machine is the reconnection state machine:
// Connected -> Disconnected -> Reconnecting -> (Connected | Errored).
// Errored is terminal for automatic attempts; RetryNow resets the counter.
// All transitions are serialized through one mutex so the timer callback,
// liveness notifications and manual triggers never interleave.
type Machine struct {
	mu sync.Mutex

	cfg       Config
	reconnect ReconnectFunc
	sched     Scheduler
	now       func() time.Time
	onChange  func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc

	status          domain.ConnectionStatus
	attempts        int
	lastConnectedAt time.Time

	timer      Timer
	generation uint64
	closed     bool
}

// NewMachine creates a machine in the Connected state. onChange may be nil;
// when set it is invoked after every transition, outside the machine lock.
func NewMachine(cfg Config, fn ReconnectFunc, sched Scheduler, onChange func(Snapshot)) *Machine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Policy.Base <= 0 {
		cfg.Policy = backoff.DefaultPolicy()
	}
	if sched == nil {
		sched = WallClock()
	}
	if fn == nil {
		// No reconnect operation means nothing to attempt automatically.
		cfg.EnableAutoReconnect = false
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Machine{
		cfg:       cfg,
		reconnect: fn,
		sched:     sched,
		now:       time.Now,
		onChange:  onChange,
		ctx:       ctx,
		cancel:    cancel,
		status:    domain.StatusConnected,
	}
}

// SetNow overrides the clock used for connection timestamps. Test hook.
func (m *Machine) SetNow(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Snapshot returns the current machine state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	s := Snapshot{Status: m.status, Attempts: m.attempts}
	if !m.lastConnectedAt.IsZero() {
		t := m.lastConnectedAt
		s.LastConnectedAt = &t
	}
	return s
}

// NotifyDisconnected records a lost connection (liveness lost or a render
// failure of a connection/timeout category) and schedules the first automatic
// attempt when auto-reconnect is enabled. No-op while already Disconnected,
// Reconnecting or Errored.
func (m *Machine) NotifyDisconnected() {
	m.mu.Lock()
	if m.closed || m.status != domain.StatusConnected {
		m.mu.Unlock()
		return
	}
	m.status = domain.StatusDisconnected
	if m.cfg.EnableAutoReconnect && m.attempts < m.cfg.MaxAttempts {
		m.status = domain.StatusReconnecting
		m.scheduleLocked(m.cfg.Policy.Delay(m.attempts))
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(snap)
}

// NotifyConnected records a restored connection observed directly (liveness
// regained without a reconnect attempt). Cancels any pending attempt.
func (m *Machine) NotifyConnected() {
	m.mu.Lock()
	if m.closed || m.status == domain.StatusConnected {
		m.mu.Unlock()
		return
	}
	m.toConnectedLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(snap)
}

// RetryNow is the manual trigger: it resets the attempt counter and starts a
// fresh attempt from any state, including terminal Errored. While an attempt
// is already pending it is a no-op, so a second concurrent attempt is never
// scheduled.
func (m *Machine) RetryNow() {
	m.mu.Lock()
	if m.closed || m.reconnect == nil || m.status == domain.StatusReconnecting {
		m.mu.Unlock()
		return
	}
	m.attempts = 0
	m.status = domain.StatusReconnecting
	m.scheduleLocked(m.cfg.Policy.Delay(0))
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(snap)
}

// ForceConnected is the degraded-mode override: the caller accepts reduced
// functionality and the machine optimistically reports Connected without a
// connectivity check. The last-successful-connection timestamp is left
// untouched since no connection was actually established.
func (m *Machine) ForceConnected() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.stopTimerLocked()
	m.generation++
	m.attempts = 0
	m.status = domain.StatusConnected
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(snap)
}

// Close cancels the pending timer and invalidates any in-flight reconnect
// attempt; its result is discarded. Safe to call more than once.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.generation++
	m.stopTimerLocked()
	m.mu.Unlock()
	m.cancel()
}

func (m *Machine) toConnectedLocked() {
	m.stopTimerLocked()
	m.generation++
	m.attempts = 0
	m.status = domain.StatusConnected
	m.lastConnectedAt = m.now()
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// scheduleLocked arms the single outstanding timer for the next attempt.
func (m *Machine) scheduleLocked(delay time.Duration) {
	m.stopTimerLocked()
	gen := m.generation
	m.timer = m.sched.AfterFunc(delay, func() {
		m.attempt(gen)
	})
}

// attempt runs one reconnect attempt when the timer fires. Failures are
// counted, never propagated; a stale generation means the boundary was torn
// down or reset while the attempt was pending, so the result is discarded.
func (m *Machine) attempt(gen uint64) {
	m.mu.Lock()
	if m.closed || gen != m.generation || m.status != domain.StatusReconnecting {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	ctx := m.ctx
	m.mu.Unlock()

	err := m.reconnect(ctx)

	m.mu.Lock()
	if m.closed || gen != m.generation {
		m.mu.Unlock()
		return
	}
	if err == nil {
		m.toConnectedLocked()
	} else {
		m.attempts++
		if m.attempts < m.cfg.MaxAttempts {
			m.scheduleLocked(m.cfg.Policy.Delay(m.attempts))
		} else {
			m.status = domain.StatusErrored
		}
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(snap)
}

func (m *Machine) emit(s Snapshot) {
	if m.onChange != nil {
		m.onChange(s)
	}
}
