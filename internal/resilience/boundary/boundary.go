// Package boundary isolates panel render failures and drives recovery.
//
// A Boundary wraps a child Renderer. Errors and panics raised while the
// child renders are captured here, classified, reported to the telemetry
// sink and answered with a fallback view; they never propagate to the
// caller. Connection-class failures additionally start the reconnection
// state machine, and a liveness monitor feeds connectivity transitions
// into the same path.
package boundary

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/vietddude/liveboard/internal/core/domain"
	"github.com/vietddude/liveboard/internal/resilience/classify"
	"github.com/vietddude/liveboard/internal/resilience/liveness"
	"github.com/vietddude/liveboard/internal/resilience/reconnect"
	"github.com/vietddude/liveboard/internal/telemetry"
)

// Renderer produces a panel frame. The child content of a boundary.
type Renderer interface {
	Render(ctx context.Context) (domain.Frame, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context) (domain.Frame, error)

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context) (domain.Frame, error) { return f(ctx) }

// Options configures a Boundary. Feature and Child are required; every
// callback is optional.
type Options struct {
	Feature string
	Child   Renderer

	Reconnect reconnect.Config

	// OnError is invoked after a failure is captured and reported.
	// A panic inside it is logged and swallowed.
	OnError func(domain.CapturedError)
	// OnReconnect restores the live-data connection; driven by the machine.
	OnReconnect reconnect.ReconnectFunc
	// OnFallbackToPolling switches the feature to degraded polling mode.
	OnFallbackToPolling func()
	// OnRefresh overrides the host full-reload primitive.
	OnRefresh func()

	// CustomFallback takes precedence over the built-in category views.
	CustomFallback *View

	Sink telemetry.Sink
	Tags map[string]string

	Signal       liveness.Signal
	Probe        liveness.Probe
	PollInterval time.Duration

	Scheduler reconnect.Scheduler
	Log       *slog.Logger
}

// Boundary is the render-failure boundary for one dashboard panel.
// Its state is owned exclusively by the boundary and mutated only through
// its own transition path; the child never touches it.
type Boundary struct {
	mu sync.Mutex

	feature  string
	child    Renderer
	machine  *reconnect.Machine
	monitor  *liveness.Monitor
	handle   *liveness.CancelHandle
	sink     telemetry.Sink
	log      *slog.Logger
	tags     map[string]string
	custom   *View
	maxTries int

	onError   func(domain.CapturedError)
	onPolling func()
	onRefresh func()

	hasError  bool
	lastError *domain.CapturedError
	category  domain.FailureCategory
	polling   bool
	mounted   bool
}

// New creates an unmounted boundary.
func New(opts Options) *Boundary {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	sink := opts.Sink
	if sink == nil {
		sink = telemetry.NewLogSink(log)
	}
	cfg := opts.Reconnect
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}

	b := &Boundary{
		feature:   opts.Feature,
		child:     opts.Child,
		sink:      sink,
		log:       log,
		tags:      opts.Tags,
		custom:    opts.CustomFallback,
		maxTries:  cfg.MaxAttempts,
		onError:   opts.OnError,
		onPolling: opts.OnFallbackToPolling,
		onRefresh: opts.OnRefresh,
		monitor:   liveness.NewMonitor(opts.Signal, opts.Probe, opts.PollInterval),
	}

	fn := opts.OnReconnect
	if fn != nil {
		inner := fn
		fn = func(ctx context.Context) error {
			err := inner(ctx)
			result := "success"
			if err != nil {
				result = "failure"
			}
			telemetry.ReconnectAttempts.WithLabelValues(b.feature, result).Inc()
			return err
		}
	}
	b.machine = reconnect.NewMachine(cfg, fn, opts.Scheduler, b.onMachineChange)
	return b
}

// Mount starts the liveness monitor. Rendering works without mounting, but
// connectivity transitions are only observed while mounted.
func (b *Boundary) Mount() {
	b.mu.Lock()
	if b.mounted {
		b.mu.Unlock()
		return
	}
	b.mounted = true
	b.mu.Unlock()

	b.handle = b.monitor.Start(b.onLiveness)
	telemetry.SetConnectionStatus(b.feature, b.machine.Snapshot().Status)
}

// Unmount cancels the liveness subscription and any pending reconnect
// timer. A reconnect attempt already in flight completes but its result is
// discarded. Mandatory on teardown.
func (b *Boundary) Unmount() {
	b.mu.Lock()
	if !b.mounted {
		b.mu.Unlock()
		return
	}
	b.mounted = false
	handle := b.handle
	b.handle = nil
	b.mu.Unlock()

	if handle != nil {
		handle.Cancel()
	}
	b.machine.Close()
}

// Render runs the child and returns the view to expose. A failure in the
// child is captured synchronously, so the caller always receives a complete
// view for this pass instead of a half-rendered frame.
func (b *Boundary) Render(ctx context.Context) View {
	b.mu.Lock()
	inError := b.hasError
	b.mu.Unlock()

	if inError {
		return b.view(nil)
	}

	frame, capErr := b.renderChild(ctx)
	if capErr == nil {
		return b.view(&frame)
	}

	b.capture(ctx, *capErr)
	return b.view(nil)
}

// Snapshot returns the current boundary state.
func (b *Boundary) Snapshot() Snapshot {
	ms := b.machine.Snapshot()

	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Feature:         b.feature,
		HasError:        b.hasError,
		LastError:       b.lastError,
		Category:        b.category,
		Status:          ms.Status,
		Attempts:        ms.Attempts,
		MaxAttempts:     b.maxTries,
		LastConnectedAt: ms.LastConnectedAt,
		PollingMode:     b.polling,
	}
}

// RetryNow is the manual reconnect trigger, usable even from Errored.
func (b *Boundary) RetryNow() {
	b.machine.RetryNow()
}

// FallbackToPolling enters degraded mode: the error state is cleared and
// the status optimistically flips to Connected so children resume with
// reduced functionality. Explicit user action, not a connectivity check.
func (b *Boundary) FallbackToPolling() {
	b.mu.Lock()
	handler := b.onPolling
	if handler == nil {
		b.mu.Unlock()
		return
	}
	b.polling = true
	b.clearErrorLocked()
	b.mu.Unlock()

	b.invokeGuarded("fallback handler", func() { handler() })
	b.machine.ForceConnected()
}

// Refresh delegates to the host reload primitive. Terminal for this
// boundary instance.
func (b *Boundary) Refresh() {
	b.mu.Lock()
	handler := b.onRefresh
	b.mu.Unlock()

	if handler == nil {
		b.log.Warn("Refresh requested but no reload handler configured", "feature", b.feature)
		return
	}
	b.invokeGuarded("refresh handler", func() { handler() })
}

// renderChild runs the child renderer, converting a returned error or a
// panic into a captured error.
func (b *Boundary) renderChild(ctx context.Context) (frame domain.Frame, capErr *domain.CapturedError) {
	defer func() {
		if r := recover(); r != nil {
			capErr = capturedFromPanic(r)
		}
	}()

	if b.child == nil {
		return domain.Frame{Panel: domain.PanelID(b.feature), GeneratedAt: time.Now()}, nil
	}

	f, err := b.child.Render(ctx)
	if err != nil {
		return domain.Frame{}, &domain.CapturedError{
			Message: err.Error(),
			Kind:    fmt.Sprintf("%T", err),
		}
	}
	return f, nil
}

// capture is the single transition path for render failures: classify,
// record, report, then notify the machine for connection-class failures.
func (b *Boundary) capture(ctx context.Context, capErr domain.CapturedError) {
	category := classify.Classify(capErr)

	b.mu.Lock()
	b.hasError = true
	b.lastError = &capErr
	b.category = category
	b.mu.Unlock()

	telemetry.RenderFailures.WithLabelValues(b.feature, string(category)).Inc()

	if category == domain.CategoryConnection || category == domain.CategoryTimeout {
		b.machine.NotifyDisconnected()
	}

	ms := b.machine.Snapshot()
	b.sink.ReportError(ctx, capErr, telemetry.Context{
		Feature:         b.feature,
		Category:        category,
		Status:          ms.Status,
		Attempts:        ms.Attempts,
		LastConnectedAt: ms.LastConnectedAt,
	}, b.tags)

	if b.onError != nil {
		handler := b.onError
		b.invokeGuarded("error handler", func() { handler(capErr) })
	}
}

// onMachineChange runs after every machine transition. A transition into
// Connected clears the error state so children resume rendering.
func (b *Boundary) onMachineChange(s reconnect.Snapshot) {
	if s.Status == domain.StatusConnected {
		b.mu.Lock()
		b.clearErrorLocked()
		b.mu.Unlock()
	}
	telemetry.SetConnectionStatus(b.feature, s.Status)
}

// onLiveness feeds monitor transitions into the machine. Connectivity
// regained without an outstanding render error is the no-op path straight
// back to Connected; with an error outstanding the reconnect flow stays in
// charge.
func (b *Boundary) onLiveness(online bool) {
	if !online {
		b.machine.NotifyDisconnected()
		return
	}

	b.mu.Lock()
	inError := b.hasError
	b.mu.Unlock()

	if !inError {
		b.machine.NotifyConnected()
	}
}

func (b *Boundary) clearErrorLocked() {
	b.hasError = false
	b.lastError = nil
	b.category = domain.CategoryNone
}

func (b *Boundary) view(frame *domain.Frame) View {
	snap := b.Snapshot()
	v := SelectView(snap, frame, b.custom)
	v.Actions = b.filterActions(v.Actions)
	if v.Kind != ViewChildren {
		telemetry.FallbackViews.WithLabelValues(b.feature, string(v.Kind)).Inc()
	}
	return v
}

// filterActions drops actions with no configured handler.
func (b *Boundary) filterActions(actions []Action) []Action {
	b.mu.Lock()
	polling := b.onPolling != nil
	b.mu.Unlock()

	out := actions[:0:len(actions)]
	for _, a := range actions {
		if a == ActionFallbackToPolling && !polling {
			continue
		}
		out = append(out, a)
	}
	return out
}

// invokeGuarded runs a user-supplied callback; a panic inside it is logged
// and swallowed so a faulty handler cannot crash the boundary.
func (b *Boundary) invokeGuarded(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Panic in "+name, "feature", b.feature, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

func capturedFromPanic(r any) *domain.CapturedError {
	capErr := &domain.CapturedError{
		Kind:  "panic",
		Stack: string(debug.Stack()),
	}
	if err, ok := r.(error); ok {
		capErr.Message = err.Error()
		capErr.Kind = fmt.Sprintf("%T", err)
	} else {
		capErr.Message = fmt.Sprint(r)
	}
	return capErr
}
