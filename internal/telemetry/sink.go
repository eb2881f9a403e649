// Package telemetry reports captured render failures to error sinks.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/liveboard/internal/core/domain"
)

// Context carries the boundary state tags attached to every error report.
type Context struct {
	Feature         string
	Category        domain.FailureCategory
	Status          domain.ConnectionStatus
	Attempts        int
	LastConnectedAt *time.Time
}

// Sink accepts captured render failures. Implementations must never fail
// the caller: reporting problems are logged and swallowed.
type Sink interface {
	ReportError(ctx context.Context, err domain.CapturedError, rctx Context, tags map[string]string)
}

// LogSink writes reports to the structured log.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a log-backed sink. A nil logger uses slog.Default.
func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log}
}

// ReportError implements Sink.
func (s *LogSink) ReportError(ctx context.Context, err domain.CapturedError, rctx Context, tags map[string]string) {
	attrs := []any{
		"feature", rctx.Feature,
		"category", string(rctx.Category),
		"status", string(rctx.Status),
		"attempts", rctx.Attempts,
		"error", err.Error(),
	}
	if rctx.LastConnectedAt != nil {
		attrs = append(attrs, "last_connected_at", rctx.LastConnectedAt.Format(time.RFC3339))
	}
	for k, v := range tags {
		attrs = append(attrs, k, v)
	}
	s.log.ErrorContext(ctx, "Panel render failure", attrs...)
}

// Multi fans a report out to several sinks.
type Multi []Sink

// ReportError implements Sink.
func (m Multi) ReportError(ctx context.Context, err domain.CapturedError, rctx Context, tags map[string]string) {
	for _, s := range m {
		s.ReportError(ctx, err, rctx, tags)
	}
}

// ReportStore persists error reports (implemented by the Postgres repo).
type ReportStore interface {
	SaveReport(ctx context.Context, report *domain.ErrorReport) error
}

// StoreSink persists reports through a ReportStore.
type StoreSink struct {
	store ReportStore
	log   *slog.Logger
}

// NewStoreSink creates a store-backed sink.
func NewStoreSink(store ReportStore, log *slog.Logger) *StoreSink {
	if log == nil {
		log = slog.Default()
	}
	return &StoreSink{store: store, log: log}
}

// ReportError implements Sink. Persistence failures are logged, never raised.
func (s *StoreSink) ReportError(ctx context.Context, err domain.CapturedError, rctx Context, tags map[string]string) {
	report := &domain.ErrorReport{
		ID:              uuid.New().String(),
		Feature:         rctx.Feature,
		Category:        rctx.Category,
		Status:          rctx.Status,
		Message:         err.Message,
		Kind:            err.Kind,
		Stack:           err.Stack,
		Attempts:        rctx.Attempts,
		LastConnectedAt: rctx.LastConnectedAt,
		CreatedAt:       time.Now(),
	}
	if saveErr := s.store.SaveReport(ctx, report); saveErr != nil {
		s.log.Warn("Failed to persist error report",
			"feature", rctx.Feature, "error", saveErr)
	}
}
