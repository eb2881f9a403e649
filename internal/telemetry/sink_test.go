package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/liveboard/internal/core/domain"
	"github.com/vietddude/liveboard/internal/infra/storage/memory"
)

type countingSink struct {
	calls int
}

func (s *countingSink) ReportError(ctx context.Context, err domain.CapturedError, rctx Context, tags map[string]string) {
	s.calls++
}

func TestMulti_FansOut(t *testing.T) {
	a := &countingSink{}
	b := &countingSink{}
	m := Multi{a, b}

	m.ReportError(context.Background(), domain.CapturedError{Message: "boom"}, Context{Feature: "live-calls"}, nil)

	if a.calls != 1 || b.calls != 1 {
		t.Errorf("fan-out calls = %d, %d, want 1, 1", a.calls, b.calls)
	}
}

func TestStoreSink_PersistsReport(t *testing.T) {
	store := memory.NewReportStore()
	sink := NewStoreSink(store, nil)

	connectedAt := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	sink.ReportError(context.Background(),
		domain.CapturedError{Message: "websocket closed", Kind: "*net.OpError"},
		Context{
			Feature:         "live-calls",
			Category:        domain.CategoryConnection,
			Status:          domain.StatusReconnecting,
			Attempts:        2,
			LastConnectedAt: &connectedAt,
		}, nil)

	reports, err := store.Recent(context.Background(), "live-calls", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("stored reports = %d, want 1", len(reports))
	}

	r := reports[0]
	if r.ID == "" {
		t.Error("report must get a generated ID")
	}
	if r.Category != domain.CategoryConnection || r.Status != domain.StatusReconnecting || r.Attempts != 2 {
		t.Errorf("report context lost: %+v", r)
	}
	if r.LastConnectedAt == nil || !r.LastConnectedAt.Equal(connectedAt) {
		t.Errorf("last connected timestamp lost: %v", r.LastConnectedAt)
	}
}

type failingStore struct{}

func (failingStore) SaveReport(ctx context.Context, report *domain.ErrorReport) error {
	return context.DeadlineExceeded
}

func TestStoreSink_SwallowsPersistenceFailure(t *testing.T) {
	sink := NewStoreSink(failingStore{}, nil)

	// Must not panic or propagate; reporting is best-effort.
	sink.ReportError(context.Background(),
		domain.CapturedError{Message: "boom"}, Context{Feature: "live-calls"}, nil)
}
