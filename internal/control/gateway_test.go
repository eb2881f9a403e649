package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vietddude/liveboard/internal/core/config"
	"github.com/vietddude/liveboard/internal/core/domain"
	"github.com/vietddude/liveboard/internal/resilience/boundary"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := NewGateway(context.Background(), Config{
		Port:      0,
		Reconnect: config.DefaultReconnect(),
		Panels: []config.PanelConfig{
			{ID: "campaign-overview", Title: "Campaigns"},
			{ID: "live-calls", Title: "Live Calls"},
		},
	})
	if err != nil {
		t.Fatalf("NewGateway failed: %v", err)
	}
	return g
}

func TestGateway_RenderUnknownPanel(t *testing.T) {
	g := newTestGateway(t)

	if _, err := g.RenderPanel(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown panel")
	}
}

func TestGateway_RenderWithoutCacheFallsBack(t *testing.T) {
	g := newTestGateway(t)

	// No snapshot cache configured, so the child renderer fails and the
	// boundary answers with a fallback view instead of propagating.
	view, err := g.RenderPanel(context.Background(), "live-calls")
	if err != nil {
		t.Fatalf("RenderPanel failed: %v", err)
	}
	if view.Kind != boundary.ViewGeneric {
		t.Errorf("view kind = %s, want %s", view.Kind, boundary.ViewGeneric)
	}
}

func TestGateway_ErrorReportsStored(t *testing.T) {
	g := newTestGateway(t)

	g.RenderPanel(context.Background(), "live-calls")

	reports, err := g.Reports(context.Background(), "live-calls", 10)
	if err != nil {
		t.Fatalf("Reports failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("stored reports = %d, want 1", len(reports))
	}
	if reports[0].Feature != "live-calls" || reports[0].ID == "" {
		t.Errorf("report malformed: %+v", reports[0])
	}
}

func TestGateway_SnapshotsOrdered(t *testing.T) {
	g := newTestGateway(t)

	snaps := g.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snaps))
	}
	if snaps[0].Feature != "campaign-overview" || snaps[1].Feature != "live-calls" {
		t.Errorf("snapshot order wrong: %s, %s", snaps[0].Feature, snaps[1].Feature)
	}
	if snaps[0].Status != domain.StatusConnected {
		t.Errorf("initial status = %s, want connected", snaps[0].Status)
	}
}

func TestServer_PanelRoutes(t *testing.T) {
	g := newTestGateway(t)
	s := g.server

	// Render route
	rec := httptest.NewRecorder()
	s.handlePanel(rec, httptest.NewRequest(http.MethodGet, "/panels/live-calls", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d", rec.Code)
	}
	var view boundary.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("render response not JSON: %v", err)
	}
	if view.Feature != "live-calls" {
		t.Errorf("view feature = %q", view.Feature)
	}

	// Unknown panel
	rec = httptest.NewRecorder()
	s.handlePanel(rec, httptest.NewRequest(http.MethodGet, "/panels/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown panel status = %d, want 404", rec.Code)
	}

	// Retry requires POST
	rec = httptest.NewRecorder()
	s.handlePanel(rec, httptest.NewRequest(http.MethodGet, "/panels/live-calls/retry", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET retry status = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.handlePanel(rec, httptest.NewRequest(http.MethodPost, "/panels/live-calls/retry", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("POST retry status = %d, want 200", rec.Code)
	}
}

func TestServer_HealthReflectsPanelErrors(t *testing.T) {
	g := newTestGateway(t)
	s := g.server

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("initial health status = %d, want 200", rec.Code)
	}

	// Failing a render flips the aggregate to unhealthy.
	g.RenderPanel(context.Background(), "live-calls")

	rec = httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded health status = %d, want 503", rec.Code)
	}

	var report HealthReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("health response not JSON: %v", err)
	}
	if !report.Panels["live-calls"].HasError {
		t.Error("live-calls panel should report an error")
	}
}
