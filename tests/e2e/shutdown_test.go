package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/liveboard/internal/control"
	"github.com/vietddude/liveboard/internal/core/config"
)

func TestGracefulShutdown(t *testing.T) {
	// Memory-mode config: no database, cache or live-data gateway, but
	// enough to mount boundaries and start the HTTP server.
	cfg := control.Config{
		Port:      0,
		Reconnect: config.DefaultReconnect(),
		Panels: []config.PanelConfig{
			{ID: "campaign-overview", Title: "Campaigns", MaxStaleness: 30 * time.Second},
			{ID: "live-calls", Title: "Live Calls", MaxStaleness: 30 * time.Second},
		},
	}

	gateway, err := control.NewGateway(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create gateway: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := gateway.Start(ctx); err != nil {
		t.Fatalf("Failed to start gateway: %v", err)
	}

	// Exercise a render pass while running; no cache means the panels
	// answer with fallback views, never an error.
	if _, err := gateway.RenderPanel(ctx, "live-calls"); err != nil {
		t.Errorf("RenderPanel failed: %v", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := gateway.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestRenderAfterShutdown(t *testing.T) {
	cfg := control.Config{
		Port:      0,
		Reconnect: config.DefaultReconnect(),
		Panels: []config.PanelConfig{
			{ID: "live-calls", Title: "Live Calls"},
		},
	}

	gateway, err := control.NewGateway(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create gateway: %v", err)
	}

	ctx := context.Background()
	if err := gateway.Start(ctx); err != nil {
		t.Fatalf("Failed to start gateway: %v", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := gateway.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}

	// Rendering after shutdown still returns a complete view; the
	// boundaries simply no longer drive reconnection.
	if _, err := gateway.RenderPanel(ctx, "live-calls"); err != nil {
		t.Errorf("RenderPanel after Stop failed: %v", err)
	}
}
