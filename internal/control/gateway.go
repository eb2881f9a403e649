// Package control assembles the dashboard gateway: storage, cache, the
// live-data stream client and one render boundary per configured panel.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/liveboard/internal/core/config"
	"github.com/vietddude/liveboard/internal/core/domain"
	redisclient "github.com/vietddude/liveboard/internal/infra/redis"
	"github.com/vietddude/liveboard/internal/infra/storage"
	"github.com/vietddude/liveboard/internal/infra/storage/memory"
	"github.com/vietddude/liveboard/internal/infra/storage/postgres"
	"github.com/vietddude/liveboard/internal/infra/stream"
	"github.com/vietddude/liveboard/internal/panel"
	"github.com/vietddude/liveboard/internal/resilience/backoff"
	"github.com/vietddude/liveboard/internal/resilience/boundary"
	"github.com/vietddude/liveboard/internal/resilience/liveness"
	"github.com/vietddude/liveboard/internal/resilience/reconnect"
	"github.com/vietddude/liveboard/internal/telemetry"
)

// Config holds the gateway configuration.
type Config struct {
	Port      int
	Redis     redisclient.Config
	Database  postgres.Config
	Stream    stream.Config
	Reconnect config.ReconnectConfig
	Panels    []config.PanelConfig
}

// Gateway is the main application struct that manages the panel lifecycle.
type Gateway struct {
	cfg          Config
	boundaries   map[domain.PanelID]*boundary.Boundary
	order        []domain.PanelID
	server       *Server
	db           *postgres.DB
	redisClient  *redisclient.Client
	streamClient *stream.Client
	reports      storage.ErrorReportRepository
	log          *slog.Logger
}

// NewGateway creates a gateway with all dependencies initialized.
func NewGateway(ctx context.Context, cfg Config) (*Gateway, error) {

	// 1. Initialize Storage
	var reports storage.ErrorReportRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations. Goose needs the raw *sql.DB that sqlx wraps.
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		reports = postgres.NewReportRepo(db)
		slog.Info("Using PostgreSQL error report storage")
	} else {
		reports = memory.NewReportStore()
		slog.Info("Using in-memory error report storage")
	}

	// 2. Initialize Redis snapshot cache (optional)
	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, snapshot cache disabled", "error", err)
		} else {
			slog.Info("Connected to Redis snapshot cache")
		}
	}

	// 3. Initialize live-data stream client (optional)
	var streamClient *stream.Client
	if cfg.Stream.Endpoint != "" {
		var err error
		streamClient, err = stream.NewClient(ctx, cfg.Stream)
		if err != nil {
			slog.Warn("Failed to dial live data gateway, panels start degraded", "error", err)
		} else {
			slog.Info("Connected to live data gateway", "endpoint", cfg.Stream.Endpoint)
		}
	}

	g := &Gateway{
		cfg:          cfg,
		boundaries:   make(map[domain.PanelID]*boundary.Boundary),
		db:           db,
		redisClient:  redisClient,
		streamClient: streamClient,
		reports:      reports,
		log:          slog.Default(),
	}

	// 4. Telemetry: every report goes to the log and the report store.
	sink := telemetry.Multi{
		telemetry.NewLogSink(g.log),
		telemetry.NewStoreSink(reports, g.log),
	}

	// 5. One boundary per configured panel.
	rcCfg := reconnect.Config{
		EnableAutoReconnect: cfg.Reconnect.Enabled,
		MaxAttempts:         cfg.Reconnect.MaxAttempts,
		Policy: backoff.Policy{
			Base: cfg.Reconnect.BaseDelay,
			Max:  cfg.Reconnect.MaxDelay,
		},
	}

	var signal liveness.Signal
	var probe liveness.Probe
	var onReconnect reconnect.ReconnectFunc
	if streamClient != nil {
		signal = streamClient
		probe = streamClient
		onReconnect = streamClient.Reconnect
	} else if redisClient != nil {
		probe = redisClient
	}

	for _, pc := range cfg.Panels {
		b := boundary.New(boundary.Options{
			Feature:             string(pc.ID),
			Child:               g.newRenderer(pc),
			Reconnect:           rcCfg,
			OnReconnect:         onReconnect,
			OnFallbackToPolling: g.pollingHandler(pc.ID),
			Sink:                sink,
			Signal:              signal,
			Probe:               probe,
			PollInterval:        cfg.Reconnect.PollInterval,
			Log:                 g.log,
		})
		g.boundaries[pc.ID] = b
		g.order = append(g.order, pc.ID)
	}

	g.server = NewServer(g, cfg.Port)
	return g, nil
}

// newRenderer builds the child renderer for a panel. Panels read their
// frames from the cached snapshot; without a cache they report the missing
// source and let the boundary answer with a fallback view.
func (g *Gateway) newRenderer(pc config.PanelConfig) boundary.Renderer {
	var source panel.Source
	if g.redisClient != nil {
		source = g.redisClient
	}
	return panel.New(panel.Config{
		ID:           pc.ID,
		Title:        pc.Title,
		MaxStaleness: pc.MaxStaleness,
	}, source)
}

// pollingHandler switches a panel to cache-only polling mode.
func (g *Gateway) pollingHandler(id domain.PanelID) func() {
	if g.redisClient == nil {
		// No cache to poll from, so the action stays hidden.
		return nil
	}
	return func() {
		g.log.Info("Panel switched to polling mode", "panel", string(id))
	}
}

// Start mounts all boundaries and starts the HTTP server.
func (g *Gateway) Start(ctx context.Context) error {
	for _, id := range g.order {
		g.log.Info("Mounting panel boundary", "panel", string(id))
		g.boundaries[id].Mount()
	}

	go func() {
		if err := g.server.Start(); err != nil {
			g.log.Error("HTTP server failed", "error", err)
		}
	}()

	return nil
}

// Stop unmounts all boundaries and tears down clients and the server.
func (g *Gateway) Stop(ctx context.Context) error {
	g.log.Info("Stopping Gateway...")

	for _, id := range g.order {
		g.boundaries[id].Unmount()
	}

	if g.streamClient != nil {
		if err := g.streamClient.Close(); err != nil {
			g.log.Warn("Failed to close stream client", "error", err)
		}
	}
	if g.redisClient != nil {
		if err := g.redisClient.Close(); err != nil {
			g.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if g.db != nil {
		if err := g.db.Close(); err != nil {
			g.log.Warn("Failed to close database", "error", err)
		}
	}

	return g.server.Stop(ctx)
}

// RenderPanel renders one panel through its boundary.
func (g *Gateway) RenderPanel(ctx context.Context, id domain.PanelID) (boundary.View, error) {
	b, ok := g.boundaries[id]
	if !ok {
		return boundary.View{}, fmt.Errorf("panel not found: %s", id)
	}
	return b.Render(ctx), nil
}

// Snapshots returns the current state of every panel boundary in
// configuration order.
func (g *Gateway) Snapshots() []boundary.Snapshot {
	out := make([]boundary.Snapshot, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.boundaries[id].Snapshot())
	}
	return out
}

// RetryPanel triggers an immediate reconnect attempt for a panel.
func (g *Gateway) RetryPanel(id domain.PanelID) error {
	b, ok := g.boundaries[id]
	if !ok {
		return fmt.Errorf("panel not found: %s", id)
	}
	b.RetryNow()
	return nil
}

// PollPanel switches a panel to degraded polling mode.
func (g *Gateway) PollPanel(id domain.PanelID) error {
	b, ok := g.boundaries[id]
	if !ok {
		return fmt.Errorf("panel not found: %s", id)
	}
	b.FallbackToPolling()
	return nil
}

// RefreshPanel invokes the host reload primitive for a panel.
func (g *Gateway) RefreshPanel(id domain.PanelID) error {
	b, ok := g.boundaries[id]
	if !ok {
		return fmt.Errorf("panel not found: %s", id)
	}
	b.Refresh()
	return nil
}

// Reports returns the newest stored error reports for a panel.
func (g *Gateway) Reports(ctx context.Context, id domain.PanelID, limit int) ([]*domain.ErrorReport, error) {
	if _, ok := g.boundaries[id]; !ok {
		return nil, fmt.Errorf("panel not found: %s", id)
	}
	return g.reports.Recent(ctx, string(id), limit)
}

// Health reports the gateway dependencies and panel states.
func (g *Gateway) Health(ctx context.Context) HealthReport {
	report := HealthReport{
		Healthy:   true,
		Panels:    make(map[string]PanelHealth),
		UpdatedAt: time.Now(),
	}

	for _, id := range g.order {
		snap := g.boundaries[id].Snapshot()
		ph := PanelHealth{
			Status:      string(snap.Status),
			HasError:    snap.HasError,
			Attempts:    snap.Attempts,
			PollingMode: snap.PollingMode,
		}
		if snap.HasError || snap.Status == domain.StatusErrored {
			report.Healthy = false
		}
		report.Panels[string(id)] = ph
	}

	if g.db != nil {
		if err := g.db.Health(ctx); err != nil {
			report.Healthy = false
			report.Database = err.Error()
		} else {
			report.Database = "ok"
		}
	}
	if g.redisClient != nil {
		if err := g.redisClient.Check(ctx); err != nil {
			report.Redis = err.Error()
		} else {
			report.Redis = "ok"
		}
	}

	return report
}

// HealthReport aggregates dependency and panel health.
type HealthReport struct {
	Healthy   bool                   `json:"healthy"`
	Panels    map[string]PanelHealth `json:"panels"`
	Database  string                 `json:"database,omitempty"`
	Redis     string                 `json:"redis,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// PanelHealth is the health view of one panel boundary.
type PanelHealth struct {
	Status      string `json:"status"`
	HasError    bool   `json:"has_error"`
	Attempts    int    `json:"attempts"`
	PollingMode bool   `json:"polling_mode"`
}
