// Package panel renders dashboard feature panels from cached upstream
// snapshots. Renderers are the child content wrapped by a boundary; they
// return errors freely and rely on the boundary to absorb them.
package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/liveboard/internal/core/domain"
)

// Source supplies the latest upstream snapshot for a panel.
type Source interface {
	GetSnapshot(ctx context.Context, panel domain.PanelID) (*domain.PanelSnapshot, error)
}

// Config holds per-panel render settings.
type Config struct {
	ID    domain.PanelID
	Title string
	// MaxStaleness marks the snapshot out of sync when exceeded. 0 = never.
	MaxStaleness time.Duration
}

// SnapshotPanel renders a feature panel from its cached snapshot.
type SnapshotPanel struct {
	cfg    Config
	source Source
	now    func() time.Time
}

// New creates a snapshot-backed panel renderer.
func New(cfg Config, source Source) *SnapshotPanel {
	return &SnapshotPanel{
		cfg:    cfg,
		source: source,
		now:    time.Now,
	}
}

// SetNow overrides the clock used for staleness checks. Test hook.
func (p *SnapshotPanel) SetNow(now func() time.Time) {
	p.now = now
}

// Render produces the panel frame from the latest snapshot. A snapshot
// older than MaxStaleness is reported as out of sync so the boundary
// classifies it as a sync mismatch.
func (p *SnapshotPanel) Render(ctx context.Context) (domain.Frame, error) {
	if p.source == nil {
		return domain.Frame{}, fmt.Errorf("panel %s has no snapshot source configured", p.cfg.ID)
	}

	snap, err := p.source.GetSnapshot(ctx, p.cfg.ID)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("failed to load snapshot for panel %s: %w", p.cfg.ID, err)
	}

	if p.cfg.MaxStaleness > 0 {
		if age := p.now().Sub(snap.UpdatedAt); age > p.cfg.MaxStaleness {
			return domain.Frame{}, fmt.Errorf(
				"panel %s data out of sync: snapshot is %s old", p.cfg.ID, age.Round(time.Second))
		}
	}

	return domain.Frame{
		Panel:       p.cfg.ID,
		Title:       p.cfg.Title,
		Data:        snap.Payload,
		GeneratedAt: p.now(),
	}, nil
}
