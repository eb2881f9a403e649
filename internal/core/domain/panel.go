package domain

import "time"

// PanelID identifies a dashboard feature panel (e.g. "campaign-overview").
type PanelID string

// Frame is a rendered snapshot of a panel, ready to serve to a dashboard client.
type Frame struct {
	Panel       PanelID        `json:"panel"`
	Title       string         `json:"title"`
	Data        map[string]any `json:"data,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// PanelSnapshot is the cached upstream data a panel renders from.
type PanelSnapshot struct {
	Panel     PanelID        `json:"panel"`
	Payload   map[string]any `json:"payload"`
	Sequence  uint64         `json:"sequence"`
	UpdatedAt time.Time      `json:"updated_at"`
}
