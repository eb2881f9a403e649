// Package redis caches panel snapshots for degraded polling mode and
// provides a pull-based liveness probe.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/liveboard/internal/core/domain"
)

// ErrSnapshotNotFound is returned when no cached snapshot exists for a panel.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Client wraps Redis operations for the panel snapshot cache.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies the connection.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Check implements the liveness probe: a PING round-trip stands in for
// network reachability when no push signal is available.
func (c *Client) Check(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func snapshotKey(panel domain.PanelID) string {
	return fmt.Sprintf("panel_snapshot:%s", panel)
}

// SetSnapshot stores the latest upstream snapshot for a panel.
// A zero ttl keeps the snapshot until overwritten.
func (c *Client) SetSnapshot(ctx context.Context, snap *domain.PanelSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, snapshotKey(snap.Panel), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the cached snapshot for a panel.
func (c *Client) GetSnapshot(ctx context.Context, panel domain.PanelID) (*domain.PanelSnapshot, error) {
	data, err := c.rdb.Get(ctx, snapshotKey(panel)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap domain.PanelSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
