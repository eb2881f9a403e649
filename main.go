package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/vietddude/liveboard/internal/core/domain"
	"github.com/vietddude/liveboard/internal/resilience/backoff"
	"github.com/vietddude/liveboard/internal/resilience/boundary"
	"github.com/vietddude/liveboard/internal/resilience/reconnect"
	"github.com/vietddude/stylelog"
)

// Demo: wrap a flaky panel in a render boundary and watch the
// fallback/reconnect cycle play out. Run `go run .` with no services.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	stylelog.InitDefault()

	var healthy atomic.Bool

	// A renderer that fails with a connection error until the feed is back.
	child := boundary.RendererFunc(func(ctx context.Context) (domain.Frame, error) {
		if !healthy.Load() {
			return domain.Frame{}, errors.New("websocket connection refused")
		}
		summary := domain.CampaignSummary{
			CampaignID: "cmp-1042",
			Name:       "Summer Leads",
			LiveCalls:  7,
			TotalCalls: 182,
			Conversion: 0.31,
			SpendUSD:   1240.50,
		}
		volume := []domain.CallVolumePoint{
			{Bucket: time.Now().Add(-2 * time.Minute), Calls: 5},
			{Bucket: time.Now().Add(-1 * time.Minute), Calls: 9},
			{Bucket: time.Now(), Calls: 7},
		}
		return domain.Frame{
			Panel:       "live-calls",
			Title:       "Live Calls",
			Data:        map[string]any{"summary": summary, "volume": volume},
			GeneratedAt: time.Now(),
		}, nil
	})

	// A reconnect operation that succeeds on the third attempt.
	var tries atomic.Int32
	reconnectFn := func(ctx context.Context) error {
		n := tries.Add(1)
		if n < 3 {
			return fmt.Errorf("dial attempt %d failed", n)
		}
		healthy.Store(true)
		return nil
	}

	b := boundary.New(boundary.Options{
		Feature: "live-calls",
		Child:   child,
		Reconnect: reconnect.Config{
			EnableAutoReconnect: true,
			MaxAttempts:         5,
			Policy:              backoff.Policy{Base: 200 * time.Millisecond, Max: 2 * time.Second},
		},
		OnReconnect: reconnectFn,
	})
	b.Mount()
	defer b.Unmount()

	ctx := context.Background()

	fmt.Println("=== 1. First render fails, boundary answers with a fallback ===")
	printView(b.Render(ctx))

	fmt.Println("\n=== 2. While reconnecting, renders keep returning the fallback ===")
	time.Sleep(300 * time.Millisecond)
	printView(b.Render(ctx))

	fmt.Println("\n=== 3. After the reconnect succeeds, children render again ===")
	time.Sleep(1 * time.Second)
	printView(b.Render(ctx))
}

func printView(v boundary.View) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
