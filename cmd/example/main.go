// Package main is a small demonstration of the relay client.
//
// Configuration is via environment variables (a .env file is loaded when
// present):
//
//	RELAY_BASE_URL       - Backend base URL (required)
//	RELAY_API_KEY        - Bearer token (optional)
//	RELAY_TIMEOUT        - Per-request timeout (default: 30s)
//	RELAY_BASELINE_COST  - Savings baseline per request (default: 0.01)
//	RELAY_PROBE_INTERVAL - Reachability probe interval (default: 15s)
//	RELAY_DATA_DIR       - Directory for durable queue/stats (optional)
//
// Usage:
//
//	RELAY_BASE_URL=http://localhost:8080 go run ./cmd/example
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/spetersoncode/relay"
	"github.com/spetersoncode/relay/client"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := client.ConfigFromEnv()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	cfg.Logger = logger

	events := make(chan client.Event, 64)
	cfg.Events = events
	go func() {
		for ev := range events {
			logger.Debug("event", zap.String("type", string(ev.Type)), zap.String("request_id", ev.RequestID))
		}
	}()

	c, err := client.New(cfg)
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rec, err := c.Recommendations("cherry")
	if err != nil {
		log.Fatalf("recommendations: %v", err)
	}
	fmt.Printf("cherry prefers %v (temperature %.1f)\n", rec.UseCases, rec.Temperature)

	res, err := c.Submit(ctx, relay.NewEnvelope("cherry", "Hey, how is your day going?",
		relay.WithUseCase(relay.UseCaseCasualChat),
	))
	if err != nil {
		log.Fatalf("submit: %v", err)
	}

	switch res.Status {
	case relay.StatusQueued:
		fmt.Printf("offline: queued as %s\n", res.QueueID)
	case relay.StatusCompleted:
		fmt.Printf("[%s/%s] %s\n", res.Provider, res.Model, res.Content)
	}

	snap := c.UsageSnapshot()
	fmt.Printf("usage: %d requests, $%.4f spent, $%.4f saved\n",
		snap.TotalRequests, snap.TotalCost, snap.TotalSavings)
}
