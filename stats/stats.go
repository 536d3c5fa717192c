// Package stats tracks local usage statistics: request counts, cumulative
// cost, and savings against a configured per-request baseline. Counters are
// persisted through a store.Adapter on every mutation and reloaded on
// construction, so they survive restarts. Local counters are authoritative;
// server aggregates are reconciliation display only.
package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spetersoncode/relay/store"
)

// storeKey is the adapter key holding the serialized counters.
const storeKey = "stats"

// ProviderUsage accumulates per-provider counters.
type ProviderUsage struct {
	Requests int     `json:"requests"`
	Cost     float64 `json:"cost"`
}

// UsageStats is a point-in-time copy of the tracked counters.
type UsageStats struct {
	TotalRequests int                      `json:"total_requests"`
	TotalCost     float64                  `json:"total_cost"`
	TotalSavings  float64                  `json:"total_savings"`
	Providers     map[string]ProviderUsage `json:"providers"`
	// Since is when the counters were last reset (or first created).
	Since time.Time `json:"since"`
}

// Tracker accumulates usage counters. All methods are safe for concurrent
// use; every mutation is persisted before the method returns.
type Tracker struct {
	adapter  store.Adapter
	baseline float64

	mu    sync.Mutex
	usage UsageStats
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithBaselineCost sets the per-request baseline used to compute savings.
// A successful dispatch cheaper than the baseline counts the difference as
// savings; a dispatch at or above the baseline counts zero.
func WithBaselineCost(cost float64) Option {
	return func(t *Tracker) {
		if cost > 0 {
			t.baseline = cost
		}
	}
}

// NewTracker creates a tracker on the given adapter and loads any
// previously persisted counters. A missing key means zeroed counters.
func NewTracker(ctx context.Context, adapter store.Adapter, opts ...Option) (*Tracker, error) {
	if adapter == nil {
		adapter = store.NewMemoryAdapter()
	}
	t := &Tracker{adapter: adapter}
	for _, opt := range opts {
		opt(t)
	}

	found, err := store.LoadJSON(ctx, adapter, storeKey, &t.usage)
	if err != nil {
		return nil, fmt.Errorf("load persisted stats: %w", err)
	}
	if !found {
		t.usage = UsageStats{Since: time.Now()}
	}
	if t.usage.Providers == nil {
		t.usage.Providers = make(map[string]ProviderUsage)
	}
	return t, nil
}

// Record adds one completed dispatch for provider at the given cost.
// Savings accrue when the cost comes in under the configured baseline.
func (t *Tracker) Record(ctx context.Context, provider string, cost float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.baseline > 0 && cost < t.baseline {
		t.usage.TotalSavings += t.baseline - cost
	}
	return t.recordLocked(ctx, provider, cost)
}

// RecordFailure adds one terminally failed dispatch for provider. The
// attempt and any provider-side cost it incurred still count; a failure
// never counts as savings.
func (t *Tracker) RecordFailure(ctx context.Context, provider string, cost float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recordLocked(ctx, provider, cost)
}

func (t *Tracker) recordLocked(ctx context.Context, provider string, cost float64) error {
	t.usage.TotalRequests++
	t.usage.TotalCost += cost
	pu := t.usage.Providers[provider]
	pu.Requests++
	pu.Cost += cost
	t.usage.Providers[provider] = pu

	return t.persistLocked(ctx)
}

// Snapshot returns a deep copy of the current counters.
func (t *Tracker) Snapshot() UsageStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.usage
	out.Providers = make(map[string]ProviderUsage, len(t.usage.Providers))
	for name, pu := range t.usage.Providers {
		out.Providers[name] = pu
	}
	return out
}

// Reset zeroes all counters and persists the empty state. Counters are
// otherwise monotonic; nothing else clears them.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.usage = UsageStats{
		Providers: make(map[string]ProviderUsage),
		Since:     time.Now(),
	}
	return t.persistLocked(ctx)
}

func (t *Tracker) persistLocked(ctx context.Context) error {
	return store.SaveJSON(ctx, t.adapter, storeKey, t.usage)
}
