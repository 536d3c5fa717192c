package client

import (
	"context"
)

// ServerStats is the server-aggregated usage view. It is reconciliation
// display data only; UsageSnapshot remains authoritative for the client.
type ServerStats struct {
	TotalRequests int                      `json:"total_requests"`
	TotalCost     float64                  `json:"total_cost"`
	TotalSavings  float64                  `json:"total_savings"`
	Providers     map[string]ProviderUsage `json:"providers"`
}

// ProviderUsage is a per-provider entry in the server aggregates.
type ProviderUsage struct {
	Requests int     `json:"requests"`
	Cost     float64 `json:"cost"`
}

// ModelInfo describes one model configuration the backend offers.
type ModelInfo struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	ContextWindow int    `json:"context_window"`
	Available     bool   `json:"available"`
}

// ProbeResult is the outcome of a single diagnostic provider call.
type ProbeResult struct {
	Provider string `json:"provider"`
	OK       bool   `json:"ok"`
	Latency  int64  `json:"latency_ms"`
	Detail   string `json:"detail,omitempty"`
}

// ServerStats fetches server-aggregated usage for reconciliation display.
func (c *Client) ServerStats(ctx context.Context) (*ServerStats, error) {
	raw, err := c.backend.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := &ServerStats{
		TotalRequests: raw.TotalRequests,
		TotalCost:     raw.TotalCost,
		TotalSavings:  raw.TotalSavings,
		Providers:     make(map[string]ProviderUsage, len(raw.Providers)),
	}
	for name, pu := range raw.Providers {
		out.Providers[name] = ProviderUsage{Requests: pu.Requests, Cost: pu.Cost}
	}
	return out, nil
}

// Models lists the models the backend currently offers.
func (c *Client) Models(ctx context.Context) ([]ModelInfo, error) {
	raw, err := c.backend.Models(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ModelInfo, len(raw))
	for i, m := range raw {
		out[i] = ModelInfo{
			Provider:      m.Provider,
			Model:         m.Model,
			ContextWindow: m.ContextWindow,
			Available:     m.Available,
		}
	}
	return out, nil
}

// TestProvider runs a single diagnostic call against the named provider.
func (c *Client) TestProvider(ctx context.Context, provider string) (*ProbeResult, error) {
	raw, err := c.backend.TestProvider(ctx, provider)
	if err != nil {
		return nil, err
	}
	return &ProbeResult{
		Provider: raw.Provider,
		OK:       raw.OK,
		Latency:  raw.Latency,
		Detail:   raw.Detail,
	}, nil
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) error {
	return c.backend.Health(ctx)
}
