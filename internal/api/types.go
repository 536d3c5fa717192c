// Package api implements the HTTP client for the backend generation service.
//
// The backend exposes a small REST surface: POST /chat for generation,
// GET /stats for server-side aggregates, GET /models, POST /test/{provider}
// for diagnostics, and GET /health. Non-2xx responses are mapped to the
// relay error taxonomy so the retry layer can classify them.
package api

// ChatRequest is the body of POST /chat.
// Provider and Model are targeting hints naming which configuration the
// backend should use for this call.
type ChatRequest struct {
	Persona         string   `json:"persona"`
	Message         string   `json:"message"`
	UseCase         string   `json:"use_case"`
	Complexity      string   `json:"complexity"`
	Provider        string   `json:"provider,omitempty"`
	Model           string   `json:"model,omitempty"`
	MaxTokens       int      `json:"max_tokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	FallbackAllowed bool     `json:"fallback_allowed"`
}

// ChatUsage is the token accounting reported by the backend.
type ChatUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Provider string     `json:"provider"`
	Model    string     `json:"model"`
	Content  string     `json:"content"`
	Cost     float64    `json:"cost,omitempty"`
	Usage    *ChatUsage `json:"usage,omitempty"`
}

// ProviderUsage is a per-provider entry in the server aggregates.
type ProviderUsage struct {
	Requests int     `json:"requests"`
	Cost     float64 `json:"cost"`
}

// ServerStats is the body of GET /stats. It is reconciliation display data
// only; local counters remain authoritative for the client.
type ServerStats struct {
	TotalRequests int                      `json:"total_requests"`
	TotalCost     float64                  `json:"total_cost"`
	TotalSavings  float64                  `json:"total_savings"`
	Providers     map[string]ProviderUsage `json:"providers"`
}

// ModelInfo is one entry in GET /models.
type ModelInfo struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	ContextWindow int    `json:"context_window"`
	Available     bool   `json:"available"`
}

// ProbeResult is the body of POST /test/{provider}.
type ProbeResult struct {
	Provider string `json:"provider"`
	OK       bool   `json:"ok"`
	Latency  int64  `json:"latency_ms"`
	Detail   string `json:"detail,omitempty"`
}
