package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spetersoncode/relay"
)

// clientHeader is the fixed identification header sent on every request.
const clientHeader = "X-Relay-Client"

// clientVersion identifies this client build to the backend.
const clientVersion = "relay-go/1"

// DefaultTimeout is the per-attempt request timeout.
const DefaultTimeout = 30 * time.Second

// Client talks to one backend endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures the backend client.
type ClientOption func(*Client)

// WithTimeout overrides the per-attempt request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithAPIKey sets the bearer credential sent with every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a backend client for the given base URL.
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Chat performs a single generation call.
// A 2xx response with empty content is a permanent provider error: the call
// consumed provider budget but produced nothing usable, and repeating it
// against the same provider is unlikely to help.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	if resp.Content == "" {
		return nil, relay.NewPermanentError(
			fmt.Sprintf("provider %s returned empty content", resp.Provider), 0, nil)
	}
	return &resp, nil
}

// Stats fetches the server-side usage aggregates.
func (c *Client) Stats(ctx context.Context) (*ServerStats, error) {
	var resp ServerStats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Models lists the backend's available model configurations.
func (c *Client) Models(ctx context.Context) ([]ModelInfo, error) {
	var resp []ModelInfo
	if err := c.do(ctx, http.MethodGet, "/models", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TestProvider runs a diagnostic single-call probe against a provider.
func (c *Client) TestProvider(ctx context.Context, provider string) (*ProbeResult, error) {
	var resp ProbeResult
	if err := c.do(ctx, http.MethodPost, "/test/"+provider, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks backend liveness. A nil error means the backend answered 2xx.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// do performs one HTTP exchange and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	httpReq.Header.Set(clientHeader, clientVersion)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Timeouts and connection failures classify via the retry heuristics
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return wrapHTTPError(method, path, httpResp)
	}
	if out == nil {
		return nil
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return relay.NewPermanentError(
			fmt.Sprintf("api: malformed response from %s %s", method, path),
			httpResp.StatusCode, err)
	}
	return nil
}
