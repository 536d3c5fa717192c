// Package dispatch executes a single request envelope against a persona's
// provider chain. The chain is an explicit state machine (primary, then at
// most one fallback tier); attempts within a tier are driven by the retry
// package and are strictly sequential, so at most one outbound call is in
// flight per envelope at any instant.
package dispatch

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spetersoncode/relay"
	"github.com/spetersoncode/relay/internal/api"
	"github.com/spetersoncode/relay/persona"
	"github.com/spetersoncode/relay/retry"
)

// state identifies the dispatcher's position in the fallback chain.
type state int

const (
	statePrimary state = iota
	stateFallback
	stateTerminal
)

// Dispatcher executes envelopes against provider configurations.
// Backend clients are lazily initialized per endpoint and reused.
type Dispatcher struct {
	retryCfg retry.Config
	timeout  time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	clients map[string]*api.Client
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRetryConfig overrides the per-tier retry configuration.
func WithRetryConfig(cfg retry.Config) Option {
	return func(d *Dispatcher) {
		d.retryCfg = cfg
	}
}

// WithTimeout overrides the per-attempt request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// New creates a Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		retryCfg: retry.DefaultConfig(),
		timeout:  api.DefaultTimeout,
		log:      zap.NewNop(),
		clients:  make(map[string]*api.Client),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RetryConfig returns the per-tier retry configuration in use.
func (d *Dispatcher) RetryConfig() retry.Config { return d.retryCfg }

// clientFor returns the backend client for a provider configuration,
// initializing it on first use. The credential is resolved from the
// environment via the config's credential reference, never stored in the
// profile itself.
func (d *Dispatcher) clientFor(cfg persona.ProviderConfig) *api.Client {
	key := cfg.Endpoint + "|" + cfg.CredentialRef

	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.clients[key]; ok {
		return c
	}

	opts := []api.ClientOption{api.WithTimeout(d.timeout)}
	if cfg.CredentialRef != "" {
		if key := os.Getenv(cfg.CredentialRef); key != "" {
			opts = append(opts, api.WithAPIKey(key))
		}
	}
	c := api.New(cfg.Endpoint, opts...)
	d.clients[key] = c
	return c
}

// Dispatch runs the envelope through the profile's provider chain and
// returns a terminal result. The returned result is always non-nil; on
// terminal failure it carries the attempt trail and Err holds a
// relay.AllProvidersExhaustedError.
//
// Retry events for the in-flight tier are emitted on events when non-nil.
func (d *Dispatcher) Dispatch(ctx context.Context, env relay.Envelope, profile persona.Profile, events chan<- retry.Event) *relay.Result {
	start := time.Now()
	result := &relay.Result{RequestID: env.ID}

	var lastErr error
	totalCalls := 0

	st := statePrimary
	for st != stateTerminal {
		var cfg persona.ProviderConfig
		switch st {
		case statePrimary:
			cfg = profile.Primary
		case stateFallback:
			cfg = *profile.Fallback
		}

		result.Attempted = append(result.Attempted, cfg.Provider)
		d.log.Debug("dispatching",
			zap.String("request_id", env.ID),
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.Model),
		)

		resp, calls, err := d.attemptTier(ctx, env, profile, cfg, events)
		totalCalls += calls

		if err == nil {
			result.Status = relay.StatusCompleted
			result.Provider = resp.Provider
			result.Model = resp.Model
			result.Content = resp.Content
			result.Cost = resp.Cost
			result.Retries = totalCalls - 1
			result.Duration = time.Since(start)
			return result
		}

		lastErr = err
		d.log.Warn("provider tier exhausted",
			zap.String("request_id", env.ID),
			zap.String("provider", cfg.Provider),
			zap.Error(err),
		)

		// The fallback tier is entered at most once and never cascades.
		if st == statePrimary && env.FallbackAllowed && profile.Fallback != nil {
			st = stateFallback
		} else {
			st = stateTerminal
		}
	}

	result.Status = relay.StatusFailed
	result.Retries = totalCalls - 1
	result.Duration = time.Since(start)
	result.Err = &relay.AllProvidersExhaustedError{
		RequestID: env.ID,
		Attempted: result.Attempted,
		Cause:     lastErr,
	}
	return result
}

// attemptTier runs the envelope against one provider configuration with
// retry, returning the response, the number of calls made, and the terminal
// error for the tier.
func (d *Dispatcher) attemptTier(ctx context.Context, env relay.Envelope, profile persona.Profile, cfg persona.ProviderConfig, events chan<- retry.Event) (*api.ChatResponse, int, error) {
	client := d.clientFor(cfg)
	req := buildRequest(env, profile, cfg)

	calls := 0
	resp, err := retry.DoWithEvents(ctx, d.retryCfg, events, func() (*api.ChatResponse, error) {
		calls++
		return client.Chat(ctx, req)
	})
	return resp, calls, err
}

// buildRequest assembles the wire request, filling unset envelope fields
// from the persona profile's defaults.
func buildRequest(env relay.Envelope, profile persona.Profile, cfg persona.ProviderConfig) api.ChatRequest {
	req := api.ChatRequest{
		Persona:         env.Persona,
		Message:         env.Message,
		UseCase:         env.UseCase.String(),
		Complexity:      env.Complexity.String(),
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		MaxTokens:       env.MaxTokens,
		Temperature:     env.Temperature,
		FallbackAllowed: env.FallbackAllowed,
	}
	if req.Complexity == "" {
		req.Complexity = profile.Complexity.String()
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = profile.MaxTokens
	}
	if req.Temperature == nil {
		temp := profile.Temperature
		req.Temperature = &temp
	}
	return req
}
