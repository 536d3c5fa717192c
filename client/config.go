package client

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/spetersoncode/relay/persona"
	"github.com/spetersoncode/relay/retry"
	"github.com/spetersoncode/relay/store"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the backend base URL. Required.
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Profiles is the persona table. When empty the built-in defaults are
	// used.
	Profiles []persona.Profile

	// RetryConfig configures retry behavior for transient errors.
	// If nil, uses the default retry configuration.
	RetryConfig *retry.Config

	// Timeout is the per-request HTTP timeout. Zero means the default.
	Timeout time.Duration

	// BaselineCost is the per-request cost baseline for savings tracking.
	BaselineCost float64

	// Adapter persists the offline queue and usage counters. When nil an
	// in-memory adapter is used and nothing survives a restart.
	Adapter store.Adapter

	// ProbeInterval is the base interval for the background reachability
	// probe. Zero disables the probe loop; network state is then driven
	// only through SetOnline.
	ProbeInterval time.Duration

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are
	// dropped.
	Events chan<- Event

	// Logger receives background activity logs. Defaults to a no-op.
	Logger *zap.Logger
}

// envSpec is the environment surface, prefixed RELAY_.
type envSpec struct {
	BaseURL       string        `envconfig:"BASE_URL" required:"true"`
	APIKey        string        `envconfig:"API_KEY"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"30s"`
	BaselineCost  float64       `envconfig:"BASELINE_COST" default:"0.01"`
	ProbeInterval time.Duration `envconfig:"PROBE_INTERVAL" default:"15s"`
	DataDir       string        `envconfig:"DATA_DIR"`
}

// ConfigFromEnv builds a Config from RELAY_-prefixed environment
// variables. RELAY_DATA_DIR, when set, selects a file-backed adapter so
// the queue and counters survive restarts.
func ConfigFromEnv() (Config, error) {
	var spec envSpec
	if err := envconfig.Process("relay", &spec); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	cfg := Config{
		BaseURL:       spec.BaseURL,
		APIKey:        spec.APIKey,
		Timeout:       spec.Timeout,
		BaselineCost:  spec.BaselineCost,
		ProbeInterval: spec.ProbeInterval,
	}
	if spec.DataDir != "" {
		adapter, err := store.NewFileAdapter(spec.DataDir)
		if err != nil {
			return Config{}, err
		}
		cfg.Adapter = adapter
	}
	return cfg, nil
}
