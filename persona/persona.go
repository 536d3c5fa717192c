package persona

import (
	"github.com/spetersoncode/relay"
)

// ProviderConfig identifies a backend provider configuration for dispatch.
// It is immutable once loaded and never carries the raw credential, only
// the name of the environment variable holding it.
type ProviderConfig struct {
	// Provider is the provider name sent to the backend (e.g. "openai").
	Provider string `json:"provider"`
	// Model is the model identifier for this configuration.
	Model string `json:"model"`
	// Endpoint is the base URL of the backend serving this provider.
	Endpoint string `json:"endpoint"`
	// CredentialRef names the environment variable holding the credential.
	CredentialRef string `json:"credentialRef,omitempty"`
	// ContextWindow is the model's context window size in tokens.
	ContextWindow int `json:"contextWindow"`
}

// Profile binds a persona to its provider chain and request defaults.
// One profile exists per known persona; profiles are created at process
// start from static configuration and never mutated at runtime.
type Profile struct {
	// ID is the persona identifier (e.g. "cherry").
	ID string `json:"id"`
	// Primary is the provider configuration tried first.
	Primary ProviderConfig `json:"primary"`
	// Fallback, if non-nil, is tried once after the primary is exhausted.
	Fallback *ProviderConfig `json:"fallback,omitempty"`
	// UseCases lists the use cases this persona is tuned for.
	UseCases []relay.UseCase `json:"useCases"`
	// Complexity is the default complexity tier for the persona.
	Complexity relay.Complexity `json:"complexity"`
	// Temperature is the default sampling temperature.
	Temperature float64 `json:"temperature"`
	// MaxTokens is the default output cap.
	MaxTokens int `json:"maxTokens"`
}

// Recommendations are the persona's preferred request defaults, used by
// callers to fill an envelope before submission.
type Recommendations struct {
	UseCases    []relay.UseCase  `json:"useCases"`
	Complexity  relay.Complexity `json:"complexity"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"maxTokens"`
}
