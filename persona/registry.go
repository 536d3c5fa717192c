package persona

import (
	"sort"

	"github.com/spetersoncode/relay"
)

// Registry is the static persona table. Lookups are pure and side-effect
// free; the registry is safe for concurrent use because it is never mutated
// after construction.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry builds a registry from a static profile slice.
// Later entries with a duplicate id overwrite earlier ones.
func NewRegistry(profiles []Profile) *Registry {
	m := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		m[p.ID] = p
	}
	return &Registry{profiles: m}
}

// Resolve returns the profile for a persona id. The returned profile is a
// copy; mutating it does not affect the table.
// Returns relay.UnknownPersonaError if the id is not in the table.
func (r *Registry) Resolve(id string) (Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, &relay.UnknownPersonaError{Persona: id}
	}
	p.UseCases = append([]relay.UseCase(nil), p.UseCases...)
	if p.Fallback != nil {
		fb := *p.Fallback
		p.Fallback = &fb
	}
	return p, nil
}

// RecommendationsFor returns the persona's preferred use cases and default
// sampling parameters.
// Returns relay.UnknownPersonaError if the id is not in the table.
func (r *Registry) RecommendationsFor(id string) (Recommendations, error) {
	p, ok := r.profiles[id]
	if !ok {
		return Recommendations{}, &relay.UnknownPersonaError{Persona: id}
	}
	return Recommendations{
		UseCases:    append([]relay.UseCase(nil), p.UseCases...),
		Complexity:  p.Complexity,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}, nil
}

// Personas returns the known persona ids in sorted order.
func (r *Registry) Personas() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultProfiles returns the built-in persona table, with every provider
// configuration pointed at the given backend base URL.
func DefaultProfiles(baseURL string) []Profile {
	return []Profile{
		{
			ID: "cherry",
			Primary: ProviderConfig{
				Provider:      "openai",
				Model:         "gpt-4o-mini",
				Endpoint:      baseURL,
				CredentialRef: "OPENAI_API_KEY",
				ContextWindow: 128000,
			},
			Fallback: &ProviderConfig{
				Provider:      "anthropic",
				Model:         "claude-3-5-haiku-latest",
				Endpoint:      baseURL,
				CredentialRef: "ANTHROPIC_API_KEY",
				ContextWindow: 200000,
			},
			UseCases:    []relay.UseCase{relay.UseCaseCasualChat, relay.UseCaseRoleplay},
			Complexity:  relay.ComplexitySimple,
			Temperature: 0.9,
			MaxTokens:   1024,
		},
		{
			ID: "sophia",
			Primary: ProviderConfig{
				Provider:      "anthropic",
				Model:         "claude-sonnet-4-5",
				Endpoint:      baseURL,
				CredentialRef: "ANTHROPIC_API_KEY",
				ContextWindow: 200000,
			},
			Fallback: &ProviderConfig{
				Provider:      "openai",
				Model:         "gpt-4o",
				Endpoint:      baseURL,
				CredentialRef: "OPENAI_API_KEY",
				ContextWindow: 128000,
			},
			UseCases:    []relay.UseCase{relay.UseCaseDeepTalk, relay.UseCasePracticalAdvice},
			Complexity:  relay.ComplexityComplex,
			Temperature: 0.7,
			MaxTokens:   2048,
		},
		{
			ID: "haru",
			Primary: ProviderConfig{
				Provider:      "google",
				Model:         "gemini-2.0-flash",
				Endpoint:      baseURL,
				CredentialRef: "GOOGLE_API_KEY",
				ContextWindow: 1000000,
			},
			Fallback: &ProviderConfig{
				Provider:      "openai",
				Model:         "gpt-4o-mini",
				Endpoint:      baseURL,
				CredentialRef: "OPENAI_API_KEY",
				ContextWindow: 128000,
			},
			UseCases:    []relay.UseCase{relay.UseCaseCreativeWriting, relay.UseCaseRoleplay},
			Complexity:  relay.ComplexityModerate,
			Temperature: 1.0,
			MaxTokens:   1536,
		},
		{
			// luna has no fallback tier; her requests fail terminally when
			// the primary is exhausted.
			ID: "luna",
			Primary: ProviderConfig{
				Provider:      "anthropic",
				Model:         "claude-3-5-haiku-latest",
				Endpoint:      baseURL,
				CredentialRef: "ANTHROPIC_API_KEY",
				ContextWindow: 200000,
			},
			UseCases:    []relay.UseCase{relay.UseCaseEmotionalSupport, relay.UseCaseDeepTalk},
			Complexity:  relay.ComplexityModerate,
			Temperature: 0.8,
			MaxTokens:   1024,
		},
	}
}
