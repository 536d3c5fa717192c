package relay

import (
	"time"

	"github.com/google/uuid"
)

// UseCase classifies what a request is for. Personas advertise the use cases
// they are tuned for, and the fixed set below is validated before dispatch.
type UseCase string

const (
	UseCaseCasualChat       UseCase = "casual_chat"
	UseCaseEmotionalSupport UseCase = "emotional_support"
	UseCaseRoleplay         UseCase = "roleplay"
	UseCaseCreativeWriting  UseCase = "creative_writing"
	UseCasePracticalAdvice  UseCase = "practical_advice"
	UseCaseDeepTalk         UseCase = "deep_talk"
)

// useCases is the fixed validation set.
var useCases = map[UseCase]bool{
	UseCaseCasualChat:       true,
	UseCaseEmotionalSupport: true,
	UseCaseRoleplay:         true,
	UseCaseCreativeWriting:  true,
	UseCasePracticalAdvice:  true,
	UseCaseDeepTalk:         true,
}

// Valid returns true if the use case is one of the fixed set.
func (u UseCase) Valid() bool { return useCases[u] }

// String returns the use case identifier.
func (u UseCase) String() string { return string(u) }

// Complexity indicates how demanding a request is expected to be. It is
// forwarded to the backend, which may use it for model selection.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Valid returns true if the complexity is one of the known tiers.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return true
	}
	return false
}

// String returns the complexity identifier.
func (c Complexity) String() string { return string(c) }

// Envelope is a single generation request. It is created once per caller
// invocation, immutable after creation, and consumed exactly once: either
// dispatched to completion or handed to the offline queue.
type Envelope struct {
	// ID uniquely identifies the request.
	ID string `json:"id"`
	// Persona selects the provider chain and defaults for this request.
	Persona string `json:"persona"`
	// Message is the user payload.
	Message string `json:"message"`
	// UseCase classifies the request; validated against the fixed set.
	UseCase UseCase `json:"useCase"`
	// Complexity is the expected demand tier.
	Complexity Complexity `json:"complexity"`
	// MaxTokens caps the generated output. 0 means the persona default.
	MaxTokens int `json:"maxTokens,omitempty"`
	// Temperature overrides the persona's default sampling temperature.
	Temperature *float64 `json:"temperature,omitempty"`
	// FallbackAllowed permits both offline queueing and the fallback
	// provider tier. Defaults to true.
	FallbackAllowed bool `json:"fallbackAllowed"`
	// CreatedAt is when the envelope was constructed.
	CreatedAt time.Time `json:"createdAt"`
}

// GenerateRequestID creates a unique request identifier.
func GenerateRequestID() string {
	return "req-" + uuid.New().String()
}

// NewEnvelope creates an envelope for the given persona and message.
// Unset fields default to the persona profile's values at dispatch time;
// FallbackAllowed defaults to true.
func NewEnvelope(persona, message string, opts ...Option) Envelope {
	options := ApplyOptions(opts...)
	return Envelope{
		ID:              GenerateRequestID(),
		Persona:         persona,
		Message:         message,
		UseCase:         options.UseCase,
		Complexity:      options.Complexity,
		MaxTokens:       options.MaxTokens,
		Temperature:     options.Temperature,
		FallbackAllowed: !options.FallbackDisabled,
		CreatedAt:       time.Now(),
	}
}
