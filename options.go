package relay

// Options contains per-request configuration applied when building an Envelope.
type Options struct {
	UseCase          UseCase
	Complexity       Complexity
	MaxTokens        int
	Temperature      *float64
	FallbackDisabled bool
}

// Option is a functional option for configuring a request envelope.
type Option func(*Options)

// WithUseCase sets the use case for the request.
func WithUseCase(u UseCase) Option {
	return func(o *Options) {
		o.UseCase = u
	}
}

// WithComplexity sets the expected complexity tier.
func WithComplexity(c Complexity) Option {
	return func(o *Options) {
		o.Complexity = c
	}
}

// WithMaxTokens caps the number of generated output tokens.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithFallbackDisabled disallows both offline queueing and the fallback
// provider tier for this request.
func WithFallbackDisabled() Option {
	return func(o *Options) {
		o.FallbackDisabled = true
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
