// Package relay provides a resilient client-side request layer for
// persona-routed AI generation backends.
//
// A request names a persona; the persona profile selects a primary provider
// configuration and an optional fallback. Submission validates locally,
// checks connectivity, and then either dispatches with retry/backoff and
// fallback, or durably queues the request for automatic dispatch when
// connectivity returns. Every attempted dispatch updates local usage
// accounting.
//
// Use the [github.com/spetersoncode/relay/client] package as the entry
// point, and the [github.com/spetersoncode/relay/persona] package for the
// built-in persona profiles.
//
// # Basic Usage
//
// Submit a request for a persona:
//
//	c, err := client.New(client.Config{
//	    BaseURL:  "https://api.example.com",
//	    Profiles: persona.DefaultProfiles("https://api.example.com"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	env := relay.NewEnvelope("cherry", "Tell me about your day",
//	    relay.WithUseCase(relay.UseCaseCasualChat),
//	)
//
//	res, err := c.Submit(ctx, env)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Content)
//
// # Offline Queueing
//
// When the network monitor reports offline and the envelope allows fallback,
// Submit returns a queued acknowledgment instead of an error:
//
//	res, err := c.Submit(ctx, env)
//	if err == nil && res.Status == relay.StatusQueued {
//	    fmt.Println("queued as", res.QueueID)
//	}
//
// Queued requests drain automatically, strictly in FIFO order, on the next
// offline-to-online transition. Each drained outcome is delivered on
// c.DrainResults(), correlatable by queue id.
//
// # Per-Request Options
//
// Customize envelopes with functional options:
//
//	env := relay.NewEnvelope("sophia", "Help me plan a trip",
//	    relay.WithUseCase(relay.UseCasePracticalAdvice),
//	    relay.WithComplexity(relay.ComplexityComplex),
//	    relay.WithMaxTokens(800),
//	    relay.WithTemperature(0.6),
//	)
//
// # Error Handling
//
// Failures are typed and categorized. Validation failures
// ([UnknownPersonaError], [InvalidUseCaseError]) never touch the network;
// transport failures are retried up to the configured ceiling before a
// terminal [AllProvidersExhaustedError] identifies every provider attempted:
//
//	res, err := c.Submit(ctx, env)
//	if err != nil {
//	    if attempted := relay.AttemptedProviders(err); attempted != nil {
//	        log.Printf("all providers failed: %v", attempted)
//	    }
//	}
//
// # Supporting Packages
//
// For lower-level building blocks, see:
//
//   - [github.com/spetersoncode/relay/retry]: retry with exponential backoff
//   - [github.com/spetersoncode/relay/queue]: the durable offline queue
//   - [github.com/spetersoncode/relay/netmon]: connectivity monitoring
//   - [github.com/spetersoncode/relay/stats]: usage and cost accounting
//   - [github.com/spetersoncode/relay/store]: pluggable durable storage
package relay
