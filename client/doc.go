// Package client provides the request router for the relay library: a
// single façade that resolves personas, dispatches requests with retry and
// fallback, queues work durably while offline, and tracks usage.
//
// # Basic usage
//
//	c, err := client.New(client.Config{
//		BaseURL: "https://api.example.com",
//		APIKey:  os.Getenv("RELAY_API_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.Submit(ctx, relay.NewEnvelope("cherry", "Hi there!",
//		relay.WithUseCase(relay.UseCaseCasualChat),
//	))
//
// A Result is returned for queued work too: when the network is offline
// and the envelope allows fallback, Submit returns Status
// relay.StatusQueued with a queue id instead of an error. The queue drains
// automatically, strictly in order, when the network comes back; each
// drained outcome is delivered on DrainResults.
//
// # Durability
//
// Pass a store.Adapter in Config to persist the offline queue and usage
// counters across restarts:
//
//	adapter, err := store.NewFileAdapter("/var/lib/myapp/relay")
//	c, err := client.New(client.Config{BaseURL: url, Adapter: adapter})
//
// # Events
//
// Supply an Events channel to observe progress ("connecting",
// "processing", "complete"/"error"), queueing, drains, and individual
// retry attempts. Delivery is non-blocking; a full channel drops events
// rather than stalling a dispatch.
package client
