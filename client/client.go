package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spetersoncode/relay"
	"github.com/spetersoncode/relay/internal/api"
	"github.com/spetersoncode/relay/internal/dispatch"
	"github.com/spetersoncode/relay/netmon"
	"github.com/spetersoncode/relay/persona"
	"github.com/spetersoncode/relay/queue"
	"github.com/spetersoncode/relay/retry"
	"github.com/spetersoncode/relay/stats"
	"github.com/spetersoncode/relay/store"
)

// ErrClosed is returned by operations on a closed client.
var ErrClosed = errors.New("client is closed")

// Client is the request router: it resolves personas, dispatches online
// requests with retry and fallback, queues offline requests durably, and
// tracks usage. All methods are safe for concurrent use.
type Client struct {
	registry   *persona.Registry
	dispatcher *dispatch.Dispatcher
	queue      *queue.Manager
	monitor    *netmon.Monitor
	tracker    *stats.Tracker
	backend    *api.Client
	events     chan<- Event
	log        *zap.Logger

	// retryEvents fans dispatcher retry telemetry into the events channel.
	retryEvents chan retry.Event

	drainResults chan queue.DrainResult

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a client from the given configuration and starts its
// background workers (retry event forwarding, auto-drain, and the
// reachability probe when a probe interval is configured). Close releases
// them.
func New(cfg Config) (*Client, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	adapter := cfg.Adapter
	if adapter == nil {
		adapter = store.NewMemoryAdapter()
	}

	profiles := cfg.Profiles
	if len(profiles) == 0 {
		profiles = persona.DefaultProfiles(cfg.BaseURL)
	}

	retryCfg := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryCfg = *cfg.RetryConfig
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = api.DefaultTimeout
	}

	ctx := context.Background()
	q, err := queue.NewManager(ctx, adapter, queue.WithLogger(log))
	if err != nil {
		return nil, err
	}
	tracker, err := stats.NewTracker(ctx, adapter, stats.WithBaselineCost(cfg.BaselineCost))
	if err != nil {
		return nil, err
	}

	backendOpts := []api.ClientOption{api.WithTimeout(timeout)}
	if cfg.APIKey != "" {
		backendOpts = append(backendOpts, api.WithAPIKey(cfg.APIKey))
	}
	backend := api.New(cfg.BaseURL, backendOpts...)

	monitorOpts := []netmon.Option{
		netmon.WithLogger(log),
		netmon.WithProbeInterval(cfg.ProbeInterval),
	}
	if cfg.ProbeInterval > 0 {
		// Seed the state from actual connectivity so a client created
		// while the backend is unreachable queues instead of dispatching.
		checkCtx, checkCancel := context.WithTimeout(ctx, timeout)
		monitorOpts = append(monitorOpts, netmon.WithInitialState(backend.Health(checkCtx) == nil))
		checkCancel()
	}

	c := &Client{
		registry: persona.NewRegistry(profiles),
		dispatcher: dispatch.New(
			dispatch.WithRetryConfig(retryCfg),
			dispatch.WithTimeout(timeout),
			dispatch.WithLogger(log),
		),
		queue:        q,
		monitor:      netmon.New(monitorOpts...),
		tracker:      tracker,
		backend:      backend,
		events:       cfg.Events,
		log:          log,
		retryEvents:  make(chan retry.Event, 64),
		drainResults: make(chan queue.DrainResult, 64),
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go c.forwardRetryEvents(bgCtx)

	transitions := c.monitor.Subscribe()
	c.wg.Add(1)
	go c.autoDrain(bgCtx, transitions)

	if cfg.ProbeInterval > 0 {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.monitor.Start(bgCtx, func(ctx context.Context) error {
				return c.backend.Health(ctx)
			})
		}()
	}

	return c, nil
}

// Submit routes the envelope: validation first, then dispatch when online,
// or durable queueing when offline and fallback is allowed. A queued
// envelope yields a "queued" result carrying its queue id, not an error.
func (c *Client) Submit(ctx context.Context, env relay.Envelope) (*relay.Result, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	profile, err := c.registry.Resolve(env.Persona)
	if err != nil {
		return nil, err
	}
	if env.UseCase == "" && len(profile.UseCases) > 0 {
		env.UseCase = profile.UseCases[0]
	}
	if !env.UseCase.Valid() {
		return nil, &relay.InvalidUseCaseError{UseCase: env.UseCase}
	}
	if env.ID == "" {
		env.ID = relay.GenerateRequestID()
	}

	if !c.monitor.IsOnline() {
		if !env.FallbackAllowed {
			return nil, &relay.NetworkUnavailableError{Persona: env.Persona}
		}
		queueID, err := c.queue.Enqueue(ctx, env)
		if err != nil {
			return nil, err
		}
		emit(c.events, Event{
			Type:      EventQueued,
			RequestID: env.ID,
			Persona:   env.Persona,
			QueueID:   queueID,
		})
		return &relay.Result{
			RequestID: env.ID,
			Status:    relay.StatusQueued,
			QueueID:   queueID,
		}, nil
	}

	return c.dispatchAndRecord(ctx, env, profile)
}

// dispatchAndRecord runs one dispatch and records exactly one statistics
// entry for it, success or terminal failure.
func (c *Client) dispatchAndRecord(ctx context.Context, env relay.Envelope, profile persona.Profile) (*relay.Result, error) {
	emit(c.events, Event{Type: EventConnecting, RequestID: env.ID, Persona: env.Persona})
	emit(c.events, Event{Type: EventProcessing, RequestID: env.ID, Persona: env.Persona})

	res := c.dispatcher.Dispatch(ctx, env, profile, c.retryEvents)

	provider := res.Provider
	if provider == "" && len(res.Attempted) > 0 {
		provider = res.Attempted[len(res.Attempted)-1]
	}
	record := c.tracker.Record
	if res.Status != relay.StatusCompleted {
		record = c.tracker.RecordFailure
	}
	if err := record(ctx, provider, res.Cost); err != nil {
		c.log.Warn("record usage", zap.String("request_id", env.ID), zap.Error(err))
	}

	if res.Status == relay.StatusCompleted {
		emit(c.events, Event{
			Type:      EventComplete,
			RequestID: env.ID,
			Persona:   env.Persona,
			Provider:  res.Provider,
			Duration:  res.Duration,
		})
		return res, nil
	}
	emit(c.events, Event{
		Type:      EventError,
		RequestID: env.ID,
		Persona:   env.Persona,
		Duration:  res.Duration,
		Error:     res.Err,
	})
	return res, res.Err
}

// autoDrain watches network transitions and drains the queue whenever the
// network comes back. Drained entries flow through the same dispatch and
// statistics path as online submissions.
func (c *Client) autoDrain(ctx context.Context, transitions <-chan netmon.Transition) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case tr := <-transitions:
			if !tr.Online {
				continue
			}
			c.drainQueue(ctx)
		}
	}
}

func (c *Client) drainQueue(ctx context.Context) {
	if c.queue.Len() == 0 {
		return
	}
	c.log.Info("draining offline queue", zap.Int("depth", c.queue.Len()))
	emit(c.events, Event{Type: EventDrainStart})

	results := c.queue.Drain(ctx, func(ctx context.Context, entry queue.Entry) *relay.Result {
		profile, err := c.registry.Resolve(entry.Envelope.Persona)
		if err != nil {
			// The persona table changed between enqueue and drain.
			return &relay.Result{
				RequestID: entry.Envelope.ID,
				Status:    relay.StatusFailed,
				Err:       err,
			}
		}
		res, _ := c.dispatchAndRecord(ctx, entry.Envelope, profile)
		return res
	})

	for dr := range results {
		dr.Result.QueueID = dr.Entry.QueueID
		emit(c.events, Event{
			Type:      EventDrainEntry,
			RequestID: dr.Entry.Envelope.ID,
			Persona:   dr.Entry.Envelope.Persona,
			Provider:  dr.Result.Provider,
			QueueID:   dr.Entry.QueueID,
			Error:     dr.Result.Err,
		})
		select {
		case c.drainResults <- dr:
		default:
			// Nobody is reading drain results; don't stall the drain.
		}
	}

	emit(c.events, Event{Type: EventDrainComplete})
}

// forwardRetryEvents republishes dispatcher retry telemetry on the events
// channel.
func (c *Client) forwardRetryEvents(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.retryEvents:
			re := ev
			emit(c.events, Event{Type: EventRetry, RetryEvent: &re})
		}
	}
}

// DrainResults returns the channel on which drained queue entries are
// reported, each carrying its queue id for correlation. The channel is
// buffered; unread results are dropped rather than blocking the drain.
func (c *Client) DrainResults() <-chan queue.DrainResult {
	return c.drainResults
}

// Online reports the current network state.
func (c *Client) Online() bool { return c.monitor.IsOnline() }

// SetOnline records the network state explicitly. An offline-to-online
// transition triggers an automatic queue drain.
func (c *Client) SetOnline(online bool) { c.monitor.SetOnline(online) }

// QueueLen returns the number of envelopes waiting in the offline queue.
func (c *Client) QueueLen() int { return c.queue.Len() }

// PurgeQueue discards all queued envelopes.
func (c *Client) PurgeQueue(ctx context.Context) error { return c.queue.Purge(ctx) }

// Recommendations returns the persona's preferred use cases and default
// sampling parameters.
func (c *Client) Recommendations(personaID string) (persona.Recommendations, error) {
	return c.registry.RecommendationsFor(personaID)
}

// Personas returns the configured persona ids in sorted order.
func (c *Client) Personas() []string { return c.registry.Personas() }

// UsageSnapshot returns a point-in-time copy of the local usage counters.
// Local counters are authoritative; ServerStats is display only.
func (c *Client) UsageSnapshot() stats.UsageStats { return c.tracker.Snapshot() }

// ResetUsage zeroes the local usage counters.
func (c *Client) ResetUsage(ctx context.Context) error { return c.tracker.Reset(ctx) }

// UsageCollector returns a prometheus collector over the local usage
// counters.
func (c *Client) UsageCollector() *stats.Collector { return stats.NewCollector(c.tracker) }

// Close stops the background workers. Queued envelopes stay persisted for
// the next client on the same adapter.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// WaitIdle blocks until an in-progress drain settles or the timeout
// elapses. Intended for tests and orderly shutdown.
func (c *Client) WaitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.queue.Len() == 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return c.queue.Len() == 0
}
