package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spetersoncode/relay"
	"github.com/spetersoncode/relay/store"
)

// storeKey is the adapter key holding the serialized queue.
const storeKey = "queue"

// Entry is a single queued envelope awaiting dispatch.
type Entry struct {
	// QueueID identifies the entry across enqueue and drain.
	QueueID string `json:"queue_id"`
	// Envelope is the request exactly as it was submitted.
	Envelope relay.Envelope `json:"envelope"`
	// EnqueuedAt records when the entry was accepted.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// DrainResult reports the outcome of one drained entry.
type DrainResult struct {
	Entry  Entry
	Result *relay.Result
}

// DispatchFunc performs the actual dispatch of a drained entry. It is
// supplied by the caller so the queue stays ignorant of providers and
// transports.
type DispatchFunc func(ctx context.Context, entry Entry) *relay.Result

// Manager is a durable FIFO queue backed by a store.Adapter. All methods
// are safe for concurrent use.
type Manager struct {
	adapter store.Adapter
	log     *zap.Logger

	mu      sync.Mutex
	entries []Entry
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for drain progress.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a queue manager on the given adapter and loads any
// previously persisted entries. A missing key means an empty queue.
func NewManager(ctx context.Context, adapter store.Adapter, opts ...Option) (*Manager, error) {
	if adapter == nil {
		adapter = store.NewMemoryAdapter()
	}
	m := &Manager{
		adapter: adapter,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	var entries []Entry
	if _, err := store.LoadJSON(ctx, adapter, storeKey, &entries); err != nil {
		return nil, fmt.Errorf("load persisted queue: %w", err)
	}
	m.entries = entries
	return m, nil
}

// Enqueue appends the envelope to the queue and persists it before
// returning. On persistence failure the envelope is not queued and a
// QueuePersistenceError is returned.
func (m *Manager) Enqueue(ctx context.Context, env relay.Envelope) (string, error) {
	entry := Entry{
		QueueID:    "q-" + uuid.New().String(),
		Envelope:   env,
		EnqueuedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)
	if err := m.persistLocked(ctx); err != nil {
		m.entries = m.entries[:len(m.entries)-1]
		return "", &relay.QueuePersistenceError{RequestID: env.ID, Cause: err}
	}

	m.log.Debug("envelope queued",
		zap.String("queue_id", entry.QueueID),
		zap.String("request_id", env.ID),
		zap.Int("depth", len(m.entries)),
	)
	return entry.QueueID, nil
}

// Len returns the number of queued entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Pending returns a copy of the queued entries in dispatch order.
func (m *Manager) Pending() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Purge discards all queued entries and persists the empty queue.
func (m *Manager) Purge(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	if err := m.persistLocked(ctx); err != nil {
		return &relay.QueuePersistenceError{Cause: err}
	}
	return nil
}

// Drain processes queued entries strictly in FIFO order, one at a time,
// invoking fn for each. An entry is removed from the persisted queue only
// after its attempt has completed; failed attempts are reported on the
// returned channel and dropped, never re-enqueued. The channel is closed
// when the queue is empty or ctx is cancelled. Entries still queued at
// cancellation remain persisted for the next drain.
func (m *Manager) Drain(ctx context.Context, fn DispatchFunc) <-chan DrainResult {
	results := make(chan DrainResult)

	go func() {
		defer close(results)
		for {
			if ctx.Err() != nil {
				return
			}

			m.mu.Lock()
			if len(m.entries) == 0 {
				m.mu.Unlock()
				return
			}
			entry := m.entries[0]
			m.mu.Unlock()

			res := fn(ctx, entry)

			m.mu.Lock()
			// The head may only be this entry; drains do not overlap with
			// queue reordering.
			if len(m.entries) > 0 && m.entries[0].QueueID == entry.QueueID {
				m.entries = m.entries[1:]
			}
			if err := m.persistLocked(ctx); err != nil {
				m.log.Warn("persist queue after drain",
					zap.String("queue_id", entry.QueueID),
					zap.Error(err),
				)
			}
			m.mu.Unlock()

			m.log.Debug("entry drained",
				zap.String("queue_id", entry.QueueID),
				zap.String("status", string(res.Status)),
			)

			select {
			case results <- DrainResult{Entry: entry, Result: res}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return results
}

func (m *Manager) persistLocked(ctx context.Context) error {
	if len(m.entries) == 0 {
		// An empty list still round-trips; keep the key so restarts see a
		// valid value rather than relying on not-found semantics.
		return store.SaveJSON(ctx, m.adapter, storeKey, []Entry{})
	}
	return store.SaveJSON(ctx, m.adapter, storeKey, m.entries)
}
