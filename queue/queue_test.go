package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/relay"
	"github.com/spetersoncode/relay/store"
)

// failingAdapter wraps a memory adapter and fails writes on demand.
type failingAdapter struct {
	store.Adapter
	failSet bool
}

func (f *failingAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Adapter.Set(ctx, key, value)
}

func newTestEnvelope(message string) relay.Envelope {
	return relay.NewEnvelope("cherry", message, relay.WithUseCase(relay.UseCaseCasualChat))
}

func TestEnqueueAndPending(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ctx, store.NewMemoryAdapter())
	require.NoError(t, err)

	id1, err := m.Enqueue(ctx, newTestEnvelope("first"))
	require.NoError(t, err)
	id2, err := m.Enqueue(ctx, newTestEnvelope("second"))
	require.NoError(t, err)

	assert.Contains(t, id1, "q-")
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, m.Len())

	pending := m.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "first", pending[0].Envelope.Message)
	assert.Equal(t, "second", pending[1].Envelope.Message)
}

func TestEnqueuePersistenceFailure(t *testing.T) {
	ctx := context.Background()
	adapter := &failingAdapter{Adapter: store.NewMemoryAdapter()}
	m, err := NewManager(ctx, adapter)
	require.NoError(t, err)

	adapter.failSet = true
	env := newTestEnvelope("doomed")
	_, err = m.Enqueue(ctx, env)

	var persistErr *relay.QueuePersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, env.ID, persistErr.RequestID)
	// The envelope was not queued.
	assert.Zero(t, m.Len())
}

func TestQueueSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewMemoryAdapter()

	m1, err := NewManager(ctx, adapter)
	require.NoError(t, err)
	_, err = m1.Enqueue(ctx, newTestEnvelope("persisted"))
	require.NoError(t, err)

	// A fresh manager on the same adapter sees the entry.
	m2, err := NewManager(ctx, adapter)
	require.NoError(t, err)
	require.Equal(t, 1, m2.Len())
	assert.Equal(t, "persisted", m2.Pending()[0].Envelope.Message)
}

func TestDrainFIFO(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewMemoryAdapter()
	m, err := NewManager(ctx, adapter)
	require.NoError(t, err)

	messages := []string{"one", "two", "three"}
	for _, msg := range messages {
		_, err := m.Enqueue(ctx, newTestEnvelope(msg))
		require.NoError(t, err)
	}

	var order []string
	results := m.Drain(ctx, func(ctx context.Context, entry Entry) *relay.Result {
		order = append(order, entry.Envelope.Message)
		return &relay.Result{
			RequestID: entry.Envelope.ID,
			Status:    relay.StatusCompleted,
		}
	})

	var drained []DrainResult
	for res := range results {
		drained = append(drained, res)
	}

	assert.Equal(t, messages, order)
	require.Len(t, drained, 3)
	assert.Zero(t, m.Len())

	// The persisted queue is empty too.
	m2, err := NewManager(ctx, adapter)
	require.NoError(t, err)
	assert.Zero(t, m2.Len())
}

func TestDrainDropsFailedEntries(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ctx, store.NewMemoryAdapter())
	require.NoError(t, err)

	_, err = m.Enqueue(ctx, newTestEnvelope("will fail"))
	require.NoError(t, err)

	results := m.Drain(ctx, func(ctx context.Context, entry Entry) *relay.Result {
		return &relay.Result{
			RequestID: entry.Envelope.ID,
			Status:    relay.StatusFailed,
			Err:       errors.New("all providers exhausted"),
		}
	})

	var drained []DrainResult
	for res := range results {
		drained = append(drained, res)
	}

	require.Len(t, drained, 1)
	assert.Equal(t, relay.StatusFailed, drained[0].Result.Status)
	// Failed entries are reported, not re-enqueued.
	assert.Zero(t, m.Len())
}

func TestDrainStopsOnCancel(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ctx, store.NewMemoryAdapter())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := m.Enqueue(ctx, newTestEnvelope("queued"))
		require.NoError(t, err)
	}

	drainCtx, cancel := context.WithCancel(ctx)
	results := m.Drain(drainCtx, func(ctx context.Context, entry Entry) *relay.Result {
		// Cancel after the first attempt; the remaining entries stay queued.
		cancel()
		return &relay.Result{RequestID: entry.Envelope.ID, Status: relay.StatusCompleted}
	})

	count := 0
	for range results {
		count++
	}

	assert.LessOrEqual(t, count, 1)
	assert.Equal(t, 2, m.Len())
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewMemoryAdapter()
	m, err := NewManager(ctx, adapter)
	require.NoError(t, err)

	_, err = m.Enqueue(ctx, newTestEnvelope("gone"))
	require.NoError(t, err)
	require.NoError(t, m.Purge(ctx))

	assert.Zero(t, m.Len())
	m2, err := NewManager(ctx, adapter)
	require.NoError(t, err)
	assert.Zero(t, m2.Len())
}
