// Package netmon tracks network reachability and notifies subscribers on
// state transitions. The monitor can be driven explicitly through SetOnline
// or by a background probe loop started with Start.
package netmon

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultProbeInterval is how often the probe loop checks reachability
	// while online.
	DefaultProbeInterval = 15 * time.Second
	// maxProbeInterval caps the backed-off probe interval while offline.
	maxProbeInterval = 2 * time.Minute
)

// Transition reports a change of network state.
type Transition struct {
	// Online is the new state.
	Online bool
	// At is when the transition was observed.
	At time.Time
}

// ProbeFunc checks whether the backend is reachable. A nil error means
// online.
type ProbeFunc func(ctx context.Context) error

// Monitor holds the current network state and fans transitions out to
// subscribers. Each state change produces exactly one notification per
// subscriber; setting the same state again is a no-op.
type Monitor struct {
	log      *zap.Logger
	interval time.Duration

	mu     sync.Mutex
	online bool
	subs   []chan Transition
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger used by the probe loop.
func WithLogger(log *zap.Logger) Option {
	return func(m *Monitor) {
		if log != nil {
			m.log = log
		}
	}
}

// WithProbeInterval sets the base interval between reachability probes.
func WithProbeInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithInitialState sets the starting state. The default is online.
func WithInitialState(online bool) Option {
	return func(m *Monitor) { m.online = online }
}

// New creates a monitor. It starts online unless WithInitialState says
// otherwise.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		log:      zap.NewNop(),
		interval: DefaultProbeInterval,
		online:   true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsOnline reports the current state.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records the state. Subscribers are notified only when the
// state actually changes.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]chan Transition, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	t := Transition{Online: online, At: time.Now()}
	m.log.Info("network state changed", zap.Bool("online", online))
	for _, ch := range subs {
		select {
		case ch <- t:
		default:
			// Slow subscribers drop transitions rather than block the
			// monitor.
		}
	}
}

// Subscribe returns a channel that receives one Transition per state
// change. The channel is buffered; a subscriber that falls behind misses
// transitions instead of blocking SetOnline.
func (m *Monitor) Subscribe() <-chan Transition {
	ch := make(chan Transition, 16)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Start runs a reachability probe loop until ctx is cancelled. The first
// probe runs immediately so the state reflects actual connectivity from
// the start rather than after a full interval. While offline the interval
// backs off exponentially up to a cap so a dead link is not hammered.
// Start blocks; run it in a goroutine.
func (m *Monitor) Start(ctx context.Context, probe ProbeFunc) {
	interval := m.interval

	for {
		err := probe(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			m.log.Debug("reachability probe failed", zap.Error(err))
			m.SetOnline(false)
			interval *= 2
			if interval > maxProbeInterval {
				interval = maxProbeInterval
			}
		} else {
			m.SetOnline(true)
			interval = m.interval
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}
