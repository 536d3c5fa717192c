// Package queue provides a durable FIFO queue for request envelopes that
// cannot be dispatched while the network is unavailable.
//
// Entries are persisted through a store.Adapter before Enqueue returns, so
// a crash between enqueue and drain loses nothing. Drain processes entries
// strictly in arrival order, one at a time, and removes each entry from the
// persisted queue only after its dispatch attempt has completed.
package queue
