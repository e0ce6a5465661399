// Package monitor is the render sink: it exposes the decoded sensor model
// over HTTP as JSON snapshots, SSE change notifications, and live go-echarts
// chart pages.
package monitor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/presence.report/internal/ld2410"
)

// Hub fans change notifications out to render-side subscribers, coalescing
// backlog. Each subscriber holds a pending change mask; publishing merges into
// the mask instead of queueing, so a slow consumer redraws once per backlog
// rather than once per line, and a fast producer is never blocked.
type Hub struct {
	mu   sync.Mutex
	subs map[string]*Subscription
}

// Subscription is one consumer's coalescing mailbox.
type Subscription struct {
	hub     *Hub
	id      string
	mu      sync.Mutex
	pending ld2410.Changes
	wake    chan struct{}
}

// NewHub creates an empty notification hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]*Subscription)}
}

// Subscribe registers a new consumer and returns its mailbox.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		hub:  h,
		id:   uuid.NewString(),
		wake: make(chan struct{}, 1),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub.id] = sub
	return sub
}

// Publish merges the change mask into every subscriber's pending set and
// wakes them. Never blocks.
func (h *Hub) Publish(changes ld2410.Changes) {
	if changes == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		sub.mu.Lock()
		sub.pending |= changes
		sub.mu.Unlock()
		select {
		case sub.wake <- struct{}{}:
		default:
			// already signalled; the pending mask carries the merge
		}
	}
}

// Ready signals when pending changes are available. After receiving, call
// Drain to take the merged mask.
func (s *Subscription) Ready() <-chan struct{} {
	return s.wake
}

// Drain atomically takes and clears the pending change mask. Returns zero if
// a concurrent Drain already consumed it.
func (s *Subscription) Drain() ld2410.Changes {
	s.mu.Lock()
	defer s.mu.Unlock()
	changes := s.pending
	s.pending = 0
	return changes
}

// Close removes the subscription from its hub.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	delete(s.hub.subs, s.id)
}
