package responder

import (
	"math/rand"
	"sync"
)

// Selector picks an index in [0, n) from the follow-up pool.
type Selector interface {
	Select(n int) int
}

// RoundRobin cycles through the pool in order.
type RoundRobin struct {
	mu   sync.Mutex
	next int
}

// NewRoundRobin creates a round-robin selector starting at index 0.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Select returns the next index.
func (r *RoundRobin) Select(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.next % n
	r.next = (i + 1) % n
	return i
}

// Seeded picks uniformly at random from a seeded source, so a fixed seed
// yields a reproducible sequence.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded creates a seeded selector.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Select returns a pseudo-random index.
func (s *Seeded) Select(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// SelectorKind names a selector implementation in configuration.
type SelectorKind string

const (
	SelectorRoundRobin SelectorKind = "round_robin"
	SelectorSeeded     SelectorKind = "seeded"
)

// NewSelector builds the selector named by kind, defaulting to round robin.
func NewSelector(kind SelectorKind, seed int64) Selector {
	if kind == SelectorSeeded {
		return NewSeeded(seed)
	}
	return NewRoundRobin()
}

// SelectorFactory makes a fresh selector for each conversation.
type SelectorFactory func() Selector

// NewSelectorFactory returns a factory for the selector named by kind. Every
// selector it makes starts from the same position, so conversations with the
// same inputs get the same follow-ups.
func NewSelectorFactory(kind SelectorKind, seed int64) SelectorFactory {
	return func() Selector {
		return NewSelector(kind, seed)
	}
}
