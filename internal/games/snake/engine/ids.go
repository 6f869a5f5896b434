package engine

import "sync/atomic"

// IDGenerator hands out actor identities. Identities start at 1, increase by
// one per call and are never reused, so a stale board cell can never be
// mistaken for a newer snake.
//
// One generator is normally shared by every session in the process; it is
// safe for concurrent use.
type IDGenerator struct {
	last atomic.Int64
}

// NewIDGenerator returns a generator whose first identity is 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns a fresh identity.
func (g *IDGenerator) Next() ActorID {
	return ActorID(g.last.Add(1))
}
