package core

import "sync"

// ConnectionGuard caps the number of simultaneously open connections per
// source address. A connection occupies a slot from Admit until Release.
// It is consulted by the transport before the WebSocket upgrade, so a
// denied address never reaches room logic.
type ConnectionGuard struct {
	mu     sync.Mutex
	maxPer int
	byAddr map[string]int
}

// NewConnectionGuard creates a guard allowing maxPer connections per address.
func NewConnectionGuard(maxPer int) *ConnectionGuard {
	return &ConnectionGuard{
		maxPer: maxPer,
		byAddr: make(map[string]int),
	}
}

// Admit attempts to take a slot for the address. Returns false without
// mutation when the address is already at its cap.
func (g *ConnectionGuard) Admit(addr string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.byAddr[addr] >= g.maxPer {
		return false
	}
	g.byAddr[addr]++
	return true
}

// Release frees a slot for the address, floor zero. Entries are deleted
// once they reach zero so the map stays bounded by live addresses.
func (g *ConnectionGuard) Release(addr string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.byAddr[addr] <= 1 {
		delete(g.byAddr, addr)
		return
	}
	g.byAddr[addr]--
}

// Count returns the open-connection count for an address.
func (g *ConnectionGuard) Count(addr string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byAddr[addr]
}
