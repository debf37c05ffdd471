package core

import (
	"sync"

	"golang.org/x/time/rate"
)

// Action identifies a rate-limited client action.
type Action int

const (
	ActionJoinRoom Action = iota
	ActionGameState
	ActionRequestState
	ActionSendState
)

func (a Action) String() string {
	switch a {
	case ActionJoinRoom:
		return "join-room"
	case ActionGameState:
		return "game-state"
	case ActionRequestState:
		return "request-state"
	case ActionSendState:
		return "send-state"
	default:
		return "unknown"
	}
}

// ActionLimiter keeps one independent token bucket per (action,
// connection id) pair, so congestion on one action never starves
// another and separate connections from one address are limited
// independently. Buckets refill continuously, so a denied attempt does
// not reset the window and bursts cannot be gamed at window boundaries.
type ActionLimiter struct {
	mu      sync.Mutex
	limits  map[Action]Limit
	buckets map[Action]map[string]*rate.Limiter
}

// NewActionLimiter builds a limiter from per-action budgets. Actions
// without a configured limit are always allowed.
func NewActionLimiter(limits map[Action]Limit) *ActionLimiter {
	buckets := make(map[Action]map[string]*rate.Limiter, len(limits))
	for action := range limits {
		buckets[action] = make(map[string]*rate.Limiter)
	}
	return &ActionLimiter{
		limits:  limits,
		buckets: buckets,
	}
}

// Allow atomically checks and consumes one point from the bucket for
// (action, connID). Returns false when the budget for the current
// window is exhausted; a rejection has no side effects beyond
// bookkeeping.
func (l *ActionLimiter) Allow(action Action, connID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit, ok := l.limits[action]
	if !ok || limit.Points <= 0 || limit.Window <= 0 {
		return true
	}

	bucket, ok := l.buckets[action][connID]
	if !ok {
		bucket = rate.NewLimiter(rate.Limit(float64(limit.Points)/limit.Window.Seconds()), limit.Points)
		l.buckets[action][connID] = bucket
	}
	return bucket.Allow()
}

// Forget drops every bucket belonging to a connection. Called on
// disconnect so the maps stay bounded by live connections.
func (l *ActionLimiter) Forget(connID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, perConn := range l.buckets {
		delete(perConn, connID)
	}
}
