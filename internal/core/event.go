package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventWelcome delivers the server-assigned connection id on connect.
	EventWelcome EventKind = iota
	// EventJoinResult acknowledges a join-room attempt.
	EventJoinResult
	// EventLeaveResult acknowledges a leave-room request.
	EventLeaveResult
	// EventGameState carries a relayed state blob.
	EventGameState
	// EventStateRequested tells a member that a peer wants current state.
	EventStateRequested
	// EventPlayerJoined tells existing members the room grew.
	EventPlayerJoined
	// EventPlayerLeft tells the remaining member the peer is gone.
	EventPlayerLeft
	// EventRoomTimeout tells members their room was evicted for inactivity.
	EventRoomTimeout
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind EventKind
	Room string

	// ConnectionID carries the welcome identity or the requester id
	// for EventStateRequested.
	ConnectionID string

	// Join/leave acknowledgment fields.
	Success     bool
	IsRoomOwner bool
	PlayerCount int
	Error       *CoreError

	State json.RawMessage
}
