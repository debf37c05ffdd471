package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom joins (and implicitly creates) a room.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom leaves the current room, if any.
	CommandLeaveRoom
	// CommandGameState relays a state blob to the other room member.
	CommandGameState
	// CommandRequestState asks the other member for authoritative state.
	CommandRequestState
	// CommandSendState delivers a state blob to one specific member.
	CommandSendState
)

// Command represents an action requested by a client.
// State is opaque; the relay never unmarshals it.
type Command struct {
	Kind   CommandKind
	Room   string
	Target string
	State  json.RawMessage
}
