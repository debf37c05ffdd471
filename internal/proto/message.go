package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoinRoom     = "join-room"
	InboundTypeLeaveRoom    = "leave-room"
	InboundTypeGameState    = "game-state"
	InboundTypeRequestState = "request-state"
	InboundTypeSendState    = "send-state"

	OutboundTypeAck   = "ack"
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameWelcome        = "welcome"
	EventNameGameState      = "game-state"
	EventNameStateRequested = "state-requested"
	EventNamePlayerJoined   = "player-joined"
	EventNamePlayerLeft     = "player-left"
	EventNameRoomTimeout    = "room-timeout"
)

// JoinRoomData requests to join a specific room.
type JoinRoomData struct {
	Room string `json:"room"`
}

// GameStateData carries an opaque state blob, inbound or outbound.
type GameStateData struct {
	State json.RawMessage `json:"state"`
}

// SendStateData delivers a state blob to one specific room member.
type SendStateData struct {
	Target string          `json:"target"`
	State  json.RawMessage `json:"state"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// WelcomeData delivers the server-assigned connection identity.
type WelcomeData struct {
	ConnectionID string `json:"connection_id"`
}

// JoinRoomAck acknowledges a join-room attempt.
type JoinRoomAck struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	IsRoomOwner bool   `json:"is_room_owner,omitempty"`
	PlayerCount int    `json:"player_count,omitempty"`
}

// LeaveRoomAck acknowledges a leave-room request.
type LeaveRoomAck struct {
	Success bool `json:"success"`
}

// StateRequestedData tells a member which peer wants current state.
type StateRequestedData struct {
	RequesterID string `json:"requester_id"`
}

// PlayerJoinedData notifies existing members of the new occupancy.
type PlayerJoinedData struct {
	PlayerCount int `json:"player_count"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
