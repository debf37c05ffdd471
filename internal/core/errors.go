package core

import "errors"

// Error codes surfaced to clients on join-room acknowledgments.
const (
	ErrCodeInvalidRoomName = "invalid_room_name"
	ErrCodeRoomFull        = "room_full"
	ErrCodeServerFull      = "server_full"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeBadRequest      = "bad_request"
)

var (
	ErrInvalidRoomName = errors.New("invalid room name")
	ErrRoomFull        = errors.New("room is full")
	ErrServerFull      = errors.New("room limit reached")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
