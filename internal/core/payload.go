package core

import "encoding/json"

// PayloadGuard bounds the serialized size of relayed state blobs.
type PayloadGuard struct {
	maxBytes int
}

// NewPayloadGuard creates a guard with the given byte ceiling.
func NewPayloadGuard(maxBytes int) PayloadGuard {
	return PayloadGuard{maxBytes: maxBytes}
}

// WithinLimit reports whether the blob may be relayed. A blob the
// server could not re-serialize (empty or malformed JSON) counts as a
// size violation, never as an error condition.
func (p PayloadGuard) WithinLimit(state json.RawMessage) bool {
	if len(state) == 0 || len(state) > p.maxBytes {
		return false
	}
	return json.Valid(state)
}
