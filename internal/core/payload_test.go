package core

import (
	"encoding/json"
	"strings"
	"testing"
)

// jsonOfSize returns a valid JSON string value of exactly n bytes.
func jsonOfSize(n int) json.RawMessage {
	return json.RawMessage(`"` + strings.Repeat("a", n-2) + `"`)
}

func TestPayloadGuardLimits(t *testing.T) {
	guard := NewPayloadGuard(64)

	if !guard.WithinLimit(jsonOfSize(64)) {
		t.Fatal("blob at exactly the limit rejected")
	}
	if guard.WithinLimit(jsonOfSize(65)) {
		t.Fatal("blob one byte over the limit accepted")
	}
	if !guard.WithinLimit(json.RawMessage(`{"x":1}`)) {
		t.Fatal("small object rejected")
	}
}

func TestPayloadGuardRejectsUnserializable(t *testing.T) {
	guard := NewPayloadGuard(1024)

	if guard.WithinLimit(nil) {
		t.Fatal("empty blob accepted")
	}
	if guard.WithinLimit(json.RawMessage(`{"x":`)) {
		t.Fatal("malformed blob accepted")
	}
}
