package core

import (
	"context"
	"encoding/json"
	"testing"
)

func BenchmarkStateRelay(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(testSettings(), nil, nil)
	go hub.Run(ctx)

	sender := NewClient("sender", "")
	receiver := NewClient("receiver", "")
	hub.RegisterClient(sender)
	hub.RegisterClient(receiver)

	sender.Commands <- &Command{Kind: CommandJoinRoom, Room: "bench"}
	receiver.Commands <- &Command{Kind: CommandJoinRoom, Room: "bench"}
	for ev := range receiver.Events {
		if ev.Kind == EventJoinResult {
			break
		}
	}

	blob := json.RawMessage(`{"grid":[0,1,2,3,4,5,6,7,8],"turn":1}`)

	// Warm up until the relay path is flowing, then measure.
	sender.Commands <- &Command{Kind: CommandGameState, State: blob}
	for ev := range receiver.Events {
		if ev.Kind == EventGameState {
			break
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.Commands <- &Command{Kind: CommandGameState, State: blob}
		for ev := range receiver.Events {
			if ev.Kind == EventGameState {
				break
			}
		}
	}
}
