package core

import (
	"testing"
	"time"
)

func TestActionLimiterBudget(t *testing.T) {
	l := NewActionLimiter(map[Action]Limit{
		ActionJoinRoom: {Points: 3, Window: 10 * time.Second},
	})

	for i := 0; i < 3; i++ {
		if !l.Allow(ActionJoinRoom, "conn-1") {
			t.Fatalf("attempt %d rejected within budget", i+1)
		}
	}
	if l.Allow(ActionJoinRoom, "conn-1") {
		t.Fatal("attempt above budget admitted")
	}
}

func TestActionLimiterIndependentPerConnection(t *testing.T) {
	l := NewActionLimiter(map[Action]Limit{
		ActionJoinRoom: {Points: 1, Window: 10 * time.Second},
	})

	if !l.Allow(ActionJoinRoom, "conn-1") {
		t.Fatal("conn-1 rejected")
	}
	if !l.Allow(ActionJoinRoom, "conn-2") {
		t.Fatal("conn-2 limited by conn-1's bucket")
	}
}

func TestActionLimiterIndependentPerAction(t *testing.T) {
	l := NewActionLimiter(map[Action]Limit{
		ActionJoinRoom:  {Points: 1, Window: 10 * time.Second},
		ActionGameState: {Points: 1, Window: 10 * time.Second},
	})

	if !l.Allow(ActionJoinRoom, "conn-1") {
		t.Fatal("join rejected")
	}
	if !l.Allow(ActionGameState, "conn-1") {
		t.Fatal("exhausted join budget starved game-state")
	}
}

func TestActionLimiterRefillsOverTime(t *testing.T) {
	l := NewActionLimiter(map[Action]Limit{
		ActionGameState: {Points: 2, Window: 200 * time.Millisecond},
	})

	l.Allow(ActionGameState, "conn-1")
	l.Allow(ActionGameState, "conn-1")
	if l.Allow(ActionGameState, "conn-1") {
		t.Fatal("budget not exhausted")
	}

	time.Sleep(300 * time.Millisecond)
	if !l.Allow(ActionGameState, "conn-1") {
		t.Fatal("bucket did not refill after window")
	}
}

func TestActionLimiterUnknownActionAllowed(t *testing.T) {
	l := NewActionLimiter(nil)
	if !l.Allow(ActionSendState, "conn-1") {
		t.Fatal("unconfigured action rejected")
	}
}

func TestActionLimiterForget(t *testing.T) {
	l := NewActionLimiter(map[Action]Limit{
		ActionJoinRoom: {Points: 1, Window: time.Hour},
	})

	l.Allow(ActionJoinRoom, "conn-1")
	l.Forget("conn-1")
	if len(l.buckets[ActionJoinRoom]) != 0 {
		t.Fatal("forget left buckets behind")
	}
	// A reconnect with the same id starts with a fresh budget.
	if !l.Allow(ActionJoinRoom, "conn-1") {
		t.Fatal("fresh bucket rejected")
	}
}
