package core

import (
	"strings"
	"testing"
	"time"
)

func TestRegistryValidateName(t *testing.T) {
	g := NewRegistry(testSettings(), nil)

	valid := []string{"duel", "Room-1", "a", strings.Repeat("x", 20)}
	for _, name := range valid {
		if err := g.ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "room name", "room_1", "комната", "room!", strings.Repeat("x", 21)}
	for _, name := range invalid {
		if err := g.ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
}

func TestRegistryJoinRejectsBadNameWithoutMutation(t *testing.T) {
	g := NewRegistry(testSettings(), nil)

	if _, err := g.Join("bad name", NewClient("a", "")); err == nil {
		t.Fatal("expected validation error")
	}
	if g.Len() != 0 {
		t.Fatalf("registry mutated by rejected join: %d rooms", g.Len())
	}
}

func TestRegistryOwnershipFollowsJoinOrder(t *testing.T) {
	g := NewRegistry(testSettings(), nil)
	alice := NewClient("a", "")
	bob := NewClient("b", "")

	res, err := g.Join("duel", alice)
	if err != nil {
		t.Fatalf("join alice: %v", err)
	}
	if !res.IsOwner || res.PlayerCount != 1 || !res.Created {
		t.Fatalf("unexpected first join result: %+v", res)
	}

	res, err = g.Join("duel", bob)
	if err != nil {
		t.Fatalf("join bob: %v", err)
	}
	if res.IsOwner || res.PlayerCount != 2 || res.Created {
		t.Fatalf("unexpected second join result: %+v", res)
	}

	// Owner leaves; ownership is recomputed from join order, not stored.
	g.Leave("duel", alice)
	room, ok := g.Room("duel")
	if !ok {
		t.Fatal("room disappeared")
	}
	if room.Owner().ID != "b" {
		t.Fatalf("owner = %s, want b", room.Owner().ID)
	}
}

func TestRegistryRoomFull(t *testing.T) {
	g := NewRegistry(testSettings(), nil)
	g.Join("duel", NewClient("a", ""))
	g.Join("duel", NewClient("b", ""))

	if _, err := g.Join("duel", NewClient("c", "")); err != ErrRoomFull {
		t.Fatalf("third join error = %v, want ErrRoomFull", err)
	}
	if g.Occupancy("duel") != 2 {
		t.Fatalf("occupancy = %d, want 2", g.Occupancy("duel"))
	}
}

func TestRegistryGlobalRoomCap(t *testing.T) {
	s := testSettings()
	s.MaxTotalRooms = 1
	g := NewRegistry(s, nil)

	if _, err := g.Join("first", NewClient("a", "")); err != nil {
		t.Fatalf("join first: %v", err)
	}
	if _, err := g.Join("second", NewClient("b", "")); err != ErrServerFull {
		t.Fatalf("new room at cap error = %v, want ErrServerFull", err)
	}
	// Joining an existing room is never blocked by the total-room cap.
	if _, err := g.Join("first", NewClient("b", "")); err != nil {
		t.Fatalf("join existing room at cap: %v", err)
	}
}

func TestRegistryLeaveEmptiesRoom(t *testing.T) {
	g := NewRegistry(testSettings(), nil)
	alice := NewClient("a", "")
	g.Join("duel", alice)

	remaining, emptied := g.Leave("duel", alice)
	if !emptied || len(remaining) != 0 {
		t.Fatalf("leave: remaining=%d emptied=%v", len(remaining), emptied)
	}
	if g.Len() != 0 {
		t.Fatalf("registry still has %d rooms", g.Len())
	}
}

func TestRegistryRejoinRefreshesWithoutDuplicating(t *testing.T) {
	g := NewRegistry(testSettings(), nil)
	alice := NewClient("a", "")
	g.Join("duel", alice)

	res, err := g.Join("duel", alice)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if res.PlayerCount != 1 || !res.IsOwner || res.Created || !res.Rejoined {
		t.Fatalf("unexpected rejoin result: %+v", res)
	}
}

func TestRegistryTimerFiresAndTakeExpired(t *testing.T) {
	s := testSettings()
	s.RoomInactivityTimeout = 30 * time.Millisecond

	fired := make(chan expiry, 4)
	g := NewRegistry(s, func(name string, gen uint64) {
		fired <- expiry{room: name, gen: gen}
	})

	g.Join("duel", NewClient("a", ""))

	var e expiry
	select {
	case e = <-fired:
	case <-time.After(time.Second):
		t.Fatal("inactivity timer never fired")
	}

	room, ok := g.TakeExpired(e.room, e.gen)
	if !ok || room.Name != "duel" {
		t.Fatalf("TakeExpired(%q, %d) = %v, %v", e.room, e.gen, room, ok)
	}
	if g.Len() != 0 {
		t.Fatal("expired room still registered")
	}
}

func TestRegistryStaleTimerIgnored(t *testing.T) {
	s := testSettings()
	s.RoomInactivityTimeout = 30 * time.Millisecond

	fired := make(chan expiry, 4)
	g := NewRegistry(s, func(name string, gen uint64) {
		fired <- expiry{room: name, gen: gen}
	})

	g.Join("duel", NewClient("a", ""))

	e := <-fired
	// Activity after the fire but before the hub processed it.
	g.ResetTimeout("duel")

	if _, ok := g.TakeExpired(e.room, e.gen); ok {
		t.Fatal("stale timer fire was honored")
	}
	if g.Len() != 1 {
		t.Fatal("room was removed on stale fire")
	}
}

func TestRegistryExpiryFromPriorIncarnationIgnored(t *testing.T) {
	s := testSettings()
	s.RoomInactivityTimeout = 30 * time.Millisecond

	fired := make(chan expiry, 4)
	g := NewRegistry(s, func(name string, gen uint64) {
		fired <- expiry{room: name, gen: gen}
	})

	alice := NewClient("a", "")
	g.Join("duel", alice)
	e := <-fired
	g.Leave("duel", alice)

	// Same name, new incarnation: generations never restart.
	g.Join("duel", NewClient("b", ""))

	if _, ok := g.TakeExpired(e.room, e.gen); ok {
		t.Fatal("expiry from a previous incarnation was honored")
	}
	if g.Occupancy("duel") != 1 {
		t.Fatal("fresh room evicted by stale expiry")
	}
}

func TestRegistryExpiredAfterLeaveIsNoop(t *testing.T) {
	s := testSettings()
	s.RoomInactivityTimeout = 30 * time.Millisecond

	fired := make(chan expiry, 4)
	g := NewRegistry(s, func(name string, gen uint64) {
		fired <- expiry{room: name, gen: gen}
	})

	alice := NewClient("a", "")
	g.Join("duel", alice)
	e := <-fired
	g.Leave("duel", alice)

	if _, ok := g.TakeExpired(e.room, e.gen); ok {
		t.Fatal("fire on deleted room was honored")
	}
}
