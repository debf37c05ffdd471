package core

import (
	"regexp"
	"time"
)

var roomNamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// JoinResult describes the outcome of a successful registry join.
type JoinResult struct {
	Room        *Room
	IsOwner     bool
	PlayerCount int
	Created     bool
	// Rejoined means the client was already a member; the timer was
	// refreshed but membership did not change.
	Rejoined bool
}

// Registry owns the room name -> membership mapping and the per-room
// inactivity timers. It is mutated exclusively by the hub goroutine;
// timer callbacks never touch it directly, they post back through
// the expire callback and the hub re-enters via TakeExpired.
type Registry struct {
	rooms map[string]*Room

	// lastGen is monotonic across the registry's lifetime, never per
	// room: a fresh room reusing a recently deleted name must not be
	// evictable by a timer scheduled for the previous incarnation.
	lastGen uint64

	maxPlayers int
	maxRooms   int
	maxNameLen int
	timeout    time.Duration

	// expire is invoked from timer goroutines when a room's inactivity
	// deadline fires. The receiver must route it back onto the hub
	// goroutine before acting.
	expire func(name string, gen uint64)
}

// NewRegistry builds a registry with the given limits. The expire
// callback may be nil when inactivity eviction is not wanted (tests).
func NewRegistry(s Settings, expire func(name string, gen uint64)) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		maxPlayers: s.MaxPlayersPerRoom,
		maxRooms:   s.MaxTotalRooms,
		maxNameLen: s.MaxRoomNameLength,
		timeout:    s.RoomInactivityTimeout,
		expire:     expire,
	}
}

// ValidateName checks length and character-set constraints on a room name.
func (g *Registry) ValidateName(name string) error {
	if name == "" || len(name) > g.maxNameLen || !roomNamePattern.MatchString(name) {
		return ErrInvalidRoomName
	}
	return nil
}

// Join inserts the client into the named room, creating the room if it
// does not exist. The global room cap applies only to room creation;
// joining an existing room is never blocked by it. Re-joining a room the
// client is already in just refreshes the inactivity timer.
func (g *Registry) Join(name string, c *Client) (JoinResult, error) {
	if err := g.ValidateName(name); err != nil {
		return JoinResult{}, err
	}

	room, exists := g.rooms[name]
	if exists {
		if room.Contains(c.ID) {
			g.ResetTimeout(name)
			return JoinResult{
				Room:        room,
				IsOwner:     room.Owner().ID == c.ID,
				PlayerCount: room.Len(),
				Rejoined:    true,
			}, nil
		}
		if room.Len() >= g.maxPlayers {
			return JoinResult{}, ErrRoomFull
		}
	} else {
		if len(g.rooms) >= g.maxRooms {
			return JoinResult{}, ErrServerFull
		}
		room = NewRoom(name)
		g.rooms[name] = room
	}

	room.Add(c)
	g.ResetTimeout(name)

	return JoinResult{
		Room:        room,
		IsOwner:     room.Owner().ID == c.ID,
		PlayerCount: room.Len(),
		Created:     !exists,
	}, nil
}

// Leave removes the member. When the room empties it is torn down:
// timer cancelled, entry deleted. Returns the remaining members and
// whether the room was deleted.
func (g *Registry) Leave(name string, c *Client) (remaining []*Client, emptied bool) {
	room, ok := g.rooms[name]
	if !ok {
		return nil, false
	}
	if !room.Remove(c) {
		return room.Members(), false
	}
	if room.Empty() {
		room.stopTimer()
		delete(g.rooms, name)
		return nil, true
	}
	return room.Members(), false
}

// ResetTimeout supersedes any scheduled inactivity timer for the room
// with a fresh one. Called on every state-affecting action.
func (g *Registry) ResetTimeout(name string) {
	room, ok := g.rooms[name]
	if !ok {
		return
	}
	room.stopTimer()
	g.lastGen++
	room.gen = g.lastGen
	if g.expire == nil || g.timeout <= 0 {
		return
	}
	gen := room.gen
	room.timer = time.AfterFunc(g.timeout, func() {
		g.expire(name, gen)
	})
}

// TakeExpired validates a fired timer against the room's current timer
// generation. A race between the timer firing and the room having been
// emptied or refreshed is expected: stale fires return false and must be
// treated as a no-op. On a valid fire the room is removed from the
// registry and returned so the caller can evict its members.
func (g *Registry) TakeExpired(name string, gen uint64) (*Room, bool) {
	room, ok := g.rooms[name]
	if !ok || room.gen != gen {
		return nil, false
	}
	room.stopTimer()
	delete(g.rooms, name)
	return room, true
}

// Room looks up a room by name.
func (g *Registry) Room(name string) (*Room, bool) {
	room, ok := g.rooms[name]
	return room, ok
}

// Occupancy returns the member count for the room, 0 if absent.
func (g *Registry) Occupancy(name string) int {
	if room, ok := g.rooms[name]; ok {
		return room.Len()
	}
	return 0
}

// Len returns the total number of active rooms.
func (g *Registry) Len() int {
	return len(g.rooms)
}

// Shutdown cancels every scheduled timer and returns the rooms that were
// still active, for teardown bookkeeping.
func (g *Registry) Shutdown() []*Room {
	out := make([]*Room, 0, len(g.rooms))
	for name, room := range g.rooms {
		room.stopTimer()
		delete(g.rooms, name)
		out = append(out, room)
	}
	return out
}
