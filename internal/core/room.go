package core

import "time"

// Room is a named two-party relay session. Members are kept in join
// order; the first entry is the owner. All mutation happens on the hub
// goroutine, so there is no internal locking.
type Room struct {
	Name    string
	members []*Client

	// Inactivity timer bookkeeping. gen identifies the most recently
	// scheduled timer; a fired callback carrying a stale gen is ignored.
	timer *time.Timer
	gen   uint64
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{Name: name}
}

// Add appends a client to the member list. Returns false if already present.
func (r *Room) Add(c *Client) bool {
	if r.Contains(c.ID) {
		return false
	}
	r.members = append(r.members, c)
	return true
}

// Remove deletes a client from the member list. Returns false if absent.
func (r *Room) Remove(c *Client) bool {
	for i, m := range r.members {
		if m.ID == c.ID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the connection id is a current member.
func (r *Room) Contains(connID string) bool {
	for _, m := range r.members {
		if m.ID == connID {
			return true
		}
	}
	return false
}

// Member returns the member with the given connection id, if any.
func (r *Room) Member(connID string) (*Client, bool) {
	for _, m := range r.members {
		if m.ID == connID {
			return m, true
		}
	}
	return nil, false
}

// Owner is the oldest remaining member. Ownership is never stored;
// it is recomputed from join order on demand.
func (r *Room) Owner() *Client {
	if len(r.members) == 0 {
		return nil
	}
	return r.members[0]
}

// Members returns the member list in join order.
func (r *Room) Members() []*Client {
	return r.members
}

// Others returns every member except the given client.
func (r *Room) Others(except *Client) []*Client {
	out := make([]*Client, 0, len(r.members))
	for _, m := range r.members {
		if m.ID != except.ID {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the current occupancy.
func (r *Room) Len() int {
	return len(r.members)
}

// Empty returns true if no members remain.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

func (r *Room) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
