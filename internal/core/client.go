package core

// Client is a connected peer as seen by the relay core.
// Room and gone are owned by the hub goroutine; nothing else touches them.
type Client struct {
	ID   string
	Addr string

	Commands chan *Command
	Events   chan *Event

	// Room is the name of the currently joined room, "" if none.
	Room string

	// done is closed on eviction so the hub's pump goroutine for this
	// client exits instead of outliving the connection.
	done chan struct{}
	gone bool
}

// NewClient constructs a client with initialized channels.
func NewClient(id, addr string) *Client {
	return &Client{
		ID:       id,
		Addr:     addr,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 16),
		done:     make(chan struct{}),
	}
}
