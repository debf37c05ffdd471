package core

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairlink-server/internal/store"
)

type request struct {
	client *Client
	cmd    *Command
}

type expiry struct {
	room string
	gen  uint64
}

// Stats is a point-in-time snapshot for the status surface.
type Stats struct {
	ActiveRooms    int64 `json:"active_rooms"`
	ActivePlayers  int64 `json:"active_players"`
	RelayDrops     int64 `json:"relay_drops"`
	RateLimitDrops int64 `json:"rate_limit_drops"`
	SpoofDrops     int64 `json:"spoof_drops"`
	RoomTimeouts   int64 `json:"room_timeouts"`
}

// Hub is the room coordinator. A single Run goroutine owns every
// mutation of the registry and the per-client records; clients, the
// transport, and room timers reach it only through channels. Handlers
// never block: outbound sends drop on slow consumers and journal writes
// happen after the mutation completes.
type Hub struct {
	registry *Registry
	limiter  *ActionLimiter
	payload  PayloadGuard
	journal  store.Store
	log      *zerolog.Logger

	register   chan *Client
	unregister chan *Client
	requests   chan request
	expiries   chan expiry
	done       chan struct{}

	clients map[string]*Client

	activeRooms    atomic.Int64
	activePlayers  atomic.Int64
	relayDrops     atomic.Int64
	rateLimitDrops atomic.Int64
	spoofDrops     atomic.Int64
	roomTimeouts   atomic.Int64
}

// NewHub constructs the coordinator. The journal and logger may be nil.
func NewHub(settings Settings, journal store.Store, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &Hub{
		limiter:    NewActionLimiter(settings.RateLimits),
		payload:    NewPayloadGuard(settings.MaxGameStateSize),
		journal:    journal,
		log:        logger,
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		requests:   make(chan request, 64),
		expiries:   make(chan expiry, 16),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
	}
	h.registry = NewRegistry(settings, h.onExpire)
	return h
}

// RegisterClient hands a freshly accepted connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient tells the hub a connection is gone. Safe to call
// after shutdown and for already evicted clients.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Stats returns the current counters.
func (h *Hub) Stats() Stats {
	return Stats{
		ActiveRooms:    h.activeRooms.Load(),
		ActivePlayers:  h.activePlayers.Load(),
		RelayDrops:     h.relayDrops.Load(),
		RateLimitDrops: h.rateLimitDrops.Load(),
		SpoofDrops:     h.spoofDrops.Load(),
		RoomTimeouts:   h.roomTimeouts.Load(),
	}
}

// Run processes events until the context is cancelled. Each inbound
// event is handled to completion before the next one is picked up.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case req := <-h.requests:
			h.handle(req.client, req.cmd)
		case e := <-h.expiries:
			h.handleExpiry(e)
		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

// onExpire runs on a timer goroutine; it only posts back to the hub.
func (h *Hub) onExpire(room string, gen uint64) {
	select {
	case h.expiries <- expiry{room: room, gen: gen}:
	case <-h.done:
	}
}

// pump forwards one client's commands into the hub loop. It exits when
// the client is evicted, not only on hub shutdown, so connection churn
// does not accumulate goroutines.
func (h *Hub) pump(c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.requests <- request{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-h.done:
				return
			}
		case <-c.done:
			return
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRegister(c *Client) {
	if _, ok := h.clients[c.ID]; ok {
		return
	}
	h.clients[c.ID] = c
	h.activePlayers.Add(1)
	h.trySend(c, &Event{Kind: EventWelcome, ConnectionID: c.ID})
	go h.pump(c)
	h.log.Debug().Str("client_id", c.ID).Str("addr", c.Addr).Msg("client registered")
}

func (h *Hub) handleUnregister(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	h.activePlayers.Add(-1)
	h.limiter.Forget(c.ID)
	h.leaveCurrentRoom(c)
	h.evict(c)
	h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
}

func (h *Hub) handle(c *Client, cmd *Command) {
	if _, ok := h.clients[c.ID]; !ok {
		// Command raced with a disconnect or an eviction.
		return
	}
	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room)
	case CommandLeaveRoom:
		h.handleLeave(c)
	case CommandGameState:
		h.handleGameState(c, cmd)
	case CommandRequestState:
		h.handleRequestState(c)
	case CommandSendState:
		h.handleSendState(c, cmd)
	}
}

func (h *Hub) handleJoin(c *Client, roomName string) {
	if !h.limiter.Allow(ActionJoinRoom, c.ID) {
		h.rateLimitDrops.Add(1)
		h.trySend(c, &Event{
			Kind:  EventJoinResult,
			Room:  roomName,
			Error: coreError(ErrCodeRateLimited, "slow down"),
		})
		return
	}

	res, err := h.registry.Join(roomName, c)
	if err != nil {
		code := ErrCodeBadRequest
		switch {
		case errors.Is(err, ErrInvalidRoomName):
			code = ErrCodeInvalidRoomName
		case errors.Is(err, ErrRoomFull):
			code = ErrCodeRoomFull
		case errors.Is(err, ErrServerFull):
			code = ErrCodeServerFull
		}
		h.trySend(c, &Event{
			Kind:  EventJoinResult,
			Room:  roomName,
			Error: coreError(code, err.Error()),
		})
		return
	}

	// Switching rooms leaves the old one silently: the mover gets no
	// leave ack, but the abandoned peer is still notified.
	if prior := c.Room; prior != "" && prior != roomName {
		h.departRoom(c, prior)
	}
	c.Room = roomName

	if res.Created {
		h.activeRooms.Add(1)
		h.record(func(ctx context.Context) error {
			return h.journal.RecordOpened(ctx, roomName, time.Now())
		})
	}

	// A rejoin changed no membership; the peer already knows the count.
	if !res.Rejoined {
		for _, m := range res.Room.Others(c) {
			h.trySend(m, &Event{Kind: EventPlayerJoined, Room: roomName, PlayerCount: res.PlayerCount})
		}
	}
	h.trySend(c, &Event{
		Kind:        EventJoinResult,
		Room:        roomName,
		Success:     true,
		IsRoomOwner: res.IsOwner,
		PlayerCount: res.PlayerCount,
	})
	h.log.Info().
		Str("client_id", c.ID).
		Str("room", roomName).
		Int("player_count", res.PlayerCount).
		Bool("owner", res.IsOwner).
		Msg("client joined room")
}

// handleLeave is idempotent: leaving with no current room succeeds
// trivially and mutates nothing.
func (h *Hub) handleLeave(c *Client) {
	h.leaveCurrentRoom(c)
	h.trySend(c, &Event{Kind: EventLeaveResult, Success: true})
}

func (h *Hub) handleGameState(c *Client, cmd *Command) {
	if c.Room == "" {
		h.relayDrops.Add(1)
		return
	}
	if !h.limiter.Allow(ActionGameState, c.ID) {
		h.rateLimitDrops.Add(1)
		return
	}
	if !h.payload.WithinLimit(cmd.State) {
		h.relayDrops.Add(1)
		h.log.Debug().Str("client_id", c.ID).Int("bytes", len(cmd.State)).Msg("state blob rejected")
		return
	}

	h.registry.ResetTimeout(c.Room)
	room, ok := h.registry.Room(c.Room)
	if !ok {
		return
	}
	for _, m := range room.Others(c) {
		h.trySend(m, &Event{Kind: EventGameState, Room: c.Room, State: cmd.State})
	}
}

func (h *Hub) handleRequestState(c *Client) {
	if c.Room == "" {
		h.relayDrops.Add(1)
		return
	}
	if !h.limiter.Allow(ActionRequestState, c.ID) {
		h.rateLimitDrops.Add(1)
		return
	}

	h.registry.ResetTimeout(c.Room)
	room, ok := h.registry.Room(c.Room)
	if !ok {
		return
	}
	for _, m := range room.Others(c) {
		h.trySend(m, &Event{Kind: EventStateRequested, Room: c.Room, ConnectionID: c.ID})
	}
}

func (h *Hub) handleSendState(c *Client, cmd *Command) {
	if c.Room == "" {
		h.relayDrops.Add(1)
		return
	}
	if !h.limiter.Allow(ActionSendState, c.ID) {
		h.rateLimitDrops.Add(1)
		return
	}

	room, ok := h.registry.Room(c.Room)
	if !ok {
		return
	}
	target, ok := room.Member(cmd.Target)
	if !ok {
		// Target outside the sender's room: potential spoof. Externally
		// indistinguishable from a rate-limit drop, counted separately.
		h.spoofDrops.Add(1)
		h.log.Debug().Str("client_id", c.ID).Str("target", cmd.Target).Msg("send-state target not in room")
		return
	}
	if !h.payload.WithinLimit(cmd.State) {
		h.relayDrops.Add(1)
		return
	}

	h.registry.ResetTimeout(c.Room)
	h.trySend(target, &Event{Kind: EventGameState, Room: c.Room, State: cmd.State})
}

func (h *Hub) handleExpiry(e expiry) {
	room, ok := h.registry.TakeExpired(e.room, e.gen)
	if !ok {
		// Stale fire: the room emptied or saw activity since this timer
		// was scheduled.
		return
	}
	h.roomTimeouts.Add(1)
	h.activeRooms.Add(-1)
	for _, m := range room.Members() {
		m.Room = ""
		h.trySend(m, &Event{Kind: EventRoomTimeout, Room: room.Name})
		h.evict(m)
	}
	h.record(func(ctx context.Context) error {
		return h.journal.RecordClosed(ctx, room.Name, store.ReasonTimeout, time.Now())
	})
	h.log.Info().Str("room", room.Name).Msg("room evicted for inactivity")
}

// leaveCurrentRoom performs the leave side effects for whatever room the
// client is in, if any.
func (h *Hub) leaveCurrentRoom(c *Client) {
	if c.Room == "" {
		return
	}
	name := c.Room
	c.Room = ""
	h.departRoom(c, name)
}

func (h *Hub) departRoom(c *Client, name string) {
	remaining, emptied := h.registry.Leave(name, c)
	for _, m := range remaining {
		h.trySend(m, &Event{Kind: EventPlayerLeft, Room: name})
	}
	if emptied {
		h.activeRooms.Add(-1)
		h.record(func(ctx context.Context) error {
			return h.journal.RecordClosed(ctx, name, store.ReasonEmptied, time.Now())
		})
	}
	h.log.Debug().Str("client_id", c.ID).Str("room", name).Msg("client left room")
}

// evict closes the client's event stream, which makes its transport
// writer exit and tear the connection down, and stops its pump.
func (h *Hub) evict(c *Client) {
	if c.gone {
		return
	}
	c.gone = true
	close(c.Events)
	close(c.done)
}

func (h *Hub) shutdown() {
	for _, room := range h.registry.Shutdown() {
		h.record(func(ctx context.Context) error {
			return h.journal.RecordClosed(ctx, room.Name, store.ReasonShutdown, time.Now())
		})
	}
	for _, c := range h.clients {
		c.Room = ""
		h.evict(c)
	}
	h.log.Info().Msg("hub stopped")
}

func (h *Hub) trySend(c *Client, ev *Event) {
	if c.gone {
		return
	}
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
		h.log.Debug().Str("client_id", c.ID).Msg("event dropped, slow consumer")
	}
}

func (h *Hub) record(fn func(ctx context.Context) error) {
	if h.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		h.log.Warn().Err(err).Msg("session journal write failed")
	}
}
