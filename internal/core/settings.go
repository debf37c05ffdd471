package core

import "time"

// Limit is one action's admission budget over a rolling window.
type Limit struct {
	Points int
	Window time.Duration
}

// Settings carries the relay core's tunables. A nil RateLimits map
// disables per-action admission control entirely.
type Settings struct {
	MaxPlayersPerRoom     int
	MaxRoomNameLength     int
	MaxTotalRooms         int
	MaxGameStateSize      int
	RoomInactivityTimeout time.Duration
	RateLimits            map[Action]Limit
}

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxPlayersPerRoom:     2,
		MaxRoomNameLength:     20,
		MaxTotalRooms:         10000,
		MaxGameStateSize:      100 * 1024,
		RoomInactivityTimeout: 10 * time.Minute,
		RateLimits: map[Action]Limit{
			ActionJoinRoom:     {Points: 5, Window: 10 * time.Second},
			ActionGameState:    {Points: 30, Window: 10 * time.Second},
			ActionRequestState: {Points: 10, Window: 10 * time.Second},
			ActionSendState:    {Points: 10, Window: 10 * time.Second},
		},
	}
}
