package config

import (
	"time"

	"github.com/vovakirdan/pairlink-server/internal/core"
)

// RateLimit is one action's admission budget per rolling window.
type RateLimit struct {
	Points int           `mapstructure:"points" yaml:"points"`
	Window time.Duration `mapstructure:"window" yaml:"window"`
}

// RateLimits holds the per-action budgets.
type RateLimits struct {
	JoinRoom     RateLimit `mapstructure:"join_room" yaml:"join_room"`
	GameState    RateLimit `mapstructure:"game_state" yaml:"game_state"`
	RequestState RateLimit `mapstructure:"request_state" yaml:"request_state"`
	SendState    RateLimit `mapstructure:"send_state" yaml:"send_state"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`

	MaxPlayersPerRoom     int           `mapstructure:"max_players_per_room" yaml:"max_players_per_room"`
	MaxRoomNameLength     int           `mapstructure:"max_room_name_length" yaml:"max_room_name_length"`
	RoomInactivityTimeout time.Duration `mapstructure:"room_inactivity_timeout" yaml:"room_inactivity_timeout"`
	MaxTotalRooms         int           `mapstructure:"max_total_rooms" yaml:"max_total_rooms"`
	MaxGameStateSize      int           `mapstructure:"max_game_state_size" yaml:"max_game_state_size"`
	MaxConnectionsPerIP   int           `mapstructure:"max_connections_per_ip" yaml:"max_connections_per_ip"`

	RateLimits RateLimits `mapstructure:"rate_limits" yaml:"rate_limits"`
}

// Default returns configuration with production defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "pairlink.db",

		MaxPlayersPerRoom:     2,
		MaxRoomNameLength:     20,
		RoomInactivityTimeout: 10 * time.Minute,
		MaxTotalRooms:         10000,
		MaxGameStateSize:      100 * 1024,
		MaxConnectionsPerIP:   100,

		RateLimits: RateLimits{
			JoinRoom:     RateLimit{Points: 5, Window: 10 * time.Second},
			GameState:    RateLimit{Points: 30, Window: 10 * time.Second},
			RequestState: RateLimit{Points: 10, Window: 10 * time.Second},
			SendState:    RateLimit{Points: 10, Window: 10 * time.Second},
		},
	}
}

// Settings maps the configuration onto the relay core's tunables.
func (c Config) Settings() core.Settings {
	return core.Settings{
		MaxPlayersPerRoom:     c.MaxPlayersPerRoom,
		MaxRoomNameLength:     c.MaxRoomNameLength,
		MaxTotalRooms:         c.MaxTotalRooms,
		MaxGameStateSize:      c.MaxGameStateSize,
		RoomInactivityTimeout: c.RoomInactivityTimeout,
		RateLimits: map[core.Action]core.Limit{
			core.ActionJoinRoom:     {Points: c.RateLimits.JoinRoom.Points, Window: c.RateLimits.JoinRoom.Window},
			core.ActionGameState:    {Points: c.RateLimits.GameState.Points, Window: c.RateLimits.GameState.Window},
			core.ActionRequestState: {Points: c.RateLimits.RequestState.Points, Window: c.RateLimits.RequestState.Window},
			core.ActionSendState:    {Points: c.RateLimits.SendState.Points, Window: c.RateLimits.SendState.Window},
		},
	}
}
