package config

import (
	"testing"
	"time"

	"github.com/vovakirdan/pairlink-server/internal/core"
)

// The config defaults and the core defaults must describe the same
// limits, or a caller skipping the config layer gets different behavior.
func TestDefaultSettingsMatchCoreDefaults(t *testing.T) {
	got := Default().Settings()
	want := core.DefaultSettings()

	if got.MaxPlayersPerRoom != want.MaxPlayersPerRoom ||
		got.MaxRoomNameLength != want.MaxRoomNameLength ||
		got.MaxTotalRooms != want.MaxTotalRooms ||
		got.MaxGameStateSize != want.MaxGameStateSize ||
		got.RoomInactivityTimeout != want.RoomInactivityTimeout {
		t.Fatalf("settings diverge:\n got %+v\nwant %+v", got, want)
	}

	for _, action := range []core.Action{
		core.ActionJoinRoom, core.ActionGameState,
		core.ActionRequestState, core.ActionSendState,
	} {
		if got.RateLimits[action] != want.RateLimits[action] {
			t.Errorf("%s limit diverges: got %+v, want %+v",
				action, got.RateLimits[action], want.RateLimits[action])
		}
	}
}

func TestSettingsMappingCarriesOverrides(t *testing.T) {
	cfg := Default()
	cfg.MaxGameStateSize = 64
	cfg.RateLimits.GameState = RateLimit{Points: 3, Window: time.Second}

	s := cfg.Settings()
	if s.MaxGameStateSize != 64 {
		t.Fatalf("max state size not carried: %d", s.MaxGameStateSize)
	}
	if limit := s.RateLimits[core.ActionGameState]; limit.Points != 3 || limit.Window != time.Second {
		t.Fatalf("game-state limit not carried: %+v", limit)
	}
}
