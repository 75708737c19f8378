package service

import (
	"context"

	"github.com/PacMenOrganizationLLC/HungryGame/game/engine"
)

// GameService defines all game-related operations exposed to transports.
type GameService interface {
	// Player operations
	Join(ctx context.Context, name string) (*JoinResult, error)
	Move(ctx context.Context, token, direction string) (*engine.PlayerView, error)

	// Administration
	Start(ctx context.Context, cfg engine.GameConfig) error
	Reset(ctx context.Context, secret string) error

	// Read-only views
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	Board(ctx context.Context) (*engine.BoardSnapshot, error)
	Status(ctx context.Context) (*engine.StatusView, error)

	// Start presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
}

// PresetManager supplies the discoverable start presets.
type PresetManager interface {
	List() []*PresetInfo
	Default() engine.GameConfig
}
