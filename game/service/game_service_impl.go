package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/PacMenOrganizationLLC/HungryGame/game/engine"
)

// gameServiceImpl implements GameService over the one live engine. The
// engine owns all locking; the service only validates and translates.
type gameServiceImpl struct {
	engine  *engine.Engine
	presets PresetManager
}

// NewGameService creates a game service over the given engine.
func NewGameService(eng *engine.Engine, presets PresetManager) GameService {
	return &gameServiceImpl{engine: eng, presets: presets}
}

// Join registers a new player under the given display name.
func (s *gameServiceImpl) Join(ctx context.Context, name string) (*JoinResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("player name must not be empty")
	}

	token, view, err := s.engine.JoinPlayer(name)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Token: token, Player: view}, nil
}

// Move applies one step for the player identified by token.
func (s *gameServiceImpl) Move(ctx context.Context, token, direction string) (*engine.PlayerView, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	view, err := s.engine.Move(token, dir)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Start begins a new game with the canonical configuration.
func (s *gameServiceImpl) Start(ctx context.Context, cfg engine.GameConfig) error {
	return s.engine.StartGame(cfg)
}

// Reset clears the game, requiring the admin secret of the last start.
func (s *gameServiceImpl) Reset(ctx context.Context, secret string) error {
	return s.engine.ResetGame(secret)
}

// Leaderboard returns players ordered by score descending, earlier joiner
// first on ties.
func (s *gameServiceImpl) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	views := s.engine.PlayersByScoreDescending()
	entries := make([]LeaderboardEntry, len(views))
	for i, v := range views {
		entries[i] = LeaderboardEntry{Name: v.Name, ID: v.ID, Score: v.Score}
	}
	return entries, nil
}

// Board returns a consistent snapshot of the grid.
func (s *gameServiceImpl) Board(ctx context.Context) (*engine.BoardSnapshot, error) {
	snapshot := s.engine.BoardState()
	return &snapshot, nil
}

// Status returns the lifecycle state string and any deadline.
func (s *gameServiceImpl) Status(ctx context.Context) (*engine.StatusView, error) {
	view := s.engine.Status()
	return &view, nil
}

// ListPresets returns the discoverable start-configuration hints.
func (s *gameServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	if s.presets == nil {
		return []*PresetInfo{}, nil
	}
	return s.presets.List(), nil
}
