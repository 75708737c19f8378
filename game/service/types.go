package service

import "github.com/PacMenOrganizationLLC/HungryGame/game/engine"

// JoinResult is returned once per join: the token is the player's secret
// credential for subsequent moves and is never reported by any other view.
type JoinResult struct {
	Token  string            `json:"token"`
	Player engine.PlayerView `json:"player"`
}

// LeaderboardEntry is one row of the score ranking.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// PresetInfo is a discoverable start-configuration hint for the admin UI.
// It mirrors the start payload shape; the password hint is a suggestion,
// not a credential.
type PresetInfo struct {
	Name      string `json:"name"`
	NumRows   int    `json:"numRows"`
	NumCols   int    `json:"numCols"`
	Password  string `json:"password"`
	TimeLimit int    `json:"timeLimit,omitempty"`
}
