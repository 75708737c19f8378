package engine

import "errors"

var (
	// ErrDuplicateName is returned by Join when the requested display name
	// is already taken by a currently joined player.
	ErrDuplicateName = errors.New("player name already taken")

	// ErrUnknownToken is returned by Move when the token does not identify
	// a joined player.
	ErrUnknownToken = errors.New("unknown player token")

	// ErrGameNotRunning is returned by Join and Move when the game has not
	// started yet, has ended, or its deadline has passed.
	ErrGameNotRunning = errors.New("game is not running")

	// ErrGameRunning is returned by Start when a game is already in
	// progress. A running game must be reset (with the admin secret)
	// before a new one can start.
	ErrGameRunning = errors.New("game is already running")

	// ErrInvalidConfig is returned by Start for a config with non-positive
	// dimensions or a negative time limit.
	ErrInvalidConfig = errors.New("invalid game configuration")

	// ErrForbidden is returned by Reset when the supplied secret does not
	// match the one recorded at the last start.
	ErrForbidden = errors.New("admin secret does not match")

	// ErrBoardFull is returned by Join when every cell is occupied.
	ErrBoardFull = errors.New("no unoccupied cell left on the board")
)
