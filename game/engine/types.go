package engine

import (
	"fmt"
	"strings"
	"time"
)

// Direction is a unit move on the board.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection normalizes a direction string from the wire.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	case Left:
		return Left, nil
	case Right:
		return Right, nil
	}
	return "", fmt.Errorf("invalid direction %q (want up, down, left or right)", s)
}

// delta returns the row/column offset for the direction.
func (d Direction) delta() (dRow, dCol int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}

// Status is the game lifecycle state.
type Status int

const (
	NotStarted Status = iota
	Running
	Ended
)

// String returns the status in the wire form consumed by clients.
func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Ended:
		return "Ended"
	}
	return "NotStarted"
}

// GameConfig is the canonical start configuration. The web layer normalizes
// both its entry shapes (JSON body and query string) into this one value
// before the engine sees it.
type GameConfig struct {
	NumRows int    `json:"numRows"`
	NumCols int    `json:"numCols"`
	Secret  string `json:"password"`
	// TimeLimit is in minutes; 0 means the game is not time-boxed.
	TimeLimit int `json:"timeLimit,omitempty"`
}

// ValidateGameConfig checks a configuration before a game starts.
func ValidateGameConfig(cfg GameConfig) error {
	if cfg.NumRows < 1 {
		return fmt.Errorf("%w: numRows must be at least 1, got %d", ErrInvalidConfig, cfg.NumRows)
	}
	if cfg.NumCols < 1 {
		return fmt.Errorf("%w: numCols must be at least 1, got %d", ErrInvalidConfig, cfg.NumCols)
	}
	if cfg.TimeLimit < 0 {
		return fmt.Errorf("%w: timeLimit must not be negative, got %d", ErrInvalidConfig, cfg.TimeLimit)
	}
	return nil
}

// PlayerView is the externally visible state of one player. The join token
// is never part of it; only the public ID is.
type PlayerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Score int    `json:"score"`
}

// CellView is one cell in a board snapshot.
type CellView struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Value      int    `json:"value"`
	OccupantID string `json:"occupantId,omitempty"`
}

// BoardSnapshot is an internally consistent read of the whole board, taken
// under the engine lock. Cells are in row-major order and cover the full
// grid, occupied or not.
type BoardSnapshot struct {
	NumRows int        `json:"numRows"`
	NumCols int        `json:"numCols"`
	Cells   []CellView `json:"cells"`
}

// StatusView reports the lifecycle state and, for timed games, the deadline.
type StatusView struct {
	State    string     `json:"state"`
	Deadline *time.Time `json:"deadline,omitempty"`
}
