package engine

import (
	"sync"
	"time"
)

// Engine is the single externally visible game facade. It composes the
// board, the player registry, and the lifecycle state machine under one
// mutex; every operation takes the lock for its whole duration, so each
// call observes and produces a consistent state.
//
// Exactly one Engine exists per process. It is constructed at startup and
// handed to every transport; nothing outside the engine ever holds a
// mutable reference to its internals.
type Engine struct {
	mu        sync.Mutex
	board     *board
	players   *registry
	lifecycle *lifecycle
	config    GameConfig
	source    RandomSource
}

// New creates an engine in the NotStarted state with wall-clock randomness.
func New() *Engine {
	return NewWithSources(NewRandomSource(), time.Now)
}

// NewWithSources creates an engine with an injected random source and clock.
// Tests use it to make board layouts, player placement, and deadline expiry
// deterministic.
func NewWithSources(source RandomSource, now func() time.Time) *Engine {
	return &Engine{
		players:   newRegistry(),
		lifecycle: newLifecycle(now),
		source:    source,
	}
}

// StartGame begins a new game with the given configuration. It fails with
// ErrInvalidConfig for bad dimensions and with ErrGameRunning while a game
// is in progress; a running game must be reset first.
func (e *Engine) StartGame(cfg GameConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.lifecycle.start(cfg); err != nil {
		return err
	}

	e.config = cfg
	e.board = newBoard(cfg.NumRows, cfg.NumCols, e.source)
	e.players.clear()
	return nil
}

// ResetGame clears all players, discards the board, and returns the game to
// NotStarted. The secret must match the one recorded at the last start;
// before any game has ever started, any secret is accepted.
func (e *Engine) ResetGame(secret string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.lifecycle.reset(secret); err != nil {
		return err
	}

	e.players.clear()
	e.board = nil
	return nil
}

// JoinPlayer registers a new player on a random unoccupied cell and returns
// the secret move token together with the initial player view.
func (e *Engine) JoinPlayer(name string) (token string, view PlayerView, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lifecycle.current() != Running {
		return "", PlayerView{}, ErrGameNotRunning
	}

	row, col, err := e.unoccupiedCell()
	if err != nil {
		return "", PlayerView{}, err
	}

	p, err := e.players.join(name, row, col)
	if err != nil {
		return "", PlayerView{}, err
	}
	return p.token, p.view(), nil
}

// Move applies one unit step for the player identified by token. A step off
// the board, or onto a cell another player occupies, is a harmless no-op:
// the position is unchanged and no error is returned. Landing on a valued
// cell consumes the value and credits it to the mover's score; position
// update and score credit are atomic under the engine lock.
func (e *Engine) Move(token string, direction Direction) (PlayerView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lifecycle.current() != Running {
		return PlayerView{}, ErrGameNotRunning
	}

	p, err := e.players.lookup(token)
	if err != nil {
		return PlayerView{}, err
	}

	dRow, dCol := direction.delta()
	row, col := p.row+dRow, p.col+dCol
	if !e.board.inBounds(row, col) || e.players.occupant(row, col) != nil {
		return p.view(), nil
	}

	p.row, p.col = row, col
	p.score += e.board.consumeValueAt(row, col)
	return p.view(), nil
}

// PlayersByScoreDescending returns the leaderboard: score descending, ties
// broken in favor of the earlier joiner. Valid in any state; empty when no
// one has joined.
func (e *Engine) PlayersByScoreDescending() []PlayerView {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lifecycle.refresh()
	players := e.players.byScoreDescending()
	views := make([]PlayerView, len(players))
	for i, p := range players {
		views[i] = p.view()
	}
	return views
}

// BoardState returns a consistent snapshot of the whole grid with remaining
// point values and cell occupants. Valid in any state; before the first
// start it reports a 0x0 board.
func (e *Engine) BoardState() BoardSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lifecycle.refresh()
	if e.board == nil {
		return BoardSnapshot{Cells: []CellView{}}
	}

	occupants := make(map[[2]int]string, e.players.size())
	for _, p := range e.players.byScoreDescending() {
		occupants[[2]int{p.row, p.col}] = p.id
	}

	snapshot := BoardSnapshot{
		NumRows: e.board.numRows,
		NumCols: e.board.numCols,
		Cells:   make([]CellView, 0, e.board.numRows*e.board.numCols),
	}
	for row := 0; row < e.board.numRows; row++ {
		for col := 0; col < e.board.numCols; col++ {
			snapshot.Cells = append(snapshot.Cells, CellView{
				Row:        row,
				Col:        col,
				Value:      e.board.valueAt(row, col),
				OccupantID: occupants[[2]int{row, col}],
			})
		}
	}
	return snapshot
}

// Status reports the lifecycle state after applying lazy deadline expiry,
// plus the deadline itself for timed running games.
func (e *Engine) Status() StatusView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := StatusView{State: e.lifecycle.current().String()}
	if e.lifecycle.status == Running && !e.lifecycle.deadline.IsZero() {
		deadline := e.lifecycle.deadline
		view.Deadline = &deadline
	}
	return view
}

// unoccupiedCell picks a uniformly random free cell, falling back to a
// row-major scan when sampling keeps colliding on a crowded board.
func (e *Engine) unoccupiedCell() (row, col int, err error) {
	total := e.board.numRows * e.board.numCols
	if e.players.size() >= total {
		return 0, 0, ErrBoardFull
	}

	for attempts := 0; attempts < 4*total; attempts++ {
		row = e.source.Intn(e.board.numRows)
		col = e.source.Intn(e.board.numCols)
		if e.players.occupant(row, col) == nil {
			return row, col, nil
		}
	}
	for row = 0; row < e.board.numRows; row++ {
		for col = 0; col < e.board.numCols; col++ {
			if e.players.occupant(row, col) == nil {
				return row, col, nil
			}
		}
	}
	return 0, 0, ErrBoardFull
}
