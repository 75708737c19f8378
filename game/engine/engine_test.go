package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestEngine(seed int64) (*Engine, *fakeClock) {
	clock := newFakeClock()
	return NewWithSources(NewSeededSource(seed), clock.now), clock
}

func startTestGame(t *testing.T, e *Engine, rows, cols int) {
	t.Helper()
	if err := e.StartGame(GameConfig{NumRows: rows, NumCols: cols, Secret: "pw"}); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
}

// scriptedSource replays a fixed sequence of draws, so tests can lay out the
// board and player placements cell by cell.
type scriptedSource struct {
	draws []int
	next  int
}

func (s *scriptedSource) Intn(n int) int {
	if s.next >= len(s.draws) {
		return 0
	}
	v := s.draws[s.next] % n
	s.next++
	return v
}

func TestEngine_StartReportsFullBoard(t *testing.T) {
	for _, size := range []struct{ rows, cols int }{{1, 1}, {1, 8}, {3, 3}, {7, 4}} {
		e, _ := newTestEngine(1)
		startTestGame(t, e, size.rows, size.cols)

		snapshot := e.BoardState()
		if snapshot.NumRows != size.rows || snapshot.NumCols != size.cols {
			t.Errorf("Expected %dx%d snapshot, got %dx%d",
				size.rows, size.cols, snapshot.NumRows, snapshot.NumCols)
		}
		if len(snapshot.Cells) != size.rows*size.cols {
			t.Errorf("%dx%d board: expected %d cells, got %d",
				size.rows, size.cols, size.rows*size.cols, len(snapshot.Cells))
		}
		if got := e.Status().State; got != "Running" {
			t.Errorf("Expected Running after start, got %q", got)
		}
	}
}

func TestEngine_JoinBeforeStart(t *testing.T) {
	e, _ := newTestEngine(1)

	_, _, err := e.JoinPlayer("alice")
	if !errors.Is(err, ErrGameNotRunning) {
		t.Errorf("Expected ErrGameNotRunning, got %v", err)
	}
}

func TestEngine_JoinDuplicateName(t *testing.T) {
	e, _ := newTestEngine(1)
	startTestGame(t, e, 3, 3)

	if _, _, err := e.JoinPlayer("alice"); err != nil {
		t.Fatalf("First join failed: %v", err)
	}
	_, _, err := e.JoinPlayer("alice")
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
	if got := len(e.PlayersByScoreDescending()); got != 1 {
		t.Errorf("Expected exactly 1 player after rejected join, got %d", got)
	}
}

func TestEngine_JoinPlacesPlayersOnDistinctCells(t *testing.T) {
	e, _ := newTestEngine(9)
	startTestGame(t, e, 2, 2)

	seen := make(map[[2]int]bool)
	for i := 0; i < 4; i++ {
		_, view, err := e.JoinPlayer(fmt.Sprintf("player%d", i))
		if err != nil {
			t.Fatalf("Join %d failed: %v", i, err)
		}
		pos := [2]int{view.Row, view.Col}
		if seen[pos] {
			t.Errorf("Two players placed on cell %v", pos)
		}
		seen[pos] = true
	}

	// Board is full now.
	_, _, err := e.JoinPlayer("overflow")
	if !errors.Is(err, ErrBoardFull) {
		t.Errorf("Expected ErrBoardFull, got %v", err)
	}
}

func TestEngine_MoveOutOfBoundsIsNoOp(t *testing.T) {
	e, _ := newTestEngine(1)
	startTestGame(t, e, 1, 1)

	// On a 1x1 board every direction leaves the grid.
	token, view, err := e.JoinPlayer("alice")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	for _, dir := range []Direction{Up, Down, Left, Right} {
		after, err := e.Move(token, dir)
		if err != nil {
			t.Errorf("Move %v returned error %v, want silent no-op", dir, err)
		}
		if after.Row != view.Row || after.Col != view.Col {
			t.Errorf("Move %v changed position to (%d,%d), want (%d,%d)",
				dir, after.Row, after.Col, view.Row, view.Col)
		}
		if after.Score != 0 {
			t.Errorf("Move %v changed score to %d", dir, after.Score)
		}
	}
}

func TestEngine_MoveUnknownToken(t *testing.T) {
	e, _ := newTestEngine(1)
	startTestGame(t, e, 3, 3)

	_, err := e.Move("bogus", Up)
	if !errors.Is(err, ErrUnknownToken) {
		t.Errorf("Expected ErrUnknownToken, got %v", err)
	}
}

// stripSource lays out a 1x3 board deterministically: no value at (0,0),
// 4 points at (0,1), no value at (0,2); alice joins at column 0, bob at
// column 2.
func stripSource() *scriptedSource {
	return &scriptedSource{draws: []int{
		1,    // cell (0,0): no value
		0, 3, // cell (0,1): value 1+3
		2,    // cell (0,2): no value
		0, 0, // alice at (0,0)
		0, 2, // bob at (0,2)
	}}
}

func TestEngine_MoveOntoOccupiedCellIsNoOp(t *testing.T) {
	e := NewWithSources(stripSource(), time.Now)
	startTestGame(t, e, 1, 3)

	tokenA, _, err := e.JoinPlayer("alice")
	if err != nil {
		t.Fatalf("Join alice failed: %v", err)
	}
	tokenB, _, err := e.JoinPlayer("bob")
	if err != nil {
		t.Fatalf("Join bob failed: %v", err)
	}

	// Alice takes the middle cell; bob's step into it must be a no-op.
	viewA, err := e.Move(tokenA, Right)
	if err != nil {
		t.Fatalf("Alice's move failed: %v", err)
	}
	if viewA.Col != 1 || viewA.Score != 4 {
		t.Fatalf("Expected alice at column 1 with score 4, got column %d score %d",
			viewA.Col, viewA.Score)
	}

	viewB, err := e.Move(tokenB, Left)
	if err != nil {
		t.Errorf("Bob's blocked move errored: %v, want silent no-op", err)
	}
	if viewB.Col != 2 {
		t.Errorf("Bob moved onto an occupied cell, now at column %d", viewB.Col)
	}
	if viewB.Score != 0 {
		t.Errorf("Bob's blocked move changed his score to %d", viewB.Score)
	}
}

func TestEngine_MoveCreditsValueExactlyOnce(t *testing.T) {
	e := NewWithSources(stripSource(), time.Now)
	startTestGame(t, e, 1, 3)

	token, _, err := e.JoinPlayer("alice")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	view, err := e.Move(token, Right)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if view.Score != 4 {
		t.Fatalf("Expected 4 points after landing on the valued cell, got %d", view.Score)
	}

	// Leave and re-enter: the value was consumed and must not pay again.
	if _, err := e.Move(token, Left); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	view, err = e.Move(token, Right)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if view.Score != 4 {
		t.Errorf("Re-entering the cell changed score to %d, want 4", view.Score)
	}

	snapshot := e.BoardState()
	for _, cell := range snapshot.Cells {
		if cell.Value != 0 && cell.Col == 1 {
			t.Errorf("Consumed cell still holds %d", cell.Value)
		}
	}
}

func TestEngine_ScenarioMoveUpFromTopRow(t *testing.T) {
	// startGame(3,3,"pw"); join; moving up from row 0 is a no-op.
	e, _ := newTestEngine(2)
	if err := e.StartGame(GameConfig{NumRows: 3, NumCols: 3, Secret: "pw"}); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	token, view, err := e.JoinPlayer("alice")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if view.Row < 0 || view.Row > 2 || view.Col < 0 || view.Col > 2 {
		t.Fatalf("Join placed alice out of bounds at (%d,%d)", view.Row, view.Col)
	}
	if view.Score != 0 {
		t.Fatalf("Expected score 0 at join, got %d", view.Score)
	}

	for view.Row > 0 {
		view, _ = e.Move(token, Up)
	}
	scoreAtTop := view.Score

	after, err := e.Move(token, Up)
	if err != nil {
		t.Fatalf("Move up from top row errored: %v", err)
	}
	if after.Row != 0 || after.Col != view.Col {
		t.Errorf("Expected position unchanged at (0,%d), got (%d,%d)", view.Col, after.Row, after.Col)
	}
	if after.Score != scoreAtTop {
		t.Errorf("Expected score unchanged at %d, got %d", scoreAtTop, after.Score)
	}
}

func TestEngine_DeadlineEndsGameLazily(t *testing.T) {
	e, clock := newTestEngine(1)
	if err := e.StartGame(GameConfig{NumRows: 3, NumCols: 3, Secret: "pw", TimeLimit: 1}); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	token, _, err := e.JoinPlayer("alice")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := e.Move(token, Down); err != nil {
		t.Errorf("Move before deadline failed: %v", err)
	}

	clock.advance(61 * time.Second)

	// No explicit transition call: the next operation observes Ended.
	if _, err := e.Move(token, Down); !errors.Is(err, ErrGameNotRunning) {
		t.Errorf("Expected ErrGameNotRunning after deadline, got %v", err)
	}
	if got := e.Status().State; got != "Ended" {
		t.Errorf("Expected Ended after deadline, got %q", got)
	}
	// Players survive expiry; only reset clears them.
	if got := len(e.PlayersByScoreDescending()); got != 1 {
		t.Errorf("Expected leaderboard to survive expiry, got %d players", got)
	}
}

func TestEngine_ResetClearsEverything(t *testing.T) {
	e, _ := newTestEngine(1)
	startTestGame(t, e, 3, 3)
	e.JoinPlayer("alice")
	e.JoinPlayer("bob")

	if err := e.ResetGame("pw"); err != nil {
		t.Fatalf("ResetGame failed: %v", err)
	}

	if got := len(e.PlayersByScoreDescending()); got != 0 {
		t.Errorf("Expected empty leaderboard after reset, got %d players", got)
	}
	if got := e.Status().State; got != "NotStarted" {
		t.Errorf("Expected NotStarted after reset, got %q", got)
	}
	if got := e.BoardState(); len(got.Cells) != 0 || got.NumRows != 0 {
		t.Errorf("Expected empty board after reset, got %dx%d with %d cells",
			got.NumRows, got.NumCols, len(got.Cells))
	}
}

func TestEngine_ResetWrongSecretMutatesNothing(t *testing.T) {
	e, _ := newTestEngine(1)
	startTestGame(t, e, 3, 3)
	token, _, _ := e.JoinPlayer("alice")
	e.Move(token, Down)

	playersBefore := e.PlayersByScoreDescending()
	boardBefore := e.BoardState()

	if err := e.ResetGame("wrong"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}

	playersAfter := e.PlayersByScoreDescending()
	if len(playersAfter) != len(playersBefore) {
		t.Fatalf("Player count changed on failed reset: %d -> %d",
			len(playersBefore), len(playersAfter))
	}
	for i := range playersBefore {
		if playersAfter[i] != playersBefore[i] {
			t.Errorf("Player %d changed on failed reset: %+v -> %+v",
				i, playersBefore[i], playersAfter[i])
		}
	}

	boardAfter := e.BoardState()
	if len(boardAfter.Cells) != len(boardBefore.Cells) {
		t.Fatalf("Cell count changed on failed reset")
	}
	for i := range boardBefore.Cells {
		if boardAfter.Cells[i] != boardBefore.Cells[i] {
			t.Errorf("Cell %d changed on failed reset: %+v -> %+v",
				i, boardBefore.Cells[i], boardAfter.Cells[i])
		}
	}
	if got := e.Status().State; got != "Running" {
		t.Errorf("Expected Running after failed reset, got %q", got)
	}
}

func TestEngine_StartWhileRunningRejected(t *testing.T) {
	e, _ := newTestEngine(1)
	startTestGame(t, e, 3, 3)
	e.JoinPlayer("alice")

	err := e.StartGame(GameConfig{NumRows: 5, NumCols: 5, Secret: "other"})
	if !errors.Is(err, ErrGameRunning) {
		t.Errorf("Expected ErrGameRunning, got %v", err)
	}
	if got := len(e.PlayersByScoreDescending()); got != 1 {
		t.Errorf("Rejected start must not clear players, got %d", got)
	}
}

func TestEngine_BoardStateReportsOccupants(t *testing.T) {
	e, _ := newTestEngine(5)
	startTestGame(t, e, 3, 3)
	_, view, err := e.JoinPlayer("alice")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	snapshot := e.BoardState()
	found := false
	for _, cell := range snapshot.Cells {
		if cell.OccupantID == "" {
			continue
		}
		if cell.Row != view.Row || cell.Col != view.Col {
			t.Errorf("Occupant reported at (%d,%d), player is at (%d,%d)",
				cell.Row, cell.Col, view.Row, view.Col)
		}
		if cell.OccupantID != view.ID {
			t.Errorf("Occupant ID %q does not match player ID %q", cell.OccupantID, view.ID)
		}
		found = true
	}
	if !found {
		t.Error("Snapshot reports no occupied cell")
	}
}

// TestEngine_ConcurrentMovesConsumeValueOnce races two players into the
// same valued cell from opposite sides, many times over. Each round exactly
// one of them may take the cell and its 4 points: never both, never neither.
func TestEngine_ConcurrentMovesConsumeValueOnce(t *testing.T) {
	for round := 0; round < 200; round++ {
		e := NewWithSources(stripSource(), time.Now)
		startTestGame(t, e, 1, 3)

		tokenA, _, err := e.JoinPlayer("alice")
		if err != nil {
			t.Fatalf("Round %d: join alice failed: %v", round, err)
		}
		tokenB, _, err := e.JoinPlayer("bob")
		if err != nil {
			t.Fatalf("Round %d: join bob failed: %v", round, err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.Move(tokenA, Right)
		}()
		go func() {
			defer wg.Done()
			e.Move(tokenB, Left)
		}()
		wg.Wait()

		credited := 0
		onMiddle := 0
		for _, p := range e.PlayersByScoreDescending() {
			credited += p.Score
			if p.Row == 0 && p.Col == 1 {
				onMiddle++
			}
		}
		if credited != 4 {
			t.Fatalf("Round %d: expected exactly 4 points credited, got %d", round, credited)
		}
		if onMiddle != 1 {
			t.Fatalf("Round %d: %d players on the contested cell", round, onMiddle)
		}

		for _, cell := range e.BoardState().Cells {
			if cell.Col == 1 && cell.Value != 0 {
				t.Fatalf("Round %d: contested cell still holds %d", round, cell.Value)
			}
		}
	}
}

// TestEngine_ConcurrentStress hammers one engine from many goroutines and
// then checks that the books balance: points credited across all players
// plus points still on the board equal the points the board started with.
func TestEngine_ConcurrentStress(t *testing.T) {
	e, _ := newTestEngine(77)
	startTestGame(t, e, 8, 8)

	initialTotal := 0
	for _, cell := range e.BoardState().Cells {
		initialTotal += cell.Value
	}

	const players = 10
	tokens := make([]string, players)
	for i := 0; i < players; i++ {
		token, _, err := e.JoinPlayer(fmt.Sprintf("player%d", i))
		if err != nil {
			t.Fatalf("Join %d failed: %v", i, err)
		}
		tokens[i] = token
	}

	dirs := []Direction{Up, Down, Left, Right}
	var wg sync.WaitGroup
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(token string, seed int64) {
			defer wg.Done()
			src := NewSeededSource(seed)
			for n := 0; n < 200; n++ {
				if _, err := e.Move(token, dirs[src.Intn(len(dirs))]); err != nil {
					t.Errorf("Move failed mid-stress: %v", err)
					return
				}
			}
		}(tokens[i], int64(i))
	}
	wg.Wait()

	remaining := 0
	for _, cell := range e.BoardState().Cells {
		remaining += cell.Value
	}
	scored := 0
	seen := make(map[[2]int]bool)
	for _, p := range e.PlayersByScoreDescending() {
		scored += p.Score
		pos := [2]int{p.Row, p.Col}
		if seen[pos] {
			t.Errorf("Two players ended on cell %v", pos)
		}
		seen[pos] = true
	}

	if scored+remaining != initialTotal {
		t.Errorf("Points not conserved: %d scored + %d remaining != %d initial",
			scored, remaining, initialTotal)
	}
}
