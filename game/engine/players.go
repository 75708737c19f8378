package engine

import (
	"crypto/rand"
	"encoding/hex"
	"sort"

	"github.com/google/uuid"
)

// player is the registry's record for one joined player. The token is the
// player's secret credential; the ID is the public identifier shown on the
// leaderboard and in board snapshots.
type player struct {
	id    string
	name  string
	token string
	row   int
	col   int
	score int
	// seq is the join order, used to break leaderboard score ties in
	// favor of the earlier joiner.
	seq int
}

func (p *player) view() PlayerView {
	return PlayerView{ID: p.id, Name: p.name, Row: p.row, Col: p.col, Score: p.score}
}

// registry owns the set of joined players. It is not safe for concurrent
// use on its own; the engine serializes access.
type registry struct {
	byToken map[string]*player
	byName  map[string]*player
	nextSeq int
}

func newRegistry() *registry {
	return &registry{
		byToken: make(map[string]*player),
		byName:  make(map[string]*player),
	}
}

// join registers a new player at (row, col) with score 0. It fails with
// ErrDuplicateName if the name is already taken.
func (r *registry) join(name string, row, col int) (*player, error) {
	if _, taken := r.byName[name]; taken {
		return nil, ErrDuplicateName
	}

	p := &player{
		id:    uuid.NewString(),
		name:  name,
		token: generateToken(),
		row:   row,
		col:   col,
		seq:   r.nextSeq,
	}
	r.nextSeq++
	r.byToken[p.token] = p
	r.byName[name] = p
	return p, nil
}

// lookup resolves a token to its player record.
func (r *registry) lookup(token string) (*player, error) {
	p, ok := r.byToken[token]
	if !ok {
		return nil, ErrUnknownToken
	}
	return p, nil
}

// occupant returns the player standing on (row, col), or nil.
func (r *registry) occupant(row, col int) *player {
	for _, p := range r.byToken {
		if p.row == row && p.col == col {
			return p
		}
	}
	return nil
}

// byScoreDescending returns every player ordered by score descending, ties
// broken by ascending join order so the earlier joiner ranks higher.
func (r *registry) byScoreDescending() []*player {
	players := make([]*player, 0, len(r.byToken))
	for _, p := range r.byToken {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].score != players[j].score {
			return players[i].score > players[j].score
		}
		return players[i].seq < players[j].seq
	})
	return players
}

func (r *registry) size() int {
	return len(r.byToken)
}

// clear removes every player. Only reset uses it.
func (r *registry) clear() {
	r.byToken = make(map[string]*player)
	r.byName = make(map[string]*player)
	r.nextSeq = 0
}

// generateToken returns an unguessable 32-character hex token.
func generateToken() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand read failure means the platform is broken; a
		// UUID is still unguessable enough to keep the game alive.
		return uuid.NewString()
	}
	return hex.EncodeToString(bytes)
}
