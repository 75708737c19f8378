// Package engine implements the Hungry Game core: the board and its point
// values, the player registry, the game lifecycle, and the single Engine
// facade every transport talks to.
//
// One Engine instance is shared by all inbound requests for the life of the
// process. Every operation runs under the engine's exclusive lock, so a move
// that updates a player's position and credits a cell's value is atomic with
// respect to every other caller.
package engine
