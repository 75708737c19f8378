// Package websocket implements the spectator feed: a hub that pushes a
// fresh board snapshot to every connected client after each successful
// game mutation. Clients never send game commands over the socket; moves
// go through the REST API.
package websocket
