// Package api implements the REST surface over the game service: join,
// move, start, reset, and the read endpoints, plus the static file UI and
// the spectator websocket route. It owns the transport concerns the game
// core deliberately does not: CORS, the short-lived read cache, fault
// injection, and the mapping from game errors to HTTP status codes.
package api
