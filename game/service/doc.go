// Package service defines the GameService interface consumed by every
// transport (REST, WebSocket broadcasts, MCP) and its implementation over
// the process's one live game engine.
package service
