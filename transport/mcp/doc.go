// Package mcp exposes the game to MCP clients as a set of tools. The
// client is a thin proxy: every tool call is translated into a REST API
// request, so MCP players and HTTP players share one game and one set of
// rules.
package mcp
