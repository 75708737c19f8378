package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PacMenOrganizationLLC/HungryGame/game/engine"
	"github.com/PacMenOrganizationLLC/HungryGame/game/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// GetMCPServer returns the underlying MCP server for stdio or HTTP hosting.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Hungry Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Hungry Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Join the shared board with a name, move around, and eat the point values
scattered on the cells. Highest score on the leaderboard wins when the
admin ends the game.

AVAILABLE TOOLS:
- join_game: Join the running game and receive your move token
- move: Move one cell (up/down/left/right); keep your token private
- board_state: See the grid, remaining values, and player positions
- leaderboard: Current ranking by score
- game_status: NotStarted, Running, or Ended
- start_game: Admin: start a new game (requires password)
- reset_game: Admin: clear the game (requires the start password)
- game_instructions: Full rules

NOTE: Moves off the board or into another player do nothing - they are not
errors, just wasted turns.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join the running game under a display name; returns your secret move token",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name, unique among joined players",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleJoin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move your player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"token": map[string]interface{}{
					"type":        "string",
					"description": "Your move token from join_game",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
			},
			Required: []string{"token", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the grid with remaining point values and player positions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Get the current ranking by score",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_status",
		Description: "Get the game lifecycle state (NotStarted, Running, Ended)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a new game (admin)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"num_rows": map[string]interface{}{
					"type":        "number",
					"description": "Board rows, at least 1",
				},
				"num_cols": map[string]interface{}{
					"type":        "number",
					"description": "Board columns, at least 1",
				},
				"password": map[string]interface{}{
					"type":        "string",
					"description": "Admin secret required to reset this game later",
				},
				"time_limit": map[string]interface{}{
					"type":        "number",
					"description": "Optional time limit in minutes",
				},
			},
			Required: []string{"num_rows", "num_cols", "password"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Clear all players and the board, returning to NotStarted (admin)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"password": map[string]interface{}{
					"type":        "string",
					"description": "The admin secret of the last start",
				},
			},
			Required: []string{"password"},
		},
	}, c.handleResetGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// Tool handlers

func (c *Client) handleJoin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)

	var result service.JoinResult
	if err := c.apiCall("POST", "/api/join", map[string]interface{}{"name": name}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Joined as %s at (%d,%d).\nYour move token (keep it private): %s",
		result.Player.Name, result.Player.Row, result.Player.Col, result.Token)
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	token, _ := args["token"].(string)
	direction, _ := args["direction"].(string)

	var view engine.PlayerView
	body := map[string]interface{}{"token": token, "direction": direction}
	if err := c.apiCall("POST", "/api/move", body, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("%s is at (%d,%d) with %d points.", view.Name, view.Row, view.Col, view.Score)
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var board engine.BoardSnapshot
	if err := c.apiCall("GET", "/api/board", nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var players []service.LeaderboardEntry
	if err := c.apiCall("GET", "/api/players", nil, &players); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board, players)), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var players []service.LeaderboardEntry
	if err := c.apiCall("GET", "/api/players", nil, &players); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(players)), nil
}

func (c *Client) handleGameStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status engine.StatusView
	if err := c.apiCall("GET", "/api/state", nil, &status); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Game state: %s", status.State)
	if status.Deadline != nil {
		text += fmt.Sprintf("\nDeadline: %s", status.Deadline.Format(time.RFC3339))
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	numRows, _ := args["num_rows"].(float64)
	numCols, _ := args["num_cols"].(float64)
	password, _ := args["password"].(string)
	timeLimit, _ := args["time_limit"].(float64)

	body := map[string]interface{}{
		"numRows":   int(numRows),
		"numCols":   int(numCols),
		"password":  password,
		"timeLimit": int(timeLimit),
	}
	if err := c.apiCall("POST", "/api/start", body, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Game started on a %dx%d board.", int(numRows), int(numCols))), nil
}

func (c *Client) handleResetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	password, _ := args["password"].(string)

	if err := c.apiCall("POST", "/api/reset", map[string]interface{}{"password": password}, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Game reset. All players and the board were cleared."), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Hungry Game - Complete Rules

OBJECTIVE:
Eat more points than everyone else before the game ends.

HOW TO PLAY:
1. join_game with a unique name while the game is Running. You are placed
   on a random free cell and get a secret move token.
2. move with your token, one cell at a time (up/down/left/right).
3. Landing on a cell with a point value eats it: the value is added to
   your score and the cell becomes empty for everyone.

MOVEMENT RULES:
- Moving off the edge of the board does nothing (no error, no step).
- Moving into a cell another player occupies does nothing either.
- Two players can never share a cell.

SCORING:
- Each value is eaten exactly once; first player to land on it gets it.
- The leaderboard ranks by score; ties go to whoever joined earlier.

GAME LIFECYCLE:
- The admin starts a game with board dimensions, a password, and an
  optional time limit in minutes.
- When the time limit passes, the game ends: no more joins or moves.
- The admin resets with the start password; this clears everything.`

	return mcp.NewToolResultText(instructions), nil
}

// apiCall makes an HTTP request to the REST API.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// formatBoard renders the grid as text: '.' for empty cells, the digit for
// remaining values, and a letter for each player keyed in the legend.
func formatBoard(board *engine.BoardSnapshot, players []service.LeaderboardEntry) string {
	if board.NumRows == 0 {
		return "No board: the game has not been started."
	}

	letterByID := make(map[string]byte, len(players))
	for i, p := range players {
		letterByID[p.ID] = byte('A' + i%26)
	}

	grid := make([][]byte, board.NumRows)
	for r := range grid {
		grid[r] = bytes.Repeat([]byte{'.'}, board.NumCols)
	}
	for _, cell := range board.Cells {
		if cell.OccupantID != "" {
			if letter, ok := letterByID[cell.OccupantID]; ok {
				grid[cell.Row][cell.Col] = letter
				continue
			}
			grid[cell.Row][cell.Col] = '?'
			continue
		}
		if cell.Value > 0 && cell.Value <= 9 {
			grid[cell.Row][cell.Col] = byte('0' + cell.Value)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Board %dx%d (digits are points, letters are players):\n\n", board.NumRows, board.NumCols)
	for _, row := range grid {
		sb.Write(row)
		sb.WriteByte('\n')
	}

	if len(players) > 0 {
		sb.WriteString("\nLegend:\n")
		for i, p := range players {
			fmt.Fprintf(&sb, "  %c = %s (%d points)\n", 'A'+i%26, p.Name, p.Score)
		}
	}
	return sb.String()
}

// formatLeaderboard renders the ranking as text.
func formatLeaderboard(players []service.LeaderboardEntry) string {
	if len(players) == 0 {
		return "No players have joined yet."
	}

	var sb strings.Builder
	sb.WriteString("Leaderboard:\n\n")
	for i, p := range players {
		fmt.Fprintf(&sb, "%d. %s - %d points\n", i+1, p.Name, p.Score)
	}
	return sb.String()
}
