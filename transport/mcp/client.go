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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kyudori/minigame-party/game/config"
	"github.com/kyudori/minigame-party/game/engine"
	"github.com/kyudori/minigame-party/game/room"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
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

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Minigame Party",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Minigame Party - MCP Interface

This is a thin client that proxies all requests to the REST API server.

The server hosts real-time multiplayer rooms playing two mini games:
- reaction: press the button as fast as possible after the GO signal
- gamble: pick A, B, or C each round; payouts depend on everyone's picks

AVAILABLE TOOLS:
- list_rooms: List open and running rooms
- get_room: Get one room's membership and phase
- list_configs: List available tuning configs
- get_config: Get a specific tuning config
- server_stats: Connection and room counts
- game_rules: The rules of both mini games

Gameplay happens over WebSocket connections and is not exposed here;
these tools are for observing a running server.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all open and running rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room",
		Description: "Get one room's membership and phase",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "Room code to look up",
				},
			},
			Required: []string{"code"},
		},
	}, c.handleGetRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available tuning configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_config",
		Description: "Get a specific tuning configuration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Config name to retrieve",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleGetConfig)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Get connection and room counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStats)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the rules of both mini games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

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

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int            `json:"count"`
		Rooms []room.Summary `json:"rooms"`
	}

	err := c.apiCall("GET", "/api/rooms", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No rooms are currently open."), nil
	}

	result := fmt.Sprintf("Rooms (%d):\n\n", response.Count)
	for _, r := range response.Rooms {
		result += fmt.Sprintf("- %s %q (%d members)\n", r.Code, r.Name, r.MemberCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	code, _ := args["code"].(string)

	var info room.Info
	err := c.apiCall("GET", fmt.Sprintf("/api/rooms/%s", strings.ToUpper(code)), nil, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoomInfo(&info)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var infos []config.Info

	err := c.apiCall("GET", "/api/configs", nil, &infos)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(infos) == 0 {
		return mcp.NewToolResultText("No configs found."), nil
	}

	result := fmt.Sprintf("Configs (%d):\n\n", len(infos))
	for _, info := range infos {
		result += fmt.Sprintf("- %s: %s (%d gamble rounds)\n", info.ConfigID, info.Name, info.GambleRounds)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)

	var cfg engine.Config
	err := c.apiCall("GET", fmt.Sprintf("/api/configs/%s", name), nil, &cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatConfig(&cfg)), nil
}

func (c *Client) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats struct {
		Clients int `json:"clients"`
		Rooms   int `json:"rooms"`
	}

	err := c.apiCall("GET", "/api/stats", nil, &stats)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Connected clients: %d\nOpen rooms: %d\n", stats.Clients, stats.Rooms)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := `MINIGAME PARTY RULES

REACTION
Everyone waits on a red screen. After a random delay the screen turns
green (GO). Press the button as fast as you can:
- Pressing before GO disqualifies you for the round.
- Fastest valid press wins; everyone is ranked by reaction time.
- The round ends when every player has pressed (or flinched early).

GAMBLE
Played over several rounds. Each round every player secretly picks
A, B, or C before the deadline:
- A pays a fixed amount to everyone who picks it.
- B players split a shared pool; fewer B players means bigger shares.
- C pays double, but only if exactly one player picked it. Two or
  more C players get nothing.
- Missing the deadline scores zero for the round.
Scores accumulate across rounds; highest total wins.

ROOMS
A host creates a room and shares its code. Anyone with the code can
join until a game starts. The host picks the game and can restart the
room back to the lobby afterwards.`

	return mcp.NewToolResultText(rules), nil
}

// Formatters

func formatRoomInfo(info *room.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room %s %q\n", info.Code, info.Name)
	fmt.Fprintf(&b, "Phase: %s\n", info.Phase)
	if info.Variant != "" {
		fmt.Fprintf(&b, "Playing: %s\n", info.Variant)
	}
	fmt.Fprintf(&b, "Members (%d):\n", len(info.Members))
	for _, p := range info.Members {
		marker := ""
		if p.ID == info.HostID {
			marker = " (host)"
		}
		fmt.Fprintf(&b, "- %s%s\n", p.Name, marker)
	}
	return b.String()
}

func formatConfig(cfg *engine.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Config: %s\n", cfg.Name)
	if cfg.Description != "" {
		fmt.Fprintf(&b, "%s\n", cfg.Description)
	}
	fmt.Fprintf(&b, "Room code length: %d\n", cfg.RoomCodeLength)
	fmt.Fprintf(&b, "Max name length: %d\n", cfg.MaxNameLength)
	fmt.Fprintf(&b, "Reaction delay: %d-%dms\n", cfg.ReactionDelayMinMs, cfg.ReactionDelayMaxMs)
	fmt.Fprintf(&b, "Gamble: %d rounds, %dms deadline, unit payout %d\n",
		cfg.GambleRounds, cfg.GambleRoundDeadlineMs, cfg.GambleUnitPayout)
	return b.String()
}
