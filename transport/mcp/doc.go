// Package mcp exposes the server's observation surface as MCP (Model
// Context Protocol) tools, so AI assistants can inspect a running server.
//
// The package implements a thin client over the REST API rather than
// touching game state directly: every tool call becomes an HTTP request
// to the same endpoints dashboards use, which keeps the MCP surface in
// lockstep with the public API.
//
// Tools:
//   - list_rooms: List open and running rooms
//   - get_room: Get one room's membership and phase
//   - list_configs: List available tuning configs
//   - get_config: Get a specific tuning config
//   - server_stats: Connection and room counts
//   - game_rules: The rules of both mini games
//
// Gameplay is deliberately not exposed. Playing requires a live
// WebSocket connection with reaction timing, which does not fit the MCP
// request/response model.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
