// Package api provides the HTTP surface of the server: a small REST API
// for observing rooms, configuration management, the WebSocket upgrade
// endpoint, and static file serving for the web client.
//
// Gameplay itself happens over the WebSocket connection; the REST API is
// a read-mostly companion used by dashboards, the MCP transport, and
// operators poking at a running server.
//
// Endpoints:
//
// Rooms (read only):
//   - GET /api/rooms - List open and running rooms
//   - GET /api/rooms/{code} - Get one room's membership and phase
//
// Configuration:
//   - GET /api/configs - List available tuning configs
//   - GET /api/configs/{name} - Get a specific config
//   - POST /api/configs - Save a new tuning config
//
// Operations:
//   - GET /api/health - Liveness probe
//   - GET /api/stats - Connection and room counts
//
// WebSocket:
//   - GET /ws - Upgrade to the gameplay connection
//
// All endpoints return JSON. Errors are returned as JSON with an
// appropriate HTTP status code:
//
//	{
//	  "error": "error message"
//	}
package api
