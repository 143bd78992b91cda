// Package websocket provides the WebSocket transport for the mini-game
// server.
//
// The websocket package implements:
//   - Real-time bidirectional communication
//   - Transient connection identity (one UUID per connection)
//   - Inbound action parsing and dispatch to the room manager
//   - Targeted and global broadcasts
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub tracks all
// live connections by their connection ID. Each connection is handled by a
// dedicated pair of goroutines for reading and writing. The hub implements
// the room package's Broadcaster interface, so game code addresses players
// by ID and never touches a socket.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - Incoming: {"action": "join_room", "code": "A1B2C3", "name": "kim"}
//   - Outgoing: {"event": "game_go", "data": ...}
//
// Create and join actions receive a direct acknowledgement event; all
// other actions are fire-and-forget and clients resynchronize from room
// broadcasts.
//
// Connection Lifecycle:
//
// 1. Client connects and is assigned a connection ID
// 2. The ID and a room listing are sent immediately
// 3. Client sends actions, receives acks and room broadcasts
// 4. Disconnection removes the player from its room via the manager
//
// Concurrency:
//
// The hub guards its connection table with a mutex. Sends into a slow
// client's buffer are dropped rather than blocking the sender, matching
// the server's broadcast-ordering guarantee without back-pressure on game
// logic.
package websocket
