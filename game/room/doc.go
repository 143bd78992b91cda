// Package room provides room lifecycle management for the mini-game server.
//
// The room package implements:
//   - The Room entity: code, name, host, ordered member list, phase
//   - The Store: the single owned table of live rooms keyed by code
//   - The Registry: which room, if any, each live connection belongs to
//   - The Manager: join/leave orchestration, game start/restart, variant
//     timers, and broadcasting
//
// Core Types:
//
// Manager is the entry point for every inbound action. It validates room,
// host, and membership preconditions, delegates to the active game engine,
// and pushes resulting state to the room through a Broadcaster.
//
// Room Codes:
//
// Rooms use short uppercase alphanumeric codes for easy sharing. The store
// guarantees codes are unique among live rooms and retries generation on
// collision using cryptographic randomness.
//
// Concurrency:
//
// A single mutex inside the Manager serializes all room mutation, so one
// inbound action or timer callback runs at a time. Timer callbacks capture
// the room's generation counter and re-validate it under the lock before
// touching state; a callback that fires against a torn-down or restarted
// room is a guaranteed no-op.
//
// Usage:
//
//	store := room.NewStore(6)
//	mgr := room.NewManager(store, room.NewRegistry(), broadcaster, cfg)
//
//	code, err := mgr.CreateRoom(connID, "kim", "friday night")
//	if err != nil {
//		log.Fatal(err)
//	}
//	mgr.StartGame(code, connID, engine.VariantReaction)
package room
