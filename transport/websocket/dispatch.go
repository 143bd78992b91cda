package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/kyudori/minigame-party/game/engine"
	"github.com/kyudori/minigame-party/game/room"
	"github.com/kyudori/minigame-party/validate"
)

// dispatch routes one inbound message to the room manager. Malformed or
// unknown messages are logged and dropped; game actions on rooms the
// client is not part of are ignored by the manager itself.
func (h *Hub) dispatch(c *Client, raw []byte) {
	var act Action
	if err := json.Unmarshal(raw, &act); err != nil {
		log.Printf("Client %s sent invalid JSON: %v", c.id, err)
		return
	}

	switch act.Action {
	case ActionCreateRoom:
		h.handleCreateRoom(c, act)
	case ActionJoinRoom:
		h.handleJoinRoom(c, act)
	case ActionListRooms:
		c.sendEvent(room.EventRoomList, h.manager.ListRooms())
	case ActionStartGame:
		variant, ok := engine.ParseVariant(act.Variant)
		if !ok {
			log.Printf("Client %s requested unknown variant %q", c.id, act.Variant)
			return
		}
		h.manager.StartGame(roomCode(act), c.id, variant)
	case ActionRestartGame:
		h.manager.RestartGame(roomCode(act), c.id)
	case ActionClickButton:
		h.manager.SubmitReaction(roomCode(act), c.id)
	case ActionGambleChoose:
		sym, ok := engine.ParseSymbol(act.Symbol)
		if !ok {
			log.Printf("Client %s sent unknown symbol %q", c.id, act.Symbol)
			return
		}
		h.manager.ChooseSymbol(roomCode(act), c.id, sym)
	default:
		log.Printf("Client %s sent unknown action %q", c.id, act.Action)
	}
}

func (h *Hub) handleCreateRoom(c *Client, act Action) {
	playerName, err := validate.PlayerName(act.Name, h.cfg.MaxNameLength)
	if err != nil {
		c.sendEvent(EventCreateRoomResult, CreateRoomResult{Message: err.Error()})
		return
	}
	roomName, err := validate.RoomName(act.RoomName, playerName, h.cfg.MaxNameLength)
	if err != nil {
		c.sendEvent(EventCreateRoomResult, CreateRoomResult{Message: err.Error()})
		return
	}

	code, err := h.manager.CreateRoom(c.id, playerName, roomName)
	if err != nil {
		c.sendEvent(EventCreateRoomResult, CreateRoomResult{Message: actionError(err)})
		return
	}
	c.sendEvent(EventCreateRoomResult, CreateRoomResult{Success: true, Code: code})
}

func (h *Hub) handleJoinRoom(c *Client, act Action) {
	playerName, err := validate.PlayerName(act.Name, h.cfg.MaxNameLength)
	if err != nil {
		c.sendEvent(EventJoinRoomResult, JoinRoomResult{Message: err.Error()})
		return
	}

	if err := h.manager.JoinRoom(c.id, roomCode(act), playerName); err != nil {
		c.sendEvent(EventJoinRoomResult, JoinRoomResult{Message: actionError(err)})
		return
	}
	c.sendEvent(EventJoinRoomResult, JoinRoomResult{Success: true})
}

// roomCode normalizes the client-supplied code to the uppercase form the
// store generates.
func roomCode(act Action) string {
	return strings.ToUpper(strings.TrimSpace(act.Code))
}

// actionError maps store errors to the short messages the client UI
// displays.
func actionError(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, room.ErrRoomStarted):
		return "game already started"
	case errors.Is(err, room.ErrAlreadyInRoom):
		return "already in a room"
	default:
		return err.Error()
	}
}
