package websocket

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/kyudori/minigame-party/game/engine"
	"github.com/kyudori/minigame-party/game/room"
)

// envelope mirrors Event with the payload left raw for per-test decoding.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	cfg := engine.DefaultConfig()
	hub := NewHub()
	store := room.NewStore(cfg.RoomCodeLength)
	mgr := room.NewManager(store, room.NewRegistry(), hub, cfg)
	hub.Attach(mgr, cfg)
	return hub
}

// newTestClient registers a client without a network connection. Only the
// send channel is exercised by dispatch and broadcast paths.
func newTestClient(hub *Hub, id string) *Client {
	c := &Client{
		hub:  hub,
		send: make(chan []byte, 256),
		id:   id,
	}
	hub.addClient(c)
	return c
}

func drainEvents(t *testing.T, c *Client) []envelope {
	t.Helper()
	var events []envelope
	for {
		select {
		case raw := <-c.send:
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("Failed to decode event %s: %v", raw, err)
			}
			events = append(events, env)
		default:
			return events
		}
	}
}

func findEvent(events []envelope, name string) (envelope, bool) {
	for _, env := range events {
		if env.Event == name {
			return env, true
		}
	}
	return envelope{}, false
}

func mustAction(t *testing.T, act Action) []byte {
	t.Helper()
	raw, err := json.Marshal(act)
	if err != nil {
		t.Fatalf("Failed to marshal action: %v", err)
	}
	return raw
}

// createRoom drives the full create flow and returns the new room's code.
func createRoom(t *testing.T, hub *Hub, c *Client, name string) string {
	t.Helper()
	hub.dispatch(c, mustAction(t, Action{Action: ActionCreateRoom, Name: name}))

	env, ok := findEvent(drainEvents(t, c), EventCreateRoomResult)
	if !ok {
		t.Fatal("Expected create_room_result event")
	}
	var ack CreateRoomResult
	if err := json.Unmarshal(env.Data, &ack); err != nil {
		t.Fatalf("Failed to decode ack: %v", err)
	}
	if !ack.Success {
		t.Fatalf("Expected successful create, got message %q", ack.Message)
	}
	return ack.Code
}

func TestCreateRoomAction(t *testing.T) {
	hub := newTestHub(t)
	c := newTestClient(hub, "host")

	t.Run("successful create", func(t *testing.T) {
		hub.dispatch(c, mustAction(t, Action{Action: ActionCreateRoom, Name: "alice"}))
		events := drainEvents(t, c)

		env, ok := findEvent(events, EventCreateRoomResult)
		if !ok {
			t.Fatal("Expected create_room_result event")
		}
		var ack CreateRoomResult
		if err := json.Unmarshal(env.Data, &ack); err != nil {
			t.Fatalf("Failed to decode ack: %v", err)
		}
		if !ack.Success {
			t.Fatalf("Expected success, got message %q", ack.Message)
		}
		if len(ack.Code) != 6 {
			t.Errorf("Expected 6-character room code, got %q", ack.Code)
		}

		if _, ok := findEvent(events, room.EventRoomUpdate); !ok {
			t.Error("Expected room_update broadcast to the creator")
		}
		if _, ok := findEvent(events, room.EventRoomList); !ok {
			t.Error("Expected room_list push")
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		c2 := newTestClient(hub, "c2")
		hub.dispatch(c2, mustAction(t, Action{Action: ActionCreateRoom, Name: "   "}))

		env, ok := findEvent(drainEvents(t, c2), EventCreateRoomResult)
		if !ok {
			t.Fatal("Expected create_room_result event")
		}
		var ack CreateRoomResult
		if err := json.Unmarshal(env.Data, &ack); err != nil {
			t.Fatalf("Failed to decode ack: %v", err)
		}
		if ack.Success {
			t.Error("Expected rejection for blank name")
		}
		if ack.Message == "" {
			t.Error("Expected an error message")
		}
	})
}

func TestJoinRoomAction(t *testing.T) {
	hub := newTestHub(t)
	host := newTestClient(hub, "host")
	code := createRoom(t, hub, host, "alice")

	t.Run("unknown code", func(t *testing.T) {
		c := newTestClient(hub, "stray")
		hub.dispatch(c, mustAction(t, Action{Action: ActionJoinRoom, Name: "bob", Code: "ZZZZZZ"}))

		env, ok := findEvent(drainEvents(t, c), EventJoinRoomResult)
		if !ok {
			t.Fatal("Expected join_room_result event")
		}
		var ack JoinRoomResult
		if err := json.Unmarshal(env.Data, &ack); err != nil {
			t.Fatalf("Failed to decode ack: %v", err)
		}
		if ack.Success {
			t.Error("Expected join to fail")
		}
		if ack.Message != "room not found" {
			t.Errorf("Expected %q, got %q", "room not found", ack.Message)
		}
	})

	t.Run("lowercase code is normalized", func(t *testing.T) {
		c := newTestClient(hub, "joiner")
		hub.dispatch(c, mustAction(t, Action{Action: ActionJoinRoom, Name: "bob", Code: " " + strings.ToLower(code) + " "}))

		events := drainEvents(t, c)
		env, ok := findEvent(events, EventJoinRoomResult)
		if !ok {
			t.Fatal("Expected join_room_result event")
		}
		var ack JoinRoomResult
		if err := json.Unmarshal(env.Data, &ack); err != nil {
			t.Fatalf("Failed to decode ack: %v", err)
		}
		if !ack.Success {
			t.Fatalf("Expected join to succeed, got %q", ack.Message)
		}

		// The host sees the membership change too.
		if _, ok := findEvent(drainEvents(t, host), room.EventRoomUpdate); !ok {
			t.Error("Expected room_update for existing members")
		}
	})
}

func TestDispatchIgnoresGarbage(t *testing.T) {
	hub := newTestHub(t)
	c := newTestClient(hub, "c1")

	hub.dispatch(c, []byte("not json"))
	hub.dispatch(c, mustAction(t, Action{Action: "teleport"}))
	hub.dispatch(c, mustAction(t, Action{Action: ActionStartGame, Code: "ABCDEF", Variant: "chess"}))
	hub.dispatch(c, mustAction(t, Action{Action: ActionGambleChoose, Code: "ABCDEF", Symbol: "X"}))
	hub.dispatch(c, mustAction(t, Action{Action: ActionClickButton, Code: "ABCDEF"}))

	if events := drainEvents(t, c); len(events) != 0 {
		t.Errorf("Expected no events, got %d", len(events))
	}
}

func TestStartGameThroughDispatch(t *testing.T) {
	hub := newTestHub(t)
	host := newTestClient(hub, "host")
	code := createRoom(t, hub, host, "alice")

	hub.dispatch(host, mustAction(t, Action{Action: ActionStartGame, Code: code, Variant: "reaction"}))

	if _, ok := findEvent(drainEvents(t, host), room.EventGameWaiting); !ok {
		t.Error("Expected game_waiting after start_game")
	}
}

func TestListRoomsAction(t *testing.T) {
	hub := newTestHub(t)
	host := newTestClient(hub, "host")
	createRoom(t, hub, host, "alice")

	c := newTestClient(hub, "observer")
	hub.dispatch(c, mustAction(t, Action{Action: ActionListRooms}))

	env, ok := findEvent(drainEvents(t, c), room.EventRoomList)
	if !ok {
		t.Fatal("Expected room_list event")
	}
	var rooms []room.Summary
	if err := json.Unmarshal(env.Data, &rooms); err != nil {
		t.Fatalf("Failed to decode room list: %v", err)
	}
	if len(rooms) != 1 {
		t.Errorf("Expected 1 room, got %d", len(rooms))
	}
}

func TestToPlayersTargetsOnlyListed(t *testing.T) {
	hub := newTestHub(t)
	c1 := newTestClient(hub, "c1")
	c2 := newTestClient(hub, "c2")

	hub.ToPlayers([]string{"c1", "missing"}, "ping", nil)

	if len(drainEvents(t, c1)) != 1 {
		t.Error("Expected c1 to receive the event")
	}
	if len(drainEvents(t, c2)) != 0 {
		t.Error("Expected c2 to receive nothing")
	}

	hub.ToAll("ping", nil)
	if len(drainEvents(t, c1)) != 1 || len(drainEvents(t, c2)) != 1 {
		t.Error("Expected both clients to receive ToAll events")
	}
}

func TestServeWSGreeting(t *testing.T) {
	hub := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read greeting: %v", err)
	}

	// The write pump may batch connected and room_list into one message.
	first := bytes.SplitN(raw, []byte{'\n'}, 2)[0]
	var env envelope
	if err := json.Unmarshal(first, &env); err != nil {
		t.Fatalf("Failed to decode greeting %s: %v", first, err)
	}
	if env.Event != EventConnected {
		t.Fatalf("Expected connected as first event, got %q", env.Event)
	}

	var payload Connected
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("Failed to decode connected payload: %v", err)
	}
	if payload.ID == "" {
		t.Error("Expected a connection ID in the greeting")
	}
}

func TestServeWSImmediateDisconnect(t *testing.T) {
	hub := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	// A peer that drops before the greeting is delivered must not crash
	// the process; the pump exit path closes the send channel only after
	// the greeting has been queued.
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	for i := 0; i < 20; i++ {
		conn, _, err := gws.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("Failed to dial: %v", err)
		}
		conn.Close()
	}

	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected all clients to be removed, %d remain", hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRemoveClientIsIdempotent(t *testing.T) {
	hub := newTestHub(t)
	c := newTestClient(hub, "c1")

	hub.removeClient(c)
	hub.removeClient(c)

	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.ClientCount())
	}
}
