package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/kyudori/minigame-party/transport/websocket"
)

var upgrader = gws.Upgrader{}

// scriptedServer upgrades one connection and hands it to the script.
func scriptedServer(t *testing.T, script func(*gws.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		script(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func event(name string, data interface{}) websocket.Event {
	return websocket.Event{Event: name, Data: data}
}

func TestCreateRoomSkipsUnrelatedEvents(t *testing.T) {
	url := scriptedServer(t, func(conn *gws.Conn) {
		var act websocket.Action
		if err := conn.ReadJSON(&act); err != nil {
			t.Errorf("Failed to read action: %v", err)
			return
		}
		if act.Action != websocket.ActionCreateRoom {
			t.Errorf("Expected create_room, got %q", act.Action)
		}

		// Interleave the pushes a real server sends before the ack
		conn.WriteJSON(event("room_update", nil))
		conn.WriteJSON(event("room_list", nil))
		conn.WriteJSON(event(websocket.EventCreateRoomResult, websocket.CreateRoomResult{Success: true, Code: "ABC123"}))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b, err := dial(ctx, url, "bot-1")
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer b.close()

	code, err := b.createRoom(ctx)
	if err != nil {
		t.Fatalf("createRoom failed: %v", err)
	}
	if code != "ABC123" {
		t.Errorf("Expected code ABC123, got %q", code)
	}
}

func TestBatchedEventsAllDecoded(t *testing.T) {
	url := scriptedServer(t, func(conn *gws.Conn) {
		var act websocket.Action
		if err := conn.ReadJSON(&act); err != nil {
			return
		}

		// The server's write pump batches queued events into one message
		// joined by newlines; the ack can land in the batch tail.
		update, _ := json.Marshal(event("room_update", nil))
		ack, _ := json.Marshal(event(websocket.EventCreateRoomResult, websocket.CreateRoomResult{Success: true, Code: "QRS789"}))
		batch := append(append(update, '\n'), ack...)
		conn.WriteMessage(gws.TextMessage, batch)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b, err := dial(ctx, url, "bot-1")
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer b.close()

	code, err := b.createRoom(ctx)
	if err != nil {
		t.Fatalf("createRoom failed: %v", err)
	}
	if code != "QRS789" {
		t.Errorf("Expected code QRS789, got %q", code)
	}
}

func TestJoinRoomRefused(t *testing.T) {
	url := scriptedServer(t, func(conn *gws.Conn) {
		var act websocket.Action
		if err := conn.ReadJSON(&act); err != nil {
			return
		}
		conn.WriteJSON(event(websocket.EventJoinRoomResult, websocket.JoinRoomResult{Message: "room not found"}))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b, err := dial(ctx, url, "bot-1")
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer b.close()

	err = b.joinRoom(ctx, "ZZZZZZ")
	if err == nil {
		t.Fatal("Expected join to fail")
	}
	if !strings.Contains(err.Error(), "room not found") {
		t.Errorf("Expected refusal message, got: %v", err)
	}
}
