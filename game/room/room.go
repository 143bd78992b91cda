package room

import (
	"github.com/kyudori/minigame-party/game/engine"
)

// Phase is a room's coarse state machine position.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseInProgress Phase = "in_progress"
	PhaseComplete   Phase = "complete"
)

// Player is a transient identity scoped to one room membership. The ID is
// the opaque connection ID assigned at connect time.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room is an isolated multiplayer session. Members keep insertion order;
// the room owns its game state exclusively and is destroyed the moment the
// member list becomes empty.
type Room struct {
	Code    string
	Name    string
	HostID  string
	Members []Player
	Phase   Phase

	// Game holds the active variant state, nil while in the lobby.
	Game engine.Game

	// Generation is bumped on every start, restart, and teardown. Timer
	// callbacks capture it and no-op on mismatch.
	Generation uint64
}

// Member returns the member with the given ID.
func (r *Room) Member(id string) (Player, bool) {
	for _, p := range r.Members {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// MemberIDs returns the member IDs in join order.
func (r *Room) MemberIDs() []string {
	ids := make([]string, len(r.Members))
	for i, p := range r.Members {
		ids[i] = p.ID
	}
	return ids
}

// removeMember drops the member with the given ID, preserving order.
func (r *Room) removeMember(id string) bool {
	for i, p := range r.Members {
		if p.ID == id {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Summary is the discovery snapshot entry for one room.
type Summary struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}

// Info is the full read-only snapshot of one room, served over the REST
// API.
type Info struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	HostID  string   `json:"host_id"`
	Phase   Phase    `json:"phase"`
	Members []Player `json:"members"`
	Variant string   `json:"variant,omitempty"`
}
