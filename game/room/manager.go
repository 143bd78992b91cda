package room

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/kyudori/minigame-party/game/engine"
)

// Outbound event names, room-scoped unless noted.
const (
	EventRoomUpdate        = "room_update"
	EventRoomList          = "room_list" // pushed to all connections
	EventGameWaiting       = "game_waiting"
	EventGameGo            = "game_go"
	EventGameResult        = "game_result"
	EventGambleRoundStart  = "gamble_round_start"
	EventGambleRoundResult = "gamble_round_result"
	EventGambleFinal       = "gamble_final"
	EventGameReset         = "game_reset"
)

// Broadcaster pushes events to connected clients. The websocket hub
// implements it; nothing in this package touches the transport directly.
type Broadcaster interface {
	// ToPlayers sends an event to the connections with the given IDs.
	ToPlayers(ids []string, event string, payload interface{})
	// ToAll sends an event to every live connection.
	ToAll(event string, payload interface{})
}

// MembershipUpdate is the room_update payload.
type MembershipUpdate struct {
	Code    string   `json:"code"`
	HostID  string   `json:"host_id"`
	Members []Player `json:"members"`
}

// RankedEntry is one row of the reaction game_result payload.
type RankedEntry struct {
	PlayerID  string                `json:"player_id"`
	Name      string                `json:"name"`
	Status    engine.ReactionStatus `json:"status"`
	ElapsedMs *int64                `json:"elapsed_ms"`
}

// RoundStart is the gamble_round_start payload.
type RoundStart struct {
	Round int `json:"round"`
}

// RoundEntry is one row of the gamble_round_result payload.
type RoundEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Payout   int    `json:"payout"`
	Total    int    `json:"total"`
}

// RoundResult is the gamble_round_result payload.
type RoundResult struct {
	Round  int          `json:"round"`
	Scores []RoundEntry `json:"scores"`
}

// FinalEntry is one row of the gamble_final payload.
type FinalEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// Manager orchestrates the room lifecycle: membership, game start and
// restart, variant timers, and broadcasts. All state mutation funnels
// through its mutex, one action at a time.
type Manager struct {
	mu        sync.Mutex
	store     *Store
	registry  *Registry
	broadcast Broadcaster
	cfg       *engine.Config
	timers    map[string]*time.Timer

	// Overridable for tests.
	now           func() time.Time
	afterFunc     func(time.Duration, func()) *time.Timer
	reactionDelay func() time.Duration
}

// NewManager creates a manager over the given store and registry that
// pushes state through b.
func NewManager(store *Store, registry *Registry, b Broadcaster, cfg *engine.Config) *Manager {
	m := &Manager{
		store:     store,
		registry:  registry,
		broadcast: b,
		cfg:       cfg,
		timers:    make(map[string]*time.Timer),
		now:       time.Now,
		afterFunc: time.AfterFunc,
	}
	m.reactionDelay = func() time.Duration {
		min, max := cfg.ReactionDelayBounds()
		return min + time.Duration(rand.Int64N(int64(max-min)))
	}
	return m
}

// CreateRoom makes a new room with the creator as host and sole member and
// returns its code. Names are validated at the transport boundary.
func (m *Manager) CreateRoom(connID, playerName, roomName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, bound := m.registry.Room(connID); bound {
		return "", ErrAlreadyInRoom
	}

	r := m.store.Create(roomName, Player{ID: connID, Name: playerName})
	m.registry.Bind(connID, r.Code)
	log.Printf("Room %s created by %s (%s)", r.Code, playerName, connID)

	m.broadcastMembershipLocked(r)
	m.pushRoomListLocked()
	return r.Code, nil
}

// JoinRoom appends a player to a lobby room in arrival order.
func (m *Manager) JoinRoom(connID, code, playerName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, bound := m.registry.Room(connID); bound {
		return ErrAlreadyInRoom
	}
	r, ok := m.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}
	if r.Phase != PhaseLobby {
		return ErrRoomStarted
	}

	r.Members = append(r.Members, Player{ID: connID, Name: playerName})
	m.registry.Bind(connID, code)
	log.Printf("Player %s (%s) joined room %s", playerName, connID, code)

	m.broadcastMembershipLocked(r)
	m.pushRoomListLocked()
	return nil
}

// ListRooms returns the discovery snapshot of all live rooms.
func (m *Manager) ListRooms() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Snapshot()
}

// RoomInfo returns the full snapshot of one room.
func (m *Manager) RoomInfo(code string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.store.Get(code)
	if !ok {
		return Info{}, ErrRoomNotFound
	}
	info := Info{
		Code:    r.Code,
		Name:    r.Name,
		HostID:  r.HostID,
		Phase:   r.Phase,
		Members: append([]Player(nil), r.Members...),
	}
	if r.Game != nil {
		info.Variant = string(r.Game.Variant())
	}
	return info, nil
}

// Disconnect removes a departed connection from its room, if it was in
// one. Invoked by the transport when a connection closes.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code, ok := m.registry.Room(connID)
	if !ok {
		return
	}
	m.registry.Unbind(connID)
	m.removeMemberLocked(code, connID)
}

// StartGame transitions a lobby room into a running game of the given
// variant. Silently ignored unless the requester is the host and the room
// is in the lobby; the client resynchronizes from the next broadcast.
func (m *Manager) StartGame(code, requesterID string, variant engine.Variant) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.store.Get(code)
	if !ok || r.HostID != requesterID || r.Phase != PhaseLobby {
		return
	}

	switch variant {
	case engine.VariantReaction:
		r.Generation++
		r.Phase = PhaseInProgress
		g := engine.NewReactionGame()
		r.Game = g
		log.Printf("Room %s: reaction game started", code)

		m.broadcast.ToPlayers(r.MemberIDs(), EventGameWaiting, nil)

		gen := r.Generation
		m.timers[code] = m.afterFunc(m.reactionDelay(), func() {
			m.reactionGo(code, gen)
		})

	case engine.VariantGamble:
		r.Generation++
		r.Phase = PhaseInProgress
		g := engine.NewGambleGame(m.cfg.GambleRounds, m.cfg.GambleUnitPayout)
		r.Game = g
		log.Printf("Room %s: gamble game started (%d rounds)", code, m.cfg.GambleRounds)

		m.broadcast.ToPlayers(r.MemberIDs(), EventGambleRoundStart, RoundStart{Round: g.Round()})
		m.scheduleGambleDeadlineLocked(r, g)
	}
}

// RestartGame discards round state and returns the room to the lobby.
// Host-only; silently ignored otherwise.
func (m *Manager) RestartGame(code, requesterID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.store.Get(code)
	if !ok || r.HostID != requesterID {
		return
	}

	r.Generation++
	m.cancelTimerLocked(code)
	r.Game = nil
	r.Phase = PhaseLobby
	log.Printf("Room %s: game reset", code)

	m.broadcast.ToPlayers(r.MemberIDs(), EventGameReset, nil)
}

// SubmitReaction records a player's button press in a running reaction
// game. Presses from non-members, finished rounds, or duplicate presses
// are silently ignored.
func (m *Manager) SubmitReaction(code, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.store.Get(code)
	if !ok || r.Phase != PhaseInProgress {
		return
	}
	g, ok := r.Game.(*engine.ReactionGame)
	if !ok {
		return
	}
	if _, member := r.Member(playerID); !member {
		return
	}

	if !g.Submit(playerID, m.now()) {
		return
	}
	if g.Covered(r.MemberIDs()) {
		m.finishReactionLocked(r, g)
	}
}

// ChooseSymbol records a player's choice in a running gamble round. The
// round closes early once every member has chosen.
func (m *Manager) ChooseSymbol(code, playerID string, sym engine.Symbol) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.store.Get(code)
	if !ok || r.Phase != PhaseInProgress {
		return
	}
	g, ok := r.Game.(*engine.GambleGame)
	if !ok {
		return
	}
	if _, member := r.Member(playerID); !member {
		return
	}

	if !g.Choose(playerID, sym) {
		return
	}
	if g.Covered(r.MemberIDs()) {
		m.closeGambleRoundLocked(r, g)
	}
}

// reactionGo is the go-signal timer callback. It re-validates the room and
// its generation under the lock; a stale callback is a no-op.
func (m *Manager) reactionGo(code string, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.store.Get(code)
	if !ok || r.Generation != gen {
		return
	}
	g, ok := r.Game.(*engine.ReactionGame)
	if !ok || g.Scored() {
		return
	}

	g.MarkGo(m.now())
	m.broadcast.ToPlayers(r.MemberIDs(), EventGameGo, nil)
}

// gambleDeadline is the round-deadline timer callback. Generation and
// round number are both checked so a deadline from an earlier round never
// closes a later one.
func (m *Manager) gambleDeadline(code string, gen uint64, round int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.store.Get(code)
	if !ok || r.Generation != gen {
		return
	}
	g, ok := r.Game.(*engine.GambleGame)
	if !ok || !g.Open() || g.Round() != round {
		return
	}
	m.closeGambleRoundLocked(r, g)
}

// finishReactionLocked ranks the round, broadcasts the result, and marks
// the room complete. The pending go timer is cancelled for the case where
// every member pressed early.
func (m *Manager) finishReactionLocked(r *Room, g *engine.ReactionGame) {
	m.cancelTimerLocked(r.Code)

	ranked := g.Rank()
	entries := make([]RankedEntry, 0, len(ranked))
	for _, res := range ranked {
		p, ok := r.Member(res.PlayerID)
		if !ok {
			// Departed mid-round; the ranking covers current members.
			continue
		}
		entries = append(entries, RankedEntry{
			PlayerID:  res.PlayerID,
			Name:      p.Name,
			Status:    res.Status,
			ElapsedMs: res.ElapsedMs,
		})
	}

	r.Phase = PhaseComplete
	log.Printf("Room %s: reaction game scored (%d results)", r.Code, len(entries))
	m.broadcast.ToPlayers(r.MemberIDs(), EventGameResult, entries)
}

// closeGambleRoundLocked scores the current round and either opens the
// next one or broadcasts the final ranking after the last round.
func (m *Manager) closeGambleRoundLocked(r *Room, g *engine.GambleGame) {
	m.cancelTimerLocked(r.Code)

	score := g.CloseRound(r.MemberIDs())

	rows := make([]RoundEntry, 0, len(r.Members))
	for _, p := range r.Members {
		rows = append(rows, RoundEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			Payout:   score.Payouts[p.ID],
			Total:    score.Totals[p.ID],
		})
	}
	m.broadcast.ToPlayers(r.MemberIDs(), EventGambleRoundResult, RoundResult{
		Round:  score.Round,
		Scores: rows,
	})

	if g.Done() {
		final := make([]FinalEntry, 0, len(r.Members))
		for _, fs := range g.FinalRanking(r.MemberIDs()) {
			p, _ := r.Member(fs.PlayerID)
			final = append(final, FinalEntry{
				PlayerID: fs.PlayerID,
				Name:     p.Name,
				Score:    fs.Score,
			})
		}
		r.Phase = PhaseComplete
		log.Printf("Room %s: gamble game finished after round %d", r.Code, score.Round)
		m.broadcast.ToPlayers(r.MemberIDs(), EventGambleFinal, final)
		return
	}

	m.broadcast.ToPlayers(r.MemberIDs(), EventGambleRoundStart, RoundStart{Round: g.Round()})
	m.scheduleGambleDeadlineLocked(r, g)
}

// scheduleGambleDeadlineLocked arms the choice deadline for the game's
// current round.
func (m *Manager) scheduleGambleDeadlineLocked(r *Room, g *engine.GambleGame) {
	gen := r.Generation
	round := g.Round()
	m.timers[r.Code] = m.afterFunc(m.cfg.GambleRoundDeadline(), func() {
		m.gambleDeadline(r.Code, gen, round)
	})
}

// removeMemberLocked drops a member, destroys the room when it empties,
// promotes a new host when the host left, and closes any round the
// departure completed.
func (m *Manager) removeMemberLocked(code, playerID string) {
	r, ok := m.store.Get(code)
	if !ok || !r.removeMember(playerID) {
		return
	}

	if len(r.Members) == 0 {
		r.Generation++
		m.cancelTimerLocked(code)
		m.store.Delete(code)
		log.Printf("Room %s destroyed (last member left)", code)
		m.pushRoomListLocked()
		return
	}

	if r.HostID == playerID {
		// Promote the earliest remaining member so host-only actions stay
		// available.
		r.HostID = r.Members[0].ID
		log.Printf("Room %s: host left, promoted %s", code, r.HostID)
	}

	m.broadcastMembershipLocked(r)
	m.pushRoomListLocked()

	// The departed member may have been the last one holding up a round.
	if r.Phase == PhaseInProgress {
		switch g := r.Game.(type) {
		case *engine.ReactionGame:
			if !g.Scored() && g.Covered(r.MemberIDs()) {
				m.finishReactionLocked(r, g)
			}
		case *engine.GambleGame:
			if g.Open() && g.Covered(r.MemberIDs()) {
				m.closeGambleRoundLocked(r, g)
			}
		}
	}
}

func (m *Manager) broadcastMembershipLocked(r *Room) {
	m.broadcast.ToPlayers(r.MemberIDs(), EventRoomUpdate, MembershipUpdate{
		Code:    r.Code,
		HostID:  r.HostID,
		Members: append([]Player(nil), r.Members...),
	})
}

func (m *Manager) pushRoomListLocked() {
	m.broadcast.ToAll(EventRoomList, m.store.Snapshot())
}

func (m *Manager) cancelTimerLocked(code string) {
	if t, ok := m.timers[code]; ok {
		t.Stop()
		delete(m.timers, code)
	}
}
