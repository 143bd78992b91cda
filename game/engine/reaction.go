package engine

import (
	"sort"
	"time"
)

// ReactionStatus classifies a single player's press.
type ReactionStatus string

const (
	StatusSuccess      ReactionStatus = "success"
	StatusDisqualified ReactionStatus = "disqualified"
)

// ReactionResult is one player's recorded press. ElapsedMs is nil for
// disqualified presses, which have no meaningful reaction time.
type ReactionResult struct {
	PlayerID  string         `json:"player_id"`
	Status    ReactionStatus `json:"status"`
	ElapsedMs *int64         `json:"elapsed_ms"`
}

// ReactionGame runs one round of the reaction mini-game: wait for the go
// signal, then press as fast as possible. Presses before the signal are
// disqualified.
type ReactionGame struct {
	readyAt   time.Time // zero until the go signal fires
	results   []ReactionResult
	submitted map[string]bool
	scored    bool
}

// NewReactionGame creates a round in the waiting state.
func NewReactionGame() *ReactionGame {
	return &ReactionGame{
		submitted: make(map[string]bool),
	}
}

// Variant implements Game.
func (g *ReactionGame) Variant() Variant { return VariantReaction }

// MarkGo records the instant the go signal was emitted. Later submissions
// are timed against it. Calling it twice keeps the first instant.
func (g *ReactionGame) MarkGo(now time.Time) {
	if g.readyAt.IsZero() {
		g.readyAt = now
	}
}

// GoSignaled reports whether the go signal has fired.
func (g *ReactionGame) GoSignaled() bool { return !g.readyAt.IsZero() }

// Scored reports whether the round has been ranked and closed.
func (g *ReactionGame) Scored() bool { return g.scored }

// Submit records one player's press. A press before the go signal is
// recorded as disqualified with no elapsed time; otherwise the elapsed
// time against the signal is recorded. Returns false when the press is a
// duplicate or the round is already scored, in which case nothing changes.
func (g *ReactionGame) Submit(playerID string, now time.Time) bool {
	if g.scored || g.submitted[playerID] {
		return false
	}
	g.submitted[playerID] = true

	if g.readyAt.IsZero() {
		g.results = append(g.results, ReactionResult{
			PlayerID: playerID,
			Status:   StatusDisqualified,
		})
		return true
	}

	elapsed := now.Sub(g.readyAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	g.results = append(g.results, ReactionResult{
		PlayerID:  playerID,
		Status:    StatusSuccess,
		ElapsedMs: &elapsed,
	})
	return true
}

// Covered reports whether every given member has a recorded press.
func (g *ReactionGame) Covered(memberIDs []string) bool {
	for _, id := range memberIDs {
		if !g.submitted[id] {
			return false
		}
	}
	return len(memberIDs) > 0
}

// Rank closes the round and returns the final ranking: successful presses
// ascending by elapsed time, then all disqualified presses. The sort is
// stable, so ties and disqualifications keep submission arrival order.
func (g *ReactionGame) Rank() []ReactionResult {
	g.scored = true

	ranked := make([]ReactionResult, len(g.results))
	copy(ranked, g.results)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Status != b.Status {
			return a.Status == StatusSuccess
		}
		if a.Status == StatusDisqualified {
			return false
		}
		return *a.ElapsedMs < *b.ElapsedMs
	})

	return ranked
}
