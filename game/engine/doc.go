// Package engine implements the per-room mini-game state machines.
//
// The engine package implements:
//   - The Reaction game: a single random-delay "go" signal and a race to
//     press the button, with disqualification for early presses
//   - The Gamble game: five rounds of simultaneous symbol choices with a
//     payout rule that rewards uncontested picks
//   - Tuning configuration shared by both variants
//
// Architecture:
//
// Each variant is a plain state machine with no goroutines, timers, or
// clocks of its own. Callers pass the current time into any operation that
// needs one and own all scheduling, which keeps round outcomes independent
// of how concurrent submissions happen to interleave. A room holds exactly
// one active Game at a time; the concrete type (ReactionGame or GambleGame)
// identifies the variant.
//
// Idempotence:
//
// Per-player writes are accepted at most once per round. A duplicate
// submission or choice never changes recorded state after the first
// accepted one.
//
// Usage:
//
//	g := engine.NewReactionGame()
//	g.MarkGo(time.Now())
//	g.Submit("player-1", time.Now())
//	if g.Covered(memberIDs) {
//		ranked := g.Rank()
//	}
package engine
