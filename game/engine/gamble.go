package engine

import "sort"

// RoundScore is the outcome of one scored Gamble round.
type RoundScore struct {
	Round   int            `json:"round"`
	Payouts map[string]int `json:"payouts"`
	Totals  map[string]int `json:"totals"`
}

// FinalScore is one entry of the final Gamble ranking.
type FinalScore struct {
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
}

// GambleGame runs the multi-round simultaneous-choice mini-game. Each round
// every member picks one of three symbols; payouts depend on what everyone
// else picked:
//
//   - A pays the fixed unit.
//   - B choosers evenly split unit * floor(memberCount/2).
//   - C pays 2 * unit, but only to a sole C chooser; two or more C choosers
//     all get nothing.
//
// Members who never choose in a round earn 0 for it.
type GambleGame struct {
	rounds  int
	unit    int
	round   int
	open    bool
	choices map[string]Symbol
	totals  map[string]int
}

// NewGambleGame creates a game with round 1 open.
func NewGambleGame(rounds, unit int) *GambleGame {
	return &GambleGame{
		rounds:  rounds,
		unit:    unit,
		round:   1,
		open:    true,
		choices: make(map[string]Symbol),
		totals:  make(map[string]int),
	}
}

// Variant implements Game.
func (g *GambleGame) Variant() Variant { return VariantGamble }

// Round returns the current round number, 1-based.
func (g *GambleGame) Round() int { return g.round }

// Open reports whether the current round is still accepting choices.
func (g *GambleGame) Open() bool { return g.open }

// Done reports whether all rounds have been scored.
func (g *GambleGame) Done() bool { return !g.open && g.round == g.rounds }

// Choose records a player's symbol for the current round. Returns false
// when the round is closed or the player already chose, in which case
// nothing changes.
func (g *GambleGame) Choose(playerID string, sym Symbol) bool {
	if !g.open {
		return false
	}
	if _, dup := g.choices[playerID]; dup {
		return false
	}
	g.choices[playerID] = sym
	return true
}

// Covered reports whether every given member has chosen this round.
func (g *GambleGame) Covered(memberIDs []string) bool {
	for _, id := range memberIDs {
		if _, ok := g.choices[id]; !ok {
			return false
		}
	}
	return len(memberIDs) > 0
}

// CloseRound scores the current round against the given members and
// accumulates totals. Members without a recorded choice earn 0. If rounds
// remain, the next round opens; otherwise the game is done. Choices from
// players no longer in memberIDs are discarded without payout.
func (g *GambleGame) CloseRound(memberIDs []string) RoundScore {
	countB, countC := 0, 0
	for _, id := range memberIDs {
		switch g.choices[id] {
		case SymbolB:
			countB++
		case SymbolC:
			countC++
		}
	}

	poolB := g.unit * (len(memberIDs) / 2)

	payouts := make(map[string]int, len(memberIDs))
	for _, id := range memberIDs {
		pay := 0
		switch g.choices[id] {
		case SymbolA:
			pay = g.unit
		case SymbolB:
			pay = poolB / countB
		case SymbolC:
			if countC == 1 {
				pay = 2 * g.unit
			}
		}
		payouts[id] = pay
		g.totals[id] += pay
	}

	score := RoundScore{
		Round:   g.round,
		Payouts: payouts,
		Totals:  g.TotalScores(),
	}

	g.choices = make(map[string]Symbol)
	if g.round < g.rounds {
		g.round++
	} else {
		g.open = false
	}
	return score
}

// TotalScores returns a copy of the cumulative scores.
func (g *GambleGame) TotalScores() map[string]int {
	totals := make(map[string]int, len(g.totals))
	for id, v := range g.totals {
		totals[id] = v
	}
	return totals
}

// FinalRanking returns cumulative scores for the given members sorted
// descending. The sort is stable over memberOrder, so ties keep original
// join order.
func (g *GambleGame) FinalRanking(memberOrder []string) []FinalScore {
	ranked := make([]FinalScore, 0, len(memberOrder))
	for _, id := range memberOrder {
		ranked = append(ranked, FinalScore{PlayerID: id, Score: g.totals[id]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
