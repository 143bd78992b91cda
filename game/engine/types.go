package engine

// Variant identifies one of the pluggable mini-game rule sets.
type Variant string

const (
	VariantReaction Variant = "reaction"
	VariantGamble   Variant = "gamble"
)

// ParseVariant maps a wire string to a known variant.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantReaction:
		return VariantReaction, true
	case VariantGamble:
		return VariantGamble, true
	}
	return "", false
}

// Game is the round state a room owns while a game is active. Exactly one
// concrete type exists per variant; callers type-switch on it to handle
// variant-specific actions exhaustively.
type Game interface {
	Variant() Variant
}

// Symbol is one of the three choices in the Gamble game.
type Symbol string

const (
	SymbolA Symbol = "A"
	SymbolB Symbol = "B"
	SymbolC Symbol = "C"
)

// ParseSymbol maps a wire string to a known symbol.
func ParseSymbol(s string) (Symbol, bool) {
	switch Symbol(s) {
	case SymbolA:
		return SymbolA, true
	case SymbolB:
		return SymbolB, true
	case SymbolC:
		return SymbolC, true
	}
	return "", false
}
