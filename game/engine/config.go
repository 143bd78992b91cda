package engine

import (
	"fmt"
	"time"
)

// Config is the tuning for both game variants and room bookkeeping. It is
// loaded from JSON by the config manager; zero values are rejected so a
// partially filled file fails loudly instead of producing degenerate games.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RoomCodeLength int `json:"room_code_length"`
	MaxNameLength  int `json:"max_name_length"`

	// Reaction: the go signal fires after a uniformly random delay in
	// [ReactionDelayMinMs, ReactionDelayMaxMs).
	ReactionDelayMinMs int `json:"reaction_delay_min_ms"`
	ReactionDelayMaxMs int `json:"reaction_delay_max_ms"`

	// Gamble: rounds per game, per-round choice deadline, and the unit
	// payout for symbol A.
	GambleRounds          int `json:"gamble_rounds"`
	GambleRoundDeadlineMs int `json:"gamble_round_deadline_ms"`
	GambleUnitPayout      int `json:"gamble_unit_payout"`
}

// DefaultConfig returns the built-in tuning used when no config file is
// available.
func DefaultConfig() *Config {
	return &Config{
		Name:                  "default",
		Description:           "Built-in default tuning",
		RoomCodeLength:        6,
		MaxNameLength:         20,
		ReactionDelayMinMs:    1000,
		ReactionDelayMaxMs:    11000,
		GambleRounds:          5,
		GambleRoundDeadlineMs: 15000,
		GambleUnitPayout:      5,
	}
}

// ValidateConfig checks a tuning config for values the engines cannot run
// with.
func ValidateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if c.Name == "" {
		return fmt.Errorf("config name is required")
	}
	if c.RoomCodeLength < 4 {
		return fmt.Errorf("room_code_length must be at least 4, got %d", c.RoomCodeLength)
	}
	if c.MaxNameLength < 1 {
		return fmt.Errorf("max_name_length must be positive, got %d", c.MaxNameLength)
	}
	if c.ReactionDelayMinMs < 0 {
		return fmt.Errorf("reaction_delay_min_ms must not be negative, got %d", c.ReactionDelayMinMs)
	}
	if c.ReactionDelayMaxMs <= c.ReactionDelayMinMs {
		return fmt.Errorf("reaction_delay_max_ms (%d) must exceed reaction_delay_min_ms (%d)",
			c.ReactionDelayMaxMs, c.ReactionDelayMinMs)
	}
	if c.GambleRounds < 1 {
		return fmt.Errorf("gamble_rounds must be positive, got %d", c.GambleRounds)
	}
	if c.GambleRoundDeadlineMs < 1 {
		return fmt.Errorf("gamble_round_deadline_ms must be positive, got %d", c.GambleRoundDeadlineMs)
	}
	if c.GambleUnitPayout < 1 {
		return fmt.Errorf("gamble_unit_payout must be positive, got %d", c.GambleUnitPayout)
	}
	return nil
}

// GambleRoundDeadline returns the per-round deadline as a duration.
func (c *Config) GambleRoundDeadline() time.Duration {
	return time.Duration(c.GambleRoundDeadlineMs) * time.Millisecond
}

// ReactionDelayBounds returns the go-signal delay bounds as durations.
func (c *Config) ReactionDelayBounds() (min, max time.Duration) {
	return time.Duration(c.ReactionDelayMinMs) * time.Millisecond,
		time.Duration(c.ReactionDelayMaxMs) * time.Millisecond
}
