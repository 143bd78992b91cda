package engine

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.ReactionDelayMinMs != 1000 || cfg.ReactionDelayMaxMs != 11000 {
		t.Errorf("Unexpected reaction delay bounds: [%d, %d)",
			cfg.ReactionDelayMinMs, cfg.ReactionDelayMaxMs)
	}
	if cfg.GambleRounds != 5 {
		t.Errorf("Expected 5 gamble rounds, got %d", cfg.GambleRounds)
	}
	if cfg.GambleRoundDeadline() != 15*time.Second {
		t.Errorf("Expected 15s round deadline, got %v", cfg.GambleRoundDeadline())
	}
	if cfg.GambleUnitPayout != 5 {
		t.Errorf("Expected unit payout 5, got %d", cfg.GambleUnitPayout)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"missing name", func(c *Config) { c.Name = "" }, true},
		{"short room code", func(c *Config) { c.RoomCodeLength = 3 }, true},
		{"zero name length", func(c *Config) { c.MaxNameLength = 0 }, true},
		{"negative min delay", func(c *Config) { c.ReactionDelayMinMs = -1 }, true},
		{"max delay not above min", func(c *Config) { c.ReactionDelayMaxMs = c.ReactionDelayMinMs }, true},
		{"zero rounds", func(c *Config) { c.GambleRounds = 0 }, true},
		{"zero deadline", func(c *Config) { c.GambleRoundDeadlineMs = 0 }, true},
		{"zero payout", func(c *Config) { c.GambleUnitPayout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected valid config, got error: %v", err)
			}
		})
	}

	if err := ValidateConfig(nil); err == nil {
		t.Error("Nil config should not validate")
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input string
		want  Variant
		ok    bool
	}{
		{"reaction", VariantReaction, true},
		{"gamble", VariantGamble, true},
		{"poker", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseVariant(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseVariant(%q) = (%q, %v), expected (%q, %v)",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  Symbol
		ok    bool
	}{
		{"A", SymbolA, true},
		{"B", SymbolB, true},
		{"C", SymbolC, true},
		{"D", "", false},
		{"a", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseSymbol(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseSymbol(%q) = (%q, %v), expected (%q, %v)",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
