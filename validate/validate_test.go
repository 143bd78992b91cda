package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestPlayerName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain name", "kim", "kim", nil},
		{"trims whitespace", "  kim  ", "kim", nil},
		{"empty", "", "", ErrEmptyName},
		{"whitespace only", "   ", "", ErrEmptyName},
		{"at the limit", strings.Repeat("a", 20), strings.Repeat("a", 20), nil},
		{"over the limit", strings.Repeat("a", 21), "", ErrNameTooLong},
		{"multibyte name", "눈치게임마스터", "눈치게임마스터", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlayerName(tt.input, 20)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPlayerName_RuneLimitNotByteLimit(t *testing.T) {
	// 20 Hangul runes are well over 20 bytes but still a legal name.
	name := strings.Repeat("눈", 20)
	got, err := PlayerName(name, 20)
	if err != nil {
		t.Fatalf("20-rune multibyte name should validate: %v", err)
	}
	if got != name {
		t.Errorf("Name should pass through unchanged, got %q", got)
	}
}

func TestRoomName(t *testing.T) {
	t.Run("explicit name", func(t *testing.T) {
		got, err := RoomName(" friday night ", "kim", 20)
		if err != nil || got != "friday night" {
			t.Errorf("Expected trimmed name, got %q (err %v)", got, err)
		}
	})

	t.Run("falls back to nickname", func(t *testing.T) {
		got, err := RoomName("", "kim", 20)
		if err != nil || got != "kim" {
			t.Errorf("Expected fallback to nickname, got %q (err %v)", got, err)
		}
	})

	t.Run("too long", func(t *testing.T) {
		if _, err := RoomName(strings.Repeat("a", 21), "kim", 20); !errors.Is(err, ErrNameTooLong) {
			t.Errorf("Expected ErrNameTooLong, got %v", err)
		}
	})
}
