// Package validate checks inbound names at the transport boundary. It
// enforces the trivial rules the UI also applies (non-empty after
// trimming, bounded length) so the core never sees malformed input.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyName   = errors.New("name must not be empty")
	ErrNameTooLong = errors.New("name is too long")
)

// PlayerName trims and validates a player nickname against the given
// maximum rune length. Returns the trimmed name.
func PlayerName(name string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", fmt.Errorf("%w: max %d characters", ErrNameTooLong, maxLen)
	}
	return trimmed, nil
}

// RoomName trims and validates an optional room name. An empty name falls
// back to the creator's nickname, mirroring what the lobby UI shows.
func RoomName(name, fallback string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fallback, nil
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", fmt.Errorf("%w: max %d characters", ErrNameTooLong, maxLen)
	}
	return trimmed, nil
}
