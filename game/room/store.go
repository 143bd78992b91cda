package room

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomStarted   = errors.New("room already started")
	ErrAlreadyInRoom = errors.New("connection already in a room")
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Store owns the table of live rooms keyed by code. It is not safe for
// concurrent use on its own; the Manager serializes all access.
type Store struct {
	rooms   map[string]*Room
	codeLen int
}

// NewStore creates an empty store generating codes of the given length.
func NewStore(codeLen int) *Store {
	return &Store{
		rooms:   make(map[string]*Room),
		codeLen: codeLen,
	}
}

// Create makes a new lobby room with the given host as sole member and
// returns it. The generated code is unique among live rooms.
func (s *Store) Create(name string, host Player) *Room {
	code := s.generateCode()
	r := &Room{
		Code:    code,
		Name:    name,
		HostID:  host.ID,
		Members: []Player{host},
		Phase:   PhaseLobby,
	}
	s.rooms[code] = r
	return r
}

// Get looks up a live room by code.
func (s *Store) Get(code string) (*Room, bool) {
	r, ok := s.rooms[code]
	return r, ok
}

// Delete removes a room from the store.
func (s *Store) Delete(code string) {
	delete(s.rooms, code)
}

// Len returns the number of live rooms.
func (s *Store) Len() int {
	return len(s.rooms)
}

// Snapshot returns the discovery listing for all live rooms, sorted by
// code for deterministic output.
func (s *Store) Snapshot() []Summary {
	out := make([]Summary, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, Summary{
			Code:        r.Code,
			Name:        r.Name,
			MemberCount: len(r.Members),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// generateCode produces a random code not used by any live room, retrying
// on collision.
func (s *Store) generateCode() string {
	for {
		buf := make([]byte, s.codeLen)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			if err != nil {
				// crypto/rand only fails when the platform source is
				// broken; there is no sensible recovery.
				panic(err)
			}
			buf[i] = codeAlphabet[n.Int64()]
		}
		code := string(buf)
		if _, taken := s.rooms[code]; !taken {
			return code
		}
	}
}
