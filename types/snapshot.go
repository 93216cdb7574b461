package types

import (
	"fmt"
	"sort"
)

// PlayerState is one player's part of a snapshot.
type PlayerState struct {
	Position        Coordinate
	FencesRemaining int    // -1 when the service does not report it
	Goal            string // goal side as reported by the service, may be empty
}

// Snapshot is the complete game state at one instant, as produced by the
// game service. It is never modified after it has been decoded.
type Snapshot struct {
	Players       map[PlayerKey]PlayerState
	Fences        []FenceSlot
	CurrentPlayer PlayerKey
	Status        Status
	Winner        PlayerKey // empty when absent
}

// Finished returns true if the game is over.
func (s *Snapshot) Finished() bool {
	return s.Status == Finished
}

// PlayerKeys returns the player keys in sorted order.
func (s *Snapshot) PlayerKeys() []PlayerKey {
	keys := make([]PlayerKey, 0, len(s.Players))
	for k := range s.Players {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Opponent returns the key of the other player, or "" if there is none.
func (s *Snapshot) Opponent(key PlayerKey) PlayerKey {
	for _, k := range s.PlayerKeys() {
		if k != key {
			return k
		}
	}
	return ""
}

// MalformedSnapshotError is returned when a snapshot does not have the expected shape.
type MalformedSnapshotError struct {
	Reason string
}

func (e *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("malformed snapshot: %s", e.Reason)
}

func malformed(format string, args ...interface{}) error {
	return &MalformedSnapshotError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks that the snapshot can be rendered as a whole.
func (s *Snapshot) Validate() error {
	if s == nil {
		return malformed("no state")
	}
	if len(s.Players) == 0 {
		return malformed("missing players")
	}
	if len(s.Players) > 2 {
		return malformed("%d players, at most 2 supported", len(s.Players))
	}
	occupied := make(map[Coordinate]PlayerKey, len(s.Players))
	for key, p := range s.Players {
		if key == "" {
			return malformed("empty player key")
		}
		if !p.Position.Valid() {
			return malformed("player %s at invalid position %s", key, p.Position)
		}
		if other, ok := occupied[p.Position]; ok {
			return malformed("players %s and %s share %s", other, key, p.Position)
		}
		occupied[p.Position] = key
	}
	for _, f := range s.Fences {
		if !f.Valid() {
			return malformed("invalid fence %s", f)
		}
	}
	if !s.Finished() {
		if _, ok := s.Players[s.CurrentPlayer]; !ok {
			return malformed("unknown current player %q", s.CurrentPlayer)
		}
	}
	return nil
}
