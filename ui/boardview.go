package ui

import (
	"fmt"
	"sort"
	"sync"

	"quoridor-term/types"
)

// Overlay is the terminal banner shown once the game has finished.
type Overlay struct {
	Winner types.PlayerKey
	Title  string
	Text   string
}

// Token is a drawn pawn.
type Token struct {
	Player   types.PlayerKey
	Position types.Coordinate
}

// BoardView is the rendered board: indexes rebuilt from the last accepted
// snapshot plus the selection marker owned by the interaction machine.
// It is safe for concurrent use.
type BoardView struct {
	label func(types.PlayerKey) string

	mu       sync.RWMutex
	snapshot *types.Snapshot
	tokens   map[types.Coordinate]types.PlayerKey
	barriers map[types.FenceSlot]struct{}
	overlay  *Overlay
	selected *types.Coordinate
}

// NewBoardView creates an empty view. label maps player keys to display names.
func NewBoardView(label func(types.PlayerKey) string) *BoardView {
	if label == nil {
		label = func(k types.PlayerKey) string { return string(k) }
	}
	return &BoardView{
		label:    label,
		tokens:   map[types.Coordinate]types.PlayerKey{},
		barriers: map[types.FenceSlot]struct{}{},
	}
}

// Render replaces everything drawn with exactly what s describes. An invalid
// snapshot is refused and the previous render stays.
func (v *BoardView) Render(s *types.Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	tokens := make(map[types.Coordinate]types.PlayerKey, len(s.Players))
	for key, p := range s.Players {
		tokens[p.Position] = key
	}
	barriers := make(map[types.FenceSlot]struct{}, len(s.Fences))
	for _, f := range s.Fences {
		barriers[f] = struct{}{}
	}

	var overlay *Overlay
	if s.Finished() {
		overlay = &Overlay{Winner: s.Winner, Title: "Game Over!"}
		if s.Winner != "" {
			// Seats are labelled from the opposing side of the board.
			named := s.Opponent(s.Winner)
			if named == "" {
				named = s.Winner
			}
			overlay.Text = fmt.Sprintf("%s wins!", v.label(named))
		}
	}

	v.mu.Lock()
	v.snapshot = s
	v.tokens = tokens
	v.barriers = barriers
	v.overlay = overlay
	v.mu.Unlock()
	return nil
}

// Clear drops the cached snapshot and everything drawn from it.
func (v *BoardView) Clear() {
	v.mu.Lock()
	v.snapshot = nil
	v.tokens = map[types.Coordinate]types.PlayerKey{}
	v.barriers = map[types.FenceSlot]struct{}{}
	v.overlay = nil
	v.selected = nil
	v.mu.Unlock()
}

// Snapshot returns the snapshot currently drawn, or nil.
func (v *BoardView) Snapshot() *types.Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot
}

// TokenAt returns the owner of the token at c.
func (v *BoardView) TokenAt(c types.Coordinate) (types.PlayerKey, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	key, ok := v.tokens[c]
	return key, ok
}

// Tokens returns the drawn tokens ordered by player key.
func (v *BoardView) Tokens() []Token {
	v.mu.RLock()
	defer v.mu.RUnlock()
	tokens := make([]Token, 0, len(v.tokens))
	for c, key := range v.tokens {
		tokens = append(tokens, Token{Player: key, Position: c})
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Player < tokens[j].Player })
	return tokens
}

// HasBarrier returns true if a placed fence occupies slot.
func (v *BoardView) HasBarrier(slot types.FenceSlot) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.barriers[slot]
	return ok
}

// Barriers returns the placed fences in row-major anchor order.
func (v *BoardView) Barriers() []types.FenceSlot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]types.FenceSlot, 0, len(v.barriers))
	for f := range v.barriers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Anchor.Y != b.Anchor.Y {
			return a.Anchor.Y < b.Anchor.Y
		}
		if a.Anchor.X != b.Anchor.X {
			return a.Anchor.X < b.Anchor.X
		}
		return a.Orientation < b.Orientation
	})
	return out
}

// CurrentPlayer returns the player to move, or "" before the first render.
func (v *BoardView) CurrentPlayer() types.PlayerKey {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.snapshot == nil {
		return ""
	}
	return v.snapshot.CurrentPlayer
}

// Finished returns true if the last snapshot ended the game.
func (v *BoardView) Finished() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.overlay != nil
}

// Overlay returns the game over banner, or nil while the game runs.
func (v *BoardView) Overlay() *Overlay {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.overlay == nil {
		return nil
	}
	o := *v.overlay
	return &o
}

// SetSelected sets the selection marker. Only the interaction machine calls it.
func (v *BoardView) SetSelected(c *types.Coordinate) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if c == nil {
		v.selected = nil
		return
	}
	sel := *c
	v.selected = &sel
}

// Selected returns the marked cell, or nil.
func (v *BoardView) Selected() *types.Coordinate {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.selected == nil {
		return nil
	}
	sel := *v.selected
	return &sel
}
