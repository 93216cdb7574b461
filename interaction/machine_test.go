package interaction

import (
	"errors"
	"testing"

	"quoridor-term/grid"
	"quoridor-term/types"
)

type fakeBoard struct {
	tokens   map[types.Coordinate]types.PlayerKey
	current  types.PlayerKey
	finished bool
	selected *types.Coordinate
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{
		tokens: map[types.Coordinate]types.PlayerKey{
			{X: 4, Y: 8}: types.Player1,
			{X: 4, Y: 0}: types.Player2,
		},
		current: types.Player1,
	}
}

func (b *fakeBoard) TokenAt(c types.Coordinate) (types.PlayerKey, bool) {
	k, ok := b.tokens[c]
	return k, ok
}

func (b *fakeBoard) CurrentPlayer() types.PlayerKey { return b.current }
func (b *fakeBoard) Finished() bool                 { return b.finished }
func (b *fakeBoard) SetSelected(c *types.Coordinate) {
	b.selected = c
}

func newMachine() (*Machine, *fakeBoard) {
	b := newFakeBoard()
	return New(b, grid.New()), b
}

func TestSelectOwnToken(t *testing.T) {
	m, b := newMachine()
	intent, err := m.ClickCell(types.Coordinate{X: 4, Y: 8})
	if err != nil || intent != nil {
		t.Fatalf("ClickCell = %v, %v; want nil, nil", intent, err)
	}
	if m.State() != PawnSelected {
		t.Errorf("State = %v, want pawn selected", m.State())
	}
	sel := m.Selection()
	if sel == nil || sel.Player != types.Player1 || sel.Origin != (types.Coordinate{X: 4, Y: 8}) {
		t.Errorf("Selection = %+v", sel)
	}
	if b.selected == nil || *b.selected != (types.Coordinate{X: 4, Y: 8}) {
		t.Errorf("marker = %v, want (4,8)", b.selected)
	}
}

func TestSelectionExclusivity(t *testing.T) {
	m, b := newMachine()
	b.tokens[types.Coordinate{X: 2, Y: 2}] = types.Player1

	m.ClickCell(types.Coordinate{X: 4, Y: 8})
	m.ClickCell(types.Coordinate{X: 2, Y: 2})

	sel := m.Selection()
	if sel == nil || sel.Origin != (types.Coordinate{X: 2, Y: 2}) {
		t.Fatalf("Selection = %+v, want origin (2,2)", sel)
	}
	if b.selected == nil || *b.selected != (types.Coordinate{X: 2, Y: 2}) {
		t.Errorf("marker = %v, want only (2,2)", b.selected)
	}
}

func TestTurnGate(t *testing.T) {
	m, _ := newMachine()
	intent, err := m.ClickCell(types.Coordinate{X: 4, Y: 0})
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("error = %v, want ErrNotYourTurn", err)
	}
	if intent != nil {
		t.Errorf("intent = %v, want nil", intent)
	}
	if m.State() != Idle || m.Selection() != nil {
		t.Errorf("state changed to %v", m.State())
	}

	// Rejection keeps a prior selection as it was.
	m.ClickCell(types.Coordinate{X: 4, Y: 8})
	if _, err := m.ClickCell(types.Coordinate{X: 4, Y: 0}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("error = %v, want ErrNotYourTurn", err)
	}
	if sel := m.Selection(); sel == nil || sel.Origin != (types.Coordinate{X: 4, Y: 8}) {
		t.Errorf("Selection = %+v, want origin (4,8)", sel)
	}
}

func TestMoveIntent(t *testing.T) {
	m, _ := newMachine()
	m.ClickCell(types.Coordinate{X: 4, Y: 8})
	intent, err := m.ClickCell(types.Coordinate{X: 4, Y: 7})
	if err != nil {
		t.Fatalf("ClickCell: %v", err)
	}
	if intent == nil {
		t.Fatal("expected a move intent")
	}
	if intent.Kind != types.MoveIntent || intent.Player != types.Player1 || intent.Destination != (types.Coordinate{X: 4, Y: 7}) {
		t.Errorf("intent = %+v", intent)
	}
	if m.State() != Pending {
		t.Errorf("State = %v, want pending", m.State())
	}

	// No re-entry while pending.
	if _, err := m.ClickCell(types.Coordinate{X: 4, Y: 6}); !errors.Is(err, ErrBusy) {
		t.Errorf("error = %v, want ErrBusy", err)
	}
	if err := m.SetMode(PlaceFence); !errors.Is(err, ErrBusy) {
		t.Errorf("SetMode error = %v, want ErrBusy", err)
	}

	m.Complete()
	if m.State() != Idle || m.Selection() != nil {
		t.Errorf("after Complete: state %v, selection %+v", m.State(), m.Selection())
	}
}

func TestEmptyCellWithoutSelection(t *testing.T) {
	m, _ := newMachine()
	intent, err := m.ClickCell(types.Coordinate{X: 0, Y: 0})
	if intent != nil || err != nil {
		t.Errorf("ClickCell = %v, %v; want nil, nil", intent, err)
	}
}

func TestModeSwitchClearsSelection(t *testing.T) {
	m, b := newMachine()
	m.ClickCell(types.Coordinate{X: 4, Y: 8})
	if err := m.SetMode(PlaceFence); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if m.Selection() != nil {
		t.Error("selection should be cleared")
	}
	if b.selected != nil {
		t.Error("marker should be cleared")
	}
	if m.Mode() != PlaceFence {
		t.Errorf("Mode = %v, want place fence", m.Mode())
	}
}

func TestFenceIntent(t *testing.T) {
	m, b := newMachine()
	b.current = types.Player2
	slot := types.FenceSlot{Anchor: types.Coordinate{X: 3, Y: 3}, Orientation: types.Vertical}

	// Ignored in move mode.
	if intent, err := m.ClickFenceSlot(slot); intent != nil || err != nil {
		t.Fatalf("ClickFenceSlot in move mode = %v, %v", intent, err)
	}

	m.SetMode(PlaceFence)
	intent, err := m.ClickFenceSlot(slot)
	if err != nil {
		t.Fatalf("ClickFenceSlot: %v", err)
	}
	if intent == nil || intent.Kind != types.FenceIntent || intent.Player != types.Player2 || intent.Slot != slot {
		t.Errorf("intent = %+v", intent)
	}
	if m.State() != Pending {
		t.Errorf("State = %v, want pending", m.State())
	}
	m.Complete()
	if m.Mode() != PlaceFence {
		t.Errorf("Mode after Complete = %v, want place fence", m.Mode())
	}
}

func TestInvalidFenceSlot(t *testing.T) {
	m, _ := newMachine()
	m.SetMode(PlaceFence)
	_, err := m.ClickFenceSlot(types.FenceSlot{Anchor: types.Coordinate{X: 8, Y: 0}, Orientation: types.Horizontal})
	if !errors.Is(err, grid.ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

func TestGameOverBlocksGestures(t *testing.T) {
	m, b := newMachine()
	b.finished = true
	if _, err := m.ClickCell(types.Coordinate{X: 4, Y: 8}); !errors.Is(err, ErrGameOver) {
		t.Errorf("ClickCell error = %v, want ErrGameOver", err)
	}
	m.SetMode(PlaceFence)
	slot := types.FenceSlot{Anchor: types.Coordinate{X: 0, Y: 0}, Orientation: types.Horizontal}
	if _, err := m.ClickFenceSlot(slot); !errors.Is(err, ErrGameOver) {
		t.Errorf("ClickFenceSlot error = %v, want ErrGameOver", err)
	}
}

func TestReset(t *testing.T) {
	m, _ := newMachine()
	m.SetMode(PlaceFence)
	m.ClickFenceSlot(types.FenceSlot{Anchor: types.Coordinate{X: 0, Y: 0}, Orientation: types.Horizontal})
	m.Reset()
	if m.State() != Idle || m.Mode() != MovePawn || m.Selection() != nil {
		t.Errorf("after Reset: state %v, mode %v, selection %+v", m.State(), m.Mode(), m.Selection())
	}
}

func TestGesturesBeforeLoad(t *testing.T) {
	b := &fakeBoard{tokens: map[types.Coordinate]types.PlayerKey{}}
	m := New(b, grid.New())

	if _, err := m.ClickCell(types.Coordinate{X: 4, Y: 8}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("ClickCell error = %v, want ErrNotLoaded", err)
	}
	m.SetMode(PlaceFence)
	intent, err := m.ClickFenceSlot(types.FenceSlot{Anchor: types.Coordinate{X: 3, Y: 3}, Orientation: types.Horizontal})
	if !errors.Is(err, ErrNotLoaded) || intent != nil {
		t.Errorf("ClickFenceSlot = %v, %v; want nil, ErrNotLoaded", intent, err)
	}
	if m.State() != Idle {
		t.Errorf("State = %v, want idle", m.State())
	}
}
