// Package interaction holds the local input state of the board: the current
// mode and the selected token. It turns gestures into intents and never talks
// to the game service itself.
package interaction

import (
	"errors"
	"fmt"
	"sync"

	"quoridor-term/grid"
	"quoridor-term/types"
)

var (
	// ErrNotYourTurn is returned when a token of the player not to move is clicked.
	ErrNotYourTurn = errors.New("it's not your turn")
	// ErrBusy is returned while a request is in flight.
	ErrBusy = errors.New("waiting for the game service")
	// ErrGameOver is returned once the game has finished.
	ErrGameOver = errors.New("the game is over")
	// ErrNotLoaded is returned before any game state has been displayed.
	ErrNotLoaded = errors.New("no game state loaded")
)

// Mode is the kind of action a click performs.
type Mode int

const (
	MovePawn Mode = iota
	PlaceFence
)

func (m Mode) String() string {
	if m == PlaceFence {
		return "place fence"
	}
	return "move pawn"
}

// State is the machine state.
type State int

const (
	Idle State = iota
	PawnSelected
	Pending
)

func (s State) String() string {
	switch s {
	case PawnSelected:
		return "pawn selected"
	case Pending:
		return "pending"
	default:
		return "idle"
	}
}

// Selection is the chosen token and where it stands.
type Selection struct {
	Player types.PlayerKey
	Origin types.Coordinate
}

// Board is what the machine needs to know about the rendered board.
type Board interface {
	// TokenAt returns the owner of the token at c, if any.
	TokenAt(c types.Coordinate) (types.PlayerKey, bool)
	// CurrentPlayer returns the player to move.
	CurrentPlayer() types.PlayerKey
	// Finished returns true if the game is over.
	Finished() bool
	// SetSelected marks c as selected, nil clears the marker.
	SetSelected(c *types.Coordinate)
}

// Machine is the interaction state machine. It is safe for concurrent use.
type Machine struct {
	board Board
	grid  *grid.Grid

	mu        sync.Mutex
	mode      Mode
	state     State
	selection *Selection
}

// New creates a machine in Idle state and MovePawn mode.
func New(board Board, g *grid.Grid) *Machine {
	return &Machine{
		board: board,
		grid:  g,
	}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Selection returns a copy of the current selection, or nil.
func (m *Machine) Selection() *Selection {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selection == nil {
		return nil
	}
	sel := *m.selection
	return &sel
}

// SetMode switches mode and clears any selection.
func (m *Machine) SetMode(mode Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Pending {
		return ErrBusy
	}
	m.mode = mode
	m.clearSelection()
	return nil
}

// ClickCell handles a click on a cell. It returns a MoveIntent when a
// destination is chosen for the selected token, nil otherwise.
func (m *Machine) ClickCell(c types.Coordinate) (*types.Intent, error) {
	if _, err := m.grid.CellAt(c.X, c.Y); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Pending {
		return nil, ErrBusy
	}
	if m.mode != MovePawn {
		return nil, nil
	}
	if m.board.Finished() {
		return nil, ErrGameOver
	}
	if m.board.CurrentPlayer() == "" {
		return nil, ErrNotLoaded
	}

	if owner, ok := m.board.TokenAt(c); ok {
		if owner != m.board.CurrentPlayer() {
			return nil, ErrNotYourTurn
		}
		m.selection = &Selection{Player: owner, Origin: c}
		m.state = PawnSelected
		m.board.SetSelected(&c)
		return nil, nil
	}

	if m.selection == nil {
		return nil, nil
	}
	intent := &types.Intent{
		Kind:        types.MoveIntent,
		Player:      m.selection.Player,
		Destination: c,
	}
	m.state = Pending
	return intent, nil
}

// ClickFenceSlot handles a click on a fence slot. In PlaceFence mode it
// returns a FenceIntent for the player to move.
func (m *Machine) ClickFenceSlot(slot types.FenceSlot) (*types.Intent, error) {
	if !m.grid.ValidSlot(slot) {
		return nil, fmt.Errorf("fence slot %s: %w", slot, grid.ErrOutOfRange)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Pending {
		return nil, ErrBusy
	}
	if m.mode != PlaceFence {
		return nil, nil
	}
	if m.board.Finished() {
		return nil, ErrGameOver
	}
	if m.board.CurrentPlayer() == "" {
		return nil, ErrNotLoaded
	}

	intent := &types.Intent{
		Kind:   types.FenceIntent,
		Player: m.board.CurrentPlayer(),
		Slot:   slot,
	}
	m.state = Pending
	return intent, nil
}

// Complete ends a round-trip, whatever its outcome. The mode is kept.
func (m *Machine) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearSelection()
}

// Reset returns the machine to its defaults.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = MovePawn
	m.clearSelection()
}

// clearSelection must be called while holding the lock.
func (m *Machine) clearSelection() {
	if m.selection != nil {
		m.board.SetSelected(nil)
	}
	m.selection = nil
	m.state = Idle
}
