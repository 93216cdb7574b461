// Package grid describes the static 9x9 board and the fence-slot lattice between its cells.
package grid

import (
	"errors"
	"fmt"

	"quoridor-term/types"
)

// ErrOutOfRange is returned for coordinates that are not on the board.
var ErrOutOfRange = errors.New("coordinate out of range")

// Cell is a single square of the board.
type Cell struct {
	Coordinate types.Coordinate
}

// FenceSlots holds the slots anchored at one cell. Either may be nil at the board edge.
type FenceSlots struct {
	Horizontal *types.FenceSlot
	Vertical   *types.FenceSlot
}

// Grid is the board layout. It never changes after New.
type Grid struct {
	cells []Cell
}

// New builds the grid.
func New() *Grid {
	cells := make([]Cell, 0, types.BoardSize*types.BoardSize)
	for y := 0; y < types.BoardSize; y++ {
		for x := 0; x < types.BoardSize; x++ {
			cells = append(cells, Cell{Coordinate: types.Coordinate{X: x, Y: y}})
		}
	}
	return &Grid{cells: cells}
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []Cell {
	return g.cells
}

// CellAt returns the cell at x, y.
func (g *Grid) CellAt(x, y int) (Cell, error) {
	c := types.Coordinate{X: x, Y: y}
	if !c.Valid() {
		return Cell{}, fmt.Errorf("cell %s: %w", c, ErrOutOfRange)
	}
	return g.cells[y*types.BoardSize+x], nil
}

// FenceSlotsFor returns the slots anchored at x, y: horizontal only if x < 8,
// vertical only if y < 8.
func (g *Grid) FenceSlotsFor(x, y int) (FenceSlots, error) {
	cell, err := g.CellAt(x, y)
	if err != nil {
		return FenceSlots{}, err
	}
	var slots FenceSlots
	if x < types.BoardSize-1 {
		slots.Horizontal = &types.FenceSlot{Anchor: cell.Coordinate, Orientation: types.Horizontal}
	}
	if y < types.BoardSize-1 {
		slots.Vertical = &types.FenceSlot{Anchor: cell.Coordinate, Orientation: types.Vertical}
	}
	return slots, nil
}

// ValidSlot returns true if the slot is part of the lattice.
func (g *Grid) ValidSlot(slot types.FenceSlot) bool {
	slots, err := g.FenceSlotsFor(slot.Anchor.X, slot.Anchor.Y)
	if err != nil {
		return false
	}
	switch slot.Orientation {
	case types.Horizontal:
		return slots.Horizontal != nil
	case types.Vertical:
		return slots.Vertical != nil
	}
	return false
}
