// Package types contains shared data structures for quoridor-term.
package types

import (
	"encoding/json"
	"fmt"
)

// BoardSize is the number of cells along each side of the board.
const BoardSize = 9

// PlayerKey identifies one of the two players, e.g. "player1".
type PlayerKey string

const (
	Player1 PlayerKey = "player1"
	Player2 PlayerKey = "player2"
)

// Coordinate represents a cell on the board.
// X grows left to right, Y grows top to bottom.
type Coordinate struct {
	X int
	Y int
}

// Valid returns true if the coordinate lies on the board.
func (c Coordinate) Valid() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// UnmarshalJSON allows Coordinate to be unmarshaled from a JSON array [x, y].
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var v []json.Number
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("position must have 2 elements, got %d", len(v))
	}
	x, err := v[0].Int64()
	if err != nil {
		return fmt.Errorf("position x %s is not an integer", v[0])
	}
	y, err := v[1].Int64()
	if err != nil {
		return fmt.Errorf("position y %s is not an integer", v[1])
	}
	c.X = int(x)
	c.Y = int(y)
	return nil
}

// MarshalJSON writes the coordinate as a JSON array [x, y].
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

// Orientation is the direction a fence runs along.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// FenceSlot is the gap between two pairs of adjacent cells where a fence may sit.
// A horizontal slot at (x, y) lies below cells (x, y) and (x+1, y); a vertical
// slot at (x, y) lies right of cells (x, y) and (x, y+1).
type FenceSlot struct {
	Anchor      Coordinate
	Orientation Orientation
}

// Valid returns true if the slot exists on the board.
func (s FenceSlot) Valid() bool {
	if !s.Anchor.Valid() {
		return false
	}
	switch s.Orientation {
	case Horizontal:
		return s.Anchor.X < BoardSize-1
	case Vertical:
		return s.Anchor.Y < BoardSize-1
	}
	return false
}

func (s FenceSlot) String() string {
	return fmt.Sprintf("%s %s", s.Orientation, s.Anchor)
}

// Status is the phase of the game reported by the service.
type Status int

const (
	InProgress Status = iota
	Finished
)

func (s Status) String() string {
	if s == Finished {
		return "finished"
	}
	return "in progress"
}
