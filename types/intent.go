package types

import "fmt"

// IntentKind tells which mutation an Intent asks for.
type IntentKind int

const (
	MoveIntent IntentKind = iota
	FenceIntent
)

// Intent is a requested mutation, before the game service has validated it.
type Intent struct {
	Kind        IntentKind
	Player      PlayerKey
	Destination Coordinate // MoveIntent only
	Slot        FenceSlot  // FenceIntent only
}

func (i Intent) String() string {
	if i.Kind == FenceIntent {
		return fmt.Sprintf("fence %s by %s", i.Slot, i.Player)
	}
	return fmt.Sprintf("move %s to %s", i.Player, i.Destination)
}
