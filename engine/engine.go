// Package engine defines the game service interface and the dispatcher that
// runs intents against it.
package engine

import (
	"context"
	"fmt"

	"quoridor-term/types"
)

// GameService is the authoritative game. It validates every rule; the client
// only renders what it returns.
type GameService interface {
	// FetchState returns the current snapshot.
	FetchState(ctx context.Context) (*types.Snapshot, error)

	// SubmitMove asks to move player's token to dest.
	// Returns a *RejectedError if the service refuses the move.
	SubmitMove(ctx context.Context, player types.PlayerKey, dest types.Coordinate) (*types.Snapshot, error)

	// SubmitFence asks to place a fence for player in slot.
	SubmitFence(ctx context.Context, player types.PlayerKey, slot types.FenceSlot) (*types.Snapshot, error)

	// SubmitReset restarts the game.
	SubmitReset(ctx context.Context) (*types.Snapshot, error)
}

// DefaultRejectReason is the reason of a refusal the service did not explain.
const DefaultRejectReason = "request rejected"

// RejectedError is returned when the service refused an intent.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected: %s", e.Reason)
}

// TransportError is returned when a request could not complete. Whether the
// service applied the mutation is unknown.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceConfig holds what is needed to reach the game service.
type ServiceConfig struct {
	BaseURL        string // e.g. http://localhost:8000
	GameID         string
	TimeoutSeconds int
}

// DefaultServiceConfig returns a reasonable default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		BaseURL:        "http://localhost:8000",
		GameID:         "1",
		TimeoutSeconds: 10,
	}
}
