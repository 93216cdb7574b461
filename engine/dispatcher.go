package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quoridor-term/log"
	"quoridor-term/types"
)

// TransportFailureReason is shown when the service could not be reached.
const TransportFailureReason = "failed to reach game service"

// Outcome classifies a finished round-trip.
type Outcome int

const (
	Success Outcome = iota
	Rejected
	NetworkFailure
	Malformed
	Busy
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	case NetworkFailure:
		return "network failure"
	case Malformed:
		return "malformed snapshot"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

// Result is what a dispatcher call reports back to the UI.
type Result struct {
	Outcome  Outcome
	Snapshot *types.Snapshot // the snapshot now displayed
	Reason   string          // empty on Success
	Err      error
}

// OK returns true if the round-trip succeeded.
func (r Result) OK() bool {
	return r.Outcome == Success
}

// Renderer draws snapshots. Render must not change anything when it returns an error.
type Renderer interface {
	Render(s *types.Snapshot) error
	Clear()
}

// Completer is told when a round-trip has ended.
type Completer interface {
	Complete()
	Reset()
}

// Dispatcher sends intents to the game service one at a time and reconciles
// the board with whatever comes back.
type Dispatcher struct {
	svc      GameService
	renderer Renderer
	machine  Completer
	timeout  time.Duration

	mu      sync.Mutex
	busy    bool
	current *types.Snapshot
}

// NewDispatcher creates a dispatcher. A zero timeout leaves requests unbounded.
func NewDispatcher(svc GameService, r Renderer, m Completer, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		svc:      svc,
		renderer: r,
		machine:  m,
		timeout:  timeout,
	}
}

// Snapshot returns the last successfully rendered snapshot.
func (d *Dispatcher) Snapshot() *types.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Busy returns true while a mutating request is in flight.
func (d *Dispatcher) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// Load fetches and renders the current state. It takes the same slot as
// mutating requests so an older state never lands after a newer one.
func (d *Dispatcher) Load(ctx context.Context) Result {
	if !d.acquire() {
		log.Debug("Dropping state fetch, request in flight")
		return Result{Outcome: Busy, Snapshot: d.Snapshot(), Reason: "request in flight"}
	}
	defer d.release()

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	s, err := d.svc.FetchState(ctx)
	return d.apply("fetch state", s, err)
}

// Dispatch submits an intent. Only one mutating request runs at a time; a call
// made while another is in flight returns Busy without contacting the service.
func (d *Dispatcher) Dispatch(ctx context.Context, intent types.Intent) Result {
	if !d.acquire() {
		log.Debug("Dropping %s, request in flight", intent)
		d.machine.Complete()
		return Result{Outcome: Busy, Snapshot: d.Snapshot(), Reason: "request in flight"}
	}
	defer d.release()
	defer d.machine.Complete()

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var (
		s   *types.Snapshot
		err error
	)
	switch intent.Kind {
	case types.MoveIntent:
		s, err = d.svc.SubmitMove(ctx, intent.Player, intent.Destination)
	case types.FenceIntent:
		s, err = d.svc.SubmitFence(ctx, intent.Player, intent.Slot)
	default:
		err = fmt.Errorf("unknown intent kind %d", intent.Kind)
	}
	return d.apply(intent.String(), s, err)
}

// Reset restarts the game. The local caches are dropped before the reset
// snapshot is installed.
func (d *Dispatcher) Reset(ctx context.Context) Result {
	if !d.acquire() {
		log.Debug("Dropping reset, request in flight")
		return Result{Outcome: Busy, Snapshot: d.Snapshot(), Reason: "request in flight"}
	}
	defer d.release()

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	s, err := d.svc.SubmitReset(ctx)
	if err == nil {
		err = s.Validate()
	}
	if err == nil {
		d.machine.Reset()
		d.renderer.Clear()
		d.mu.Lock()
		d.current = nil
		d.mu.Unlock()
	} else {
		d.machine.Complete()
	}
	return d.apply("reset", s, err)
}

// apply renders a successful snapshot or classifies the error. On any failure
// the previous snapshot stays displayed.
func (d *Dispatcher) apply(op string, s *types.Snapshot, err error) Result {
	res := Result{Err: err}
	if err == nil {
		if err = d.renderer.Render(s); err == nil {
			d.mu.Lock()
			d.current = s
			d.mu.Unlock()
			res.Outcome = Success
			res.Snapshot = s
			log.Debug("%s: success", op)
			return res
		}
		res.Err = err
	}

	var (
		rejected *RejectedError
		bad      *types.MalformedSnapshotError
	)
	switch {
	case errors.As(err, &rejected):
		res.Outcome = Rejected
		res.Reason = rejected.Reason
	case errors.As(err, &bad):
		res.Outcome = Malformed
		res.Reason = bad.Error()
	default:
		// TransportError, deadline, anything else the service layer returns.
		res.Outcome = NetworkFailure
		res.Reason = TransportFailureReason
	}
	res.Snapshot = d.Snapshot()
	log.Warn("%s: %s: %v", op, res.Outcome, err)
	return res
}

func (d *Dispatcher) acquire() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return false
	}
	d.busy = true
	return true
}

func (d *Dispatcher) release() {
	d.mu.Lock()
	d.busy = false
	d.mu.Unlock()
}

func (d *Dispatcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}
