package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"quoridor-term/engine"
	"quoridor-term/grid"
	"quoridor-term/interaction"
	"quoridor-term/log"
	"quoridor-term/types"
)

// Controller turns board gestures and keys into intents and sends them to
// the game service. Results are applied through queue, which must run the
// function on the UI goroutine (tview.Application.QueueUpdateDraw).
type Controller struct {
	board      *BoardUI
	machine    *interaction.Machine
	dispatcher *engine.Dispatcher
	queue      func(func())
	ctx        context.Context
	wg         sync.WaitGroup
}

// NewController connects board gestures to machine and dispatcher. A nil
// queue runs updates directly.
func NewController(ctx context.Context, board *BoardUI, machine *interaction.Machine, dispatcher *engine.Dispatcher, queue func(func())) *Controller {
	if queue == nil {
		queue = func(f func()) { f() }
	}
	c := &Controller{
		board:      board,
		machine:    machine,
		dispatcher: dispatcher,
		queue:      queue,
		ctx:        ctx,
	}
	board.OnGesture(c.ClickCell, c.ClickSlot)
	board.SetMode(machine.Mode())
	return c
}

// Wait blocks until all requests started so far have been applied.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Load fetches the initial state in the background.
func (c *Controller) Load() {
	c.board.SetNotice("Loading game...")
	c.run(func() string {
		res := c.dispatcher.Load(c.ctx)
		if res.OK() {
			return ""
		}
		return fmt.Sprintf("Failed to load game state: %s", res.Reason)
	})
}

// ClickCell handles a click on a board cell.
func (c *Controller) ClickCell(coord types.Coordinate) {
	intent, err := c.machine.ClickCell(coord)
	if err != nil {
		c.board.SetNotice(gestureNotice(err))
		return
	}
	if intent == nil {
		c.board.SetNotice("")
		return
	}
	c.dispatch(*intent)
}

// ClickSlot handles a click on a fence slot.
func (c *Controller) ClickSlot(slot types.FenceSlot) {
	intent, err := c.machine.ClickFenceSlot(slot)
	if err != nil {
		c.board.SetNotice(gestureNotice(err))
		return
	}
	if intent == nil {
		return
	}
	c.dispatch(*intent)
}

// Activate clicks whatever is under the keyboard cursor.
func (c *Controller) Activate() {
	cursor := c.board.Cursor()
	if cursor == nil {
		c.board.MoveCursor(0, 0)
		return
	}
	if c.machine.Mode() == interaction.PlaceFence {
		c.ClickSlot(*c.board.CursorSlot())
		return
	}
	c.ClickCell(*cursor)
}

// SetMode switches between moving pawns and placing fences.
func (c *Controller) SetMode(m interaction.Mode) {
	if err := c.machine.SetMode(m); err != nil {
		c.board.SetNotice(gestureNotice(err))
		return
	}
	c.board.SetMode(m)
	c.board.SetNotice("")
}

// Reset asks the service to restart the game.
func (c *Controller) Reset() {
	c.board.SetNotice("Resetting...")
	c.run(func() string {
		res := c.dispatcher.Reset(c.ctx)
		if res.OK() {
			return ""
		}
		return fmt.Sprintf("Reset failed: %s", res.Reason)
	})
}

// HandleKey handles the board keys. Keys it does not handle are returned.
func (c *Controller) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		c.board.MoveCursor(0, -1)
	case tcell.KeyDown:
		c.board.MoveCursor(0, 1)
	case tcell.KeyLeft:
		c.board.MoveCursor(-1, 0)
	case tcell.KeyRight:
		c.board.MoveCursor(1, 0)
	case tcell.KeyEnter:
		c.Activate()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			c.board.MoveCursor(-1, 0)
		case 'j':
			c.board.MoveCursor(0, 1)
		case 'k':
			c.board.MoveCursor(0, -1)
		case 'l':
			c.board.MoveCursor(1, 0)
		case ' ':
			c.Activate()
		case 'm':
			c.SetMode(interaction.MovePawn)
		case 'b':
			c.SetMode(interaction.PlaceFence)
		case 'o':
			c.board.ToggleOrientation()
		case 'r':
			c.Reset()
		case 'q':
			// First q drops the selection, then the cursor, then quits.
			if c.machine.Selection() != nil {
				c.SetMode(c.machine.Mode())
				return nil
			}
			if c.board.Cursor() != nil {
				c.board.HideCursor()
				return nil
			}
			return event
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

func (c *Controller) dispatch(intent types.Intent) {
	c.board.SetNotice("Waiting for the server...")
	c.run(func() string {
		res := c.dispatcher.Dispatch(c.ctx, intent)
		return resultNotice(intent, res)
	})
}

// run calls req off the UI goroutine and shows the notice it returns.
func (c *Controller) run(req func() string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		notice := req()
		c.queue(func() {
			// A game left while the request ran no longer owns the board.
			if c.ctx.Err() != nil {
				return
			}
			c.board.SetMode(c.machine.Mode())
			c.board.SetNotice(notice)
		})
	}()
}

func resultNotice(intent types.Intent, res engine.Result) string {
	what := "Move"
	if intent.Kind == types.FenceIntent {
		what = "Fence placement"
	}
	switch res.Outcome {
	case engine.Success:
		return ""
	case engine.Rejected:
		reason := res.Reason
		if reason == engine.DefaultRejectReason {
			reason = "Invalid move"
			if intent.Kind == types.FenceIntent {
				reason = "Invalid placement"
			}
		}
		return fmt.Sprintf("%s failed: %s", what, reason)
	case engine.NetworkFailure:
		if intent.Kind == types.FenceIntent {
			return fmt.Sprintf("Failed to place fence: %s", res.Reason)
		}
		return fmt.Sprintf("Failed to make move: %s", res.Reason)
	case engine.Busy:
		return "Waiting for the server..."
	default:
		return fmt.Sprintf("Unexpected response: %s", res.Reason)
	}
}

func gestureNotice(err error) string {
	switch {
	case errors.Is(err, interaction.ErrNotYourTurn):
		return "It's not your turn!"
	case errors.Is(err, interaction.ErrBusy):
		return "Waiting for the server..."
	case errors.Is(err, interaction.ErrNotLoaded):
		return "The game is still loading"
	case errors.Is(err, interaction.ErrGameOver):
		return "The game is over, press r for a new one"
	case errors.Is(err, grid.ErrOutOfRange):
		return "Off the board"
	}
	log.Warn("Unhandled gesture error: %v", err)
	return err.Error()
}
