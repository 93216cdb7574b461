// Package ui provides custom controls for tview to play Quoridor in the terminal.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"quoridor-term/config"
	"quoridor-term/grid"
	"quoridor-term/interaction"
	"quoridor-term/types"
)

// Board geometry in screen cells. Each board cell is cellW characters wide
// and one row high, separated by a one character / one row gap where fences sit.
const (
	cellW      = 3
	pitchX     = cellW + 1
	pitchY     = 2
	marginLeft = 3
	marginTop  = 1
	boardW     = types.BoardSize*pitchX - 1
	boardH     = types.BoardSize*pitchY - 1
)

// hitKind is what a screen position maps to.
type hitKind int

const (
	hitNone hitKind = iota
	hitCell
	hitSlot
)

type hit struct {
	kind hitKind
	cell types.Coordinate
	slot types.FenceSlot
}

// hitTest maps a position relative to the board origin to a cell or a fence slot.
// Clicking the gap under or beside the last row/column picks the slot that ends there.
func hitTest(dx, dy int) hit {
	if dx < 0 || dy < 0 || dx >= boardW || dy >= boardH {
		return hit{}
	}
	cx, rx := dx/pitchX, dx%pitchX
	cy, ry := dy/pitchY, dy%pitchY
	switch {
	case rx < cellW && ry == 0:
		return hit{kind: hitCell, cell: types.Coordinate{X: cx, Y: cy}}
	case rx < cellW && ry == 1:
		return hit{kind: hitSlot, slot: slotNear(types.Coordinate{X: cx, Y: cy}, types.Horizontal)}
	case rx == cellW && ry == 0:
		return hit{kind: hitSlot, slot: slotNear(types.Coordinate{X: cx, Y: cy}, types.Vertical)}
	}
	return hit{}
}

// slotNear returns the slot of orientation o touching cell c, shifting the
// anchor back at the far edges where no drawable slot is anchored.
func slotNear(c types.Coordinate, o types.Orientation) types.FenceSlot {
	last := types.BoardSize - 2
	if c.X > last {
		c.X = last
	}
	if c.Y > last {
		c.Y = last
	}
	return types.FenceSlot{Anchor: c, Orientation: o}
}

type BoardUI struct {
	Box         *tview.Box
	grid        *grid.Grid
	view        *BoardView
	cfg         *config.Config
	styles      []tcell.Color
	mode        interaction.Mode
	curX        int
	curY        int
	orientation types.Orientation
	notice      string
	originX     int
	originY     int
	onCell      func(types.Coordinate)
	onSlot      func(types.FenceSlot)
	hint        *tview.TextView
	infoPanel   *GameInfoPanel
	focusMode   bool
}

// NewBoardUI creates the board widget drawing view. The status line goes to hint.
func NewBoardUI(c *config.Config, view *BoardView, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:  tview.NewBox(),
		grid: grid.New(),
		view: view,
		hint: hint,
		curX: -1,
		curY: -1,
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(board.draw)
	board.Box.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action != tview.MouseLeftClick {
			return action, event
		}
		x, y := event.Position()
		if !board.Box.InRect(x, y) {
			return action, event
		}
		board.Click(x-board.originX, y-board.originY)
		return action, nil
	})
	return board
}

// OnGesture registers the handlers for clicks on cells and fence slots.
func (b *BoardUI) OnGesture(cell func(types.Coordinate), slot func(types.FenceSlot)) {
	b.onCell = cell
	b.onSlot = slot
}

// Click handles a click at a position relative to the board origin.
func (b *BoardUI) Click(dx, dy int) {
	h := hitTest(dx, dy)
	switch h.kind {
	case hitCell:
		b.curX, b.curY = h.cell.X, h.cell.Y
		if b.onCell != nil {
			b.onCell(h.cell)
		}
	case hitSlot:
		b.curX, b.curY = h.slot.Anchor.X, h.slot.Anchor.Y
		b.orientation = h.slot.Orientation
		if b.onSlot != nil {
			b.onSlot(h.slot)
		}
	}
}

func (b *BoardUI) SetConfig(c *config.Config) {
	b.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),    // 0
		tcell.PaletteColor(c.Theme.Colors.CellColor),     // 1
		tcell.PaletteColor(c.Theme.Colors.Player1Color),  // 2
		tcell.PaletteColor(c.Theme.Colors.Player2Color),  // 3
		tcell.PaletteColor(c.Theme.Colors.FenceColor),    // 4
		tcell.PaletteColor(c.Theme.Colors.SlotColor),     // 5
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG), // 6
		tcell.PaletteColor(c.Theme.Colors.SelectedBG),    // 7
		tcell.PaletteColor(c.Theme.Colors.OverlayBG),     // 8
	}
	b.cfg = c
}

// SetMode tells the widget which mode the machine is in, for the cursor preview.
func (b *BoardUI) SetMode(m interaction.Mode) {
	b.mode = m
	b.Refresh()
}

// Mode returns the mode last set.
func (b *BoardUI) Mode() interaction.Mode {
	return b.mode
}

// SetNotice sets the message shown in the status line.
func (b *BoardUI) SetNotice(msg string) {
	b.notice = msg
	b.Refresh()
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (b *BoardUI) ToggleFocusMode() bool {
	b.focusMode = !b.focusMode
	b.Refresh()
	return b.focusMode
}

// IsFocusMode returns true if focus mode is enabled.
func (b *BoardUI) IsFocusMode() bool {
	return b.focusMode
}

// Refresh redraws the text around the board from the current view.
func (b *BoardUI) Refresh() {
	if b.infoPanel != nil {
		b.infoPanel.SetSnapshot(b.view.Snapshot())
	}
	if b.hint == nil {
		return
	}
	if b.focusMode {
		b.hint.SetText("  f to toggle")
		return
	}
	b.hint.SetText(b.statusLine())
}

// Notice returns the current status message.
func (b *BoardUI) Notice() string {
	return b.notice
}

// SetView replaces the board view drawn by this widget.
func (b *BoardUI) SetView(view *BoardView) {
	b.view = view
	b.Refresh()
}

// View returns the board view drawn by this widget.
func (b *BoardUI) View() *BoardView {
	return b.view
}

// Cursor returns the cell under the keyboard cursor, or nil if it is hidden.
func (b *BoardUI) Cursor() *types.Coordinate {
	if b.curX == -1 && b.curY == -1 {
		return nil
	}
	return &types.Coordinate{X: b.curX, Y: b.curY}
}

// CursorSlot returns the fence slot previewed at the cursor.
func (b *BoardUI) CursorSlot() *types.FenceSlot {
	c := b.Cursor()
	if c == nil {
		return nil
	}
	slot := slotNear(*c, b.orientation)
	return &slot
}

// ToggleOrientation flips the orientation of the previewed fence.
func (b *BoardUI) ToggleOrientation() {
	b.orientation = b.orientation.Toggle()
}

// MoveCursor moves the keyboard cursor. The first call shows it on the
// current player's pawn, or the board center.
func (b *BoardUI) MoveCursor(h, v int) {
	if b.Cursor() == nil {
		b.curX, b.curY = types.BoardSize/2, types.BoardSize/2
		if s := b.view.Snapshot(); s != nil {
			if p, ok := s.Players[s.CurrentPlayer]; ok {
				b.curX, b.curY = p.Position.X, p.Position.Y
			}
		}
		return
	}
	if b.curX+h < 0 || b.curX+h >= types.BoardSize {
		return
	}
	if b.curY+v < 0 || b.curY+v >= types.BoardSize {
		return
	}
	b.curX += h
	b.curY += v
}

// HideCursor hides the keyboard cursor.
func (b *BoardUI) HideCursor() {
	b.curX = -1
	b.curY = -1
}

func (b *BoardUI) playerColor(key types.PlayerKey) tcell.Color {
	switch key {
	case types.Player1:
		return b.styles[2]
	case types.Player2:
		return b.styles[3]
	}
	return b.styles[4]
}

func (b *BoardUI) draw(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
	l, t := x+marginLeft, y+marginTop
	b.originX, b.originY = l, t

	boardStyle := tcell.StyleDefault.Background(b.styles[0])
	for row := 0; row < boardH; row++ {
		for col := 0; col < boardW; col++ {
			r := ' '
			if col%pitchX == cellW && row%pitchY == 1 {
				r = b.cfg.Theme.Symbols.Slot
			}
			screen.SetContent(l+col, t+row, r, nil, boardStyle.Foreground(b.styles[5]))
		}
	}

	snap := b.view.Snapshot()
	current := b.view.CurrentPlayer()
	selected := b.view.Selected()
	cursor := b.Cursor()

	for _, cell := range b.grid.Cells() {
		c := cell.Coordinate
		bg := b.styles[1]
		if selected != nil && *selected == c {
			bg = b.styles[7]
		} else if cursor != nil && *cursor == c && b.mode == interaction.MovePawn {
			bg = b.styles[6]
		}
		style := tcell.StyleDefault.Background(bg)
		r := b.cfg.Theme.Symbols.EmptyCell
		if key, ok := b.view.TokenAt(c); ok {
			r = b.cfg.Theme.Symbols.Pawn
			style = style.Foreground(b.playerColor(key))
			// The player to move is highlighted, the other pawn dimmed.
			if snap != nil && !snap.Finished() {
				style = style.Bold(key == current).Dim(key != current)
			}
		}
		drawCell(screen, style, r, l+c.X*pitchX, t+c.Y*pitchY)
	}

	fenceStyle := tcell.StyleDefault.Background(b.styles[0]).Foreground(b.styles[4])
	for _, f := range b.view.Barriers() {
		drawFence(screen, fenceStyle, f, l, t, b.cfg.Theme.Symbols)
	}
	if b.mode == interaction.PlaceFence && cursor != nil {
		if slot := b.CursorSlot(); slot != nil && !b.view.HasBarrier(*slot) {
			drawFence(screen, tcell.StyleDefault.Background(b.styles[6]).Foreground(b.styles[4]), *slot, l, t, b.cfg.Theme.Symbols)
		}
	}

	if b.cfg.Theme.ShowCoordinates {
		drawCoordinates(screen, tcell.StyleDefault, x, l, t)
	}

	if o := b.view.Overlay(); o != nil {
		drawOverlay(screen, tcell.StyleDefault.Background(b.styles[8]).Foreground(tcell.ColorWhite), o, l, t)
	}

	return x, y, boardW + marginLeft, boardH + marginTop
}

// drawCell draws a board cell cellW characters wide with r in the middle.
func drawCell(s tcell.Screen, style tcell.Style, r rune, left, top int) {
	s.SetContent(left, top, ' ', nil, style)
	s.SetContent(left+1, top, r, nil, style)
	s.SetContent(left+2, top, ' ', nil, style)
}

// drawFence draws a fence covering the gap along two cells and the junction
// between them. Slots on the outer edge have no gap and are not drawn.
func drawFence(s tcell.Screen, style tcell.Style, f types.FenceSlot, l, t int, sym config.ConfigSymbols) {
	last := types.BoardSize - 1
	if f.Anchor.X >= last || f.Anchor.Y >= last {
		return
	}
	left := l + f.Anchor.X*pitchX
	top := t + f.Anchor.Y*pitchY
	if f.Orientation == types.Horizontal {
		for i := 0; i < pitchX+cellW; i++ {
			s.SetContent(left+i, top+1, sym.HorizontalFence, nil, style)
		}
		return
	}
	for i := 0; i < pitchY+1; i++ {
		s.SetContent(left+cellW, top+i, sym.VerticalFence, nil, style)
	}
}

func drawCoordinates(s tcell.Screen, style tcell.Style, x, l, t int) {
	for i := 0; i < types.BoardSize; i++ {
		s.SetContent(l+i*pitchX+1, t-1, rune('0'+i), nil, style)
		s.SetContent(x+1, t+i*pitchY, rune('0'+i), nil, style)
	}
}

func drawOverlay(s tcell.Screen, style tcell.Style, o *Overlay, l, t int) {
	lines := []string{"", tview.Escape(o.Title)}
	if o.Text != "" {
		lines = append(lines, tview.Escape(o.Text))
	}
	lines = append(lines, "", "r · new game", "")

	width := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	width += 4
	left := l + (boardW-width)/2
	top := t + (boardH-len(lines))/2
	for i, line := range lines {
		for col := 0; col < width; col++ {
			s.SetContent(left+col, top+i, ' ', nil, style)
		}
		tview.Print(s, line, left, top+i, width, tview.AlignCenter, tcell.ColorWhite)
	}
}

// statusLine returns the text for the hint panel.
func (b *BoardUI) statusLine() string {
	var turnLine, noticeLine, controlsLine string

	if o := b.view.Overlay(); o != nil {
		turnLine = fmt.Sprintf("  ─── %s %s", o.Title, tview.Escape(o.Text))
		controlsLine = "\n  r new game   f focus   q quit"
	} else {
		if current := b.view.CurrentPlayer(); current != "" {
			turnLine = fmt.Sprintf("  ● %s to move · %s", tview.Escape(b.cfg.Label(current)), b.mode)
		} else {
			turnLine = "  ◌ Connecting..."
		}
		controlsLine = "\n  hjkl/↑↓←→ cursor  ⏎ click  m move  b barrier  o rotate  f focus  r reset  q quit"
	}
	if b.notice != "" {
		noticeLine = fmt.Sprintf("   » %s", tview.Escape(b.notice))
	}
	return turnLine + noticeLine + controlsLine
}
