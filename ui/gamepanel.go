package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"quoridor-term/types"
)

// GameInfoPanel displays the players, their fences and the turn alongside the board.
type GameInfoPanel struct {
	box      *tview.TextView
	snapshot *types.Snapshot
	label    func(types.PlayerKey) string
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel(label func(types.PlayerKey) string) *GameInfoPanel {
	if label == nil {
		label = func(k types.PlayerKey) string { return string(k) }
	}
	panel := &GameInfoPanel{
		box:   tview.NewTextView(),
		label: label,
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetSnapshot updates the panel with the state currently drawn.
func (p *GameInfoPanel) SetSnapshot(s *types.Snapshot) {
	p.snapshot = s
	p.box.SetText(p.text())
}

func (p *GameInfoPanel) text() string {
	if p.snapshot == nil {
		return ""
	}
	s := p.snapshot

	text := "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"

	if s.Finished() {
		text += "[white]Status:[-:-:-] finished\n"
	} else {
		text += fmt.Sprintf("[white]Turn:[-:-:-] %s\n", tview.Escape(p.label(s.CurrentPlayer)))
	}
	text += fmt.Sprintf("[white]Fences:[-:-:-] %d placed\n", len(s.Fences))

	text += "\n[white::b]Players[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	for _, key := range s.PlayerKeys() {
		ps := s.Players[key]
		marker := " "
		if !s.Finished() && key == s.CurrentPlayer {
			marker = "[white]>[-]"
		}
		text += fmt.Sprintf("%s %s\n", marker, tview.Escape(p.label(key)))
		text += fmt.Sprintf("[dimgray]    at %s[-]\n", ps.Position)
		if ps.FencesRemaining >= 0 {
			text += fmt.Sprintf("[dimgray]    fences left %d[-]\n", ps.FencesRemaining)
		}
		if ps.Goal != "" {
			text += fmt.Sprintf("[dimgray]    goal %s[-]\n", tview.Escape(ps.Goal))
		}
	}
	return text
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, board, hint)
	return mainFlex
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel(board.cfg.Label)
	board.infoPanel = infoPanel
	infoPanel.SetSnapshot(board.view.Snapshot())

	// Horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	// Board area on top, status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 2, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI) {
	gameFrame.Clear()

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardW+marginLeft, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardH+marginTop, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}
