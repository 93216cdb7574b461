package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"quoridor-term/config"
	"quoridor-term/types"
)

// GameSetupUI provides a form for choosing which game service and game to join.
type GameSetupUI struct {
	form      *tview.Form
	flex      *tview.Flex
	status    *tview.TextView
	cfg       *config.Config
	service   config.ServiceSection
	labels    map[types.PlayerKey]string
	onConnect func(*config.Config)
	onCancel  func()
}

// NewGameSetup creates a new connect form prefilled from c. onConnect receives
// c updated with the form values once they validate.
func NewGameSetup(c *config.Config, onConnect func(*config.Config), onCancel func()) *GameSetupUI {
	setup := &GameSetupUI{
		cfg:       c,
		service:   c.Service,
		labels:    map[types.PlayerKey]string{},
		onConnect: onConnect,
		onCancel:  onCancel,
	}
	for k, v := range c.Players {
		setup.labels[k] = v
	}

	form := tview.NewForm()

	form.AddInputField("Service URL", setup.service.BaseURL, 40, nil, func(text string) {
		setup.service.BaseURL = strings.TrimSpace(text)
	})
	form.AddInputField("Game ID", setup.service.GameID, 12, nil, func(text string) {
		setup.service.GameID = strings.TrimSpace(text)
	})
	form.AddInputField("Timeout (s)", strconv.Itoa(setup.service.TimeoutSeconds), 6, func(text string, lastChar rune) bool {
		return lastChar >= '0' && lastChar <= '9'
	}, func(text string) {
		if val, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			setup.service.TimeoutSeconds = val
		}
	})
	for _, key := range []types.PlayerKey{types.Player1, types.Player2} {
		key := key
		form.AddInputField(string(key)+" label", c.Label(key), 20, nil, func(text string) {
			setup.labels[key] = text
		})
	}

	form.AddButton("Connect", func() {
		setup.Submit()
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" Join Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(tcell.ColorDarkCyan)
	form.SetButtonTextColor(tcell.ColorWhite)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(tcell.ColorGray)

	setup.status = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	setup.status.SetTextColor(tcell.ColorRed)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(setup.status, 1, 0, false).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// Submit validates the form and hands the updated config to onConnect.
func (s *GameSetupUI) Submit() {
	updated := *s.cfg
	updated.Service = s.service
	updated.Players = map[types.PlayerKey]string{}
	for k, v := range s.labels {
		updated.Players[k] = v
	}
	if err := updated.Validate(); err != nil {
		s.status.SetText(err.Error())
		return
	}
	s.status.SetText("")
	*s.cfg = updated
	s.onConnect(s.cfg)
}

// Error returns the validation message currently shown.
func (s *GameSetupUI) Error() string {
	return s.status.GetText(true)
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
