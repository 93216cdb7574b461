// quoridor-term is a terminal client for a Quoridor game service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"quoridor-term/config"
	"quoridor-term/engine"
	"quoridor-term/engine/httpapi"
	"quoridor-term/grid"
	"quoridor-term/interaction"
	"quoridor-term/log"
	"quoridor-term/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagURL        = flag.String("url", "", "Game service base URL (e.g. http://localhost:8000)")
	flagGame       = flag.String("game", "", "Game ID to join")
	flagTimeout    = flag.Int("timeout", -1, "Request timeout in seconds, 0 to wait forever")
	flagLogLevel   = flag.String("loglevel", "", "Log level (error, warn, info, debug, trace)")
	flagQuickStart = flag.Bool("play", false, "Join the configured game immediately")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var boardView *ui.BoardView
var gameFrame *tview.Flex
var gameHint *tview.TextView
var controller *ui.Controller
var stopGame context.CancelFunc
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("quoridor-term %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// The terminal belongs to tview, so logs go to a file.
	if f, err := log.OpenFile(); err == nil {
		defer f.Close()
	}
	level, _ := log.ParseLevel(cfg.Log.Level)
	log.SetLevel(level)
	log.Info("Starting quoridor-term %s", Version)

	quickStart := *flagQuickStart || *flagURL != "" || *flagGame != "" || *flagFocus

	app = tview.NewApplication()
	app.EnableMouse(true)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ▦ quoridor ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetDynamicColors(true)
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	boardView = ui.NewBoardView(cfg.Label)
	gameBoard = ui.NewBoardUI(cfg, boardView, gameHint)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if controller != nil {
			if event = controller.HandleKey(event); event == nil {
				return nil
			}
		}
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'q':
				leaveGame()
				rootPage.SwitchToPage("setup")
				return nil
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
				return nil
			}
		}
		return event
	})

	setupUI := ui.NewGameSetup(cfg, func(c *config.Config) {
		// Remember the choice so the next launch is prefilled.
		if err := c.Save(); err != nil {
			log.Warn("Failed to save config: %v", err)
		}
		startGame(c)
	}, func() {
		app.Stop()
	})

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 64), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)

	if quickStart {
		startGame(cfg)
		if *flagFocus {
			gameBoard.ToggleFocusMode()
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		panic(err)
	}
	leaveGame()
}

// applyFlags overrides config values with the ones given on the command line.
func applyFlags(c *config.Config) {
	if *flagURL != "" {
		c.Service.BaseURL = *flagURL
	}
	if *flagGame != "" {
		c.Service.GameID = *flagGame
	}
	if *flagTimeout >= 0 {
		c.Service.TimeoutSeconds = *flagTimeout
	}
	if *flagLogLevel != "" {
		c.Log.Level = *flagLogLevel
	}
}

// startGame connects the board to the game described by c.
func startGame(c *config.Config) {
	leaveGame()

	svc := c.ServiceConfig()
	log.Info("Joining game %s at %s", svc.GameID, svc.BaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	stopGame = cancel

	client := httpapi.NewClient(svc, &http.Client{})
	// Each game draws into its own view so late results of a left game land nowhere.
	boardView = ui.NewBoardView(c.Label)
	gameBoard.SetView(boardView)
	gameBoard.HideCursor()
	gameBoard.SetConfig(c)
	machine := interaction.New(boardView, grid.New())
	dispatcher := engine.NewDispatcher(client, boardView, machine, time.Duration(svc.TimeoutSeconds)*time.Second)
	controller = ui.NewController(ctx, gameBoard, machine, dispatcher, func(f func()) {
		app.QueueUpdateDraw(f)
	})

	rootPage.SwitchToPage("gameview")
	controller.Load()
}

// leaveGame cancels requests of the current game, if any.
func leaveGame() {
	if stopGame != nil {
		stopGame()
		stopGame = nil
	}
	controller = nil
}
