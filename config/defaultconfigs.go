package config

import (
	"quoridor-term/engine"
	"quoridor-term/types"
)

var DefaultTheme = Theme{
	ShowCoordinates: true,
	Colors: ConfigColors{
		BoardColor:    94,
		CellColor:     180,
		Player1Color:  27,
		Player2Color:  160,
		FenceColor:    244,
		SlotColor:     137,
		CursorColorBG: 4,
		SelectedBG:    2,
		OverlayBG:     236,
	},
	Symbols: ConfigSymbols{
		Pawn:            '●',
		EmptyCell:       ' ',
		HorizontalFence: '━',
		VerticalFence:   '┃',
		Slot:            '·',
	},
}

// DefaultConfig returns a fresh copy of the defaults.
func DefaultConfig() *Config {
	svc := engine.DefaultServiceConfig()
	return &Config{
		Service: ServiceSection{
			BaseURL:        svc.BaseURL,
			GameID:         svc.GameID,
			TimeoutSeconds: svc.TimeoutSeconds,
		},
		Players: map[types.PlayerKey]string{
			types.Player1: "Player 1",
			types.Player2: "Player 2",
		},
		Theme: DefaultTheme,
		Log: LogSection{
			Level: "info",
		},
	}
}
