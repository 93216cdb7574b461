package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/adrg/xdg"

	"quoridor-term/engine"
	"quoridor-term/log"
	"quoridor-term/types"
)

var (
	cfgFile = "quoridor-term/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor    int `json:"board"`
	CellColor     int `json:"cell"`
	Player1Color  int `json:"player1"`
	Player2Color  int `json:"player2"`
	FenceColor    int `json:"fence"`
	SlotColor     int `json:"slot"`
	CursorColorBG int `json:"cursor_bg"`
	SelectedBG    int `json:"selected_bg"`
	OverlayBG     int `json:"overlay_bg"`
}

type ConfigSymbols struct {
	Pawn            rune `json:"pawn"`
	EmptyCell       rune `json:"empty"`
	HorizontalFence rune `json:"horizontal_fence"`
	VerticalFence   rune `json:"vertical_fence"`
	Slot            rune `json:"slot"`
}

type Theme struct {
	ShowCoordinates bool          `json:"show_coordinates"`
	Colors          ConfigColors  `json:"colors"`
	Symbols         ConfigSymbols `json:"symbols"`
}

// ServiceSection holds where the game service lives.
type ServiceSection struct {
	BaseURL        string `json:"base_url"`
	GameID         string `json:"game_id"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// LogSection holds logging settings.
type LogSection struct {
	Level string `json:"level"`
}

type Config struct {
	Service ServiceSection             `json:"service"`
	Players map[types.PlayerKey]string `json:"players"` // display labels
	Theme   Theme                      `json:"theme"`
	Log     LogSection                 `json:"log"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig()
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Pawn, c.Theme.Symbols.EmptyCell, c.Theme.Symbols.HorizontalFence, c.Theme.Symbols.VerticalFence, c.Theme.Symbols.Slot} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InvalidConfig{fmt.Sprintf("invalid service base_url %q", c.Service.BaseURL)}
	}
	if strings.TrimSpace(c.Service.GameID) == "" {
		return &InvalidConfig{"service game_id must be set"}
	}
	if c.Service.TimeoutSeconds < 0 {
		return &InvalidConfig{"service timeout_seconds must not be negative"}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return &InvalidConfig{err.Error()}
	}
	return nil
}

// ServiceConfig returns the settings the game service client needs.
func (c *Config) ServiceConfig() engine.ServiceConfig {
	return engine.ServiceConfig{
		BaseURL:        c.Service.BaseURL,
		GameID:         c.Service.GameID,
		TimeoutSeconds: c.Service.TimeoutSeconds,
	}
}

// Label returns the display label for a player key.
func (c *Config) Label(key types.PlayerKey) string {
	if label, ok := c.Players[key]; ok && label != "" {
		return label
	}
	return string(key)
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
