package ui

import (
	"testing"

	"quoridor-term/config"
	"quoridor-term/types"
)

func TestGameSetupSubmit(t *testing.T) {
	cfg := config.DefaultConfig()
	var got *config.Config
	setup := NewGameSetup(cfg, func(c *config.Config) { got = c }, func() {})

	setup.service.BaseURL = "not a url"
	setup.Submit()
	if got != nil {
		t.Fatal("onConnect called with an invalid service URL")
	}
	if setup.Error() == "" {
		t.Error("expected a validation message")
	}
	if cfg.Service.BaseURL != config.DefaultConfig().Service.BaseURL {
		t.Error("invalid values leaked into the config")
	}

	setup.service.BaseURL = "http://game.local:8000"
	setup.service.GameID = "7"
	setup.labels[types.Player1] = "Alice"
	setup.Submit()
	if got == nil {
		t.Fatal("onConnect not called")
	}
	if got.Service.BaseURL != "http://game.local:8000" || got.Service.GameID != "7" {
		t.Errorf("Service = %+v", got.Service)
	}
	if got.Label(types.Player1) != "Alice" {
		t.Errorf("Label(player1) = %q", got.Label(types.Player1))
	}
	if setup.Error() != "" {
		t.Errorf("stale validation message %q", setup.Error())
	}
}
