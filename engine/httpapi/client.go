// Package httpapi implements the game service over HTTP and JSON.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"quoridor-term/engine"
	"quoridor-term/log"
	"quoridor-term/types"
)

// Client implements engine.GameService against the game's HTTP API.
type Client struct {
	baseURL string
	gameID  string
	http    *http.Client
}

var _ engine.GameService = (*Client)(nil)

// NewClient creates a client for the given service. A nil httpClient uses
// http.DefaultClient; timeouts come from the caller's context.
func NewClient(cfg engine.ServiceConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		gameID:  cfg.GameID,
		http:    httpClient,
	}
}

// FetchState returns the current snapshot.
func (c *Client) FetchState(ctx context.Context) (*types.Snapshot, error) {
	return c.do(ctx, http.MethodGet, "state", nil)
}

// SubmitMove asks the service to move player to dest.
func (c *Client) SubmitMove(ctx context.Context, player types.PlayerKey, dest types.Coordinate) (*types.Snapshot, error) {
	return c.do(ctx, http.MethodPost, "move", moveRequest{
		PlayerID: string(player),
		X:        dest.X,
		Y:        dest.Y,
	})
}

// SubmitFence asks the service to place a fence for player.
func (c *Client) SubmitFence(ctx context.Context, player types.PlayerKey, slot types.FenceSlot) (*types.Snapshot, error) {
	code, err := orientationToWire(slot.Orientation)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "fence", fenceRequest{
		PlayerID:    string(player),
		X:           slot.Anchor.X,
		Y:           slot.Anchor.Y,
		Orientation: code,
	})
}

// SubmitReset restarts the game.
func (c *Client) SubmitReset(ctx context.Context) (*types.Snapshot, error) {
	return c.do(ctx, http.MethodPost, "reset", nil)
}

func (c *Client) endpoint(action string) string {
	return fmt.Sprintf("%s/api/game/%s/%s/", c.baseURL, url.PathEscape(c.gameID), action)
}

// do sends one request and decodes the response.
func (c *Client) do(ctx context.Context, method, action string, payload interface{}) (*types.Snapshot, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", action, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(action), body)
	if err != nil {
		return nil, &engine.TransportError{Op: action, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug("%s %s request_id=%s", method, req.URL.Path, requestID)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("%s %s request_id=%s failed: %v", method, req.URL.Path, requestID, err)
		return nil, &engine.TransportError{Op: action, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &engine.TransportError{Op: action, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	log.Debug("%s %s request_id=%s status=%d", method, req.URL.Path, requestID, resp.StatusCode)

	return decodeResponse(action, resp.StatusCode, data)
}

// decodeResponse turns a response body into a snapshot or a classified error.
func decodeResponse(action string, status int, data []byte) (*types.Snapshot, error) {
	ok := status >= 200 && status < 300
	if status >= 500 {
		return nil, &engine.TransportError{Op: action, Err: fmt.Errorf("HTTP %d", status)}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if !ok {
			return nil, &engine.TransportError{Op: action, Err: fmt.Errorf("HTTP %d", status)}
		}
		return nil, malformed("response is not JSON: %v", err)
	}

	rejected := !ok || (env.Success != nil && !*env.Success) || (env.Success == nil && env.Error != "")
	if rejected {
		reason := env.Error
		if reason == "" {
			reason = env.Message
		}
		if reason == "" {
			reason = engine.DefaultRejectReason
		}
		return nil, &engine.RejectedError{Reason: reason}
	}

	state := []byte(env.State)
	if len(state) == 0 && len(env.Players) > 0 {
		state = data
	}
	return decodeState(state)
}
