package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoridor-term/engine"
	"quoridor-term/types"
)

const initialState = `{
	"players": {
		"player1": {"position": [4, 8], "fences_remaining": 10, "goal": "BOTTOM"},
		"player2": {"position": [4, 0], "fences_remaining": 10, "goal": "TOP"}
	},
	"fences": [],
	"current_player": "player1",
	"status": "IN_PROGRESS",
	"board_theme": "ignored"
}`

// fakeService records the requests it receives and answers with canned bodies.
type fakeService struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

type recordedRequest struct {
	Method    string
	Path      string
	GameID    string
	RequestID string
	Body      map[string]interface{}
}

func (f *fakeService) handler(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		GameID:    mux.Vars(r)["id"],
		RequestID: r.Header.Get("X-Request-ID"),
	}
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (f *fakeService) respond(status int, body string) {
	f.mu.Lock()
	f.status, f.body = status, body
	f.mu.Unlock()
}

func (f *fakeService) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T) (*Client, *fakeService) {
	t.Helper()
	fake := &fakeService{status: http.StatusOK, body: `{"success": true, "state": ` + initialState + `}`}

	r := mux.NewRouter()
	r.HandleFunc("/api/game/{id}/state/", fake.handler).Methods(http.MethodGet)
	r.HandleFunc("/api/game/{id}/move/", fake.handler).Methods(http.MethodPost)
	r.HandleFunc("/api/game/{id}/fence/", fake.handler).Methods(http.MethodPost)
	r.HandleFunc("/api/game/{id}/reset/", fake.handler).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := NewClient(engine.ServiceConfig{BaseURL: srv.URL + "/", GameID: "7"}, srv.Client())
	return client, fake
}

func TestFetchState(t *testing.T) {
	client, fake := newTestClient(t)

	s, err := client.FetchState(context.Background())
	require.NoError(t, err)

	assert.Len(t, s.Players, 2)
	assert.Equal(t, types.Coordinate{X: 4, Y: 8}, s.Players[types.Player1].Position)
	assert.Equal(t, types.Coordinate{X: 4, Y: 0}, s.Players[types.Player2].Position)
	assert.Equal(t, 10, s.Players[types.Player1].FencesRemaining)
	assert.Equal(t, "BOTTOM", s.Players[types.Player1].Goal)
	assert.Empty(t, s.Fences)
	assert.Equal(t, types.Player1, s.CurrentPlayer)
	assert.Equal(t, types.InProgress, s.Status)

	req := fake.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/game/7/state/", req.Path)
	assert.Equal(t, "7", req.GameID)
	assert.NotEmpty(t, req.RequestID)
}

func TestFetchBareState(t *testing.T) {
	client, fake := newTestClient(t)
	fake.respond(http.StatusOK, initialState)

	s, err := client.FetchState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Player1, s.CurrentPlayer)
}

func TestAbsentFencesAreEmpty(t *testing.T) {
	client, fake := newTestClient(t)
	fake.respond(http.StatusOK, `{"success": true, "state": {
		"players": {"player1": {"position": [0, 0]}, "player2": {"position": [8, 8]}},
		"current_player": "player2"
	}}`)

	s, err := client.FetchState(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.Fences)
	assert.Equal(t, -1, s.Players[types.Player1].FencesRemaining)
}

func TestSubmitMove(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.SubmitMove(context.Background(), types.Player1, types.Coordinate{X: 4, Y: 7})
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, "/api/game/7/move/", req.Path)
	assert.Equal(t, "player1", req.Body["player_id"])
	assert.Equal(t, float64(4), req.Body["x"])
	assert.Equal(t, float64(7), req.Body["y"])
}

func TestSubmitFenceOrientationRoundTrip(t *testing.T) {
	for _, o := range []types.Orientation{types.Horizontal, types.Vertical} {
		t.Run(o.String(), func(t *testing.T) {
			client, fake := newTestClient(t)
			slot := types.FenceSlot{Anchor: types.Coordinate{X: 2, Y: 5}, Orientation: o}

			_, err := client.SubmitFence(context.Background(), types.Player2, slot)
			require.NoError(t, err)

			req := fake.last(t)
			assert.Equal(t, "/api/game/7/fence/", req.Path)
			code, ok := req.Body["orientation"].(string)
			require.True(t, ok)
			assert.Len(t, code, 1)

			decoded, err := wireToOrientation(code)
			require.NoError(t, err)
			assert.Equal(t, o, decoded)
			assert.Equal(t, float64(2), req.Body["x"])
			assert.Equal(t, float64(5), req.Body["y"])
		})
	}
}

func TestSubmitReset(t *testing.T) {
	client, fake := newTestClient(t)
	_, err := client.SubmitReset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/game/7/reset/", fake.last(t).Path)
}

func TestFencesDecode(t *testing.T) {
	client, fake := newTestClient(t)
	fake.respond(http.StatusOK, `{"success": true, "state": {
		"players": {"player1": {"position": [4, 7]}, "player2": {"position": [4, 0]}},
		"fences": [
			{"x": 3, "y": 3, "orientation": "H", "player_id": 1},
			{"x": "6", "y": "1", "orientation": "v"}
		],
		"current_player": "player2",
		"status": "IN_PROGRESS"
	}}`)

	s, err := client.FetchState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.FenceSlot{
		{Anchor: types.Coordinate{X: 3, Y: 3}, Orientation: types.Horizontal},
		{Anchor: types.Coordinate{X: 6, Y: 1}, Orientation: types.Vertical},
	}, s.Fences)
}

func TestFinishedDecode(t *testing.T) {
	client, fake := newTestClient(t)
	fake.respond(http.StatusOK, `{"success": true, "state": {
		"players": {"player1": {"position": [4, 0]}, "player2": {"position": [3, 3]}},
		"current_player": "player2",
		"status": "FINISHED",
		"winner": "player1"
	}}`)

	s, err := client.FetchState(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Finished())
	assert.Equal(t, types.Player1, s.Winner)
}

func TestRejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"error field", http.StatusOK, `{"success": false, "error": "Illegal move"}`, "Illegal move"},
		{"message field", http.StatusBadRequest, `{"success": false, "message": "Invalid move", "state": {}}`, "Invalid move"},
		{"bare error", http.StatusBadRequest, `{"error": "Missing field: 'x'"}`, "Missing field: 'x'"},
		{"no reason", http.StatusOK, `{"success": false}`, engine.DefaultRejectReason},
		{"client error claiming success", http.StatusBadRequest, `{"success": true, "state": ` + initialState + `}`, engine.DefaultRejectReason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fake := newTestClient(t)
			fake.respond(tt.status, tt.body)

			_, err := client.SubmitMove(context.Background(), types.Player1, types.Coordinate{X: 0, Y: 0})
			var rejected *engine.RejectedError
			require.True(t, errors.As(err, &rejected), "got %v", err)
			assert.Equal(t, tt.reason, rejected.Reason)
		})
	}
}

func TestMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing players", `{"success": true, "state": {"current_player": "player1"}}`},
		{"missing state", `{"success": true}`},
		{"fractional position", `{"success": true, "state": {"players": {"player1": {"position": [4.9, 8.99]}}, "current_player": "player1"}}`},
		{"bad position", `{"success": true, "state": {"players": {"player1": {"position": [9, 9]}}, "current_player": "player1"}}`},
		{"bad orientation", `{"success": true, "state": {"players": {"player1": {"position": [0, 0]}}, "fences": [{"x": 0, "y": 0, "orientation": "D"}], "current_player": "player1"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fake := newTestClient(t)
			fake.respond(http.StatusOK, tt.body)

			_, err := client.FetchState(context.Background())
			var bad *types.MalformedSnapshotError
			assert.True(t, errors.As(err, &bad), "got %v", err)
		})
	}
}

func TestTransportFailures(t *testing.T) {
	client, fake := newTestClient(t)
	fake.respond(http.StatusBadGateway, `{"error": "upstream"}`)

	_, err := client.FetchState(context.Background())
	var transport *engine.TransportError
	assert.True(t, errors.As(err, &transport), "got %v", err)

	fake.respond(http.StatusNotFound, `not json`)
	_, err = client.FetchState(context.Background())
	assert.True(t, errors.As(err, &transport), "got %v", err)

	unreachable := NewClient(engine.ServiceConfig{BaseURL: "http://127.0.0.1:1", GameID: "1"}, nil)
	_, err = unreachable.FetchState(context.Background())
	assert.True(t, errors.As(err, &transport), "got %v", err)
}

func TestCancelledContext(t *testing.T) {
	client, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchState(ctx)
	var transport *engine.TransportError
	assert.True(t, errors.As(err, &transport), "got %v", err)
	assert.ErrorIs(t, err, context.Canceled)
}
