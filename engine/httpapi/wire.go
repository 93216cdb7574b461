package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"quoridor-term/types"
)

// Wire format:
// - Positions are [x, y] arrays.
// - Fence orientation is a single letter: "H" or "V".
// - Fence x/y may arrive as numbers or numeric strings.
// - status "FINISHED" (any case) ends the game; everything else is in progress.

// orientationToWire converts an orientation to its single-letter wire code.
func orientationToWire(o types.Orientation) (string, error) {
	switch o {
	case types.Horizontal:
		return "H", nil
	case types.Vertical:
		return "V", nil
	}
	return "", fmt.Errorf("invalid orientation %d", o)
}

// wireToOrientation converts a wire code back. The word form is accepted too.
func wireToOrientation(code string) (types.Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "h", "horizontal":
		return types.Horizontal, nil
	case "v", "vertical":
		return types.Vertical, nil
	}
	return 0, fmt.Errorf("invalid orientation code %q", code)
}

func wireToStatus(status string) types.Status {
	if strings.EqualFold(strings.TrimSpace(status), "finished") {
		return types.Finished
	}
	return types.InProgress
}

// flexInt accepts 3 as well as "3".
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*n = flexInt(v)
	return nil
}

// flexString accepts "2" as well as 2, since some services use numeric player ids.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid key %s", data)
	}
	*s = flexString(num.String())
	return nil
}

type wirePlayer struct {
	Position        *types.Coordinate `json:"position"`
	FencesRemaining *int              `json:"fences_remaining"`
	Goal            string            `json:"goal"`
}

type wireFence struct {
	X           flexInt    `json:"x"`
	Y           flexInt    `json:"y"`
	Orientation string     `json:"orientation"`
	PlayerID    flexString `json:"player_id"`
}

type wireState struct {
	Players       map[string]wirePlayer `json:"players"`
	Fences        []wireFence           `json:"fences"`
	CurrentPlayer flexString            `json:"current_player"`
	Status        string                `json:"status"`
	Winner        flexString            `json:"winner"`
}

// envelope is the response of every endpoint. The state endpoint may also
// answer with a bare state, which is detected by the players key.
type envelope struct {
	Success *bool           `json:"success"`
	State   json.RawMessage `json:"state"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Players json.RawMessage `json:"players"`
}

type moveRequest struct {
	PlayerID string `json:"player_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type fenceRequest struct {
	PlayerID    string `json:"player_id"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

func malformed(format string, args ...interface{}) error {
	return &types.MalformedSnapshotError{Reason: fmt.Sprintf(format, args...)}
}

// decodeState converts a wire state into a validated snapshot.
func decodeState(data []byte) (*types.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil, malformed("missing state")
	}
	var ws wireState
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, malformed("%v", err)
	}

	s := &types.Snapshot{
		Players:       make(map[types.PlayerKey]types.PlayerState, len(ws.Players)),
		Fences:        make([]types.FenceSlot, 0, len(ws.Fences)),
		CurrentPlayer: types.PlayerKey(ws.CurrentPlayer),
		Status:        wireToStatus(ws.Status),
		Winner:        types.PlayerKey(ws.Winner),
	}
	for key, p := range ws.Players {
		if p.Position == nil {
			return nil, malformed("player %s has no position", key)
		}
		ps := types.PlayerState{Position: *p.Position, FencesRemaining: -1, Goal: p.Goal}
		if p.FencesRemaining != nil {
			ps.FencesRemaining = *p.FencesRemaining
		}
		s.Players[types.PlayerKey(key)] = ps
	}
	for _, f := range ws.Fences {
		o, err := wireToOrientation(f.Orientation)
		if err != nil {
			return nil, malformed("%v", err)
		}
		s.Fences = append(s.Fences, types.FenceSlot{
			Anchor:      types.Coordinate{X: int(f.X), Y: int(f.Y)},
			Orientation: o,
		})
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
