// Package tessera adapts the tessera engine to the lobby's game.Match
// interface: JSON actions in, per-player state views out. All rules
// live in internal/engine; this layer only translates.
package tessera

import (
	"encoding/json"
	"fmt"
	"time"

	"tessera/internal/engine"
	"tessera/internal/game"
)

// Tessera implements game.Game. The zero value plays the standard
// deck; use New to play a custom layout.
type Tessera struct {
	Layout engine.Layout
}

// New returns a Tessera game over the given layout, validating it up
// front so misconfigured layouts fail at startup rather than at match
// creation.
func New(l engine.Layout) (Tessera, error) {
	if err := l.Validate(); err != nil {
		return Tessera{}, err
	}
	return Tessera{Layout: l}, nil
}

func (t Tessera) Info() game.GameInfo {
	return game.GameInfo{
		Name:        "tessera",
		Description: "Two pawns on a 4x4 torus of cards. Cards collapse behind you; strand your opponent to win.",
		MinPlayers:  2,
		MaxPlayers:  2,
	}
}

func (t Tessera) NewMatch(config game.MatchConfig) game.Match {
	layout := t.Layout
	if layout.Counts == nil {
		layout = engine.StandardLayout()
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	core, err := engine.NewGame(layout, seed)
	if err != nil {
		// Layouts are validated in New; reaching this is a bug.
		panic(fmt.Sprintf("tessera: deal failed: %v", err))
	}
	m := &Match{Core: core}
	copy(m.Players[:], config.PlayerIDs)
	return m
}

// Match implements game.Match for tessera. Seat 0 is red, seat 1 blue.
type Match struct {
	Players [2]string    `json:"players"`
	Core    *engine.Game `json:"game"`
}

// Action payloads.
type movePayload struct {
	Path []engine.Pos `json:"path"`
}

type stepPayload struct {
	To engine.Pos `json:"to"`
}

type jokerView struct {
	Origin     engine.Pos   `json:"origin"`
	Path       []engine.Pos `json:"path"`
	StepsTaken int          `json:"stepsTaken"`
	MayEnd     bool         `json:"mayEnd"`
	MustEnd    bool         `json:"mustEnd"`
}

type stateView struct {
	Board     [engine.Size][engine.Size]engine.Card `json:"board"`
	Positions [2]engine.Pos                         `json:"positions"`
	Players   []string                              `json:"players"`
	You       int                                   `json:"you"` // seat index, -1 for spectators
	Turn      string                                `json:"turn,omitempty"`
	Joker     *jokerView                            `json:"joker,omitempty"`
	Moves     int                                   `json:"moves"`
	Done      bool                                  `json:"done"`
	Winner    string                                `json:"winner,omitempty"`
}

func (m *Match) seat(playerID string) int {
	for i, id := range m.Players {
		if id == playerID {
			return i
		}
	}
	return -1
}

func (m *Match) State(playerID string) any {
	view := stateView{
		Board:     m.Core.Board.Cells,
		Positions: [2]engine.Pos{m.Core.Players[0].Pos, m.Core.Players[1].Pos},
		Players:   m.Players[:],
		You:       m.seat(playerID),
		Moves:     len(m.Core.History),
		Done:      m.Core.Status == engine.StatusEnded,
	}
	if view.Done {
		view.Winner = m.Players[m.Core.Winner]
	} else {
		view.Turn = m.Players[m.Core.Active]
	}
	if s := m.Core.Joker; s != nil && s.Active {
		view.Joker = &jokerView{
			Origin:     s.Origin,
			Path:       s.Path,
			StepsTaken: s.StepsTaken,
			MayEnd:     s.CanEnd(),
			MustEnd:    s.MustEnd,
		}
	}
	return view
}

func (m *Match) ValidActions(playerID string) []game.Action {
	if m.Core.Status != engine.StatusPlaying {
		return nil
	}
	seat := m.seat(playerID)
	if seat != m.Core.Active {
		return nil
	}

	var actions []game.Action
	if s := m.Core.Joker; s != nil && s.Active {
		// A joker turn is played as single steps, ended explicitly.
		for _, next := range s.Extensions(&m.Core.Board) {
			payload, _ := json.Marshal(stepPayload{To: next})
			actions = append(actions, game.Action{Type: "joker_step", Payload: payload})
		}
		if s.CanEnd() {
			actions = append(actions, game.Action{Type: "joker_end", Payload: json.RawMessage(`{}`)})
		}
		return actions
	}
	for _, d := range m.Core.LegalMoves() {
		payload, _ := json.Marshal(movePayload{Path: d.Path})
		actions = append(actions, game.Action{Type: "move", Payload: payload})
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	seat := m.seat(playerID)
	if seat < 0 {
		return fmt.Errorf("player %s is not in this match", playerID)
	}
	switch action.Type {
	case "move":
		var mv movePayload
		if err := json.Unmarshal(action.Payload, &mv); err != nil {
			return fmt.Errorf("invalid move payload: %w", err)
		}
		return m.Core.ApplyMove(seat, mv.Path)
	case "joker_step":
		var st stepPayload
		if err := json.Unmarshal(action.Payload, &st); err != nil {
			return fmt.Errorf("invalid joker_step payload: %w", err)
		}
		return m.Core.JokerStep(seat, st.To)
	case "joker_end":
		return m.Core.EndJokerTurn(seat)
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}

func (m *Match) IsOver() bool {
	return m.Core.Status == engine.StatusEnded
}

func (m *Match) Results() []game.PlayerResult {
	if m.Core.Status != engine.StatusEnded {
		return nil
	}
	winner := m.Core.Winner
	loser := 1 - winner
	return []game.PlayerResult{
		{PlayerID: m.Players[winner], Rank: 1, Score: 1},
		{PlayerID: m.Players[loser], Rank: 2, Score: 0},
	}
}

// PlayerList exposes the seated player IDs so a restored session can
// rebuild its roster from the match snapshot alone.
func (m *Match) PlayerList() []string {
	return m.Players[:]
}

func (m *Match) MarshalJSON() ([]byte, error) {
	type alias Match
	return json.Marshal((*alias)(m))
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type alias Match
	return json.Unmarshal(data, (*alias)(m))
}
