// Package mcp exposes a hotseat tessera match over the Model Context
// Protocol: one stdio process, one match, both seats driven by tools.
package mcp

import (
	"encoding/json"
	"sync"

	"tessera/internal/engine"
)

var seatNames = [2]string{"red", "blue"}

// matchSession wraps a single engine game behind a mutex so tool
// handlers can be called from any goroutine.
type matchSession struct {
	mu   sync.Mutex
	game *engine.Game
}

func newMatchSession(seed int64) (*matchSession, error) {
	g, err := engine.NewGame(engine.StandardLayout(), seed)
	if err != nil {
		return nil, err
	}
	return &matchSession{game: g}, nil
}

// cellView flattens a card for the tool response.
type cellView struct {
	Value     int    `json:"value"`
	Joker     bool   `json:"joker,omitempty"`
	Color     string `json:"color"`
	Collapsed bool   `json:"collapsed,omitempty"`
}

type destinationView struct {
	Row  int          `json:"row"`
	Col  int          `json:"col"`
	Path []engine.Pos `json:"path"`
}

type jokerTurnView struct {
	Origin     engine.Pos   `json:"origin"`
	Path       []engine.Pos `json:"path"`
	StepsTaken int          `json:"stepsTaken"`
	MayEnd     bool         `json:"mayEnd"`
	MustEnd    bool         `json:"mustEnd"`
	Steps      []engine.Pos `json:"steps,omitempty"` // legal next steps
}

type stateView struct {
	Board        [engine.Size][engine.Size]cellView `json:"board"`
	Positions    [2]engine.Pos                      `json:"positions"`
	Turn         string                             `json:"turn,omitempty"`
	Joker        *jokerTurnView                     `json:"joker,omitempty"`
	Destinations []destinationView                  `json:"destinations,omitempty"`
	Moves        int                                `json:"moves"`
	GameOver     bool                               `json:"gameOver"`
	Winner       string                             `json:"winner,omitempty"`
}

type moveView struct {
	Player    string       `json:"player"`
	Origin    engine.Pos   `json:"origin"`
	Path      []engine.Pos `json:"path"`
	Joker     bool         `json:"joker,omitempty"`
	EndReason string       `json:"endReason,omitempty"`
}

// buildState snapshots the game for the active tool caller. Callers
// must hold s.mu.
func (s *matchSession) buildState() *stateView {
	g := s.game
	view := &stateView{
		Positions: [2]engine.Pos{g.Players[0].Pos, g.Players[1].Pos},
		Moves:     len(g.History),
		GameOver:  g.Status == engine.StatusEnded,
	}
	for r := 0; r < engine.Size; r++ {
		for c := 0; c < engine.Size; c++ {
			card := g.Board.Cells[r][c]
			view.Board[r][c] = cellView{
				Value:     card.Value,
				Joker:     card.IsJoker(),
				Color:     colorName(card.Color),
				Collapsed: card.Collapsed,
			}
		}
	}
	if view.GameOver {
		view.Winner = seatNames[g.Winner]
		return view
	}

	view.Turn = seatNames[g.Active]
	if st := g.Joker; st != nil && st.Active {
		view.Joker = &jokerTurnView{
			Origin:     st.Origin,
			Path:       st.Path,
			StepsTaken: st.StepsTaken,
			MayEnd:     st.CanEnd(),
			MustEnd:    st.MustEnd,
			Steps:      st.Extensions(&g.Board),
		}
		return view
	}
	for _, d := range g.LegalMoves() {
		view.Destinations = append(view.Destinations, destinationView{
			Row:  d.Pos.Row,
			Col:  d.Pos.Col,
			Path: d.Path,
		})
	}
	return view
}

func (s *matchSession) history() []moveView {
	moves := make([]moveView, 0, len(s.game.History))
	for _, rec := range s.game.History {
		moves = append(moves, moveView{
			Player:    seatNames[rec.Player],
			Origin:    rec.Origin,
			Path:      rec.Path,
			Joker:     rec.Joker,
			EndReason: string(rec.EndReason),
		})
	}
	return moves
}

func colorName(c engine.Color) string {
	if c == engine.Blue {
		return "blue"
	}
	return "red"
}

func respondJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error":"failed to marshal response"}`
	}
	return string(data)
}
