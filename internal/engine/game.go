package engine

import (
	"fmt"
	"math/rand"
)

// Status is the lifecycle of a game.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// NoWinner is the Winner value while the game is still in progress.
const NoWinner = -1

// Player is one of the two seats. The turn controller is the sole
// writer of Pos; board occupancy is kept consistent with it.
type Player struct {
	Color Color `json:"color"`
	Pos   Pos   `json:"pos"`
}

// MoveRecord is one committed move in the game history.
type MoveRecord struct {
	Player    int       `json:"player"`
	Origin    Pos       `json:"origin"` // the cell collapsed by this move
	Path      []Pos     `json:"path"`
	Joker     bool      `json:"joker,omitempty"`
	EndReason EndReason `json:"endReason,omitempty"` // joker moves only
}

// Game is the turn controller: it owns the board, the two players,
// whose turn it is, and the end-of-game decision. Moves are applied as
// atomic validate-then-commit transactions; a rejected move leaves no
// trace.
//
// All fields marshal to JSON, so a Game value is its own persistence
// snapshot — including an in-progress joker turn.
type Game struct {
	Board   Board           `json:"board"`
	Players [2]Player       `json:"players"`
	Active  int             `json:"active"`
	Status  Status          `json:"status"`
	Winner  int             `json:"winner"`
	History []MoveRecord    `json:"history"`
	Joker   *JokerMoveState `json:"joker,omitempty"`
}

// NewGame deals a fresh board from the layout and seats the players on
// their jokers: player 0 on red, player 1 on blue. Player 0 moves
// first. The deal is deterministic for a given seed.
func NewGame(l Layout, seed int64) (*Game, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	board, jokers := l.deal(rand.New(rand.NewSource(seed)))
	g := &Game{
		Board: board,
		Players: [2]Player{
			{Color: Red, Pos: jokers[0]},
			{Color: Blue, Pos: jokers[1]},
		},
		Active: 0,
		Status: StatusPlaying,
		Winner: NoWinner,
	}
	g.Board.At(jokers[0]).Occupant = 0
	g.Board.At(jokers[1]).Occupant = 1
	g.beginTurn()
	return g, nil
}

func (g *Game) positions() []Pos {
	return []Pos{g.Players[0].Pos, g.Players[1].Pos}
}

// LegalMoves enumerates the active player's legal destinations under
// the distance rule of the card they started the turn on.
func (g *Game) LegalMoves() []Destination {
	if g.Status != StatusPlaying {
		return nil
	}
	from := g.Players[g.Active].Pos
	return LegalDestinations(&g.Board, from, *g.Board.At(from))
}

// CheckGameEnd reports whether the position is terminal for the active
// player. It never mutates state: the transition to StatusEnded
// happens inside the turn controller when a turn begins with no legal
// destination, at which point the player who moved last wins.
func (g *Game) CheckGameEnd() (ended bool, winner int) {
	if g.Status == StatusEnded {
		return true, g.Winner
	}
	if len(g.LegalMoves()) == 0 {
		return true, 1 - g.Active
	}
	return false, NoWinner
}

// ApplyMove validates and commits a complete move path for the mover:
// the origin cell collapses, the pawn relocates to the path's end, the
// move is recorded, and the turn passes. On any rejection the game is
// unchanged and the mover retains the turn.
//
// A joker path of 1..4 steps may be applied atomically this way, but
// only before any incremental step has been committed.
func (g *Game) ApplyMove(mover int, path []Pos) error {
	if err := g.checkTurn(mover); err != nil {
		return err
	}
	if g.Joker != nil && g.Joker.StepsTaken > 0 {
		return reject(ReasonJokerInProgress, "%d steps committed", g.Joker.StepsTaken)
	}
	if err := ValidateMove(&g.Board, g.positions(), path, mover); err != nil {
		return err
	}
	origin := path[0]
	g.commit(MoveRecord{
		Player:    mover,
		Origin:    origin,
		Path:      append([]Pos(nil), path...),
		Joker:     g.Board.At(origin).IsJoker(),
		EndReason: jokerEndReason(g.Board.At(origin), EndChosen),
	})
	return nil
}

// JokerStep commits one single step of the active joker turn. When the
// step exhausts the turn (four steps taken, or no further legal step)
// the turn completes automatically with the forcing reason recorded.
func (g *Game) JokerStep(mover int, next Pos) error {
	if err := g.checkTurn(mover); err != nil {
		return err
	}
	if g.Joker == nil || !g.Joker.Active {
		return reject(ReasonNoJokerTurn, "")
	}
	if err := g.Joker.Extend(&g.Board, next); err != nil {
		return err
	}
	if g.Joker.MustEnd {
		g.completeJoker(g.Joker.ForcedBy)
	}
	return nil
}

// EndJokerTurn completes the active joker turn at the player's
// request. At least one step must have been committed.
func (g *Game) EndJokerTurn(mover int) error {
	if err := g.checkTurn(mover); err != nil {
		return err
	}
	if g.Joker == nil || !g.Joker.Active {
		return reject(ReasonNoJokerTurn, "")
	}
	if !g.Joker.CanEnd() {
		return reject(ReasonTooFewSteps, "")
	}
	g.completeJoker(EndChosen)
	return nil
}

// checkTurn guards every mutating entry point: right game phase, right
// player, sane board. A corrupt board is surfaced as a plain error
// rather than a MoveError — it is not a rule violation but a bug.
func (g *Game) checkTurn(mover int) error {
	if g.Status != StatusPlaying {
		return reject(ReasonGameOver, "winner is player %d", g.Winner)
	}
	if mover != g.Active {
		return reject(ReasonNotYourTurn, "player %d moved, player %d is active", mover, g.Active)
	}
	if err := g.Board.CheckInvariants(g.positions()); err != nil {
		return fmt.Errorf("engine state check failed: %w", err)
	}
	return nil
}

// completeJoker commits the in-progress joker turn: collapse its
// origin (the joker cell recorded when the turn began, not the cell
// the pawn stands on), relocate the pawn, record, advance.
func (g *Game) completeJoker(reason EndReason) {
	s := g.Joker
	g.commit(MoveRecord{
		Player:    g.Active,
		Origin:    s.Origin,
		Path:      append([]Pos(nil), s.Path...),
		Joker:     true,
		EndReason: reason,
	})
}

// commit is the single mutation point of the engine: every successful
// move funnels through it.
func (g *Game) commit(rec MoveRecord) {
	dest := rec.Path[len(rec.Path)-1]
	g.Board.Collapse(rec.Origin)
	g.Board.Occupy(rec.Player, rec.Origin, dest)
	g.Players[rec.Player].Pos = dest
	g.History = append(g.History, rec)
	g.Joker = nil
	g.Active = 1 - g.Active
	g.beginTurn()
}

// beginTurn runs the per-turn protocol for the new active player:
// detect a terminal position, otherwise auto-start a joker turn if the
// player stands on a joker card.
func (g *Game) beginTurn() {
	if ended, winner := g.CheckGameEnd(); ended {
		g.Status = StatusEnded
		g.Winner = winner
		g.Joker = nil
		return
	}
	from := g.Players[g.Active].Pos
	if g.Board.At(from).IsJoker() {
		// Start cannot fail: the cell holds the mover, so it is an
		// uncollapsed joker.
		g.Joker, _ = StartJokerTurn(&g.Board, from)
	}
}

func jokerEndReason(origin *Card, r EndReason) EndReason {
	if origin.IsJoker() {
		return r
	}
	return ""
}
