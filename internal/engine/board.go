// Package engine implements the rules of tessera: a two-player,
// perfect-information game on a 4x4 toroidal grid of face-up cards.
// The package is pure: no I/O, no global state, so it can sit behind
// any transport (HTTP, WebSocket, MCP, tests).
package engine

import "fmt"

// Size is the board edge length. The game is defined on a 4x4 torus.
const Size = 4

// NoPlayer marks an unoccupied cell.
const NoPlayer = -1

// Pos is a board coordinate. Row and Col are always in [0, Size).
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Dir is a single orthogonal step, expressed as a row/col delta.
type Dir struct {
	DRow, DCol int
}

// Dirs lists the four orthogonal directions in canonical order:
// up, down, left, right. Path enumeration explores them in this
// order, which fixes the exemplar-path tie-break.
var Dirs = [4]Dir{
	{-1, 0}, // up
	{1, 0},  // down
	{0, -1}, // left
	{0, 1},  // right
}

// mod reduces n into [0, Size) with a mathematically positive result,
// so stepping off any edge re-enters on the opposite edge.
func mod(n int) int {
	return ((n % Size) + Size) % Size
}

// Step returns the neighbor of p one cell away in direction d,
// wrapping around the torus.
func (p Pos) Step(d Dir) Pos {
	return Pos{Row: mod(p.Row + d.DRow), Col: mod(p.Col + d.DCol)}
}

// InBounds reports whether p is a real board coordinate.
func (p Pos) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Adjacent reports whether q is exactly one wraparound step from p.
func (p Pos) Adjacent(q Pos) bool {
	for _, d := range Dirs {
		if p.Step(d) == q {
			return true
		}
	}
	return false
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Color identifies a player's side and their joker card.
type Color string

const (
	Red  Color = "red"
	Blue Color = "blue"
)

// JokerValue is the Value of a joker card. Numbered cards carry 1..4.
const JokerValue = 0

// Card is one cell of the board. A card with Value == JokerValue is
// the wild card of the player whose Color it carries; numbered cards
// require a path of exactly Value steps.
type Card struct {
	Value     int   `json:"value"`
	Color     Color `json:"color,omitempty"`
	Collapsed bool  `json:"collapsed,omitempty"`
	Occupant  int   `json:"occupant"`
}

// IsJoker reports whether the card is a wild card.
func (c Card) IsJoker() bool {
	return c.Value == JokerValue
}

func (c Card) String() string {
	if c.IsJoker() {
		return fmt.Sprintf("joker(%s)", c.Color)
	}
	return fmt.Sprintf("%d", c.Value)
}

// Board is the 4x4 grid of cards. Occupancy lives on the cards and is
// kept consistent with player positions by the turn controller, which
// is the sole writer.
type Board struct {
	Cells [Size][Size]Card `json:"cells"`
}

// At returns the card at p. Callers must pass an in-bounds position.
func (b *Board) At(p Pos) *Card {
	return &b.Cells[p.Row][p.Col]
}

// Collapse permanently removes the card at p from future traversal.
// A collapsed card never holds an occupant.
func (b *Board) Collapse(p Pos) {
	c := b.At(p)
	c.Collapsed = true
	c.Occupant = NoPlayer
}

// Occupy records player occupying p, clearing the player's previous
// cell first.
func (b *Board) Occupy(player int, from, to Pos) {
	if b.At(from).Occupant == player {
		b.At(from).Occupant = NoPlayer
	}
	b.At(to).Occupant = player
}

// ResetCollapse clears every collapsed flag. Collapse is one-way
// during play; this exists for tests and administrative resets only.
func (b *Board) ResetCollapse() {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			b.Cells[r][c].Collapsed = false
		}
	}
}

// CheckInvariants verifies that occupancy on the board is mutually
// consistent with the given player positions and that no collapsed
// card holds an occupant. A non-nil return means the board is corrupt
// and the engine's answers cannot be trusted; callers should treat it
// as fatal rather than retry.
func (b *Board) CheckInvariants(players []Pos) error {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			card := b.Cells[r][c]
			if card.Collapsed && card.Occupant != NoPlayer {
				return fmt.Errorf("corrupt board: collapsed cell (%d,%d) has occupant %d", r, c, card.Occupant)
			}
			if card.Occupant != NoPlayer {
				if card.Occupant < 0 || card.Occupant >= len(players) {
					return fmt.Errorf("corrupt board: cell (%d,%d) occupied by unknown player %d", r, c, card.Occupant)
				}
				if players[card.Occupant] != (Pos{r, c}) {
					return fmt.Errorf("corrupt board: cell (%d,%d) claims player %d, who is at %v", r, c, card.Occupant, players[card.Occupant])
				}
			}
		}
	}
	for i, p := range players {
		if !p.InBounds() {
			return fmt.Errorf("corrupt board: player %d at out-of-range position %v", i, p)
		}
		if got := b.At(p).Occupant; got != i {
			return fmt.Errorf("corrupt board: player %d at %v but cell occupant is %d", i, p, got)
		}
	}
	return nil
}
