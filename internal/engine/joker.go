package engine

// EndReason records why a joker turn completed. Voluntary and forced
// completions have identical board effects but are kept apart for
// telemetry and tests.
type EndReason string

const (
	EndChosen   EndReason = "chosen"       // player ended the turn voluntarily
	EndMaxSteps EndReason = "max steps"    // the four-step cap was reached
	EndNoMoves  EndReason = "no extension" // no legal single step remained
)

// JokerMoveState tracks one in-progress joker turn: the variable-length
// wild move taken as a sequence of committed single steps. It is
// created when a turn begins on a joker card and destroyed when the
// turn completes. Committed steps cannot be retracted.
type JokerMoveState struct {
	Active     bool      `json:"active"`
	Origin     Pos       `json:"origin"` // the joker cell, collapsed at completion
	Path       []Pos     `json:"path"`   // Path[0] == Origin
	StepsTaken int       `json:"stepsTaken"`
	MustEnd    bool      `json:"mustEnd"`
	ForcedBy   EndReason `json:"forcedBy,omitempty"` // set when MustEnd is forced
}

// StartJokerTurn begins a joker turn for a mover standing on `from`.
// The cell must hold an uncollapsed joker.
func StartJokerTurn(b *Board, from Pos) (*JokerMoveState, error) {
	if !from.InBounds() {
		return nil, reject(ReasonInvalidInput, "position %v out of range", from)
	}
	card := b.At(from)
	if card.Collapsed || !card.IsJoker() {
		return nil, reject(ReasonNotJoker, "cell %v holds %s", from, card)
	}
	return &JokerMoveState{
		Active: true,
		Origin: from,
		Path:   []Pos{from},
	}, nil
}

// Last returns the cell the pawn currently stands on this turn.
func (s *JokerMoveState) Last() Pos {
	return s.Path[len(s.Path)-1]
}

// CanEnd reports whether the player may end the turn voluntarily.
// At least one step must have been committed.
func (s *JokerMoveState) CanEnd() bool {
	return s.Active && s.StepsTaken >= 1
}

// Extensions lists the cells reachable by one more legal step:
// adjacent to the current cell, uncollapsed, unoccupied, and not yet
// visited this turn.
func (s *JokerMoveState) Extensions(b *Board) []Pos {
	if !s.Active || s.MustEnd {
		return nil
	}
	var out []Pos
	for _, d := range Dirs {
		next := s.Last().Step(d)
		card := b.At(next)
		if card.Collapsed || card.Occupant != NoPlayer || containsPos(s.Path, next) {
			continue
		}
		out = append(out, next)
	}
	return out
}

// Extend commits one more step of the joker turn. The step is checked
// against the whole partial path, so the no-revisit rule holds across
// the turn rather than per step. After a successful step the state may
// flip to MustEnd: either the four-step cap was reached or no further
// legal step exists.
func (s *JokerMoveState) Extend(b *Board, next Pos) error {
	if s == nil || !s.Active {
		return reject(ReasonNoJokerTurn, "")
	}
	if s.MustEnd {
		return reject(ReasonJokerMustEnd, "%s", s.ForcedBy)
	}
	if !next.InBounds() {
		return reject(ReasonInvalidInput, "position %v out of range", next)
	}
	last := s.Last()
	if !last.Adjacent(next) {
		return reject(ReasonNotAdjacent, "%v to %v", last, next)
	}
	if containsPos(s.Path, next) {
		return reject(ReasonRevisitedCell, "%v", next)
	}
	card := b.At(next)
	if card.Collapsed {
		return reject(ReasonCollapsedCell, "%v", next)
	}
	if card.Occupant != NoPlayer {
		return reject(ReasonDestOccupied, "%v occupied by player %d", next, card.Occupant)
	}

	s.Path = append(s.Path, next)
	s.StepsTaken++
	if s.StepsTaken == Size {
		s.MustEnd = true
		s.ForcedBy = EndMaxSteps
	} else if len(s.Extensions(b)) == 0 {
		s.MustEnd = true
		s.ForcedBy = EndNoMoves
	}
	return nil
}
