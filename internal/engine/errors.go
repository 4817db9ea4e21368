package engine

import (
	"errors"
	"fmt"
)

// Reason is a stable, machine-readable code for a rejected move or an
// out-of-sequence request. Reasons are part of the wire contract:
// clients and tests match on them, so they never change once shipped.
type Reason string

const (
	// Structural problems: the request itself is malformed.
	ReasonInvalidInput Reason = "invalid input"

	// Rule violations, in validation order.
	ReasonWrongStart    Reason = "path does not start at mover"
	ReasonNotAdjacent   Reason = "non-adjacent step"
	ReasonRevisitedCell Reason = "revisited cell"
	ReasonCollapsedCell Reason = "collapsed cell"
	ReasonWrongDistance Reason = "wrong distance"
	ReasonEndsOnStart   Reason = "ends on start cell"
	ReasonDestOccupied  Reason = "destination occupied"

	// Sequencing problems: a legal-looking request at the wrong time.
	ReasonNotYourTurn     Reason = "not your turn"
	ReasonGameOver        Reason = "game over"
	ReasonNotJoker        Reason = "not a joker card"
	ReasonNoJokerTurn     Reason = "no joker turn in progress"
	ReasonJokerInProgress Reason = "joker turn in progress"
	ReasonTooFewSteps     Reason = "joker turn has taken no steps"
	ReasonJokerMustEnd    Reason = "joker turn must end"
)

// MoveError is the structured rejection returned by every engine
// operation for expected failures. The board is never mutated when one
// is returned.
type MoveError struct {
	Reason Reason
	Detail string
}

func (e *MoveError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func reject(r Reason, format string, args ...any) error {
	return &MoveError{Reason: r, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the Reason from an engine error, or "" if err is
// nil or not a MoveError (e.g. a corrupt-board failure).
func ReasonOf(err error) Reason {
	var me *MoveError
	if errors.As(err, &me) {
		return me.Reason
	}
	return ""
}
