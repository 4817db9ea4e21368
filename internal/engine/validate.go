package engine

// ValidateMove re-derives the legality of an externally supplied
// candidate path for the given mover, regardless of how the path was
// produced. Checks run in a fixed order and short-circuit on the first
// failure, returning a *MoveError with a stable Reason. The board is
// never mutated.
//
// The distance rule comes from the card the mover starts the turn on:
// a numbered card demands exactly Value steps, a joker accepts 1..4.
// Joker paths additionally may not pass through an occupied cell,
// since a joker move is committed as single steps (see
// LegalDestinations).
func ValidateMove(b *Board, players []Pos, path []Pos, mover int) error {
	// 1. Structure: a real mover and a non-empty, in-range path that
	// begins where the mover stands.
	if mover < 0 || mover >= len(players) {
		return reject(ReasonInvalidInput, "unknown mover %d", mover)
	}
	if len(path) == 0 {
		return reject(ReasonInvalidInput, "empty path")
	}
	for _, p := range path {
		if !p.InBounds() {
			return reject(ReasonInvalidInput, "position %v out of range", p)
		}
	}
	if path[0] != players[mover] {
		return reject(ReasonWrongStart, "path starts at %v, mover is at %v", path[0], players[mover])
	}

	// 2. Every consecutive pair is one wraparound step apart.
	for i := 1; i < len(path); i++ {
		if !path[i-1].Adjacent(path[i]) {
			return reject(ReasonNotAdjacent, "%v to %v", path[i-1], path[i])
		}
	}

	// 3. No cell is visited twice within the turn.
	for i := 1; i < len(path); i++ {
		if containsPos(path[:i], path[i]) {
			return reject(ReasonRevisitedCell, "%v", path[i])
		}
	}

	// 4. No non-start cell is collapsed. The start cannot be collapsed
	// while the mover stands on it.
	for _, p := range path[1:] {
		if b.At(p).Collapsed {
			return reject(ReasonCollapsedCell, "%v", p)
		}
	}

	// 5. Path length matches the origin card's distance rule.
	origin := b.At(path[0])
	steps := len(path) - 1
	if origin.IsJoker() {
		if steps < 1 || steps > Size {
			return reject(ReasonWrongDistance, "joker move must take 1 to %d steps, got %d", Size, steps)
		}
	} else if steps != origin.Value {
		return reject(ReasonWrongDistance, "card requires exactly %d steps, got %d", origin.Value, steps)
	}

	// 6. The move must go somewhere.
	dest := path[len(path)-1]
	if dest == path[0] {
		return reject(ReasonEndsOnStart, "%v", dest)
	}

	// 7. The landing cell is free. Joker paths also may not stand on an
	// occupied cell mid-move.
	if b.At(dest).Occupant != NoPlayer {
		return reject(ReasonDestOccupied, "%v occupied by player %d", dest, b.At(dest).Occupant)
	}
	if origin.IsJoker() {
		for _, p := range path[1 : len(path)-1] {
			if b.At(p).Occupant != NoPlayer {
				return reject(ReasonDestOccupied, "joker step onto occupied cell %v", p)
			}
		}
	}
	return nil
}
