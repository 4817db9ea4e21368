package engine

import "sort"

// Destination is a legal landing cell together with one exemplar path
// that reaches it. Legality only requires that some valid path exists;
// the exemplar is kept so callers can animate or display a move.
type Destination struct {
	Pos  Pos   `json:"pos"`
	Path []Pos `json:"path"`
}

// LegalDestinations enumerates every cell the mover standing on `from`
// may legally land on, given the origin card. For a numbered card the
// path length must equal the card's value exactly; for a joker the
// lengths 1 through 4 are searched in order.
//
// The exemplar path for each destination is deterministic: the
// shortest qualifying length wins, and within a length the
// lexicographically smallest direction sequence (in Dirs order) wins.
// An empty result for the active player is the game-ending condition.
//
// Joker searches treat occupied cells as blocking, because a joker
// move is committed one step at a time and the pawn can never stand on
// an occupied cell. Numbered moves jump along their path atomically,
// so they may cross an occupied cell but not land on one.
func LegalDestinations(b *Board, from Pos, card Card) []Destination {
	exemplar := make(map[Pos][]Pos)
	record := func(path []Pos) {
		dest := path[len(path)-1]
		if b.At(dest).Occupant != NoPlayer {
			return
		}
		if _, ok := exemplar[dest]; ok {
			return
		}
		exemplar[dest] = append([]Pos(nil), path...)
	}

	if card.IsJoker() {
		for steps := 1; steps <= Size; steps++ {
			walkPaths(b, from, steps, true, record)
		}
	} else {
		walkPaths(b, from, card.Value, false, record)
	}

	dests := make([]Destination, 0, len(exemplar))
	for pos, path := range exemplar {
		dests = append(dests, Destination{Pos: pos, Path: path})
	}
	sort.Slice(dests, func(i, j int) bool {
		if dests[i].Pos.Row != dests[j].Pos.Row {
			return dests[i].Pos.Row < dests[j].Pos.Row
		}
		return dests[i].Pos.Col < dests[j].Pos.Col
	})
	return dests
}

// walkPaths runs a depth-first search over simple paths of exactly
// `steps` steps starting at `from`, pruning collapsed cells, revisited
// cells, and (if blockOccupied) occupied cells. It calls emit with
// each complete path; emit must copy the slice if it keeps it.
//
// The search is iterative with an explicit frame stack: depth and
// branching are both bounded by 4, and expanding directions in Dirs
// order makes the first path to any destination the lexicographically
// smallest one.
func walkPaths(b *Board, from Pos, steps int, blockOccupied bool, emit func(path []Pos)) {
	if steps <= 0 {
		return
	}
	type frame struct {
		pos Pos
		dir int // next direction index to try from pos
	}
	stack := make([]frame, 1, steps+1)
	stack[0] = frame{pos: from}
	path := make([]Pos, 1, steps+1)
	path[0] = from

	for len(stack) > 0 {
		if len(path)-1 == steps {
			emit(path)
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}
		top := &stack[len(stack)-1]
		if top.dir == len(Dirs) {
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}
		next := top.pos.Step(Dirs[top.dir])
		top.dir++

		card := b.At(next)
		if card.Collapsed {
			continue
		}
		if blockOccupied && card.Occupant != NoPlayer {
			continue
		}
		if containsPos(path, next) {
			continue
		}
		stack = append(stack, frame{pos: next})
		path = append(path, next)
	}
}

func containsPos(path []Pos, p Pos) bool {
	for _, q := range path {
		if q == p {
			return true
		}
	}
	return false
}
