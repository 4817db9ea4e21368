package engine

import (
	"fmt"
	"math/rand"
	"sort"
)

// Layout describes the deck dealt onto a fresh board: how many
// numbered cards of each value. The two jokers (one per player) are
// always added on top, so the counts must total Size*Size - 2.
type Layout struct {
	Counts map[int]int
}

// StandardLayout is the default deck: four each of 1, 2 and 3, and two
// 4s, plus the two jokers.
func StandardLayout() Layout {
	return Layout{Counts: map[int]int{1: 4, 2: 4, 3: 4, 4: 2}}
}

// Validate checks that the layout fills the board exactly.
func (l Layout) Validate() error {
	total := 0
	for value, count := range l.Counts {
		if value < 1 || value > Size {
			return fmt.Errorf("layout: card value %d out of range 1..%d", value, Size)
		}
		if count < 0 {
			return fmt.Errorf("layout: negative count %d for value %d", count, value)
		}
		total += count
	}
	if total != Size*Size-2 {
		return fmt.Errorf("layout: numbered cards must total %d, got %d", Size*Size-2, total)
	}
	return nil
}

// deal shuffles the deck onto a board and returns it together with the
// joker positions, indexed by player (0 = red, 1 = blue). The result
// is deterministic for a given rng state.
func (l Layout) deal(rng *rand.Rand) (Board, [2]Pos) {
	deck := make([]Card, 0, Size*Size)
	deck = append(deck,
		Card{Value: JokerValue, Color: Red, Occupant: NoPlayer},
		Card{Value: JokerValue, Color: Blue, Occupant: NoPlayer},
	)
	values := make([]int, 0, len(l.Counts))
	for v := range l.Counts {
		values = append(values, v)
	}
	sort.Ints(values)
	for _, v := range values {
		for i := 0; i < l.Counts[v]; i++ {
			deck = append(deck, Card{Value: v, Occupant: NoPlayer})
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	var b Board
	var jokers [2]Pos
	for i, card := range deck {
		p := Pos{Row: i / Size, Col: i % Size}
		b.Cells[p.Row][p.Col] = card
		if card.IsJoker() {
			if card.Color == Red {
				jokers[0] = p
			} else {
				jokers[1] = p
			}
		}
	}
	return b, jokers
}
