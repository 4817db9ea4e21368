package engine

import "testing"

func validateFixture() (*Board, []Pos) {
	b := boardOf(2)
	place(b, 0, Pos{1, 1})
	place(b, 1, Pos{3, 3})
	return b, []Pos{{1, 1}, {3, 3}}
}

func TestValidateMoveAccepts(t *testing.T) {
	b, players := validateFixture()
	path := []Pos{{1, 1}, {1, 2}, {2, 2}}
	if err := ValidateMove(b, players, path, 0); err != nil {
		t.Fatalf("legal path rejected: %v", err)
	}
}

func TestValidateMoveWraparoundPath(t *testing.T) {
	b, players := validateFixture()
	path := []Pos{{1, 1}, {0, 1}, {3, 1}}
	if err := ValidateMove(b, players, path, 0); err != nil {
		t.Fatalf("wraparound path rejected: %v", err)
	}
}

func TestValidateMoveReasons(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(b *Board)
		players []Pos // defaults to the fixture positions
		path    []Pos
		mover   int
		want    Reason
	}{
		{
			name:  "empty path",
			path:  nil,
			mover: 0,
			want:  ReasonInvalidInput,
		},
		{
			name:  "out of range position",
			path:  []Pos{{1, 1}, {1, 4}},
			mover: 0,
			want:  ReasonInvalidInput,
		},
		{
			name:  "unknown mover",
			path:  []Pos{{1, 1}, {1, 2}, {1, 3}},
			mover: 5,
			want:  ReasonInvalidInput,
		},
		{
			name:  "wrong start",
			path:  []Pos{{0, 0}, {0, 1}, {0, 2}},
			mover: 0,
			want:  ReasonWrongStart,
		},
		{
			name:  "non-adjacent step",
			path:  []Pos{{1, 1}, {1, 3}, {1, 2}},
			mover: 0,
			want:  ReasonNotAdjacent,
		},
		{
			name:  "revisited cell",
			path:  []Pos{{1, 1}, {1, 2}, {1, 1}},
			mover: 0,
			want:  ReasonRevisitedCell,
		},
		{
			// Red stands on a 2-card at (1,1); (1,3) is collapsed. The
			// candidate path crossing it must name the collapsed cell.
			name:  "collapsed cell",
			setup: func(b *Board) { b.Collapse(Pos{1, 3}) },
			path:  []Pos{{1, 1}, {1, 2}, {1, 3}},
			mover: 0,
			want:  ReasonCollapsedCell,
		},
		{
			name:  "too short for card",
			path:  []Pos{{1, 1}, {1, 2}},
			mover: 0,
			want:  ReasonWrongDistance,
		},
		{
			name:  "too long for card",
			path:  []Pos{{1, 1}, {1, 2}, {1, 3}, {2, 3}},
			mover: 0,
			want:  ReasonWrongDistance,
		},
		{
			name:    "destination occupied",
			setup:   func(b *Board) { b.At(Pos{3, 3}).Occupant = NoPlayer; place(b, 1, Pos{2, 2}) },
			players: []Pos{{1, 1}, {2, 2}},
			path:    []Pos{{1, 1}, {1, 2}, {2, 2}},
			mover:   0,
			want:    ReasonDestOccupied,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, players := validateFixture()
			if tc.setup != nil {
				tc.setup(b)
			}
			if tc.players != nil {
				players = tc.players
			}
			err := ValidateMove(b, players, tc.path, tc.mover)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if got := ReasonOf(err); got != tc.want {
				t.Fatalf("reason %q, want %q (%v)", got, tc.want, err)
			}
		})
	}
}

func TestValidateMoveEndsOnStart(t *testing.T) {
	// A 4-card can loop an entire row back to its start; the loop is
	// adjacent and non-revisiting until the final cell.
	b := boardOf(4)
	place(b, 0, Pos{1, 0})
	players := []Pos{{1, 0}, {3, 3}}
	place(b, 1, Pos{3, 3})
	path := []Pos{{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 0}}
	err := ValidateMove(b, players, path, 0)
	if err == nil {
		t.Fatal("expected rejection")
	}
	// The start repeats, which the no-revisit rule catches first.
	if got := ReasonOf(err); got != ReasonRevisitedCell {
		t.Fatalf("reason %q, want %q", got, ReasonRevisitedCell)
	}
}

func TestValidateMoveJokerDistances(t *testing.T) {
	b := boardOf(2)
	setJoker(b, Pos{0, 0}, Red)
	place(b, 0, Pos{0, 0})
	place(b, 1, Pos{2, 2})
	players := []Pos{{0, 0}, {2, 2}}

	for _, path := range [][]Pos{
		{{0, 0}, {0, 1}},
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {2, 0}},
	} {
		if err := ValidateMove(b, players, path, 0); err != nil {
			t.Errorf("joker path %v rejected: %v", path, err)
		}
	}

	// Five steps exceed the joker's range.
	long := []Pos{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {2, 0}, {2, 1}}
	if got := ReasonOf(ValidateMove(b, players, long, 0)); got != ReasonWrongDistance {
		t.Errorf("five-step joker path: reason %q, want %q", got, ReasonWrongDistance)
	}
}

func TestValidateMoveJokerCannotCrossOpponent(t *testing.T) {
	b := boardOf(2)
	setJoker(b, Pos{0, 0}, Red)
	place(b, 0, Pos{0, 0})
	place(b, 1, Pos{0, 1})
	players := []Pos{{0, 0}, {0, 1}}

	path := []Pos{{0, 0}, {0, 1}, {0, 2}}
	if got := ReasonOf(ValidateMove(b, players, path, 0)); got != ReasonDestOccupied {
		t.Errorf("joker path through opponent: reason %q, want %q", got, ReasonDestOccupied)
	}
}

func TestValidateMoveDoesNotMutate(t *testing.T) {
	b, players := validateFixture()
	before := *b
	ValidateMove(b, players, []Pos{{1, 1}, {1, 2}}, 0)
	ValidateMove(b, players, nil, 0)
	if *b != before {
		t.Fatal("validation mutated the board")
	}
}
