// Package builder orchestrates the selector, planner, and pre-allocator
// into the per-board attempt/retry/re-roll/re-seed loop (spec §4.6,
// component H), and attributes failures by seat and cause so a caller can
// see why a profile is hard to satisfy.
package builder

import "github.com/lox/bridgedeal/profile"

// Attribution accumulates failure counters across every attempt made for
// one board, surfaced on both success and BoardExhaustedError so a caller
// can see where the profile bit back hardest (spec §7/§8).
type Attribution struct {
	TotalAttempts int
	// SeatFailAsSeat counts the attempts where this seat's own match
	// failed first.
	SeatFailAsSeat map[profile.Seat]int
	// SeatFailGlobalOther counts attempts abandoned for a reason not
	// attributable to any single seat: phase-2 HCP infeasibility or a
	// selector resample exhaustion (spec §4.7).
	SeatFailGlobalOther int
	// SeatFailGlobalPassed counts the attempts where this seat's own match
	// already passed, earlier in dealing order, before a later seat failed
	// and the whole attempt was abandoned (spec §4.7's "passed but the
	// board failed anyway" bucket, distinct from SeatFailGlobalUnchecked).
	SeatFailGlobalPassed map[profile.Seat]int
	// SeatFailGlobalUnchecked counts the attempts where this seat was never
	// reached by the matcher at all, because an earlier seat in dealing
	// order failed first (spec §4.7).
	SeatFailGlobalUnchecked map[profile.Seat]int
	SeatFailShape           map[profile.Seat]int
	SeatFailHCP             map[profile.Seat]int
}

// NewAttribution returns a zeroed Attribution with its per-seat maps
// initialized for all four seats.
func NewAttribution() *Attribution {
	a := &Attribution{
		SeatFailAsSeat:          map[profile.Seat]int{},
		SeatFailGlobalPassed:    map[profile.Seat]int{},
		SeatFailGlobalUnchecked: map[profile.Seat]int{},
		SeatFailShape:           map[profile.Seat]int{},
		SeatFailHCP:             map[profile.Seat]int{},
	}
	for _, s := range profile.Seats {
		a.SeatFailAsSeat[s] = 0
		a.SeatFailGlobalPassed[s] = 0
		a.SeatFailGlobalUnchecked[s] = 0
		a.SeatFailShape[s] = 0
		a.SeatFailHCP[s] = 0
	}
	return a
}

// Hooks lets a caller observe the builder's progress in real time (e.g.
// internal/tui's live dashboard) without the builder depending on any
// particular UI.
type Hooks struct {
	// OnAttemptFailure is called after every failed attempt with the seat
	// that failed first (or profile.North as a zero value when the
	// failure was a pre-allocation-level infeasibility rather than a
	// specific seat's match) and the running Attribution.
	OnAttemptFailure func(seat profile.Seat, attrib *Attribution)
	// OnMaxAttempts is called once, if a board exhausts its attempt
	// budget, with the final Attribution.
	OnMaxAttempts func(attrib *Attribution)
	// OnBoardSuccess is called once a board is built successfully, with
	// the final Attribution for that board.
	OnBoardSuccess func(attrib *Attribution)
}
