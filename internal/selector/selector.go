// Package selector implements the sub-profile selector (spec §4.3,
// component E): for one board, pick each seat's active sub-profile,
// honoring NS/EW role-mode coupling (driver picks, follower resolved via
// the bespoke map) and retrying the whole pick when the combination isn't
// internally resolvable (a PC/OC sub-profile whose counterparty didn't end
// up with a matching RS pick this round, or a four-seat HCP/card-count sum
// that can't deal a legal board).
package selector

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/bridgedeal/internal/roles"
	"github.com/lox/bridgedeal/profile"
	"github.com/lox/bridgedeal/validate"
)

// Choice is one seat's pick for the board: the sub-profile index and a
// pointer to the sub-profile itself, for convenient access by the matcher
// and pre-allocator.
type Choice struct {
	Index int
	Sub   *profile.SubProfile
}

// Selection maps every seat to its Choice for one board attempt.
type Selection map[profile.Seat]Choice

// ErrSelectionExhausted is returned when no internally-consistent
// selection was found within maxRetries attempts. The validator's
// cross-seat feasibility pass (spec §4.2) makes this rare in practice —
// it only fires when a profile's PC/OC resolution or sum feasibility is
// probabilistically sparse even though some admissible combination exists.
var ErrSelectionExhausted = fmt.Errorf("selector: no internally-consistent selection found within the retry budget")

// Select picks one sub-profile per seat for a board, retrying until the
// PC/OC cross-seat references resolve and the four-seat sum test passes,
// or maxRetries is exhausted. dead excludes known-dead (seat, index) pairs
// from sampling (spec §4.2's "dead sub-profiles are excluded from runtime
// selection"); pass nil to sample from every index.
func Select(hp *profile.HandProfile, rng *rand.Rand, maxRetries int, dead map[profile.Seat]map[int]bool) (Selection, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		sel := selectOnce(hp, rng, dead)
		if consistent(sel) {
			return sel, nil
		}
	}
	return nil, ErrSelectionExhausted
}

func selectOnce(hp *profile.HandProfile, rng *rand.Rand, dead map[profile.Seat]map[int]bool) Selection {
	sel := make(Selection, 4)
	nsPair := roles.Pair{Mode: hp.NSRoleMode, A: profile.North, B: profile.South, IsNS: true}
	ewPair := roles.Pair{Mode: hp.EWRoleMode, A: profile.East, B: profile.West, IsNS: false}

	selectPair(hp, nsPair, hp.NSBespoke, rng, sel, dead)
	selectPair(hp, ewPair, hp.EWBespoke, rng, sel, dead)
	return sel
}

func selectPair(hp *profile.HandProfile, p roles.Pair, bespoke profile.BespokeMap, rng *rand.Rand, sel Selection, dead map[profile.Seat]map[int]bool) {
	if !p.Coupled() {
		pickIndependent(hp, p.A, rng, sel, dead)
		pickIndependent(hp, p.B, rng, sel, dead)
		return
	}

	driver, follower := p.A, p.B
	if d, ok := p.FixedDriver(); ok {
		driver, follower = d, driverOpposite(p, d)
	} else if rng.IntN(2) == 1 {
		driver, follower = p.B, p.A
	}

	driverSP := hp.SeatProfiles[driver]
	followerSP := hp.SeatProfiles[follower]
	eligible := filterDead(roles.EligibleAsDriver(driverSP, p.IsNS), dead[driver])
	weights := driverSP.NormalizedWeights(eligible)
	driverIdx := eligible[weightedPick(weights, rng)]
	followerIdx := bespoke.FollowerIndex(driverIdx)

	sel[driver] = Choice{Index: driverIdx, Sub: &driverSP.SubProfiles[driverIdx]}
	sel[follower] = Choice{Index: followerIdx, Sub: &followerSP.SubProfiles[followerIdx]}
}

func driverOpposite(p roles.Pair, driver profile.Seat) profile.Seat {
	if driver == p.A {
		return p.B
	}
	return p.A
}

func pickIndependent(hp *profile.HandProfile, seat profile.Seat, rng *rand.Rand, sel Selection, dead map[profile.Seat]map[int]bool) {
	sp := hp.SeatProfiles[seat]
	eligible := filterDead(roles.AllIndices(sp), dead[seat])
	weights := sp.NormalizedWeights(eligible)
	idx := eligible[weightedPick(weights, rng)]
	sel[seat] = Choice{Index: idx, Sub: &sp.SubProfiles[idx]}
}

// filterDead drops indices the validator marked dead for this seat. If
// every index would be filtered out (shouldn't happen once the profile
// has passed cross-seat feasibility, since every seat retains at least
// one live sub-profile overall, but a role-restricted eligible subset
// could still be entirely dead), it falls back to the unfiltered list
// rather than leaving the caller with nothing to pick from.
func filterDead(indices []int, deadSeat map[int]bool) []int {
	if len(deadSeat) == 0 {
		return indices
	}
	var out []int
	for _, i := range indices {
		if !deadSeat[i] {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return indices
	}
	return out
}

// weightedPick does a single weighted draw over a normalized weight slice,
// returning an index into weights (not a sub-profile index).
func weightedPick(weights []float64, rng *rand.Rand) int {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}

// consistent reports whether sel's four-seat combination is fully
// resolvable: every PC/OC sub-profile has a counterparty with a matching
// RS pick (spec §4.3 step 4), and the combination's total-HCP/per-suit
// card sums admit a legal deal (spec §4.2 step 3, re-checked per selection
// since a single attempt's pick can still land on a combination the
// overall profile allows elsewhere but this particular draw doesn't).
func consistent(sel Selection) bool {
	for seat, choice := range sel {
		sub := choice.Sub
		switch {
		case sub.PC != nil:
			if sel[seat.Partner()].Sub.RS == nil {
				return false
			}
		case sub.OC != nil:
			left, right := sel[seat.LeftOpponent()], sel[seat.RightOpponent()]
			if left.Sub.RS == nil && right.Sub.RS == nil {
				return false
			}
		}
	}

	choice := make(map[profile.Seat]*profile.SubProfile, 4)
	for seat, c := range sel {
		choice[seat] = c.Sub
	}
	return validate.SumsFeasible(choice)
}
