// Package planner implements the dealing-order planner (spec §4.4,
// component F): decides which seat's cards get pre-allocated first, so the
// hardest-to-satisfy seats draw from the fullest possible deck.
package planner

import (
	"sort"

	"github.com/lox/bridgedeal/internal/selector"
	"github.com/lox/bridgedeal/profile"
)

// riskScore ranks how constrained a seat's chosen sub-profile is: a random
// suit pick is the hardest to satisfy (the suit itself is still open),
// contingent constraints are next (they depend on another seat resolving
// first), and a purely standard sub-profile is the easiest.
func riskScore(sub *profile.SubProfile) float64 {
	switch {
	case sub.RS != nil:
		return 1.0
	case sub.PC != nil, sub.OC != nil:
		return 0.5
	default:
		return 0.0
	}
}

func hcpRangeWidth(sub *profile.SubProfile) int {
	return sub.MaxTotalHCP() - sub.MinTotalHCP()
}

// Plan orders the four seats for dealing: highest risk score first, ties
// broken by narrower total-HCP range (tighter constraint first), then by
// clockwise distance from the dealer (closer to the dealer first).
func Plan(sel selector.Selection, dealer profile.Seat) []profile.Seat {
	order := append([]profile.Seat(nil), profile.Seats[:]...)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := sel[order[i]].Sub, sel[order[j]].Sub
		ra, rb := riskScore(a), riskScore(b)
		if ra != rb {
			return ra > rb
		}
		wa, wb := hcpRangeWidth(a), hcpRangeWidth(b)
		if wa != wb {
			return wa < wb
		}
		return dealer.ClockwiseDistance(order[i]) < dealer.ClockwiseDistance(order[j])
	})
	return order
}
