package prealloc

// pGeN[n] is the hypergeometric probability that a single 13-card hand
// dealt from a full 52-card deck holds n or more cards of a fixed suit
// (13 cards "success" out of 52, 13 draws). It's used to decide whether a
// suit-count requirement is "tight" — unlikely enough under pure random
// dealing that it needs targeted pre-allocation rather than the fill
// phase's random draw (spec §4.5). Computed once at compile time rather
// than recomputed per board; see DESIGN.md for why exact values are used,
// and TestIsTightBoundary for the boundary they are checked against (spec
// §8: 5 cards tight at threshold 0.19, 4 cards not tight).
var pGeN = [14]float64{
	0: 1.0,
	1: 0.987209,
	2: 0.907147,
	3: 0.701274,
	4: 0.414944,
	5: 0.176336,
	6: 0.051644,
	7: 0.010080,
	8: 0.001264,
	9: 0.000097,
	10: 0.000004,
	11: 0.0,
	12: 0.0,
	13: 0.0,
}

// isTight reports whether requiring n or more cards of a suit is unlikely
// enough (below threshold) that it needs pre-allocation.
func isTight(n int, threshold float64) bool {
	if n < 0 {
		n = 0
	}
	if n > 13 {
		n = 13
	}
	return pGeN[n] < threshold
}
