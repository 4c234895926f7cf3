// Package match implements the matcher (spec §4.1): given a dealt hand and
// a sub-profile, decide pass/fail and classify any failure as shape- or
// HCP-driven.
package match

import (
	"math/rand/v2"
	"sort"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/internal/exclusion"
	"github.com/lox/bridgedeal/profile"
)

// FailKind classifies why a match failed.
type FailKind uint8

const (
	// NoFail is the zero value, meaning the match succeeded.
	NoFail FailKind = iota
	ShapeFail
	HcpFail
)

func (k FailKind) String() string {
	switch k {
	case ShapeFail:
		return "shape"
	case HcpFail:
		return "hcp"
	default:
		return "none"
	}
}

// CounterpartyChoice is the RS suit selection a partner or opponent pair
// made for the board, as needed to resolve a PartnerContingent or
// OpponentContingent constraint.
type CounterpartyChoice struct {
	Allowed []card.Suit
	Chosen  []card.Suit
}

// nonChosen returns the first suit in Allowed (in Allowed order) that is
// not in Chosen; when exactly one allowed suit is left over, that is the
// unique non-chosen suit. The validator's cross-seat feasibility pass
// requires at least one left-over suit for a UseNonChosenSuit PC/OC to be
// live, not exactly one.
func (c CounterpartyChoice) nonChosen() (card.Suit, bool) {
	chosen := map[card.Suit]bool{}
	for _, s := range c.Chosen {
		chosen[s] = true
	}
	for _, s := range c.Allowed {
		if !chosen[s] {
			return s, true
		}
	}
	return 0, false
}

// Options carries the per-attempt context the matcher needs beyond the
// hand and sub-profile itself.
type Options struct {
	// RSChosen is the pre-committed RS suit selection for this hand, set
	// by the pre-allocator in the builder's normal path (spec §4.1 step
	// 3). Nil means "not yet committed" — the matcher enumerates.
	RSChosen []card.Suit
	// PartnerChoice / OpponentChoice resolve PC/OC constraints.
	PartnerChoice  *CounterpartyChoice
	OpponentChoice *CounterpartyChoice
	// Exclusions is the seat's compiled shape-exclusion set (spec §3,
	// §4.9 of SPEC_FULL).
	Exclusions exclusion.Set
	// RNG is carried for callers but Match does not read it: when no
	// pre-commitment is supplied, equally-easy RS candidates keep their
	// AllowedSuits order, so matching stays deterministic.
	RNG *rand.Rand
}

// Result is the outcome of a match attempt.
type Result struct {
	OK       bool
	Fail     FailKind
	RSChosen []card.Suit // the suits that were used to satisfy RS, if any
}

// Match decides whether hand satisfies sub under opts.
func Match(hand card.Hand, sub *profile.SubProfile, opts Options) Result {
	counts := hand.SuitCounts()
	hcp := hand.SuitHCP()
	total := hand.TotalHCP()

	if sub.RS == nil {
		if r, ok := checkStandard(sub.Standard, counts, hcp, total, nil); !ok {
			return r
		}
		return finishMatch(hand, sub, opts, nil)
	}

	if opts.RSChosen != nil {
		skip := suitSet(opts.RSChosen)
		if r, ok := checkStandard(sub.Standard, counts, hcp, total, skip); !ok {
			return r
		}
		if r, ok := checkRSSuits(sub.RS, opts.RSChosen, counts, hcp); !ok {
			return r
		}
		return finishMatch(hand, sub, opts, opts.RSChosen)
	}

	// No pre-commitment: enumerate candidate chosen-suit subsets, easiest
	// first, and accept the first that passes both the (suit-skipping)
	// standard check and the RS per-suit check.
	candidates := rsCandidates(sub.RS, counts)
	var firstFailure Result
	haveFailure := false
	for _, cand := range candidates {
		skip := suitSet(cand)
		r, ok := checkStandard(sub.Standard, counts, hcp, total, skip)
		if !ok {
			if !haveFailure {
				firstFailure, haveFailure = r, true
			}
			continue
		}
		r, ok = checkRSSuits(sub.RS, cand, counts, hcp)
		if !ok {
			if !haveFailure {
				firstFailure, haveFailure = r, true
			}
			continue
		}
		return finishMatch(hand, sub, opts, cand)
	}
	if haveFailure {
		return firstFailure
	}
	// No candidates at all (shouldn't happen given validate's structural
	// pass requires RequiredSuitsCount <= len(AllowedSuits)), but fail
	// safe as a shape failure.
	return Result{OK: false, Fail: ShapeFail}
}

func suitSet(suits []card.Suit) map[card.Suit]bool {
	m := make(map[card.Suit]bool, len(suits))
	for _, s := range suits {
		m[s] = true
	}
	return m
}

// checkStandard evaluates StandardConstraints, skipping per-suit checks
// for suits in skip. Total HCP is always checked. Returns ok=false with a
// classified Result on the first violation (spec §4.1 step 2): total-HCP
// or per-suit-HCP violations classify as HcpFail, per-suit count
// violations classify as ShapeFail.
func checkStandard(sc profile.StandardConstraints, counts, hcp [4]int, total int, skip map[card.Suit]bool) (Result, bool) {
	if total < sc.TotalHCPMin || total > sc.TotalHCPMax {
		return Result{OK: false, Fail: HcpFail}, false
	}
	for _, s := range card.Suits {
		if skip[s] {
			continue
		}
		r := sc.Suit(s)
		if counts[s] < r.MinCards || counts[s] > r.MaxCards {
			return Result{OK: false, Fail: ShapeFail}, false
		}
		if hcp[s] < r.MinHCP || hcp[s] > r.MaxHCP {
			return Result{OK: false, Fail: HcpFail}, false
		}
	}
	return Result{}, true
}

// checkRSSuits checks each chosen suit against its pair override (if any)
// or the RS constraint's per-suit range.
func checkRSSuits(rs *profile.RandomSuitConstraint, chosen []card.Suit, counts, hcp [4]int) (Result, bool) {
	for _, s := range chosen {
		r := rs.RangeFor(s)
		if counts[s] < r.MinCards || counts[s] > r.MaxCards {
			return Result{OK: false, Fail: ShapeFail}, false
		}
		if hcp[s] < r.MinHCP || hcp[s] > r.MaxHCP {
			return Result{OK: false, Fail: HcpFail}, false
		}
	}
	return Result{}, true
}

// rsCandidates enumerates subsets of AllowedSuits of size
// RequiredSuitsCount, ordering each suit by how close its current count is
// to PerSuitRange.MinCards (closer = easier) and then combining suits in
// that easiness order so the first candidates tried are the ones most
// likely to already satisfy the RS range (spec §4.1 step 3).
func rsCandidates(rs *profile.RandomSuitConstraint, counts [4]int) [][]card.Suit {
	suits := append([]card.Suit(nil), rs.AllowedSuits...)
	sort.SliceStable(suits, func(i, j int) bool {
		di := abs(counts[suits[i]] - rs.PerSuitRange.MinCards)
		dj := abs(counts[suits[j]] - rs.PerSuitRange.MinCards)
		return di < dj
	})
	var out [][]card.Suit
	var combine func(start int, chosen []card.Suit)
	combine = func(start int, chosen []card.Suit) {
		if len(chosen) == rs.RequiredSuitsCount {
			cp := append([]card.Suit(nil), chosen...)
			out = append(out, cp)
			return
		}
		for i := start; i < len(suits); i++ {
			combine(i+1, append(chosen, suits[i]))
		}
	}
	combine(0, nil)
	sort.SliceStable(out, func(i, j int) bool {
		return candidateEase(out[i], counts, rs) < candidateEase(out[j], counts, rs)
	})
	return out
}

func candidateEase(cand []card.Suit, counts [4]int, rs *profile.RandomSuitConstraint) int {
	sum := 0
	for _, s := range cand {
		sum += abs(counts[s] - rs.PerSuitRange.MinCards)
	}
	return sum
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// finishMatch runs the PC/OC check (if any) and the exclusion-clause check
// against the hand, given the (possibly just-resolved) RS chosen suits.
func finishMatch(hand card.Hand, sub *profile.SubProfile, opts Options, rsChosen []card.Suit) Result {
	counts := hand.SuitCounts()
	hcp := hand.SuitHCP()

	if sub.PC != nil {
		if r, ok := checkContingent(sub.PC, opts.PartnerChoice, counts, hcp); !ok {
			return r
		}
	}
	if sub.OC != nil {
		if r, ok := checkContingent(sub.OC, opts.OpponentChoice, counts, hcp); !ok {
			return r
		}
	}
	if opts.Exclusions.Forbidden(hand) {
		return Result{OK: false, Fail: ShapeFail}
	}
	return Result{OK: true, RSChosen: rsChosen}
}

func checkContingent(cc *profile.ContingentConstraint, choice *CounterpartyChoice, counts, hcp [4]int) (Result, bool) {
	if choice == nil {
		// No counterparty RS choice available to resolve against: treat
		// as an unsatisfiable contingent constraint rather than silently
		// passing. The validator marks PC/OC sub-profiles with no possible
		// counterparty RS dead, and the selector rejects draws whose PC/OC
		// counterparty holds no RS, so the builder does not reach this.
		return Result{OK: false, Fail: ShapeFail}, false
	}
	var target card.Suit
	if cc.UseNonChosenSuit {
		s, ok := choice.nonChosen()
		if !ok {
			return Result{OK: false, Fail: ShapeFail}, false
		}
		target = s
	} else if len(choice.Chosen) > 0 {
		target = choice.Chosen[0]
	} else {
		return Result{OK: false, Fail: ShapeFail}, false
	}
	r := cc.SuitRange
	if counts[target] < r.MinCards || counts[target] > r.MaxCards {
		return Result{OK: false, Fail: ShapeFail}, false
	}
	if hcp[target] < r.MinHCP || hcp[target] > r.MaxHCP {
		return Result{OK: false, Fail: HcpFail}, false
	}
	return Result{}, true
}
