// Package prealloc implements the pre-allocator (spec §4.5, component G):
// before the remaining cards are dealt randomly, it targets the seats and
// suits least likely to come out right by chance (the "tight" ones, per
// the dispersion table in dispersion.go) and draws those cards first,
// rejection-sampling for HCP where a window is specified. A later
// constrained fill (phase 3) completes every hand to 13 cards. The
// pre-allocator only biases the deal toward success; the matcher
// (package match) still has the final word; a miss here just costs the
// builder a retry (spec §4.6).
package prealloc

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/internal/config"
	"github.com/lox/bridgedeal/internal/selector"
	"github.com/lox/bridgedeal/profile"
)

// Result is one board's full card assignment plus the RS suits committed
// to during pre-allocation, which the builder feeds to the matcher as
// match.Options.RSChosen so the matcher doesn't re-enumerate.
type Result struct {
	Hands    map[profile.Seat]card.Hand
	RSChosen map[profile.Seat][]card.Suit
}

// ErrHCPInfeasibleThisAttempt is returned by the phase-2 feasibility gate
// when the cards already committed during phase 1 make it statistically
// implausible for a seat to reach its total-HCP target from the cards
// left in the pool. It is a per-attempt signal, not a profile-level
// error: the builder treats it like any other match failure and retries
// with a fresh attempt (spec §4.6).
var ErrHCPInfeasibleThisAttempt = fmt.Errorf("prealloc: hcp feasibility gate failed for this attempt")

// Allocate builds one full 52-card deal across the four seats, biased by
// sel's chosen sub-profiles and order's dealing-order ranking. It first
// pre-selects RS suits from scratch, then runs one pre-allocate + fill
// pass — a convenience for callers (tests, single-shot use) that don't
// need RS suits to survive across multiple attempts. The builder's
// attempt loop calls ChooseRS once and AllocateWithRS per attempt instead,
// so a sub-reroll boundary can re-pick RS suits independently of the
// per-attempt shuffle (spec §4.6).
func Allocate(sel selector.Selection, order []profile.Seat, rng *rand.Rand, tuning config.Tuning) (Result, error) {
	rsChosen := ChooseRS(sel, order, rng)
	return AllocateWithRS(sel, order, rsChosen, rng, tuning)
}

// ChooseRS pre-selects RS suits for every RS seat in dealing order, with
// cross-seat exclusion against earlier seats' picks (spec §4.5's "RS suit
// pre-selection", run once before the attempt loop rather than per
// attempt).
func ChooseRS(sel selector.Selection, order []profile.Seat, rng *rand.Rand) map[profile.Seat][]card.Suit {
	rsChosen := map[profile.Seat][]card.Suit{}
	for _, seat := range order {
		if sub := sel[seat].Sub; sub.RS != nil {
			rsChosen[seat] = chooseRSSuits(sub.RS, rsChosen, rng)
		}
	}
	return rsChosen
}

// AllocateWithRS runs one full pre-allocate + constrained-fill pass (spec
// §4.5 phases 1-3) against a fresh shuffle, reusing the RS suits already
// committed in rsChosen rather than re-picking them.
func AllocateWithRS(sel selector.Selection, order []profile.Seat, rsChosen map[profile.Seat][]card.Suit, rng *rand.Rand, tuning config.Tuning) (Result, error) {
	pool := fullPool(rng)
	partial := map[profile.Seat][]card.Card{
		profile.North: nil, profile.East: nil, profile.South: nil, profile.West: nil,
	}

	for _, seat := range order {
		sub := sel[seat].Sub
		switch {
		case sub.RS != nil:
			for _, s := range rsChosen[seat] {
				r := sub.RS.RangeFor(s)
				if isTight(r.MinCards, tuning.DispersionThreshold) {
					n := ceilFrac(r.MinCards, tuning.RsPreAllocFraction)
					drawn := drawWithHCPTarget(&pool, s, n, r, rng, tuning.RsHcpRetries)
					partial[seat] = append(partial[seat], drawn...)
				}
			}
		case sub.PC != nil, sub.OC != nil:
			cc, target, ok := resolveContingent(seat, sub, sel, rsChosen)
			if ok && isTight(cc.SuitRange.MinCards, tuning.DispersionThreshold) {
				drawn := drawWithHCPTarget(&pool, target, cc.SuitRange.MinCards, cc.SuitRange, rng, tuning.RsHcpRetries)
				partial[seat] = append(partial[seat], drawn...)
			}
		default:
			for _, s := range card.Suits {
				r := sub.Standard.Suit(s)
				if isTight(r.MinCards, tuning.DispersionThreshold) {
					n := ceilFrac(r.MinCards, tuning.PreAllocStdFraction)
					drawn := drawWithHCPTarget(&pool, s, n, r, rng, tuning.RsHcpRetries)
					partial[seat] = append(partial[seat], drawn...)
				}
			}
		}
	}

	if err := hcpFeasible(sel, partial, pool, tuning); err != nil {
		return Result{}, err
	}

	fill(partial, sel, order, rsChosen, &pool)

	hands := make(map[profile.Seat]card.Hand, 4)
	for seat, cards := range partial {
		hands[seat] = card.Hand(cards)
	}
	return Result{Hands: hands, RSChosen: rsChosen}, nil
}

func fullPool(rng *rand.Rand) []card.Card {
	d := card.NewDeck()
	d.Shuffle(rng)
	return d.Remaining()
}

// chooseRSSuits picks RequiredSuitsCount suits from rs.AllowedSuits,
// preferring suits no earlier seat has already claimed a long holding in
// (cross-seat exclusion, spec §3/§4.5): two seats both needing a long
// holding in the same suit can't both be satisfied from one 13-card
// suit, so claims whose MinCards would together exceed 13 are avoided
// when an alternative allowed suit is available.
func chooseRSSuits(rs *profile.RandomSuitConstraint, claimed map[profile.Seat][]card.Suit, rng *rand.Rand) []card.Suit {
	claimedMin := map[card.Suit]int{}
	for _, suits := range claimed {
		for _, s := range suits {
			claimedMin[s] += rs.RangeFor(s).MinCards
		}
	}
	candidates := append([]card.Suit(nil), rs.AllowedSuits...)
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	var free, contested []card.Suit
	for _, s := range candidates {
		if claimedMin[s]+rs.RangeFor(s).MinCards > 13 {
			contested = append(contested, s)
		} else {
			free = append(free, s)
		}
	}
	ordered := append(free, contested...)
	if len(ordered) > rs.RequiredSuitsCount {
		ordered = ordered[:rs.RequiredSuitsCount]
	}
	return ordered
}

// resolveContingent determines the concrete target suit a PC/OC
// constraint resolves to, given the counterparties' RS picks (ChooseRS has
// already fixed them for every RS seat, whatever the dealing order). ok is
// false when no counterparty holds an RS pick, or, for UseNonChosenSuit,
// none has an allowed suit left over; the constraint is then left to the
// matcher, which treats an unresolved contingent as a failure and triggers
// a retry.
func resolveContingent(seat profile.Seat, sub *profile.SubProfile, sel selector.Selection, rsChosen map[profile.Seat][]card.Suit) (*profile.ContingentConstraint, card.Suit, bool) {
	cc := sub.PC
	var counterparties []profile.Seat
	if cc != nil {
		counterparties = []profile.Seat{seat.Partner()}
	} else {
		cc = sub.OC
		counterparties = []profile.Seat{seat.LeftOpponent(), seat.RightOpponent()}
	}
	for _, cp := range counterparties {
		chosen, ok := rsChosen[cp]
		if !ok || len(chosen) == 0 {
			continue
		}
		cpRS := sel[cp].Sub.RS
		if cpRS == nil {
			continue
		}
		if cc.UseNonChosenSuit {
			for _, s := range cpRS.AllowedSuits {
				if !containsSuit(chosen, s) {
					return cc, s, true
				}
			}
			continue
		}
		return cc, chosen[0], true
	}
	return cc, 0, false
}

func containsSuit(suits []card.Suit, target card.Suit) bool {
	for _, s := range suits {
		if s == target {
			return true
		}
	}
	return false
}

// drawWithHCPTarget draws n cards of suit s from pool, rejection-sampling
// up to retries times for a subset whose HCP falls within r. If no such
// subset is found (or n exceeds what's available), it falls back to
// whatever n cards of the suit it can draw.
func drawWithHCPTarget(pool *[]card.Card, s card.Suit, n int, r profile.SuitRange, rng *rand.Rand, retries int) []card.Card {
	if n <= 0 {
		return nil
	}
	avail := suitIndices(*pool, s)
	if len(avail) == 0 {
		return nil
	}
	if n > len(avail) {
		n = len(avail)
	}
	for attempt := 0; attempt < retries; attempt++ {
		rng.Shuffle(len(avail), func(i, j int) { avail[i], avail[j] = avail[j], avail[i] })
		cand := avail[:n]
		hcp := 0
		for _, idx := range cand {
			hcp += (*pool)[idx].HCP()
		}
		if hcp >= r.MinHCP && hcp <= r.MaxHCP {
			return removeIndices(pool, cand)
		}
	}
	return removeIndices(pool, avail[:n])
}

func suitIndices(pool []card.Card, s card.Suit) []int {
	var idx []int
	for i, c := range pool {
		if c.Suit() == s {
			idx = append(idx, i)
		}
	}
	return idx
}

// removeIndices extracts the cards at idx from *pool (idx need not be
// sorted) and compacts the remaining cards in place.
func removeIndices(pool *[]card.Card, idx []int) []card.Card {
	remove := map[int]bool{}
	drawn := make([]card.Card, 0, len(idx))
	for _, i := range idx {
		remove[i] = true
		drawn = append(drawn, (*pool)[i])
	}
	kept := (*pool)[:0]
	for i, c := range *pool {
		if !remove[i] {
			kept = append(kept, c)
		}
	}
	*pool = kept
	return drawn
}

// hcpFeasible is the phase-2 gate (spec §4.5 step 2): for each seat, check
// that its total-HCP target is still statistically reachable given the
// HCP already committed in phase 1 and a hypergeometric estimate of what
// the remaining pool can contribute to its still-open slots.
func hcpFeasible(sel selector.Selection, partial map[profile.Seat][]card.Card, pool []card.Card, tuning config.Tuning) error {
	poolHCP := 0
	for _, c := range pool {
		poolHCP += c.HCP()
	}
	poolSize := len(pool)
	if poolSize == 0 {
		return nil
	}
	meanPerCard := float64(poolHCP) / float64(poolSize)
	// Hypergeometric-style variance per card draw without replacement,
	// using the pool's own HCP values as the "population" (card.HCP is in
	// {0,1,2,3,4}); approximate per-card variance from the population
	// mean rather than tracking the full distribution, which is accurate
	// enough at the pool sizes phase 2 operates on (spec §4.5).
	varPerCard := 0.0
	for _, c := range pool {
		d := float64(c.HCP()) - meanPerCard
		varPerCard += d * d
	}
	varPerCard /= float64(poolSize)

	for _, seat := range profile.Seats {
		sub := sel[seat].Sub
		have := 0
		for _, c := range partial[seat] {
			have += c.HCP()
		}
		open := 13 - len(partial[seat])
		if open <= 0 {
			continue
		}
		mean := have + int(float64(open)*meanPerCard)
		finiteCorrection := 1.0
		if poolSize > 1 {
			finiteCorrection = float64(poolSize-open) / float64(poolSize-1)
		}
		variance := float64(open) * varPerCard * finiteCorrection
		sd := sqrt(variance)
		lo := float64(mean) - tuning.HcpFeasibilityNumSd*sd
		hi := float64(mean) + tuning.HcpFeasibilityNumSd*sd
		if hi < float64(sub.MinTotalHCP()) || lo > float64(sub.MaxTotalHCP()) {
			return ErrHCPInfeasibleThisAttempt
		}
	}
	return nil
}

// ceilFrac returns ceil(n * frac), the phase-1 pre-allocation count for a
// tight suit/seat (spec §4.5 phase 1): a plain int() truncation would
// under-allocate (e.g. ceil(0.75*6)=5, not int(0.75*6)=4), silently
// skipping the one seat the dispersion check exists to catch.
func ceilFrac(n int, frac float64) int {
	x := float64(n) * frac
	i := int(x)
	if float64(i) < x {
		i++
	}
	return i
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	// Newton's method; avoids importing math for one call site used only
	// for a statistical guardrail where a few iterations' precision is
	// plenty.
	z := x
	for i := 0; i < 20; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

// fill is the constrained-fill phase (spec §4.5 step 3): complete every
// non-last seat in dealing order, skipping cards that would push a suit
// count or the total HCP past its configured maximum, or push a
// pre-committed RS suit's HCP past that suit's own maximum; the last seat
// in dealing order — the least-constrained one, since the planner sorts
// by descending risk score — takes the unconstrained remainder of the
// pool rather than being fill-picked itself (the matcher has the final
// say regardless; an imperfect fill just costs a retry).
func fill(partial map[profile.Seat][]card.Card, sel selector.Selection, order []profile.Seat, rsChosen map[profile.Seat][]card.Suit, pool *[]card.Card) {
	for _, seat := range order[:len(order)-1] {
		sub := sel[seat].Sub
		for len(partial[seat]) < 13 && len(*pool) > 0 {
			idx := pickFillCard(*pool, partial[seat], sub, rsChosen[seat])
			drawn := (*pool)[idx]
			*pool = append((*pool)[:idx], (*pool)[idx+1:]...)
			partial[seat] = append(partial[seat], drawn)
		}
	}

	last := order[len(order)-1]
	partial[last] = append(partial[last], (*pool)...)
	*pool = (*pool)[:0]
}

// pickFillCard returns the index of the first pool card that honors (a)
// the seat's per-suit max card count, (b) its total-HCP max, and (c), for
// a suit already committed as one of the seat's RS picks, that suit's own
// HCP max — falling back to index 0 (the matcher rejects the resulting
// attempt if that still isn't enough; see the fill doc comment above).
func pickFillCard(pool []card.Card, have []card.Card, sub *profile.SubProfile, rsSuits []card.Suit) int {
	var counts [4]int
	hcp := 0
	for _, c := range have {
		counts[c.Suit()]++
		hcp += c.HCP()
	}
	rsHCP := map[card.Suit]int{}
	if sub.RS != nil {
		for _, s := range rsSuits {
			rsHCP[s] = 0
		}
		for _, c := range have {
			if _, ok := rsHCP[c.Suit()]; ok {
				rsHCP[c.Suit()] += c.HCP()
			}
		}
	}

	for i, c := range pool {
		s := c.Suit()
		if counts[s]+1 > maxFor(sub, s) {
			continue
		}
		if hcp+c.HCP() > sub.MaxTotalHCP() {
			continue
		}
		if committed, ok := rsHCP[s]; ok {
			if committed+c.HCP() > sub.RS.RangeFor(s).MaxHCP {
				continue
			}
		}
		return i
	}
	return 0
}

func maxFor(sub *profile.SubProfile, s card.Suit) int {
	if sub.RS != nil {
		for _, allowed := range sub.RS.AllowedSuits {
			if allowed == s {
				return sub.RS.RangeFor(s).MaxCards
			}
		}
	}
	return sub.Standard.Suit(s).MaxCards
}
