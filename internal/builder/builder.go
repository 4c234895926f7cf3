package builder

import (
	"fmt"
	"math/rand/v2"

	"github.com/coder/quartz"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/internal/config"
	"github.com/lox/bridgedeal/internal/exclusion"
	"github.com/lox/bridgedeal/internal/planner"
	"github.com/lox/bridgedeal/internal/prealloc"
	"github.com/lox/bridgedeal/internal/randutil"
	"github.com/lox/bridgedeal/internal/selector"
	"github.com/lox/bridgedeal/match"
	"github.com/lox/bridgedeal/profile"
	"github.com/lox/bridgedeal/validate"
)

// Board is one successfully built board: the final hands, which suits
// satisfied each seat's RS constraint (if any), the sub-profile selection
// that produced it, and the attribution of every failed attempt along the
// way.
type Board struct {
	Hands       map[profile.Seat]card.Hand
	RSChosen    map[profile.Seat][]card.Suit
	Selection   selector.Selection
	Attribution *Attribution
}

// BoardExhaustedError is returned when MaxBoardRetries outer retries, each
// up to MaxBoardAttempts inner attempts, are exhausted without producing a
// conforming board (spec §4.6/§4.8/§7).
type BoardExhaustedError struct {
	Attribution *Attribution
}

func (e *BoardExhaustedError) Error() string {
	return fmt.Sprintf("builder: exhausted %d attempts without a conforming board", e.Attribution.TotalAttempts)
}

// BuildBoard runs the attempt/retry/re-roll/re-seed loop (spec §4.6) to
// produce one conforming board. seed is the deterministic starting seed;
// clock and reproducible together control the adaptive re-seed behavior:
// when reproducible is true, wall-clock re-seeding is disabled entirely so
// the same seed always retraces the same sequence of attempts (spec §5).
//
// Two nested loops mirror spec §4.6/§4.8: an outer board-retry loop (up to
// MaxBoardRetries), each of which selects sub-profiles, plans the dealing
// order, and pre-selects RS suits fresh before running an inner
// attempt loop (up to MaxBoardAttempts) that re-shuffles and re-allocates
// every attempt, re-rolling sub-profiles or RS suits at adaptive interval
// boundaries without restarting the outer retry.
func BuildBoard(hp *profile.HandProfile, seed int64, clock quartz.Clock, reproducible bool, tuning config.Tuning, hooks Hooks) (*Board, int, error) {
	excl, err := buildExclusionSets(hp)
	if err != nil {
		return nil, 0, err
	}
	// Computed once per board: hp has already passed ValidateProfile
	// before BuildBoard is ever called (spec §4.8), so its dead-sub-profile
	// set doesn't change across this board's retries/attempts.
	dead := validate.DeadSubProfiles(hp)

	attrib := NewAttribution()
	rng := randutil.New(seed)
	start := clock.Now()
	reseedCount := 0

	for boardRetry := 1; boardRetry <= tuning.MaxBoardRetries; boardRetry++ {
		if !reproducible && clock.Since(start).Seconds() > tuning.ReseedThresholdSeconds {
			if newRng, newSeed, rerr := randutil.Reseed(); rerr == nil {
				rng, seed = newRng, newSeed
				start = clock.Now()
				reseedCount++
			}
		}

		board, ok := runAttemptCycle(hp, excl, dead, rng, tuning, attrib, hooks)
		if ok {
			board.Attribution = attrib
			if hooks.OnBoardSuccess != nil {
				hooks.OnBoardSuccess(attrib)
			}
			return board, reseedCount, nil
		}
	}

	if hooks.OnMaxAttempts != nil {
		hooks.OnMaxAttempts(attrib)
	}
	return nil, reseedCount, &BoardExhaustedError{Attribution: attrib}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func round(x float64) int {
	return int(x + 0.5)
}

// runAttemptCycle runs one full §4.6 cycle: select sub-profiles, plan the
// dealing order, pre-select RS suits, then loop up to MaxBoardAttempts
// attempts, re-rolling sub-profiles (and RS suits with them) or just RS
// suits at adaptive interval boundaries. ok is true only if some attempt
// within this cycle produced a fully matched board.
func runAttemptCycle(hp *profile.HandProfile, excl map[profile.Seat]exclusion.Set, dead map[profile.Seat]map[int]bool, rng *rand.Rand, tuning config.Tuning, attrib *Attribution, hooks Hooks) (*Board, bool) {
	sel, err := selector.Select(hp, rng, tuning.MaxSelectionRetries, dead)
	if err != nil {
		attrib.TotalAttempts++
		attrib.SeatFailGlobalOther++
		if hooks.OnAttemptFailure != nil {
			hooks.OnAttemptFailure(profile.North, attrib)
		}
		return nil, false
	}
	order := planner.Plan(sel, hp.Dealer)
	rsChosen := prealloc.ChooseRS(sel, order, rng)

	iSub := tuning.SubRerollInitial
	iRs := round(float64(iSub) * tuning.RsRerollRatio)
	attemptsSinceSubReroll := 0
	attemptsSinceRsReroll := 0

	for attempt := 1; attempt <= tuning.MaxBoardAttempts; attempt++ {
		attrib.TotalAttempts++

		result, allocErr := prealloc.AllocateWithRS(sel, order, rsChosen, rng, tuning)
		if allocErr != nil {
			// Phase-2 HCP infeasibility isn't attributable to a single seat
			// (spec §4.5 step 2 rejects the whole attempt); credit it as a
			// global failure rather than guessing a seat.
			attrib.SeatFailGlobalOther++
			if hooks.OnAttemptFailure != nil {
				hooks.OnAttemptFailure(profile.North, attrib)
			}
		} else {
			failSeat, failed := matchAll(order, sel, result, excl, rng, attrib)
			if !failed {
				return &Board{Hands: result.Hands, RSChosen: result.RSChosen, Selection: sel}, true
			}
			if hooks.OnAttemptFailure != nil {
				hooks.OnAttemptFailure(failSeat, attrib)
			}
		}

		attemptsSinceSubReroll++
		attemptsSinceRsReroll++
		switch {
		case attemptsSinceSubReroll >= iSub:
			iSub = max(tuning.SubRerollMin, round(float64(iSub)*tuning.SubRerollDecay))
			iRs = round(float64(iSub) * tuning.RsRerollRatio)
			if newSel, selErr := selector.Select(hp, rng, tuning.MaxSelectionRetries, dead); selErr == nil {
				sel = newSel
				order = planner.Plan(sel, hp.Dealer)
			}
			rsChosen = prealloc.ChooseRS(sel, order, rng)
			attemptsSinceSubReroll = 0
			attemptsSinceRsReroll = 0
		case attemptsSinceRsReroll >= iRs:
			rsChosen = prealloc.ChooseRS(sel, order, rng)
			attemptsSinceRsReroll = 0
		}
	}

	return nil, false
}

// matchAll runs the matcher over every seat in dealing order (spec §4.6:
// "for seat in dealing_order"), stopping at the first failure so seats
// later in the order are never checked that attempt. On failure it splits
// the other three seats' attribution into seats already matched earlier in
// order (SeatFailGlobalPassed) and seats not yet reached (
// SeatFailGlobalUnchecked) — distinct §4.7 counters.
func matchAll(order []profile.Seat, sel selector.Selection, result prealloc.Result, excl map[profile.Seat]exclusion.Set, rng *rand.Rand, attrib *Attribution) (profile.Seat, bool) {
	for i, seat := range order {
		sub := sel[seat].Sub
		opts := match.Options{
			RSChosen:   result.RSChosen[seat],
			Exclusions: excl[seat],
			RNG:        rng,
		}
		if sub.PC != nil {
			opts.PartnerChoice = counterpartyChoice(seat.Partner(), sel, result)
		}
		if sub.OC != nil {
			opts.OpponentChoice = opponentChoiceFor(seat, sel, result)
		}

		res := match.Match(result.Hands[seat], sub, opts)
		if res.OK {
			continue
		}
		attrib.SeatFailAsSeat[seat]++
		switch res.Fail {
		case match.ShapeFail:
			attrib.SeatFailShape[seat]++
		case match.HcpFail:
			attrib.SeatFailHCP[seat]++
		}
		for _, passed := range order[:i] {
			attrib.SeatFailGlobalPassed[passed]++
		}
		for _, unchecked := range order[i+1:] {
			attrib.SeatFailGlobalUnchecked[unchecked]++
		}
		return seat, true
	}
	return 0, false
}

func counterpartyChoice(seat profile.Seat, sel selector.Selection, result prealloc.Result) *match.CounterpartyChoice {
	sub := sel[seat].Sub
	if sub.RS == nil {
		return nil
	}
	return &match.CounterpartyChoice{Allowed: sub.RS.AllowedSuits, Chosen: result.RSChosen[seat]}
}

func opponentChoiceFor(seat profile.Seat, sel selector.Selection, result prealloc.Result) *match.CounterpartyChoice {
	if cc := counterpartyChoice(seat.LeftOpponent(), sel, result); cc != nil {
		return cc
	}
	return counterpartyChoice(seat.RightOpponent(), sel, result)
}

func buildExclusionSets(hp *profile.HandProfile) (map[profile.Seat]exclusion.Set, error) {
	sets := make(map[profile.Seat]exclusion.Set, 4)
	for _, seat := range profile.Seats {
		sp := hp.SeatProfiles[seat]
		set, err := exclusion.Build(sp.ExclusionClauses)
		if err != nil {
			return nil, profile.Infeasiblef("seat %s: %v", seat, err)
		}
		sets[seat] = set
	}
	return sets, nil
}
