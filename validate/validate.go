// Package validate implements the validator (spec §4.2): three passes over
// a HandProfile of increasing cost — structural, coupling feasibility, and
// cross-seat feasibility — that together decide whether generate_deals can
// ever produce a conforming board from the profile.
package validate

import (
	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/internal/roles"
	"github.com/lox/bridgedeal/profile"
)

// DeadSubProfile names a sub-profile that can structurally never be
// satisfied: either its PC/OC constraint has no counterparty seat that
// could ever supply a resolvable RS choice, or it never appears in any
// admissible four-seat combination whose total-HCP and per-suit card-count
// sums admit a full 52-card deal. It does not by itself make the profile
// infeasible (other sub-profiles on the seat may carry the seat), but it
// is surfaced as a warning since it can never be selected successfully.
type DeadSubProfile struct {
	Seat  profile.Seat
	Index int
	Name  string
}

// FeasibilityReport is the result of the full three-pass validation,
// returned by ValidateProfileFeasibility for callers that want dead
// sub-profile warnings in addition to a pass/fail verdict.
type FeasibilityReport struct {
	DeadSubProfiles []DeadSubProfile
}

// ValidateProfile runs all three passes and returns the first error
// encountered, without collecting dead sub-profile warnings. This is the
// cheap form generate_deals calls once per run (spec §4.8).
func ValidateProfile(hp *profile.HandProfile) error {
	if err := hp.ValidateStructural(); err != nil {
		return err
	}
	if err := couplingFeasible(hp); err != nil {
		return err
	}
	_, err := crossSeatFeasible(hp)
	return err
}

// ValidateProfileFeasibility runs all three passes and, on success, also
// returns a FeasibilityReport of non-fatal warnings (spec §6).
func ValidateProfileFeasibility(hp *profile.HandProfile) (*FeasibilityReport, error) {
	if err := hp.ValidateStructural(); err != nil {
		return nil, err
	}
	if err := couplingFeasible(hp); err != nil {
		return nil, err
	}
	return crossSeatFeasible(hp)
}

// DeadSubProfiles computes the per-seat dead-index set for an hp that has
// already passed ValidateProfile, for callers (the selector) that need to
// exclude dead indices from runtime sampling without paying for the error
// path again (spec §4.2/§4.3). A profile that fails validation has no
// well-defined dead set; callers must validate first.
func DeadSubProfiles(hp *profile.HandProfile) map[profile.Seat]map[int]bool {
	report, err := crossSeatFeasible(hp)
	if err != nil {
		return nil
	}
	dead := map[profile.Seat]map[int]bool{
		profile.North: {}, profile.East: {}, profile.South: {}, profile.West: {},
	}
	for _, d := range report.DeadSubProfiles {
		dead[d.Seat][d.Index] = true
	}
	return dead
}

func pairs(hp *profile.HandProfile) []roles.Pair {
	return []roles.Pair{
		{Mode: hp.NSRoleMode, A: profile.North, B: profile.South, IsNS: true},
		{Mode: hp.EWRoleMode, A: profile.East, B: profile.West, IsNS: false},
	}
}

func bespokeFor(hp *profile.HandProfile, isNS bool) profile.BespokeMap {
	if isNS {
		return hp.NSBespoke
	}
	return hp.EWBespoke
}

// couplingFeasible is the validator's second pass (spec §4.2 step 2): for
// every coupled pair and every runtime driver/follower direction it could
// take, there must be at least one admissible (driver index, follower
// index) combination. A *RandomDriver pair with a bespoke map additionally
// requires both seats to carry the same number of sub-profiles, since the
// bespoke map is applied symmetrically regardless of which physical seat
// ends up driving on a given board (see DESIGN.md).
func couplingFeasible(hp *profile.HandProfile) error {
	for _, p := range pairs(hp) {
		if !p.Coupled() {
			continue
		}
		bespoke := bespokeFor(hp, p.IsNS)
		if p.RandomDriver() && bespoke != nil {
			aSP, bSP := hp.SeatProfiles[p.A], hp.SeatProfiles[p.B]
			if len(aSP.SubProfiles) != len(bSP.SubProfiles) {
				return profile.Infeasiblef(
					"coupling: %s/%s use a random driver with a bespoke map but have unequal sub-profile counts",
					p.A, p.B)
			}
		}
		for _, dir := range p.DriverDirections() {
			driverSeat, followerSeat := dir[0], dir[1]
			driverSP, followerSP := hp.SeatProfiles[driverSeat], hp.SeatProfiles[followerSeat]
			driverIdxs := roles.EligibleAsDriver(driverSP, p.IsNS)
			followerEligible := map[int]bool{}
			for _, i := range roles.EligibleAsFollower(followerSP, p.IsNS) {
				followerEligible[i] = true
			}
			found := false
			for _, di := range driverIdxs {
				fi := bespoke.FollowerIndex(di)
				if fi < 0 || fi >= len(followerSP.SubProfiles) {
					continue
				}
				if followerEligible[fi] {
					found = true
					break
				}
			}
			if !found {
				return profile.Infeasiblef(
					"coupling: no admissible (driver,follower) sub-profile pair for %s driving %s",
					driverSeat, followerSeat)
			}
		}
	}
	return nil
}

// seatTuple is one admissible (A-index, B-index) pair for an NS or EW
// pairing, threading through the same role/bespoke resolution as
// couplingFeasible but enumerating concrete index combinations instead of
// just checking that at least one exists.
type seatTuple struct {
	aIdx, bIdx int
}

// pairTuples enumerates every admissible (p.A index, p.B index) combination
// for a pair: the full cross product when uncoupled, or every
// bespoke-resolvable (driver,follower) pair in both runtime directions
// when coupled.
func pairTuples(hp *profile.HandProfile, p roles.Pair, bespoke profile.BespokeMap) []seatTuple {
	aSP, bSP := hp.SeatProfiles[p.A], hp.SeatProfiles[p.B]
	if !p.Coupled() {
		var out []seatTuple
		for _, ai := range roles.AllIndices(aSP) {
			for _, bi := range roles.AllIndices(bSP) {
				out = append(out, seatTuple{ai, bi})
			}
		}
		return out
	}

	seen := map[seatTuple]bool{}
	var out []seatTuple
	for _, dir := range p.DriverDirections() {
		driverSeat, followerSeat := dir[0], dir[1]
		driverSP, followerSP := hp.SeatProfiles[driverSeat], hp.SeatProfiles[followerSeat]
		followerEligible := map[int]bool{}
		for _, i := range roles.EligibleAsFollower(followerSP, p.IsNS) {
			followerEligible[i] = true
		}
		for _, di := range roles.EligibleAsDriver(driverSP, p.IsNS) {
			fi := bespoke.FollowerIndex(di)
			if fi < 0 || fi >= len(followerSP.SubProfiles) || !followerEligible[fi] {
				continue
			}
			t := seatTuple{di, fi}
			if driverSeat == p.B {
				t = seatTuple{fi, di}
			}
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// SumsFeasible is the four-seat sum test from spec §4.2 step 3 / the §3
// invariant: a four-seat sub-profile combination is admissible only if the
// total-HCP ranges and, for every suit, the per-suit card-count ranges
// collectively straddle the full deck's actual total (40 HCP, 13 cards per
// suit). RS/PC/OC sub-profiles are checked against their declared Standard
// baseline, since the suit a RandomSuitConstraint ultimately resolves to is
// a per-board runtime choice, not something fixed at validation time; this
// is a structural pre-check, not a guarantee that every runtime resolution
// of an RS/PC/OC sub-profile also satisfies the sums. Exported so the
// selector can re-check a single candidate selection per attempt (spec
// §4.3 step 4) without re-deriving the formula.
func SumsFeasible(choice map[profile.Seat]*profile.SubProfile) bool {
	minHCP, maxHCP := 0, 0
	var minCards, maxCards [4]int
	for _, seat := range profile.Seats {
		sub := choice[seat]
		minHCP += sub.MinTotalHCP()
		maxHCP += sub.MaxTotalHCP()
		for _, s := range card.Suits {
			r := sub.Standard.Suit(s)
			minCards[s] += r.MinCards
			maxCards[s] += r.MaxCards
		}
	}
	if minHCP > 40 || maxHCP < 40 {
		return false
	}
	for _, s := range card.Suits {
		if minCards[s] > 13 || maxCards[s] < 13 {
			return false
		}
	}
	return true
}

// crossSeatFeasible is the validator's third pass (spec §4.2 step 3): every
// PC/OC sub-profile must have a counterparty seat capable of supplying a
// resolvable RS choice, every seat must retain at least one selectable
// (non-dead) sub-profile, and at least one four-seat combination must
// satisfy SumsFeasible (e.g. four standard sub-profiles whose min total
// HCPs already sum past 40 can never deal a legal board, even with no
// PC/OC in sight).
func crossSeatFeasible(hp *profile.HandProfile) (*FeasibilityReport, error) {
	report := &FeasibilityReport{}

	pcOcDead := map[profile.Seat]map[int]bool{}
	for _, seat := range profile.Seats {
		pcOcDead[seat] = map[int]bool{}
		sp := hp.SeatProfiles[seat]
		for i, sub := range sp.SubProfiles {
			if sub.PC == nil && sub.OC == nil {
				continue
			}
			var counterparties []profile.Seat
			if sub.PC != nil {
				counterparties = []profile.Seat{seat.Partner()}
			} else {
				counterparties = []profile.Seat{seat.LeftOpponent(), seat.RightOpponent()}
			}
			cc := sub.PC
			if cc == nil {
				cc = sub.OC
			}
			if !resolvable(hp, counterparties, cc.UseNonChosenSuit) {
				pcOcDead[seat][i] = true
			}
		}
	}

	nsTuples := pairTuples(hp, roles.Pair{Mode: hp.NSRoleMode, A: profile.North, B: profile.South, IsNS: true}, hp.NSBespoke)
	ewTuples := pairTuples(hp, roles.Pair{Mode: hp.EWRoleMode, A: profile.East, B: profile.West, IsNS: false}, hp.EWBespoke)

	alive := map[profile.Seat]map[int]bool{
		profile.North: {}, profile.East: {}, profile.South: {}, profile.West: {},
	}
	feasibleTupleFound := false
	for _, ns := range nsTuples {
		if pcOcDead[profile.North][ns.aIdx] || pcOcDead[profile.South][ns.bIdx] {
			continue
		}
		for _, ew := range ewTuples {
			if pcOcDead[profile.East][ew.aIdx] || pcOcDead[profile.West][ew.bIdx] {
				continue
			}
			choice := map[profile.Seat]*profile.SubProfile{
				profile.North: &hp.SeatProfiles[profile.North].SubProfiles[ns.aIdx],
				profile.South: &hp.SeatProfiles[profile.South].SubProfiles[ns.bIdx],
				profile.East:  &hp.SeatProfiles[profile.East].SubProfiles[ew.aIdx],
				profile.West:  &hp.SeatProfiles[profile.West].SubProfiles[ew.bIdx],
			}
			if !SumsFeasible(choice) {
				continue
			}
			feasibleTupleFound = true
			alive[profile.North][ns.aIdx] = true
			alive[profile.South][ns.bIdx] = true
			alive[profile.East][ew.aIdx] = true
			alive[profile.West][ew.bIdx] = true
		}
	}

	if !feasibleTupleFound {
		return nil, profile.Infeasiblef(
			"cross-seat: no admissible four-seat sub-profile combination satisfies the total-HCP and per-suit card-count sums")
	}

	for _, seat := range profile.Seats {
		sp := hp.SeatProfiles[seat]
		deadCount := 0
		for i, sub := range sp.SubProfiles {
			if !pcOcDead[seat][i] && alive[seat][i] {
				continue
			}
			deadCount++
			report.DeadSubProfiles = append(report.DeadSubProfiles, DeadSubProfile{
				Seat: seat, Index: i, Name: sub.Name,
			})
		}
		if deadCount == len(sp.SubProfiles) {
			return nil, profile.Infeasiblef(
				"cross-seat: every sub-profile on seat %s is dead (no counterparty can ever supply a resolvable RS choice, or no admissible four-seat combination includes it)", seat)
		}
	}
	return report, nil
}

// resolvable reports whether any sub-profile on any of the candidate
// counterparty seats carries an RS constraint that could resolve a PC/OC
// constraint: any RS at all when useNonChosen is false, or an RS with at
// least one allowed suit left over after RequiredSuitsCount when true.
func resolvable(hp *profile.HandProfile, counterparties []profile.Seat, useNonChosen bool) bool {
	for _, seat := range counterparties {
		sp := hp.SeatProfiles[seat]
		for _, sub := range sp.SubProfiles {
			if sub.RS == nil {
				continue
			}
			if !useNonChosen {
				return true
			}
			if len(sub.RS.AllowedSuits)-sub.RS.RequiredSuitsCount >= 1 {
				return true
			}
		}
	}
	return false
}
