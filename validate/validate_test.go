package validate

import (
	"testing"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/profile"
)

func fullRangeStandard() profile.StandardConstraints {
	return profile.StandardConstraints{
		Suits: [4]profile.SuitRange{
			card.Clubs:    profile.FullRange(),
			card.Diamonds: profile.FullRange(),
			card.Hearts:   profile.FullRange(),
			card.Spades:   profile.FullRange(),
		},
		TotalHCPMin: 0,
		TotalHCPMax: 37,
	}
}

func trivialSeatProfile() *profile.SeatProfile {
	return &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{{Standard: fullRangeStandard(), Weight: 1}},
	}
}

func trivialHandProfile() *profile.HandProfile {
	return &profile.HandProfile{
		Name: "trivial",
		SeatProfiles: map[profile.Seat]*profile.SeatProfile{
			profile.North: trivialSeatProfile(),
			profile.East:  trivialSeatProfile(),
			profile.South: trivialSeatProfile(),
			profile.West:  trivialSeatProfile(),
		},
		Dealer: profile.North,
	}
}

func TestValidateProfileAcceptsTrivialProfile(t *testing.T) {
	if err := ValidateProfile(trivialHandProfile()); err != nil {
		t.Fatalf("expected trivial profile to validate, got %v", err)
	}
}

func TestValidateProfileFeasibilityReportsNoDeadSubProfiles(t *testing.T) {
	report, err := ValidateProfileFeasibility(trivialHandProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.DeadSubProfiles) != 0 {
		t.Fatalf("expected no dead sub-profiles, got %v", report.DeadSubProfiles)
	}
}

func TestCouplingFeasibleRejectsDriverOnlyFollowerOnlyMismatch(t *testing.T) {
	hp := trivialHandProfile()
	hp.NSRoleMode = profile.NorthDrives
	hp.SeatProfiles[profile.North] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{
			{Standard: fullRangeStandard(), Weight: 1, NSRoleUsage: profile.RoleDriverOnly},
		},
	}
	hp.SeatProfiles[profile.South] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{
			{Standard: fullRangeStandard(), Weight: 1, NSRoleUsage: profile.RoleDriverOnly},
		},
	}
	err := ValidateProfile(hp)
	if err == nil {
		t.Fatal("expected infeasible error, got nil")
	}
	perr, ok := err.(*profile.Error)
	if !ok || perr.Kind != profile.ErrInfeasible {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestCrossSeatFeasibleRejectsUnresolvablePC(t *testing.T) {
	hp := trivialHandProfile()
	hp.SeatProfiles[profile.North] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{
			{
				Standard: fullRangeStandard(),
				Weight:   1,
				PC:       &profile.ContingentConstraint{SuitRange: profile.FullRange()},
			},
		},
	}
	// South (North's partner) has no RS sub-profile anywhere, so the PC can
	// never resolve.
	err := ValidateProfile(hp)
	if err == nil {
		t.Fatal("expected infeasible error, got nil")
	}
	perr, ok := err.(*profile.Error)
	if !ok || perr.Kind != profile.ErrInfeasible {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestCrossSeatFeasibleAcceptsResolvablePC(t *testing.T) {
	hp := trivialHandProfile()
	hp.SeatProfiles[profile.North] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{
			{
				Standard: fullRangeStandard(),
				Weight:   1,
				PC:       &profile.ContingentConstraint{SuitRange: profile.FullRange()},
			},
		},
	}
	hp.SeatProfiles[profile.South] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{
			{
				Standard: fullRangeStandard(),
				Weight:   1,
				RS: &profile.RandomSuitConstraint{
					AllowedSuits:       []card.Suit{card.Spades, card.Hearts},
					RequiredSuitsCount: 1,
					PerSuitRange:       profile.SuitRange{MinCards: 5, MaxCards: 13, MinHCP: 0, MaxHCP: 10},
				},
			},
		},
	}
	if err := ValidateProfile(hp); err != nil {
		t.Fatalf("expected resolvable PC to validate, got %v", err)
	}
}

// fixedHCPSeatProfile returns a single-sub-profile seat whose Standard
// constraint accepts any shape but only the given total-HCP range, used to
// pin down the four-seat HCP sum at validation time.
func fixedHCPSeatProfile(minHCP, maxHCP int) *profile.SeatProfile {
	sc := fullRangeStandard()
	sc.TotalHCPMin, sc.TotalHCPMax = minHCP, maxHCP
	return &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{{Standard: sc, Weight: 1}},
	}
}

func TestCrossSeatFeasibleRejectsInfeasibleHCPSum(t *testing.T) {
	// Four standard sub-profiles whose min total HCP sums to 44 (12+10+10+12)
	// can never deal a legal 40-HCP board: every combination overshoots.
	hp := trivialHandProfile()
	hp.SeatProfiles[profile.North] = fixedHCPSeatProfile(12, 37)
	hp.SeatProfiles[profile.East] = fixedHCPSeatProfile(10, 37)
	hp.SeatProfiles[profile.South] = fixedHCPSeatProfile(10, 37)
	hp.SeatProfiles[profile.West] = fixedHCPSeatProfile(12, 37)

	err := ValidateProfile(hp)
	if err == nil {
		t.Fatal("expected infeasible error for a 44-minimum-HCP sum, got nil")
	}
	perr, ok := err.(*profile.Error)
	if !ok || perr.Kind != profile.ErrInfeasible {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestCrossSeatFeasibleHCPSumBoundary(t *testing.T) {
	// Four seats each fixed to exactly 10 min HCP: a sum of 41 (10*4+1, via
	// one seat requiring 11) is rejected, but a sum of exactly 40 is
	// accepted — the literal full-deck total is the boundary, not a
	// rounded approximation of it.
	rejected := trivialHandProfile()
	rejected.SeatProfiles[profile.North] = fixedHCPSeatProfile(11, 37)
	rejected.SeatProfiles[profile.East] = fixedHCPSeatProfile(10, 37)
	rejected.SeatProfiles[profile.South] = fixedHCPSeatProfile(10, 37)
	rejected.SeatProfiles[profile.West] = fixedHCPSeatProfile(10, 37)
	if err := ValidateProfile(rejected); err == nil {
		t.Fatal("expected a 41-minimum-HCP sum to be rejected, got nil")
	}

	accepted := trivialHandProfile()
	accepted.SeatProfiles[profile.North] = fixedHCPSeatProfile(10, 37)
	accepted.SeatProfiles[profile.East] = fixedHCPSeatProfile(10, 37)
	accepted.SeatProfiles[profile.South] = fixedHCPSeatProfile(10, 37)
	accepted.SeatProfiles[profile.West] = fixedHCPSeatProfile(10, 37)
	if err := ValidateProfile(accepted); err != nil {
		t.Fatalf("expected a 40-minimum-HCP sum to validate, got %v", err)
	}
}

func TestDeadSubProfilesMarksSumInfeasibleIndexDead(t *testing.T) {
	// North carries two sub-profiles: one whose min HCP makes every
	// four-seat combination infeasible, one that's fine. Only the first
	// should come back dead.
	hp := trivialHandProfile()
	deadSub := profile.SubProfile{Standard: fullRangeStandard(), Weight: 1}
	deadSub.Standard.TotalHCPMin, deadSub.Standard.TotalHCPMax = 35, 37
	liveSub := profile.SubProfile{Standard: fullRangeStandard(), Weight: 1}
	hp.SeatProfiles[profile.North] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{deadSub, liveSub},
	}
	hp.SeatProfiles[profile.East] = fixedHCPSeatProfile(10, 20)
	hp.SeatProfiles[profile.South] = fixedHCPSeatProfile(10, 20)
	hp.SeatProfiles[profile.West] = fixedHCPSeatProfile(10, 20)

	dead := DeadSubProfiles(hp)
	if dead == nil {
		t.Fatal("expected a non-nil dead-sub-profile set for a feasible profile")
	}
	if !dead[profile.North][0] {
		t.Fatalf("expected North's sum-infeasible sub-profile (index 0) to be dead, got %v", dead[profile.North])
	}
	if dead[profile.North][1] {
		t.Fatalf("expected North's feasible sub-profile (index 1) to stay live, got %v", dead[profile.North])
	}
}

func TestValidateProfileRejectsMissingSeat(t *testing.T) {
	hp := trivialHandProfile()
	delete(hp.SeatProfiles, profile.West)
	err := ValidateProfile(hp)
	if err == nil {
		t.Fatal("expected structural error, got nil")
	}
	perr, ok := err.(*profile.Error)
	if !ok || perr.Kind != profile.ErrStructural {
		t.Fatalf("expected ErrStructural, got %v", err)
	}
}
