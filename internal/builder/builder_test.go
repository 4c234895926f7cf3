package builder

import (
	"math/rand/v2"
	"testing"

	"github.com/coder/quartz"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/internal/config"
	"github.com/lox/bridgedeal/internal/exclusion"
	"github.com/lox/bridgedeal/internal/prealloc"
	"github.com/lox/bridgedeal/internal/selector"
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

func TestBuildBoardTrivialProfileSucceedsFirstAttempt(t *testing.T) {
	hp := trivialHandProfile()
	clock := quartz.NewMock(t)
	board, _, err := BuildBoard(hp, 42, clock, true, config.Default(), Hooks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Attribution.TotalAttempts != 1 {
		t.Fatalf("expected the trivial profile to succeed on the first attempt, took %d", board.Attribution.TotalAttempts)
	}
	for _, seat := range profile.Seats {
		if len(board.Hands[seat]) != 13 {
			t.Fatalf("seat %s has %d cards, want 13", seat, len(board.Hands[seat]))
		}
	}
}

func TestBuildBoardDeterministicForSameSeed(t *testing.T) {
	hp := trivialHandProfile()
	clock := quartz.NewMock(t)
	a, _, err := BuildBoard(hp, 7, clock, true, config.Default(), Hooks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _, err := BuildBoard(hp, 7, clock, true, config.Default(), Hooks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, seat := range profile.Seats {
		if len(a.Hands[seat]) != len(b.Hands[seat]) {
			t.Fatalf("seat %s: mismatched hand lengths between identical seeds", seat)
		}
		for i := range a.Hands[seat] {
			if a.Hands[seat][i] != b.Hands[seat][i] {
				t.Fatalf("seat %s: same seed produced different deals at card %d", seat, i)
			}
		}
	}
}

func TestBuildBoardInfeasibleProfileExhausts(t *testing.T) {
	hp := trivialHandProfile()
	// A practically unreachable requirement: North needs all 13 spades and
	// exactly 10 HCP. The profile is structurally valid, but pre-allocation
	// draws only ceil(0.75*13)=10 spades and the fill phase then takes the
	// first non-honor card of the shuffled pool, so a 13-spade hand
	// essentially never comes out within the 20-attempt budget.
	impossible := fullRangeStandard()
	impossible.Suits[card.Spades] = profile.SuitRange{MinCards: 13, MaxCards: 13, MinHCP: 10, MaxHCP: 10}
	impossible.TotalHCPMin = 10
	impossible.TotalHCPMax = 10
	hp.SeatProfiles[profile.North] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{{Standard: impossible, Weight: 1}},
	}
	tuning := config.Default()
	tuning.MaxBoardAttempts = 20

	clock := quartz.NewMock(t)
	_, _, err := BuildBoard(hp, 1, clock, true, tuning, Hooks{})
	if err == nil {
		t.Fatal("expected BoardExhaustedError")
	}
	if _, ok := err.(*BoardExhaustedError); !ok {
		t.Fatalf("expected *BoardExhaustedError, got %T: %v", err, err)
	}
}

func TestBuildBoardOuterRetryMultipliesInnerAttempts(t *testing.T) {
	hp := trivialHandProfile()
	impossible := fullRangeStandard()
	impossible.Suits[card.Spades] = profile.SuitRange{MinCards: 13, MaxCards: 13, MinHCP: 10, MaxHCP: 10}
	impossible.TotalHCPMin = 10
	impossible.TotalHCPMax = 10
	hp.SeatProfiles[profile.North] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{{Standard: impossible, Weight: 1}},
	}
	tuning := config.Default()
	tuning.MaxBoardAttempts = 5
	tuning.MaxBoardRetries = 3

	clock := quartz.NewMock(t)
	_, _, err := BuildBoard(hp, 1, clock, true, tuning, Hooks{})
	be, ok := err.(*BoardExhaustedError)
	if !ok {
		t.Fatalf("expected *BoardExhaustedError, got %T: %v", err, err)
	}
	// Each of the 3 outer board retries runs its own 5-attempt inner loop,
	// so a fully exhausted board accounts for all 15 attempts, not just 5.
	if be.Attribution.TotalAttempts != 15 {
		t.Fatalf("expected 15 total attempts (3 retries x 5 attempts), got %d", be.Attribution.TotalAttempts)
	}
}

func solidSuitHand(s card.Suit) card.Hand {
	h := make(card.Hand, 0, 13)
	for r := card.Two; int(r) < 13; r++ {
		h = append(h, card.New(r, s))
	}
	return h
}

// TestMatchAllSplitsPassedVsUncheckedAttribution pins §4.7's two distinct
// global-fail buckets: a seat earlier in dealing order that already
// matched before a later seat failed (SeatFailGlobalPassed) is a different
// case from a seat later in dealing order the matcher never got to
// (SeatFailGlobalUnchecked).
func TestMatchAllSplitsPassedVsUncheckedAttribution(t *testing.T) {
	full := fullRangeStandard()
	spadesOnly := fullRangeStandard()
	spadesOnly.Suits[card.Spades] = profile.SuitRange{MinCards: 13, MaxCards: 13, MinHCP: 0, MaxHCP: 10}

	northSub := profile.SubProfile{Standard: full}
	eastSub := profile.SubProfile{Standard: full}
	southSub := profile.SubProfile{Standard: spadesOnly}
	westSub := profile.SubProfile{Standard: full}

	sel := selector.Selection{
		profile.North: {Sub: &northSub},
		profile.East:  {Sub: &eastSub},
		profile.South: {Sub: &southSub},
		profile.West:  {Sub: &westSub},
	}
	order := []profile.Seat{profile.North, profile.East, profile.South, profile.West}

	result := prealloc.Result{
		Hands: map[profile.Seat]card.Hand{
			profile.North: solidSuitHand(card.Clubs),
			profile.East:  solidSuitHand(card.Diamonds),
			// South's sub-profile demands all 13 spades; a solid heart suit
			// fails that shape requirement.
			profile.South: solidSuitHand(card.Hearts),
			profile.West:  solidSuitHand(card.Spades),
		},
	}
	excl := map[profile.Seat]exclusion.Set{
		profile.North: {}, profile.East: {}, profile.South: {}, profile.West: {},
	}

	attrib := NewAttribution()
	rng := rand.New(rand.NewPCG(1, 1))
	failSeat, failed := matchAll(order, sel, result, excl, rng, attrib)
	if !failed || failSeat != profile.South {
		t.Fatalf("expected South to fail first, got seat=%s failed=%v", failSeat, failed)
	}

	if attrib.SeatFailAsSeat[profile.South] != 1 {
		t.Fatalf("expected South's own failure counted once, got %d", attrib.SeatFailAsSeat[profile.South])
	}
	if attrib.SeatFailGlobalPassed[profile.North] != 1 || attrib.SeatFailGlobalPassed[profile.East] != 1 {
		t.Fatalf("expected North and East (earlier in order, already matched) counted as globally passed, got N=%d E=%d",
			attrib.SeatFailGlobalPassed[profile.North], attrib.SeatFailGlobalPassed[profile.East])
	}
	if attrib.SeatFailGlobalUnchecked[profile.West] != 1 {
		t.Fatalf("expected West (later in order, never reached) counted as globally unchecked, got %d",
			attrib.SeatFailGlobalUnchecked[profile.West])
	}
	if attrib.SeatFailGlobalUnchecked[profile.North] != 0 || attrib.SeatFailGlobalPassed[profile.West] != 0 {
		t.Fatal("expected the two buckets not to overlap across seats")
	}
}

func TestBuildBoardSubRerollReselectsWithoutAbortingRetry(t *testing.T) {
	hp := trivialHandProfile()
	// RS sub-profile so the reroll boundary re-picks RS suits too.
	rsSub := profile.SubProfile{
		Standard: fullRangeStandard(),
		RS: &profile.RandomSuitConstraint{
			AllowedSuits:       []card.Suit{card.Spades},
			RequiredSuitsCount: 1,
			PerSuitRange:       profile.SuitRange{MinCards: 1, MaxCards: 13, MinHCP: 0, MaxHCP: 10},
		},
	}
	hp.SeatProfiles[profile.North] = &profile.SeatProfile{
		SubProfiles: []profile.SubProfile{rsSub},
	}
	tuning := config.Default()
	tuning.SubRerollInitial = 2
	tuning.SubRerollMin = 1
	tuning.MaxBoardAttempts = 50
	tuning.MaxBoardRetries = 2

	clock := quartz.NewMock(t)
	board, _, err := BuildBoard(hp, 3, clock, true, tuning, Hooks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Hands[profile.North]) != 13 {
		t.Fatalf("expected North to hold 13 cards, got %d", len(board.Hands[profile.North]))
	}
}
