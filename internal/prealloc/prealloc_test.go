package prealloc

import (
	"math/rand/v2"
	"testing"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/internal/config"
	"github.com/lox/bridgedeal/internal/planner"
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

func trivialSelection() selector.Selection {
	sub := profile.SubProfile{Standard: fullRangeStandard()}
	return selector.Selection{
		profile.North: {Sub: &sub},
		profile.East:  {Sub: &sub},
		profile.South: {Sub: &sub},
		profile.West:  {Sub: &sub},
	}
}

func TestAllocateDealsThirteenCardsPerSeat(t *testing.T) {
	sel := trivialSelection()
	order := planner.Plan(sel, profile.North)
	rng := rand.New(rand.NewPCG(1, 2))
	result, err := Allocate(sel, order, rng, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[card.Card]bool{}
	for _, seat := range profile.Seats {
		h := result.Hands[seat]
		if len(h) != 13 {
			t.Fatalf("seat %s got %d cards, want 13", seat, len(h))
		}
		for _, c := range h {
			if seen[c] {
				t.Fatalf("card %s dealt twice", c)
			}
			seen[c] = true
		}
	}
	if len(seen) != 52 {
		t.Fatalf("expected 52 unique cards dealt, got %d", len(seen))
	}
}

func TestAllocateBiasesRSTowardRequiredSuits(t *testing.T) {
	rsSub := profile.SubProfile{
		Standard: fullRangeStandard(),
		RS: &profile.RandomSuitConstraint{
			AllowedSuits:       []card.Suit{card.Spades},
			RequiredSuitsCount: 1,
			PerSuitRange:       profile.SuitRange{MinCards: 10, MaxCards: 13, MinHCP: 0, MaxHCP: 10},
		},
	}
	standard := profile.SubProfile{Standard: fullRangeStandard()}
	sel := selector.Selection{
		profile.North: {Sub: &rsSub},
		profile.East:  {Sub: &standard},
		profile.South: {Sub: &standard},
		profile.West:  {Sub: &standard},
	}
	order := planner.Plan(sel, profile.North)
	rng := rand.New(rand.NewPCG(5, 6))
	result, err := Allocate(sel, order, rng, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spades := 0
	for _, c := range result.Hands[profile.North] {
		if c.Suit() == card.Spades {
			spades++
		}
	}
	if spades < 8 {
		t.Fatalf("expected pre-allocation to bias North toward a long spade suit, got %d spades", spades)
	}
}

func TestFillLeavesLastDealingOrderSeatUnconstrained(t *testing.T) {
	// North/East/South already hold 13 cards each; West (last in the
	// dealing order passed in) gets whatever remains in the pool, even
	// though West's own sub-profile would reject every one of those cards
	// if pickFillCard's constraints were applied to it.
	wStd := fullRangeStandard()
	wStd.TotalHCPMin, wStd.TotalHCPMax = 0, 0
	wSub := profile.SubProfile{Standard: wStd}
	sub := profile.SubProfile{Standard: fullRangeStandard()}

	sel := selector.Selection{
		profile.North: {Sub: &sub},
		profile.East:  {Sub: &sub},
		profile.South: {Sub: &sub},
		profile.West:  {Sub: &wSub},
	}

	full := func() []card.Card {
		cards := make([]card.Card, 0, 13)
		for i := 0; i < 13; i++ {
			cards = append(cards, card.New(card.Ace, card.Clubs))
		}
		return cards
	}
	partial := map[profile.Seat][]card.Card{
		profile.North: full(),
		profile.East:  full(),
		profile.South: full(),
		profile.West:  nil,
	}
	// Every remaining pool card carries HCP, which West's Standard max of 0
	// would reject outright if fill applied pickFillCard to the last seat.
	pool := []card.Card{card.New(card.Ace, card.Spades), card.New(card.King, card.Hearts)}
	order := []profile.Seat{profile.North, profile.East, profile.South, profile.West}

	fill(partial, sel, order, nil, &pool)

	if len(partial[profile.West]) != 2 {
		t.Fatalf("expected West to receive the full 2-card pool remainder, got %d", len(partial[profile.West]))
	}
	if len(pool) != 0 {
		t.Fatalf("expected pool to be fully drained after fill, got %d left", len(pool))
	}
}

func TestIsTightBoundary(t *testing.T) {
	if !isTight(5, 0.19) {
		t.Fatal("expected 5 cards to be tight at threshold 0.19")
	}
	if isTight(4, 0.19) {
		t.Fatal("expected 4 cards not to be tight at threshold 0.19")
	}
}
