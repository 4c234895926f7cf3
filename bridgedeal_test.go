package bridgedeal

import (
	"testing"

	"github.com/coder/quartz"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/internal/config"
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

func TestGenerateDealsProducesRequestedCount(t *testing.T) {
	hp := trivialHandProfile()
	opts := DefaultOptions()
	opts.Reproducible = true
	opts.Clock = quartz.NewMock(t)
	opts.Tuning = config.Default()

	ds, err := GenerateDealsWithOptions(1, hp, 3, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Deals) != 3 {
		t.Fatalf("expected 3 deals, got %d", len(ds.Deals))
	}
	for _, d := range ds.Deals {
		total := 0
		for _, seat := range profile.Seats {
			total += len(d.Hands[seat])
		}
		if total != 52 {
			t.Fatalf("board %d: expected 52 dealt cards, got %d", d.Board, total)
		}
	}
}

func TestGenerateDealsRejectsInvalidProfile(t *testing.T) {
	hp := trivialHandProfile()
	delete(hp.SeatProfiles, profile.West)
	if _, err := GenerateDeals(1, hp, 1, false); err == nil {
		t.Fatal("expected a structural validation error")
	}
}

func TestGenerateDealsReproducibleRunReportsNoReseeds(t *testing.T) {
	hp := trivialHandProfile()
	opts := DefaultOptions()
	opts.Reproducible = true
	opts.Clock = quartz.NewMock(t)

	ds, err := GenerateDealsWithOptions(5, hp, 2, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.ReseedCount != 0 {
		t.Fatalf("expected no re-seeds in a reproducible run, got %d", ds.ReseedCount)
	}
}

func TestGenerateDealsBoardNumbersAreSequential(t *testing.T) {
	hp := trivialHandProfile()
	opts := DefaultOptions()
	opts.Reproducible = true
	opts.Clock = quartz.NewMock(t)

	ds, err := GenerateDealsWithOptions(99, hp, 2, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Deals[0].Board != 1 || ds.Deals[1].Board != 2 {
		t.Fatalf("expected sequential board numbers 1,2, got %d,%d", ds.Deals[0].Board, ds.Deals[1].Board)
	}
}
