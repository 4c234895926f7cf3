package profile

import (
	"testing"

	"github.com/lox/bridgedeal/card"
)

func fullSeatProfile() *SeatProfile {
	return &SeatProfile{
		SubProfiles: []SubProfile{
			{
				Standard: StandardConstraints{
					Suits:       [4]SuitRange{card.Clubs: FullRange(), card.Diamonds: FullRange(), card.Hearts: FullRange(), card.Spades: FullRange()},
					TotalHCPMin: 0,
					TotalHCPMax: 37,
				},
				Weight: 1,
			},
		},
	}
}

func trivialProfile() *HandProfile {
	hp := &HandProfile{
		Dealer:     North,
		NSRoleMode: NoDriverNoIndex,
		EWRoleMode: NoDriverNoIndex,
		SeatProfiles: map[Seat]*SeatProfile{
			North: fullSeatProfile(),
			East:  fullSeatProfile(),
			South: fullSeatProfile(),
			West:  fullSeatProfile(),
		},
	}
	return hp
}

func TestValidateStructuralAcceptsTrivialProfile(t *testing.T) {
	hp := trivialProfile()
	if err := hp.ValidateStructural(); err != nil {
		t.Fatalf("trivial profile should validate: %v", err)
	}
}

func TestValidateStructuralRejectsMissingSeat(t *testing.T) {
	hp := trivialProfile()
	delete(hp.SeatProfiles, West)
	if err := hp.ValidateStructural(); err == nil {
		t.Fatal("expected an error for a missing seat")
	}
}

func TestValidateStructuralRejectsImpossibleSuitRange(t *testing.T) {
	hp := trivialProfile()
	bad := fullSeatProfile()
	bad.SubProfiles[0].Standard.Suits[card.Spades] = SuitRange{MinCards: 14, MaxCards: 14, MinHCP: 0, MaxHCP: 10}
	hp.SeatProfiles[North] = bad
	if err := hp.ValidateStructural(); err == nil {
		t.Fatal("expected an error for a 14-card suit requirement")
	}
}

func TestValidateStructuralRejectsBespokeWithNoDriverNoIndex(t *testing.T) {
	hp := trivialProfile()
	hp.NSBespoke = BespokeMap{0: 0}
	if err := hp.ValidateStructural(); err == nil {
		t.Fatal("expected an error: bespoke map incompatible with no_driver_no_index")
	}
}

func TestValidateStructuralRejectsNonTotalBespokeMap(t *testing.T) {
	hp := trivialProfile()
	hp.NSRoleMode = NorthDrives
	hp.SeatProfiles[North] = &SeatProfile{SubProfiles: []SubProfile{
		{Standard: StandardConstraints{Suits: [4]SuitRange{card.Clubs: FullRange(), card.Diamonds: FullRange(), card.Hearts: FullRange(), card.Spades: FullRange()}, TotalHCPMax: 37}, Weight: 1},
		{Standard: StandardConstraints{Suits: [4]SuitRange{card.Clubs: FullRange(), card.Diamonds: FullRange(), card.Hearts: FullRange(), card.Spades: FullRange()}, TotalHCPMax: 37}, Weight: 1},
	}}
	hp.NSBespoke = BespokeMap{0: 0} // missing index 1
	if err := hp.ValidateStructural(); err == nil {
		t.Fatal("expected an error: bespoke map not total over driver indices")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	hp := trivialProfile()
	hp.Name = "test profile"
	hp.Version = "1"
	hp.SeatProfiles[North].SubProfiles[0].RS = &RandomSuitConstraint{
		AllowedSuits:       []card.Suit{card.Spades, card.Hearts},
		RequiredSuitsCount: 1,
		PerSuitRange:       SuitRange{MinCards: 6, MaxCards: 8, MinHCP: 0, MaxHCP: 10},
	}
	data, err := ToJSON(hp)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	data2, err := ToJSON(back)
	if err != nil {
		t.Fatalf("ToJSON (2nd pass): %v", err)
	}
	if string(data) != string(data2) {
		t.Fatalf("round trip not stable:\n--- first ---\n%s\n--- second ---\n%s", data, data2)
	}
	if back.Name != hp.Name || back.Version != hp.Version {
		t.Fatalf("metadata lost in round trip: got name=%q version=%q", back.Name, back.Version)
	}
	if back.SeatProfiles[North].SubProfiles[0].RS == nil {
		t.Fatal("RS constraint lost in round trip")
	}
}

func TestDiscoverSkipsTestDrafts(t *testing.T) {
	dir := t.TempDir()
	hp := trivialProfile()
	if err := SaveAtomic(dir+"/real.json", hp); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}
	if err := SaveAtomic(dir+"/draft_TEST.json", hp); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}
	profiles, errs := Discover(dir)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := profiles["real.json"]; !ok {
		t.Fatal("expected real.json to be discovered")
	}
	if _, ok := profiles["draft_TEST.json"]; ok {
		t.Fatal("draft_TEST.json should have been skipped")
	}
}
