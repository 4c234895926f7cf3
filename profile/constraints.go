package profile

import (
	"fmt"

	"github.com/lox/bridgedeal/card"
)

// SuitRange is a closed interval on card count and HCP within a single
// suit. MinCards <= MaxCards in [0,13]; MinHCP <= MaxHCP in [0,SuitHCPMax].
type SuitRange struct {
	MinCards int
	MaxCards int
	MinHCP   int
	MaxHCP   int
}

// FullRange is a SuitRange that accepts any holding in a suit (0..13 cards,
// 0..10 HCP). Used as the default for suits with no explicit constraint and
// by the "always matches" boundary test (spec §8).
func FullRange() SuitRange {
	return SuitRange{MinCards: 0, MaxCards: 13, MinHCP: 0, MaxHCP: card.SuitHCPMax}
}

func (r SuitRange) validate(label string) error {
	if r.MinCards < 0 || r.MaxCards > 13 || r.MinCards > r.MaxCards {
		return structuralf("%s: invalid card range [%d,%d]", label, r.MinCards, r.MaxCards)
	}
	if r.MinHCP < 0 || r.MaxHCP > card.SuitHCPMax || r.MinHCP > r.MaxHCP {
		return structuralf("%s: invalid hcp range [%d,%d]", label, r.MinHCP, r.MaxHCP)
	}
	return nil
}

// Contains reports whether a given card count and HCP total fall within
// the range.
func (r SuitRange) Contains(cards, hcp int) bool {
	return cards >= r.MinCards && cards <= r.MaxCards && hcp >= r.MinHCP && hcp <= r.MaxHCP
}

// StandardConstraints bundles a per-suit SuitRange with a total-HCP range.
// Suits are indexed by card.Suit (Clubs, Diamonds, Hearts, Spades).
type StandardConstraints struct {
	Suits        [4]SuitRange
	TotalHCPMin  int
	TotalHCPMax  int
}

// Suit returns the configured range for a suit.
func (sc StandardConstraints) Suit(s card.Suit) SuitRange { return sc.Suits[s] }

func (sc StandardConstraints) validate() error {
	if sc.TotalHCPMin < 0 || sc.TotalHCPMax > 37 || sc.TotalHCPMin > sc.TotalHCPMax {
		return structuralf("standard: invalid total hcp range [%d,%d]", sc.TotalHCPMin, sc.TotalHCPMax)
	}
	minCardSum, maxCardSum := 0, 0
	minHCPSum, maxHCPSum := 0, 0
	for _, s := range card.Suits {
		r := sc.Suits[s]
		if err := r.validate(fmt.Sprintf("standard.%s", s)); err != nil {
			return err
		}
		minCardSum += r.MinCards
		maxCardSum += r.MaxCards
		minHCPSum += r.MinHCP
		maxHCPSum += r.MaxHCP
	}
	if minCardSum > 13 {
		return structuralf("standard: per-suit min card counts sum to %d > 13", minCardSum)
	}
	if maxCardSum < 13 {
		return structuralf("standard: per-suit max card counts sum to %d < 13", maxCardSum)
	}
	if minHCPSum > sc.TotalHCPMax {
		return structuralf("standard: per-suit min hcp sums to %d > total max %d", minHCPSum, sc.TotalHCPMax)
	}
	if maxHCPSum < sc.TotalHCPMin {
		return structuralf("standard: per-suit max hcp sums to %d < total min %d", maxHCPSum, sc.TotalHCPMin)
	}
	return nil
}

// TargetSource names whose RS choice a PartnerContingent/OpponentContingent
// constraint resolves against.
type TargetSource uint8

const (
	TargetPartner TargetSource = iota
	TargetOpponents
)

// RandomSuitConstraint lets a sub-profile fix a subset of AllowedSuits (of
// size RequiredSuitsCount) per board; each chosen suit's count/HCP is
// checked against PairOverrides[suit] if present, else PerSuitRange. The
// chosen suits' constraints replace (not intersect) the corresponding
// StandardConstraints suit range for the same hand (spec §3).
type RandomSuitConstraint struct {
	AllowedSuits       []card.Suit
	RequiredSuitsCount int
	PerSuitRange       SuitRange
	PairOverrides      map[card.Suit]SuitRange
}

func (rs *RandomSuitConstraint) validate() error {
	if rs == nil {
		return nil
	}
	if len(rs.AllowedSuits) == 0 {
		return structuralf("random_suit: allowed_suits must be non-empty")
	}
	seen := map[card.Suit]bool{}
	for _, s := range rs.AllowedSuits {
		if seen[s] {
			return structuralf("random_suit: duplicate suit %s in allowed_suits", s)
		}
		seen[s] = true
	}
	if rs.RequiredSuitsCount < 1 || rs.RequiredSuitsCount > len(rs.AllowedSuits) {
		return structuralf("random_suit: required_suits_count %d out of [1,%d]", rs.RequiredSuitsCount, len(rs.AllowedSuits))
	}
	if err := rs.PerSuitRange.validate("random_suit.per_suit_range"); err != nil {
		return err
	}
	for s, r := range rs.PairOverrides {
		if !seen[s] {
			return structuralf("random_suit: pair_override for suit %s not in allowed_suits", s)
		}
		if err := r.validate(fmt.Sprintf("random_suit.pair_overrides[%s]", s)); err != nil {
			return err
		}
	}
	return nil
}

// RangeFor returns the effective SuitRange for a chosen suit: the pair
// override if one is set, else the constraint's PerSuitRange.
func (rs *RandomSuitConstraint) RangeFor(s card.Suit) SuitRange {
	if r, ok := rs.PairOverrides[s]; ok {
		return r
	}
	return rs.PerSuitRange
}

// ContingentConstraint asserts the holder's count/HCP in a suit determined
// by the counterparty's (partner's or opponents') RS choice: the chosen
// suit if UseNonChosenSuit is false, else a non-chosen suit from that RS's
// AllowedSuits (unique when len(AllowedSuits) - RequiredSuitsCount == 1;
// with more left over, the first in AllowedSuits order is used). The
// validator's cross-seat pass requires at least one left-over suit for such
// a sub-profile to be live.
type ContingentConstraint struct {
	Target           TargetSource
	UseNonChosenSuit bool
	SuitRange        SuitRange
}

func (cc *ContingentConstraint) validate() error {
	if cc == nil {
		return nil
	}
	return cc.SuitRange.validate("contingent.suit_range")
}

// RoleUsage constrains which coupled-pair role a sub-profile may be
// selected under (spec §3/§4.3).
type RoleUsage uint8

const (
	RoleAny RoleUsage = iota
	RoleDriverOnly
	RoleFollowerOnly
)

// ExclusionClause names a forbidden shape pattern for a seat (e.g. "4432",
// with 'x' as a wildcard digit, e.g. "4x3x"). Patterns are matched against
// the seat's suit-keyed shape in canonical (S,H,D,C) order unless
// SortedShape is set, in which case the pattern is matched against the
// hand's shape sorted descending (the common "4-4-3-2 pattern" notation
// that ignores which suit is which).
type ExclusionClause struct {
	Pattern     string
	SortedShape bool
}

// SubProfile is one named bundle of constraints a seat may take on a given
// board. At most one of RS, PC, or OC may be set.
type SubProfile struct {
	Name        string
	Standard    StandardConstraints
	RS          *RandomSuitConstraint
	PC          *ContingentConstraint
	OC          *ContingentConstraint
	Weight      float64
	NSRoleUsage RoleUsage
	EWRoleUsage RoleUsage
}

func (sp *SubProfile) validate(label string) error {
	variants := 0
	if sp.RS != nil {
		variants++
	}
	if sp.PC != nil {
		variants++
	}
	if sp.OC != nil {
		variants++
	}
	if variants > 1 {
		return structuralf("%s: at most one of random_suit/partner_contingent/opponents_contingent may be set", label)
	}
	if sp.Weight < 0 {
		return structuralf("%s: weight must be >= 0", label)
	}
	if err := sp.Standard.validate(); err != nil {
		return fmt.Errorf("%s.%w", label, err)
	}
	if err := sp.RS.validate(); err != nil {
		return fmt.Errorf("%s.%w", label, err)
	}
	if err := sp.PC.validate(); err != nil {
		return fmt.Errorf("%s.partner_contingent.%w", label, err)
	}
	if err := sp.OC.validate(); err != nil {
		return fmt.Errorf("%s.opponents_contingent.%w", label, err)
	}
	return nil
}

// MinTotalHCP and MaxTotalHCP expose the sub-profile's total-HCP range for
// the cross-seat feasibility sums (spec §3/§4.2).
func (sp *SubProfile) MinTotalHCP() int { return sp.Standard.TotalHCPMin }
func (sp *SubProfile) MaxTotalHCP() int { return sp.Standard.TotalHCPMax }

// SeatProfile is the non-empty ordered list of sub-profiles a seat may
// take, plus the exclusion clauses attached at seat granularity.
type SeatProfile struct {
	SubProfiles      []SubProfile
	ExclusionClauses []ExclusionClause
}

func (sp *SeatProfile) validate(label string) error {
	if len(sp.SubProfiles) == 0 {
		return structuralf("%s: must have at least one sub-profile", label)
	}
	for i := range sp.SubProfiles {
		if err := sp.SubProfiles[i].validate(fmt.Sprintf("%s.subprofiles[%d]", label, i)); err != nil {
			return err
		}
	}
	return nil
}

// NormalizedWeights returns per-index selection weights normalised to sum
// to 1 over the given eligible indices; a zero total weight over those
// indices falls back to a uniform distribution (spec §3 SeatProfile).
func (sp *SeatProfile) NormalizedWeights(eligible []int) []float64 {
	total := 0.0
	for _, i := range eligible {
		total += sp.SubProfiles[i].Weight
	}
	weights := make([]float64, len(eligible))
	if total <= 0 {
		for i := range weights {
			weights[i] = 1.0 / float64(len(eligible))
		}
		return weights
	}
	for k, i := range eligible {
		weights[k] = sp.SubProfiles[i].Weight / total
	}
	return weights
}
