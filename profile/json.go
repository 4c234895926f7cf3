package profile

import (
	"encoding/json"
	"fmt"

	"github.com/lox/bridgedeal/card"
)

// The wire* types mirror the persisted JSON schema from spec §6 exactly;
// unknown keys are ignored by encoding/json by default, and every optional
// field takes its documented default when decoding into HandProfile.

type wireSuitRange struct {
	MinCards int `json:"min_cards"`
	MaxCards int `json:"max_cards"`
	MinHCP   int `json:"min_hcp"`
	MaxHCP   int `json:"max_hcp"`
}

type wireStandard struct {
	S           wireSuitRange `json:"S"`
	H           wireSuitRange `json:"H"`
	D           wireSuitRange `json:"D"`
	C           wireSuitRange `json:"C"`
	TotalHCPMin int           `json:"total_hcp_min"`
	TotalHCPMax int           `json:"total_hcp_max"`
}

type wireRS struct {
	AllowedSuits       []string                 `json:"allowed_suits"`
	RequiredSuitsCount int                      `json:"required_suits_count"`
	PerSuitRange       wireSuitRange            `json:"per_suit_range"`
	PairOverrides      map[string]wireSuitRange `json:"pair_overrides,omitempty"`
}

type wireContingent struct {
	Target           string        `json:"target_source"`
	UseNonChosenSuit bool          `json:"use_non_chosen_suit"`
	SuitRange        wireSuitRange `json:"suit_range"`
}

type wireSubProfile struct {
	Name                string          `json:"name,omitempty"`
	Standard            wireStandard    `json:"standard"`
	RS                  *wireRS         `json:"random_suit_constraint,omitempty"`
	PC                  *wireContingent `json:"partner_contingent_constraint,omitempty"`
	OC                  *wireContingent `json:"opponents_contingent_suit_constraint,omitempty"`
	WeightPercent       float64         `json:"weight_percent"`
	NSRoleUsage         string          `json:"ns_role_usage,omitempty"`
	EWRoleUsage         string          `json:"ew_role_usage,omitempty"`
}

type wireExclusionClause struct {
	Pattern     string `json:"pattern"`
	SortedShape bool   `json:"sorted_shape,omitempty"`
}

type wireSeatProfile struct {
	SubProfiles      []wireSubProfile      `json:"subprofiles"`
	ExclusionClauses []wireExclusionClause `json:"exclusion_clauses,omitempty"`
}

type wireHandProfile struct {
	Name        string                     `json:"name"`
	Version     string                     `json:"version"`
	SortOrder   []string                   `json:"sort_order,omitempty"`
	Author      string                     `json:"author,omitempty"`
	Description string                     `json:"description,omitempty"`
	Dealer      string                     `json:"dealer"`
	NSRoleMode  string                     `json:"ns_role_mode"`
	EWRoleMode  string                     `json:"ew_role_mode"`
	NSBespoke   map[string]int             `json:"ns_bespoke_map,omitempty"`
	EWBespoke   map[string]int             `json:"ew_bespoke_map,omitempty"`
	SeatProfiles map[string]wireSeatProfile `json:"seat_profiles"`
}

func suitRangeFromWire(w wireSuitRange) SuitRange {
	return SuitRange{MinCards: w.MinCards, MaxCards: w.MaxCards, MinHCP: w.MinHCP, MaxHCP: w.MaxHCP}
}

func suitRangeToWire(r SuitRange) wireSuitRange {
	return wireSuitRange{MinCards: r.MinCards, MaxCards: r.MaxCards, MinHCP: r.MinHCP, MaxHCP: r.MaxHCP}
}

func roleUsageFromWire(s string) RoleUsage {
	switch s {
	case "driver_only":
		return RoleDriverOnly
	case "follower_only":
		return RoleFollowerOnly
	default:
		return RoleAny
	}
}

func roleUsageToWire(u RoleUsage) string {
	switch u {
	case RoleDriverOnly:
		return "driver_only"
	case RoleFollowerOnly:
		return "follower_only"
	default:
		return "any"
	}
}

func roleModeFromWire(s string) RoleMode {
	switch s {
	case "north_drives":
		return NorthDrives
	case "south_drives":
		return SouthDrives
	case "east_drives":
		return EastDrives
	case "west_drives":
		return WestDrives
	case "ns_random_driver":
		return NSRandomDriver
	case "ew_random_driver":
		return EWRandomDriver
	default:
		return NoDriverNoIndex
	}
}

func roleModeToWire(m RoleMode) string {
	switch m {
	case NorthDrives:
		return "north_drives"
	case SouthDrives:
		return "south_drives"
	case EastDrives:
		return "east_drives"
	case WestDrives:
		return "west_drives"
	case NSRandomDriver:
		return "ns_random_driver"
	case EWRandomDriver:
		return "ew_random_driver"
	default:
		return "no_driver_no_index"
	}
}

func suitsFromWireAllowed(names []string) ([]card.Suit, error) {
	out := make([]card.Suit, 0, len(names))
	for _, n := range names {
		if len(n) != 1 {
			return nil, fmt.Errorf("profile: invalid suit name %q", n)
		}
		s, err := card.ParseSuit(n[0])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func subProfileFromWire(w wireSubProfile) (SubProfile, error) {
	sp := SubProfile{
		Name: w.Name,
		Standard: StandardConstraints{
			Suits: [4]SuitRange{
				card.Clubs:    suitRangeFromWire(w.Standard.C),
				card.Diamonds: suitRangeFromWire(w.Standard.D),
				card.Hearts:   suitRangeFromWire(w.Standard.H),
				card.Spades:   suitRangeFromWire(w.Standard.S),
			},
			TotalHCPMin: w.Standard.TotalHCPMin,
			TotalHCPMax: w.Standard.TotalHCPMax,
		},
		Weight:      w.WeightPercent,
		NSRoleUsage: roleUsageFromWire(w.NSRoleUsage),
		EWRoleUsage: roleUsageFromWire(w.EWRoleUsage),
	}
	if w.RS != nil {
		allowed, err := suitsFromWireAllowed(w.RS.AllowedSuits)
		if err != nil {
			return SubProfile{}, err
		}
		overrides := map[card.Suit]SuitRange{}
		for name, r := range w.RS.PairOverrides {
			s, err := card.ParseSuit(name[0])
			if err != nil {
				return SubProfile{}, err
			}
			overrides[s] = suitRangeFromWire(r)
		}
		sp.RS = &RandomSuitConstraint{
			AllowedSuits:       allowed,
			RequiredSuitsCount: w.RS.RequiredSuitsCount,
			PerSuitRange:       suitRangeFromWire(w.RS.PerSuitRange),
			PairOverrides:      overrides,
		}
	}
	if w.PC != nil {
		sp.PC = &ContingentConstraint{
			Target:           targetFromWire(w.PC.Target),
			UseNonChosenSuit: w.PC.UseNonChosenSuit,
			SuitRange:        suitRangeFromWire(w.PC.SuitRange),
		}
	}
	if w.OC != nil {
		sp.OC = &ContingentConstraint{
			Target:           targetFromWire(w.OC.Target),
			UseNonChosenSuit: w.OC.UseNonChosenSuit,
			SuitRange:        suitRangeFromWire(w.OC.SuitRange),
		}
	}
	return sp, nil
}

func targetFromWire(s string) TargetSource {
	if s == "opponents" {
		return TargetOpponents
	}
	return TargetPartner
}

func targetToWire(t TargetSource) string {
	if t == TargetOpponents {
		return "opponents"
	}
	return "partner"
}

func subProfileToWire(sp SubProfile) wireSubProfile {
	w := wireSubProfile{
		Name: sp.Name,
		Standard: wireStandard{
			C:           suitRangeToWire(sp.Standard.Suits[card.Clubs]),
			D:           suitRangeToWire(sp.Standard.Suits[card.Diamonds]),
			H:           suitRangeToWire(sp.Standard.Suits[card.Hearts]),
			S:           suitRangeToWire(sp.Standard.Suits[card.Spades]),
			TotalHCPMin: sp.Standard.TotalHCPMin,
			TotalHCPMax: sp.Standard.TotalHCPMax,
		},
		WeightPercent: sp.Weight,
		NSRoleUsage:   roleUsageToWire(sp.NSRoleUsage),
		EWRoleUsage:   roleUsageToWire(sp.EWRoleUsage),
	}
	if sp.RS != nil {
		allowed := make([]string, len(sp.RS.AllowedSuits))
		for i, s := range sp.RS.AllowedSuits {
			allowed[i] = s.String()
		}
		overrides := map[string]wireSuitRange{}
		for s, r := range sp.RS.PairOverrides {
			overrides[s.String()] = suitRangeToWire(r)
		}
		w.RS = &wireRS{
			AllowedSuits:       allowed,
			RequiredSuitsCount: sp.RS.RequiredSuitsCount,
			PerSuitRange:       suitRangeToWire(sp.RS.PerSuitRange),
			PairOverrides:      overrides,
		}
	}
	if sp.PC != nil {
		w.PC = &wireContingent{
			Target:           targetToWire(sp.PC.Target),
			UseNonChosenSuit: sp.PC.UseNonChosenSuit,
			SuitRange:        suitRangeToWire(sp.PC.SuitRange),
		}
	}
	if sp.OC != nil {
		w.OC = &wireContingent{
			Target:           targetToWire(sp.OC.Target),
			UseNonChosenSuit: sp.OC.UseNonChosenSuit,
			SuitRange:        suitRangeToWire(sp.OC.SuitRange),
		}
	}
	return w
}

// FromJSON decodes a HandProfile from its persisted JSON form (spec §6).
// Unknown keys are ignored (encoding/json's default); missing optional
// fields take the documented defaults (RoleAny usage, no bespoke map, no
// RS/PC/OC, North dealer, no_driver_no_index).
func FromJSON(data []byte) (*HandProfile, error) {
	var w wireHandProfile
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("profile: decode json: %w", err)
	}
	hp := &HandProfile{
		Name:        w.Name,
		Version:     w.Version,
		Author:      w.Author,
		Description: w.Description,
		NSRoleMode:  roleModeFromWire(w.NSRoleMode),
		EWRoleMode:  roleModeFromWire(w.EWRoleMode),
		SeatProfiles: map[Seat]*SeatProfile{},
	}
	dealer, err := ParseSeat(w.Dealer)
	if err != nil {
		dealer = North
	}
	hp.Dealer = dealer

	if len(w.SortOrder) > 0 {
		for _, s := range w.SortOrder {
			seat, err := ParseSeat(s)
			if err != nil {
				return nil, err
			}
			hp.SortOrder = append(hp.SortOrder, seat)
		}
	}
	if w.NSBespoke != nil {
		hp.NSBespoke = BespokeMap{}
		for k, v := range w.NSBespoke {
			idx, err := atoiStrict(k)
			if err != nil {
				return nil, fmt.Errorf("profile: ns_bespoke_map key %q: %w", k, err)
			}
			hp.NSBespoke[idx] = v
		}
	}
	if w.EWBespoke != nil {
		hp.EWBespoke = BespokeMap{}
		for k, v := range w.EWBespoke {
			idx, err := atoiStrict(k)
			if err != nil {
				return nil, fmt.Errorf("profile: ew_bespoke_map key %q: %w", k, err)
			}
			hp.EWBespoke[idx] = v
		}
	}

	for seatName, wsp := range w.SeatProfiles {
		seat, err := ParseSeat(seatName)
		if err != nil {
			return nil, err
		}
		seatProfile := &SeatProfile{}
		for _, wsub := range wsp.SubProfiles {
			sub, err := subProfileFromWire(wsub)
			if err != nil {
				return nil, err
			}
			seatProfile.SubProfiles = append(seatProfile.SubProfiles, sub)
		}
		for _, wec := range wsp.ExclusionClauses {
			seatProfile.ExclusionClauses = append(seatProfile.ExclusionClauses, ExclusionClause{
				Pattern:     wec.Pattern,
				SortedShape: wec.SortedShape,
			})
		}
		hp.SeatProfiles[seat] = seatProfile
	}
	return hp, nil
}

// ToJSON encodes a HandProfile to its persisted JSON form.
func ToJSON(hp *HandProfile) ([]byte, error) {
	w := wireHandProfile{
		Name:         hp.Name,
		Version:      hp.Version,
		Author:       hp.Author,
		Description:  hp.Description,
		Dealer:       hp.Dealer.String(),
		NSRoleMode:   roleModeToWire(hp.NSRoleMode),
		EWRoleMode:   roleModeToWire(hp.EWRoleMode),
		SeatProfiles: map[string]wireSeatProfile{},
	}
	for _, s := range hp.SortOrder {
		w.SortOrder = append(w.SortOrder, s.String())
	}
	if hp.NSBespoke != nil {
		w.NSBespoke = map[string]int{}
		for k, v := range hp.NSBespoke {
			w.NSBespoke[itoa(k)] = v
		}
	}
	if hp.EWBespoke != nil {
		w.EWBespoke = map[string]int{}
		for k, v := range hp.EWBespoke {
			w.EWBespoke[itoa(k)] = v
		}
	}
	for seat, seatProfile := range hp.SeatProfiles {
		wsp := wireSeatProfile{}
		for _, sub := range seatProfile.SubProfiles {
			wsp.SubProfiles = append(wsp.SubProfiles, subProfileToWire(sub))
		}
		for _, ec := range seatProfile.ExclusionClauses {
			wsp.ExclusionClauses = append(wsp.ExclusionClauses, wireExclusionClause{
				Pattern:     ec.Pattern,
				SortedShape: ec.SortedShape,
			})
		}
		w.SeatProfiles[seat.String()] = wsp
	}
	return json.MarshalIndent(w, "", "  ")
}

func atoiStrict(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
