// Package roles computes, for a coupled NS or EW pair under a given role
// mode, which sub-profile indices a seat may use as driver or follower
// (spec §4.3 step 1). Both the validator's coupling-feasibility pass and
// the selector depend on the same eligibility rules, so they share this
// package rather than each re-deriving it.
package roles

import "github.com/lox/bridgedeal/profile"

// Pair describes one NS or EW coupling under its active role mode.
type Pair struct {
	Mode    profile.RoleMode
	A, B    profile.Seat // A, B are the two partners (order matches Seat.Partner())
	IsNS    bool
}

// Coupled reports whether this pair is coupled at all under its mode (i.e.
// not no_driver_no_index).
func (p Pair) Coupled() bool { return p.Mode != profile.NoDriverNoIndex }

// RandomDriver reports whether the driver seat varies per board.
func (p Pair) RandomDriver() bool {
	return p.Mode == profile.NSRandomDriver || p.Mode == profile.EWRandomDriver
}

// FixedDriver returns the statically-named driver seat for "X drives"
// modes; ok is false for no_driver_no_index and the *RandomDriver modes.
func (p Pair) FixedDriver() (seat profile.Seat, ok bool) {
	return p.Mode.DriverSeat()
}

// DriverDirections returns every (driver, follower) seat-assignment this
// pair could take at runtime: one for fixed-driver modes, both for
// *RandomDriver modes, and none for no_driver_no_index.
func (p Pair) DriverDirections() [][2]profile.Seat {
	switch {
	case !p.Coupled():
		return nil
	case p.RandomDriver():
		return [][2]profile.Seat{{p.A, p.B}, {p.B, p.A}}
	default:
		driver, ok := p.FixedDriver()
		if !ok {
			return nil
		}
		if driver == p.A {
			return [][2]profile.Seat{{p.A, p.B}}
		}
		return [][2]profile.Seat{{p.B, p.A}}
	}
}

func roleUsage(sub profile.SubProfile, isNS bool) profile.RoleUsage {
	if isNS {
		return sub.NSRoleUsage
	}
	return sub.EWRoleUsage
}

// EligibleAsDriver returns the indices of sp's sub-profiles that may be
// picked while sp's seat is acting as driver: RoleAny or RoleDriverOnly.
func EligibleAsDriver(sp *profile.SeatProfile, isNS bool) []int {
	var out []int
	for i, sub := range sp.SubProfiles {
		if roleUsage(sub, isNS) != profile.RoleFollowerOnly {
			out = append(out, i)
		}
	}
	return out
}

// EligibleAsFollower returns the indices of sp's sub-profiles that may be
// picked while sp's seat is acting as follower: RoleAny or
// RoleFollowerOnly.
func EligibleAsFollower(sp *profile.SeatProfile, isNS bool) []int {
	var out []int
	for i, sub := range sp.SubProfiles {
		if roleUsage(sub, isNS) != profile.RoleDriverOnly {
			out = append(out, i)
		}
	}
	return out
}

// AllIndices returns every sub-profile index, used for uncoupled
// (no_driver_no_index) seats where role usage tags are not applied.
func AllIndices(sp *profile.SeatProfile) []int {
	out := make([]int, len(sp.SubProfiles))
	for i := range sp.SubProfiles {
		out[i] = i
	}
	return out
}
