package profile

import "fmt"

// Seat is one of the four positions at the table. Partners: North-South,
// East-West. Clockwise dealing order is North, East, South, West.
type Seat uint8

const (
	North Seat = iota
	East
	South
	West
)

// Seats lists all four seats in clockwise order starting at North.
var Seats = [4]Seat{North, East, South, West}

func (s Seat) String() string {
	switch s {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// ParseSeat parses a single-letter seat code (case-insensitive).
func ParseSeat(s string) (Seat, error) {
	switch s {
	case "N", "n":
		return North, nil
	case "E", "e":
		return East, nil
	case "S", "s":
		return South, nil
	case "W", "w":
		return West, nil
	default:
		return 0, fmt.Errorf("profile: invalid seat %q", s)
	}
}

// Partner returns the fixed partner of a seat: N<->S, E<->W.
func (s Seat) Partner() Seat {
	switch s {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return s
	}
}

// LeftOpponent and RightOpponent give the two opponents of a seat relative
// to clockwise dealing order N->E->S->W. "Opponents" in the RS/PC/OC model
// (spec §3) means both members of the other partnership. OC resolution
// (validator, selector, pre-allocator, builder) checks LeftOpponent first
// and falls back to RightOpponent.
func (s Seat) LeftOpponent() Seat  { return Seat((uint8(s) + 1) % 4) }
func (s Seat) RightOpponent() Seat { return Seat((uint8(s) + 3) % 4) }

// IsNS reports whether the seat belongs to the North-South partnership.
func (s Seat) IsNS() bool { return s == North || s == South }

// ClockwiseDistance returns how many clockwise steps from 'from' to reach
// 'to' (0..3). Used by the dealing-order planner to break risk-score ties
// by distance from the dealer (spec §4.4).
func (from Seat) ClockwiseDistance(to Seat) int {
	return int((uint8(to) - uint8(from) + 4) % 4)
}
