// Package vuln applies the standard duplicate-bridge vulnerability and
// dealer/seat rotation to a generated board (spec §4.8, resolved as a
// Go-native minimal deterministic scheme — see DESIGN.md's Open Question
// entry on the Non-goals/§4.8 tension).
package vuln

import "github.com/lox/bridgedeal/profile"

// Vulnerability is which partnership(s), if any, are vulnerable on a board.
type Vulnerability uint8

const (
	None Vulnerability = iota
	NS
	EW
	Both
)

func (v Vulnerability) String() string {
	switch v {
	case NS:
		return "NS"
	case EW:
		return "EW"
	case Both:
		return "Both"
	default:
		return "None"
	}
}

// cycle is the standard 16-board vulnerability cycle used in duplicate
// bridge, indexed by (board number - 1) % 16.
var cycle = [16]Vulnerability{
	None, NS, EW, Both,
	NS, EW, Both, None,
	EW, Both, None, NS,
	Both, None, NS, EW,
}

// ForBoard returns the standard vulnerability for a 1-indexed board number.
func ForBoard(board int) Vulnerability {
	idx := (board - 1) % 16
	if idx < 0 {
		idx += 16
	}
	return cycle[idx]
}

// RotateSeats returns the dealer and the seat rotation for a board: the
// dealer cycles N,E,S,W,N,... every board (the standard duplicate-bridge
// dealer rotation), and when rotate is true each seat's physical position
// is also rotated by the same offset, so seat labels in the returned seat
// map no longer all line up with a single fixed table
// orientation across boards. When rotate is false, the dealer still
// rotates but seat identity is left alone (spec §4.8).
func RotateSeats(board int, baseDealer profile.Seat, rotate bool) (dealer profile.Seat, seatMap [4]profile.Seat) {
	offset := (board - 1) % 4
	if offset < 0 {
		offset += 4
	}
	dealer = profile.Seat((uint8(baseDealer) + uint8(offset)) % 4)

	for i, s := range profile.Seats {
		if rotate {
			seatMap[i] = profile.Seat((uint8(s) + uint8(offset)) % 4)
		} else {
			seatMap[i] = s
		}
	}
	return dealer, seatMap
}
