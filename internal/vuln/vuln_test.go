package vuln

import (
	"testing"

	"github.com/lox/bridgedeal/profile"
)

func TestForBoardMatchesStandardCycle(t *testing.T) {
	cases := map[int]Vulnerability{
		1: None, 2: NS, 3: EW, 4: Both,
		17: None, // cycle repeats every 16 boards
	}
	for board, want := range cases {
		if got := ForBoard(board); got != want {
			t.Fatalf("board %d: got %s, want %s", board, got, want)
		}
	}
}

func TestRotateSeatsAdvancesDealer(t *testing.T) {
	dealer, _ := RotateSeats(2, profile.North, false)
	if dealer != profile.East {
		t.Fatalf("expected board 2 dealer East, got %s", dealer)
	}
}

func TestRotateSeatsLeavesMapIdentityWhenDisabled(t *testing.T) {
	_, seatMap := RotateSeats(3, profile.North, false)
	for i, s := range profile.Seats {
		if seatMap[i] != s {
			t.Fatalf("expected identity seat map when rotate=false, got %v", seatMap)
		}
	}
}
