// Package card provides the 52-card deck primitives the rest of bridgedeal
// builds on: suits, ranks, HCP scoring, and a shuffled deck.
package card

import "fmt"

// Suit is one of the four bridge suits. Values are ordered low-to-high by
// bridge rank (Clubs < Diamonds < Hearts < Spades) so Suit can be used
// directly as an array index and as a sort key.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists all four suits in canonical (Clubs..Spades) order.
var Suits = [4]Suit{Clubs, Diamonds, Hearts, Spades}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	default:
		return "?"
	}
}

// ParseSuit parses a single-letter suit code (case-insensitive).
func ParseSuit(r byte) (Suit, error) {
	switch r {
	case 'c', 'C':
		return Clubs, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'h', 'H':
		return Hearts, nil
	case 's', 'S':
		return Spades, nil
	default:
		return 0, fmt.Errorf("card: invalid suit %q", r)
	}
}

// Rank is a card rank, 0 (Two) through 12 (Ace).
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

func (r Rank) String() string {
	const names = "23456789TJQKA"
	if int(r) >= len(names) {
		return "?"
	}
	return string(names[r])
}

// HCP returns the high-card points for a rank: A=4, K=3, Q=2, J=1, else 0.
func (r Rank) HCP() int {
	switch r {
	case Ace:
		return 4
	case King:
		return 3
	case Queen:
		return 2
	case Jack:
		return 1
	default:
		return 0
	}
}

// SuitHCPMax is the maximum HCP obtainable from a single suit (A+K+Q+J).
const SuitHCPMax = 10

// FullDeckHCP is the total HCP across all 52 cards (compile-time constant).
const FullDeckHCP = 40

// FullDeckHCPSumSquares is the sum of squared per-card HCP values across the
// full deck (compile-time constant). The pre-allocator's phase-2 variance
// estimate does not read it; it sums the remaining pool's own cards.
const FullDeckHCPSumSquares = 120

// Card is a single (suit, rank) pair, packed into a byte: bits [0:4)=rank,
// bits [4:6)=suit. 52 distinct values exist; the zero value is itself a
// card (Two of Clubs is rank 0 suit 0, so callers must not treat 0 as "no
// card" — use a pointer or a presence flag where absence matters).
type Card uint8

// New constructs a Card from a rank and suit.
func New(rank Rank, suit Suit) Card {
	return Card(uint8(suit)<<4 | uint8(rank))
}

// Rank returns the card's rank.
func (c Card) Rank() Rank { return Rank(c & 0x0F) }

// Suit returns the card's suit.
func (c Card) Suit() Suit { return Suit(c >> 4) }

// HCP returns the card's high-card-point value.
func (c Card) HCP() int { return c.Rank().HCP() }

func (c Card) String() string {
	return c.Rank().String() + c.Suit().String()
}

// Parse parses a two-character card string like "AS" or "Tc".
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("card: invalid card string %q", s)
	}
	var rank Rank
	switch s[0] {
	case '2':
		rank = Two
	case '3':
		rank = Three
	case '4':
		rank = Four
	case '5':
		rank = Five
	case '6':
		rank = Six
	case '7':
		rank = Seven
	case '8':
		rank = Eight
	case '9':
		rank = Nine
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return 0, fmt.Errorf("card: invalid rank %q", s[0])
	}
	suit, err := ParseSuit(s[1])
	if err != nil {
		return 0, err
	}
	return New(rank, suit), nil
}
