package card

import "math/rand/v2"

// Deck is a standard 52-card deck. NewDeck returns it unshuffled, so call
// Shuffle before Dealing; the pre-allocator takes a shuffled Deck's
// Remaining slice as its card pool rather than dealing through this type
// directly (see internal/prealloc).
type Deck struct {
	cards [52]Card
	next  int
}

// NewDeck returns an unshuffled deck in canonical (suit, rank) order.
func NewDeck() *Deck {
	d := &Deck{}
	i := 0
	for _, s := range Suits {
		for r := Two; r <= Ace; r++ {
			d.cards[i] = New(r, s)
			i++
		}
	}
	return d
}

// Shuffle performs an in-place Fisher-Yates shuffle using rng and resets the
// deal cursor to the top of the deck.
func (d *Deck) Shuffle(rng *rand.Rand) {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals the next n cards from the deck, or nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// Remaining returns the cards not yet dealt, in their current (shuffled)
// order. The slice aliases the deck's backing array; callers must not
// retain it past the next Shuffle/Deal.
func (d *Deck) Remaining() []Card {
	return d.cards[d.next:]
}

// CardsRemaining returns how many cards are left to deal.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}

// Copy returns a deep copy of the deck in its current state. The
// pre-allocator does not use it: it builds and shuffles a new Deck on every
// attempt, so no deck state is shared between attempts.
func (d *Deck) Copy() *Deck {
	cp := *d
	return &cp
}

// Full52 returns the 52 canonical cards, unshuffled, independent of any
// Deck instance.
func Full52() [52]Card {
	var all [52]Card
	i := 0
	for _, s := range Suits {
		for r := Two; r <= Ace; r++ {
			all[i] = New(r, s)
			i++
		}
	}
	return all
}
