package card

// Hand is a dealt 13-card holding.
type Hand []Card

// SuitCounts returns the number of cards held in each suit.
func (h Hand) SuitCounts() [4]int {
	var counts [4]int
	for _, c := range h {
		counts[c.Suit()]++
	}
	return counts
}

// SuitHCP returns the HCP held in each suit.
func (h Hand) SuitHCP() [4]int {
	var hcp [4]int
	for _, c := range h {
		hcp[c.Suit()] += c.HCP()
	}
	return hcp
}

// TotalHCP returns the hand's total HCP.
func (h Hand) TotalHCP() int {
	total := 0
	for _, c := range h {
		total += c.HCP()
	}
	return total
}

// Shape returns the hand's suit lengths as a 4-digit shape keyed by
// canonical suit order (Spades, Hearts, Diamonds, Clubs — the bridge
// convention for writing a shape like "4432").
func (h Hand) Shape() [4]int {
	counts := h.SuitCounts()
	return [4]int{counts[Spades], counts[Hearts], counts[Diamonds], counts[Clubs]}
}

// SortedShape returns the hand's suit lengths sorted descending, the
// suit-agnostic "4-4-3-2 pattern" notation used by shape exclusion clauses
// with SortedShape set.
func (h Hand) SortedShape() [4]int {
	shape := h.Shape()
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if shape[j] > shape[i] {
				shape[i], shape[j] = shape[j], shape[i]
			}
		}
	}
	return shape
}
