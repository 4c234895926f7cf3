package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/bridgedeal/card"
)

// formatHand renders a hand as four suit-grouped rank strings, high to low,
// e.g. "AKQ2.JT9.876.54" (PBN-style suit-dot notation, Spades first).
func formatHand(h card.Hand) string {
	bySuit := map[card.Suit][]card.Rank{}
	for _, c := range h {
		bySuit[c.Suit()] = append(bySuit[c.Suit()], c.Rank())
	}
	order := [4]card.Suit{card.Spades, card.Hearts, card.Diamonds, card.Clubs}
	parts := make([]string, 4)
	for i, s := range order {
		ranks := bySuit[s]
		sort.Slice(ranks, func(a, b int) bool { return ranks[a] > ranks[b] })
		var b strings.Builder
		for _, r := range ranks {
			b.WriteString(r.String())
		}
		if b.Len() == 0 {
			b.WriteString("-")
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ".")
}

func formatShape(h card.Hand) string {
	shape := h.Shape()
	return fmt.Sprintf("%d-%d-%d-%d", shape[0], shape[1], shape[2], shape[3])
}
