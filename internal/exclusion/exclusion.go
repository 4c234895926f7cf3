// Package exclusion matches a dealt hand's shape against a seat's forbidden
// shape patterns (spec §3 "exclusion clauses"), e.g. "4432" or "4x3x" where
// 'x' is a wildcard digit. Seat-level pattern sets are small (at most a
// handful of entries), so matching is a simple linear scan — see
// DESIGN.md for why a minimal-perfect-hash table was not built for this.
package exclusion

import (
	"fmt"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/profile"
)

// Pattern is a parsed 4-digit shape pattern with optional wildcard digits.
type Pattern struct {
	digits  [4]int
	wild    [4]bool
	sorted  bool
	raw     string
}

// Parse parses a 4-character pattern string (each character '0'-'9' or
// 'x'/'X' for a wildcard) paired with whether it matches against the
// suit-keyed shape or the sorted shape.
func Parse(pattern string, sortedShape bool) (Pattern, error) {
	if len(pattern) != 4 {
		return Pattern{}, fmt.Errorf("exclusion: pattern %q must be exactly 4 characters", pattern)
	}
	var p Pattern
	p.raw = pattern
	p.sorted = sortedShape
	for i := 0; i < 4; i++ {
		ch := pattern[i]
		if ch == 'x' || ch == 'X' {
			p.wild[i] = true
			continue
		}
		if ch < '0' || ch > '9' {
			return Pattern{}, fmt.Errorf("exclusion: pattern %q has invalid digit %q at position %d", pattern, ch, i)
		}
		p.digits[i] = int(ch - '0')
	}
	return p, nil
}

// Matches reports whether the hand's shape (suit-keyed, or sorted if the
// pattern was parsed with sortedShape) matches this pattern.
func (p Pattern) Matches(h card.Hand) bool {
	var shape [4]int
	if p.sorted {
		shape = h.SortedShape()
	} else {
		shape = h.Shape()
	}
	for i := 0; i < 4; i++ {
		if p.wild[i] {
			continue
		}
		if shape[i] != p.digits[i] {
			return false
		}
	}
	return true
}

func (p Pattern) String() string { return p.raw }

// Set is a seat's compiled collection of forbidden shape patterns.
type Set struct {
	patterns []Pattern
}

// Build compiles a SeatProfile's exclusion clauses into a Set.
func Build(clauses []profile.ExclusionClause) (Set, error) {
	var s Set
	for _, c := range clauses {
		p, err := Parse(c.Pattern, c.SortedShape)
		if err != nil {
			return Set{}, err
		}
		s.patterns = append(s.patterns, p)
	}
	return s, nil
}

// Forbidden reports whether the hand matches any pattern in the set.
func (s Set) Forbidden(h card.Hand) bool {
	for _, p := range s.patterns {
		if p.Matches(h) {
			return true
		}
	}
	return false
}
