// Package randutil centralises how bridgedeal derives and re-seeds its
// deterministic RNG, so every call site — the public API, the builder's
// nested retry loop, and tests — gets the same reproducible derivation.
package randutil

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *mathrand.Rand {
	u := uint64(seed)
	return mathrand.New(mathrand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Sub derives a child seed for a given board/attempt index from a parent
// seed, so per-board and per-attempt RNGs are reproducible without being
// identical to each other or to the parent (spec §8: distinct boards must
// not share a sub-sequence by accident).
func Sub(parentSeed int64, index int) int64 {
	return int64(mix(uint64(parentSeed) ^ mix(uint64(index)+goldenRatio64)))
}

// Reseed returns a fresh *rand.Rand seeded from a platform entropy source
// (crypto/rand), along with the int64 seed value actually used — callers
// that need reproducibility (spec §5/§8) must log or record this value,
// since a Reseed call makes the remainder of a run non-deterministic by
// design.
func Reseed() (*mathrand.Rand, int64, error) {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return nil, 0, err
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]))
	return New(seed), seed, nil
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
