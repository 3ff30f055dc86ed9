// Package seedseq derives the 64-bit working seed that device generator
// state is initialized from. Expansion is deterministic for explicit seeds
// (the same seed words produce the same working seed on every machine and
// device) and falls back to OS entropy when no seed is given.
package seedseq

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// splitmix64 constants (Steele, Lea, Flood 2014).
const (
	smIncrement = 0x9e3779b97f4a7c15
	smMulA      = 0xbf58476d1ce4e5b9
	smMulB      = 0x94d049bb133111eb
)

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= smMulA
	x ^= x >> 27
	x *= smMulB
	x ^= x >> 31
	return x
}

// Expand folds the provided seed words into one working seed.
// A nil or empty slice means "use OS entropy".
func Expand(words []uint64) (uint64, error) {
	if len(words) == 0 {
		return fromEntropy()
	}
	var state uint64
	for _, w := range words {
		state = mix(state + smIncrement + w)
	}
	return state, nil
}

// Derive produces the seed for one stream of a multi-stream generator.
// Streams seeded from the same working seed but different indexes are
// decorrelated by the same mixing function used by Expand.
func Derive(working uint64, stream uint64) uint64 {
	return mix(working + smIncrement*(stream+1))
}

func fromEntropy() (uint64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read OS entropy: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
