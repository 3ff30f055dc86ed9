package rng

import "github.com/samcharles93/devrand/internal/seedseq"

// Seed selects how generator state is seeded. The zero value means "derive
// from OS entropy"; NewSeed fixes the expansion so identically seeded
// generators reproduce the same sequences on any device. A Seed is immutable
// and consumed once, at BitGenerator construction.
type Seed struct {
	words []uint64
}

// NewSeed builds an explicit seed from one or more words.
func NewSeed(words ...uint64) Seed {
	s := Seed{words: make([]uint64, len(words))}
	copy(s.words, words)
	return s
}

// OSEntropy returns the "seed from OS entropy" sentinel.
func OSEntropy() Seed { return Seed{} }

// Explicit reports whether the seed was fixed by the caller.
func (s Seed) Explicit() bool { return len(s.words) > 0 }

func (s Seed) expand() (uint64, error) {
	return seedseq.Expand(s.words)
}
