package api

import (
	"fmt"
	"sync"

	"github.com/samcharles93/devrand/pkg/rng"
)

type generatorKey struct {
	alg     rng.Algorithm
	seed    string
	streams int
}

// GeneratorStore caches one Generator per (algorithm, seed, streams)
// combination so repeated requests keep advancing the same stream state
// instead of re-allocating and re-seeding device memory per call.
type GeneratorStore struct {
	mu      sync.Mutex
	backend string
	streams int
	gens    map[generatorKey]*rng.Generator
}

// NewGeneratorStore builds a store opening generators on the named kernel
// backend. defaultStreams is used when a request does not set a stream
// count; 0 falls back to rng.DefaultStreams.
func NewGeneratorStore(backend string, defaultStreams int) *GeneratorStore {
	if defaultStreams <= 0 {
		defaultStreams = rng.DefaultStreams
	}
	return &GeneratorStore{
		backend: backend,
		streams: defaultStreams,
		gens:    make(map[generatorKey]*rng.Generator),
	}
}

// Acquire returns the cached generator for the request parameters,
// constructing and seeding it on first use. Entropy-seeded requests
// (empty seed) share one generator per (algorithm, streams) pair.
func (s *GeneratorStore) Acquire(alg rng.Algorithm, seed []uint64, streams int) (*rng.Generator, error) {
	if streams <= 0 {
		streams = s.streams
	}
	key := generatorKey{alg: alg, seed: fmt.Sprint(seed), streams: streams}

	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.gens[key]; ok {
		return g, nil
	}

	var sd rng.Seed
	if len(seed) > 0 {
		sd = rng.NewSeed(seed...)
	}
	bg, err := rng.NewBitGenerator(alg, sd, rng.WithStreams(streams), rng.WithBackend(s.backend))
	if err != nil {
		return nil, err
	}
	g := rng.New(bg)
	s.gens[key] = g
	return g, nil
}

// Close releases every cached generator's device state.
func (s *GeneratorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	for key, g := range s.gens {
		if e := g.BitGenerator().Close(); e != nil && err == nil {
			err = e
		}
		delete(s.gens, key)
	}
	return err
}

// Len reports the number of cached generators.
func (s *GeneratorStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.gens)
}
