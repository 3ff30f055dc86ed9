package rng

import (
	"fmt"
	"sync"

	"github.com/samcharles93/devrand/internal/device"
	"github.com/samcharles93/devrand/internal/kernels"
)

// DefaultStreams is the default number of parallel generator streams, and
// thus the maximum number of independent samples one kernel launch produces.
const DefaultStreams = 102400

// BitGenerator owns the device-resident stream contexts of one algorithm.
// The state block is allocated and seeded exactly once at construction,
// lives on the device that was active at that moment, and is released by
// Close. The embedded mutex serializes sampling calls that share the state:
// kernels advance each stream's counters in place, so two interleaved
// dispatches would make the effective advancement non-deterministic.
type BitGenerator struct {
	mu      sync.Mutex
	alg     kernels.Algorithm
	streams int
	state   device.Buffer
	dev     device.ID
	lib     kernels.Library
	queue   device.Stream
	closed  bool
}

type genConfig struct {
	streams int
	backend string
	lib     kernels.Library
	queue   device.Stream
}

// Option configures BitGenerator construction.
type Option func(*genConfig)

// WithStreams overrides the stream count.
func WithStreams(n int) Option {
	return func(c *genConfig) { c.streams = n }
}

// WithBackend selects the kernel backend by name (auto, host, cuda).
func WithBackend(name string) Option {
	return func(c *genConfig) { c.backend = name }
}

// WithLibrary supplies a kernel library directly, bypassing backend lookup.
func WithLibrary(lib kernels.Library) Option {
	return func(c *genConfig) { c.lib = lib }
}

// OnStream enqueues all of the generator's work on s instead of the
// default execution stream.
func OnStream(s device.Stream) Option {
	return func(c *genConfig) { c.queue = s }
}

// NewBitGenerator allocates and seeds device state for alg on the currently
// active device.
func NewBitGenerator(alg Algorithm, seed Seed, opts ...Option) (*BitGenerator, error) {
	cfg := genConfig{
		streams: DefaultStreams,
		backend: kernels.Auto,
		queue:   device.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.streams <= 0 {
		return nil, fmt.Errorf("stream count must be positive, got %d", cfg.streams)
	}
	per := kernels.StateBytes(alg)
	if per <= 0 {
		return nil, fmt.Errorf("unknown algorithm %v", alg)
	}
	lib := cfg.lib
	if lib == nil {
		var err error
		lib, err = kernels.Open(cfg.backend)
		if err != nil {
			return nil, err
		}
	}

	working, err := seed.expand()
	if err != nil {
		return nil, fmt.Errorf("expand seed: %w", err)
	}

	g := &BitGenerator{
		alg:     alg,
		streams: cfg.streams,
		dev:     device.Current(),
		lib:     lib,
		queue:   cfg.queue,
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state, err = device.AllocZeroed(int64(per) * int64(cfg.streams))
	if err != nil {
		return nil, fmt.Errorf("allocate %v state: %w", alg, err)
	}
	if err := lib.InitState(alg, g.state, working, cfg.streams, g.queue); err != nil {
		_ = g.state.Free()
		return nil, fmt.Errorf("seed %v state: %w", alg, err)
	}
	return g, nil
}

// State returns the device state block. It fails with ErrWrongDevice before
// the handle escapes if the currently active device is not the one the state
// was allocated on.
func (g *BitGenerator) State() (device.Buffer, error) {
	if g.closed {
		return device.Buffer{}, ErrClosed
	}
	if err := g.checkDevice(); err != nil {
		return device.Buffer{}, err
	}
	return g.state, nil
}

// checkDevice enforces device affinity. It must pass before any operation
// that touches the state block.
func (g *BitGenerator) checkDevice() error {
	if cur := device.Current(); cur != g.dev {
		return fmt.Errorf("%w: state on device %d, active device %d", ErrWrongDevice, g.dev, cur)
	}
	return nil
}

// Streams returns the fixed number of parallel generator streams.
func (g *BitGenerator) Streams() int { return g.streams }

// Algorithm returns the fixed algorithm tag.
func (g *BitGenerator) Algorithm() Algorithm { return g.alg }

// Close releases the device state. Close is idempotent.
func (g *BitGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	return g.state.Free()
}
