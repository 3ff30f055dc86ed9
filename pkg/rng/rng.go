// Package rng provides device-resident pseudorandom number generation.
//
// A BitGenerator owns a block of device memory holding many independent
// generator stream contexts for one algorithm. A Generator composes a
// BitGenerator with the chunked kernel dispatch that maps arbitrarily large
// sample requests onto the fixed stream pool, and exposes distribution
// sampling on top: uniform integers in a range, beta, and standard
// exponential.
//
// Sampling calls are synchronous from the caller's perspective but enqueue
// work onto an execution stream; reading an Array back to the host is the
// synchronization point.
package rng

import (
	"errors"

	"github.com/samcharles93/devrand/internal/kernels"
)

// Algorithm selects the parallel generator family of a BitGenerator.
type Algorithm = kernels.Algorithm

const (
	XORWOW     = kernels.XORWOW
	MRG32k3a   = kernels.MRG32k3a
	Philox4x32 = kernels.Philox4x32
)

// Dtype identifies the element type of an output Array.
type Dtype = kernels.Dtype

const (
	U32 = kernels.U32
	U64 = kernels.U64
	F32 = kernels.F32
	F64 = kernels.F64
)

// StateBytes returns the per-stream generator context size of an algorithm.
func StateBytes(a Algorithm) int { return kernels.StateBytes(a) }

// ParseAlgorithm resolves a user-facing algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) { return kernels.ParseAlgorithm(name) }

var (
	// ErrWrongDevice reports generator state accessed from a device other
	// than the one it was allocated on.
	ErrWrongDevice = errors.New("generator state owned by another device")

	// ErrRangeOverflow reports an integer sampling range wider than 64 bits.
	ErrRangeOverflow = errors.New("high - low must be within 64-bit unsigned range")

	// ErrUnsupportedMethod reports a sampling method that is recognized but
	// deliberately not implemented.
	ErrUnsupportedMethod = errors.New("sampling method not supported")

	// ErrClosed reports use of a BitGenerator after Close.
	ErrClosed = errors.New("generator is closed")
)
