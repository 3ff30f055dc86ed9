// Package kernels is the boundary to the native sampling kernels. It owns
// the algorithm and dtype tags, the per-stream state sizes of the underlying
// generator contexts, and the Library interface the sampling layer launches
// through.
//
// Builds with the cuda tag bind the native kernel library. Default builds
// ship a host backend that fulfils the same contract against host-resident
// virtual device memory, with the generator cores supplied by math/rand/v2
// and the distribution draws by gonum.
package kernels

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/samcharles93/devrand/internal/device"
)

// Algorithm identifies one of the supported parallel generator families.
type Algorithm int

const (
	// XORWOW is the xor-shift family generator.
	XORWOW Algorithm = iota
	// MRG32k3a is the combined multiple recursive generator.
	MRG32k3a
	// Philox4x32 is the Philox 4x32-10 counter-based generator.
	Philox4x32
)

func (a Algorithm) String() string {
	switch a {
	case XORWOW:
		return "xorwow"
	case MRG32k3a:
		return "mrg32k3a"
	case Philox4x32:
		return "philox4x32-10"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm resolves a user-facing algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "xorwow":
		return XORWOW, nil
	case "mrg32k3a", "mrg":
		return MRG32k3a, nil
	case "philox4x32-10", "philox4x32", "philox":
		return Philox4x32, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q (expected xorwow, mrg32k3a, or philox)", name)
	}
}

// StateBytes returns the size of one stream's generator context in device
// memory. The sizes are fixed by the native context structs of each
// algorithm. Unknown algorithms report 0.
func StateBytes(a Algorithm) int {
	switch a {
	case XORWOW:
		return 48
	case MRG32k3a:
		return 72
	case Philox4x32:
		return 64
	default:
		return 0
	}
}

// Dtype identifies the element type of an output buffer.
type Dtype int

const (
	U32 Dtype = iota
	U64
	F32
	F64
)

// Size returns the element width in bytes.
func (d Dtype) Size() int {
	switch d {
	case U32, F32:
		return 4
	default:
		return 8
	}
}

func (d Dtype) String() string {
	switch d {
	case U32:
		return "uint32"
	case U64:
		return "uint64"
	case F32:
		return "float32"
	case F64:
		return "float64"
	default:
		return fmt.Sprintf("Dtype(%d)", int(d))
	}
}

// Library is the set of kernels the sampling layer launches. All launches
// are enqueue operations on the given stream; out always points into device
// memory and n never exceeds the number of generator contexts in state.
type Library interface {
	Name() string

	// InitState populates streams independent generator contexts in state
	// from the 64-bit working seed.
	InitState(alg Algorithm, state device.Buffer, seed uint64, streams int, s device.Stream) error

	// Interval32 fills n uint32 values uniform on [0, max], rejecting raw
	// draws d with d&mask > max and redrawing.
	Interval32(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, max, mask uint32) error

	// Interval64 is the 64-bit counterpart of Interval32.
	Interval64(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, max, mask uint64) error

	// Beta fills n floating values drawn from Beta(a, b).
	Beta(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, dt Dtype, a, b float64) error

	// Exponential fills n floating values drawn from Exp(1) by inversion.
	Exponential(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, dt Dtype) error
}

// Backend names accepted by Open.
const (
	Host = "host"
	CUDA = "cuda"
	Auto = "auto"
)

// Normalize canonicalizes a backend name.
func Normalize(name string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(name))
	if backend == "" {
		return Auto, nil
	}
	switch backend {
	case Host, CUDA, Auto:
		return backend, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected auto, host, or cuda)", name)
	}
}

// Open returns the kernel library for the named backend.
func Open(name string) (Library, error) {
	backend, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	switch backend {
	case Host:
		return newHost()
	case CUDA:
		return newCUDA()
	default:
		if cudaEnabled {
			return newCUDA()
		}
		return newHost()
	}
}

// Available returns the usable backend for this build.
func Available() string {
	if cudaEnabled {
		return CUDA
	}
	return Host
}
