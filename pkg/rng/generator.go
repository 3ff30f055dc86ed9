package rng

import (
	"fmt"
	"math"
	"math/bits"
	"unsafe"

	"github.com/samcharles93/devrand/internal/device"
)

// Method selects the algorithm used for exponential sampling.
type Method string

const (
	// MethodInverse is the kernels' built-in inversion method.
	MethodInverse Method = "inv"
	// MethodZiggurat is recognized but not implemented.
	MethodZiggurat Method = "ziggurat"
)

// Generator is the sampling façade over a BitGenerator. It is stateless per
// call; all mutable state lives in the BitGenerator it wraps.
type Generator struct {
	bits *BitGenerator
}

// New returns a Generator drawing from bits.
func New(bits *BitGenerator) *Generator {
	return &Generator{bits: bits}
}

// BitGenerator returns the wrapped stream-state owner.
func (g *Generator) BitGenerator() *BitGenerator { return g.bits }

// Integers samples n integers uniformly from [low, high), or [low, high]
// when endpoint is set. The result array is U32 when the range width fits
// an unsigned 32-bit value and U64 when it fits 64 bits; a wider range
// fails with ErrRangeOverflow. Accessors materialize low + offset.
func (g *Generator) Integers(low int64, high uint64, n int, endpoint bool) (*Array, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count must be >= 0, got %d", n)
	}
	if err := g.bits.checkDevice(); err != nil {
		return nil, err
	}
	diff, err := rangeWidth(low, high, endpoint)
	if err != nil {
		return nil, err
	}
	// Smallest all-ones mask covering diff; kernels reject masked draws
	// above diff so no bit pattern is over-represented.
	mask := uint64(1)<<bits.Len64(diff) - 1

	alg := g.bits.alg
	lib := g.bits.lib
	var (
		out    *Array
		launch chunkKernel
	)
	if diff <= math.MaxUint32 {
		out, err = newArray(U32, n, g.bits.queue)
		launch = func(state device.Buffer, p unsafe.Pointer, c int, s device.Stream) error {
			return lib.Interval32(alg, state, p, c, s, uint32(diff), uint32(mask))
		}
	} else {
		out, err = newArray(U64, n, g.bits.queue)
		launch = func(state device.Buffer, p unsafe.Pointer, c int, s device.Stream) error {
			return lib.Interval64(alg, state, p, c, s, diff, mask)
		}
	}
	if err != nil {
		return nil, err
	}
	out.bias = low
	if err := g.dispatch(out, launch); err != nil {
		_ = out.Free()
		return nil, err
	}
	return out, nil
}

// rangeWidth computes the inclusive range width high-low (minus one for a
// half-open range) in uint64 space, failing with ErrRangeOverflow when the
// width does not fit 64 bits.
func rangeWidth(low int64, high uint64, endpoint bool) (uint64, error) {
	if low >= 0 {
		l := uint64(low)
		if high < l || (!endpoint && high == l) {
			return 0, fmt.Errorf("empty range [%d, %d)", low, high)
		}
		diff := high - l
		if !endpoint {
			diff--
		}
		return diff, nil
	}
	mag := uint64(-(low + 1)) + 1
	diff := high + mag
	if !endpoint {
		// The sum wraps to exactly 0 when the span holds 1<<64 values;
		// the half-open decrement brings that back to MaxUint64, which
		// is still representable.
		diff--
	}
	if diff < high {
		return 0, ErrRangeOverflow
	}
	return diff, nil
}

// Beta samples n values from the beta distribution with shape parameters
// a and b. dt must be F32 or F64; parameter bounds are enforced by the
// kernels.
func (g *Generator) Beta(a, b float64, n int, dt Dtype) (*Array, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count must be >= 0, got %d", n)
	}
	if dt != F32 && dt != F64 {
		return nil, fmt.Errorf("beta requires a floating dtype, got %v", dt)
	}
	if err := g.bits.checkDevice(); err != nil {
		return nil, err
	}
	out, err := newArray(dt, n, g.bits.queue)
	if err != nil {
		return nil, err
	}
	alg, lib := g.bits.alg, g.bits.lib
	launch := func(state device.Buffer, p unsafe.Pointer, c int, s device.Stream) error {
		return lib.Beta(alg, state, p, c, s, dt, a, b)
	}
	if err := g.dispatch(out, launch); err != nil {
		_ = out.Free()
		return nil, err
	}
	return out, nil
}

// StandardExponential samples n values from the rate-1 exponential
// distribution using the inversion method. MethodZiggurat fails with
// ErrUnsupportedMethod before anything is allocated or launched. When dst
// is non-nil the samples are copied into it and dst is returned; its dtype
// and length must match.
func (g *Generator) StandardExponential(n int, dt Dtype, method Method, dst *Array) (*Array, error) {
	switch method {
	case "", MethodInverse:
	case MethodZiggurat:
		return nil, fmt.Errorf("%w: ziggurat", ErrUnsupportedMethod)
	default:
		return nil, fmt.Errorf("unknown exponential method %q", method)
	}
	if n < 0 {
		return nil, fmt.Errorf("sample count must be >= 0, got %d", n)
	}
	if dt != F32 && dt != F64 {
		return nil, fmt.Errorf("exponential requires a floating dtype, got %v", dt)
	}
	if dst != nil && (dst.dtype != dt || dst.n != n) {
		return nil, fmt.Errorf("destination is %d x %v, want %d x %v", dst.n, dst.dtype, n, dt)
	}
	if err := g.bits.checkDevice(); err != nil {
		return nil, err
	}

	out, err := newArray(dt, n, g.bits.queue)
	if err != nil {
		return nil, err
	}
	alg, lib := g.bits.alg, g.bits.lib
	launch := func(state device.Buffer, p unsafe.Pointer, c int, s device.Stream) error {
		return lib.Exponential(alg, state, p, c, s, dt)
	}
	if err := g.dispatch(out, launch); err != nil {
		_ = out.Free()
		return nil, err
	}
	if dst == nil {
		return out, nil
	}
	if err := device.MemcpyD2D(dst.buf, out.buf, out.buf.Len()); err != nil {
		_ = out.Free()
		return nil, fmt.Errorf("copy into destination: %w", err)
	}
	if err := out.Free(); err != nil {
		return nil, err
	}
	return dst, nil
}
