package rng

import (
	"fmt"
	"unsafe"

	"github.com/samcharles93/devrand/internal/device"
)

// Array is a device-resident output buffer of n elements of one dtype.
// Samples land in it in place; the typed accessors synchronize the owning
// execution stream and copy the values back to the host. For integer arrays
// produced by Integers the accessors materialize low + offset, so the device
// buffer itself always holds raw offsets in [0, diff].
type Array struct {
	dtype Dtype
	n     int
	buf   device.Buffer
	queue device.Stream
	bias  int64
}

func newArray(dt Dtype, n int, queue device.Stream) (*Array, error) {
	if n < 0 {
		return nil, fmt.Errorf("array length must be >= 0, got %d", n)
	}
	buf, err := device.AllocZeroed(int64(n) * int64(dt.Size()))
	if err != nil {
		return nil, fmt.Errorf("allocate %d-element %v array: %w", n, dt, err)
	}
	return &Array{dtype: dt, n: n, buf: buf, queue: queue}, nil
}

// Len returns the element count.
func (a *Array) Len() int { return a.n }

// Dtype returns the element type.
func (a *Array) Dtype() Dtype { return a.dtype }

// Free releases the device buffer.
func (a *Array) Free() error { return a.buf.Free() }

func (a *Array) ptrAt(i int) unsafe.Pointer {
	return a.buf.OffsetPtr(int64(i) * int64(a.dtype.Size()))
}

// hostCopy synchronizes the stream and copies the raw buffer to the host.
func (a *Array) hostCopy() ([]byte, error) {
	if a.n == 0 {
		return nil, nil
	}
	if err := a.queue.Synchronize(); err != nil {
		return nil, fmt.Errorf("synchronize stream: %w", err)
	}
	raw := make([]byte, a.buf.Len())
	if err := device.MemcpyD2H(unsafe.Pointer(&raw[0]), a.buf, a.buf.Len()); err != nil {
		return nil, fmt.Errorf("copy array to host: %w", err)
	}
	return raw, nil
}

// Uint32s reads a U32 array back to the host.
func (a *Array) Uint32s() ([]uint32, error) {
	if a.dtype != U32 {
		return nil, fmt.Errorf("array dtype is %v, not %v", a.dtype, U32)
	}
	raw, err := a.hostCopy()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, a.n)
	if a.n > 0 {
		copy(out, unsafe.Slice((*uint32)(unsafe.Pointer(&raw[0])), a.n))
	}
	for i := range out {
		out[i] = uint32(uint64(out[i]) + uint64(a.bias))
	}
	return out, nil
}

// Uint64s reads a U64 array back to the host.
func (a *Array) Uint64s() ([]uint64, error) {
	if a.dtype != U64 {
		return nil, fmt.Errorf("array dtype is %v, not %v", a.dtype, U64)
	}
	raw, err := a.hostCopy()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, a.n)
	if a.n > 0 {
		copy(out, unsafe.Slice((*uint64)(unsafe.Pointer(&raw[0])), a.n))
	}
	for i := range out {
		out[i] += uint64(a.bias)
	}
	return out, nil
}

// Int64s reads an integer array (either width) back to the host as int64.
func (a *Array) Int64s() ([]int64, error) {
	if a.dtype != U32 && a.dtype != U64 {
		return nil, fmt.Errorf("array dtype is %v, not an integer type", a.dtype)
	}
	raw, err := a.hostCopy()
	if err != nil {
		return nil, err
	}
	out := make([]int64, a.n)
	if a.n == 0 {
		return out, nil
	}
	if a.dtype == U32 {
		vals := unsafe.Slice((*uint32)(unsafe.Pointer(&raw[0])), a.n)
		for i, v := range vals {
			out[i] = int64(v) + a.bias
		}
	} else {
		vals := unsafe.Slice((*uint64)(unsafe.Pointer(&raw[0])), a.n)
		for i, v := range vals {
			out[i] = int64(v + uint64(a.bias))
		}
	}
	return out, nil
}

// Float32s reads an F32 array back to the host.
func (a *Array) Float32s() ([]float32, error) {
	if a.dtype != F32 {
		return nil, fmt.Errorf("array dtype is %v, not %v", a.dtype, F32)
	}
	raw, err := a.hostCopy()
	if err != nil {
		return nil, err
	}
	out := make([]float32, a.n)
	if a.n > 0 {
		copy(out, unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), a.n))
	}
	return out, nil
}

// Float64s reads an F64 array back to the host.
func (a *Array) Float64s() ([]float64, error) {
	if a.dtype != F64 {
		return nil, fmt.Errorf("array dtype is %v, not %v", a.dtype, F64)
	}
	raw, err := a.hostCopy()
	if err != nil {
		return nil, err
	}
	out := make([]float64, a.n)
	if a.n > 0 {
		copy(out, unsafe.Slice((*float64)(unsafe.Pointer(&raw[0])), a.n))
	}
	return out, nil
}
