package rng

import (
	"errors"
	"unsafe"

	"github.com/samcharles93/devrand/internal/device"
	"github.com/samcharles93/devrand/internal/kernels"
)

// fakeLib records every kernel invocation so tests can assert on the chunk
// plan and the arguments derived for each distribution.
type launchRecord struct {
	kind string
	ptr  uintptr
	n    int
	max  uint64
	mask uint64
	dt   kernels.Dtype
	a, b float64
}

var errLaunchFailed = errors.New("injected launch failure")

type fakeLib struct {
	inits    int
	seeds    []uint64
	launches []launchRecord
	failAt   int // fail the i-th launch (1-based), 0 = never
}

func (f *fakeLib) Name() string { return "fake" }

func (f *fakeLib) InitState(alg kernels.Algorithm, state device.Buffer, seed uint64, streams int, s device.Stream) error {
	f.inits++
	f.seeds = append(f.seeds, seed)
	return nil
}

func (f *fakeLib) record(r launchRecord) error {
	f.launches = append(f.launches, r)
	if f.failAt > 0 && len(f.launches) == f.failAt {
		return errLaunchFailed
	}
	return nil
}

func (f *fakeLib) Interval32(alg kernels.Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, max, mask uint32) error {
	return f.record(launchRecord{kind: "interval32", ptr: uintptr(out), n: n, max: uint64(max), mask: uint64(mask)})
}

func (f *fakeLib) Interval64(alg kernels.Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, max, mask uint64) error {
	return f.record(launchRecord{kind: "interval64", ptr: uintptr(out), n: n, max: max, mask: mask})
}

func (f *fakeLib) Beta(alg kernels.Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, dt kernels.Dtype, a, b float64) error {
	return f.record(launchRecord{kind: "beta", ptr: uintptr(out), n: n, dt: dt, a: a, b: b})
}

func (f *fakeLib) Exponential(alg kernels.Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, dt kernels.Dtype) error {
	return f.record(launchRecord{kind: "exponential", ptr: uintptr(out), n: n, dt: dt})
}
