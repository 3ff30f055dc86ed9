//go:build !cuda

package rng

import (
	"errors"
	"testing"

	"github.com/samcharles93/devrand/internal/device"
)

func newHostGenerator(t *testing.T, alg Algorithm, seed Seed, streams int) *Generator {
	t.Helper()
	bg, err := NewBitGenerator(alg, seed, WithStreams(streams), WithBackend("host"))
	if err != nil {
		t.Fatalf("NewBitGenerator: %v", err)
	}
	t.Cleanup(func() { bg.Close() })
	return New(bg)
}

func TestIntegersValuesInRange(t *testing.T) {
	g := newHostGenerator(t, XORWOW, NewSeed(7), 32)
	arr, err := g.Integers(-5, 5, 200, false)
	if err != nil {
		t.Fatalf("Integers: %v", err)
	}
	defer arr.Free()
	vals, err := arr.Int64s()
	if err != nil {
		t.Fatalf("Int64s: %v", err)
	}
	if len(vals) != 200 {
		t.Fatalf("got %d values", len(vals))
	}
	for i, v := range vals {
		if v < -5 || v >= 5 {
			t.Fatalf("value %d at %d outside [-5, 5)", v, i)
		}
	}
}

func TestIntegersEndpointInclusive(t *testing.T) {
	g := newHostGenerator(t, Philox4x32, NewSeed(3), 16)
	arr, err := g.Integers(0, 3, 500, true)
	if err != nil {
		t.Fatalf("Integers: %v", err)
	}
	defer arr.Free()
	vals, err := arr.Int64s()
	if err != nil {
		t.Fatalf("Int64s: %v", err)
	}
	seen := make(map[int64]bool)
	for i, v := range vals {
		if v < 0 || v > 3 {
			t.Fatalf("value %d at %d outside [0, 3]", v, i)
		}
		seen[v] = true
	}
	// 500 draws over 4 values; all of them should occur, including the
	// endpoint itself.
	for want := int64(0); want <= 3; want++ {
		if !seen[want] {
			t.Fatalf("value %d never drawn", want)
		}
	}
}

func TestSamplingDeterministic(t *testing.T) {
	for _, alg := range []Algorithm{XORWOW, MRG32k3a, Philox4x32} {
		a := newHostGenerator(t, alg, NewSeed(12345), 16)
		b := newHostGenerator(t, alg, NewSeed(12345), 16)

		// The request spans several chunks so determinism covers the
		// cross-chunk stream reuse too.
		arrA, err := a.Integers(0, 1000, 100, false)
		if err != nil {
			t.Fatalf("%v Integers: %v", alg, err)
		}
		defer arrA.Free()
		arrB, err := b.Integers(0, 1000, 100, false)
		if err != nil {
			t.Fatalf("%v Integers: %v", alg, err)
		}
		defer arrB.Free()

		va, err := arrA.Int64s()
		if err != nil {
			t.Fatalf("Int64s: %v", err)
		}
		vb, err := arrB.Int64s()
		if err != nil {
			t.Fatalf("Int64s: %v", err)
		}
		for i := range va {
			if va[i] != vb[i] {
				t.Fatalf("%v: sequences diverge at %d: %d != %d", alg, i, va[i], vb[i])
			}
		}
	}
}

func TestSeedIndependentOfDevice(t *testing.T) {
	orig := device.Current()
	defer device.Set(orig)

	a := newHostGenerator(t, XORWOW, NewSeed(9), 8)
	if err := device.Set(1); err != nil {
		t.Fatalf("Set(1): %v", err)
	}
	b := newHostGenerator(t, XORWOW, NewSeed(9), 8)

	arrB, err := b.StandardExponential(40, F64, MethodInverse, nil)
	if err != nil {
		t.Fatalf("StandardExponential on device 1: %v", err)
	}
	defer arrB.Free()
	vb, err := arrB.Float64s()
	if err != nil {
		t.Fatalf("Float64s: %v", err)
	}

	if err := device.Set(orig); err != nil {
		t.Fatalf("restore device: %v", err)
	}
	arrA, err := a.StandardExponential(40, F64, MethodInverse, nil)
	if err != nil {
		t.Fatalf("StandardExponential on device 0: %v", err)
	}
	defer arrA.Free()
	va, err := arrA.Float64s()
	if err != nil {
		t.Fatalf("Float64s: %v", err)
	}

	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("same seed diverges across devices at %d: %v != %v", i, va[i], vb[i])
		}
	}
}

func TestCrossDeviceAccessRejected(t *testing.T) {
	orig := device.Current()
	defer device.Set(orig)

	g := newHostGenerator(t, MRG32k3a, NewSeed(5), 16)
	if err := device.Set(1); err != nil {
		t.Fatalf("Set(1): %v", err)
	}

	if _, err := g.Integers(0, 10, 5, false); !errors.Is(err, ErrWrongDevice) {
		t.Fatalf("Integers err=%v, want ErrWrongDevice", err)
	}
	if _, err := g.Beta(1, 1, 5, F64); !errors.Is(err, ErrWrongDevice) {
		t.Fatalf("Beta err=%v, want ErrWrongDevice", err)
	}
	if _, err := g.StandardExponential(5, F64, MethodInverse, nil); !errors.Is(err, ErrWrongDevice) {
		t.Fatalf("StandardExponential err=%v, want ErrWrongDevice", err)
	}
	if _, err := g.BitGenerator().State(); !errors.Is(err, ErrWrongDevice) {
		t.Fatalf("State err=%v, want ErrWrongDevice", err)
	}

	// Back on the owning device everything works again.
	if err := device.Set(orig); err != nil {
		t.Fatalf("restore device: %v", err)
	}
	arr, err := g.Integers(0, 10, 5, false)
	if err != nil {
		t.Fatalf("Integers after restore: %v", err)
	}
	arr.Free()
}

func TestBetaSamples(t *testing.T) {
	g := newHostGenerator(t, XORWOW, NewSeed(11), 64)
	arr, err := g.Beta(2, 5, 300, F64)
	if err != nil {
		t.Fatalf("Beta: %v", err)
	}
	defer arr.Free()
	vals, err := arr.Float64s()
	if err != nil {
		t.Fatalf("Float64s: %v", err)
	}
	var sum float64
	for i, v := range vals {
		if v < 0 || v > 1 {
			t.Fatalf("beta sample %v at %d outside [0,1]", v, i)
		}
		sum += v
	}
	// Mean of Beta(2,5) is 2/7; allow a generous tolerance for 300 draws.
	mean := sum / float64(len(vals))
	if mean < 0.15 || mean > 0.42 {
		t.Fatalf("beta(2,5) sample mean %v implausibly far from 2/7", mean)
	}
}

func TestStandardExponentialSamples(t *testing.T) {
	g := newHostGenerator(t, Philox4x32, NewSeed(13), 64)
	arr, err := g.StandardExponential(300, F32, MethodInverse, nil)
	if err != nil {
		t.Fatalf("StandardExponential: %v", err)
	}
	defer arr.Free()
	vals, err := arr.Float32s()
	if err != nil {
		t.Fatalf("Float32s: %v", err)
	}
	var sum float64
	for i, v := range vals {
		if v < 0 {
			t.Fatalf("negative exponential sample %v at %d", v, i)
		}
		sum += float64(v)
	}
	mean := sum / float64(len(vals))
	if mean < 0.7 || mean > 1.4 {
		t.Fatalf("exp(1) sample mean %v implausibly far from 1", mean)
	}
}

func TestStandardExponentialDestination(t *testing.T) {
	g := newHostGenerator(t, XORWOW, NewSeed(17), 32)
	dst, err := newArray(F64, 50, g.bits.queue)
	if err != nil {
		t.Fatalf("newArray: %v", err)
	}
	defer dst.Free()

	got, err := g.StandardExponential(50, F64, MethodInverse, dst)
	if err != nil {
		t.Fatalf("StandardExponential: %v", err)
	}
	if got != dst {
		t.Fatalf("returned array is not the supplied destination")
	}
	vals, err := got.Float64s()
	if err != nil {
		t.Fatalf("Float64s: %v", err)
	}
	nonzero := 0
	for _, v := range vals {
		if v != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		t.Fatalf("destination was not populated")
	}
}
