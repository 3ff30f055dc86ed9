//go:build !cuda

package device

import (
	"errors"
	"testing"
	"unsafe"
)

func TestAllocZeroed(t *testing.T) {
	buf, err := AllocZeroed(256)
	if err != nil {
		t.Fatalf("AllocZeroed: %v", err)
	}
	defer func() {
		if err := buf.Free(); err != nil {
			t.Fatalf("Free: %v", err)
		}
	}()

	if buf.Len() != 256 {
		t.Fatalf("Len=%d want 256", buf.Len())
	}
	if buf.Device() != Current() {
		t.Fatalf("buffer on device %d, current is %d", buf.Device(), Current())
	}
	mem := unsafe.Slice((*byte)(buf.Ptr()), buf.Len())
	for i, b := range mem {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, b)
		}
	}
}

func TestAllocZeroLength(t *testing.T) {
	buf, err := AllocZeroed(0)
	if err != nil {
		t.Fatalf("AllocZeroed(0): %v", err)
	}
	if buf.Len() != 0 || buf.Ptr() != nil {
		t.Fatalf("zero-length buffer holds memory: len=%d ptr=%p", buf.Len(), buf.Ptr())
	}
	if err := buf.Free(); err != nil {
		t.Fatalf("Free of empty buffer: %v", err)
	}
}

func TestMemcpyRoundTrip(t *testing.T) {
	const n = 64
	buf, err := AllocZeroed(n)
	if err != nil {
		t.Fatalf("AllocZeroed: %v", err)
	}
	defer buf.Free()

	in := make([]byte, n)
	for i := range in {
		in[i] = byte(i * 3)
	}
	if err := MemcpyH2D(buf, unsafe.Pointer(&in[0]), n); err != nil {
		t.Fatalf("MemcpyH2D: %v", err)
	}
	out := make([]byte, n)
	if err := MemcpyD2H(unsafe.Pointer(&out[0]), buf, n); err != nil {
		t.Fatalf("MemcpyD2H: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("mismatch at %d: got %#x want %#x", i, out[i], in[i])
		}
	}
}

func TestMemcpyD2D(t *testing.T) {
	const n = 32
	src, err := AllocZeroed(n)
	if err != nil {
		t.Fatalf("AllocZeroed src: %v", err)
	}
	defer src.Free()
	dst, err := AllocZeroed(n)
	if err != nil {
		t.Fatalf("AllocZeroed dst: %v", err)
	}
	defer dst.Free()

	in := make([]byte, n)
	for i := range in {
		in[i] = byte(255 - i)
	}
	if err := MemcpyH2D(src, unsafe.Pointer(&in[0]), n); err != nil {
		t.Fatalf("MemcpyH2D: %v", err)
	}
	if err := MemcpyD2D(dst, src, n); err != nil {
		t.Fatalf("MemcpyD2D: %v", err)
	}
	out := make([]byte, n)
	if err := MemcpyD2H(unsafe.Pointer(&out[0]), dst, n); err != nil {
		t.Fatalf("MemcpyD2H: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("mismatch at %d: got %#x want %#x", i, out[i], in[i])
		}
	}
}

func TestSetDevice(t *testing.T) {
	orig := Current()
	defer func() {
		if err := Set(orig); err != nil {
			t.Fatalf("restore device: %v", err)
		}
	}()

	if err := Set(1); err != nil {
		t.Fatalf("Set(1): %v", err)
	}
	if Current() != 1 {
		t.Fatalf("Current=%d after Set(1)", Current())
	}
	buf, err := AllocZeroed(16)
	if err != nil {
		t.Fatalf("AllocZeroed: %v", err)
	}
	defer buf.Free()
	if buf.Device() != 1 {
		t.Fatalf("buffer tagged with device %d, want 1", buf.Device())
	}

	if err := Set(ID(Count())); !errors.Is(err, ErrBadDevice) {
		t.Fatalf("Set(%d) err=%v, want ErrBadDevice", Count(), err)
	}
	if err := Set(-1); !errors.Is(err, ErrBadDevice) {
		t.Fatalf("Set(-1) err=%v, want ErrBadDevice", err)
	}
}

func TestOffsetPtr(t *testing.T) {
	buf, err := AllocZeroed(16)
	if err != nil {
		t.Fatalf("AllocZeroed: %v", err)
	}
	defer buf.Free()

	p := buf.OffsetPtr(8)
	if uintptr(p) != uintptr(buf.Ptr())+8 {
		t.Fatalf("OffsetPtr(8)=%p, base=%p", p, buf.Ptr())
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("OffsetPtr past end did not panic")
		}
	}()
	_ = buf.OffsetPtr(17)
}
