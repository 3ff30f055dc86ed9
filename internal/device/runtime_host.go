//go:build !cuda

package device

import (
	"fmt"
	"sync"
	"unsafe"
)

// The host runtime models a fixed pool of virtual devices. Allocations are
// plain process memory tagged with the device they were made on, which is
// enough to honor the same ownership contract the CUDA runtime enforces.
const hostDeviceCount = 4

var (
	hostMu      sync.Mutex
	hostCurrent ID
)

// Count reports the number of visible devices.
func Count() int { return hostDeviceCount }

// Current returns the active device.
func Current() ID {
	hostMu.Lock()
	defer hostMu.Unlock()
	return hostCurrent
}

// Set makes id the active device for subsequent allocations and launches.
func Set(id ID) error {
	if id < 0 || int(id) >= hostDeviceCount {
		return fmt.Errorf("%w: %d (have %d)", ErrBadDevice, id, hostDeviceCount)
	}
	hostMu.Lock()
	hostCurrent = id
	hostMu.Unlock()
	return nil
}

// Buffer is a device memory allocation.
type Buffer struct {
	mem []byte
	dev ID
}

// AllocZeroed allocates bytes of zero-initialized memory on the active
// device. A zero-length request returns an empty buffer without allocating.
func AllocZeroed(bytes int64) (Buffer, error) {
	if bytes < 0 {
		return Buffer{}, fmt.Errorf("device alloc size must be >= 0, got %d", bytes)
	}
	if bytes == 0 {
		return Buffer{dev: Current()}, nil
	}
	mem, err := arenaAlloc(bytes)
	if err != nil {
		return Buffer{}, fmt.Errorf("host arena alloc %d bytes: %w", bytes, err)
	}
	return Buffer{mem: mem, dev: Current()}, nil
}

// Free releases the allocation. Freeing an empty buffer is a no-op.
func (b Buffer) Free() error {
	if len(b.mem) == 0 {
		return nil
	}
	return arenaFree(b.mem)
}

// Ptr returns the raw device address of the allocation.
func (b Buffer) Ptr() unsafe.Pointer {
	if len(b.mem) == 0 {
		return nil
	}
	return unsafe.Pointer(&b.mem[0])
}

// OffsetPtr returns the device address off bytes into the allocation.
func (b Buffer) OffsetPtr(off int64) unsafe.Pointer {
	if off < 0 || off > int64(len(b.mem)) {
		panic(fmt.Sprintf("device: offset %d outside buffer of %d bytes", off, len(b.mem)))
	}
	return unsafe.Add(b.Ptr(), off)
}

// Len returns the allocation size in bytes.
func (b Buffer) Len() int64 { return int64(len(b.mem)) }

// Device returns the device the buffer was allocated on.
func (b Buffer) Device() ID { return b.dev }

// Stream is an ordered command queue. The host runtime executes enqueued
// work synchronously, so streams carry no state beyond identity.
type Stream struct {
	id uint64
}

var hostStreamSeq uint64

// NewStream creates an independent command queue.
func NewStream() (Stream, error) {
	hostMu.Lock()
	hostStreamSeq++
	id := hostStreamSeq
	hostMu.Unlock()
	return Stream{id: id}, nil
}

// Default returns the runtime's default stream.
func Default() Stream { return Stream{} }

// Destroy releases the stream.
func (s Stream) Destroy() error { return nil }

// Synchronize blocks until all enqueued work has completed.
func (s Stream) Synchronize() error { return nil }

// MemcpyH2D copies bytes from host memory at src into dst.
func MemcpyH2D(dst Buffer, src unsafe.Pointer, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	if bytes > dst.Len() {
		return fmt.Errorf("h2d copy of %d bytes into %d-byte buffer", bytes, dst.Len())
	}
	copy(dst.mem[:bytes], unsafe.Slice((*byte)(src), bytes))
	return nil
}

// MemcpyD2H copies bytes from src into host memory at dst.
func MemcpyD2H(dst unsafe.Pointer, src Buffer, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	if bytes > src.Len() {
		return fmt.Errorf("d2h copy of %d bytes from %d-byte buffer", bytes, src.Len())
	}
	copy(unsafe.Slice((*byte)(dst), bytes), src.mem[:bytes])
	return nil
}

// MemcpyD2D copies bytes between two device allocations.
func MemcpyD2D(dst, src Buffer, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	if bytes > dst.Len() || bytes > src.Len() {
		return fmt.Errorf("d2d copy of %d bytes between buffers of %d and %d bytes", bytes, src.Len(), dst.Len())
	}
	copy(dst.mem[:bytes], src.mem[:bytes])
	return nil
}
