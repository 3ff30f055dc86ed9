//go:build cuda

package device

/*
#cgo LDFLAGS: -lcudart

// Minimal CUDA runtime forward declarations to avoid requiring headers at
// compile time. The linker still requires libcudart when building with the
// cuda tag.
typedef void* cudaStream_t;
typedef int cudaError_t;

extern const char* cudaGetErrorString(cudaError_t err);
extern cudaError_t cudaGetDeviceCount(int* count);
extern cudaError_t cudaGetDevice(int* dev);
extern cudaError_t cudaSetDevice(int dev);
extern cudaError_t cudaStreamCreate(cudaStream_t* stream);
extern cudaError_t cudaStreamDestroy(cudaStream_t stream);
extern cudaError_t cudaStreamSynchronize(cudaStream_t stream);
extern cudaError_t cudaMalloc(void** ptr, unsigned long long size);
extern cudaError_t cudaMemset(void* ptr, int value, unsigned long long size);
extern cudaError_t cudaFree(void* ptr);
extern cudaError_t cudaMemcpy(void* dst, const void* src, unsigned long long size, int kind);

#define DEVRAND_CUDA_MEMCPY_HOST_TO_DEVICE 1
#define DEVRAND_CUDA_MEMCPY_DEVICE_TO_HOST 2
#define DEVRAND_CUDA_MEMCPY_DEVICE_TO_DEVICE 3

static const char* devrandCudaGetErrorString(cudaError_t err) {
	return cudaGetErrorString(err);
}

static int devrandCudaGetDeviceCount(int* out) {
	return (int)cudaGetDeviceCount(out);
}

static int devrandCudaGetDevice(int* out) {
	return (int)cudaGetDevice(out);
}

static int devrandCudaSetDevice(int dev) {
	return (int)cudaSetDevice(dev);
}

static int devrandCudaStreamCreate(cudaStream_t* out) {
	return (int)cudaStreamCreate(out);
}

static int devrandCudaStreamDestroy(cudaStream_t stream) {
	return (int)cudaStreamDestroy(stream);
}

static int devrandCudaStreamSynchronize(cudaStream_t stream) {
	return (int)cudaStreamSynchronize(stream);
}

static int devrandCudaMalloc(void** ptr, unsigned long long size) {
	return (int)cudaMalloc(ptr, size);
}

static int devrandCudaMemset(void* ptr, int value, unsigned long long size) {
	return (int)cudaMemset(ptr, value, size);
}

static int devrandCudaFree(void* ptr) {
	return (int)cudaFree(ptr);
}

static int devrandCudaMemcpy(void* dst, const void* src, unsigned long long size, int kind) {
	return (int)cudaMemcpy(dst, src, size, kind);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Count reports the number of visible devices.
func Count() int {
	var count C.int
	if err := cudaErr(C.devrandCudaGetDeviceCount(&count)); err != nil {
		return 0
	}
	return int(count)
}

// Current returns the active device.
func Current() ID {
	var dev C.int
	if err := cudaErr(C.devrandCudaGetDevice(&dev)); err != nil {
		return 0
	}
	return ID(dev)
}

// Set makes id the active device for subsequent allocations and launches.
func Set(id ID) error {
	if id < 0 || int(id) >= Count() {
		return fmt.Errorf("%w: %d (have %d)", ErrBadDevice, id, Count())
	}
	return cudaErr(C.devrandCudaSetDevice(C.int(id)))
}

// Buffer is a device memory allocation.
type Buffer struct {
	ptr  unsafe.Pointer
	size int64
	dev  ID
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
	var ptr unsafe.Pointer
	if err := cudaErr(C.devrandCudaMalloc((*unsafe.Pointer)(&ptr), C.ulonglong(bytes))); err != nil {
		return Buffer{}, err
	}
	if err := cudaErr(C.devrandCudaMemset(ptr, 0, C.ulonglong(bytes))); err != nil {
		_ = cudaErr(C.devrandCudaFree(ptr))
		return Buffer{}, err
	}
	return Buffer{ptr: ptr, size: bytes, dev: Current()}, nil
}

// Free releases the allocation. Freeing an empty buffer is a no-op.
func (b Buffer) Free() error {
	if b.ptr == nil {
		return nil
	}
	return cudaErr(C.devrandCudaFree(b.ptr))
}

// Ptr returns the raw device address of the allocation.
func (b Buffer) Ptr() unsafe.Pointer { return b.ptr }

// OffsetPtr returns the device address off bytes into the allocation.
func (b Buffer) OffsetPtr(off int64) unsafe.Pointer {
	if off < 0 || off > b.size {
		panic(fmt.Sprintf("device: offset %d outside buffer of %d bytes", off, b.size))
	}
	return unsafe.Add(b.ptr, off)
}

// Len returns the allocation size in bytes.
func (b Buffer) Len() int64 { return b.size }

// Device returns the device the buffer was allocated on.
func (b Buffer) Device() ID { return b.dev }

// Stream is an ordered command queue.
type Stream struct {
	ptr C.cudaStream_t
}

// NewStream creates an independent command queue.
func NewStream() (Stream, error) {
	var stream C.cudaStream_t
	if err := cudaErr(C.devrandCudaStreamCreate(&stream)); err != nil {
		return Stream{}, err
	}
	return Stream{ptr: stream}, nil
}

// Default returns the runtime's default stream.
func Default() Stream { return Stream{} }

// Destroy releases the stream.
func (s Stream) Destroy() error {
	if s.ptr == nil {
		return nil
	}
	return cudaErr(C.devrandCudaStreamDestroy(s.ptr))
}

// Synchronize blocks until all enqueued work has completed.
func (s Stream) Synchronize() error {
	return cudaErr(C.devrandCudaStreamSynchronize(s.ptr))
}

// Handle returns the raw stream handle for kernel launches.
func (s Stream) Handle() unsafe.Pointer { return unsafe.Pointer(s.ptr) }

// MemcpyH2D copies bytes from host memory at src into dst.
func MemcpyH2D(dst Buffer, src unsafe.Pointer, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	return cudaErr(C.devrandCudaMemcpy(dst.ptr, src, C.ulonglong(bytes), C.DEVRAND_CUDA_MEMCPY_HOST_TO_DEVICE))
}

// MemcpyD2H copies bytes from src into host memory at dst.
func MemcpyD2H(dst unsafe.Pointer, src Buffer, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	return cudaErr(C.devrandCudaMemcpy(dst, src.ptr, C.ulonglong(bytes), C.DEVRAND_CUDA_MEMCPY_DEVICE_TO_HOST))
}

// MemcpyD2D copies bytes between two device allocations.
func MemcpyD2D(dst, src Buffer, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	return cudaErr(C.devrandCudaMemcpy(dst.ptr, src.ptr, C.ulonglong(bytes), C.DEVRAND_CUDA_MEMCPY_DEVICE_TO_DEVICE))
}

func cudaErr(code C.int) error {
	if code == 0 {
		return nil
	}
	msg := C.GoString(C.devrandCudaGetErrorString(C.cudaError_t(code)))
	return fmt.Errorf("cuda runtime error %d: %s", int(code), msg)
}
