//go:build cuda

package kernels

/*
#cgo LDFLAGS: -ldevrand_kernels -lcudart

// Forward declarations for the native kernel launchers; headers are not
// required at compile time, the linker resolves them from libdevrand_kernels.
typedef void* cudaStream_t;

extern const char* devrand_error_string(int code);
extern int devrand_init_state(int alg, void* state, unsigned long long seed, int streams, cudaStream_t stream);
extern int devrand_interval_32(int alg, void* state, unsigned int* out, int n, cudaStream_t stream, unsigned int max, unsigned int mask);
extern int devrand_interval_64(int alg, void* state, unsigned long long* out, int n, cudaStream_t stream, unsigned long long max, unsigned long long mask);
extern int devrand_beta(int alg, void* state, void* out, int n, cudaStream_t stream, int dtype, double a, double b);
extern int devrand_exponential(int alg, void* state, void* out, int n, cudaStream_t stream, int dtype);
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/samcharles93/devrand/internal/device"
)

// cudaLibrary launches the native sampling kernels. Launches are fire and
// forget enqueues on the caller's stream; the runtime serializes them.
type cudaLibrary struct{}

func (cudaLibrary) Name() string { return CUDA }

func (cudaLibrary) InitState(alg Algorithm, state device.Buffer, seed uint64, streams int, s device.Stream) error {
	return kernelErr("init_state", C.devrand_init_state(C.int(alg), state.Ptr(), C.ulonglong(seed), C.int(streams), C.cudaStream_t(s.Handle())))
}

func (cudaLibrary) Interval32(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, max, mask uint32) error {
	return kernelErr("interval_32", C.devrand_interval_32(C.int(alg), state.Ptr(), (*C.uint)(out), C.int(n), C.cudaStream_t(s.Handle()), C.uint(max), C.uint(mask)))
}

func (cudaLibrary) Interval64(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, max, mask uint64) error {
	return kernelErr("interval_64", C.devrand_interval_64(C.int(alg), state.Ptr(), (*C.ulonglong)(out), C.int(n), C.cudaStream_t(s.Handle()), C.ulonglong(max), C.ulonglong(mask)))
}

func (cudaLibrary) Beta(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, dt Dtype, a, b float64) error {
	return kernelErr("beta", C.devrand_beta(C.int(alg), state.Ptr(), out, C.int(n), C.cudaStream_t(s.Handle()), C.int(dt), C.double(a), C.double(b)))
}

func (cudaLibrary) Exponential(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, dt Dtype) error {
	return kernelErr("exponential", C.devrand_exponential(C.int(alg), state.Ptr(), out, C.int(n), C.cudaStream_t(s.Handle()), C.int(dt)))
}

func kernelErr(name string, code C.int) error {
	if code == 0 {
		return nil
	}
	msg := C.GoString(C.devrand_error_string(code))
	return fmt.Errorf("kernel %s failed: %s (%d)", name, msg, int(code))
}
