//go:build linux && !cuda

package device

import "golang.org/x/sys/unix"

// Anonymous private mappings are zero-filled by the kernel, which matches
// the zero-initialized contract of AllocZeroed. Keeping arena pages out of
// the Go heap also mirrors how real device memory behaves: the collector
// never moves or scans them.
func arenaAlloc(bytes int64) ([]byte, error) {
	return unix.Mmap(-1, 0, int(bytes), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
}

func arenaFree(mem []byte) error {
	return unix.Munmap(mem)
}
