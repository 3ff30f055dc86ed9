//go:build cuda

package kernels

import "errors"

const cudaEnabled = true

// In cuda builds device allocations are not host-addressable, so the host
// backend cannot operate on them.
var errHostUnavailable = errors.New("host kernels not available in cuda builds")

func newHost() (Library, error) {
	return nil, errHostUnavailable
}

func newCUDA() (Library, error) {
	return cudaLibrary{}, nil
}
