//go:build !cuda

package kernels

import "errors"

const cudaEnabled = false

var errCUDAUnavailable = errors.New("cuda kernels not available in this build")

func newHost() (Library, error) {
	return hostLibrary{}, nil
}

func newCUDA() (Library, error) {
	return nil, errCUDAUnavailable
}
