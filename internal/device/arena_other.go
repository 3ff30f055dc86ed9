//go:build !linux && !cuda

package device

func arenaAlloc(bytes int64) ([]byte, error) {
	return make([]byte, bytes), nil
}

func arenaFree(mem []byte) error {
	return nil
}
