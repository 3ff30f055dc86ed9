package rng

import (
	"fmt"
	"unsafe"

	"github.com/samcharles93/devrand/internal/device"
)

// chunkKernel launches one distribution kernel over a contiguous chunk of
// the output buffer. Implementations are closures capturing the algorithm
// tag and the distribution parameters.
type chunkKernel func(state device.Buffer, out unsafe.Pointer, n int, s device.Stream) error

// dispatch tiles the output across the generator's stream pool: ceil(N/S)
// launches, chunk i covering [i*S, i*S+min(S, N-i*S)), issued strictly in
// index order on one stream against the same state block. Reusing the
// stream pool across chunks trades cross-chunk independence for unbounded
// output sizes; within a chunk every sample comes from its own stream.
//
// A stream count of 0 means "unbounded" and collapses to a single launch
// over the whole buffer. A failed launch aborts the remaining chunks; the
// buffer contents are undefined past the last successful chunk.
func (g *Generator) dispatch(out *Array, launch chunkKernel) error {
	bg := g.bits
	bg.mu.Lock()
	defer bg.mu.Unlock()

	state, err := bg.State()
	if err != nil {
		return err
	}
	n := out.n
	if n == 0 {
		return nil
	}
	s := bg.streams
	if s == 0 {
		return launch(state, out.ptrAt(0), n, bg.queue)
	}

	chunks := (n + s - 1) / s
	for i := 0; i < chunks; i++ {
		off := i * s
		size := min(s, n-off)
		if err := launch(state, out.ptrAt(off), size, bg.queue); err != nil {
			return fmt.Errorf("launch chunk %d/%d: %w", i+1, chunks, err)
		}
	}
	return nil
}
