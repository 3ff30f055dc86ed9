//go:build !cuda

package kernels

import (
	"fmt"
	"math/rand/v2"
	"unsafe"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samcharles93/devrand/internal/device"
	"github.com/samcharles93/devrand/internal/seedseq"
)

// hostLibrary fulfils the kernel contract against host-resident virtual
// device memory. Each stream context embeds a serialized math/rand/v2 PCG;
// distribution draws delegate to gonum. Work "enqueued" on a stream runs
// synchronously, which trivially satisfies the in-order launch contract.
type hostLibrary struct{}

func (hostLibrary) Name() string { return Host }

// pcgBlobBytes is the length of (*rand.PCG).MarshalBinary output. Each
// stream's context stores the blob at offset 0; the rest of the slot is
// padding up to the algorithm's native context size.
const pcgBlobBytes = 20

func slotCount(alg Algorithm, state device.Buffer) (int, error) {
	per := StateBytes(alg)
	if per <= 0 {
		return 0, fmt.Errorf("unknown algorithm %v", alg)
	}
	if state.Len()%int64(per) != 0 {
		return 0, fmt.Errorf("state of %d bytes is not a multiple of the %d-byte %v context", state.Len(), per, alg)
	}
	return int(state.Len() / int64(per)), nil
}

func slot(alg Algorithm, state device.Buffer, i int) []byte {
	off := int64(i) * int64(StateBytes(alg))
	return unsafe.Slice((*byte)(state.OffsetPtr(off)), pcgBlobBytes)
}

func loadStream(alg Algorithm, state device.Buffer, i int) (*rand.PCG, error) {
	p := &rand.PCG{}
	if err := p.UnmarshalBinary(slot(alg, state, i)); err != nil {
		return nil, fmt.Errorf("stream %d context not initialized: %w", i, err)
	}
	return p, nil
}

func storeStream(alg Algorithm, state device.Buffer, i int, p *rand.PCG) error {
	blob, err := p.MarshalBinary()
	if err != nil {
		return fmt.Errorf("serialize stream %d context: %w", i, err)
	}
	copy(slot(alg, state, i), blob)
	return nil
}

func (hostLibrary) InitState(alg Algorithm, state device.Buffer, seed uint64, streams int, s device.Stream) error {
	slots, err := slotCount(alg, state)
	if err != nil {
		return err
	}
	if streams <= 0 || streams != slots {
		return fmt.Errorf("state holds %d contexts, init requested %d", slots, streams)
	}
	// Fold the algorithm tag into the per-stream seeds so that different
	// algorithms seeded identically still produce distinct sequences.
	algSeed := seedseq.Derive(seed, uint64(alg))
	for i := 0; i < streams; i++ {
		p := rand.NewPCG(algSeed, seedseq.Derive(seed, uint64(i)))
		if err := storeStream(alg, state, i, p); err != nil {
			return err
		}
	}
	return nil
}

// eachStream advances streams 0..n-1 by one draw each, persisting the
// advanced context back into state.
func eachStream(alg Algorithm, state device.Buffer, n int, draw func(i int, p *rand.PCG) error) error {
	slots, err := slotCount(alg, state)
	if err != nil {
		return err
	}
	if n < 0 || n > slots {
		return fmt.Errorf("chunk of %d exceeds %d generator contexts", n, slots)
	}
	for i := 0; i < n; i++ {
		p, err := loadStream(alg, state, i)
		if err != nil {
			return err
		}
		if err := draw(i, p); err != nil {
			return err
		}
		if err := storeStream(alg, state, i, p); err != nil {
			return err
		}
	}
	return nil
}

func (hostLibrary) Interval32(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, max, mask uint32) error {
	dst := unsafe.Slice((*uint32)(out), n)
	return eachStream(alg, state, n, func(i int, p *rand.PCG) error {
		for {
			v := uint32(p.Uint64()) & mask
			if v <= max {
				dst[i] = v
				return nil
			}
		}
	})
}

func (hostLibrary) Interval64(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, max, mask uint64) error {
	dst := unsafe.Slice((*uint64)(out), n)
	return eachStream(alg, state, n, func(i int, p *rand.PCG) error {
		for {
			v := p.Uint64() & mask
			if v <= max {
				dst[i] = v
				return nil
			}
		}
	})
}

func (hostLibrary) Beta(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, dt Dtype, a, b float64) error {
	if a <= 0 || b <= 0 {
		return fmt.Errorf("beta shape parameters must be positive, got a=%v b=%v", a, b)
	}
	return eachFloat(alg, state, out, n, dt, func(p *rand.PCG) float64 {
		return distuv.Beta{Alpha: a, Beta: b, Src: p}.Rand()
	})
}

func (hostLibrary) Exponential(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, s device.Stream, dt Dtype) error {
	return eachFloat(alg, state, out, n, dt, func(p *rand.PCG) float64 {
		return distuv.Exponential{Rate: 1, Src: p}.Rand()
	})
}

func eachFloat(alg Algorithm, state device.Buffer, out unsafe.Pointer, n int, dt Dtype, draw func(p *rand.PCG) float64) error {
	switch dt {
	case F32:
		dst := unsafe.Slice((*float32)(out), n)
		return eachStream(alg, state, n, func(i int, p *rand.PCG) error {
			dst[i] = float32(draw(p))
			return nil
		})
	case F64:
		dst := unsafe.Slice((*float64)(out), n)
		return eachStream(alg, state, n, func(i int, p *rand.PCG) error {
			dst[i] = draw(p)
			return nil
		})
	default:
		return fmt.Errorf("floating dtype required, got %v", dt)
	}
}
