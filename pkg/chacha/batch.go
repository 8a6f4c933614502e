package chacha

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// batchFunc fills out with as many full batches as fit:
// ⌊len(out)/blockBytes⌋ batches, where blockBytes is the variant's
// width in blocks times BlockSize. It advances s's counter by the
// number of blocks emitted and leaves any remainder of out untouched.
type batchFunc struct {
	width int // blocks per batch: 1 (scalar), 4 or 8
	run   func(out []byte, s *state, rounds int)
}

// blockBytes is the number of bytes one invocation's inner loop
// produces per iteration.
func (b batchFunc) blockBytes() int { return b.width * BlockSize }

// lanesBatch is the shared implementation behind batch4 and batch8: it
// replicates s across `width` lanes with per-lane counter offsets
// 0..width-1, runs the identical double-round structure used by the
// scalar block function on every lane, then transposes lane output
// into emission order (lane 0's block first). This is a portable
// structure-of-arrays stand-in for real AVX2/SSSE3/Neon lane
// instructions, not hand-written assembly; it gets the batching
// structure and bit-for-bit correctness right without betting on
// unverified opcodes.
func lanesBatch(width int, out []byte, s *state, rounds int) {
	blockBytes := width * BlockSize
	batches := len(out) / blockBytes

	var lanes [8][16]uint32
	var blk [BlockSize]byte

	for batch := 0; batch < batches; batch++ {
		for lane := 0; lane < width; lane++ {
			ls := *s
			ls.advance(int64(lane))
			lanes[lane] = [16]uint32(ls)
		}

		for i := 0; i < rounds/2; i++ {
			for lane := 0; lane < width; lane++ {
				doubleRound(&lanes[lane])
			}
		}

		for lane := 0; lane < width; lane++ {
			origin := *s
			origin.advance(int64(lane))
			for i := 0; i < 16; i++ {
				binary.LittleEndian.PutUint32(blk[i*4:], lanes[lane][i]+origin[i])
			}
			copy(out[batch*blockBytes+lane*BlockSize:], blk[:])
		}

		s.advance(int64(width))
	}
}

func batch4(out []byte, s *state, rounds int) { lanesBatch(4, out, s, rounds) }
func batch8(out []byte, s *state, rounds int) { lanesBatch(8, out, s, rounds) }

// scalarBatch is the width-1 fallback: block-by-block, used when no
// wider variant is selected and as the equivalence oracle in tests.
func scalarBatch(out []byte, s *state, rounds int) {
	n := len(out) / BlockSize
	var blk [BlockSize]byte
	for i := 0; i < n; i++ {
		block(&blk, s, rounds)
		copy(out[i*BlockSize:], blk[:])
	}
}

var (
	scalarFunc = batchFunc{width: 1, run: scalarBatch}
	batch4Func = batchFunc{width: 4, run: batch4}
	batch8Func = batchFunc{width: 8, run: batch8}
)

// selectBatch probes for the widest lane layout the running CPU
// supports: AVX2-class width first, then SSSE3/Neon-class width, else
// scalar. The chosen function is bound once at context init and never
// re-evaluated, so the capability probe never runs inside update().
func selectBatch() batchFunc {
	switch {
	case cpu.X86.HasAVX2:
		return batch8Func
	case cpu.X86.HasSSSE3, cpu.ARM64.HasASIMD:
		return batch4Func
	default:
		return scalarFunc
	}
}
