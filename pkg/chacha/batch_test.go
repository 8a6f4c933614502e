package chacha

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var validRounds = []int{8, 12, 20}

func genKeyIVRounds(t *rapid.T) ([KeySize]byte, [IVSize]byte, int) {
	var key [KeySize]byte
	var iv [IVSize]byte
	kb := rapid.SliceOfN(rapid.Byte(), KeySize, KeySize).Draw(t, "key")
	ib := rapid.SliceOfN(rapid.Byte(), IVSize, IVSize).Draw(t, "iv")
	copy(key[:], kb)
	copy(iv[:], ib)
	rounds := rapid.SampledFrom(validRounds).Draw(t, "rounds")
	return key, iv, rounds
}

// TestBatch4EquivalenceToScalar checks that, for every (key, iv,
// rounds, n), the 4-block variant over 256n bytes equals 4n successive
// scalar block calls.
func TestBatch4EquivalenceToScalar(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key, iv, rounds := genKeyIVRounds(t)
		n := rapid.IntRange(1, 64).Draw(t, "n")

		var s4, ssc state
		s4.init(&key, &iv)
		ssc.init(&key, &iv)

		out4 := make([]byte, 256*n)
		batch4(out4, &s4, rounds)

		outSc := make([]byte, 256*n)
		scalarBatch(outSc, &ssc, rounds)

		require.Equal(t, outSc, out4)
		require.Equal(t, ssc.counter(), s4.counter())
	})
}

// TestBatch8EquivalenceToScalar is the width-8 half of the same
// property: 512n bytes from the 8-block variant equal 8n scalar calls.
func TestBatch8EquivalenceToScalar(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key, iv, rounds := genKeyIVRounds(t)
		n := rapid.IntRange(1, 64).Draw(t, "n")

		var s8, ssc state
		s8.init(&key, &iv)
		ssc.init(&key, &iv)

		out8 := make([]byte, 512*n)
		batch8(out8, &s8, rounds)

		outSc := make([]byte, 512*n)
		scalarBatch(outSc, &ssc, rounds)

		require.Equal(t, outSc, out8)
		require.Equal(t, ssc.counter(), s8.counter())
	})
}

// TestBatchLeavesTailUnwritten checks that a size not a multiple of
// blockBytes only writes the floor(size/blockBytes)*blockBytes prefix.
func TestBatchLeavesTailUnwritten(t *testing.T) {
	var key [KeySize]byte
	var iv [IVSize]byte
	var s state
	s.init(&key, &iv)

	out := make([]byte, 256*3+100) // 3 full batches of 4 blocks + a tail
	sentinel := byte(0xAA)
	for i := range out {
		out[i] = sentinel
	}

	batch4(out, &s, 20)

	for i := 256 * 3; i < len(out); i++ {
		require.Equal(t, sentinel, out[i], "byte %d in the unwritten tail must be untouched", i)
	}
	require.Equal(t, uint64(12), s.counter()) // 3 batches * 4 blocks
}
