package chacha

import "encoding/binary"

// bitgenBufSize is one full batch, so the adapter amortizes per-call
// overhead by refilling in large strides instead of one word at a time.
const bitgenBufSize = carrySize

// BitGenerator serves fixed-width integer and uniform-double draws
// from a streaming Context. It is not safe for concurrent use from
// multiple goroutines; callers needing parallel draws should use
// disjoint contexts obtained via Context.CloneAt.
type BitGenerator struct {
	ctx *Context
	buf [bitgenBufSize]byte
	pos int
}

// NewBitGenerator wraps ctx. The first draw triggers the initial fill.
func NewBitGenerator(ctx *Context) *BitGenerator {
	return &BitGenerator{ctx: ctx, pos: bitgenBufSize}
}

func (g *BitGenerator) fill() {
	g.ctx.Update(g.buf[:])
	g.pos = 0
}

// NextUint32 advances 4 bytes of keystream and returns them as a
// little-endian uint32.
func (g *BitGenerator) NextUint32() uint32 {
	if g.pos+4 > bitgenBufSize {
		g.fill()
	}
	v := binary.LittleEndian.Uint32(g.buf[g.pos:])
	g.pos += 4
	return v
}

// NextUint64 advances 8 bytes of keystream and returns them as a
// little-endian uint64.
func (g *BitGenerator) NextUint64() uint64 {
	if g.pos+8 > bitgenBufSize {
		g.fill()
	}
	v := binary.LittleEndian.Uint64(g.buf[g.pos:])
	g.pos += 8
	return v
}

// NextDouble draws a uint64, takes its top 53 bits, and scales them
// into [0, 1).
func (g *BitGenerator) NextDouble() float64 {
	u := g.NextUint64()
	return float64(u>>11) * (1.0 / (1 << 53))
}
