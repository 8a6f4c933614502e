package chacha

// carrySize is sized to the widest batch (8 blocks, 512 bytes) rather
// than one block, regardless of which variant the running CPU selects,
// so a single batch-function call can always satisfy the tail of an
// unaligned request.
const carrySize = 8 * BlockSize

// Context is a seekable, stateful keystream generator. It owns the
// ChaCha state, a carry-over buffer of keystream bytes generated but
// not yet handed to a caller, and the batch function selected for the
// life of the context.
type Context struct {
	s      state
	rounds int
	fn     batchFunc

	carry    [carrySize]byte
	off, end int
}

// NewContext creates a streaming context from a 256-bit key and a
// 16-byte IV (the first 8 bytes set the initial block counter, normally
// zero; the last 8 bytes are the nonce). rounds should be 8, 12 or 20;
// the block function itself works for any even value. The fastest
// batch implementation the running CPU supports is bound now and never
// re-probed.
func NewContext(key *[KeySize]byte, iv *[IVSize]byte, rounds int) *Context {
	c := &Context{rounds: rounds, fn: selectBatch()}
	c.s.init(key, iv)
	return c
}

// Wipe zeroes the context's state and carry-over buffer, including key
// material, and resets the cursor. The context must not be used again
// afterwards.
func (c *Context) Wipe() {
	c.s.wipe()
	for i := range c.carry {
		c.carry[i] = 0
	}
	c.off, c.end = 0, 0
}

// SeekBlocks repositions the keystream cursor by a signed number of
// 64-byte blocks, wrapping the 64-bit counter modulo 2^64. It discards
// any unread carry-over bytes and generates no keystream.
func (c *Context) SeekBlocks(delta int64) {
	c.s.advance(delta)
	c.off, c.end = 0, 0
}

// CloneAt returns an independent context sharing this one's key and
// IV, pre-seeked by blockOffset blocks. This is the operation the
// parallel writer pipeline performs once per slot at startup, exposed
// here so other counter-partitioned parallel schemes do not need to
// reimplement it.
func (c *Context) CloneAt(blockOffset int64) *Context {
	clone := *c
	clone.off, clone.end = 0, 0
	clone.s.advance(blockOffset)
	return &clone
}

// Update fills out with the next len(out) bytes of keystream. A
// zero-length out is a no-op. Requests far larger than one batch are
// satisfied with a single batch-function call so vectorized code runs
// at peak throughput; only the unaligned tail, if any, goes through
// the carry-over buffer.
func (c *Context) Update(out []byte) {
	if len(out) == 0 {
		return
	}

	n := 0
	if c.off < c.end {
		n = copy(out, c.carry[c.off:c.end])
		c.off += n
	}
	rem := out[n:]
	if len(rem) == 0 {
		return
	}

	blockBytes := c.fn.blockBytes()
	full := (len(rem) / blockBytes) * blockBytes
	if full > 0 {
		c.fn.run(rem[:full], &c.s, c.rounds)
	}

	tail := rem[full:]
	if len(tail) > 0 {
		c.fn.run(c.carry[:blockBytes], &c.s, c.rounds)
		copy(tail, c.carry[:len(tail)])
		c.off = len(tail)
		c.end = blockBytes
	}
}
