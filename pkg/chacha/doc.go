// Package chacha implements the ChaCha keystream family (8, 12 and 20
// rounds) as a seekable, arbitrary-length byte stream.
//
// The state layout, block function and batch functions follow the
// original Bernstein construction: a 64-bit block counter and a 64-bit
// nonce packed into the last eight words of the 16-word state, not the
// IETF RFC 8439 96-bit-nonce/32-bit-counter variant. Keystream bytes are
// produced by Context, which also backs the bit-generator adapter used
// by numerical-library consumers.
package chacha
