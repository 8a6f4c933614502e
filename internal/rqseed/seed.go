// Package rqseed implements the CLI's seed and byte-cap input parsing:
// hex seed decoding, zero-padding of short seeds, OS entropy reads with
// a bounded retry, and the k/m/g/t byte-suffix parser. None of this is
// part of the ChaCha engine itself — it is thin glue, built once so
// cmd/randquik stays a thin wiring layer.
package rqseed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/LeoVasanko/RandQuik/internal/rqerr"
	"github.com/LeoVasanko/RandQuik/pkg/chacha"
)

// DecodeSeed parses a hex seed string into a 32-byte key. Shorter
// strings are zero-padded on the right. An odd number of hex digits is
// padded with a trailing zero nibble before decoding.
func DecodeSeed(hexSeed string) ([chacha.KeySize]byte, error) {
	var key [chacha.KeySize]byte

	s := hexSeed
	if len(s)%2 != 0 {
		s += "0"
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return key, rqerr.Wrap(rqerr.SeedFormat, fmt.Sprintf("invalid hex seed %q", hexSeed), err)
	}
	if len(raw) > chacha.KeySize {
		return key, rqerr.New(rqerr.SeedFormat, fmt.Sprintf("seed is %d bytes, at most %d allowed", len(raw), chacha.KeySize))
	}
	copy(key[:], raw)
	return key, nil
}

// EncodeSeed is DecodeSeed's inverse, used to echo a reproduction
// command line when a seed was auto-generated.
func EncodeSeed(key [chacha.KeySize]byte) string {
	return hex.EncodeToString(key[:])
}

// RandomSeed reads 32 uniformly random bytes from the OS entropy
// source, retrying transient failures a bounded number of times before
// surfacing a SeedEntropy error.
func RandomSeed(ctx context.Context) ([chacha.KeySize]byte, error) {
	var key [chacha.KeySize]byte

	base, err := retry.NewConstant(50 * time.Millisecond)
	if err != nil {
		return key, rqerr.Wrap(rqerr.SeedEntropy, "could not configure entropy retry", err)
	}
	backoff := retry.WithMaxRetries(4, base)

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := rand.Read(key[:])
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return key, rqerr.Wrap(rqerr.SeedEntropy, "could not read from the OS entropy source", err)
	}
	return key, nil
}

// unitMultipliers maps a case-insensitive byte-count suffix to its
// multiplier. SI suffixes are base-1000; IEC/binary suffixes (ki,
// kib, ...) are base-1024.
var unitMultipliers = map[string]uint64{
	"":    1,
	"k":   1000,
	"kb":  1000,
	"ki":  1024,
	"kib": 1024,
	"m":   1000 * 1000,
	"mb":  1000 * 1000,
	"mi":  1024 * 1024,
	"mib": 1024 * 1024,
	"g":   1000 * 1000 * 1000,
	"gb":  1000 * 1000 * 1000,
	"gi":  1024 * 1024 * 1024,
	"gib": 1024 * 1024 * 1024,
	"t":   1000 * 1000 * 1000 * 1000,
	"tb":  1000 * 1000 * 1000 * 1000,
	"ti":  1024 * 1024 * 1024 * 1024,
	"tib": 1024 * 1024 * 1024 * 1024,
}

// ParseByteCount parses a decimal byte count with an optional unit
// suffix. An empty string or "0" means unlimited.
func ParseByteCount(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') {
		i++
	}
	if i == 0 {
		return 0, rqerr.New(rqerr.BadOption, fmt.Sprintf("byte count %q has no leading digits", s))
	}

	number, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return 0, rqerr.Wrap(rqerr.BadOption, fmt.Sprintf("byte count %q out of range", s), err)
	}

	suffix := strings.ToLower(strings.TrimSpace(s[i:]))
	mult, ok := unitMultipliers[suffix]
	if !ok {
		return 0, rqerr.New(rqerr.BadOption, fmt.Sprintf("unrecognized byte unit %q in %q", suffix, s))
	}

	return number * mult, nil
}

// ValidateRounds enforces that rounds is one of the supported ChaCha
// round counts: 8, 12 or 20.
func ValidateRounds(rounds uint) error {
	switch rounds {
	case 8, 12, 20:
		return nil
	default:
		return rqerr.New(rqerr.BadOption, fmt.Sprintf("rounds must be 8, 12 or 20, got %d", rounds))
	}
}
