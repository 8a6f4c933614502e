package rqseed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeoVasanko/RandQuik/internal/rqerr"
)

func TestDecodeSeedPadsShortHex(t *testing.T) {
	key, err := DecodeSeed("deadbeef")
	require.NoError(t, err)
	require.Equal(t, byte(0xde), key[0])
	require.Equal(t, byte(0xef), key[3])
	for i := 4; i < len(key); i++ {
		require.Zero(t, key[i])
	}
}

func TestDecodeSeedOddLengthPadsNibble(t *testing.T) {
	key, err := DecodeSeed("abc")
	require.NoError(t, err)
	require.Equal(t, byte(0xab), key[0])
	require.Equal(t, byte(0xc0), key[1])
}

func TestDecodeSeedRejectsNonHex(t *testing.T) {
	_, err := DecodeSeed("zz")
	require.Error(t, err)
	var rerr *rqerr.Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, rqerr.SeedFormat, rerr.Kind)
}

func TestDecodeSeedRejectsOversize(t *testing.T) {
	long := ""
	for i := 0; i < 66; i++ {
		long += "a"
	}
	_, err := DecodeSeed(long)
	require.Error(t, err)
}

func TestEncodeDecodeSeedRoundTrip(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = byte(i)
	}
	s := EncodeSeed(key)
	decoded, err := DecodeSeed(s)
	require.NoError(t, err)
	require.Equal(t, key, decoded)
}

func TestRandomSeedProducesFullLengthKey(t *testing.T) {
	key, err := RandomSeed(context.Background())
	require.NoError(t, err)

	allZero := true
	for _, b := range key {
		if b != 0 {
			allZero = false
			break
		}
	}
	require.False(t, allZero, "random seed should not be all-zero (astronomically unlikely)")
}

func TestParseByteCountUnits(t *testing.T) {
	cases := map[string]uint64{
		"":      0,
		"0":     0,
		"100":   100,
		"1k":    1000,
		"1kb":   1000,
		"1ki":   1024,
		"1kib":  1024,
		"2m":    2 * 1000 * 1000,
		"2mi":   2 * 1024 * 1024,
		"3g":    3 * 1000 * 1000 * 1000,
		"3gib":  3 * 1024 * 1024 * 1024,
		"1t":    1000 * 1000 * 1000 * 1000,
		"1TIB":  1024 * 1024 * 1024 * 1024,
		"1Ki":   1024,
	}
	for input, want := range cases {
		got, err := ParseByteCount(input)
		require.NoErrorf(t, err, "input %q", input)
		require.Equalf(t, want, got, "input %q", input)
	}
}

func TestParseByteCountRejectsGarbage(t *testing.T) {
	_, err := ParseByteCount("xyz")
	require.Error(t, err)

	_, err = ParseByteCount("5zz")
	require.Error(t, err)
}

func TestValidateRounds(t *testing.T) {
	for _, r := range []uint{8, 12, 20} {
		require.NoError(t, ValidateRounds(r))
	}
	for _, r := range []uint{0, 1, 10, 16, 21} {
		require.Error(t, ValidateRounds(r))
	}
}
