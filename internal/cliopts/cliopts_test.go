package cliopts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeoVasanko/RandQuik/internal/rqerr"
)

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(nil)
	require.NoError(t, err)
	require.EqualValues(t, defaultThreads, opts.Threads)
	require.EqualValues(t, defaultRounds, opts.Rounds)
	require.Zero(t, opts.MaxBytes)
	require.False(t, opts.HasSeed)
	require.True(t, opts.OpensStdout())
}

func TestParseRejectsBadRounds(t *testing.T) {
	_, err := Parse([]string{"-r", "16"})
	require.Error(t, err)
	var rerr *rqerr.Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, rqerr.BadOption, rerr.Kind)
}

func TestParseRejectsZeroThreads(t *testing.T) {
	_, err := Parse([]string{"-t", "0"})
	require.Error(t, err)
}

func TestParseByteCapSuffix(t *testing.T) {
	opts, err := Parse([]string{"-b", "256mib"})
	require.NoError(t, err)
	require.EqualValues(t, 256*1024*1024, opts.MaxBytes)
}

func TestParseSeedAndOutput(t *testing.T) {
	opts, err := Parse([]string{"-s", "deadbeef", "-o", "out.bin"})
	require.NoError(t, err)
	require.True(t, opts.HasSeed)
	require.Equal(t, "deadbeef", opts.SeedHex)
	require.False(t, opts.OpensStdout())
}

func TestCheckOutputTargetRefusesBareTTY(t *testing.T) {
	err := CheckOutputTarget("", true)
	require.Error(t, err)
	var rerr *rqerr.Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, rqerr.RefuseTTY, rerr.Kind)
}

func TestCheckOutputTargetRefusesExplicitDashAtTTY(t *testing.T) {
	err := CheckOutputTarget("-", true)
	require.Error(t, err)
	var rerr *rqerr.Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, rqerr.RefuseTTY, rerr.Kind)
}

func TestCheckOutputTargetAllowsFileOrRedirect(t *testing.T) {
	require.NoError(t, CheckOutputTarget("out.bin", true))
	require.NoError(t, CheckOutputTarget("", false))
	require.NoError(t, CheckOutputTarget("-", false))
}
