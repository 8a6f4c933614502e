// Package cliopts owns randquik's flag surface: parsing, validation,
// and the terminal-refusal check. Argument parsing itself is thin
// glue, but it still needs a home so cmd/randquik stays a pure wiring
// layer.
package cliopts

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/LeoVasanko/RandQuik/internal/rqerr"
	"github.com/LeoVasanko/RandQuik/internal/rqseed"
)

// Options holds the parsed and validated CLI surface, including the
// --metrics-addr and -q additions.
type Options struct {
	Threads     uint
	SeedHex     string
	HasSeed     bool
	Rounds      uint
	MaxBytes    uint64
	Output      string
	MetricsAddr string
	Quiet       bool
}

const (
	defaultThreads = 8
	defaultRounds  = 20
)

// Parse parses args (normally os.Args[1:]) into Options. It validates
// rounds and the -b byte count inline so a single BadOption error
// covers the whole flag surface.
func Parse(args []string) (*Options, error) {
	fs := pflag.NewFlagSet("randquik", pflag.ContinueOnError)

	threads := fs.UintP("threads", 't', defaultThreads, "worker thread count")
	seed := fs.StringP("seed", 's', "", "32-byte hex seed; short strings are zero-padded")
	rounds := fs.UintP("rounds", 'r', defaultRounds, "ChaCha rounds: 8, 12 or 20")
	bytesFlag := fs.StringP("bytes", 'b', "0", "cap on total bytes written (0 = unlimited); accepts k/m/g/t suffixes")
	output := fs.StringP("output", 'o', "", "output file path, or - for stdout")
	metricsAddr := fs.String("metrics-addr", "", "optional address to serve Prometheus metrics on")
	quiet := fs.BoolP("quiet", 'q', false, "suppress non-error status lines")

	if err := fs.Parse(args); err != nil {
		return nil, rqerr.Wrap(rqerr.BadOption, "could not parse command-line flags", err)
	}

	if err := rqseed.ValidateRounds(*rounds); err != nil {
		return nil, err
	}

	maxBytes, err := rqseed.ParseByteCount(*bytesFlag)
	if err != nil {
		return nil, err
	}

	if *threads == 0 {
		return nil, rqerr.New(rqerr.BadOption, "thread count (-t) must be at least 1")
	}

	return &Options{
		Threads:     *threads,
		SeedHex:     *seed,
		HasSeed:     *seed != "",
		Rounds:      *rounds,
		MaxBytes:    maxBytes,
		Output:      *output,
		MetricsAddr: *metricsAddr,
		Quiet:       *quiet,
	}, nil
}

// CheckOutputTarget refuses to run when output resolves to stdout and
// stdout is a terminal, whether that's because -o was never given or
// because it was explicitly set to "-"; either way the bytes would
// otherwise spray straight at a TTY.
func CheckOutputTarget(output string, stdoutIsTerminal bool) error {
	if opensStdout(output) && stdoutIsTerminal {
		return rqerr.New(rqerr.RefuseTTY, "refusing to write pseudo-random bytes to a terminal; pass -o or redirect stdout")
	}
	return nil
}

func opensStdout(output string) bool {
	return output == "" || output == "-"
}

// IsStdoutTerminal reports whether os.Stdout is currently attached to
// a terminal, the live check CheckOutputTarget needs in production.
func IsStdoutTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// OpensStdout reports whether o.Output names stdout ("-" or absent).
func (o *Options) OpensStdout() bool {
	return opensStdout(o.Output)
}

// String implements fmt.Stringer so logging call sites get one
// readable line instead of Go's default struct dump.
func (o *Options) String() string {
	return fmt.Sprintf("threads=%d rounds=%d max_bytes=%d output=%q metrics_addr=%q",
		o.Threads, o.Rounds, o.MaxBytes, o.Output, o.MetricsAddr)
}
