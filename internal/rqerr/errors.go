// Package rqerr defines the typed errors surfaced to CLI users and
// library callers: one error code per kind plus a struct carrying the
// offending detail, rather than ad hoc fmt.Errorf strings scattered
// through the call sites.
package rqerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one of the error kinds this package defines.
type Kind uint32

const (
	// SeedFormat: non-hex characters in the -s argument.
	SeedFormat Kind = iota + 1
	// SeedEntropy: unable to read from the OS entropy source.
	SeedEntropy
	// OpenOutput: cannot open the destination file.
	OpenOutput
	// WriteIO: short write or OS-level write error during operation.
	WriteIO
	// RefuseTTY: stdout is a terminal and no output file was given.
	RefuseTTY
	// BadOption: unknown flag, missing argument, or out-of-range value.
	BadOption
)

func (k Kind) String() string {
	switch k {
	case SeedFormat:
		return "SeedFormat"
	case SeedEntropy:
		return "SeedEntropy"
	case OpenOutput:
		return "OpenOutput"
	case WriteIO:
		return "WriteIO"
	case RefuseTTY:
		return "RefuseTTY"
	case BadOption:
		return "BadOption"
	default:
		return "Unknown"
	}
}

// Error is the single error type for every Kind this package defines.
// Reason is a short human-readable explanation; Cause, if present, is
// the underlying error that triggered this one.
type Error struct {
	Kind   Kind
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Code returns the numeric error code identifying e's Kind, for callers
// that want a stable integer rather than matching on Kind directly.
func (e *Error) Code() uint32 { return uint32(e.Kind) }

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Wrap builds an Error around an upstream cause, attaching a stack via
// github.com/pkg/errors so the original call site survives in logs.
func Wrap(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Cause: errors.WithStack(cause)}
}

// ExitCode maps a Kind to the process exit status a CLI should return
// for it: 0 is reserved for clean shutdown and is never returned here.
func (k Kind) ExitCode() int {
	if k == RefuseTTY {
		return 2
	}
	return 1
}
