package vm

import (
	"errors"
	"fmt"
)

// ExitReason is the outcome an execution engine reports for a single probe.
// It is one of ExitSucceed, ExitError, ExitRevert or ExitFatal.
type ExitReason interface {
	fmt.Stringer
	exitReason()
}

// ExitSucceed is a description of how an execution halted successfully.
type ExitSucceed int

const (
	SucceedStopped  ExitSucceed = iota // STOP or end of code
	SucceedReturned                    // RETURN with data
	SucceedSuicided                    // SELFDESTRUCT
)

// String returns a human-readable string for the reason.
func (r ExitSucceed) String() string {
	switch r {
	case SucceedStopped:
		return "Stopped"
	case SucceedReturned:
		return "Returned"
	case SucceedSuicided:
		return "Suicided"
	}
	return "unknown"
}

// ExitError is a recoverable execution error. Running out of gas is the
// common case; the estimator treats every ExitError as "budget too small".
type ExitError struct {
	Err error
}

func (r ExitError) String() string {
	if r.Err == nil {
		return "Other(unspecified)"
	}
	return r.Err.Error()
}

func (r ExitError) Unwrap() error { return r.Err }

// ExitRevert is an explicit revert by contract code. The revert payload is
// delivered next to the reason, not inside it.
type ExitRevert int

const (
	RevertReverted ExitRevert = iota
)

// String returns a human-readable string for the reason.
func (r ExitRevert) String() string {
	if r == RevertReverted {
		return "Reverted"
	}
	return "unknown"
}

// ExitFatal is an unrecoverable failure of the engine or of the state behind
// it. Probe implementations report their own failures as ExitFatal.
type ExitFatal struct {
	Err error
}

func (r ExitFatal) String() string {
	if r.Err == nil {
		return "Other(unspecified)"
	}
	return r.Err.Error()
}

func (r ExitFatal) Unwrap() error { return r.Err }

func (ExitSucceed) exitReason() {}
func (ExitError) exitReason()   {}
func (ExitRevert) exitReason()  {}
func (ExitFatal) exitReason()   {}

var (
	// ErrUnknownExitReason is the fatal cause synthesized when no outcome
	// was ever observed.
	ErrUnknownExitReason = errors.New("unknown exit reason")

	// ErrNotSupported is reported by engines for requests they cannot run.
	ErrNotSupported = errors.New("not supported")
)

// IsGasError reports whether the reason is a recoverable execution error,
// i.e. one that a larger gas budget may cure.
func IsGasError(r ExitReason) bool {
	_, ok := r.(ExitError)
	return ok
}

// IsSucceed reports whether the reason is a successful halt.
func IsSucceed(r ExitReason) bool {
	_, ok := r.(ExitSucceed)
	return ok
}
