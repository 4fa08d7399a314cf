package ethapi

import (
	"context"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"

	"github.com/clydemeng/revm-rpc/core/vm"
)

// Estimator binary-searches the smallest gas budget under which a request
// stops failing with a recoverable execution error.
type Estimator struct {
	probe  vm.Probe
	gasCap uint64
}

// NewEstimator creates an estimator running probes against probe. A non-zero
// gasCap bounds the search ceiling.
func NewEstimator(probe vm.Probe, gasCap uint64) *Estimator {
	return &Estimator{probe: probe, gasCap: gasCap}
}

// Ceiling returns the highest gas budget a request may use: its own gas
// limit, or unbounded, clamped to the gas cap.
func (e *Estimator) Ceiling(req *vm.CallRequest) uint64 {
	hi := uint64(math.MaxUint64)
	if req != nil && req.Gas != nil {
		hi = *req.Gas
	}
	if e.gasCap != 0 && hi > e.gasCap {
		log.Debug("Caller gas above allowance, capping", "requested", hi, "cap", e.gasCap)
		hi = e.gasCap
	}
	return hi
}

// Estimate returns the minimal gas budget for req. The floor of the search
// is the intrinsic cost of a plain transaction, which is assumed to be
// insufficient; the returned value is thus always above it.
//
// Every probe outcome other than a recoverable error narrows the search
// from above. Once converged, the outcome observed at the returned budget
// is classified, so reverts and fatal failures surface as errors.
func (e *Estimator) Estimate(ctx context.Context, req *vm.CallRequest) (uint64, error) {
	defer func(start time.Time) { estimateTimer.UpdateSince(start) }(time.Now())

	var (
		lo = params.TxGas   // highest budget known to fail
		hi = e.Ceiling(req) // lowest budget known (or assumed) to succeed
	)
	if hi < lo {
		return 0, internalErr("gas ceiling %d below intrinsic gas %d", hi, lo)
	}
	var witness, failure vm.ExitReason
	for lo+1 < hi {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		mid := lo + (hi-lo)/2
		reason, _ := e.probe.Probe(mid, req)
		probeMeter.Mark(1)
		log.Trace("Probed gas budget", "gas", mid, "outcome", reason)

		if vm.IsGasError(reason) {
			lo, failure = mid, reason
			continue
		}
		hi, witness = mid, reason
	}
	switch {
	case witness != nil:
	case failure != nil:
		// Every probe ran short, the ceiling itself was never executed.
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		witness, _ = e.probe.Probe(hi, req)
		probeMeter.Mark(1)
		log.Debug("Confirming gas ceiling", "gas", hi, "outcome", witness)
	default:
		witness = vm.ExitFatal{Err: vm.ErrUnknownExitReason}
	}
	// Revert reasons are not decoded here, the search never keeps data.
	if err := ErrorOnExecutionFailure(witness, nil); err != nil {
		markOutcome(witness)
		return 0, err
	}
	return hi, nil
}
