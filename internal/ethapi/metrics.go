package ethapi

import (
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/clydemeng/revm-rpc/core/vm"
)

var (
	estimateTimer = metrics.NewRegisteredTimer("rpc/estimate/duration", nil)
	probeMeter    = metrics.NewRegisteredMeter("rpc/estimate/probes", nil)

	execErrorMeter  = metrics.NewRegisteredMeter("rpc/exec/error", nil)
	execRevertMeter = metrics.NewRegisteredMeter("rpc/exec/revert", nil)
	execFatalMeter  = metrics.NewRegisteredMeter("rpc/exec/fatal", nil)

	signCounter     = metrics.NewRegisteredCounter("rpc/sign/ok", nil)
	signFailCounter = metrics.NewRegisteredCounter("rpc/sign/fail", nil)
)

// markOutcome records a user-visible execution failure by kind.
func markOutcome(reason vm.ExitReason) {
	switch reason.(type) {
	case vm.ExitError:
		execErrorMeter.Mark(1)
	case vm.ExitRevert:
		execRevertMeter.Mark(1)
	case vm.ExitFatal:
		execFatalMeter.Mark(1)
	}
}
