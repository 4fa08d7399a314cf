package revmbridge

import (
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"

	"github.com/clydemeng/revm-rpc/core/vm"
)

// classifyResult maps the engine's flat result onto the outcome taxonomy.
// A failed run that consumed the whole budget is an out-of-gas halt; any
// other failure is a revert carrying its output.
func classifyResult(success bool, gasUsed, gas uint64, output []byte) (vm.ExitReason, []byte) {
	switch {
	case success && len(output) > 0:
		return vm.SucceedReturned, output
	case success:
		return vm.SucceedStopped, output
	case gasUsed >= gas:
		log.Trace("REVM probe exhausted gas", "gas", gas, "used", gasUsed)
		return vm.ExitError{Err: gethvm.ErrOutOfGas}, output
	default:
		return vm.RevertReverted, output
	}
}
