//go:build !revm
// +build !revm

package core

import (
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"

	"github.com/clydemeng/revm-rpc/core/vm"
)

// RevmBuild reports whether the binary was compiled with the `revm` tag.
const RevmBuild = false

// Prober is the execution backend selected by build tag.
type Prober interface {
	vm.Engine
	vm.NonceReader

	// Close releases engine resources. The Go interpreter holds none.
	Close()
}

// NewProbe returns the Go interpreter probe when the build does **not**
// include the `revm` tag.
func NewProbe(config *params.ChainConfig, header *types.Header, statedb *state.StateDB) (Prober, error) {
	if statedb == nil {
		return nil, errNilState
	}
	return goProber{NewGoEVMProbe(config, header, statedb)}, nil
}

type goProber struct{ *GoEVMProbe }

func (goProber) Close() {}
