//go:build revm
// +build revm

package core

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"

	"github.com/clydemeng/revm-rpc/core/vm"
	revmbridge "github.com/clydemeng/revm-rpc/revm_bridge"
)

// RevmBuild reports whether the binary was compiled with the `revm` tag.
const RevmBuild = true

// Prober is the execution backend selected by build tag.
type Prober interface {
	vm.Engine
	vm.NonceReader

	// Close frees the engine instance and its state handle.
	Close()
}

// NewProbe constructs a REVM-backed probe when compiled with the `revm`
// build-tag. It registers the provided StateDB, obtains an opaque handle, and
// boots an engine instance reading through that handle.
func NewProbe(config *params.ChainConfig, header *types.Header, statedb *state.StateDB) (Prober, error) {
	if statedb == nil {
		return nil, errNilState
	}
	p, err := revmbridge.NewRevmProbe(config, header, statedb, numberHash)
	if err != nil {
		return nil, fmt.Errorf("revm: %w", err)
	}
	return p, nil
}
