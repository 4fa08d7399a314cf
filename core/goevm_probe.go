package core

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"

	"github.com/clydemeng/revm-rpc/core/vm"
)

var errNilState = errors.New("statedb is nil")

// GoEVMProbe executes probes with go-ethereum's own interpreter. Every probe
// runs on a private copy of the base state, so probes never observe each
// other and the base state is never written.
type GoEVMProbe struct {
	config  *params.ChainConfig
	header  *types.Header
	getHash gethvm.GetHashFunc

	// mu protects base because StateDB is **not** thread-safe, not even for
	// reads (objects are cached on first access).
	mu   sync.Mutex
	base *state.StateDB
}

// NewGoEVMProbe creates a probe executing on top of statedb in the context of
// header. The caller must not mutate statedb while the probe is in use.
func NewGoEVMProbe(config *params.ChainConfig, header *types.Header, statedb *state.StateDB) *GoEVMProbe {
	return &GoEVMProbe{
		config:  config,
		header:  header,
		getHash: numberHash,
		base:    statedb,
	}
}

// numberHash derives a stand-in block hash from the block number; the probe
// has no header chain to consult.
func numberHash(n uint64) common.Hash {
	return crypto.Keccak256Hash([]byte(new(big.Int).SetUint64(n).String()))
}

func (p *GoEVMProbe) Engine() string { return "go-evm" }

// GetNonce returns the nonce of addr in the base state.
func (p *GoEVMProbe) GetNonce(addr common.Address) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.base.GetNonce(addr)
}

// Probe implements vm.Probe.
func (p *GoEVMProbe) Probe(gas uint64, req *vm.CallRequest) (vm.ExitReason, []byte) {
	if req == nil {
		req = new(vm.CallRequest)
	}
	p.mu.Lock()
	dirty := p.base.Copy()
	p.mu.Unlock()

	from := req.Sender()
	msg := &core.Message{
		From:      from,
		To:        req.To,
		Nonce:     dirty.GetNonce(from),
		Value:     req.ValueOrZero(),
		GasLimit:  gas,
		GasPrice:  new(big.Int),
		GasFeeCap: new(big.Int),
		GasTipCap: new(big.Int),
		Data:      req.Input(),
	}
	evm := gethvm.NewEVM(p.blockContext(), dirty, p.config, gethvm.Config{NoBaseFee: true})
	evm.SetTxContext(core.NewEVMTxContext(msg))

	result, err := core.ApplyMessage(evm, msg, new(core.GasPool).AddGas(gas))
	if serr := dirty.Error(); serr != nil {
		log.Debug("State failure during probe", "gas", gas, "err", serr)
		return vm.ExitFatal{Err: serr}, nil
	}
	if err != nil {
		// Transactions that cannot even pay their intrinsic cost are short of
		// gas; every other consensus failure is unrelated to the budget.
		if errors.Is(err, core.ErrIntrinsicGas) {
			return vm.ExitError{Err: err}, nil
		}
		return vm.ExitFatal{Err: err}, nil
	}
	return translateResult(result)
}

func (p *GoEVMProbe) blockContext() gethvm.BlockContext {
	h := p.header
	ctx := gethvm.BlockContext{
		CanTransfer: core.CanTransfer,
		Transfer:    core.Transfer,
		GetHash:     p.getHash,
		Coinbase:    h.Coinbase,
		GasLimit:    h.GasLimit,
		BlockNumber: new(big.Int),
		Time:        h.Time,
		Difficulty:  new(big.Int),
		BaseFee:     new(big.Int),
	}
	if h.Number != nil {
		ctx.BlockNumber.Set(h.Number)
	}
	if h.Difficulty != nil {
		ctx.Difficulty.Set(h.Difficulty)
	}
	return ctx
}

// translateResult maps a go-ethereum execution result onto the engine
// outcome taxonomy.
func translateResult(res *core.ExecutionResult) (vm.ExitReason, []byte) {
	switch {
	case res.Err == nil:
		if len(res.ReturnData) > 0 {
			return vm.SucceedReturned, res.ReturnData
		}
		return vm.SucceedStopped, res.ReturnData
	case errors.Is(res.Err, gethvm.ErrExecutionReverted):
		return vm.RevertReverted, res.Revert()
	default:
		return vm.ExitError{Err: res.Err}, res.ReturnData
	}
}
