package core

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// DevGasLimit is the block gas limit of the development header.
const DevGasLimit = 30_000_000

// NewDevState builds an in-memory state holding the given allocation. The
// state is finalised so that copies taken by probes start from a clean
// journal.
func NewDevState(alloc types.GenesisAlloc) (*state.StateDB, error) {
	statedb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		return nil, fmt.Errorf("dev state: %w", err)
	}
	for addr, account := range alloc {
		if account.Balance != nil {
			bal, overflow := uint256.FromBig(account.Balance)
			if overflow || account.Balance.Sign() < 0 {
				return nil, fmt.Errorf("dev state: balance of %s out of range", addr)
			}
			statedb.SetBalance(addr, bal, tracing.BalanceChangeUnspecified)
		}
		if account.Nonce != 0 {
			statedb.SetNonce(addr, account.Nonce, tracing.NonceChangeGenesis)
		}
		if len(account.Code) > 0 {
			statedb.SetCode(addr, account.Code)
		}
		for key, value := range account.Storage {
			statedb.SetState(addr, key, value)
		}
	}
	statedb.Finalise(true)
	return statedb, nil
}

// DevHeader returns the header probes execute under on the development
// chain: block one, zero base fee and the development gas limit.
func DevHeader() *types.Header {
	return &types.Header{
		Number:     big.NewInt(1),
		GasLimit:   DevGasLimit,
		Difficulty: big.NewInt(1),
		BaseFee:    new(big.Int),
	}
}

// DevChainConfig returns the chain rules used by the development chain with
// the chain id replaced.
func DevChainConfig(chainID uint64) *params.ChainConfig {
	cfg := *params.AllEthashProtocolChanges
	cfg.ChainID = new(big.Int).SetUint64(chainID)
	return &cfg
}
