// Package ethapi implements the eth namespace of the JSON-RPC bridge: gas
// estimation, calls and transaction signing on top of an execution probe.
package ethapi

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/clydemeng/revm-rpc/core/vm"
	"github.com/clydemeng/revm-rpc/signer"
)

// Backend is the execution engine the API runs against.
type Backend interface {
	vm.Probe
	vm.NonceReader
}

// EthAPI provides the eth methods of the bridge.
type EthAPI struct {
	config    Config
	b         Backend
	estimator *Estimator
	signer    signer.EthSigner
}

// NewEthAPI creates the eth API. A nil config.GasPrice falls back to the
// default.
func NewEthAPI(config Config, b Backend, s signer.EthSigner) *EthAPI {
	if config.GasPrice == nil {
		config.GasPrice = new(big.Int).Set(Defaults.GasPrice)
	}
	return &EthAPI{
		config:    config,
		b:         b,
		estimator: NewEstimator(b, config.RPCGasCap),
		signer:    s,
	}
}

// APIs returns the collection of RPC services the bridge offers.
func APIs(api *EthAPI) []rpc.API {
	return []rpc.API{{
		Namespace: "eth",
		Service:   api,
	}}
}

// ChainId returns the chain id used for replay-protected signatures.
func (api *EthAPI) ChainId() *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).SetUint64(api.config.ChainID))
}

// Accounts returns the addresses the signer holds keys for.
func (api *EthAPI) Accounts() []common.Address {
	return api.signer.Accounts()
}

// EstimateGas returns the lowest gas limit that allows the transaction to
// run without a recoverable execution error.
func (api *EthAPI) EstimateGas(ctx context.Context, args TransactionArgs) (hexutil.Uint64, error) {
	if err := args.validate(); err != nil {
		return 0, err
	}
	gas, err := api.estimator.Estimate(ctx, args.toCallRequest())
	return hexutil.Uint64(gas), err
}

// Call executes the given call once at the gas ceiling and returns its
// output. Reverts carry the decoded reason and the raw revert data.
func (api *EthAPI) Call(ctx context.Context, args TransactionArgs) (hexutil.Bytes, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	req := args.toCallRequest()
	gas := api.estimator.Ceiling(req)

	reason, data := api.b.Probe(gas, req)
	log.Debug("Executed call", "gas", gas, "outcome", reason, "output", len(data))
	if err := ErrorOnExecutionFailure(reason, data); err != nil {
		markOutcome(reason)
		return nil, err
	}
	return data, nil
}

// SignTransactionResult represents a RLP encoded signed transaction.
type SignTransactionResult struct {
	Raw hexutil.Bytes      `json:"raw"`
	Tx  *types.Transaction `json:"tx"`
}

// SignTransaction fills in missing transaction fields and signs the result
// with the key of the from account. The transaction is not submitted.
func (api *EthAPI) SignTransaction(ctx context.Context, args TransactionArgs) (*SignTransactionResult, error) {
	if args.From == nil {
		return nil, errors.New("from not specified")
	}
	if !slices.Contains(api.signer.Accounts(), *args.From) {
		signFailCounter.Inc(1)
		return nil, fmt.Errorf("%w: %s", signer.ErrKeyNotFound, args.From.Hex())
	}
	if err := api.setDefaults(ctx, &args); err != nil {
		return nil, err
	}
	signed, err := api.signer.Sign(args.toMessage(api.config.ChainID), *args.From)
	if err != nil {
		signFailCounter.Inc(1)
		if errors.Is(err, signer.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", err, args.From.Hex())
		}
		return nil, err
	}
	signCounter.Inc(1)

	tx := signed.Transaction()
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &SignTransactionResult{Raw: raw, Tx: tx}, nil
}

// setDefaults fills in nonce, gas price, value and gas when absent.
func (api *EthAPI) setDefaults(ctx context.Context, args *TransactionArgs) error {
	if err := args.validate(); err != nil {
		return err
	}
	if args.To == nil && len(args.data()) == 0 {
		return errors.New(`contract creation without any data provided`)
	}
	if args.GasPrice == nil {
		args.GasPrice = (*hexutil.Big)(new(big.Int).Set(api.config.GasPrice))
	}
	if args.Value == nil {
		args.Value = new(hexutil.Big)
	}
	if args.Nonce == nil {
		nonce := hexutil.Uint64(api.b.GetNonce(*args.From))
		args.Nonce = &nonce
	}
	if args.Gas == nil {
		estimated, err := api.estimator.Estimate(ctx, args.toCallRequest())
		if err != nil {
			return err
		}
		gas := hexutil.Uint64(estimated)
		args.Gas = &gas
		log.Trace("Estimated gas for signing", "from", args.From, "gas", estimated)
	}
	return nil
}
