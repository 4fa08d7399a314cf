package ethapi

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/clydemeng/revm-rpc/core/vm"
	"github.com/clydemeng/revm-rpc/signer"
)

// TransactionArgs represents the arguments to construct a new transaction
// or a message call.
type TransactionArgs struct {
	From     *common.Address `json:"from"`
	To       *common.Address `json:"to"`
	Gas      *hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Value    *hexutil.Big    `json:"value"`
	Nonce    *hexutil.Uint64 `json:"nonce"`

	// We accept "data" and "input" for backwards-compatibility reasons.
	// "input" is the newer name and should be preferred by clients.
	Data  *hexutil.Bytes `json:"data"`
	Input *hexutil.Bytes `json:"input"`
}

// data retrieves the transaction calldata. Input field is preferred.
func (args *TransactionArgs) data() []byte {
	if args.Input != nil {
		return *args.Input
	}
	if args.Data != nil {
		return *args.Data
	}
	return nil
}

// validate rejects argument combinations no transaction can be built from.
func (args *TransactionArgs) validate() error {
	if args.Data != nil && args.Input != nil && !bytes.Equal(*args.Data, *args.Input) {
		return errors.New(`both "data" and "input" are set and not equal. Please use "input" to pass transaction call data`)
	}
	return nil
}

// toCallRequest converts the arguments into a probe request.
func (args *TransactionArgs) toCallRequest() *vm.CallRequest {
	req := &vm.CallRequest{
		From: args.From,
		To:   args.To,
		Data: args.data(),
	}
	if args.Gas != nil {
		gas := uint64(*args.Gas)
		req.Gas = &gas
	}
	if args.GasPrice != nil {
		req.GasPrice = args.GasPrice.ToInt()
	}
	if args.Value != nil {
		req.Value = args.Value.ToInt()
	}
	return req
}

// toMessage converts fully defaulted arguments into an unsigned message. A
// zero chainID signs without replay protection.
func (args *TransactionArgs) toMessage(chainID uint64) *signer.TransactionMessage {
	msg := &signer.TransactionMessage{
		Nonce:    uint64(*args.Nonce),
		GasPrice: args.GasPrice.ToInt(),
		GasLimit: uint64(*args.Gas),
		To:       args.To,
		Value:    args.Value.ToInt(),
		Input:    args.data(),
	}
	if chainID != 0 {
		msg.ChainID = &chainID
	}
	return msg
}
