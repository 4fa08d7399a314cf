package vm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CallRequest carries the fields an execution probe needs to run a call or a
// contract creation against the engine. Every field is optional; a nil To
// selects contract creation.
//
// A request is treated as immutable once handed to a probe or the estimator,
// the same request is replayed for every probe of one estimation.
type CallRequest struct {
	From     *common.Address // Sender, zero address when absent
	To       *common.Address // Recipient, nil for contract creation
	GasPrice *big.Int        // Informational, probes do not charge for gas
	Gas      *uint64         // Caller supplied gas ceiling
	Value    *big.Int        // Wei transferred with the call
	Data     []byte          // Calldata or init code
}

// Sender returns the sender address, defaulting to the zero address.
func (r *CallRequest) Sender() common.Address {
	if r == nil || r.From == nil {
		return common.Address{}
	}
	return *r.From
}

// IsCreate reports whether the request deploys a contract.
func (r *CallRequest) IsCreate() bool {
	return r == nil || r.To == nil
}

// ValueOrZero returns a copy of the transferred value, zero when absent.
func (r *CallRequest) ValueOrZero() *big.Int {
	if r == nil || r.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(r.Value)
}

// Input returns the calldata, never nil.
func (r *CallRequest) Input() []byte {
	if r == nil || r.Data == nil {
		return []byte{}
	}
	return r.Data
}
