package ethapi

import (
	"fmt"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/clydemeng/revm-rpc/core/vm"
)

// errCodeInternal is the JSON-RPC "internal error" code. Every failure
// classified here uses it.
const errCodeInternal = -32603

// revertMessage is the fixed prefix of every revert error.
const revertMessage = "VM Exception while processing transaction: revert"

// RPCError is a JSON-RPC error object with an optional data payload.
type RPCError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *RPCError) Error() string { return e.Message }

// ErrorCode returns the JSON error code.
func (e *RPCError) ErrorCode() int { return e.Code }

// ErrorData returns the error payload, nil when there is none.
func (e *RPCError) ErrorData() interface{} { return e.Data }

func internalErr(format string, args ...interface{}) *RPCError {
	return &RPCError{Code: errCodeInternal, Message: fmt.Sprintf(format, args...)}
}

// ErrorOnExecutionFailure turns an execution outcome into an RPC error, or
// nil for a successful halt. For reverts it decodes an ABI-encoded
// Error(string) reason from data when possible; the raw data is always
// attached hex encoded.
func ErrorOnExecutionFailure(reason vm.ExitReason, data []byte) error {
	switch r := reason.(type) {
	case vm.ExitSucceed:
		return nil
	case vm.ExitError:
		return &RPCError{Code: errCodeInternal, Message: fmt.Sprintf("evm error: %v", r), Data: "0x"}
	case vm.ExitRevert:
		message := revertMessage
		if body, ok := decodeRevertReason(data); ok {
			message = message + " " + body
		}
		return &RPCError{Code: errCodeInternal, Message: message, Data: hexutil.Encode(data)}
	case vm.ExitFatal:
		return &RPCError{Code: errCodeInternal, Message: fmt.Sprintf("evm fatal: %v", r), Data: "0x"}
	default:
		return &RPCError{Code: errCodeInternal, Message: fmt.Sprintf("evm fatal: %v", vm.ErrUnknownExitReason), Data: "0x"}
	}
}

// decodeRevertReason extracts the string body from revert data laid out as
// selector (4) | offset (32) | length (32) | body. The length is a
// big-endian word; lengths reaching past the data or bodies that are not
// valid UTF-8 are not decoded.
func decodeRevertReason(data []byte) (string, bool) {
	if len(data) <= 68 {
		return "", false
	}
	length := new(uint256.Int).SetBytes32(data[36:68])
	if !length.IsUint64() || length.Uint64() > uint64(len(data)-68) {
		return "", false
	}
	body := data[68 : 68+length.Uint64()]
	if !utf8.Valid(body) {
		return "", false
	}
	return string(body), true
}
