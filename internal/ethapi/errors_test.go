package ethapi

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/rpc"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/clydemeng/revm-rpc/core/vm"
)

var (
	_ rpc.Error     = (*RPCError)(nil)
	_ rpc.DataError = (*RPCError)(nil)
)

// revertPayload ABI-encodes Error(reason).
func revertPayload(reason string) []byte {
	data := []byte{0x08, 0xc3, 0x79, 0xa0}
	data = append(data, common.LeftPadBytes([]byte{0x20}, 32)...)
	data = append(data, common.LeftPadBytes(big.NewInt(int64(len(reason))).Bytes(), 32)...)
	padded := (len(reason) + 31) / 32 * 32
	return append(data, common.RightPadBytes([]byte(reason), padded)...)
}

func asRPCError(t *testing.T, err error) *RPCError {
	t.Helper()
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr), "not an RPC error: %v", err)
	require.Equal(t, errCodeInternal, rpcErr.ErrorCode())
	return rpcErr
}

func TestClassifySucceed(t *testing.T) {
	f := fuzz.New().NilChance(0.2)
	for i := 0; i < 100; i++ {
		var data []byte
		f.Fuzz(&data)
		for _, r := range []vm.ExitReason{vm.SucceedStopped, vm.SucceedReturned, vm.SucceedSuicided} {
			require.NoError(t, ErrorOnExecutionFailure(r, data))
		}
	}
}

func TestClassifyError(t *testing.T) {
	err := asRPCError(t, ErrorOnExecutionFailure(vm.ExitError{Err: gethvm.ErrOutOfGas}, []byte{1, 2, 3}))
	require.Equal(t, "evm error: out of gas", err.Error())
	require.Equal(t, "0x", err.ErrorData())

	err = asRPCError(t, ErrorOnExecutionFailure(vm.ExitError{}, nil))
	require.Equal(t, "evm error: Other(unspecified)", err.Error())
}

func TestClassifyFatal(t *testing.T) {
	err := asRPCError(t, ErrorOnExecutionFailure(vm.ExitFatal{Err: vm.ErrUnknownExitReason}, []byte{1}))
	require.Equal(t, "evm fatal: unknown exit reason", err.Error())
	require.Equal(t, "0x", err.ErrorData())

	err = asRPCError(t, ErrorOnExecutionFailure(nil, nil))
	require.Equal(t, "evm fatal: unknown exit reason", err.Error())
}

func TestClassifyRevert(t *testing.T) {
	payload := revertPayload("out of gas")
	err := asRPCError(t, ErrorOnExecutionFailure(vm.RevertReverted, payload))
	require.Equal(t, revertMessage+" out of gas", err.Error())
	require.Equal(t, hexutil.Encode(payload), err.ErrorData())

	reason, unpackErr := abi.UnpackRevert(payload)
	require.NoError(t, unpackErr)
	require.True(t, strings.HasSuffix(err.Error(), " "+reason))
}

func TestClassifyRevertUndecodable(t *testing.T) {
	long := strings.Repeat("a", 300)
	tooLong := revertPayload("short")
	copy(tooLong[36:68], common.LeftPadBytes(big.NewInt(1000).Bytes(), 32))
	huge := revertPayload("short")
	copy(huge[36:68], common.MaxHash[:])
	badUTF8 := revertPayload("\xff\xfe")

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, revertMessage},
		{"selector only", []byte{0x08, 0xc3, 0x79, 0xa0}, revertMessage},
		{"header only", revertPayload("")[:68], revertMessage},
		{"multi-byte length", revertPayload(long), revertMessage + " " + long},
		{"length past data", tooLong, revertMessage},
		{"length overflows", huge, revertMessage},
		{"invalid utf8", badUTF8, revertMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := asRPCError(t, ErrorOnExecutionFailure(vm.RevertReverted, tt.data))
			require.Equal(t, tt.want, err.Error())
			require.Equal(t, hexutil.Encode(tt.data), err.ErrorData())
		})
	}
}

func TestClassifyRevertFuzz(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(60, 200)
	for i := 0; i < 500; i++ {
		var data []byte
		f.Fuzz(&data)
		if i%2 == 0 && len(data) > 68 {
			// Keep the length word small so decoding is exercised.
			copy(data[36:68], common.LeftPadBytes([]byte{byte(len(data) - 68)}, 32))
		}
		err := asRPCError(t, ErrorOnExecutionFailure(vm.RevertReverted, data))
		require.True(t, strings.HasPrefix(err.Error(), revertMessage))
		require.Equal(t, hexutil.Encode(data), err.ErrorData())
	}
}
