package ethapi

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"

	"github.com/clydemeng/revm-rpc/signer"
)

var (
	devAddress  = common.HexToAddress("0x19E7E376E7C213B7E7e7e46cc70A5dD086DAff2A")
	testReverts = common.HexToAddress("0x4000000000000000000000000000000000000004")
	testEcho    = common.HexToAddress("0x5000000000000000000000000000000000000005")
)

// revertCode copies payload (appended after the 12 byte prologue) to memory
// and reverts with it.
func revertCode(payload []byte) []byte {
	n := byte(len(payload))
	code := []byte{0x60, n, 0x60, 0x0c, 0x60, 0x00, 0x39, 0x60, n, 0x60, 0x00, 0xfd}
	return append(code, payload...)
}

func newTestClient(t *testing.T) *rpc.Client {
	t.Helper()
	probe := newDevProbe(t, types.GenesisAlloc{
		devAddress:  {Balance: big.NewInt(params.Ether), Nonce: 5},
		testStorer:  {Code: common.FromHex("600160005500")},
		testReverts: {Code: revertCode(revertPayload("boom"))},
		// PUSH1 42 PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
		testEcho: {Code: common.FromHex("602a60005260206000f3")},
	})
	api := NewEthAPI(Config{ChainID: 1337, RPCGasCap: 30_000_000}, probe, signer.NewDevSigner())

	server := rpc.NewServer()
	for _, svc := range APIs(api) {
		require.NoError(t, server.RegisterName(svc.Namespace, svc.Service))
	}
	client := rpc.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return client
}

func TestAPIChainIDAndAccounts(t *testing.T) {
	client := newTestClient(t)

	var chainID hexutil.Big
	require.NoError(t, client.Call(&chainID, "eth_chainId"))
	require.Equal(t, int64(1337), chainID.ToInt().Int64())

	var accounts []common.Address
	require.NoError(t, client.Call(&accounts, "eth_accounts"))
	require.Equal(t, []common.Address{devAddress}, accounts)
}

func TestAPIEstimateGas(t *testing.T) {
	client := newTestClient(t)

	var gas hexutil.Uint64
	require.NoError(t, client.Call(&gas, "eth_estimateGas", TransactionArgs{From: &devAddress, To: &testStorer}))
	require.Equal(t, hexutil.Uint64(43106), gas)

	err := client.Call(&gas, "eth_estimateGas", TransactionArgs{From: &devAddress, To: &testReverts})
	var rpcErr rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, errCodeInternal, rpcErr.ErrorCode())
	require.Equal(t, revertMessage, err.Error())

	data := hexutil.Bytes{1}
	input := hexutil.Bytes{2}
	err = client.Call(&gas, "eth_estimateGas", TransactionArgs{From: &devAddress, To: &testStorer, Data: &data, Input: &input})
	require.Error(t, err)
}

func TestAPICall(t *testing.T) {
	client := newTestClient(t)

	var out hexutil.Bytes
	require.NoError(t, client.Call(&out, "eth_call", TransactionArgs{To: &testEcho}))
	require.Equal(t, common.LeftPadBytes([]byte{42}, 32), []byte(out))

	err := client.Call(&out, "eth_call", TransactionArgs{From: &devAddress, To: &testReverts})
	require.Equal(t, revertMessage+" boom", err.Error())

	var dataErr rpc.DataError
	require.True(t, errors.As(err, &dataErr))
	require.Equal(t, hexutil.Encode(revertPayload("boom")), dataErr.ErrorData())
}

func TestAPISignTransaction(t *testing.T) {
	client := newTestClient(t)

	value := (*hexutil.Big)(big.NewInt(1))
	var res SignTransactionResult
	require.NoError(t, client.Call(&res, "eth_signTransaction", TransactionArgs{From: &devAddress, To: &testRecv, Value: value}))

	tx := res.Tx
	require.Equal(t, uint64(5), tx.Nonce())
	require.Equal(t, params.TxGas+1, tx.Gas())
	require.Zero(t, tx.GasPrice().Cmp(Defaults.GasPrice))
	require.Zero(t, tx.Value().Cmp(big.NewInt(1)))
	require.Zero(t, tx.ChainId().Cmp(big.NewInt(1337)))

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(1337)), tx)
	require.NoError(t, err)
	require.Equal(t, devAddress, sender)

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(res.Raw))
	require.Equal(t, tx.Hash(), decoded.Hash())

	// Explicit fields are kept as given.
	gas, nonce := hexutil.Uint64(50_000), hexutil.Uint64(9)
	require.NoError(t, client.Call(&res, "eth_signTransaction", TransactionArgs{From: &devAddress, To: &testRecv, Gas: &gas, Nonce: &nonce}))
	require.Equal(t, uint64(50_000), res.Tx.Gas())
	require.Equal(t, uint64(9), res.Tx.Nonce())
}

func TestAPISignTransactionErrors(t *testing.T) {
	client := newTestClient(t)
	var res SignTransactionResult

	err := client.Call(&res, "eth_signTransaction", TransactionArgs{To: &testRecv})
	require.ErrorContains(t, err, "from not specified")

	err = client.Call(&res, "eth_signTransaction", TransactionArgs{From: &testRecv, To: &testFunded})
	require.ErrorContains(t, err, signer.ErrKeyNotFound.Error())

	// An unknown sender is reported before any defaults are estimated, even
	// when the transfer could not be funded.
	value := (*hexutil.Big)(big.NewInt(params.Ether))
	err = client.Call(&res, "eth_signTransaction", TransactionArgs{From: &testRecv, To: &testFunded, Value: value})
	require.ErrorContains(t, err, signer.ErrKeyNotFound.Error())
	require.NotContains(t, err.Error(), "insufficient funds")

	err = client.Call(&res, "eth_signTransaction", TransactionArgs{From: &devAddress})
	require.ErrorContains(t, err, "contract creation without any data provided")
}

func TestAPIDirect(t *testing.T) {
	probe := newDevProbe(t, types.GenesisAlloc{devAddress: {Balance: big.NewInt(params.Ether)}})
	api := NewEthAPI(Config{}, probe, signer.NewDevSigner())

	// Zero chain id signs without replay protection.
	gas := hexutil.Uint64(21000)
	res, err := api.SignTransaction(context.Background(), TransactionArgs{From: &devAddress, To: &testRecv, Gas: &gas})
	require.NoError(t, err)
	require.False(t, res.Tx.Protected())
	require.Zero(t, res.Tx.GasPrice().Cmp(Defaults.GasPrice))
}
