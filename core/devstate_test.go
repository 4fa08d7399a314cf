package core

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestNewDevState(t *testing.T) {
	slot := common.HexToHash("0x01")
	statedb, err := NewDevState(types.GenesisAlloc{
		funded: {Balance: big.NewInt(42), Nonce: 7},
		storer: {Code: storeCode, Storage: map[common.Hash]common.Hash{slot: common.HexToHash("0xff")}},
	})
	if err != nil {
		t.Fatalf("failed to build dev state: %v", err)
	}
	if bal := statedb.GetBalance(funded); bal.Uint64() != 42 {
		t.Fatalf("balance mismatch: have %v", bal)
	}
	if nonce := statedb.GetNonce(funded); nonce != 7 {
		t.Fatalf("nonce mismatch: have %d", nonce)
	}
	if code := statedb.GetCode(storer); string(code) != string(storeCode) {
		t.Fatalf("code mismatch: have %x", code)
	}
	if v := statedb.GetState(storer, slot); v != common.HexToHash("0xff") {
		t.Fatalf("storage mismatch: have %x", v)
	}
}

func TestNewDevStateRejectsNegativeBalance(t *testing.T) {
	_, err := NewDevState(types.GenesisAlloc{funded: {Balance: big.NewInt(-1)}})
	if err == nil {
		t.Fatal("expected error for negative balance")
	}
}

func TestDevChainConfig(t *testing.T) {
	cfg := DevChainConfig(1337)
	if cfg.ChainID.Uint64() != 1337 {
		t.Fatalf("chain id mismatch: have %v", cfg.ChainID)
	}
	if !cfg.IsLondon(DevHeader().Number) {
		t.Fatal("dev chain must run London rules")
	}
}
