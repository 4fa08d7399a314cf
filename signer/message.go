package signer

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// TransactionMessage is an unsigned legacy transaction. A nil To deploys a
// contract; a nil ChainID produces a signature without replay protection.
type TransactionMessage struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       *common.Address
	Value    *big.Int
	Input    []byte
	ChainID  *uint64
}

// Hash returns the signing digest: Keccak-256 of the RLP list
// [nonce, gasPrice, gas, to, value, input], extended with [chainID, 0, 0]
// when a chain id is set.
func (m *TransactionMessage) Hash() (common.Hash, error) {
	fields := []interface{}{
		m.Nonce,
		orZero(m.GasPrice),
		m.GasLimit,
		m.To,
		orZero(m.Value),
		m.Input,
	}
	if m.ChainID != nil {
		fields = append(fields, *m.ChainID, uint(0), uint(0))
	}
	enc, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return crypto.Keccak256Hash(enc), nil
}

func (m *TransactionMessage) copy() TransactionMessage {
	cpy := TransactionMessage{
		Nonce:    m.Nonce,
		GasPrice: new(big.Int).Set(orZero(m.GasPrice)),
		GasLimit: m.GasLimit,
		Value:    new(big.Int).Set(orZero(m.Value)),
		Input:    common.CopyBytes(m.Input),
	}
	if m.To != nil {
		to := *m.To
		cpy.To = &to
	}
	if m.ChainID != nil {
		id := *m.ChainID
		cpy.ChainID = &id
	}
	return cpy
}

func orZero(b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b
}

// SignedTransaction is a message together with its signature. V follows
// EIP-155 when the message carries a chain id.
type SignedTransaction struct {
	TransactionMessage
	V    uint64
	R, S common.Hash
}

// Transaction converts the signed message into a go-ethereum legacy
// transaction.
func (tx *SignedTransaction) Transaction() *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: new(big.Int).Set(orZero(tx.GasPrice)),
		Gas:      tx.GasLimit,
		To:       tx.To,
		Value:    new(big.Int).Set(orZero(tx.Value)),
		Data:     common.CopyBytes(tx.Input),
		V:        new(big.Int).SetUint64(tx.V),
		R:        new(big.Int).SetBytes(tx.R[:]),
		S:        new(big.Int).SetBytes(tx.S[:]),
	})
}

// MarshalBinary returns the RLP encoding of the signed transaction.
func (tx *SignedTransaction) MarshalBinary() ([]byte, error) {
	return tx.Transaction().MarshalBinary()
}
