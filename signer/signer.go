// Package signer produces signed legacy transactions from unsigned messages
// using keys held by a pluggable backend.
package signer

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrKeyNotFound is returned when the signer holds no usable key for the
	// requested address.
	ErrKeyNotFound = errors.New("signer not available")

	// ErrInvalidMessage is returned when a message cannot be turned into a
	// signing digest.
	ErrInvalidMessage = errors.New("invalid signing message")

	// ErrSignatureInvalid is returned when a produced signature does not
	// verify against the signing address.
	ErrSignatureInvalid = errors.New("signer generated invalid signature")
)

// maxChainID is the largest chain id whose EIP-155 recovery value
// (2*chainID + 35 + recid) still fits a uint64.
const maxChainID = (math.MaxUint64 - 36) / 2

// EthSigner holds keys and signs transaction messages with them.
type EthSigner interface {
	// Accounts returns the addresses this signer can sign for. The order is
	// stable for the signer's lifetime.
	Accounts() []common.Address

	// Sign signs msg with the key of addr.
	Sign(msg *TransactionMessage, addr common.Address) (*SignedTransaction, error)
}

// hashSigner signs a 32 byte digest, returning a 65 byte [R || S || V]
// signature with V being the recovery id (0 or 1).
type hashSigner func(hash common.Hash) ([]byte, error)

// seal hashes msg, signs the digest and checks that the signature recovers
// to from before assembling the signed transaction.
func seal(msg *TransactionMessage, from common.Address, sign hashSigner) (*SignedTransaction, error) {
	if msg == nil {
		return nil, ErrInvalidMessage
	}
	if msg.ChainID != nil && *msg.ChainID > maxChainID {
		return nil, fmt.Errorf("%w: chain id %d too large", ErrInvalidMessage, *msg.ChainID)
	}
	hash, err := msg.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := sign(hash)
	if err != nil {
		return nil, err
	}
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: length %d", ErrSignatureInvalid, len(sig))
	}
	recid := sig[crypto.RecoveryIDOffset]
	r, s := new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(recid, r, s, true) {
		return nil, ErrSignatureInvalid
	}
	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if crypto.PubkeyToAddress(*pub) != from {
		return nil, fmt.Errorf("%w: recovered foreign address", ErrSignatureInvalid)
	}

	v := 27 + uint64(recid)
	if msg.ChainID != nil {
		v = 2*(*msg.ChainID) + 35 + uint64(recid)
	}
	return &SignedTransaction{
		TransactionMessage: msg.copy(),
		V:                  v,
		R:                  common.BytesToHash(sig[:32]),
		S:                  common.BytesToHash(sig[32:64]),
	}, nil
}
