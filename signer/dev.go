package signer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// devKey is the well-known development key 0x1111...11.
var devKey = bytes.Repeat([]byte{0x11}, 32)

// DevSigner signs with a fixed set of in-memory keys. It is meant for
// development chains only: keys are neither persisted nor protected.
type DevSigner struct {
	keys  []*secp256k1.PrivateKey
	addrs []common.Address
}

// NewDevSigner returns a signer holding the well-known development key.
func NewDevSigner() *DevSigner {
	s, err := NewDevSignerFromKeys(devKey)
	if err != nil {
		panic(err) // static key
	}
	return s
}

// NewDevSignerFromKeys returns a signer holding the given raw 32 byte
// secp256k1 private keys, in order.
func NewDevSignerFromKeys(keys ...[]byte) (*DevSigner, error) {
	if len(keys) == 0 {
		return nil, errors.New("no dev keys")
	}
	s := &DevSigner{
		keys:  make([]*secp256k1.PrivateKey, 0, len(keys)),
		addrs: make([]common.Address, 0, len(keys)),
	}
	for i, raw := range keys {
		if len(raw) != 32 {
			return nil, fmt.Errorf("dev key %d: invalid length %d", i, len(raw))
		}
		var scalar secp256k1.ModNScalar
		if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
			return nil, fmt.Errorf("dev key %d: out of curve order", i)
		}
		key := secp256k1.NewPrivateKey(&scalar)
		s.keys = append(s.keys, key)
		s.addrs = append(s.addrs, pubkeyToAddress(key.PubKey()))
	}
	return s, nil
}

// pubkeyToAddress returns the last 20 bytes of the Keccak-256 hash of the
// 64 byte uncompressed public key.
func pubkeyToAddress(pub *secp256k1.PublicKey) common.Address {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub.SerializeUncompressed()[1:])
	return common.BytesToAddress(h.Sum(nil)[12:])
}

func (s *DevSigner) Accounts() []common.Address {
	return append([]common.Address(nil), s.addrs...)
}

func (s *DevSigner) Sign(msg *TransactionMessage, addr common.Address) (*SignedTransaction, error) {
	for i, a := range s.addrs {
		if a != addr {
			continue
		}
		key := s.keys[i]
		return seal(msg, addr, func(hash common.Hash) ([]byte, error) {
			// SignCompact yields [27+recid || R || S].
			compact := ecdsa.SignCompact(key, hash[:], false)
			sig := make([]byte, 65)
			copy(sig, compact[1:])
			sig[64] = compact[0] - 27
			return sig, nil
		})
	}
	return nil, ErrKeyNotFound
}
