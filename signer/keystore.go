package signer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// KeystoreSigner signs with the unlocked accounts of an encrypted
// go-ethereum keystore. The account set is fixed when the signer is created;
// keyfiles appearing in the directory later are ignored.
type KeystoreSigner struct {
	ks    *keystore.KeyStore
	addrs []common.Address
}

func NewKeystoreSigner(ks *keystore.KeyStore) *KeystoreSigner {
	accs := ks.Accounts()
	addrs := make([]common.Address, len(accs))
	for i, acc := range accs {
		addrs[i] = acc.Address
	}
	return &KeystoreSigner{ks: ks, addrs: addrs}
}

// OpenKeystoreSigner opens the keystore in dir and unlocks every account in
// it with password. lightKDF selects the cheaper scrypt parameters for new
// keys.
func OpenKeystoreSigner(dir, password string, lightKDF bool) (*KeystoreSigner, error) {
	scryptN, scryptP := keystore.StandardScryptN, keystore.StandardScryptP
	if lightKDF {
		scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
	}
	ks := keystore.NewKeyStore(dir, scryptN, scryptP)
	var addrs []common.Address
	for _, acc := range ks.Accounts() {
		if err := ks.Unlock(acc, password); err != nil {
			return nil, fmt.Errorf("unlock %s: %w", acc.Address, err)
		}
		log.Info("Unlocked keystore account", "address", acc.Address)
		addrs = append(addrs, acc.Address)
	}
	return &KeystoreSigner{ks: ks, addrs: addrs}, nil
}

func (s *KeystoreSigner) Accounts() []common.Address {
	return slices.Clone(s.addrs)
}

func (s *KeystoreSigner) Sign(msg *TransactionMessage, addr common.Address) (*SignedTransaction, error) {
	if !slices.Contains(s.addrs, addr) {
		return nil, ErrKeyNotFound
	}
	signed, err := seal(msg, addr, func(hash common.Hash) ([]byte, error) {
		return s.ks.SignHash(accounts.Account{Address: addr}, hash[:])
	})
	if errors.Is(err, keystore.ErrLocked) {
		return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, err)
	}
	return signed, err
}
