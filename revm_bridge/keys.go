package revmbridge

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/clydemeng/revm-rpc/core/vm"
)

// BatchKey identifies an (address, storage slot) tuple to prefetch into the
// engine's cache. An all-zero Slot primes only the account (balance, nonce,
// code hash) without touching storage.
type BatchKey struct {
	Address common.Address
	Slot    common.Hash
}

// prefetchKeys lists the accounts every probe of req is certain to touch: the
// sender, and the recipient of a call. Duplicates are dropped.
func prefetchKeys(req *vm.CallRequest) []BatchKey {
	seen := mapset.NewThreadUnsafeSet[common.Address]()
	accounts := []common.Address{req.Sender()}
	if !req.IsCreate() {
		accounts = append(accounts, *req.To)
	}
	var keys []BatchKey
	for _, addr := range accounts {
		if seen.Add(addr) {
			keys = append(keys, BatchKey{Address: addr})
		}
	}
	return keys
}
