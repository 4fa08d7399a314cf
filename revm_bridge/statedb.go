package revmbridge

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/holiman/uint256"
)

// FFI-compatible types, laid out like their Rust counterparts.

type FFIAddress [20]byte

type FFIHash [32]byte

type FFIU256 [32]byte

type FFIAccountInfo struct {
	Balance  FFIU256
	Nonce    uint64
	CodeHash FFIHash
}

// stateView serves the engine's database callbacks from a go-ethereum
// StateDB. It only ever reads.
type stateView struct {
	db *state.StateDB
	// codeHash -> code, populated lazily by Basic
	codeCache sync.Map
	// blockHashResolver satisfies block_hash queries when non-nil.
	blockHashResolver func(number uint64) common.Hash
	// mu serialises access because StateDB is **not** thread-safe, not even
	// for reads.
	mu sync.Mutex
}

// Basic returns the account info for addr.
func (s *stateView) Basic(addr common.Address) FFIAccountInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.db.GetBalance(addr)
	nonce := s.db.GetNonce(addr)
	codeHash := s.db.GetCodeHash(addr)

	if codeHash != (common.Hash{}) {
		if _, ok := s.codeCache.Load(codeHash); !ok {
			if code := s.db.GetCode(addr); len(code) > 0 {
				s.codeCache.Store(codeHash, append([]byte(nil), code...))
			}
		}
	}
	return FFIAccountInfo{
		Balance:  uint256ToFFIU256(balance),
		Nonce:    nonce,
		CodeHash: FFIHash(codeHash),
	}
}

// CodeByHash returns a copy of the bytecode associated with codeHash, or nil
// when Basic has not seen an account carrying it.
func (s *stateView) CodeByHash(codeHash common.Hash) []byte {
	if v, ok := s.codeCache.Load(codeHash); ok {
		return append([]byte(nil), v.([]byte)...)
	}
	return nil
}

// Storage returns the value stored at slot in the account storage.
func (s *stateView) Storage(addr common.Address, slot common.Hash) FFIU256 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FFIU256(s.db.GetState(addr, slot))
}

// BlockHash resolves the block hash for a given block number.
func (s *stateView) BlockHash(number uint64) FFIHash {
	if s.blockHashResolver == nil {
		return FFIHash{}
	}
	return FFIHash(s.blockHashResolver(number))
}

func uint256ToFFIU256(i *uint256.Int) FFIU256 {
	if i == nil {
		return FFIU256{}
	}
	return FFIU256(i.Bytes32())
}
