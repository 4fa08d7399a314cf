package revmbridge

import (
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
)

// handleMap keeps a global registry of state views that can be referenced
// from Rust via FFI callbacks. The key type is `uintptr` because that's what
// cgo uses when passing opaque pointers around.
var handleMap sync.Map // map[uintptr]*stateView

// handleSeq yields unique, non-zero handles. Zero is reserved for "null".
var handleSeq uintptr

// RegisterState wraps db in a read-only view and returns a stable handle that
// can safely cross the FFI boundary. getHash resolves BLOCKHASH queries and
// may be nil, in which case every block hash reads as zero.
//
// The engine never writes through the handle: probes run on engine-side
// snapshots that are discarded afterwards.
func RegisterState(db *state.StateDB, getHash func(uint64) common.Hash) uintptr {
	if db == nil {
		return 0
	}
	h := atomic.AddUintptr(&handleSeq, 1)
	handleMap.Store(h, &stateView{db: db, blockHashResolver: getHash})
	return h
}

// ReleaseState removes a previously registered handle. Later callbacks for
// the handle fail with an error code.
func ReleaseState(h uintptr) {
	handleMap.Delete(h)
}

// lookup fetches the view associated with the given handle.
func lookup(h uintptr) (*stateView, bool) {
	if v, ok := handleMap.Load(h); ok {
		return v.(*stateView), true
	}
	return nil, false
}
