//go:build revm
// +build revm

package revmbridge

/*
#cgo CFLAGS: -I${SRCDIR}/../../revm_integration/revm_ffi_wrapper
#cgo LDFLAGS: -L${SRCDIR}/../../revm_integration/revm_ffi_wrapper/target/release -lrevm_ffi -Wl,-rpath,${SRCDIR}/../../revm_integration/revm_ffi_wrapper/target/release
#include <revm_ffi.h>
*/
import "C"

import (
	"errors"
	"unsafe"
)

// snapshot is a deep clone of the root engine instance. It shares the Go
// state handle but owns an independent Rust-side cache, and is never merged
// back into the root.
type snapshot struct {
	inst *C.RevmInstanceStateDB
}

// snapshot clones the root instance after priming it with keys.
func (p *RevmProbe) snapshot(keys []BatchKey) (*snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.root == nil {
		return nil, errors.New("revm probe closed")
	}
	prefetch(p.root, keys)
	dup := C.revm_snapshot_clone(p.root)
	if dup == nil {
		return nil, errors.New("revm snapshot clone failed")
	}
	return &snapshot{inst: dup}, nil
}

// discard frees the clone without committing it.
func (s *snapshot) discard() {
	if s == nil || s.inst == nil {
		return
	}
	C.revm_free_statedb_instance(s.inst)
	s.inst = nil
}

// prefetch loads keys into the engine cache so execution does not need to
// call back into Go for them. Unknown accounts and slots are ignored.
func prefetch(inst *C.RevmInstanceStateDB, keys []BatchKey) {
	if len(keys) == 0 || inst == nil {
		return
	}
	cKeys := make([]C.FFIBatchKey, len(keys))
	for i, k := range keys {
		for j := 0; j < 20; j++ {
			cKeys[i].address.bytes[j] = C.uchar(k.Address[j])
		}
		for j := 0; j < 32; j++ {
			cKeys[i].slot.bytes[j] = C.uchar(k.Slot[j])
		}
	}
	C.revm_prefetch_batch(inst, (*C.FFIBatchKey)(unsafe.Pointer(&cKeys[0])), C.size_t(len(cKeys)))
}
