//go:build revm
// +build revm

package revmbridge

/*
#cgo CFLAGS: -I${SRCDIR}/../../revm_integration/revm_ffi_wrapper
#cgo LDFLAGS: -L${SRCDIR}/../../revm_integration/revm_ffi_wrapper/target/release -lrevm_ffi -Wl,-rpath,${SRCDIR}/../../revm_integration/revm_ffi_wrapper/target/release
#include <stdlib.h>
#include <string.h>
#include <revm_ffi.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"

	"github.com/clydemeng/revm-rpc/core/vm"
)

// RevmProbe executes probes on the Rust engine. The root instance reads
// state through a registered handle; each probe runs on a snapshot clone of
// the root that is freed afterwards, so nothing a probe does is kept.
type RevmProbe struct {
	mu     sync.Mutex
	root   *C.RevmInstanceStateDB
	handle uintptr
}

// NewRevmProbe registers statedb and boots an engine instance configured for
// the fork active at header.
func NewRevmProbe(config *params.ChainConfig, header *types.Header, statedb *state.StateDB, getHash func(uint64) common.Hash) (*RevmProbe, error) {
	if statedb == nil {
		return nil, errors.New("statedb is nil")
	}
	var number uint64
	if header.Number != nil {
		number = header.Number.Uint64()
	}
	handle := RegisterState(statedb, getHash)

	var cfg C.RevmConfigFFI
	cfg.chain_id = C.uint64_t(config.ChainID.Uint64())
	spec := vm.SpecID(config, number, header.Time)
	cfg.spec_id = C.uint8_t(spec)
	// Probes come from RPC callers, not signed transactions: sender-code
	// and nonce validation do not apply.
	cfg.disable_eip3607 = true
	cfg.disable_nonce_check = true

	inst := C.revm_new_with_statedb(C.size_t(handle), &cfg)
	if inst == nil {
		ReleaseState(handle)
		return nil, errors.New("failed to create REVM instance with statedb")
	}
	log.Debug("Created REVM probe", "handle", handle, "spec", spec)
	return &RevmProbe{root: inst, handle: handle}, nil
}

func (p *RevmProbe) Engine() string { return "revm" }

// GetNonce returns the nonce of addr in the registered state.
func (p *RevmProbe) GetNonce(addr common.Address) uint64 {
	st, ok := lookup(p.handle)
	if !ok {
		return 0
	}
	return st.Basic(addr).Nonce
}

// Close frees the engine instance and releases the state handle.
func (p *RevmProbe) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.root != nil {
		C.revm_free_statedb_instance(p.root)
		p.root = nil
	}
	if p.handle != 0 {
		ReleaseState(p.handle)
		p.handle = 0
	}
}

// Probe implements vm.Probe.
func (p *RevmProbe) Probe(gas uint64, req *vm.CallRequest) (vm.ExitReason, []byte) {
	if req.IsCreate() {
		return vm.ExitFatal{Err: fmt.Errorf("contract creation: %w", vm.ErrNotSupported)}, nil
	}
	snap, err := p.snapshot(prefetchKeys(req))
	if err != nil {
		return vm.ExitFatal{Err: err}, nil
	}
	defer snap.discard()

	ResetProfileCounters()
	defer updateMissGauges()
	return snap.call(gas, req)
}

func (s *snapshot) call(gas uint64, req *vm.CallRequest) (vm.ExitReason, []byte) {
	cFrom := C.CString(req.Sender().Hex())
	defer C.free(unsafe.Pointer(cFrom))
	cTo := C.CString(req.To.Hex())
	defer C.free(unsafe.Pointer(cTo))

	data := req.Input()
	var cDataPtr *C.uchar
	if len(data) > 0 {
		cDataBuf := C.CBytes(data)
		cDataPtr = (*C.uchar)(cDataBuf)
		defer C.free(cDataBuf)
	}
	cValue := C.CString(hexutil.EncodeBig(req.ValueOrZero()))
	defer C.free(unsafe.Pointer(cValue))

	res := C.revm_call_contract_statedb(s.inst, cFrom, cTo, cDataPtr, C.uint(len(data)), cValue, C.uint64_t(gas))
	if res == nil {
		return vm.ExitFatal{Err: errors.New("revm: nil execution result")}, nil
	}
	defer C.revm_free_execution_result(res)

	output := make([]byte, res.output_len)
	if res.output_len > 0 {
		C.memcpy(unsafe.Pointer(&output[0]), unsafe.Pointer(res.output_data), C.size_t(res.output_len))
	}
	return classifyResult(res.success != 0, uint64(res.gas_used), gas, output)
}
