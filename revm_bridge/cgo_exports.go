//go:build cgo && revm
// +build cgo,revm

package revmbridge

/*
#include <stdint.h>
#include <string.h>

// The canonical layout lives in Rust; these definitions only give cgo the
// sizes. They must stay in sync with the Rust side.

typedef struct {
    uint8_t bytes[20];
} FFIAddress;

typedef struct {
    uint8_t bytes[32];
} FFIHash;

typedef struct {
    uint8_t bytes[32];
} FFIU256;

typedef struct {
    FFIU256 balance;
    uint64_t nonce;
    FFIHash code_hash;
} FFIAccountInfo;
*/
import "C"

import (
	"unsafe"

	"github.com/ethereum/go-ethereum/common"
)

func cAddressToGo(addr C.FFIAddress) common.Address {
	var out common.Address
	C.memcpy(unsafe.Pointer(&out[0]), unsafe.Pointer(&addr.bytes[0]), 20)
	return out
}

func cHashToGo(h C.FFIHash) common.Hash {
	var out common.Hash
	C.memcpy(unsafe.Pointer(&out[0]), unsafe.Pointer(&h.bytes[0]), 32)
	return out
}

func goHashToC(h FFIHash) C.FFIHash {
	return *(*C.FFIHash)(unsafe.Pointer(&h))
}

func goU256ToC(u FFIU256) C.FFIU256 {
	return *(*C.FFIU256)(unsafe.Pointer(&u))
}

//export re_state_basic
func re_state_basic(handle C.uintptr_t, addr C.FFIAddress, out_info *C.FFIAccountInfo) C.int {
	st, ok := lookup(uintptr(handle))
	if !ok || out_info == nil {
		return -1
	}
	info := st.Basic(cAddressToGo(addr))

	out_info.balance = goU256ToC(info.Balance)
	out_info.nonce = C.uint64_t(info.Nonce)
	out_info.code_hash = goHashToC(info.CodeHash)
	return 0
}

//export re_state_storage
func re_state_storage(handle C.uintptr_t, addr C.FFIAddress, slot C.FFIHash, out_val *C.FFIU256) C.int {
	st, ok := lookup(uintptr(handle))
	if !ok || out_val == nil {
		return -1
	}
	*out_val = goU256ToC(st.Storage(cAddressToGo(addr), cHashToGo(slot)))
	return 0
}

//export re_state_block_hash
func re_state_block_hash(handle C.uintptr_t, number C.uint64_t, out_hash *C.FFIHash) C.int {
	st, ok := lookup(uintptr(handle))
	if !ok || out_hash == nil {
		return -1
	}
	*out_hash = goHashToC(st.BlockHash(uint64(number)))
	return 0
}

//export re_state_code
func re_state_code(handle C.uintptr_t, code_hash C.FFIHash, out_ptr *unsafe.Pointer, out_len *C.uint32_t) C.int {
	st, ok := lookup(uintptr(handle))
	if !ok || out_ptr == nil || out_len == nil {
		return -1
	}
	code := st.CodeByHash(cHashToGo(code_hash))
	if len(code) == 0 {
		*out_ptr = nil
		*out_len = 0
		return 1 // not found
	}
	*out_ptr = C.CBytes(code)
	*out_len = C.uint32_t(len(code))
	return 0
}
