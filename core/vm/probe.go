package vm

import "github.com/ethereum/go-ethereum/common"

// Probe runs a call or creation with a fixed gas budget and reports the
// outcome together with the returned bytes.
//
// Implementations must be deterministic for a fixed ledger state and must not
// let one probe observe the effects of another: the estimator may call Probe
// many times for a single RPC request. Failures of the implementation itself
// (state unavailable, engine not constructible) are reported as ExitFatal.
type Probe interface {
	Probe(gas uint64, req *CallRequest) (ExitReason, []byte)
}

// Engine is implemented by probes that can name the backend behind them.
type Engine interface {
	Probe

	// Engine returns a short human identifier ("go-evm", "revm" …).
	Engine() string
}

// NonceReader exposes the current nonce of an account in the probe's state.
type NonceReader interface {
	GetNonce(addr common.Address) uint64
}

// ProbeFunc adapts an ordinary function to the Probe interface.
type ProbeFunc func(gas uint64, req *CallRequest) (ExitReason, []byte)

// Probe calls f(gas, req).
func (f ProbeFunc) Probe(gas uint64, req *CallRequest) (ExitReason, []byte) {
	return f(gas, req)
}
