package vm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// EngineSpec is the numeric rule-set identifier understood by the REVM FFI
// layer. The numbering follows revm_ffi_wrapper/src/lib.rs.
type EngineSpec uint8

const (
	SpecFrontier       EngineSpec = 0
	SpecHomestead      EngineSpec = 2
	SpecTangerine      EngineSpec = 4
	SpecSpuriousDragon EngineSpec = 5
	SpecByzantium      EngineSpec = 6
	SpecConstantinople EngineSpec = 7
	SpecPetersburg     EngineSpec = 8
	SpecIstanbul       EngineSpec = 9
	SpecBerlin         EngineSpec = 11
	SpecLondon         EngineSpec = 12
	SpecArrowGlacier   EngineSpec = 13
	SpecGrayGlacier    EngineSpec = 14
	SpecShanghai       EngineSpec = 16
	SpecCancun         EngineSpec = 17
	SpecPrague         EngineSpec = 19
	SpecOsaka          EngineSpec = 20
)

var specNames = map[EngineSpec]string{
	SpecFrontier:       "frontier",
	SpecHomestead:      "homestead",
	SpecTangerine:      "tangerine",
	SpecSpuriousDragon: "spurious_dragon",
	SpecByzantium:      "byzantium",
	SpecConstantinople: "constantinople",
	SpecPetersburg:     "petersburg",
	SpecIstanbul:       "istanbul",
	SpecBerlin:         "berlin",
	SpecLondon:         "london",
	SpecArrowGlacier:   "arrow_glacier",
	SpecGrayGlacier:    "gray_glacier",
	SpecShanghai:       "shanghai",
	SpecCancun:         "cancun",
	SpecPrague:         "prague",
	SpecOsaka:          "osaka",
}

func (s EngineSpec) String() string {
	if name, ok := specNames[s]; ok {
		return name
	}
	return "unknown"
}

// SpecID maps Ethereum fork rules (as exposed by ChainConfig) to the engine
// rule-set active at the given block number and timestamp.
func SpecID(cfg *params.ChainConfig, num uint64, ts uint64) EngineSpec {
	bn := new(big.Int).SetUint64(num)
	switch {
	case cfg.IsOsaka(bn, ts):
		return SpecOsaka
	case cfg.IsPrague(bn, ts):
		return SpecPrague
	case cfg.IsCancun(bn, ts):
		return SpecCancun
	case cfg.IsShanghai(bn, ts):
		return SpecShanghai
	case cfg.IsLondon(bn):
		// Gray Glacier (EIP-5133) supersedes Arrow Glacier (EIP-4345).
		if cfg.IsGrayGlacier(bn) {
			return SpecGrayGlacier
		}
		if cfg.IsArrowGlacier(bn) {
			return SpecArrowGlacier
		}
		return SpecLondon
	case cfg.IsBerlin(bn):
		return SpecBerlin
	case cfg.IsIstanbul(bn):
		return SpecIstanbul
	case cfg.IsPetersburg(bn):
		return SpecPetersburg
	case cfg.IsConstantinople(bn):
		return SpecConstantinople
	case cfg.IsByzantium(bn):
		return SpecByzantium
	case cfg.IsEIP158(bn):
		return SpecSpuriousDragon
	case cfg.IsEIP150(bn):
		return SpecTangerine
	case cfg.IsHomestead(bn):
		return SpecHomestead
	default:
		return SpecFrontier
	}
}
