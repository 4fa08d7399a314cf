package ethapi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// Config contains the settings of the eth namespace.
type Config struct {
	// ChainID is reported by eth_chainId and folded into signatures.
	ChainID uint64

	// RPCGasCap bounds the gas of eth_call and eth_estimateGas. Zero means
	// no cap.
	RPCGasCap uint64

	// GasPrice is filled into transactions that do not carry one.
	GasPrice *big.Int
}

// Defaults contains the settings of a development chain.
var Defaults = Config{
	ChainID:   1337,
	RPCGasCap: 50_000_000,
	GasPrice:  big.NewInt(params.GWei),
}
