// Package chains maps chain IDs to the network names a local development
// setup is likely to meet.
package chains

import "fmt"

var names = map[uint64]string{
	1:        "mainnet",
	5:        "goerli",
	10:       "op-mainnet",
	137:      "polygon",
	1337:     "dev",
	8453:     "base",
	17000:    "holesky",
	31337:    "anvil",
	42161:    "arbitrum-one",
	84532:    "base-sepolia",
	560048:   "hoodi",
	11155111: "sepolia",
	11155420: "op-sepolia",
}

// Name returns the conventional name for a chain ID, or "chain-<id>" for
// networks it does not know.
func Name(id uint64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("chain-%d", id)
}
