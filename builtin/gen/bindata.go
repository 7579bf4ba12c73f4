// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen embeds the compiled ABIs of the ledger contracts.
package gen

import (
	"embed"
)

//go:generate rm -rf ./compiled/
//go:generate docker run -v ./:/solidity ethereum/solc:0.8.24 --overwrite --abi -o /solidity/compiled confidential_staking.sol reward_coin.sol

//go:embed compiled
var fs embed.FS

// MustABI returns the compiled ABI of the named contract.
func MustABI(name string) []byte {
	data, err := fs.ReadFile("compiled/" + name + ".abi")
	if err != nil {
		panic(err)
	}
	return data
}
