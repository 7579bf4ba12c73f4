// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cstake

// Reward issuance.
// A unit of deposited value (1e18 wei) yields 1000 reward tokens of 6 decimals.
const (
	RewardRateNumerator   uint64 = 1000 * 1e6
	RewardRateDenominator uint64 = 1e18

	RewardTokenDecimals = 6
	RewardTokenName     = "RewardCoin"
	RewardTokenSymbol   = "RWD"
)

// Addresses of the native contracts.
var (
	StakingAddress = BytesToAddress([]byte("ConfidentialStaking"))
	TokenAddress   = BytesToAddress([]byte("RewardCoin"))
	ACLAddress     = BytesToAddress([]byte("FheACL"))
)
