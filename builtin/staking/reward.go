// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/cstake/cstake"
)

var (
	rewardNumerator   = uint256.NewInt(cstake.RewardRateNumerator)
	rewardDenominator = uint256.NewInt(cstake.RewardRateDenominator)
)

// ComputeReward returns floor(amount * RewardRateNumerator / RewardRateDenominator).
// ok is false if the result does not fit 64 bits.
func ComputeReward(amount uint64) (reward uint64, ok bool) {
	x := uint256.NewInt(amount)
	// amount < 2^64 and numerator < 2^64, the product never overflows 256 bits
	x.Mul(x, rewardNumerator)
	x.Div(x, rewardDenominator)
	if !x.IsUint64() {
		return 0, false
	}
	return x.Uint64(), true
}

// Reward is ComputeReward returning ErrRewardOverflow when the result exceeds 64 bits.
// At the configured rate the reward stays below 2^35, so the overflow branch
// only triggers when RewardRateNumerator exceeds RewardRateDenominator.
func Reward(amount uint64) (uint64, error) {
	reward, ok := ComputeReward(amount)
	if !ok {
		return 0, ErrRewardOverflow
	}
	return reward, nil
}
