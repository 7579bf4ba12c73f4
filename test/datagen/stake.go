// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"

	fuzz "github.com/google/gofuzz"
)

const gwei = 1_000_000_000

// Fuzzer returns a fuzzer that never produces nil values.
func Fuzzer() *fuzz.Fuzzer {
	return fuzz.New().NilChance(0)
}

// RandomStakeAmount returns a deposit between 1 gwei and maxGwei gwei, in wei.
func RandomStakeAmount(maxGwei uint64) *big.Int {
	var n uint64
	Fuzzer().Fuzz(&n)
	if maxGwei == 0 {
		maxGwei = 1
	}
	n = n%maxGwei + 1
	return new(big.Int).Mul(new(big.Int).SetUint64(n), big.NewInt(gwei))
}

// RandomLockDuration returns a lock duration in [1, max] seconds.
func RandomLockDuration(max uint64) uint64 {
	var n uint64
	Fuzzer().Fuzz(&n)
	if max == 0 {
		max = 1
	}
	return n%max + 1
}
