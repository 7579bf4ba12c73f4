// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random ledger values for tests.
package datagen

import (
	"crypto/rand"

	"github.com/vechain/cstake/cstake"
)

func RandomHash() cstake.Bytes32 {
	var b32 cstake.Bytes32
	_, _ = rand.Read(b32[:])
	return b32
}

func RandomAddress() cstake.Address {
	var addr cstake.Address
	_, _ = rand.Read(addr[:])
	return addr
}
