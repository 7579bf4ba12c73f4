// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/cstake/cstake"
)

// StakeRequest deposits value locked for lockDuration seconds.
type StakeRequest struct {
	Caller       cstake.Address        `json:"caller"`
	Value        *math.HexOrDecimal256 `json:"value"`
	LockDuration uint64                `json:"lockDuration"`
}

// WithdrawRequest requests the withdrawal of the caller's position.
type WithdrawRequest struct {
	Caller cstake.Address `json:"caller"`
}

// FinalizeRequest settles a pending withdrawal with a decryption result.
type FinalizeRequest struct {
	Caller      cstake.Address      `json:"caller"`
	Handle      cstake.Bytes32      `json:"handle"`
	ClearAmount math.HexOrDecimal64 `json:"clearAmount"`
	Proof       hexutil.Bytes       `json:"proof"`
}

// Pending is an outstanding withdrawal request.
type Pending struct {
	Handle      cstake.Bytes32 `json:"handle"`
	RequestedAt uint64         `json:"requestedAt"`
}

// Stake is the snapshot of an account's position.
type Stake struct {
	Account           cstake.Address `json:"account"`
	EncryptedAmount   cstake.Bytes32 `json:"encryptedAmount"`
	UnlockTime        uint64         `json:"unlockTime"`
	Active            bool           `json:"active"`
	WithdrawRequested bool           `json:"withdrawRequested"`
	Status            string         `json:"status"`
	CanWithdraw       bool           `json:"canWithdraw"`
	Pending           *Pending       `json:"pending"`
}

// Reward is the reward preview of an amount.
type Reward struct {
	Amount math.HexOrDecimal64 `json:"amount"`
	Reward math.HexOrDecimal64 `json:"reward"`
}
