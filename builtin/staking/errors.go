// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"

	"github.com/vechain/cstake/builtin/reverts"
)

// Revert errors of the staking contract. Each maps to a solidity custom error
// with selector keccak256("Name()")[:4].
var (
	ErrInvalidAmount            = reverts.NewCustomError("InvalidAmount")
	ErrInvalidDuration          = reverts.NewCustomError("InvalidDuration")
	ErrActiveStakeExists        = reverts.NewCustomError("ActiveStakeExists")
	ErrNoActiveStake            = reverts.NewCustomError("NoActiveStake")
	ErrWithdrawAlreadyRequested = reverts.NewCustomError("WithdrawAlreadyRequested")
	ErrWithdrawNotReady         = reverts.NewCustomError("WithdrawNotReady")
	ErrInvalidWithdrawRequest   = reverts.NewCustomError("InvalidWithdrawRequest")
	ErrInvalidDecryptionProof   = reverts.NewCustomError("InvalidDecryptionProof")
	ErrRewardOverflow           = reverts.NewCustomError("RewardOverflow")
	ErrTransferFailed           = reverts.NewCustomError("TransferFailed")
	ErrInvalidStaker            = reverts.NewCustomError("InvalidStaker")
)

// Errors returns all revert errors of the contract.
func Errors() []*reverts.CustomError {
	return []*reverts.CustomError{
		ErrInvalidAmount,
		ErrInvalidDuration,
		ErrActiveStakeExists,
		ErrNoActiveStake,
		ErrWithdrawAlreadyRequested,
		ErrWithdrawNotReady,
		ErrInvalidWithdrawRequest,
		ErrInvalidDecryptionProof,
		ErrRewardOverflow,
		ErrTransferFailed,
		ErrInvalidStaker,
	}
}

// ErrRecipientRejected is returned by a Bank when the recipient refuses value.
var ErrRecipientRejected = errors.New("recipient rejected value")

// ErrInsufficientBalance is returned by a Bank when the sender cannot cover the amount.
var ErrInsufficientBalance = errors.New("insufficient balance")
