// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
)

// Status is the lifecycle state of an account's position.
type Status uint8

const (
	StatusNone      Status = iota // no position
	StatusActive                  // staked, locked or unlockable
	StatusRequested               // withdrawal requested, revelation pending
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusActive:
		return "active"
	case StatusRequested:
		return "requested"
	}
	return "unknown"
}

// StakePosition is the single position an account may hold.
// When Active is false the other fields are meaningless.
type StakePosition struct {
	EncryptedAmount   fhe.Handle
	UnlockTime        uint64
	Active            bool
	WithdrawRequested bool
}

// IsEmpty returns whether the position is absent.
func (p *StakePosition) IsEmpty() bool {
	return p == nil || !p.Active
}

// Status returns the lifecycle state of the position.
func (p *StakePosition) Status() Status {
	switch {
	case p.IsEmpty():
		return StatusNone
	case p.WithdrawRequested:
		return StatusRequested
	default:
		return StatusActive
	}
}

// PendingWithdrawal is the outstanding request of an account.
type PendingWithdrawal struct {
	Handle      fhe.Handle
	RequestedAt uint64
}

// Settlement is the outcome of a finalized withdrawal.
type Settlement struct {
	Staker cstake.Address
	Amount uint64
	Reward uint64
}
