// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"
	"math"
	"math/big"

	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/cstake/builtin/solidity"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/state"
)

var logger = log.WithContext("pkg", "staking")

// Minter mints reward token. caller must be the token's minter.
type Minter interface {
	Mint(caller, to cstake.Address, amount uint64) error
}

// Bank moves native value between accounts.
type Bank interface {
	Transfer(from, to cstake.Address, amount *big.Int) error
}

// Staking implements native methods of `ConfidentialStaking` contract.
type Staking struct {
	addr    cstake.Address
	state   *state.State
	storage *Storage
	fhe     fhe.Service
	token   Minter
	bank    Bank
}

// New create a new instance.
func New(addr cstake.Address, st *state.State, svc fhe.Service, token Minter, bank Bank) *Staking {
	return &Staking{
		addr:    addr,
		state:   st,
		storage: NewStorage(solidity.NewContext(addr, st)),
		fhe:     svc,
		token:   token,
		bank:    bank,
	}
}

// Address returns the contract address.
func (s *Staking) Address() cstake.Address {
	return s.addr
}

// atomic runs fn inside a state checkpoint, reverting every change if fn fails.
func (s *Staking) atomic(fn func() error) error {
	chk := s.state.NewCheckpoint()
	if err := fn(); err != nil {
		s.state.RevertTo(chk)
		return err
	}
	return nil
}

// Stake creates the caller's position for a deposit of depositValue locked for lockDuration seconds.
// The deposit is expected to be already credited to the contract.
func (s *Staking) Stake(caller cstake.Address, lockDuration uint64, depositValue *big.Int, now uint64) (*StakePosition, error) {
	if depositValue == nil || depositValue.Sign() <= 0 || !depositValue.IsUint64() {
		return nil, ErrInvalidAmount
	}
	if lockDuration == 0 || lockDuration > math.MaxUint64-now {
		return nil, ErrInvalidDuration
	}
	// the zero address marks a free slot in the handle locator
	if caller.IsZero() {
		return nil, ErrInvalidStaker
	}

	var position *StakePosition
	err := s.atomic(func() error {
		current, err := s.storage.getPosition(caller)
		if err != nil {
			return err
		}
		if !current.IsEmpty() {
			return ErrActiveStakeExists
		}

		h, err := s.fhe.Encrypt(s.addr, depositValue.Uint64())
		if err != nil {
			return pkgerrors.Wrap(err, "encrypt deposit")
		}
		if err := s.fhe.Allow(h, caller); err != nil {
			return pkgerrors.Wrap(err, "allow staker")
		}
		if err := s.fhe.Allow(h, s.addr); err != nil {
			return pkgerrors.Wrap(err, "allow contract")
		}

		position = &StakePosition{
			EncryptedAmount: h,
			UnlockTime:      now + lockDuration,
			Active:          true,
		}
		return s.storage.setPosition(caller, position)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("stake created", "staker", caller, "unlockTime", position.UnlockTime, "handle", position.EncryptedAmount.AbbrevString())
	return position, nil
}

// RequestWithdraw flags the caller's unlocked position for public decryption.
func (s *Staking) RequestWithdraw(caller cstake.Address, now uint64) (*PendingWithdrawal, error) {
	var pending *PendingWithdrawal
	err := s.atomic(func() error {
		position, err := s.storage.getPosition(caller)
		if err != nil {
			return err
		}
		if position.IsEmpty() {
			return ErrNoActiveStake
		}
		if position.WithdrawRequested {
			return ErrWithdrawAlreadyRequested
		}
		if now < position.UnlockTime {
			return ErrWithdrawNotReady
		}
		if _, found, err := s.storage.locate(position.EncryptedAmount); err != nil {
			return err
		} else if found {
			// never overwrite another account's pending request
			return ErrInvalidWithdrawRequest
		}

		position.WithdrawRequested = true
		if err := s.storage.setPosition(caller, position); err != nil {
			return err
		}
		if err := s.fhe.MakePubliclyDecryptable(position.EncryptedAmount); err != nil {
			return pkgerrors.Wrap(err, "make publicly decryptable")
		}
		pending = &PendingWithdrawal{Handle: position.EncryptedAmount, RequestedAt: now}
		return s.storage.insertPending(caller, pending)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("withdraw requested", "staker", caller, "handle", pending.Handle.AbbrevString())
	return pending, nil
}

// FinalizeWithdraw verifies the decryption proof of a pending handle, settles the position,
// pays the clear amount back to the staker and mints the reward.
// State is deleted before the payout and mint; any failure reverts the whole settlement.
func (s *Staking) FinalizeWithdraw(h fhe.Handle, clearAmount uint64, proof []byte) (*Settlement, error) {
	var settlement *Settlement
	err := s.atomic(func() error {
		staker, found, err := s.storage.locate(h)
		if err != nil {
			return err
		}
		if !found {
			return ErrInvalidWithdrawRequest
		}
		position, err := s.storage.getPosition(staker)
		if err != nil {
			return err
		}
		if position.Status() != StatusRequested || position.EncryptedAmount != h {
			return ErrInvalidWithdrawRequest
		}
		pending, err := s.storage.getPending(staker)
		if err != nil {
			return err
		}
		if pending == nil || pending.Handle != h {
			return ErrInvalidWithdrawRequest
		}

		ok, err := s.fhe.VerifyDecryption(h, clearAmount, proof)
		if err != nil {
			return pkgerrors.Wrap(err, "verify decryption")
		}
		if !ok {
			return ErrInvalidDecryptionProof
		}

		reward, err := Reward(clearAmount)
		if err != nil {
			return err
		}

		// effects
		s.storage.settle(staker, h)

		// interactions
		if err := s.bank.Transfer(s.addr, staker, new(big.Int).SetUint64(clearAmount)); err != nil {
			if errors.Is(err, ErrRecipientRejected) || errors.Is(err, ErrInsufficientBalance) {
				logger.Debug("payout failed", "staker", staker, "err", err)
				return ErrTransferFailed
			}
			return pkgerrors.Wrap(err, "transfer")
		}
		if err := s.token.Mint(s.addr, staker, reward); err != nil {
			return pkgerrors.WithMessage(err, "mint reward")
		}

		settlement = &Settlement{Staker: staker, Amount: clearAmount, Reward: reward}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("withdraw finalized", "staker", settlement.Staker, "amount", settlement.Amount, "reward", settlement.Reward)
	return settlement, nil
}

// GetStake returns the position of account. A zero position is returned for unknown accounts.
func (s *Staking) GetStake(account cstake.Address) (*StakePosition, error) {
	position, err := s.storage.getPosition(account)
	if err != nil {
		return nil, err
	}
	if position.IsEmpty() {
		return &StakePosition{}, nil
	}
	return position, nil
}

// CanWithdraw returns whether account may request withdrawal at now.
func (s *Staking) CanWithdraw(account cstake.Address, now uint64) (bool, error) {
	position, err := s.storage.getPosition(account)
	if err != nil {
		return false, err
	}
	return !position.IsEmpty() && now >= position.UnlockTime && !position.WithdrawRequested, nil
}

// GetPendingWithdrawal returns the outstanding request of account, or nil.
func (s *Staking) GetPendingWithdrawal(account cstake.Address) (*PendingWithdrawal, error) {
	return s.storage.getPending(account)
}

// LocatePending returns the account owning a pending handle.
func (s *Staking) LocatePending(h fhe.Handle) (cstake.Address, bool, error) {
	return s.storage.locate(h)
}
