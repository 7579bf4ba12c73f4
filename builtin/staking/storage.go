// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/cstake/builtin/solidity"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
)

var (
	slotPositions = cstake.BytesToBytes32([]byte("positions"))
	slotPending   = cstake.BytesToBytes32([]byte("pending-withdrawals"))
	slotLocator   = cstake.BytesToBytes32([]byte("pending-locator"))
)

// Storage persists positions and the pending-withdrawal index.
// Pending requests are keyed by account; the locator maps a pending handle back to its account.
type Storage struct {
	positions *solidity.Mapping[cstake.Address, *StakePosition]
	pending   *solidity.Mapping[cstake.Address, *PendingWithdrawal]
	locator   *solidity.Mapping[cstake.Bytes32, cstake.Address]
}

func NewStorage(sctx *solidity.Context) *Storage {
	return &Storage{
		positions: solidity.NewMapping[cstake.Address, *StakePosition](sctx, slotPositions),
		pending:   solidity.NewMapping[cstake.Address, *PendingWithdrawal](sctx, slotPending),
		locator:   solidity.NewMapping[cstake.Bytes32, cstake.Address](sctx, slotLocator),
	}
}

func (s *Storage) getPosition(account cstake.Address) (*StakePosition, error) {
	p, err := s.positions.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	return p, nil
}

func (s *Storage) setPosition(account cstake.Address, p *StakePosition) error {
	if err := s.positions.Set(account, p); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}

func (s *Storage) getPending(account cstake.Address) (*PendingWithdrawal, error) {
	p, err := s.pending.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pending withdrawal")
	}
	return p, nil
}

// locate returns the account owning the pending handle, or false if the handle is not pending.
func (s *Storage) locate(h fhe.Handle) (cstake.Address, bool, error) {
	account, err := s.locator.Get(h)
	if err != nil {
		return cstake.Address{}, false, errors.Wrap(err, "failed to locate handle")
	}
	return account, !account.IsZero(), nil
}

func (s *Storage) insertPending(account cstake.Address, p *PendingWithdrawal) error {
	if err := s.pending.Set(account, p); err != nil {
		return errors.Wrap(err, "failed to set pending withdrawal")
	}
	if err := s.locator.Set(p.Handle, account); err != nil {
		return errors.Wrap(err, "failed to set locator")
	}
	return nil
}

// settle removes the position, the pending request and its locator.
func (s *Storage) settle(account cstake.Address, h fhe.Handle) {
	s.locator.Delete(h)
	s.pending.Delete(account)
	s.positions.Delete(account)
}
