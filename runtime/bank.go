// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/cstake/builtin/staking"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/state"
)

// Transfer is a native value movement made during execution.
type Transfer struct {
	Sender    cstake.Address
	Recipient cstake.Address
	Amount    *big.Int
}

// bank moves balances within one execution state.
type bank struct {
	state     *state.State
	rejects   func(cstake.Address) bool
	transfers []*Transfer
}

func (b *bank) Transfer(from, to cstake.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative amount")
	}
	if b.rejects(to) {
		return staking.ErrRecipientRejected
	}
	fromBal, err := b.state.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return staking.ErrInsufficientBalance
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	if err := b.state.SetBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := b.state.GetBalance(to)
	if err != nil {
		return err
	}
	if err := b.state.SetBalance(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	b.transfers = append(b.transfers, &Transfer{from, to, new(big.Int).Set(amount)})
	return nil
}
