// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the confidential reward token. Balances and total supply
// are encrypted handles; only the minter may issue new tokens.
package token

import (
	"github.com/pkg/errors"

	"github.com/vechain/cstake/builtin/solidity"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/state"
)

var logger = log.WithContext("pkg", "token")

var (
	slotOwner    = cstake.BytesToBytes32([]byte("owner"))
	slotMinter   = cstake.BytesToBytes32([]byte("minter"))
	slotSupply   = cstake.BytesToBytes32([]byte("total-supply"))
	slotBalances = cstake.BytesToBytes32([]byte("balances"))
)

// Minted describes a completed mint.
type Minted struct {
	To      cstake.Address
	Amount  fhe.Handle // encrypted minted amount
	Balance fhe.Handle // new encrypted balance of To
}

// Token implements native methods of `RewardCoin` contract.
type Token struct {
	addr     cstake.Address
	fhe      fhe.Service
	owner    *solidity.Address
	minter   *solidity.Address
	supply   *solidity.Bytes32
	balances *solidity.Mapping[cstake.Address, cstake.Bytes32]
}

// New create a new instance.
func New(addr cstake.Address, st *state.State, svc fhe.Service) *Token {
	sctx := solidity.NewContext(addr, st)
	return &Token{
		addr:     addr,
		fhe:      svc,
		owner:    solidity.NewAddress(sctx, slotOwner),
		minter:   solidity.NewAddress(sctx, slotMinter),
		supply:   solidity.NewBytes32(sctx, slotSupply),
		balances: solidity.NewMapping[cstake.Address, cstake.Bytes32](sctx, slotBalances),
	}
}

func (t *Token) Address() cstake.Address { return t.addr }

func (t *Token) Name() string    { return cstake.RewardTokenName }
func (t *Token) Symbol() string  { return cstake.RewardTokenSymbol }
func (t *Token) Decimals() uint8 { return cstake.RewardTokenDecimals }

// Initialize sets the owner. Called once at genesis.
func (t *Token) Initialize(owner cstake.Address) {
	t.owner.Set(owner)
}

func (t *Token) Owner() (cstake.Address, error) {
	return t.owner.Get()
}

func (t *Token) Minter() (cstake.Address, error) {
	return t.minter.Get()
}

// SetMinter replaces the minter and returns the previous one. Only the owner may call it.
func (t *Token) SetMinter(caller, newMinter cstake.Address) (cstake.Address, error) {
	owner, err := t.owner.Get()
	if err != nil {
		return cstake.Address{}, errors.Wrap(err, "get owner")
	}
	if caller != owner {
		return cstake.Address{}, ErrUnauthorizedOwner
	}
	prev, err := t.minter.Get()
	if err != nil {
		return cstake.Address{}, errors.Wrap(err, "get minter")
	}
	t.minter.Set(newMinter)
	logger.Debug("minter changed", "prev", prev, "new", newMinter)
	return prev, nil
}

// Mint adds amount to the encrypted balance of to and to the encrypted total supply.
// The holder and the token contract are granted access to the new balance.
func (t *Token) Mint(caller, to cstake.Address, amount uint64) (*Minted, error) {
	minter, err := t.minter.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get minter")
	}
	if minter.IsZero() || caller != minter {
		return nil, ErrUnauthorizedMinter
	}

	delta, err := t.fhe.Encrypt(t.addr, amount)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt amount")
	}
	for _, account := range []cstake.Address{to, t.addr} {
		if err := t.fhe.Allow(delta, account); err != nil {
			return nil, errors.Wrap(err, "allow amount")
		}
	}

	bal, err := t.balances.Get(to)
	if err != nil {
		return nil, errors.Wrap(err, "get balance")
	}
	if bal, err = t.fhe.Add(bal, delta); err != nil {
		return nil, errors.Wrap(err, "add balance")
	}
	for _, account := range []cstake.Address{to, t.addr} {
		if err := t.fhe.Allow(bal, account); err != nil {
			return nil, errors.Wrap(err, "allow balance")
		}
	}
	if err := t.balances.Set(to, bal); err != nil {
		return nil, errors.Wrap(err, "set balance")
	}

	supply, err := t.supply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get supply")
	}
	if supply, err = t.fhe.Add(supply, delta); err != nil {
		return nil, errors.Wrap(err, "add supply")
	}
	if err := t.fhe.Allow(supply, t.addr); err != nil {
		return nil, errors.Wrap(err, "allow supply")
	}
	t.supply.Set(supply)

	return &Minted{To: to, Amount: delta, Balance: bal}, nil
}

// ConfidentialBalanceOf returns the encrypted balance handle of account, zero if never minted to.
func (t *Token) ConfidentialBalanceOf(account cstake.Address) (fhe.Handle, error) {
	return t.balances.Get(account)
}

func (t *Token) ConfidentialTotalSupply() (fhe.Handle, error) {
	return t.supply.Get()
}
