// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/cstake/builtin/staking"
	"github.com/vechain/cstake/builtin/token"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/state"
)

// Builtin contracts binding.
var (
	Staking = &stakingContract{mustLoadContract("ConfidentialStaking", cstake.StakingAddress)}
	Token   = &tokenContract{mustLoadContract("RewardCoin", cstake.TokenAddress)}
)

type (
	stakingContract struct{ *contract }
	tokenContract   struct{ *contract }
)

// Native binds the staking ledger to state. minter and bank may be nil for read-only use.
func (s *stakingContract) Native(st *state.State, svc fhe.Service, minter staking.Minter, bank staking.Bank) *staking.Staking {
	return staking.New(s.Address, st, svc, minter, bank)
}

func (t *tokenContract) Native(st *state.State, svc fhe.Service) *token.Token {
	return token.New(t.Address, st, svc)
}

// Contracts returns all builtin contracts.
func Contracts() []*contract {
	return []*contract{Staking.contract, Token.contract}
}
