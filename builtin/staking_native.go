// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/cstake/builtin/staking"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/xenv"
)

var (
	eventStakeCreated      = Staking.mustEvent("StakeCreated")
	eventWithdrawRequested = Staking.mustEvent("WithdrawRequested")
	eventWithdrawFinalized = Staking.mustEvent("WithdrawFinalized")
)

// stakingOf binds the ledger to the call environment, minting through the token contract.
func stakingOf(env *xenv.Environment) *staking.Staking {
	return Staking.Native(env.State(), env.FHE(), &tokenMinter{env}, env.Bank())
}

func init() {
	defines := []struct {
		name string
		run  func(env *xenv.Environment) []any
	}{
		{"stake", func(env *xenv.Environment) []any {
			var lockDuration uint64
			env.ParseArgs(&lockDuration)

			value := env.Value()
			position, err := stakingOf(env).Stake(env.Caller(), lockDuration, value, env.BlockContext().Time)
			if err != nil {
				env.Stop(err)
			}
			env.Log(eventStakeCreated, Staking.Address, []cstake.Bytes32{topicOf(env.Caller())},
				value, position.UnlockTime, position.EncryptedAmount)
			return nil
		}},
		{"requestWithdraw", func(env *xenv.Environment) []any {
			pending, err := stakingOf(env).RequestWithdraw(env.Caller(), env.BlockContext().Time)
			if err != nil {
				env.Stop(err)
			}
			env.Log(eventWithdrawRequested, Staking.Address, []cstake.Bytes32{topicOf(env.Caller())}, pending.Handle)
			return nil
		}},
		{"finalizeWithdraw", func(env *xenv.Environment) []any {
			var args struct {
				Handle      common.Hash
				ClearAmount uint64
				Proof       []byte
			}
			env.ParseArgs(&args)

			settlement, err := stakingOf(env).FinalizeWithdraw(cstake.Bytes32(args.Handle), args.ClearAmount, args.Proof)
			if err != nil {
				env.Stop(err)
			}
			env.Log(eventWithdrawFinalized, Staking.Address, []cstake.Bytes32{topicOf(settlement.Staker)},
				settlement.Amount, settlement.Reward)
			return nil
		}},
		{"getStake", func(env *xenv.Environment) []any {
			var account common.Address
			env.ParseArgs(&account)

			p, err := stakingOf(env).GetStake(cstake.Address(account))
			if err != nil {
				env.Stop(err)
			}
			return []any{p.EncryptedAmount, p.UnlockTime, p.Active, p.WithdrawRequested}
		}},
		{"canWithdraw", func(env *xenv.Environment) []any {
			var account common.Address
			env.ParseArgs(&account)

			ok, err := stakingOf(env).CanWithdraw(cstake.Address(account), env.BlockContext().Time)
			if err != nil {
				env.Stop(err)
			}
			return []any{ok}
		}},
		{"getPendingWithdrawal", func(env *xenv.Environment) []any {
			var account common.Address
			env.ParseArgs(&account)

			p, err := stakingOf(env).GetPendingWithdrawal(cstake.Address(account))
			if err != nil {
				env.Stop(err)
			}
			if p == nil {
				return []any{cstake.Bytes32{}, uint64(0), false}
			}
			return []any{p.Handle, p.RequestedAt, true}
		}},
		{"rewardToken", func(env *xenv.Environment) []any {
			return []any{Token.Address}
		}},
		{"computeReward", func(env *xenv.Environment) []any {
			var amount uint64
			env.ParseArgs(&amount)

			reward, ok := staking.ComputeReward(amount)
			return []any{reward, ok}
		}},
	}
	register(Staking.contract, defines)

	// plain value transfers are not deposits
	fallbacks[Staking.Address] = staking.ErrInvalidAmount
}
