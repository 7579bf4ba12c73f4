// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/xenv"
)

var (
	eventConfidentialTransfer = Token.mustEvent("ConfidentialTransfer")
	eventMinterChanged        = Token.mustEvent("MinterChanged")
)

// tokenMinter mints reward token on behalf of another builtin and logs the transfer.
type tokenMinter struct {
	env *xenv.Environment
}

func (m *tokenMinter) Mint(caller, to cstake.Address, amount uint64) error {
	minted, err := Token.Native(m.env.State(), m.env.FHE()).Mint(caller, to, amount)
	if err != nil {
		return err
	}
	m.env.Log(eventConfidentialTransfer, Token.Address,
		[]cstake.Bytes32{topicOf(cstake.Address{}), topicOf(minted.To), minted.Amount})
	return nil
}

func init() {
	defines := []struct {
		name string
		run  func(env *xenv.Environment) []any
	}{
		{"name", func(env *xenv.Environment) []any {
			return []any{Token.Native(env.State(), env.FHE()).Name()}
		}},
		{"symbol", func(env *xenv.Environment) []any {
			return []any{Token.Native(env.State(), env.FHE()).Symbol()}
		}},
		{"decimals", func(env *xenv.Environment) []any {
			return []any{Token.Native(env.State(), env.FHE()).Decimals()}
		}},
		{"owner", func(env *xenv.Environment) []any {
			owner, err := Token.Native(env.State(), env.FHE()).Owner()
			if err != nil {
				env.Stop(err)
			}
			return []any{owner}
		}},
		{"minter", func(env *xenv.Environment) []any {
			minter, err := Token.Native(env.State(), env.FHE()).Minter()
			if err != nil {
				env.Stop(err)
			}
			return []any{minter}
		}},
		{"setMinter", func(env *xenv.Environment) []any {
			var newMinter common.Address
			env.ParseArgs(&newMinter)

			prev, err := Token.Native(env.State(), env.FHE()).SetMinter(env.Caller(), cstake.Address(newMinter))
			if err != nil {
				env.Stop(err)
			}
			env.Log(eventMinterChanged, Token.Address, []cstake.Bytes32{topicOf(prev), topicOf(cstake.Address(newMinter))})
			return nil
		}},
		{"mint", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount uint64
			}
			env.ParseArgs(&args)

			if err := (&tokenMinter{env}).Mint(env.Caller(), cstake.Address(args.To), args.Amount); err != nil {
				env.Stop(err)
			}
			return nil
		}},
		{"confidentialBalanceOf", func(env *xenv.Environment) []any {
			var account common.Address
			env.ParseArgs(&account)

			h, err := Token.Native(env.State(), env.FHE()).ConfidentialBalanceOf(cstake.Address(account))
			if err != nil {
				env.Stop(err)
			}
			return []any{h}
		}},
		{"confidentialTotalSupply", func(env *xenv.Environment) []any {
			h, err := Token.Native(env.State(), env.FHE()).ConfidentialTotalSupply()
			if err != nil {
				env.Stop(err)
			}
			return []any{h}
		}},
	}
	register(Token.contract, defines)
}
