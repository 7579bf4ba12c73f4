// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"

	"github.com/vechain/cstake/abi"
	"github.com/vechain/cstake/builtin"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/runtime"
	"github.com/vechain/cstake/state"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis to build the initial ledger state.
type Genesis struct {
	builder *Builder
	owner   cstake.Address
	name    string
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Owner returns the reward token owner.
func (g *Genesis) Owner() cstake.Address {
	return g.owner
}

// Apply initializes rt unless it already holds committed clauses.
// Returns true if the genesis was applied.
func (g *Genesis) Apply(rt *runtime.Runtime) (bool, error) {
	if rt.BlockNumber() != 0 {
		return false, nil
	}
	number, err := g.builder.Build(rt)
	if err != nil {
		return false, err
	}
	logger.Info("genesis applied", "network", g.name, "number", number, "owner", g.owner)
	return true, nil
}

// newBuilder sets up the builtin contracts: token owner and staking as the sole minter.
func newBuilder(owner cstake.Address, alloc func(st *state.State) error) *Builder {
	return new(Builder).
		State(func(st *state.State) error {
			builtin.Token.Native(st, nil).Initialize(owner)
			return alloc(st)
		}).
		Call(&runtime.Clause{
			To:   builtin.Token.Address,
			Data: mustEncodeInput(builtin.Token.ABI, "setMinter", builtin.Staking.Address),
		}, owner)
}

func mustEncodeInput(abi *abi.ABI, name string, args ...any) []byte {
	m, found := abi.MethodByName(name)
	if !found {
		panic(fmt.Sprintf("method '%v' not found", name))
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		panic(err)
	}
	return data
}
