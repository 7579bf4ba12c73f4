// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/vechain/cstake/abi"
	"github.com/vechain/cstake/builtin/gen"
	"github.com/vechain/cstake/cstake"
)

type contract struct {
	name    string
	Address cstake.Address
	ABI     *abi.ABI
}

func mustLoadContract(name string, addr cstake.Address) *contract {
	abi, err := abi.New(gen.MustABI(name))
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	return &contract{
		name,
		addr,
		abi,
	}
}

func (c *contract) Name() string {
	return c.name
}

func (c *contract) mustEvent(name string) *abi.Event {
	ev, ok := c.ABI.EventByName(name)
	if !ok {
		panic(fmt.Errorf("event '%s' not found in '%s'", name, c.name))
	}
	return ev
}
