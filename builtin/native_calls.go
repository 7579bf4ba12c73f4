// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/cstake/abi"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/xenv"
)

// nativeMethod defines abi and impl of a native method.
type nativeMethod struct {
	abi *abi.Method
	run func(env *xenv.Environment) []any
}

type addressAndMethodID struct {
	cstake.Address
	abi.MethodID
}

var (
	nativeMethods = make(map[addressAndMethodID]*nativeMethod)
	fallbacks     = make(map[cstake.Address]error)
)

func register(c *contract, defines []struct {
	name string
	run  func(env *xenv.Environment) []any
}) {
	for _, def := range defines {
		if method, found := c.ABI.MethodByName(def.name); found {
			nativeMethods[addressAndMethodID{c.Address, method.ID()}] = &nativeMethod{
				abi: method,
				run: def.run,
			}
		} else {
			panic("method not found: " + def.name)
		}
	}
}

// FindNativeCall returns the native implementation of the method selected by input.
func FindNativeCall(to cstake.Address, input []byte) (*abi.Method, func(env *xenv.Environment) []any, bool) {
	methodID, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, nil, false
	}
	method := nativeMethods[addressAndMethodID{to, methodID}]
	if method == nil {
		return nil, nil, false
	}
	return method.abi, method.run, true
}

// FallbackRevert returns the revert raised when a builtin contract is called without a matching method.
// Nil means the call fails without revert data.
func FallbackRevert(to cstake.Address) error {
	return fallbacks[to]
}

// IsBuiltin returns whether addr is a builtin contract.
func IsBuiltin(addr cstake.Address) bool {
	for _, c := range Contracts() {
		if c.Address == addr {
			return true
		}
	}
	return false
}

func topicOf(addr cstake.Address) cstake.Bytes32 {
	return cstake.BytesToBytes32(addr.Bytes())
}
