// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coprocessor

import (
	"github.com/vechain/cstake/builtin/solidity"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/state"
)

var (
	slotAllowed = cstake.BytesToBytes32([]byte("allowed"))
	slotPublic  = cstake.BytesToBytes32([]byte("public"))
)

// ACL keeps decryption permissions in ledger state, so grants made by a call
// are reverted together with the call.
type ACL struct {
	allowed *solidity.Mapping[cstake.Bytes32, bool]
	public  *solidity.Mapping[cstake.Bytes32, bool]
}

// NewACL creates the ACL over the given state.
func NewACL(st *state.State) *ACL {
	ctx := solidity.NewContext(cstake.ACLAddress, st)
	return &ACL{
		allowed: solidity.NewMapping[cstake.Bytes32, bool](ctx, slotAllowed),
		public:  solidity.NewMapping[cstake.Bytes32, bool](ctx, slotPublic),
	}
}

func allowKey(h fhe.Handle, account cstake.Address) cstake.Bytes32 {
	return cstake.Blake2b(h[:], account[:])
}

func (a *ACL) Allow(h fhe.Handle, account cstake.Address) error {
	return a.allowed.Set(allowKey(h, account), true)
}

func (a *ACL) IsAllowed(h fhe.Handle, account cstake.Address) (bool, error) {
	return a.allowed.Get(allowKey(h, account))
}

func (a *ACL) MakePubliclyDecryptable(h fhe.Handle) error {
	return a.public.Set(h, true)
}

func (a *ACL) IsPubliclyDecryptable(h fhe.Handle) (bool, error) {
	return a.public.Get(h)
}
