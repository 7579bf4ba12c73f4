// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/cstake/builtin/reverts"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/runtime"
)

// Account for marshal account
type Account struct {
	Balance   math.HexOrDecimal256 `json:"balance"`
	IsBuiltin bool                 `json:"isBuiltin"`
}

// ContractCall represents contract-call body
type ContractCall struct {
	Data   string         `json:"data"`
	Caller cstake.Address `json:"caller"`
}

type CallOutput struct {
	Data       string `json:"data"`
	Reverted   bool   `json:"reverted"`
	VMError    string `json:"vmError"`
	RevertData string `json:"revertData,omitempty"`
}

func convertCallOutput(out *runtime.Output) *CallOutput {
	co := &CallOutput{Data: hexutil.Encode(out.Data)}
	if out.VMErr != nil {
		co.Reverted = reverts.IsRevertErr(out.VMErr)
		co.VMError = out.VMErr.Error()
		if len(out.RevertData) > 0 {
			co.RevertData = hexutil.Encode(out.RevertData)
		}
	}
	return co
}
