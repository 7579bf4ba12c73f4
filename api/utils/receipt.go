// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/runtime"
)

// Event is an event emitted by a committed clause.
type Event struct {
	Address cstake.Address   `json:"address"`
	Topics  []cstake.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
}

// Transfer is a native value transfer made by a committed clause.
type Transfer struct {
	Sender    cstake.Address        `json:"sender"`
	Recipient cstake.Address        `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

// Receipt describes a committed clause.
type Receipt struct {
	TxID           cstake.Bytes32 `json:"txID"`
	BlockNumber    uint32         `json:"blockNumber"`
	BlockTimestamp uint64         `json:"blockTimestamp"`
	Events         []*Event       `json:"events"`
	Transfers      []*Transfer    `json:"transfers"`
}

// ConvertReceipt converts the output of a committed clause.
func ConvertReceipt(out *runtime.Output) *Receipt {
	r := &Receipt{
		TxID:           out.TxID,
		BlockNumber:    out.BlockNumber,
		BlockTimestamp: out.BlockTime,
		Events:         make([]*Event, 0, len(out.Events)),
		Transfers:      make([]*Transfer, 0, len(out.Transfers)),
	}
	for _, ev := range out.Events {
		r.Events = append(r.Events, &Event{
			Address: ev.Address,
			Topics:  ev.Topics,
			Data:    hexutil.Encode(ev.Data),
		})
	}
	for _, tr := range out.Transfers {
		r.Transfers = append(r.Transfers, &Transfer{
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    (*math.HexOrDecimal256)(new(big.Int).Set(tr.Amount)),
		})
	}
	return r
}

// Execute runs the clause and converts a revert into an http error.
func Execute(rt *runtime.Runtime, clause *runtime.Clause, caller cstake.Address) (*Receipt, error) {
	out, err := rt.Execute(clause, caller)
	if err != nil {
		return nil, err
	}
	if out.VMErr != nil {
		return nil, VMError(out.VMErr)
	}
	return ConvertReceipt(out), nil
}
