// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/vechain/cstake/cstake"
)

// Event represents an emitted contract event that can be stored in db.
type Event struct {
	BlockNumber uint32
	Index       uint32
	BlockTime   uint64
	TxID        cstake.Bytes32
	TxOrigin    cstake.Address // contract caller
	Address     cstake.Address // always a contract address
	Topics      [5]*cstake.Bytes32
	Data        []byte
}

// Transfer represents a native value transfer that can be stored in db.
type Transfer struct {
	BlockNumber uint32
	Index       uint32
	BlockTime   uint64
	TxID        cstake.Bytes32
	TxOrigin    cstake.Address
	Sender      cstake.Address
	Recipient   cstake.Address
	Amount      *big.Int
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *cstake.Address // always a contract address
	Topics  [5]*cstake.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	TxOrigin  *cstake.Address // who sent the call
	Sender    *cstake.Address // who transferred value
	Recipient *cstake.Address // who received value
}

type TransferFilter struct {
	TxID        *cstake.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
