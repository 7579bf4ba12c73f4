// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/logdb"
)

type LogMeta struct {
	BlockNumber    uint32         `json:"blockNumber"`
	BlockTimestamp uint64         `json:"blockTimestamp"`
	TxID           cstake.Bytes32 `json:"txID"`
	TxOrigin       cstake.Address `json:"txOrigin"`
	LogIndex       uint32         `json:"logIndex"`
}

// FilteredEvent only comes from one contract
type FilteredEvent struct {
	Address cstake.Address    `json:"address"`
	Topics  []*cstake.Bytes32 `json:"topics"`
	Data    string            `json:"data"`
	Meta    LogMeta           `json:"meta"`
}

// ConvertEvent converts a logdb.Event into a json format Event
func ConvertEvent(event *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: LogMeta{
			BlockNumber:    event.BlockNumber,
			BlockTimestamp: event.BlockTime,
			TxID:           event.TxID,
			TxOrigin:       event.TxOrigin,
			LogIndex:       event.Index,
		},
	}
	fe.Topics = make([]*cstake.Bytes32, 0)
	for i := range 5 {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
		}
	}
	return fe
}

type FilteredTransfer struct {
	Sender    cstake.Address           `json:"sender"`
	Recipient cstake.Address           `json:"recipient"`
	Amount    *ethmath.HexOrDecimal256 `json:"amount"`
	Meta      LogMeta                  `json:"meta"`
}

func ConvertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    (*ethmath.HexOrDecimal256)(transfer.Amount),
		Meta: LogMeta{
			BlockNumber:    transfer.BlockNumber,
			BlockTimestamp: transfer.BlockTime,
			TxID:           transfer.TxID,
			TxOrigin:       transfer.TxOrigin,
			LogIndex:       transfer.Index,
		},
	}
}

type TopicSet struct {
	Topic0 *cstake.Bytes32 `json:"topic0"`
	Topic1 *cstake.Bytes32 `json:"topic1"`
	Topic2 *cstake.Bytes32 `json:"topic2"`
	Topic3 *cstake.Bytes32 `json:"topic3"`
	Topic4 *cstake.Bytes32 `json:"topic4"`
}

func (ts *TopicSet) topics() [5]*cstake.Bytes32 {
	return [5]*cstake.Bytes32{ts.Topic0, ts.Topic1, ts.Topic2, ts.Topic3, ts.Topic4}
}

type EventCriteria struct {
	Address *cstake.Address `json:"address"`
	TopicSet
}

type TransferCriteria struct {
	TxOrigin  *cstake.Address `json:"txOrigin"`
	Sender    *cstake.Address `json:"sender"`
	Recipient *cstake.Address `json:"recipient"`
}

type Options struct {
	Offset uint64  `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
}

func (o *Options) Validate(limit uint64) error {
	if o == nil {
		return nil
	}
	if o.Limit != nil && *o.Limit > limit {
		return fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if o.Offset > math.MaxInt64 {
		return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64))
	}
	return nil
}

type RangeType string

const (
	BlockRangeType RangeType = "block"
	TimeRangeType  RangeType = "time"
)

type Range struct {
	Unit RangeType `json:"unit,omitempty"`
	From *uint64   `json:"from,omitempty"`
	To   *uint64   `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" {
		if r.Unit != BlockRangeType && r.Unit != TimeRangeType {
			return fmt.Errorf("filter.Range.Unit must be either 'block' or 'time', got '%s'", r.Unit)
		}
	}
	if r.From == nil || r.To == nil {
		return nil
	}
	if *r.From > *r.To {
		return fmt.Errorf("filter.Range.To must be greater than or equal to filter.Range.From")
	}
	return nil
}

func convertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	// sqlite integers are signed
	rng := &logdb.Range{Unit: logdb.Block, To: math.MaxInt64}
	if r.Unit == TimeRangeType {
		rng.Unit = logdb.Time
	}
	if r.From != nil {
		rng.From = min(*r.From, math.MaxInt64)
	}
	if r.To != nil {
		rng.To = min(*r.To, math.MaxInt64)
	}
	return rng
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet,omitempty"`
	Range       *Range           `json:"range,omitempty"`
	Options     *Options         `json:"options,omitempty"`
	Order       logdb.Order      `json:"order,omitempty"`
}

// convertEventFilter expects validated options with a limit set.
func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Range: convertRange(filter.Range),
		Options: &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  *filter.Options.Limit,
		},
		Order: filter.Order,
	}
	for _, criterion := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: criterion.Address,
			Topics:  criterion.topics(),
		})
	}
	return f
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria `json:"criteriaSet,omitempty"`
	Range       *Range              `json:"range,omitempty"`
	Options     *Options            `json:"options,omitempty"`
	Order       logdb.Order         `json:"order,omitempty"`
}

func convertTransferFilter(filter *TransferFilter) *logdb.TransferFilter {
	f := &logdb.TransferFilter{
		Range: convertRange(filter.Range),
		Options: &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  *filter.Options.Limit,
		},
		Order: filter.Order,
	}
	for _, criterion := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.TransferCriteria{
			TxOrigin:  criterion.TxOrigin,
			Sender:    criterion.Sender,
			Recipient: criterion.Recipient,
		})
	}
	return f
}
