// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"math"

	"github.com/vechain/cstake/api/logs"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/logdb"
)

// EventFilter selects events by contract address and topics. Nil fields match anything.
type EventFilter struct {
	Address *cstake.Address
	Topics  [5]*cstake.Bytes32
}

// Match returns whether the event satisfies the filter.
func (f *EventFilter) Match(ev *logdb.Event) bool {
	if f.Address != nil && *f.Address != ev.Address {
		return false
	}
	for i, topic := range f.Topics {
		if topic == nil {
			continue
		}
		if ev.Topics[i] == nil || *ev.Topics[i] != *topic {
			return false
		}
	}
	return true
}

// eventReader reads events after a block position, first from the log store then from commits.
type eventReader struct {
	db     *logdb.LogDB
	filter *EventFilter
	pos    uint32
}

func newEventReader(db *logdb.LogDB, filter *EventFilter, pos uint32) *eventReader {
	return &eventReader{db, filter, pos}
}

// Backfill returns stored events in blocks (pos, upTo] and advances the position.
func (r *eventReader) Backfill(ctx context.Context, upTo uint32) ([]*logs.FilteredEvent, error) {
	if upTo <= r.pos {
		return nil, nil
	}
	events, err := r.db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: r.filter.Address, Topics: r.filter.Topics}},
		Range:       &logdb.Range{Unit: logdb.Block, From: uint64(r.pos) + 1, To: uint64(upTo)},
		Options:     &logdb.Options{Limit: math.MaxInt32},
	})
	if err != nil {
		return nil, err
	}
	r.pos = upTo
	msgs := make([]*logs.FilteredEvent, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, logs.ConvertEvent(ev))
	}
	return msgs, nil
}

// Read returns matched events of a commit not yet delivered.
func (r *eventReader) Read(events []*logdb.Event, number uint32) []*logs.FilteredEvent {
	if number <= r.pos {
		return nil
	}
	r.pos = number
	var msgs []*logs.FilteredEvent
	for _, ev := range events {
		if r.filter.Match(ev) {
			msgs = append(msgs, logs.ConvertEvent(ev))
		}
	}
	return msgs
}
