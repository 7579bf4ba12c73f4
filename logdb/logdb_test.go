// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/logdb"
)

var (
	addrA  = cstake.BytesToAddress([]byte("a"))
	addrB  = cstake.BytesToAddress([]byte("b"))
	topic0 = cstake.BytesToBytes32([]byte("topic0"))
	topic1 = cstake.BytesToBytes32([]byte("topic1"))
)

func newEvent(blockNum, index uint32, addr cstake.Address, topics ...cstake.Bytes32) *logdb.Event {
	ev := &logdb.Event{
		BlockNumber: blockNum,
		Index:       index,
		BlockTime:   uint64(blockNum) * 10,
		TxID:        cstake.BytesToBytes32([]byte{byte(blockNum)}),
		TxOrigin:    cstake.BytesToAddress([]byte("origin")),
		Address:     addr,
		Data:        []byte{byte(index)},
	}
	for i := range topics {
		ev.Topics[i] = &topics[i]
	}
	return ev
}

func writeBlocks(t *testing.T, db *logdb.LogDB, n int) {
	w := db.NewWriter()
	for i := 1; i <= n; i++ {
		events := []*logdb.Event{
			newEvent(uint32(i), 0, addrA, topic0),
			newEvent(uint32(i), 1, addrB, topic0, topic1),
		}
		transfers := []*logdb.Transfer{{
			BlockNumber: uint32(i),
			BlockTime:   uint64(i) * 10,
			TxID:        cstake.BytesToBytes32([]byte{byte(i)}),
			Sender:      addrA,
			Recipient:   addrB,
			Amount:      big.NewInt(int64(i)),
		}}
		require.NoError(t, w.Write(events, transfers))
	}
	assert.Equal(t, n*3, w.UncommittedCount())
	require.NoError(t, w.Commit())
	assert.Equal(t, 0, w.UncommittedCount())
}

func TestFilterEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	writeBlocks(t, db, 10)
	ctx := context.Background()

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 20)
	assert.Equal(t, newEvent(1, 0, addrA, topic0), all[0])

	byAddr, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &addrB}},
	})
	require.NoError(t, err)
	assert.Len(t, byAddr, 10)

	byTopic, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*cstake.Bytes32{nil, &topic1}}},
		Range:       &logdb.Range{Unit: logdb.Block, From: 3, To: 5},
	})
	require.NoError(t, err)
	require.Len(t, byTopic, 3)
	assert.Equal(t, uint32(3), byTopic[0].BlockNumber)

	byTime, err := db.FilterEvents(ctx, &logdb.EventFilter{
		Range:   &logdb.Range{Unit: logdb.Time, From: 50, To: 60},
		Order:   logdb.DESC,
		Options: &logdb.Options{Offset: 1, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, byTime, 2)
	assert.Equal(t, uint32(6), byTime[0].BlockNumber)
	assert.Equal(t, uint32(0), byTime[0].Index)
	assert.Equal(t, uint32(5), byTime[1].BlockNumber)

	either, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &addrA}, {Topics: [5]*cstake.Bytes32{nil, &topic1}}},
		Range:       &logdb.Range{Unit: logdb.Block, From: 1, To: 1},
	})
	require.NoError(t, err)
	assert.Len(t, either, 2)

	newest, err := db.NewestBlockNumber()
	require.NoError(t, err)
	assert.Equal(t, uint32(10), newest)
}

func TestFilterTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	newest, err := db.NewestBlockNumber()
	require.NoError(t, err)
	assert.Zero(t, newest)

	writeBlocks(t, db, 4)

	txID := cstake.BytesToBytes32([]byte{2})
	got, err := db.FilterTransfers(context.Background(), &logdb.TransferFilter{TxID: &txID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, big.NewInt(2), got[0].Amount)
	assert.Equal(t, addrB, got[0].Recipient)

	got, err = db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Recipient: &addrA}},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriterRollback(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	w := db.NewWriter()
	require.NoError(t, w.Write([]*logdb.Event{newEvent(1, 0, addrA)}, nil))
	require.NoError(t, w.Rollback())

	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}
