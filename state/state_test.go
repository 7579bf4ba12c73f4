// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/kv"
	"github.com/vechain/cstake/lvldb"
)

func TestStateReadWrite(t *testing.T) {
	db := lvldb.NewMem()
	st := New(db)

	addr := cstake.BytesToAddress([]byte("account1"))
	storageKey := cstake.BytesToBytes32([]byte("storageKey"))

	assert.False(t, M(st.Exists(addr))[0].(bool))
	assert.Equal(t, M(st.GetBalance(addr))[0], &big.Int{})
	assert.Equal(t, M(st.GetStorage(addr, storageKey))[0], cstake.Bytes32{})

	// make account not empty
	require.NoError(t, st.SetBalance(addr, big.NewInt(1)))
	assert.Equal(t, M(st.GetBalance(addr))[0], big.NewInt(1))
	assert.True(t, M(st.Exists(addr))[0].(bool))

	st.SetStorage(addr, storageKey, cstake.BytesToBytes32([]byte("storageValue")))
	assert.Equal(t, M(st.GetStorage(addr, storageKey))[0], cstake.BytesToBytes32([]byte("storageValue")))

	assert.Error(t, st.SetBalance(addr, big.NewInt(-1)))
}

func TestStateRevert(t *testing.T) {
	db := lvldb.NewMem()
	st := New(db)

	addr := cstake.BytesToAddress([]byte("account1"))
	storageKey := cstake.BytesToBytes32([]byte("storageKey"))

	values := []struct {
		balance *big.Int
		storage cstake.Bytes32
	}{
		{big.NewInt(1), cstake.BytesToBytes32([]byte("v1"))},
		{big.NewInt(2), cstake.BytesToBytes32([]byte("v2"))},
		{big.NewInt(3), cstake.BytesToBytes32([]byte("v3"))},
	}

	var chk []int
	for _, v := range values {
		chk = append(chk, st.NewCheckpoint())
		st.SetBalance(addr, v.balance)
		st.SetStorage(addr, storageKey, v.storage)
	}

	for i := range chk {
		i = len(chk) - i - 1
		assert.Equal(t, M(st.GetBalance(addr))[0], values[i].balance)
		assert.Equal(t, M(st.GetStorage(addr, storageKey))[0], values[i].storage)
		st.RevertTo(chk[i])
	}
	assert.Equal(t, M(st.GetBalance(addr))[0], &big.Int{})
	assert.Equal(t, M(st.GetStorage(addr, storageKey))[0], cstake.Bytes32{})

	// revert to checkpoint 0 of a fresh state
	st = New(db)
	chk0 := st.NewCheckpoint()
	st.SetBalance(addr, big.NewInt(1))
	st.RevertTo(chk0)
	assert.Equal(t, 0, st.Stage().Len())
}

func TestStageCommit(t *testing.T) {
	db := lvldb.NewMem()
	st := New(db)

	addr := cstake.BytesToAddress([]byte("acc1"))
	key := cstake.BytesToBytes32([]byte("key"))

	require.NoError(t, st.SetBalance(addr, big.NewInt(10)))
	st.SetStorage(addr, key, cstake.BytesToBytes32([]byte("value")))
	st.SetBalance(addr, big.NewInt(20))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit())

	st = NewStater(db).NewState()
	assert.Equal(t, M(st.GetBalance(addr))[0], big.NewInt(20))
	assert.Equal(t, M(st.GetStorage(addr, key))[0], cstake.BytesToBytes32([]byte("value")))

	// clear them
	st.SetBalance(addr, &big.Int{})
	st.SetStorage(addr, key, cstake.Bytes32{})
	require.NoError(t, st.Stage().Commit())

	st = New(db)
	assert.False(t, M(st.Exists(addr))[0].(bool))
	assert.Equal(t, M(st.GetStorage(addr, key))[0], cstake.Bytes32{})

	iter := db.Iterate(kvRangeAll())
	defer iter.Release()
	assert.False(t, iter.Next(), "empty account and storage should be deleted")
}

func TestEncodeDecodeStorage(t *testing.T) {
	st := New(lvldb.NewMem())

	addr := cstake.BytesToAddress([]byte("addr"))
	key := cstake.BytesToBytes32([]byte("key"))

	type pair struct {
		A uint64
		B []byte
	}

	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&pair{7, []byte("x")})
	}))

	var got pair
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, pair{7, []byte("x")}, got)

	// rlp list values read back as hash of raw
	raw, _ := st.GetRawStorage(addr, key)
	assert.Equal(t, M(st.GetStorage(addr, key))[0], cstake.Blake2b(raw))

	encErr := errors.New("enc")
	err := st.EncodeStorage(addr, key, func() ([]byte, error) { return nil, encErr })
	assert.ErrorIs(t, err, encErr)

	decErr := errors.New("dec")
	err = st.DecodeStorage(addr, key, func([]byte) error { return decErr })
	assert.ErrorIs(t, err, decErr)
}

func M(a ...any) []any {
	return a
}

func kvRangeAll() kv.Range {
	return kv.Range{}
}
