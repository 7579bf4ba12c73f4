// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/fhe/fhetest"
	"github.com/vechain/cstake/lvldb"
	"github.com/vechain/cstake/state"
)

var (
	owner  = cstake.BytesToAddress([]byte("owner"))
	minter = cstake.BytesToAddress([]byte("minter"))
	holder = cstake.BytesToAddress([]byte("holder"))
)

func newToken(t *testing.T) (*Token, *fhetest.Service) {
	svc := fhetest.New()
	tk := New(cstake.TokenAddress, state.New(lvldb.NewMem()), svc)
	tk.Initialize(owner)
	_, err := tk.SetMinter(owner, minter)
	require.NoError(t, err)
	return tk, svc
}

func TestMetadata(t *testing.T) {
	tk, _ := newToken(t)
	assert.Equal(t, "RewardCoin", tk.Name())
	assert.Equal(t, "RWD", tk.Symbol())
	assert.Equal(t, uint8(6), tk.Decimals())

	o, err := tk.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, o)
	m, err := tk.Minter()
	require.NoError(t, err)
	assert.Equal(t, minter, m)
}

func TestSetMinter(t *testing.T) {
	tk, _ := newToken(t)

	_, err := tk.SetMinter(holder, holder)
	assert.ErrorIs(t, err, ErrUnauthorizedOwner)
	_, err = tk.SetMinter(minter, holder)
	assert.ErrorIs(t, err, ErrUnauthorizedOwner)

	prev, err := tk.SetMinter(owner, holder)
	require.NoError(t, err)
	assert.Equal(t, minter, prev)

	_, err = tk.Mint(minter, holder, 1)
	assert.ErrorIs(t, err, ErrUnauthorizedMinter)
	_, err = tk.Mint(holder, holder, 1)
	assert.NoError(t, err)
}

func TestMint(t *testing.T) {
	tk, svc := newToken(t)

	bal, err := tk.ConfidentialBalanceOf(holder)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	_, err = tk.Mint(holder, holder, 5)
	assert.ErrorIs(t, err, ErrUnauthorizedMinter)

	m1, err := tk.Mint(minter, holder, 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), fhetest.Unwrap(m1.Amount))
	assert.Equal(t, uint64(1_000), fhetest.Unwrap(m1.Balance))

	m2, err := tk.Mint(minter, holder, 250)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_250), fhetest.Unwrap(m2.Balance))

	bal, err = tk.ConfidentialBalanceOf(holder)
	require.NoError(t, err)
	assert.Equal(t, m2.Balance, bal)
	assert.Equal(t, fhe.TypeUint64, fhe.TypeOf(bal))

	for _, who := range []cstake.Address{holder, cstake.TokenAddress} {
		ok, _ := svc.IsAllowed(bal, who)
		assert.True(t, ok, "balance readable by %v", who)
	}

	_, err = tk.Mint(minter, minter, 50)
	require.NoError(t, err)
	supply, err := tk.ConfidentialTotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_300), fhetest.Unwrap(supply))
}

func TestMintZeroMinterRejected(t *testing.T) {
	tk := New(cstake.TokenAddress, state.New(lvldb.NewMem()), fhetest.New())
	tk.Initialize(owner)
	_, err := tk.Mint(cstake.Address{}, holder, 1)
	assert.ErrorIs(t, err, ErrUnauthorizedMinter)
}

func TestMintOverflow(t *testing.T) {
	tk, _ := newToken(t)
	_, err := tk.Mint(minter, holder, math.MaxUint64)
	require.NoError(t, err)
	_, err = tk.Mint(minter, holder, 1)
	assert.ErrorIs(t, err, fhe.ErrArithmeticOverflow)
}
