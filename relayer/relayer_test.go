// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package relayer

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/genesis"
	"github.com/vechain/cstake/lvldb"
	"github.com/vechain/cstake/state"
	"github.com/vechain/cstake/test/testchain"
)

var oneUnit = big.NewInt(1e18)

type flakyGateway struct {
	Gateway
	fail bool
}

func (g *flakyGateway) PublicDecrypt(st *state.State, h fhe.Handle) (uint64, []byte, error) {
	if g.fail {
		return 0, nil, errors.New("gateway unavailable")
	}
	return g.Gateway.PublicDecrypt(st, h)
}

func newChain(t *testing.T) *testchain.Chain {
	chain, err := testchain.New()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })
	return chain
}

func requestWithdraw(t *testing.T, chain *testchain.Chain, staker cstake.Address, amount *big.Int) {
	require.NoError(t, chain.Stake(staker, amount, 10))
	chain.AddTime(10)
	require.NoError(t, chain.RequestWithdraw(staker))
}

func balance(t *testing.T, chain *testchain.Chain, addr cstake.Address) *big.Int {
	b, err := chain.Runtime().State().GetBalance(addr)
	require.NoError(t, err)
	return b
}

func TestSweep(t *testing.T) {
	chain := newChain(t)
	staker1 := genesis.DevAccounts()[1].Address
	staker2 := genesis.DevAccounts()[2].Address
	caller := genesis.DevAccounts()[9].Address

	r, err := New(chain.Runtime(), chain.LogDB(), chain.Coprocessor(), lvldb.NewMem(), caller)
	require.NoError(t, err)

	n, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	requestWithdraw(t, chain, staker1, oneUnit)
	requestWithdraw(t, chain, staker2, new(big.Int).Mul(oneUnit, big.NewInt(3)))

	n, err = r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	// two settlements committed after the scanned head
	assert.Equal(t, chain.Runtime().BlockNumber()-1, r.Cursor())

	assert.Equal(t, 0, balance(t, chain, staker1).Cmp(genesis.DevBalance))
	assert.Equal(t, 0, balance(t, chain, staker2).Cmp(genesis.DevBalance))

	// nothing left
	n, err = r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSweepRetriesFailures(t *testing.T) {
	chain := newChain(t)
	staker := genesis.DevAccounts()[1].Address
	caller := genesis.DevAccounts()[9].Address
	store := lvldb.NewMem()

	gateway := &flakyGateway{Gateway: chain.Coprocessor(), fail: true}
	r, err := New(chain.Runtime(), chain.LogDB(), gateway, store, caller)
	require.NoError(t, err)

	requestWithdraw(t, chain, staker, oneUnit)
	requestedAt := chain.Runtime().BlockNumber()

	n, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, requestedAt, r.Cursor(), "cursor stays on the failed request")

	// the cursor survives a restart
	gateway.fail = false
	r, err = New(chain.Runtime(), chain.LogDB(), gateway, store, caller)
	require.NoError(t, err)
	assert.Equal(t, requestedAt, r.Cursor())

	n, err = r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, balance(t, chain, staker).Cmp(genesis.DevBalance))
}

func TestSweepSkipsSettled(t *testing.T) {
	chain := newChain(t)
	staker := genesis.DevAccounts()[1].Address
	caller := genesis.DevAccounts()[9].Address

	requestWithdraw(t, chain, staker, oneUnit)

	// settled by somebody else first
	first, err := New(chain.Runtime(), chain.LogDB(), chain.Coprocessor(), lvldb.NewMem(), caller)
	require.NoError(t, err)
	n, err := first.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	second, err := New(chain.Runtime(), chain.LogDB(), chain.Coprocessor(), lvldb.NewMem(), caller)
	require.NoError(t, err)
	n, err = second.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSchedule(t *testing.T) {
	chain := newChain(t)
	staker := genesis.DevAccounts()[1].Address
	caller := genesis.DevAccounts()[9].Address

	r, err := New(chain.Runtime(), chain.LogDB(), chain.Coprocessor(), lvldb.NewMem(), caller)
	require.NoError(t, err)
	assert.Error(t, r.Start("not a schedule"))

	require.NoError(t, r.Start("@every 1s"))
	defer r.Stop()

	requestWithdraw(t, chain, staker, oneUnit)
	assert.Eventually(t, func() bool {
		b, err := chain.Runtime().State().GetBalance(staker)
		return err == nil && b.Cmp(genesis.DevBalance) == 0
	}, 5*time.Second, 50*time.Millisecond)
}
