// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakeclient

import (
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/api"
	"github.com/vechain/cstake/builtin"
	"github.com/vechain/cstake/fhe/coprocessor"
	"github.com/vechain/cstake/genesis"
	"github.com/vechain/cstake/stakeclient/common"
	"github.com/vechain/cstake/test/testchain"
)

func newTestClient(t *testing.T) (*testchain.Chain, *Client) {
	chain, err := testchain.New()
	require.NoError(t, err)

	handler, closeSubs, err := api.New(chain.Runtime(), chain.LogDB(), chain.Coprocessor(), api.Options{
		AllowedOrigins: "*",
		BacktraceLimit: 100,
		LogsLimit:      100,
	})
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
		chain.Close()
	})

	client, err := NewWithWS(ts.URL)
	require.NoError(t, err)
	return chain, client
}

func TestClientLifecycle(t *testing.T) {
	chain, client := newTestClient(t)
	staker := genesis.DevAccounts()[1]
	relayer := genesis.DevAccounts()[2].Address

	sub, err := client.SubscribeEvents(url.Values{"addr": {builtin.Staking.Address.String()}})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	receipt, err := client.Stake(staker.Address, big.NewInt(2e18), 30)
	require.NoError(t, err)
	assert.Len(t, receipt.Events, 1)

	select {
	case ev := <-sub.Events():
		require.NoError(t, ev.Error)
		assert.Equal(t, receipt.TxID, ev.Data.Meta.TxID)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	_, err = client.RequestWithdraw(staker.Address)
	var revert *common.RevertError
	require.True(t, errors.As(err, &revert), "%v", err)
	assert.Equal(t, "WithdrawNotReady", revert.Name)
	assert.Equal(t, http.StatusConflict, revert.StatusCode)
	assert.ErrorIs(t, err, common.ErrNot200Status)

	chain.AddTime(30)
	_, err = client.RequestWithdraw(staker.Address)
	require.NoError(t, err)

	stake, err := client.Stakes(staker.Address)
	require.NoError(t, err)
	assert.Equal(t, "requested", stake.Status)

	_, err = client.Settle(relayer, staker.Address)
	require.NoError(t, err)

	stake, err = client.Stakes(staker.Address)
	require.NoError(t, err)
	assert.Nil(t, stake.Pending)
	assert.False(t, stake.Active)

	balance, err := client.RewardBalance(staker.Address)
	require.NoError(t, err)
	sig, err := coprocessor.SignUserDecryption(balance.Handle, staker.PrivateKey)
	require.NoError(t, err)
	clear, err := client.UserDecrypt(balance.Handle, staker.Address, sig)
	require.NoError(t, err)
	assert.Equal(t, uint64(2e9), uint64(clear.ClearAmount))

	_, err = client.Settle(relayer, staker.Address)
	assert.Error(t, err, "nothing left to settle")
}

func TestClientReads(t *testing.T) {
	_, client := newTestClient(t)

	reward, err := client.Reward(1e18)
	require.NoError(t, err)
	assert.Equal(t, uint64(1e9), uint64(reward.Reward))

	token, err := client.Token()
	require.NoError(t, err)
	assert.Equal(t, builtin.Token.Address, token.Address)

	acc, err := client.Account(genesis.DevAccounts()[0].Address)
	require.NoError(t, err)
	assert.Equal(t, 0, (*big.Int)(&acc.Balance).Cmp(genesis.DevBalance))

	info, err := client.NodeInfo()
	require.NoError(t, err)
	assert.Equal(t, builtin.Staking.Address, info.Contracts.Staking)

	_, err = New("http://127.0.0.1:1").SubscribeEvents(nil)
	assert.Error(t, err)
}

func TestNewWithWSInvalidURL(t *testing.T) {
	_, err := NewWithWS("127.0.0.1:8669")
	assert.Error(t, err)
}
