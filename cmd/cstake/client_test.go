// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/cstake/api"
	"github.com/vechain/cstake/api/staking"
	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/genesis"
	"github.com/vechain/cstake/test/testchain"
)

func newNode(t *testing.T) (*testchain.Chain, string) {
	chain, err := testchain.New()
	require.NoError(t, err)

	handler, closeAPI, err := api.New(chain.Runtime(), chain.LogDB(), chain.Coprocessor(), api.Options{LogsLimit: 100})
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		ts.Close()
		closeAPI()
		chain.Close()
	})
	return chain, ts.URL
}

func runClient(t *testing.T, args ...string) ([]byte, error) {
	var out bytes.Buffer
	app := cli.NewApp()
	app.Name = "cstake"
	app.Writer = &out
	app.ErrWriter = &out
	app.Commands = clientCommands()
	err := app.Run(append([]string{"cstake"}, args...))
	return out.Bytes(), err
}

func TestClientCommands(t *testing.T) {
	chain, url := newNode(t)
	acc := genesis.DevAccounts()[1]
	key := hex.EncodeToString(crypto.FromECDSA(acc.PrivateKey))

	out, err := runClient(t, "stake", "--node", url, "--key", key, "--value", "1000000000000000000", "--duration", "60")
	require.NoError(t, err)
	var receipt utils.Receipt
	require.NoError(t, json.Unmarshal(out, &receipt))
	assert.Len(t, receipt.Events, 1)

	out, err = runClient(t, "status", "--node", url, "--caller", acc.Address.String())
	require.NoError(t, err)
	var stake staking.Stake
	require.NoError(t, json.Unmarshal(out, &stake))
	assert.True(t, stake.Active)
	assert.False(t, stake.CanWithdraw)

	_, err = runClient(t, "request-withdraw", "--node", url, "--key", key)
	assert.ErrorContains(t, err, "WithdrawNotReady")

	chain.AddTime(60)
	_, err = runClient(t, "request-withdraw", "--node", url, "--key", key)
	require.NoError(t, err)

	// anyone may settle a pending withdrawal
	settler := genesis.DevAccounts()[2].Address
	out, err = runClient(t, "finalize", "--node", url, "--caller", settler.String(), "--account", acc.Address.String())
	require.NoError(t, err)
	receipt = utils.Receipt{}
	require.NoError(t, json.Unmarshal(out, &receipt))
	assert.Len(t, receipt.Events, 2)

	_, err = runClient(t, "finalize", "--node", url, "--key", key)
	assert.ErrorContains(t, err, "no pending withdrawal")

	out, err = runClient(t, "balance", "--node", url, "--key", key)
	require.NoError(t, err)
	var balance balanceOutput
	require.NoError(t, json.Unmarshal(out, &balance))
	assert.Equal(t, acc.Address, balance.Account)
	assert.False(t, balance.Handle.IsZero())
	require.NotNil(t, balance.ClearAmount)
	assert.Equal(t, uint64(1e9), uint64(*balance.ClearAmount))

	out, err = runClient(t, "balance", "--node", url, "--caller", acc.Address.String())
	require.NoError(t, err)
	balance = balanceOutput{}
	require.NoError(t, json.Unmarshal(out, &balance))
	assert.Nil(t, balance.ClearAmount)
}

func TestClientArguments(t *testing.T) {
	_, url := newNode(t)

	_, err := runClient(t, "status", "--node", url)
	assert.ErrorContains(t, err, "-caller")

	_, err = runClient(t, "status", "--node", url, "--caller", "0x01")
	assert.Error(t, err)

	_, err = runClient(t, "stake", "--node", url, "--caller", genesis.DevAccounts()[0].Address.String(), "--value", "-1", "--duration", "10")
	assert.ErrorContains(t, err, "value")

	_, err = runClient(t, "balance", "--node", url, "--key", "nothex")
	assert.ErrorContains(t, err, "flag key")
}
