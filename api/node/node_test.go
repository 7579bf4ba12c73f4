// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/api/node"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/test/testchain"
)

func TestNodeInfo(t *testing.T) {
	chain, err := testchain.New()
	require.NoError(t, err)
	defer chain.Close()

	kms := chain.Coprocessor().KMS()
	router := mux.NewRouter()
	node.New(chain.Runtime(), node.Info{
		Version: "1.0.0",
		Network: "devnet",
		KMS:     &node.KMS{Signers: kms.Signers(), Threshold: kms.Threshold()},
	}).Mount(router, "/node")

	ts := httptest.NewServer(router)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/node/info")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var info node.InfoResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&info))
	assert.Equal(t, "devnet", info.Network)
	assert.Equal(t, cstake.StakingAddress, info.Contracts.Staking)
	assert.Equal(t, cstake.TokenAddress, info.Contracts.Token)
	assert.Equal(t, chain.Runtime().BlockNumber(), info.BlockNumber)
	assert.Equal(t, testchain.GenesisTime, info.BlockTime)
	require.NotNil(t, info.KMS)
	assert.Len(t, info.KMS.Signers, 3)
	assert.Equal(t, 2, info.KMS.Threshold)
}
