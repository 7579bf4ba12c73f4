// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakeclient is a client of the ledger REST API and event stream.
package stakeclient

import (
	"fmt"
	"math/big"
	"net/url"

	"github.com/vechain/cstake/api/accounts"
	"github.com/vechain/cstake/api/fhe"
	"github.com/vechain/cstake/api/logs"
	"github.com/vechain/cstake/api/node"
	"github.com/vechain/cstake/api/staking"
	"github.com/vechain/cstake/api/tokens"
	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/stakeclient/httpclient"
	"github.com/vechain/cstake/stakeclient/wsclient"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

func (c *Client) Stake(caller cstake.Address, value *big.Int, lockDuration uint64) (*utils.Receipt, error) {
	return c.httpConn.Stake(caller, value, lockDuration)
}

func (c *Client) RequestWithdraw(caller cstake.Address) (*utils.Receipt, error) {
	return c.httpConn.RequestWithdraw(caller)
}

func (c *Client) FinalizeWithdraw(caller cstake.Address, handle cstake.Bytes32, clearAmount uint64, proof []byte) (*utils.Receipt, error) {
	return c.httpConn.FinalizeWithdraw(caller, handle, clearAmount, proof)
}

// Settle finalizes the pending withdrawal of account on behalf of caller,
// fetching the public decryption of the pending handle first.
func (c *Client) Settle(caller, account cstake.Address) (*utils.Receipt, error) {
	stake, err := c.httpConn.GetStake(account)
	if err != nil {
		return nil, err
	}
	if stake.Pending == nil {
		return nil, fmt.Errorf("no pending withdrawal for %v", account)
	}
	dec, err := c.httpConn.PublicDecrypt(stake.Pending.Handle)
	if err != nil {
		return nil, err
	}
	return c.httpConn.FinalizeWithdraw(caller, stake.Pending.Handle, uint64(dec.ClearAmount), dec.Proof)
}

func (c *Client) Stakes(account cstake.Address) (*staking.Stake, error) {
	return c.httpConn.GetStake(account)
}

func (c *Client) Reward(amount uint64) (*staking.Reward, error) {
	return c.httpConn.GetReward(amount)
}

func (c *Client) Token() (*tokens.Metadata, error) {
	return c.httpConn.GetToken()
}

func (c *Client) RewardBalance(account cstake.Address) (*tokens.Balance, error) {
	return c.httpConn.GetRewardBalance(account)
}

func (c *Client) PublicDecrypt(handle cstake.Bytes32) (*fhe.PublicDecryptResponse, error) {
	return c.httpConn.PublicDecrypt(handle)
}

func (c *Client) UserDecrypt(handle cstake.Bytes32, user cstake.Address, sig []byte) (*fhe.UserDecryptResponse, error) {
	return c.httpConn.UserDecrypt(handle, user, sig)
}

func (c *Client) Account(addr cstake.Address) (*accounts.Account, error) {
	return c.httpConn.GetAccount(addr)
}

func (c *Client) FilterEvents(req *logs.EventFilter) ([]*logs.FilteredEvent, error) {
	return c.httpConn.FilterEvents(req)
}

func (c *Client) FilterTransfers(req *logs.TransferFilter) ([]*logs.FilteredTransfer, error) {
	return c.httpConn.FilterTransfers(req)
}

func (c *Client) NodeInfo() (*node.InfoResponse, error) {
	return c.httpConn.GetNodeInfo()
}

// SubscribeEvents opens an event stream; the client must have been created with NewWithWS.
func (c *Client) SubscribeEvents(query url.Values) (*wsclient.Subscription[logs.FilteredEvent], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket typed client")
	}
	return c.wsConn.SubscribeEvents(query)
}
