// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client to interact with the confidential staking ledger.
// It offers methods to stake, withdraw, read positions and rewards, decrypt handles and filter logs.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/cstake/api/accounts"
	"github.com/vechain/cstake/api/fhe"
	"github.com/vechain/cstake/api/logs"
	"github.com/vechain/cstake/api/node"
	"github.com/vechain/cstake/api/staking"
	"github.com/vechain/cstake/api/tokens"
	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/cstake"
)

// Client represents the HTTP client for interacting with the ledger.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

func decode[T any](body []byte, what string) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return &v, nil
}

// Stake deposits value from caller, locked for lockDuration seconds.
func (c *Client) Stake(caller cstake.Address, value *big.Int, lockDuration uint64) (*utils.Receipt, error) {
	body, err := c.httpPOST(c.url+"/staking/stake", &staking.StakeRequest{
		Caller:       caller,
		Value:        (*math.HexOrDecimal256)(value),
		LockDuration: lockDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to stake - %w", err)
	}
	return decode[utils.Receipt](body, "receipt")
}

// RequestWithdraw requests the withdrawal of the caller's position.
func (c *Client) RequestWithdraw(caller cstake.Address) (*utils.Receipt, error) {
	body, err := c.httpPOST(c.url+"/staking/withdrawals", &staking.WithdrawRequest{Caller: caller})
	if err != nil {
		return nil, fmt.Errorf("unable to request withdraw - %w", err)
	}
	return decode[utils.Receipt](body, "receipt")
}

// FinalizeWithdraw settles the pending withdrawal of handle with a decryption result.
func (c *Client) FinalizeWithdraw(caller cstake.Address, handle cstake.Bytes32, clearAmount uint64, proof []byte) (*utils.Receipt, error) {
	body, err := c.httpPOST(c.url+"/staking/withdrawals/finalize", &staking.FinalizeRequest{
		Caller:      caller,
		Handle:      handle,
		ClearAmount: math.HexOrDecimal64(clearAmount),
		Proof:       proof,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to finalize withdraw - %w", err)
	}
	return decode[utils.Receipt](body, "receipt")
}

// GetStake retrieves the position of account.
func (c *Client) GetStake(account cstake.Address) (*staking.Stake, error) {
	body, err := c.httpGET(c.url + "/staking/stakes/" + account.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stake - %w", err)
	}
	return decode[staking.Stake](body, "stake")
}

// GetReward previews the reward of a stake of amount.
func (c *Client) GetReward(amount uint64) (*staking.Reward, error) {
	body, err := c.httpGET(fmt.Sprintf("%s/staking/reward?amount=%d", c.url, amount))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve reward - %w", err)
	}
	return decode[staking.Reward](body, "reward")
}

// GetToken retrieves the reward token metadata.
func (c *Client) GetToken() (*tokens.Metadata, error) {
	body, err := c.httpGET(c.url + "/tokens/reward")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token - %w", err)
	}
	return decode[tokens.Metadata](body, "token")
}

// GetRewardBalance retrieves the encrypted reward balance of account.
func (c *Client) GetRewardBalance(account cstake.Address) (*tokens.Balance, error) {
	body, err := c.httpGET(c.url + "/tokens/reward/balances/" + account.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve reward balance - %w", err)
	}
	return decode[tokens.Balance](body, "balance")
}

// PublicDecrypt decrypts a publicly decryptable handle and returns the clear value with its proof.
func (c *Client) PublicDecrypt(handle cstake.Bytes32) (*fhe.PublicDecryptResponse, error) {
	body, err := c.httpPOST(c.url+"/fhe/public-decrypt", &fhe.PublicDecryptRequest{Handle: handle})
	if err != nil {
		return nil, fmt.Errorf("unable to public decrypt - %w", err)
	}
	return decode[fhe.PublicDecryptResponse](body, "decryption")
}

// UserDecrypt decrypts a handle for user, who proves ownership with sig.
func (c *Client) UserDecrypt(handle cstake.Bytes32, user cstake.Address, sig []byte) (*fhe.UserDecryptResponse, error) {
	body, err := c.httpPOST(c.url+"/fhe/user-decrypt", &fhe.UserDecryptRequest{
		Handle:    handle,
		User:      user,
		Signature: sig,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to user decrypt - %w", err)
	}
	return decode[fhe.UserDecryptResponse](body, "decryption")
}

// GetAccount retrieves the native balance of addr.
func (c *Client) GetAccount(addr cstake.Address) (*accounts.Account, error) {
	body, err := c.httpGET(c.url + "/accounts/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}
	return decode[accounts.Account](body, "account")
}

// CallContract performs a read-only call.
func (c *Client) CallContract(to cstake.Address, caller cstake.Address, data []byte) (*accounts.CallOutput, error) {
	body, err := c.httpPOST(c.url+"/accounts/"+to.String(), &accounts.ContractCall{
		Data:   hexutil.Encode(data),
		Caller: caller,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to call contract - %w", err)
	}
	return decode[accounts.CallOutput](body, "call output")
}

// FilterEvents filters stored events.
func (c *Client) FilterEvents(req *logs.EventFilter) ([]*logs.FilteredEvent, error) {
	body, err := c.httpPOST(c.url+"/logs/event", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}
	var events []*logs.FilteredEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}
	return events, nil
}

// FilterTransfers filters stored native transfers.
func (c *Client) FilterTransfers(req *logs.TransferFilter) ([]*logs.FilteredTransfer, error) {
	body, err := c.httpPOST(c.url+"/logs/transfer", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter transfers - %w", err)
	}
	var transfers []*logs.FilteredTransfer
	if err := json.Unmarshal(body, &transfers); err != nil {
		return nil, fmt.Errorf("unable to unmarshal transfers - %w", err)
	}
	return transfers, nil
}

// GetNodeInfo retrieves the node description.
func (c *Client) GetNodeInfo() (*node.InfoResponse, error) {
	body, err := c.httpGET(c.url + "/node/info")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve node info - %w", err)
	}
	return decode[node.InfoResponse](body, "node info")
}

// RawHTTPPost sends a raw HTTP POST request to the specified URL with the provided data.
func (c *Client) RawHTTPPost(url string, calldata any) ([]byte, int, error) {
	data, ok := calldata.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(calldata); err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}
	return c.rawHTTPRequest(http.MethodPost, c.url+url, bytes.NewBuffer(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified URL.
func (c *Client) RawHTTPGet(url string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+url, nil)
}
