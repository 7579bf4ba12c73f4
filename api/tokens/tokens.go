// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/builtin"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/runtime"
)

// Metadata describes the reward token.
type Metadata struct {
	Address           cstake.Address `json:"address"`
	Name              string         `json:"name"`
	Symbol            string         `json:"symbol"`
	Decimals          uint8          `json:"decimals"`
	Owner             cstake.Address `json:"owner"`
	Minter            cstake.Address `json:"minter"`
	TotalSupplyHandle cstake.Bytes32 `json:"totalSupplyHandle"`
}

// Balance is the encrypted balance of an account.
type Balance struct {
	Account cstake.Address `json:"account"`
	Handle  cstake.Bytes32 `json:"handle"`
}

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

func (t *Tokens) handleGetReward(w http.ResponseWriter, _ *http.Request) error {
	st := t.rt.State()
	token := builtin.Token.Native(st, t.rt.FHE().Bind(st))

	owner, err := token.Owner()
	if err != nil {
		return err
	}
	minter, err := token.Minter()
	if err != nil {
		return err
	}
	supply, err := token.ConfidentialTotalSupply()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Metadata{
		Address:           token.Address(),
		Name:              token.Name(),
		Symbol:            token.Symbol(),
		Decimals:          token.Decimals(),
		Owner:             owner,
		Minter:            minter,
		TotalSupplyHandle: supply,
	})
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	account, err := cstake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	st := t.rt.State()
	h, err := builtin.Token.Native(st, t.rt.FHE().Bind(st)).ConfidentialBalanceOf(account)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Account: account, Handle: h})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/reward").
		Methods(http.MethodGet).
		Name("tokens_get_reward").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetReward))
	sub.Path("/reward/balances/{address}").
		Methods(http.MethodGet).
		Name("tokens_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
}
