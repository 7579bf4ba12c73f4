// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/builtin"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/runtime"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := cstake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	b, err := a.rt.State().GetBalance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance:   math.HexOrDecimal256(*b),
		IsBuiltin: builtin.IsBuiltin(addr),
	})
}

func (a *Accounts) handleGetStorage(w http.ResponseWriter, req *http.Request) error {
	addr, err := cstake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	key, err := cstake.ParseBytes32(mux.Vars(req)["key"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "key"))
	}
	value, err := a.rt.State().GetStorage(addr, key)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, map[string]string{"value": value.String()})
}

// handleCallContract runs a read-only call against committed state.
func (a *Accounts) handleCallContract(w http.ResponseWriter, req *http.Request) error {
	addr, err := cstake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var body ContractCall
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	data, err := hexutil.Decode(body.Data)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "data"))
	}
	out := a.rt.Call(&runtime.Clause{To: addr, Data: data}, body.Caller)
	return utils.WriteJSON(w, convertCallOutput(out))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_account").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/storage/{key}").
		Methods(http.MethodGet).
		Name("accounts_get_storage").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStorage))
	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("accounts_call_contract").
		HandlerFunc(utils.WrapHandlerFunc(a.handleCallContract))
}
