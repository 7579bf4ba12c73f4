// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fhe

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/runtime"
	"github.com/vechain/cstake/state"
)

// Gateway decrypts handles for authorized parties.
type Gateway interface {
	PublicDecrypt(st *state.State, h fhe.Handle) (uint64, []byte, error)
	UserDecrypt(st *state.State, h fhe.Handle, user cstake.Address, sig []byte) (uint64, error)
}

type PublicDecryptRequest struct {
	Handle cstake.Bytes32 `json:"handle"`
}

type PublicDecryptResponse struct {
	Handle      cstake.Bytes32      `json:"handle"`
	ClearAmount math.HexOrDecimal64 `json:"clearAmount"`
	Proof       hexutil.Bytes       `json:"proof"`
}

type UserDecryptRequest struct {
	Handle    cstake.Bytes32 `json:"handle"`
	User      cstake.Address `json:"user"`
	Signature hexutil.Bytes  `json:"signature"`
}

type UserDecryptResponse struct {
	Handle      cstake.Bytes32      `json:"handle"`
	ClearAmount math.HexOrDecimal64 `json:"clearAmount"`
}

type FHE struct {
	rt      *runtime.Runtime
	gateway Gateway
}

func New(rt *runtime.Runtime, gateway Gateway) *FHE {
	return &FHE{rt, gateway}
}

func convertError(err error) error {
	switch {
	case errors.Is(err, fhe.ErrNotPubliclyDecryptable),
		errors.Is(err, fhe.ErrNotAllowed),
		errors.Is(err, fhe.ErrInvalidSignature):
		return utils.Forbidden(err)
	case errors.Is(err, fhe.ErrUnknownHandle),
		errors.Is(err, fhe.ErrTypeMismatch):
		return utils.BadRequest(err)
	}
	return err
}

func (f *FHE) handlePublicDecrypt(w http.ResponseWriter, req *http.Request) error {
	var body PublicDecryptRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	clear, proof, err := f.gateway.PublicDecrypt(f.rt.State(), body.Handle)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &PublicDecryptResponse{
		Handle:      body.Handle,
		ClearAmount: math.HexOrDecimal64(clear),
		Proof:       proof,
	})
}

func (f *FHE) handleUserDecrypt(w http.ResponseWriter, req *http.Request) error {
	var body UserDecryptRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	clear, err := f.gateway.UserDecrypt(f.rt.State(), body.Handle, body.User, body.Signature)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &UserDecryptResponse{
		Handle:      body.Handle,
		ClearAmount: math.HexOrDecimal64(clear),
	})
}

func (f *FHE) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/public-decrypt").
		Methods(http.MethodPost).
		Name("fhe_public_decrypt").
		HandlerFunc(utils.WrapHandlerFunc(f.handlePublicDecrypt))
	sub.Path("/user-decrypt").
		Methods(http.MethodPost).
		Name("fhe_user_decrypt").
		HandlerFunc(utils.WrapHandlerFunc(f.handleUserDecrypt))
}
