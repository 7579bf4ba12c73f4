// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/builtin"
	"github.com/vechain/cstake/builtin/staking"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/runtime"
)

type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

func (s *Staking) execute(caller cstake.Address, value *big.Int, method string, args ...any) (*utils.Receipt, error) {
	m, ok := builtin.Staking.ABI.MethodByName(method)
	if !ok {
		return nil, errors.Errorf("method %v not found", method)
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "encode input"))
	}
	return utils.Execute(s.rt, &runtime.Clause{To: builtin.Staking.Address, Value: value, Data: data}, caller)
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Value == nil {
		return utils.BadRequest(errors.New("body.value: required"))
	}
	receipt, err := s.execute(body.Caller, (*big.Int)(body.Value), "stake", body.LockDuration)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (s *Staking) handleRequestWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := s.execute(body.Caller, nil, "requestWithdraw")
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (s *Staking) handleFinalize(w http.ResponseWriter, req *http.Request) error {
	var body FinalizeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := s.execute(body.Caller, nil, "finalizeWithdraw", body.Handle, uint64(body.ClearAmount), []byte(body.Proof))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	account, err := cstake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	st := s.rt.State()
	ledger := builtin.Staking.Native(st, s.rt.FHE().Bind(st), nil, nil)

	position, err := ledger.GetStake(account)
	if err != nil {
		return err
	}
	canWithdraw, err := ledger.CanWithdraw(account, s.rt.Now())
	if err != nil {
		return err
	}
	pending, err := ledger.GetPendingWithdrawal(account)
	if err != nil {
		return err
	}

	result := &Stake{
		Account:           account,
		EncryptedAmount:   position.EncryptedAmount,
		UnlockTime:        position.UnlockTime,
		Active:            position.Active,
		WithdrawRequested: position.WithdrawRequested,
		Status:            position.Status().String(),
		CanWithdraw:       canWithdraw,
	}
	if pending != nil {
		result.Pending = &Pending{Handle: pending.Handle, RequestedAt: pending.RequestedAt}
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleReward(w http.ResponseWriter, req *http.Request) error {
	amount, err := strconv.ParseUint(req.URL.Query().Get("amount"), 0, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	reward, ok := staking.ComputeReward(amount)
	if !ok {
		return utils.VMError(staking.ErrRewardOverflow)
	}
	return utils.WriteJSON(w, &Reward{
		Amount: math.HexOrDecimal64(amount),
		Reward: math.HexOrDecimal64(reward),
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("staking_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/withdrawals").
		Methods(http.MethodPost).
		Name("staking_request_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRequestWithdraw))
	sub.Path("/withdrawals/finalize").
		Methods(http.MethodPost).
		Name("staking_finalize_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleFinalize))
	sub.Path("/stakes/{address}").
		Methods(http.MethodGet).
		Name("staking_get_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/reward").
		Methods(http.MethodGet).
		Name("staking_get_reward").
		HandlerFunc(utils.WrapHandlerFunc(s.handleReward))
}
