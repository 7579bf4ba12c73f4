// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/builtin/staking"
	"github.com/vechain/cstake/builtin/token"
)

func vmStatus(t *testing.T, err error) int {
	var he *httpError
	require.True(t, errors.As(VMError(err), &he))
	return he.status
}

func TestRevertStatusCoversAllErrors(t *testing.T) {
	for _, e := range staking.Errors() {
		_, ok := revertStatus[e.Selector()]
		assert.True(t, ok, "staking error %s has no status", e.Name())
	}
	for _, e := range token.Errors() {
		assert.Equal(t, http.StatusForbidden, vmStatus(t, e), e.Name())
	}
}

func TestVMErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{staking.ErrInvalidAmount, http.StatusBadRequest},
		{staking.ErrInvalidDuration, http.StatusBadRequest},
		{staking.ErrInvalidStaker, http.StatusBadRequest},
		{staking.ErrActiveStakeExists, http.StatusConflict},
		{staking.ErrNoActiveStake, http.StatusConflict},
		{staking.ErrWithdrawAlreadyRequested, http.StatusConflict},
		{staking.ErrWithdrawNotReady, http.StatusConflict},
		{staking.ErrInvalidWithdrawRequest, http.StatusUnprocessableEntity},
		{staking.ErrInvalidDecryptionProof, http.StatusUnprocessableEntity},
		{staking.ErrRewardOverflow, http.StatusUnprocessableEntity},
		{staking.ErrTransferFailed, http.StatusUnprocessableEntity},
		{pkgerrors.Wrap(staking.ErrNoActiveStake, "request withdraw"), http.StatusConflict},
		{errors.New("out of gas"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, vmStatus(t, tt.err), tt.err.Error())
	}
}

func TestVMErrorBody(t *testing.T) {
	h := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return VMError(staking.ErrWithdrawNotReady)
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/staking/withdraw/request", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body RevertBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	sel := staking.ErrWithdrawNotReady.Selector()
	assert.Equal(t, "WithdrawNotReady", body.Error)
	assert.Len(t, body.Selector, 2+2*len(sel))
}
