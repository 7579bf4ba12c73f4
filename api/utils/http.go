// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/cstake/builtin/reverts"
	"github.com/vechain/cstake/builtin/staking"
	"github.com/vechain/cstake/builtin/token"
	"github.com/vechain/cstake/log"
)

var logger = log.WithContext("pkg", "api-utils")

type httpError struct {
	cause  error
	status int
	body   any
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusNotFound,
	}
}

// RevertBody is the response body of a reverted call.
type RevertBody struct {
	Error    string `json:"error"`
	Selector string `json:"selector,omitempty"`
}

var revertStatus = map[[4]byte]int{}

// stakingStatus maps a staking revert to a response status. Request validation
// failures are bad requests and state conflicts are conflicts; anything else
// the ledger rejects is unprocessable.
func stakingStatus(e *reverts.CustomError) int {
	switch e {
	case staking.ErrInvalidAmount, staking.ErrInvalidDuration, staking.ErrInvalidStaker:
		return http.StatusBadRequest
	case staking.ErrActiveStakeExists,
		staking.ErrNoActiveStake,
		staking.ErrWithdrawAlreadyRequested,
		staking.ErrWithdrawNotReady:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func init() {
	for _, e := range staking.Errors() {
		revertStatus[e.Selector()] = stakingStatus(e)
	}
	for _, e := range token.Errors() {
		revertStatus[e.Selector()] = http.StatusForbidden
	}
}

// VMError converts the execution error of a clause into an http error.
// Custom errors are reported by name and selector; other failures are bad requests.
func VMError(err error) error {
	var ce *reverts.CustomError
	if errors.As(err, &ce) {
		status, ok := revertStatus[ce.Selector()]
		if !ok {
			status = http.StatusBadRequest
		}
		sel := ce.Selector()
		return &httpError{
			cause:  err,
			status: status,
			body:   &RevertBody{Error: ce.Name(), Selector: hexutil.Encode(sel[:])},
		}
	}
	return &httpError{
		cause:  err,
		status: http.StatusBadRequest,
		body:   &RevertBody{Error: err.Error()},
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if !errors.As(err, &he) {
			logger.Debug("internal error", "uri", r.URL.String(), "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		switch {
		case he.body != nil:
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(he.status)
			_ = json.NewEncoder(w).Encode(he.body)
		case he.cause != nil:
			http.Error(w, he.cause.Error(), he.status)
		default:
			w.WriteHeader(he.status)
		}
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any
