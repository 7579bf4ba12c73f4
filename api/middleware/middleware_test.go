// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pborman/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/log"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRequestID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(ok))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rr.Header().Get(RequestIDHeader)
	assert.NotNil(t, uuid.Parse(generated))

	id := uuid.NewRandom().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, id, rr.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	var buf bytes.Buffer
	rl, err := NewRateLimiter(0.001, 2, log.New(log.NewJSONHandler(&buf, log.LevelDebug)))
	require.NoError(t, err)
	handler := rl.Handler(http.HandlerFunc(ok))

	post := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/staking/stake", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, post("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, post("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, post("10.0.0.2:1000"), "other clients unaffected")

	req := httptest.NewRequest(http.MethodGet, "/staking/reward?amount=1", nil)
	req.RemoteAddr = "10.0.0.1:1003"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "reads are not limited")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "one rejection logged")
	assert.Equal(t, "rate limit exceeded", rec["msg"])
	assert.Equal(t, "10.0.0.1", rec["client"])
	assert.Equal(t, "/staking/stake", rec["path"])
}
