// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/log"
)

const stakeBody = `{"caller":"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed","value":"0xde0b6b3a7640000","lockDuration":60}`

// records decodes the JSON lines written by the capture logger.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		out = append(out, rec)
	}
	return out
}

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// handlers must still see the body
		body, _ := io.ReadAll(r.Body)
		if string(body) != stakeBody {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		time.Sleep(delay)
		if status != http.StatusOK {
			w.WriteHeader(status)
		}
		w.Write([]byte(`{}`))
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		slow      time.Duration
		log5xx    bool
		status    int
		shouldLog bool
	}{
		{"enabled", respond(http.StatusOK, 0), true, 0, false, http.StatusOK, true},
		{"disabled", respond(http.StatusOK, 0), false, 0, false, http.StatusOK, false},
		{"slow request", respond(http.StatusOK, 15*time.Millisecond), false, 10 * time.Millisecond, false, http.StatusOK, true},
		{"fast request", respond(http.StatusOK, 0), false, time.Second, false, http.StatusOK, false},
		{"internal error", respond(http.StatusInternalServerError, 0), false, 0, true, http.StatusInternalServerError, true},
		{"unavailable", respond(http.StatusServiceUnavailable, 0), false, 0, true, http.StatusServiceUnavailable, true},
		{"5xx not logged", respond(http.StatusInternalServerError, 0), false, 0, false, http.StatusInternalServerError, false},
		{"revert not logged", respond(http.StatusConflict, 0), false, 0, true, http.StatusConflict, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.New(log.NewJSONHandler(&buf, log.LevelTrace))

			var enabled atomic.Bool
			enabled.Store(tt.enabled)
			handler := RequestID(RequestLoggerMiddleware(logger, &enabled, tt.slow, tt.log5xx)(tt.handler))

			req := httptest.NewRequest(http.MethodPost, "http://localhost:8669/staking/stake", strings.NewReader(stakeBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)

			recs := records(t, &buf)
			if !tt.shouldLog {
				assert.Empty(t, recs)
				return
			}
			require.Len(t, recs, 1)
			rec := recs[0]
			assert.Equal(t, "API Request", rec["msg"])
			assert.Equal(t, "http://localhost:8669/staking/stake", rec["URI"])
			assert.Equal(t, http.MethodPost, rec["Method"])
			assert.Equal(t, float64(tt.status), rec["Status"])
			assert.Equal(t, stakeBody, rec["Body"])
			assert.Equal(t, rr.Header().Get(RequestIDHeader), rec["RequestID"])
			assert.Contains(t, rec, "Timestamp")
			assert.Contains(t, rec, "DurationMs")
		})
	}
}

func TestRequestLoggerToggle(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.NewJSONHandler(&buf, log.LevelTrace))

	var enabled atomic.Bool
	handler := RequestLoggerMiddleware(logger, &enabled, 0, false)(respond(http.StatusOK, 0))

	send := func() {
		req := httptest.NewRequest(http.MethodPost, "/staking/stake", strings.NewReader(stakeBody))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	send()
	enabled.Store(true)
	send()
	send()
	enabled.Store(false)
	send()

	assert.Len(t, records(t, &buf), 2)
}
