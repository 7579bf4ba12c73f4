// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(enabled *atomic.Bool, method, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	New(enabled).Mount(router, "/admin/apilogs")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, "/admin/apilogs", strings.NewReader(body)))
	return rr
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		start  bool
		want   bool
	}{
		{"enable", http.MethodPost, `{"enabled":true}`, false, true},
		{"disable", http.MethodPost, `{"enabled":false}`, true, false},
		{"enable twice", http.MethodPost, `{"enabled":true}`, true, true},
		{"read enabled", http.MethodGet, "", true, true},
		{"read disabled", http.MethodGet, "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enabled atomic.Bool
			enabled.Store(tt.start)

			rr := serve(&enabled, tt.method, tt.body)
			require.Equal(t, http.StatusOK, rr.Code)

			var status Status
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
			assert.Equal(t, tt.want, status.Enabled)
			assert.Equal(t, tt.want, enabled.Load(), "shared switch updated")
		})
	}
}

func TestToggleBadBody(t *testing.T) {
	for _, body := range []string{`{"enabled":"yes"}`, `{"on":true}`, `not json`} {
		var enabled atomic.Bool
		rr := serve(&enabled, http.MethodPost, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.False(t, enabled.Load())
	}

	var enabled atomic.Bool
	rr := serve(&enabled, http.MethodDelete, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
