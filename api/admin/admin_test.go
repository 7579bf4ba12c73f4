// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminRoutes(t *testing.T) {
	var level slog.LevelVar
	var apiLogs atomic.Bool
	handler := New(&level, &apiLogs)

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/admin/loglevel", strings.NewReader(`{"level":"debug"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, slog.LevelDebug, level.Level())

	rr = httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/admin/apilogs", strings.NewReader(`{"enabled":true}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, apiLogs.Load())

	rr = httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/loglevel", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
