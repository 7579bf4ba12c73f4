// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/log"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		body      string
		status    int
		level     string
		verbosity int
	}{
		{"set by name", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "debug", 4},
		{"set by verbosity", http.MethodPost, `{"level":"2"}`, http.StatusOK, "warn", 2},
		{"set trace", http.MethodPost, `{"level":"trace"}`, http.StatusOK, "trace", 5},
		{"set crit", http.MethodPost, `{"level":"0"}`, http.StatusOK, "crit", 0},
		{"unknown name", http.MethodPost, `{"level":"verbose"}`, http.StatusBadRequest, "", 0},
		{"verbosity out of range", http.MethodPost, `{"level":"6"}`, http.StatusBadRequest, "", 0},
		{"unknown field", http.MethodPost, `{"lvl":"info"}`, http.StatusBadRequest, "", 0},
		{"read", http.MethodGet, "", http.StatusOK, "info", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var level slog.LevelVar
			level.Set(slog.LevelInfo)

			router := mux.NewRouter()
			New(&level).Mount(router, "/admin/loglevel")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/loglevel", strings.NewReader(tt.body)))

			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			if tt.status != http.StatusOK {
				assert.Equal(t, slog.LevelInfo, level.Level(), "level untouched on error")
				return
			}
			var res Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
			assert.Equal(t, tt.level, res.CurrentLevel)
			assert.Equal(t, tt.verbosity, res.Verbosity)
			assert.Equal(t, log.FromLegacyLevel(tt.verbosity), level.Level())
		})
	}
}

func TestParseLevel(t *testing.T) {
	for v := log.LegacyLevelCrit; v <= log.LegacyLevelTrace; v++ {
		byNum, ok := ParseLevel(string(rune('0' + v)))
		require.True(t, ok)
		assert.Equal(t, log.FromLegacyLevel(v), byNum)

		byName, ok := ParseLevel(levels[v].name)
		require.True(t, ok)
		assert.Equal(t, byNum, byName)
	}
	_, ok := ParseLevel("-1")
	assert.False(t, ok)
	_, ok = ParseLevel("")
	assert.False(t, ok)
}
