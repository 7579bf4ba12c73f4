// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/log"
)

var logger = log.WithContext("pkg", "loglevel")

// levels is ordered by legacy verbosity.
var levels = []struct {
	name  string
	level slog.Level
}{
	{"crit", log.LevelCrit},
	{"error", log.LevelError},
	{"warn", log.LevelWarn},
	{"info", log.LevelInfo},
	{"debug", log.LevelDebug},
	{"trace", log.LevelTrace},
}

type LogLevel struct {
	level *slog.LevelVar
}

func New(level *slog.LevelVar) *LogLevel {
	return &LogLevel{level}
}

func (l *LogLevel) response() Response {
	current := l.level.Level()
	for i, lv := range levels {
		if current >= lv.level {
			return Response{CurrentLevel: lv.name, Verbosity: i}
		}
	}
	return Response{CurrentLevel: "trace", Verbosity: log.LegacyLevelTrace}
}

func (l *LogLevel) handleGet(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, l.response())
}

func (l *LogLevel) handleSet(w http.ResponseWriter, req *http.Request) error {
	var body Request
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	level, ok := ParseLevel(body.Level)
	if !ok {
		return utils.BadRequest(errors.Errorf("level: unknown %q", body.Level))
	}
	l.level.Set(level)
	res := l.response()
	logger.Info("log level updated", "level", res.CurrentLevel)
	return utils.WriteJSON(w, res)
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("admin_get_log_level").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGet))
	sub.Path("").
		Methods(http.MethodPost).
		Name("admin_set_log_level").
		HandlerFunc(utils.WrapHandlerFunc(l.handleSet))
}

// ParseLevel maps a level name or a legacy verbosity (0 crit to 5 trace) to its slog level.
func ParseLevel(s string) (slog.Level, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < log.LegacyLevelCrit || n > log.LegacyLevelTrace {
			return 0, false
		}
		return levels[n].level, true
	}
	for _, lv := range levels {
		if lv.name == s {
			return lv.level, true
		}
	}
	return 0, false
}
