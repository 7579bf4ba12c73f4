// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package apilogs toggles per-request logging of the ledger API at runtime.
package apilogs

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/log"
)

var logger = log.WithContext("pkg", "apilogs")

// Status is the request logging state.
type Status struct {
	Enabled bool `json:"enabled"`
}

// Toggle serves the request logging switch shared with the request logger middleware.
type Toggle struct {
	enabled *atomic.Bool
}

func New(enabled *atomic.Bool) *Toggle {
	return &Toggle{enabled}
}

func (t *Toggle) handleGet(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, Status{Enabled: t.enabled.Load()})
}

func (t *Toggle) handleSet(w http.ResponseWriter, req *http.Request) error {
	var body Status
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err)
	}
	if prev := t.enabled.Swap(body.Enabled); prev != body.Enabled {
		logger.Info("request logging switched", "enabled", body.Enabled)
	}
	return utils.WriteJSON(w, body)
}

func (t *Toggle) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("admin_get_api_logs").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGet))
	sub.Path("").
		Methods(http.MethodPost).
		Name("admin_set_api_logs").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSet))
}
