// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/logdb"
)

type Logs struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Logs {
	return &Logs{
		db,
		logsLimit,
	}
}

// normalize validates the range and options, and returns options with the default limit applied.
func (l *Logs) normalize(rng *Range, opts *Options) (*Options, error) {
	if err := opts.Validate(l.limit); err != nil {
		return nil, utils.Forbidden(err)
	}
	if err := rng.Validate(); err != nil {
		return nil, utils.BadRequest(err)
	}
	if opts == nil {
		opts = &Options{}
	}
	if opts.Limit == nil {
		limit := l.limit
		opts.Limit = &limit
	}
	return opts, nil
}

func (l *Logs) handleFilterEvents(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	opts, err := l.normalize(filter.Range, filter.Options)
	if err != nil {
		return err
	}
	filter.Options = opts
	// reject null element in CriteriaSet, {} will be unmarshaled to default value and will be accepted/handled by the filter engine
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}

	events, err := l.db.FilterEvents(req.Context(), convertEventFilter(&filter))
	if err != nil {
		return err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, e := range events {
		fes[i] = ConvertEvent(e)
	}
	return utils.WriteJSON(w, fes)
}

func (l *Logs) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	var filter TransferFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	opts, err := l.normalize(filter.Range, filter.Options)
	if err != nil {
		return err
	}
	filter.Options = opts
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}

	transfers, err := l.db.FilterTransfers(req.Context(), convertTransferFilter(&filter))
	if err != nil {
		return err
	}
	fts := make([]*FilteredTransfer, len(transfers))
	for i, t := range transfers {
		fts[i] = ConvertTransfer(t)
	}
	return utils.WriteJSON(w, fts)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodPost).
		Name("logs_filter_event").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterEvents))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("logs_filter_transfer").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterTransfers))
}
