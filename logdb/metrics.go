// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strconv"
	"strings"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/metrics"
)

var (
	metricFilterCriteria = metrics.LazyLoadHistogramVec("logdb_filter_criteria", []string{"kind"}, []int64{0, 1, 2, 5, 10, 25, 100})
	metricFilterParams   = metrics.LazyLoadCounterVec("logdb_filter_params_count", []string{"kind", "params"})
	metricFilterTarget   = metrics.LazyLoadCounterVec("logdb_filter_target_count", []string{"target"})
	metricFilterOrder    = metrics.LazyLoadCounterVec("logdb_filter_order_count", []string{"kind", "order"})
	metricFilterLimit    = metrics.LazyLoadHistogramVec("logdb_filter_limit", []string{"kind"}, []int64{0, 10, 50, 100, 500, 1000})
)

// target names the ledger contract an event criteria is bound to.
func target(addr *cstake.Address) string {
	switch {
	case addr == nil:
		return "any"
	case *addr == cstake.StakingAddress:
		return "staking"
	case *addr == cstake.TokenAddress:
		return "token"
	default:
		return "other"
	}
}

func observeEventFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}
	observeFilter("event", len(filter.CriteriaSet), filter.Order, filter.Options)

	for _, c := range filter.CriteriaSet {
		var params []string
		if c.Address != nil {
			params = append(params, "address")
		}
		for i, topic := range c.Topics {
			if topic != nil {
				params = append(params, "topic"+strconv.Itoa(i))
			}
		}
		metricFilterParams().AddWithLabel(1, map[string]string{"kind": "event", "params": strings.Join(params, ",")})
		metricFilterTarget().AddWithLabel(1, map[string]string{"target": target(c.Address)})
	}
}

func observeTransferFilter(filter *TransferFilter) {
	if metrics.NoOp() {
		return
	}
	observeFilter("transfer", len(filter.CriteriaSet), filter.Order, filter.Options)

	for _, c := range filter.CriteriaSet {
		var params []string
		if c.TxOrigin != nil {
			params = append(params, "origin")
		}
		if c.Sender != nil {
			params = append(params, "sender")
		}
		if c.Recipient != nil {
			params = append(params, "recipient")
		}
		metricFilterParams().AddWithLabel(1, map[string]string{"kind": "transfer", "params": strings.Join(params, ",")})
	}
}

func observeFilter(kind string, criteria int, order Order, options *Options) {
	metricFilterCriteria().ObserveWithLabels(int64(criteria), map[string]string{"kind": kind})

	o := "asc"
	if order == DESC {
		o = "desc"
	}
	metricFilterOrder().AddWithLabel(1, map[string]string{"kind": kind, "order": o})

	if options != nil {
		limit := min(options.Limit, 1001)
		metricFilterLimit().ObserveWithLabels(int64(limit), map[string]string{"kind": kind})
	}
}
