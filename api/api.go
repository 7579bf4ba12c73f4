// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/cstake/api/accounts"
	"github.com/vechain/cstake/api/fhe"
	"github.com/vechain/cstake/api/logs"
	"github.com/vechain/cstake/api/middleware"
	"github.com/vechain/cstake/api/node"
	"github.com/vechain/cstake/api/staking"
	"github.com/vechain/cstake/api/subscriptions"
	"github.com/vechain/cstake/api/tokens"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/logdb"
	"github.com/vechain/cstake/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	BacktraceLimit  uint32
	PprofOn         bool
	SkipLogs        bool
	EnableMetrics   bool
	LogsLimit       uint64
	SlowQueries     time.Duration
	Log5xxErrors    bool
	RateLimit       float64 // POST requests per second per client, 0 disables
	RateLimitBurst  int
	EnableReqLogger *atomic.Bool
	Info            node.Info
}

// New return api router
func New(
	rt *runtime.Runtime,
	logDB *logdb.LogDB,
	gateway fhe.Gateway,
	opts Options,
) (http.HandlerFunc, func(), error) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt).
		Mount(router, "/accounts")
	staking.New(rt).
		Mount(router, "/staking")
	tokens.New(rt).
		Mount(router, "/tokens")
	node.New(rt, opts.Info).
		Mount(router, "/node")
	if gateway != nil {
		fhe.New(rt, gateway).
			Mount(router, "/fhe")
	}
	if !opts.SkipLogs && logDB != nil {
		logs.New(logDB, opts.LogsLimit).
			Mount(router, "/logs")
	}
	subs := subscriptions.New(rt, logDB, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueries, opts.Log5xxErrors))

	if opts.RateLimit > 0 {
		limiter, err := middleware.NewRateLimiter(opts.RateLimit, opts.RateLimitBurst, logger)
		if err != nil {
			return nil, nil, err
		}
		router.Use(limiter.Handler)
	}

	handler := middleware.RequestID(router)
	handler = handlers.CompressHandler(handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)

	return handler.ServeHTTP, subs.Close, nil // subscriptions handles hijacked conns, which need to be closed
}
