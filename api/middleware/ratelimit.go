// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"net"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/vechain/cstake/cache"
	"github.com/vechain/cstake/log"
)

const maxTrackedClients = 4096

// RateLimiter throttles state changing requests per client address.
type RateLimiter struct {
	limiters *cache.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	logger   log.Logger
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with the given burst to each client.
func NewRateLimiter(requestsPerSecond float64, burst int, logger log.Logger) (*RateLimiter, error) {
	limiters, err := cache.NewLRU[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		limiters: limiters,
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
	}, nil
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	// never fails
	l, _ := rl.limiters.GetOrLoad(key, func(string) (*rate.Limiter, error) {
		return rate.NewLimiter(rl.rate, rl.burst), nil
	})
	return l
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Handler returns the rate limiting middleware. Only POST requests are counted.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		key := clientKey(r)
		if !rl.limiter(key).Allow() {
			rl.logger.Debug("rate limit exceeded", "client", key, "path", r.URL.Path)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
