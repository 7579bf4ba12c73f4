// Copyright (c) 2020 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/cstake/metrics"
)

var metricStmtCache = metrics.LazyLoadCounterVec("logdb_stmt_cache_count", []string{"result"})

// stmtCache keeps prepared statements by query text until closed.
type stmtCache struct {
	db    *sql.DB
	mu    sync.RWMutex
	stmts map[string]*sql.Stmt
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{db: db, stmts: make(map[string]*sql.Stmt)}
}

func (sc *stmtCache) Prepare(query string) (*sql.Stmt, error) {
	sc.mu.RLock()
	stmt, ok := sc.stmts[query]
	sc.mu.RUnlock()
	if ok {
		metricStmtCache().AddWithLabel(1, map[string]string{"result": "hit"})
		return stmt, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if stmt, ok := sc.stmts[query]; ok {
		return stmt, nil
	}
	if sc.stmts == nil {
		return nil, errors.New("statement cache closed")
	}
	stmt, err := sc.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(err, "prepare statement")
	}
	sc.stmts[query] = stmt
	metricStmtCache().AddWithLabel(1, map[string]string{"result": "miss"})
	return stmt, nil
}

func (sc *stmtCache) Len() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.stmts)
}

// Close closes every cached statement. Later calls to Prepare fail.
func (sc *stmtCache) Close() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var first error
	for _, stmt := range sc.stmts {
		if err := stmt.Close(); err != nil && first == nil {
			first = err
		}
	}
	sc.stmts = nil
	return first
}
