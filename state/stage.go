// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/kv"
	"github.com/vechain/cstake/metrics"
)

var metricStateChanges = metrics.LazyLoadCounterVec("state_changes_count", []string{"kind"})

// Stage abstracts changes on the ledger state.
type Stage struct {
	store    kv.Store
	accounts map[cstake.Address]*Account
	storages map[storageKey][]byte
}

// Len returns count of changed keys.
func (s *Stage) Len() int {
	return len(s.accounts) + len(s.storages)
}

// Commit writes all changes into the store in one batch.
func (s *Stage) Commit() error {
	batch := s.store.NewBatch()
	accounts := accountBucket.NewPutter(batch)
	storages := storageBucket.NewPutter(batch)

	for addr, acc := range s.accounts {
		if err := saveAccount(accounts, addr, acc); err != nil {
			return errors.Wrap(err, "save account")
		}
	}
	for key, v := range s.storages {
		if err := saveStorage(storages, key.addr, key.key, v); err != nil {
			return errors.Wrap(err, "save storage")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write batch")
	}
	metricStateChanges().AddWithLabel(int64(len(s.accounts)), map[string]string{"kind": "account"})
	metricStateChanges().AddWithLabel(int64(len(s.storages)), map[string]string{"kind": "storage"})
	return nil
}
