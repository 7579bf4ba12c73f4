// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package relayer settles requested withdrawals. On every sweep it scans the
// event store for WithdrawRequested events, obtains the public decryption of
// the pending handle and submits finalizeWithdraw.
package relayer

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/vechain/cstake/builtin"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/kv"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/logdb"
	"github.com/vechain/cstake/metrics"
	"github.com/vechain/cstake/runtime"
	"github.com/vechain/cstake/state"
)

var (
	logger = log.WithContext("pkg", "relayer")

	metricSettlements = metrics.LazyLoadCounterVec("relayer_settlements_count", []string{"status"})
	metricSweeps      = metrics.LazyLoadCounter("relayer_sweeps_count")

	cursorKey = []byte("relayer.cursor")
)

// DefaultSchedule sweeps every ten seconds.
const DefaultSchedule = "@every 10s"

// Gateway reveals publicly decryptable handles with a proof the ledger accepts.
type Gateway interface {
	PublicDecrypt(st *state.State, h fhe.Handle) (uint64, []byte, error)
}

// Relayer finalizes pending withdrawals on behalf of stakers.
type Relayer struct {
	rt      *runtime.Runtime
	logDB   *logdb.LogDB
	gateway Gateway
	store   kv.Store
	caller  cstake.Address
	cursor  uint32
	cron    *cron.Cron
}

// New creates a relayer submitting settlements as caller. The scan cursor is kept in store.
func New(rt *runtime.Runtime, logDB *logdb.LogDB, gateway Gateway, store kv.Store, caller cstake.Address) (*Relayer, error) {
	r := &Relayer{
		rt:      rt,
		logDB:   logDB,
		gateway: gateway,
		store:   store,
		caller:  caller,
	}
	data, err := store.Get(cursorKey)
	if err != nil {
		if !store.IsNotFound(err) {
			return nil, errors.Wrap(err, "load cursor")
		}
	} else if len(data) == 4 {
		r.cursor = binary.BigEndian.Uint32(data)
	}
	return r, nil
}

// Cursor returns the first block number the next sweep scans.
func (r *Relayer) Cursor() uint32 {
	return r.cursor
}

// Start runs Sweep on the cron schedule, e.g. "@every 10s" or "*/5 * * * *".
// Sweeps never overlap.
func (r *Relayer) Start(schedule string) error {
	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := c.AddFunc(schedule, func() {
		if _, err := r.Sweep(context.Background()); err != nil {
			logger.Warn("sweep failed", "err", err)
		}
	}); err != nil {
		return errors.Wrap(err, "schedule")
	}
	r.cron = c
	c.Start()
	logger.Info("relayer started", "schedule", schedule, "caller", r.caller)
	return nil
}

// Stop stops the schedule and waits for a running sweep.
func (r *Relayer) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

// Sweep settles every pending withdrawal requested since the cursor and returns the number settled.
// A settlement that fails is retried on the next sweep.
func (r *Relayer) Sweep(ctx context.Context) (int, error) {
	metricSweeps().Add(1)

	head := r.rt.BlockNumber()
	if head < r.cursor {
		return 0, nil
	}
	requested, ok := builtin.Staking.ABI.EventByName("WithdrawRequested")
	if !ok {
		return 0, errors.New("WithdrawRequested event not found")
	}
	topic := requested.ID()
	events, err := r.logDB.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{
			Address: &builtin.Staking.Address,
			Topics:  [5]*cstake.Bytes32{&topic},
		}},
		Range:   &logdb.Range{Unit: logdb.Block, From: uint64(r.cursor), To: uint64(head)},
		Options: &logdb.Options{Limit: math.MaxInt32},
	})
	if err != nil {
		return 0, errors.Wrap(err, "filter events")
	}

	next := head + 1
	settled := 0
	for _, ev := range events {
		var data struct{ Handle common.Hash }
		if err := requested.Decode(ev.Data, &data); err != nil {
			logger.Warn("malformed event", "txid", ev.TxID.AbbrevString(), "err", err)
			continue
		}
		done, err := r.settle(cstake.Bytes32(data.Handle))
		if err != nil {
			metricSettlements().AddWithLabel(1, map[string]string{"status": "failed"})
			logger.Warn("settlement failed", "handle", cstake.Bytes32(data.Handle).AbbrevString(), "err", err)
			next = min(next, ev.BlockNumber)
			continue
		}
		if done {
			settled++
			metricSettlements().AddWithLabel(1, map[string]string{"status": "ok"})
		}
	}

	if next != r.cursor {
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], next)
		if err := r.store.Put(cursorKey, buf[:]); err != nil {
			return settled, errors.Wrap(err, "save cursor")
		}
		r.cursor = next
	}
	if settled > 0 {
		logger.Info("withdrawals settled", "count", settled, "cursor", r.cursor)
	}
	return settled, nil
}

// settle finalizes the withdrawal of h. It reports false when h is no longer pending.
func (r *Relayer) settle(h fhe.Handle) (bool, error) {
	st := r.rt.State()
	ledger := builtin.Staking.Native(st, r.rt.FHE().Bind(st), nil, nil)
	staker, found, err := ledger.LocatePending(h)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	clear, proof, err := r.gateway.PublicDecrypt(st, h)
	if err != nil {
		return false, errors.WithMessage(err, "public decrypt")
	}
	method, _ := builtin.Staking.ABI.MethodByName("finalizeWithdraw")
	data, err := method.EncodeInput(h, clear, proof)
	if err != nil {
		return false, err
	}
	out, err := r.rt.Execute(&runtime.Clause{To: builtin.Staking.Address, Data: data}, r.caller)
	if err != nil {
		return false, err
	}
	if out.VMErr != nil {
		return false, errors.WithMessage(out.VMErr, "finalize")
	}
	logger.Debug("withdrawal settled", "staker", staker, "amount", clear, "txid", out.TxID.AbbrevString())
	return true, nil
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Error(msg, append(keysAndValues, "err", err)...)
}
