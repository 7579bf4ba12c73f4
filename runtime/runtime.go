// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/binary"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/cstake/builtin"
	"github.com/vechain/cstake/builtin/reverts"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/kv"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/logdb"
	"github.com/vechain/cstake/metrics"
	"github.com/vechain/cstake/state"
	"github.com/vechain/cstake/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricCalls   = metrics.LazyLoadCounterVec("runtime_calls_count", []string{"contract", "method", "status"})
	metricReverts = metrics.LazyLoadCounterVec("runtime_reverts_count", []string{"error"})

	numberKey = []byte("runtime.number")
)

var (
	errNoCode        = errors.New("account has no code")
	errNoMethod      = errors.New("method not found")
	errNegativeValue = errors.New("negative value")
	errReadonlyValue = errors.New("value in read-only call")
)

// FHE binds the encryption service to an execution state.
type FHE interface {
	Bind(st *state.State) fhe.Service
}

// Clause is a single call to an account.
type Clause struct {
	To    cstake.Address
	Value *big.Int
	Data  []byte
}

// Output is the result of executing a clause.
type Output struct {
	BlockNumber uint32
	BlockTime   uint64
	TxID        cstake.Bytes32
	Data        []byte
	Events      []*xenv.Event
	Transfers   []*Transfer
	VMErr       error
	RevertData  []byte
}

// Reverted reports whether the clause failed.
func (o *Output) Reverted() bool {
	return o.VMErr != nil
}

// Commit is published after a clause is committed.
type Commit struct {
	BlockNumber uint32
	BlockTime   uint64
	TxID        cstake.Bytes32
	Origin      cstake.Address
	Events      []*logdb.Event
}

// Runtime executes clauses against builtin contracts one at a time and commits their effects.
type Runtime struct {
	mu      sync.Mutex
	store   kv.Store
	stater  *state.Stater
	fhe     FHE
	logDB   *logdb.LogDB
	clock   func() uint64
	number  uint32
	blocked map[cstake.Address]bool

	feed  event.Feed
	scope event.SubscriptionScope
}

// New create a Runtime object. logDB may be nil.
func New(store kv.Store, svc FHE, logDB *logdb.LogDB) (*Runtime, error) {
	rt := &Runtime{
		store:   store,
		stater:  state.NewStater(store),
		fhe:     svc,
		logDB:   logDB,
		clock:   func() uint64 { return uint64(time.Now().Unix()) },
		blocked: make(map[cstake.Address]bool),
	}
	data, err := store.Get(numberKey)
	if err != nil {
		if !store.IsNotFound(err) {
			return nil, pkgerrors.Wrap(err, "load block number")
		}
	} else if len(data) == 4 {
		rt.number = binary.BigEndian.Uint32(data)
	}
	return rt, nil
}

// SetClock replaces the time source, in unix seconds.
// Returns this runtime.
func (rt *Runtime) SetClock(clock func() uint64) *Runtime {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.clock = clock
	return rt
}

// State returns a fresh state over committed data.
func (rt *Runtime) State() *state.State {
	return rt.stater.NewState()
}

// FHE returns the encryption service binding.
func (rt *Runtime) FHE() FHE {
	return rt.fhe
}

// BlockNumber returns the number of the last committed clause.
func (rt *Runtime) BlockNumber() uint32 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.number
}

// Now returns the current block time.
func (rt *Runtime) Now() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.clock()
}

// Reject makes addr refuse incoming native value, or accept it again.
func (rt *Runtime) Reject(addr cstake.Address, reject bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if reject {
		rt.blocked[addr] = true
	} else {
		delete(rt.blocked, addr)
	}
}

// SubscribeCommits subscribes to committed clauses.
func (rt *Runtime) SubscribeCommits(ch chan<- *Commit) event.Subscription {
	return rt.scope.Track(rt.feed.Subscribe(ch))
}

// Close unsubscribes all subscribers.
func (rt *Runtime) Close() {
	rt.scope.Close()
}

// Call executes a clause read-only against committed state.
func (rt *Runtime) Call(clause *Clause, caller cstake.Address) *Output {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	out, _ := rt.execute(clause, caller, true)
	return out
}

// Execute executes a clause and commits its effects if it succeeds.
// The returned error is an infrastructure failure; execution failures are reported in Output.VMErr.
func (rt *Runtime) Execute(clause *Clause, origin cstake.Address) (*Output, error) {
	commit, out, err := func() (*Commit, *Output, error) {
		rt.mu.Lock()
		defer rt.mu.Unlock()

		out, st := rt.execute(clause, origin, false)
		if out.Reverted() {
			return nil, out, nil
		}
		commit, err := rt.commit(st, out, origin)
		if err != nil {
			return nil, nil, err
		}
		return commit, out, nil
	}()
	if err != nil {
		logger.Error("failed to commit", "err", err)
		return nil, err
	}
	if commit != nil {
		rt.feed.Send(commit)
	}
	return out, nil
}

func (rt *Runtime) execute(clause *Clause, origin cstake.Address, readonly bool) (out *Output, st *state.State) {
	st = rt.stater.NewState()
	number := rt.number + 1
	out = &Output{
		BlockNumber: number,
		BlockTime:   rt.clock(),
		TxID:        txID(origin, number, clause),
	}
	contract, method := "-", "transfer"
	defer func() {
		status := "ok"
		if out.VMErr != nil {
			status = "reverted"
			var ce *reverts.CustomError
			if pkgerrors.As(out.VMErr, &ce) {
				metricReverts().AddWithLabel(1, map[string]string{"error": ce.Name()})
			}
			logger.Debug("clause reverted", "to", clause.To, "method", method, "err", out.VMErr)
		}
		metricCalls().AddWithLabel(1, map[string]string{"contract": contract, "method": method, "status": status})
	}()

	value := clause.Value
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		out.VMErr = errNegativeValue
		return
	}
	if readonly && value.Sign() != 0 {
		out.VMErr = errReadonlyValue
		return
	}

	b := &bank{state: st, rejects: func(addr cstake.Address) bool { return rt.blocked[addr] }}
	if value.Sign() > 0 {
		if err := b.Transfer(origin, clause.To, value); err != nil {
			out.VMErr = err
			return
		}
	}

	if !builtin.IsBuiltin(clause.To) {
		if len(clause.Data) > 0 {
			out.VMErr = errNoCode
			return
		}
		out.Transfers = b.transfers
		return
	}

	contract = clause.To.String()
	abiMethod, run, found := builtin.FindNativeCall(clause.To, clause.Data)
	if !found {
		method = "fallback"
		if err := builtin.FallbackRevert(clause.To); err != nil {
			out.VMErr = err
		} else {
			out.VMErr = errNoMethod
		}
		out.RevertData = reverts.RevertData(out.VMErr)
		return
	}
	method = abiMethod.Name()

	env := xenv.New(
		abiMethod,
		st,
		&xenv.BlockContext{Number: number, Time: out.BlockTime},
		&xenv.TransactionContext{ID: out.TxID, Origin: origin},
		rt.fhe.Bind(st),
		b,
		origin,
		clause.To,
		value,
		clause.Data,
	)
	data, err := env.Call(run, readonly)()
	if err != nil {
		out.VMErr = err
		out.RevertData = reverts.RevertData(err)
		return
	}
	out.Data = data
	out.Events = env.Events()
	out.Transfers = b.transfers
	return
}

func (rt *Runtime) commit(st *state.State, out *Output, origin cstake.Address) (*Commit, error) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], out.BlockNumber)
	if err := rt.store.Put(numberKey, buf[:]); err != nil {
		return nil, pkgerrors.Wrap(err, "save block number")
	}
	if err := st.Stage().Commit(); err != nil {
		return nil, pkgerrors.Wrap(err, "commit state")
	}
	rt.number = out.BlockNumber

	commit := &Commit{
		BlockNumber: out.BlockNumber,
		BlockTime:   out.BlockTime,
		TxID:        out.TxID,
		Origin:      origin,
	}
	for i, ev := range out.Events {
		dbEv := &logdb.Event{
			BlockNumber: out.BlockNumber,
			Index:       uint32(i),
			BlockTime:   out.BlockTime,
			TxID:        out.TxID,
			TxOrigin:    origin,
			Address:     ev.Address,
			Data:        ev.Data,
		}
		for j := 0; j < len(ev.Topics) && j < len(dbEv.Topics); j++ {
			topic := ev.Topics[j]
			dbEv.Topics[j] = &topic
		}
		commit.Events = append(commit.Events, dbEv)
	}

	if rt.logDB != nil {
		transfers := make([]*logdb.Transfer, 0, len(out.Transfers))
		for i, tr := range out.Transfers {
			transfers = append(transfers, &logdb.Transfer{
				BlockNumber: out.BlockNumber,
				Index:       uint32(i),
				BlockTime:   out.BlockTime,
				TxID:        out.TxID,
				TxOrigin:    origin,
				Sender:      tr.Sender,
				Recipient:   tr.Recipient,
				Amount:      tr.Amount,
			})
		}
		w := rt.logDB.NewWriter()
		if err := w.Write(commit.Events, transfers); err != nil {
			_ = w.Rollback()
			return nil, pkgerrors.Wrap(err, "write logs")
		}
		if err := w.Commit(); err != nil {
			return nil, pkgerrors.Wrap(err, "commit logs")
		}
	}
	logger.Debug("clause committed", "number", out.BlockNumber, "txid", out.TxID.AbbrevString(), "events", len(out.Events))
	return commit, nil
}

func txID(origin cstake.Address, number uint32, clause *Clause) cstake.Bytes32 {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], number)
	return cstake.Blake2b(origin.Bytes(), buf[:], clause.To.Bytes(), clause.Data)
}
