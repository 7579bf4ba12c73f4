// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain builds an in-memory ledger with the reference coprocessor for integration tests.
package testchain

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/vechain/cstake/abi"
	"github.com/vechain/cstake/builtin"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe/coprocessor"
	"github.com/vechain/cstake/genesis"
	"github.com/vechain/cstake/kv"
	"github.com/vechain/cstake/logdb"
	"github.com/vechain/cstake/lvldb"
	"github.com/vechain/cstake/runtime"
)

// GenesisTime is the initial clock of a test chain.
const GenesisTime = uint64(1_700_000_000)

const coprocessorBucket = kv.Bucket("cop.")

// Chain is an in-memory ledger on the devnet genesis.
type Chain struct {
	db    *lvldb.LevelDB
	logDB *logdb.LogDB
	cop   *coprocessor.Coprocessor
	rt    *runtime.Runtime
	now   atomic.Uint64
}

// New creates a test chain. The clock starts at GenesisTime and only moves with AddTime.
func New() (*Chain, error) {
	db := lvldb.NewMem()
	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, err
	}
	kms, err := coprocessor.NewKMS(genesis.DevKMSKeys(), genesis.DevKMSThreshold)
	if err != nil {
		return nil, err
	}
	cop, err := coprocessor.New(coprocessorBucket.NewStore(db), kms)
	if err != nil {
		return nil, err
	}
	rt, err := runtime.New(db, cop, logDB)
	if err != nil {
		return nil, err
	}

	c := &Chain{db: db, logDB: logDB, cop: cop, rt: rt}
	c.now.Store(GenesisTime)
	rt.SetClock(c.now.Load)

	if _, err := genesis.NewDevnet().Apply(rt); err != nil {
		return nil, errors.Wrap(err, "apply genesis")
	}
	return c, nil
}

func (c *Chain) Runtime() *runtime.Runtime             { return c.rt }
func (c *Chain) LogDB() *logdb.LogDB                   { return c.logDB }
func (c *Chain) Coprocessor() *coprocessor.Coprocessor { return c.cop }

// AddTime moves the clock forward by d seconds.
func (c *Chain) AddTime(d uint64) {
	c.now.Add(d)
}

// Close releases the databases.
func (c *Chain) Close() error {
	c.rt.Close()
	if err := c.logDB.Close(); err != nil {
		return err
	}
	return c.db.Close()
}

// Execute runs a method of a builtin contract and fails on revert.
func (c *Chain) Execute(contract *abi.ABI, to cstake.Address, caller cstake.Address, value *big.Int, method string, args ...any) (*runtime.Output, error) {
	m, ok := contract.MethodByName(method)
	if !ok {
		return nil, fmt.Errorf("method %v not found", method)
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		return nil, err
	}
	out, err := c.rt.Execute(&runtime.Clause{To: to, Value: value, Data: data}, caller)
	if err != nil {
		return nil, err
	}
	if out.VMErr != nil {
		return out, errors.Wrapf(out.VMErr, "%v reverted", method)
	}
	return out, nil
}

// Stake deposits amount for caller locked for duration seconds.
func (c *Chain) Stake(caller cstake.Address, amount *big.Int, duration uint64) error {
	_, err := c.Execute(builtin.Staking.ABI, builtin.Staking.Address, caller, amount, "stake", duration)
	return err
}

// RequestWithdraw requests the withdrawal of the caller's position.
func (c *Chain) RequestWithdraw(caller cstake.Address) error {
	_, err := c.Execute(builtin.Staking.ABI, builtin.Staking.Address, caller, nil, "requestWithdraw")
	return err
}
