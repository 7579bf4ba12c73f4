// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"fmt"
	"math/big"

	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/cstake/abi"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/state"
)

var (
	// ErrWriteProtection is returned when a mutating method is invoked in a read-only call.
	ErrWriteProtection = errors.New("write protection")
	// ErrValueNotAccepted is returned when value is attached to a non-payable method.
	ErrValueNotAccepted = errors.New("value not accepted")
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     cstake.Bytes32
	Origin cstake.Address
}

// Event is a log emitted by a native method.
type Event struct {
	Address cstake.Address
	Topics  []cstake.Bytes32
	Data    []byte
}

// Bank moves native value between accounts.
type Bank interface {
	Transfer(from, to cstake.Address, amount *big.Int) error
}

type vmError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	abi      *abi.Method
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	fhe      fhe.Service
	bank     Bank
	caller   cstake.Address
	to       cstake.Address
	value    *big.Int
	input    []byte
	events   []*Event
}

// New create a new env.
func New(
	abi *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	fhe fhe.Service,
	bank Bank,
	caller cstake.Address,
	to cstake.Address,
	value *big.Int,
	input []byte,
) *Environment {
	if value == nil {
		value = new(big.Int)
	}
	return &Environment{
		abi:      abi,
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		fhe:      fhe,
		bank:     bank,
		caller:   caller,
		to:       to,
		value:    value,
		input:    input,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) FHE() fhe.Service                        { return env.fhe }
func (env *Environment) Bank() Bank                              { return env.bank }
func (env *Environment) Caller() cstake.Address                  { return env.caller }
func (env *Environment) To() cstake.Address                      { return env.to }
func (env *Environment) Value() *big.Int                         { return new(big.Int).Set(env.value) }
func (env *Environment) Method() *abi.Method                     { return env.abi }

// Events returns events emitted so far.
func (env *Environment) Events() []*Event { return env.events }

func (env *Environment) ParseArgs(val any) {
	if err := env.abi.DecodeInput(env.input, val); err != nil {
		// as vm error
		panic(&vmError{pkgerrors.WithMessage(err, "decode native input")})
	}
}

func (env *Environment) Log(abi *abi.Event, address cstake.Address, topics []cstake.Bytes32, args ...any) {
	data, err := abi.Encode(args...)
	if err != nil {
		panic(pkgerrors.WithMessage(err, "encode native event"))
	}

	all := make([]cstake.Bytes32, 0, len(topics)+1)
	all = append(all, abi.ID())
	all = append(all, topics...)
	env.events = append(env.events, &Event{
		Address: address,
		Topics:  all,
		Data:    data,
	})
}

// Stop aborts the native call with err.
func (env *Environment) Stop(err error) {
	panic(&vmError{err})
}

func (env *Environment) Call(proc func(env *Environment) []any, readonly bool) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if readonly && !env.abi.Const() {
			return nil, ErrWriteProtection
		}

		if env.value.Sign() != 0 && !env.abi.Payable() {
			// reject value transfer on call
			return nil, ErrValueNotAccepted
		}

		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					err = rec.cause
				} else {
					err = fmt.Errorf("native: %v", e)
				}
				env.events = nil
			}
		}()
		output := proc(env)
		data, err = env.abi.EncodeOutput(output...)
		if err != nil {
			panic(pkgerrors.WithMessage(err, "encode native output"))
		}
		return
	}
}
