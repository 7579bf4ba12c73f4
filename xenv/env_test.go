// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/abi"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/lvldb"
	"github.com/vechain/cstake/state"
)

const testABI = `[
	{"type":"function","name":"get","inputs":[],"outputs":[{"name":"","type":"uint64"}],"stateMutability":"view"},
	{"type":"function","name":"set","inputs":[{"name":"v","type":"uint64"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"deposit","inputs":[],"outputs":[],"stateMutability":"payable"},
	{"type":"event","name":"Set","anonymous":false,"inputs":[{"name":"who","type":"address","indexed":true},{"name":"v","type":"uint64","indexed":false}]}
]`

func newEnv(t *testing.T, name string, value *big.Int, args ...any) *Environment {
	a, err := abi.New([]byte(testABI))
	require.NoError(t, err)
	m, ok := a.MethodByName(name)
	require.True(t, ok)
	input, err := m.EncodeInput(args...)
	require.NoError(t, err)
	return New(m, state.New(lvldb.NewMem()), &BlockContext{Number: 1, Time: 10}, &TransactionContext{},
		nil, nil, cstake.BytesToAddress([]byte("caller")), cstake.BytesToAddress([]byte("to")), value, input)
}

func TestCallReadonly(t *testing.T) {
	env := newEnv(t, "set", nil, uint64(1))
	_, err := env.Call(func(env *Environment) []any { return nil }, true)()
	assert.ErrorIs(t, err, ErrWriteProtection)

	env = newEnv(t, "get", nil)
	out, err := env.Call(func(env *Environment) []any { return []any{uint64(7)} }, true)()
	require.NoError(t, err)
	var v uint64
	require.NoError(t, env.Method().DecodeOutput(out, &v))
	assert.Equal(t, uint64(7), v)
}

func TestCallValue(t *testing.T) {
	env := newEnv(t, "set", big.NewInt(1), uint64(1))
	_, err := env.Call(func(env *Environment) []any { return nil }, false)()
	assert.ErrorIs(t, err, ErrValueNotAccepted)

	env = newEnv(t, "deposit", big.NewInt(5))
	_, err = env.Call(func(env *Environment) []any {
		assert.Equal(t, big.NewInt(5), env.Value())
		return nil
	}, false)()
	assert.NoError(t, err)
}

func TestCallParseArgsAndLog(t *testing.T) {
	a, err := abi.New([]byte(testABI))
	require.NoError(t, err)
	ev, ok := a.EventByName("Set")
	require.True(t, ok)

	env := newEnv(t, "set", nil, uint64(42))
	_, err = env.Call(func(env *Environment) []any {
		var v uint64
		env.ParseArgs(&v)
		assert.Equal(t, uint64(42), v)
		env.Log(ev, env.To(), []cstake.Bytes32{cstake.BytesToBytes32(env.Caller().Bytes())}, v)
		return nil
	}, false)()
	require.NoError(t, err)

	require.Len(t, env.Events(), 1)
	e := env.Events()[0]
	assert.Equal(t, env.To(), e.Address)
	assert.Equal(t, ev.ID(), e.Topics[0])
	assert.Len(t, e.Topics, 2)
}

func TestCallStop(t *testing.T) {
	a, err := abi.New([]byte(testABI))
	require.NoError(t, err)
	ev, _ := a.EventByName("Set")

	boom := errors.New("boom")
	env := newEnv(t, "set", nil, uint64(1))
	_, err = env.Call(func(env *Environment) []any {
		env.Log(ev, env.To(), nil, uint64(1))
		env.Stop(boom)
		return nil
	}, false)()
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, env.Events(), "events dropped on failure")

	// malformed input
	env = newEnv(t, "set", nil, uint64(1))
	env.input = env.input[:4]
	_, err = env.Call(func(env *Environment) []any {
		var v uint64
		env.ParseArgs(&v)
		return nil
	}, false)()
	assert.ErrorContains(t, err, "decode native input")

	// unexpected panic
	env = newEnv(t, "get", nil)
	_, err = env.Call(func(env *Environment) []any { panic("oops") }, true)()
	assert.EqualError(t, err, "native: oops")
}
