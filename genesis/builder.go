// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/runtime"
	"github.com/vechain/cstake/state"
)

// Builder helper to build genesis state.
type Builder struct {
	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *runtime.Clause
	caller cstake.Address
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(clause *runtime.Clause, caller cstake.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// Build applies state processes and calls to a fresh runtime.
// It returns the number of the last clause executed.
func (b *Builder) Build(rt *runtime.Runtime) (uint32, error) {
	if n := rt.BlockNumber(); n != 0 {
		return 0, errors.Errorf("runtime already initialized at %v", n)
	}

	st := rt.State()
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return 0, errors.Wrap(err, "state process")
		}
	}
	if err := st.Stage().Commit(); err != nil {
		return 0, errors.Wrap(err, "commit state")
	}

	var number uint32
	for _, call := range b.calls {
		out, err := rt.Execute(call.clause, call.caller)
		if err != nil {
			return 0, err
		}
		if out.VMErr != nil {
			return 0, errors.Wrap(out.VMErr, "vm")
		}
		number = out.BlockNumber
	}
	return number, nil
}
