// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/kv"
	"github.com/vechain/cstake/stackedmap"
)

const (
	accountBucket = kv.Bucket("a")
	storageBucket = kv.Bucket("s")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type (
	accountKey cstake.Address
	storageKey struct {
		addr cstake.Address
		key  cstake.Bytes32
	}
)

// State manages the ledger state.
// Changes are kept in memory until staged and committed.
type State struct {
	store    kv.Store
	accounts kv.Store
	storages kv.Store
	sm       *stackedmap.StackedMap[any, any]
}

// New create state object over the given store.
func New(store kv.Store) *State {
	s := &State{
		store:    store,
		accounts: accountBucket.NewStore(store),
		storages: storageBucket.NewStore(store),
	}
	s.sm = stackedmap.New(s.sourceGetter)
	return s
}

// sourceGetter implements stackedmap.MapGetter.
func (s *State) sourceGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case accountKey:
		acc, err := loadAccount(s.accounts, cstake.Address(k))
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	case storageKey:
		v, err := loadStorage(s.storages, k.addr, k.key)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr cstake.Address) (*Account, error) {
	v, _, err := s.sm.Get(accountKey(addr))
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr cstake.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(acc.Balance), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr cstake.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{fmt.Errorf("negative balance for %v", addr)}
	}
	s.sm.Put(accountKey(addr), &Account{Balance: new(big.Int).Set(balance)})
	return nil
}

// Exists returns whether an account exists at the given address.
func (s *State) Exists(addr cstake.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, &Error{err}
	}
	return !acc.IsEmpty(), nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr cstake.Address, key cstake.Bytes32) (cstake.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return cstake.Bytes32{}, err
	}
	if len(raw) == 0 {
		return cstake.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return cstake.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return cstake.Blake2b(raw), nil
	}
	return cstake.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr cstake.Address, key, value cstake.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr cstake.Address, key cstake.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr cstake.Address, key cstake.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr cstake.Address, key cstake.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr cstake.Address, key cstake.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the latest value of every changed key into a stage, ready to be committed.
func (s *State) Stage() *Stage {
	var (
		accounts = make(map[cstake.Address]*Account)
		storages = make(map[storageKey][]byte)
	)
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case accountKey:
			accounts[cstake.Address(key)] = v.(*Account)
		case storageKey:
			storages[key] = v.(rlp.RawValue)
		}
		return true
	})
	return &Stage{
		store:    s.store,
		accounts: accounts,
		storages: storages,
	}
}
