// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/kv"
)

// Account is the ledger representation of an account.
// RLP encoded objects are stored in the accounts bucket.
type Account struct {
	Balance *big.Int
}

// IsEmpty returns if an account is empty.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

// loadAccount load an account object by address in the store.
// It returns an empty account if no account found at the address.
func loadAccount(getter kv.Getter, addr cstake.Address) (*Account, error) {
	data, err := getter.Get(addr.Bytes())
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount save account into the store.
// If the given account is empty, the value for given address is deleted.
func saveAccount(putter kv.Putter, addr cstake.Address, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(addr.Bytes())
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(addr.Bytes(), data)
}

func storageStoreKey(addr cstake.Address, key cstake.Bytes32) []byte {
	return append(addr.Bytes(), key[:]...)
}

// loadStorage load storage data for given key.
func loadStorage(getter kv.Getter, addr cstake.Address, key cstake.Bytes32) (rlp.RawValue, error) {
	v, err := getter.Get(storageStoreKey(addr, key))
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// saveStorage save value for given key.
// If the data is zero, the given key will be deleted.
func saveStorage(putter kv.Putter, addr cstake.Address, key cstake.Bytes32, data rlp.RawValue) error {
	if len(data) == 0 {
		return putter.Delete(storageStoreKey(addr, key))
	}
	return putter.Put(storageStoreKey(addr, key), data)
}
