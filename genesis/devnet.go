// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/state"
)

// DevAccount account for development.
type DevAccount struct {
	Address    cstake.Address
	PrivateKey *ecdsa.PrivateKey
}

var (
	devAccounts atomic.Value
	devKMSKeys  atomic.Value
)

// DevBalance is the native balance of each dev account, 10,000 units of 1e18.
var DevBalance, _ = new(big.Int).SetString("10000000000000000000000", 10)

func mustKeys(hexKeys []string) []*ecdsa.PrivateKey {
	keys := make([]*ecdsa.PrivateKey, 0, len(hexKeys))
	for _, str := range hexKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		keys = append(keys, pk)
	}
	return keys
}

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	for _, pk := range mustKeys([]string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}) {
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{cstake.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevKMSKeys returns the signing keys of the solo mode key management service.
// Any two of them form a valid decryption proof.
func DevKMSKeys() []*ecdsa.PrivateKey {
	if keys := devKMSKeys.Load(); keys != nil {
		return keys.([]*ecdsa.PrivateKey)
	}
	keys := mustKeys([]string{
		"7b067f53d350f1cf20ec13df416b7b73e88a1dc7331bc904b92108b1e76a08b1",
		"5e7ed6b3d9f4f9a1c8ad1e4e0d2f23b8c7f3c9f1b2e6a0d4c8e2f6a9b3d7c1e5",
		"1f5c9a3e7b2d6f0a4c8e2b6d0f4a8c2e6b0d4f8a2c6e0b4d8f2a6c0e4b8d2f6a",
	})
	devKMSKeys.Store(keys)
	return keys
}

// DevKMSThreshold is the number of signatures required by the solo mode key management service.
const DevKMSThreshold = 2

// NewDevnet create genesis for solo mode.
func NewDevnet() *Genesis {
	owner := DevAccounts()[0].Address

	builder := newBuilder(owner, func(st *state.State) error {
		for _, a := range DevAccounts() {
			if err := st.SetBalance(a.Address, DevBalance); err != nil {
				return err
			}
		}
		return nil
	})
	return &Genesis{builder, owner, "devnet"}
}
