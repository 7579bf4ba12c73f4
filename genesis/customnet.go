// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/state"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name     string         `json:"name"`
	Owner    cstake.Address `json:"owner"`
	Accounts []Account      `json:"accounts"`
}

// Account is the account will set to the genesis state
type Account struct {
	Address cstake.Address   `json:"address"`
	Balance *HexOrDecimal256 `json:"balance"`
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Owner.IsZero() {
		return nil, errors.New("owner must be set")
	}
	seen := make(map[cstake.Address]bool, len(gen.Accounts))
	for _, a := range gen.Accounts {
		if a.Balance == nil {
			return nil, fmt.Errorf("%s: balance must be set", a.Address)
		}
		if (*big.Int)(a.Balance).Sign() < 1 {
			return nil, fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		if seen[a.Address] {
			return nil, fmt.Errorf("%s: duplicated account", a.Address)
		}
		seen[a.Address] = true
	}

	builder := newBuilder(gen.Owner, func(st *state.State) error {
		for _, a := range gen.Accounts {
			if err := st.SetBalance(a.Address, (*big.Int)(a.Balance)); err != nil {
				return err
			}
		}
		return nil
	})

	name := gen.Name
	if name == "" {
		name = "customnet"
	}
	return &Genesis{builder, gen.Owner, name}, nil
}

// LoadCustomNet reads a custom genesis from a json file.
func LoadCustomNet(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if err := json.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "unmarshal genesis file")
	}
	return NewCustomNet(&gen)
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
// Copied from go-ethereum/common/math and implement json. Marshaler
type HexOrDecimal256 math.HexOrDecimal256

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		if err = (*big.Int)(i).UnmarshalJSON(input); err != nil {
			return err
		}
		return nil
	}
	bigint, ok := math.ParseBig256(hex)
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	text, err := decimal256.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}
