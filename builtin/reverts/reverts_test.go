// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
)

func TestCustomError(t *testing.T) {
	// keccak256("InvalidAmount()")[:4]
	e := NewCustomError("InvalidAmount")
	assert.Equal(t, "0x2c5211c6", hexutil.Encode(e.Bytes()))
	assert.Equal(t, "InvalidAmount", e.Error())

	wrapped := fmt.Errorf("stake: %w", e)
	assert.True(t, errors.Is(wrapped, NewCustomError("InvalidAmount")))
	assert.False(t, errors.Is(wrapped, NewCustomError("InvalidDuration")))
	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, e.Bytes(), RevertData(wrapped))
}

func TestRequireError(t *testing.T) {
	e := NewRequireError("revert reason")
	assert.Equal(t,
		"0x08c379a0"+
			"0000000000000000000000000000000000000000000000000000000000000020"+
			"000000000000000000000000000000000000000000000000000000000000000d"+
			"72657665727420726561736f6e00000000000000000000000000000000000000",
		hexutil.Encode(e.Bytes()))
	assert.True(t, IsRevertErr(e))
	assert.False(t, IsRevertErr(errors.New("other")))
	assert.False(t, IsRevertErr(nil))
	assert.Nil(t, RevertData(errors.New("other")))
}
