// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/cstake/cstake"
)

func TestFilterTarget(t *testing.T) {
	staking, token, other := cstake.StakingAddress, cstake.TokenAddress, cstake.BytesToAddress([]byte("other"))

	assert.Equal(t, "any", target(nil))
	assert.Equal(t, "staking", target(&staking))
	assert.Equal(t, "token", target(&token))
	assert.Equal(t, "other", target(&other))
}
