// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fhetest

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
)

func TestMockService(t *testing.T) {
	s := New()
	contract := cstake.BytesToAddress([]byte("contract"))

	h1, err := s.Encrypt(contract, 7)
	require.NoError(t, err)
	h2, err := s.Encrypt(contract, 7)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, uint64(7), Unwrap(h1))
	assert.Equal(t, fhe.TypeUint64, fhe.TypeOf(h1))

	ok, err := s.VerifyDecryption(h1, 7, ValidProof)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = s.VerifyDecryption(h1, 8, ValidProof)
	assert.False(t, ok)
	ok, _ = s.VerifyDecryption(h1, 7, []byte("forged"))
	assert.False(t, ok)

	sum, err := s.Add(h1, h2)
	require.NoError(t, err)
	assert.Equal(t, uint64(14), Unwrap(sum))

	_, err = s.Add(Wrap(0, math.MaxUint64), Wrap(0, 1))
	assert.ErrorIs(t, err, fhe.ErrArithmeticOverflow)

	require.NoError(t, s.Allow(h1, contract))
	allowed, _ := s.IsAllowed(h1, contract)
	assert.True(t, allowed)
	allowed, _ = s.IsAllowed(h2, contract)
	assert.False(t, allowed)

	require.NoError(t, s.MakePubliclyDecryptable(h1))
	public, _ := s.IsPubliclyDecryptable(h1)
	assert.True(t, public)
}

func TestMockServiceCollidingAndFailures(t *testing.T) {
	s := New()
	s.Colliding = true
	h1, _ := s.Encrypt(cstake.Address{}, 5)
	h2, _ := s.Encrypt(cstake.Address{}, 5)
	assert.Equal(t, h1, h2)

	boom := errors.New("boom")
	s.FailOn("Encrypt", boom)
	_, err := s.Encrypt(cstake.Address{}, 5)
	assert.Equal(t, boom, err)
	s.FailOn("Encrypt", nil)
	_, err = s.Encrypt(cstake.Address{}, 5)
	assert.NoError(t, err)
}
