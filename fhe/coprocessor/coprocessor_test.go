// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coprocessor

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/lvldb"
	"github.com/vechain/cstake/state"
)

func newKeys(t *testing.T, n int) []*ecdsa.PrivateKey {
	keys := make([]*ecdsa.PrivateKey, n)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = key
	}
	return keys
}

func newCoprocessor(t *testing.T, keys []*ecdsa.PrivateKey, threshold int) *Coprocessor {
	kms, err := NewKMS(keys, threshold)
	require.NoError(t, err)
	c, err := New(lvldb.NewMem(), kms)
	require.NoError(t, err)
	return c
}

func TestEncryptAndPublicDecrypt(t *testing.T) {
	c := newCoprocessor(t, newKeys(t, 3), 2)
	st := state.New(lvldb.NewMem())
	svc := c.Bind(st)
	contract := cstake.BytesToAddress([]byte("contract"))

	h1, err := svc.Encrypt(contract, 1000)
	require.NoError(t, err)
	h2, err := svc.Encrypt(contract, 1000)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "handles are never reused")
	assert.Equal(t, fhe.TypeUint64, fhe.TypeOf(h1))

	_, _, err = c.PublicDecrypt(st, h1)
	assert.ErrorIs(t, err, fhe.ErrNotPubliclyDecryptable)

	require.NoError(t, svc.MakePubliclyDecryptable(h1))
	clear, proof, err := c.PublicDecrypt(st, h1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), clear)
	assert.Len(t, proof, 2*crypto.SignatureLength)

	ok, err := svc.VerifyDecryption(h1, 1000, proof)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyDecryption(h1, 999, proof)
	require.NoError(t, err)
	assert.False(t, ok, "proof is bound to the clear value")

	ok, err = svc.VerifyDecryption(h2, 1000, proof)
	require.NoError(t, err)
	assert.False(t, ok, "proof is bound to the handle")

	ok, _ = svc.VerifyDecryption(h1, 1000, proof[:crypto.SignatureLength])
	assert.False(t, ok, "below threshold")

	doubled := append(append([]byte(nil), proof[:crypto.SignatureLength]...), proof[:crypto.SignatureLength]...)
	ok, _ = svc.VerifyDecryption(h1, 1000, doubled)
	assert.False(t, ok, "same signer counted once")

	ok, _ = svc.VerifyDecryption(h1, 1000, []byte("garbage"))
	assert.False(t, ok)
}

func TestForeignSignerRejected(t *testing.T) {
	c := newCoprocessor(t, newKeys(t, 1), 1)
	other, err := NewKMS(newKeys(t, 1), 1)
	require.NoError(t, err)

	svc := c.Bind(state.New(lvldb.NewMem()))
	h, err := svc.Encrypt(cstake.Address{}, 5)
	require.NoError(t, err)

	proof, err := other.Prove(h, 5)
	require.NoError(t, err)
	ok, err := svc.VerifyDecryption(h, 5, proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestACLFollowsStateCheckpoints(t *testing.T) {
	c := newCoprocessor(t, newKeys(t, 1), 1)
	st := state.New(lvldb.NewMem())
	svc := c.Bind(st)
	user := cstake.BytesToAddress([]byte("user"))

	h, err := svc.Encrypt(cstake.Address{}, 5)
	require.NoError(t, err)

	chk := st.NewCheckpoint()
	require.NoError(t, svc.Allow(h, user))
	require.NoError(t, svc.MakePubliclyDecryptable(h))
	allowed, _ := svc.IsAllowed(h, user)
	assert.True(t, allowed)

	st.RevertTo(chk)
	allowed, _ = svc.IsAllowed(h, user)
	assert.False(t, allowed)
	public, _ := svc.IsPubliclyDecryptable(h)
	assert.False(t, public)
}

func TestUserDecrypt(t *testing.T) {
	c := newCoprocessor(t, newKeys(t, 1), 1)
	st := state.New(lvldb.NewMem())
	svc := c.Bind(st)

	userKey := newKeys(t, 1)[0]
	user := cstake.Address(crypto.PubkeyToAddress(userKey.PublicKey))

	h, err := svc.Encrypt(cstake.Address{}, 77)
	require.NoError(t, err)

	sig, err := SignUserDecryption(h, userKey)
	require.NoError(t, err)

	_, err = c.UserDecrypt(st, h, user, sig)
	assert.ErrorIs(t, err, fhe.ErrNotAllowed)

	require.NoError(t, svc.Allow(h, user))
	clear, err := c.UserDecrypt(st, h, user, sig)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), clear)

	_, err = c.UserDecrypt(st, h, cstake.BytesToAddress([]byte("impostor")), sig)
	assert.ErrorIs(t, err, fhe.ErrInvalidSignature)
}

func TestAddAndPersistence(t *testing.T) {
	db := lvldb.NewMem()
	kms, err := NewKMS(newKeys(t, 1), 1)
	require.NoError(t, err)
	c, err := New(db, kms)
	require.NoError(t, err)
	st := state.New(lvldb.NewMem())
	svc := c.Bind(st)

	a, _ := svc.Encrypt(cstake.Address{}, 2)
	b, _ := svc.Encrypt(cstake.Address{}, 3)
	sum, err := svc.Add(a, b)
	require.NoError(t, err)
	fromZero, err := svc.Add(fhe.Handle{}, b)
	require.NoError(t, err)

	// reopen: plaintexts and nonce survive
	c, err = New(db, kms)
	require.NoError(t, err)
	svc = c.Bind(st)
	require.NoError(t, svc.MakePubliclyDecryptable(sum))
	require.NoError(t, svc.MakePubliclyDecryptable(fromZero))

	clear, _, err := c.PublicDecrypt(st, sum)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), clear)
	clear, _, err = c.PublicDecrypt(st, fromZero)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), clear)

	next, err := svc.Encrypt(cstake.Address{}, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, next)

	unknown := fhe.Tag(cstake.Blake2b([]byte("unknown")), fhe.TypeUint64)
	require.NoError(t, svc.MakePubliclyDecryptable(unknown))
	_, _, err = c.PublicDecrypt(st, unknown)
	assert.ErrorIs(t, err, fhe.ErrUnknownHandle)
}

func TestNewKMS(t *testing.T) {
	keys := newKeys(t, 2)
	_, err := NewKMS(nil, 1)
	assert.Error(t, err)
	_, err = NewKMS(keys, 3)
	assert.Error(t, err)
	_, err = NewKMS([]*ecdsa.PrivateKey{keys[0], keys[0]}, 1)
	assert.Error(t, err)

	kms, err := NewKMS(keys, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, kms.Threshold())
	assert.Equal(t, cstake.Address(crypto.PubkeyToAddress(keys[1].PublicKey)), kms.Signers()[1])
}
