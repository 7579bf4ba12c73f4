// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package coprocessor is a reference implementation of the fhe.Service boundary.
// Plaintexts are kept in a local store keyed by handle and decryption results are
// attested by KMS signatures. It gives no confidentiality guarantee.
package coprocessor

import (
	"encoding/binary"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/kv"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/metrics"
	"github.com/vechain/cstake/state"
)

var (
	logger = log.WithContext("pkg", "coprocessor")

	metricOps = metrics.LazyLoadCounterVec("fhe_ops_count", []string{"op", "status"})
)

const (
	ciphertextBucket = kv.Bucket("fhe.ct.")
	cacheSize        = 4096
)

var nonceKey = []byte("fhe.nonce")

// Coprocessor holds plaintexts behind handles and the KMS signer set.
type Coprocessor struct {
	store       kv.Store
	ciphertexts kv.Store
	cache       *lru.Cache
	kms         *KMS

	mu    sync.Mutex
	nonce uint64
}

// New creates a coprocessor over the given store.
func New(store kv.Store, kms *KMS) (*Coprocessor, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	c := &Coprocessor{
		store:       store,
		ciphertexts: ciphertextBucket.NewStore(store),
		cache:       cache,
		kms:         kms,
	}

	data, err := store.Get(nonceKey)
	if err != nil {
		if !store.IsNotFound(err) {
			return nil, errors.Wrap(err, "load nonce")
		}
	} else {
		c.nonce = binary.BigEndian.Uint64(data)
	}
	return c, nil
}

// KMS returns the signer set.
func (c *Coprocessor) KMS() *KMS {
	return c.kms
}

// Bind returns the fhe.Service whose ACL lives in the given state.
func (c *Coprocessor) Bind(st *state.State) fhe.Service {
	return &session{c, NewACL(st)}
}

// PublicDecrypt returns the clear value of a publicly decryptable handle with a KMS proof.
func (c *Coprocessor) PublicDecrypt(st *state.State, h fhe.Handle) (uint64, []byte, error) {
	public, err := NewACL(st).IsPubliclyDecryptable(h)
	if err != nil {
		return 0, nil, err
	}
	if !public {
		metricOps().AddWithLabel(1, map[string]string{"op": "public_decrypt", "status": "denied"})
		return 0, nil, fhe.ErrNotPubliclyDecryptable
	}
	clear, err := c.plaintext(h)
	if err != nil {
		return 0, nil, err
	}
	proof, err := c.kms.Prove(h, clear)
	if err != nil {
		return 0, nil, err
	}
	metricOps().AddWithLabel(1, map[string]string{"op": "public_decrypt", "status": "ok"})
	return clear, proof, nil
}

// UserDecrypt returns the clear value of h to a user allowed by the ACL.
// The signature must be made by user over UserDecryptionDigest(h, user).
func (c *Coprocessor) UserDecrypt(st *state.State, h fhe.Handle, user cstake.Address, sig []byte) (uint64, error) {
	signer, err := recoverSigner(UserDecryptionDigest(h, user), sig)
	if err != nil {
		return 0, err
	}
	if signer != user {
		return 0, fhe.ErrInvalidSignature
	}
	allowed, err := NewACL(st).IsAllowed(h, user)
	if err != nil {
		return 0, err
	}
	if !allowed {
		metricOps().AddWithLabel(1, map[string]string{"op": "user_decrypt", "status": "denied"})
		return 0, fhe.ErrNotAllowed
	}
	metricOps().AddWithLabel(1, map[string]string{"op": "user_decrypt", "status": "ok"})
	return c.plaintext(h)
}

func (c *Coprocessor) plaintext(h fhe.Handle) (uint64, error) {
	if fhe.TypeOf(h) != fhe.TypeUint64 {
		return 0, fhe.ErrTypeMismatch
	}
	if v, ok := c.cache.Get(h); ok {
		return v.(uint64), nil
	}
	data, err := c.ciphertexts.Get(h[:])
	if err != nil {
		if c.ciphertexts.IsNotFound(err) {
			return 0, fhe.ErrUnknownHandle
		}
		return 0, errors.Wrap(err, "load ciphertext")
	}
	v := binary.BigEndian.Uint64(data)
	c.cache.Add(h, v)
	return v, nil
}

// put assigns a fresh handle to the value. Handles are never reused, even when the
// calling operation reverts.
func (c *Coprocessor) put(contract cstake.Address, v uint64) (fhe.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var nonce, value [8]byte
	binary.BigEndian.PutUint64(nonce[:], c.nonce+1)
	binary.BigEndian.PutUint64(value[:], v)
	h := fhe.Tag(cstake.Keccak256(contract[:], nonce[:]), fhe.TypeUint64)

	batch := c.store.NewBatch()
	if err := batch.Put(nonceKey, nonce[:]); err != nil {
		return fhe.Handle{}, err
	}
	if err := ciphertextBucket.NewPutter(batch).Put(h[:], value[:]); err != nil {
		return fhe.Handle{}, err
	}
	if err := batch.Write(); err != nil {
		return fhe.Handle{}, errors.Wrap(err, "store ciphertext")
	}
	c.nonce++
	c.cache.Add(h, v)
	return h, nil
}

type session struct {
	c   *Coprocessor
	acl *ACL
}

func (s *session) Encrypt(contract cstake.Address, v uint64) (fhe.Handle, error) {
	h, err := s.c.put(contract, v)
	if err != nil {
		return fhe.Handle{}, err
	}
	metricOps().AddWithLabel(1, map[string]string{"op": "encrypt", "status": "ok"})
	logger.Debug("encrypted value", "handle", h.AbbrevString(), "contract", contract)
	return h, nil
}

func (s *session) Add(a, b fhe.Handle) (fhe.Handle, error) {
	x, err := s.operand(a)
	if err != nil {
		return fhe.Handle{}, err
	}
	y, err := s.operand(b)
	if err != nil {
		return fhe.Handle{}, err
	}
	if x > math.MaxUint64-y {
		return fhe.Handle{}, fhe.ErrArithmeticOverflow
	}
	metricOps().AddWithLabel(1, map[string]string{"op": "add", "status": "ok"})
	return s.c.put(cstake.Address{}, x+y)
}

// operand treats the zero handle as an encrypted zero.
func (s *session) operand(h fhe.Handle) (uint64, error) {
	if h.IsZero() {
		return 0, nil
	}
	return s.c.plaintext(h)
}

func (s *session) Allow(h fhe.Handle, account cstake.Address) error {
	return s.acl.Allow(h, account)
}

func (s *session) IsAllowed(h fhe.Handle, account cstake.Address) (bool, error) {
	return s.acl.IsAllowed(h, account)
}

func (s *session) MakePubliclyDecryptable(h fhe.Handle) error {
	return s.acl.MakePubliclyDecryptable(h)
}

func (s *session) IsPubliclyDecryptable(h fhe.Handle) (bool, error) {
	return s.acl.IsPubliclyDecryptable(h)
}

func (s *session) VerifyDecryption(h fhe.Handle, clear uint64, proof []byte) (bool, error) {
	if fhe.TypeOf(h) != fhe.TypeUint64 {
		return false, nil
	}
	ok, err := s.c.kms.Verify(h, clear, proof)
	status := "ok"
	if !ok {
		status = "rejected"
	}
	metricOps().AddWithLabel(1, map[string]string{"op": "verify", "status": status})
	return ok, err
}
