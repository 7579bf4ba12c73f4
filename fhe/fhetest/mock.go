// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fhetest provides a deterministic in-memory fhe.Service for tests.
// Handles wrap the clear value and decryption proofs verify by equality.
package fhetest

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
	"github.com/vechain/cstake/state"
)

var _ fhe.Service = (*Service)(nil)

// ValidProof is the only proof accepted by VerifyDecryption.
var ValidProof = []byte("fhetest-proof")

type aclKey struct {
	handle  fhe.Handle
	account cstake.Address
}

// Service is the mock encryption service.
//
// Handle layout: [0:8] nonce, [8:16] clear value, [30] type, [31] version.
// With Colliding set, the nonce is always zero so equal values share a handle.
type Service struct {
	Colliding bool

	mu      sync.Mutex
	nonce   uint64
	allowed map[aclKey]bool
	public  map[fhe.Handle]bool
	fail    map[string]error
}

// New creates a mock service.
func New() *Service {
	return &Service{
		allowed: make(map[aclKey]bool),
		public:  make(map[fhe.Handle]bool),
		fail:    make(map[string]error),
	}
}

// FailOn makes the named method return err until cleared with a nil err.
func (s *Service) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, method)
	} else {
		s.fail[method] = err
	}
}

// Bind returns the service itself. Grants are kept in memory and survive reverted calls.
func (s *Service) Bind(_ *state.State) fhe.Service {
	return s
}

// Wrap builds the handle of clear value v with the given nonce.
func Wrap(nonce, v uint64) fhe.Handle {
	var h fhe.Handle
	binary.BigEndian.PutUint64(h[:8], nonce)
	binary.BigEndian.PutUint64(h[8:16], v)
	return fhe.Tag(h, fhe.TypeUint64)
}

// Unwrap returns the clear value carried by a handle.
func Unwrap(h fhe.Handle) uint64 {
	return binary.BigEndian.Uint64(h[8:16])
}

func (s *Service) Encrypt(_ cstake.Address, v uint64) (fhe.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail["Encrypt"]; err != nil {
		return fhe.Handle{}, err
	}
	var nonce uint64
	if !s.Colliding {
		s.nonce++
		nonce = s.nonce
	}
	return Wrap(nonce, v), nil
}

func (s *Service) Add(a, b fhe.Handle) (fhe.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail["Add"]; err != nil {
		return fhe.Handle{}, err
	}
	// zero handle acts as an encrypted zero
	x, y := Unwrap(a), Unwrap(b)
	if x > math.MaxUint64-y {
		return fhe.Handle{}, fhe.ErrArithmeticOverflow
	}
	s.nonce++
	return Wrap(s.nonce, x+y), nil
}

func (s *Service) Allow(h fhe.Handle, account cstake.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail["Allow"]; err != nil {
		return err
	}
	s.allowed[aclKey{h, account}] = true
	return nil
}

func (s *Service) IsAllowed(h fhe.Handle, account cstake.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowed[aclKey{h, account}], nil
}

func (s *Service) MakePubliclyDecryptable(h fhe.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail["MakePubliclyDecryptable"]; err != nil {
		return err
	}
	s.public[h] = true
	return nil
}

func (s *Service) IsPubliclyDecryptable(h fhe.Handle) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.public[h], nil
}

func (s *Service) VerifyDecryption(h fhe.Handle, clear uint64, proof []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail["VerifyDecryption"]; err != nil {
		return false, err
	}
	return Unwrap(h) == clear && bytes.Equal(proof, ValidProof), nil
}
