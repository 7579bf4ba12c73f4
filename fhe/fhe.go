// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fhe defines the boundary to the encryption service: the ledger
// never sees plaintexts, only opaque handles to encrypted values.
package fhe

import (
	"errors"

	"github.com/vechain/cstake/cstake"
)

// Handle refers to an encrypted value held by the encryption service.
type Handle = cstake.Bytes32

// Type is the encrypted value type tagged into a handle.
type Type byte

const (
	TypeBool   Type = 0
	TypeUint8  Type = 2
	TypeUint16 Type = 3
	TypeUint32 Type = 4
	TypeUint64 Type = 5
)

// HandleVersion is the version byte of handles produced by this package.
const HandleVersion byte = 0

// TypeOf returns the value type tagged into the handle.
func TypeOf(h Handle) Type {
	return Type(h[30])
}

// Tag sets the type and version bytes of a handle.
func Tag(h Handle, t Type) Handle {
	h[30] = byte(t)
	h[31] = HandleVersion
	return h
}

var (
	ErrUnknownHandle          = errors.New("fhe: unknown handle")
	ErrTypeMismatch           = errors.New("fhe: handle type mismatch")
	ErrNotAllowed             = errors.New("fhe: account not allowed to decrypt handle")
	ErrNotPubliclyDecryptable = errors.New("fhe: handle is not publicly decryptable")
	ErrInvalidSignature       = errors.New("fhe: invalid signature")
	ErrArithmeticOverflow     = errors.New("fhe: arithmetic overflow")
)

// Service is the encryption service consumed by the ledger contracts.
// Calls are synchronous; a returned error aborts the calling operation.
type Service interface {
	// Encrypt produces a handle for the clear value, bound to the contract that requested it.
	Encrypt(contract cstake.Address, v uint64) (Handle, error)
	// Add returns a handle to the homomorphic sum of a and b.
	Add(a, b Handle) (Handle, error)

	// Allow grants account permission to request private decryption of h.
	Allow(h Handle, account cstake.Address) error
	IsAllowed(h Handle, account cstake.Address) (bool, error)

	// MakePubliclyDecryptable flags h as eligible for proof-based public decryption.
	MakePubliclyDecryptable(h Handle) error
	IsPubliclyDecryptable(h Handle) (bool, error)

	// VerifyDecryption checks that proof attests h decrypts to clear.
	VerifyDecryption(h Handle, clear uint64, proof []byte) (bool, error)
}
