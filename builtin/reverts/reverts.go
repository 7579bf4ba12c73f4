// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

// errorSelector is the 4-byte selector for Error(string).
var errorSelector = [4]byte{0x08, 0xc3, 0x79, 0xa0}

type ErrRequire struct {
	message string
}

func NewRequireError(message string) *ErrRequire {
	return &ErrRequire{
		message: message,
	}
}

func (e *ErrRequire) Error() string {
	return e.message
}

func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}

	msgBytes := []byte(e.message)
	msgLen := uint64(len(msgBytes))

	// ABI-encode
	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, errorSelector[:]...)

	// Offset is always 0x20 (32) after the selector
	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

// CustomError is a solidity custom error without arguments, e.g. `error InvalidAmount();`.
// Two custom errors are the same error when their selectors match.
type CustomError struct {
	name     string
	selector [4]byte
}

// NewCustomError creates the custom error for the given name.
// The selector is the first 4 bytes of keccak256("Name()").
func NewCustomError(name string) *CustomError {
	e := &CustomError{name: name}
	copy(e.selector[:], crypto.Keccak256([]byte(name+"()")))
	return e
}

func (e *CustomError) Error() string {
	return e.name
}

// Name returns the solidity error name.
func (e *CustomError) Name() string {
	return e.name
}

// Selector returns the 4-byte error selector.
func (e *CustomError) Selector() [4]byte {
	return e.selector
}

// Is reports whether target is a custom error with the same selector.
func (e *CustomError) Is(target error) bool {
	var ce *CustomError
	if errors.As(target, &ce) {
		return ce.selector == e.selector
	}
	return false
}

// Bytes returns the ABI-encoded revert data, which is the bare selector.
func (e *CustomError) Bytes() []byte {
	if e == nil {
		return nil
	}
	return append([]byte(nil), e.selector[:]...)
}

// IsRevertErr reports whether err is a revert raised by contract logic.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var re *ErrRequire
	if errors.As(e, &re) {
		return re != nil
	}
	var ce *CustomError
	if errors.As(e, &ce) {
		return ce != nil
	}
	return false
}

// RevertData returns the ABI-encoded revert payload of err, or nil if err is not a revert.
func RevertData(err error) []byte {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Bytes()
	}
	var re *ErrRequire
	if errors.As(err, &re) {
		return re.Bytes()
	}
	return nil
}
