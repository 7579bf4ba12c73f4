// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// Error is a solidity custom error declared in the ABI.
type Error struct {
	id  MethodID
	err *ethabi.Error
}

// ID returns the 4-byte error selector.
func (e *Error) ID() MethodID {
	return e.id
}

// Name returns the error name.
func (e *Error) Name() string {
	return e.err.Name
}

// Sig returns the canonical signature, e.g. InvalidAmount().
func (e *Error) Sig() string {
	return e.err.Sig
}
