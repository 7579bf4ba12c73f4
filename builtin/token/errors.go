// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/vechain/cstake/builtin/reverts"

var (
	ErrUnauthorizedMinter = reverts.NewCustomError("UnauthorizedMinter")
	ErrUnauthorizedOwner  = reverts.NewCustomError("UnauthorizedOwner")
)

// Errors returns all revert errors of the token.
func Errors() []*reverts.CustomError {
	return []*reverts.CustomError{ErrUnauthorizedMinter, ErrUnauthorizedOwner}
}
