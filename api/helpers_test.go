// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

func bytesToHex(b []byte) string { return hex.EncodeToString(b) }

func selector(sig string) []byte { return crypto.Keccak256([]byte(sig))[:4] }
