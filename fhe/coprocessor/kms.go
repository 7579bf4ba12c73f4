// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coprocessor

import (
	"crypto/ecdsa"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe"
)

const signatureLength = crypto.SignatureLength

var (
	decryptionDomain     = []byte("cstake/public-decryption/v1")
	userDecryptionDomain = []byte("cstake/user-decryption/v1")
)

// DecryptionDigest is the digest KMS signers sign to attest that h decrypts to clear.
func DecryptionDigest(h fhe.Handle, clear uint64) cstake.Bytes32 {
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], clear)
	return cstake.Keccak256(decryptionDomain, h[:], v[:])
}

// UserDecryptionDigest is the digest a user signs to request private decryption of h.
func UserDecryptionDigest(h fhe.Handle, user cstake.Address) cstake.Bytes32 {
	return cstake.Keccak256(userDecryptionDomain, h[:], user[:])
}

// SignUserDecryption signs a private decryption request of h with the user's key.
func SignUserDecryption(h fhe.Handle, key *ecdsa.PrivateKey) ([]byte, error) {
	digest := UserDecryptionDigest(h, cstake.Address(crypto.PubkeyToAddress(key.PublicKey)))
	return crypto.Sign(digest[:], key)
}

func recoverSigner(digest cstake.Bytes32, sig []byte) (cstake.Address, error) {
	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return cstake.Address{}, errors.Wrap(fhe.ErrInvalidSignature, err.Error())
	}
	return cstake.Address(crypto.PubkeyToAddress(*pub)), nil
}

// KMS is the set of key-management signers attesting decryption results.
// A proof is the concatenation of 65-byte secp256k1 signatures.
type KMS struct {
	keys      []*ecdsa.PrivateKey
	signers   map[cstake.Address]bool
	ordered   []cstake.Address
	threshold int
}

// NewKMS creates the signer set. Threshold is the number of distinct signatures a proof needs.
func NewKMS(keys []*ecdsa.PrivateKey, threshold int) (*KMS, error) {
	if len(keys) == 0 {
		return nil, errors.New("kms: no signer keys")
	}
	if threshold <= 0 || threshold > len(keys) {
		return nil, errors.Errorf("kms: threshold %d out of range [1, %d]", threshold, len(keys))
	}
	k := &KMS{
		keys:      keys,
		signers:   make(map[cstake.Address]bool, len(keys)),
		threshold: threshold,
	}
	for _, key := range keys {
		addr := cstake.Address(crypto.PubkeyToAddress(key.PublicKey))
		if k.signers[addr] {
			return nil, errors.Errorf("kms: duplicated signer %v", addr)
		}
		k.signers[addr] = true
		k.ordered = append(k.ordered, addr)
	}
	return k, nil
}

// Signers returns signer addresses in key order.
func (k *KMS) Signers() []cstake.Address {
	return append([]cstake.Address(nil), k.ordered...)
}

// Threshold returns the number of signatures a proof needs.
func (k *KMS) Threshold() int {
	return k.threshold
}

// Prove signs the decryption result with the first threshold signers.
func (k *KMS) Prove(h fhe.Handle, clear uint64) ([]byte, error) {
	digest := DecryptionDigest(h, clear)
	proof := make([]byte, 0, k.threshold*signatureLength)
	for _, key := range k.keys[:k.threshold] {
		sig, err := crypto.Sign(digest[:], key)
		if err != nil {
			return nil, errors.Wrap(err, "kms sign")
		}
		proof = append(proof, sig...)
	}
	return proof, nil
}

// Verify checks that the proof carries at least threshold signatures from distinct known signers.
func (k *KMS) Verify(h fhe.Handle, clear uint64, proof []byte) (bool, error) {
	if len(proof) == 0 || len(proof)%signatureLength != 0 {
		return false, nil
	}
	digest := DecryptionDigest(h, clear)
	seen := make(map[cstake.Address]bool)
	for i := 0; i < len(proof); i += signatureLength {
		signer, err := recoverSigner(digest, proof[i:i+signatureLength])
		if err != nil {
			return false, nil
		}
		if k.signers[signer] {
			seen[signer] = true
		}
	}
	return len(seen) >= k.threshold, nil
}
