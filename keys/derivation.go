// Package keys implements the additive secp256k1 key derivation scheme and
// the response authentication check built on it. One root key held by the
// external signer anchors every derived key: given a deterministic scalar
// epsilon, the sub-key is root + epsilon*G, so any third party can compute
// the sub-key without contacting the signer.
package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// ResponsePath is the reserved derivation path of the key that signs
// outcome attestations. Keeping it disjoint from every caller-supplied path
// means a compromised transaction-signing flow cannot forge result
// attestations, and vice versa.
const ResponsePath = "solana response key"

// epsilonDerivationPrefix versions the derivation encoding. Changing the
// encoding means changing this string.
const epsilonDerivationPrefix = "signet v1.0.0 epsilon derivation"

// DeriveEpsilon computes the scalar offset for (requester, path) under one
// key epoch. The preimage is a single unambiguous string:
//
//	<prefix>:<chainID>,<requester_base58>,<key_version>,<path>
//
// hashed with keccak256 and reduced mod the curve order. chainID is the
// escrow instance's network id, so deployments on different ledgers derive
// disjoint key spaces from the same root.
func DeriveEpsilon(chainID string, requester solana.PublicKey, keyVersion uint32, path string) *secp256k1.ModNScalar {
	preimage := fmt.Sprintf("%s:%s,%s,%d,%s",
		epsilonDerivationPrefix, chainID, requester.String(), keyVersion, path)
	digest := crypto.Keccak256([]byte(preimage))

	var epsilon secp256k1.ModNScalar
	epsilon.SetByteSlice(digest)
	return &epsilon
}

// DerivePublicKey computes root + epsilon*G.
func DerivePublicKey(root *ecdsa.PublicKey, epsilon *secp256k1.ModNScalar) (*ecdsa.PublicKey, error) {
	rootPub, err := secp256k1.ParsePubKey(crypto.FromECDSAPub(root))
	if err != nil {
		return nil, fmt.Errorf("invalid root public key: %w", err)
	}

	var rootPoint, epsilonPoint, sum secp256k1.JacobianPoint
	rootPub.AsJacobian(&rootPoint)
	secp256k1.ScalarBaseMultNonConst(epsilon, &epsilonPoint)
	secp256k1.AddNonConst(&rootPoint, &epsilonPoint, &sum)

	if (sum.X.IsZero() && sum.Y.IsZero()) || sum.Z.IsZero() {
		return nil, fmt.Errorf("derived key is the point at infinity")
	}
	sum.ToAffine()

	return secp256k1.NewPublicKey(&sum.X, &sum.Y).ToECDSA(), nil
}

// DeriveAddress computes the EVM-style address of the sub-key for
// (requester, path): last 20 bytes of keccak256 over the uncompressed
// public key.
func DeriveAddress(root *ecdsa.PublicKey, chainID string, requester solana.PublicKey, keyVersion uint32, path string) (common.Address, error) {
	epsilon := DeriveEpsilon(chainID, requester, keyVersion, path)
	derived, err := DerivePublicKey(root, epsilon)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*derived), nil
}

// ParsePublicKey decodes a hex secp256k1 public key, compressed (33 bytes)
// or uncompressed (65 bytes), with or without 0x prefix.
func ParsePublicKey(s string) (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("public key is not valid hex: %w", err)
	}
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid secp256k1 public key: %w", err)
	}
	return pub.ToECDSA(), nil
}
