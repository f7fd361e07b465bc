// Package protocol defines the wire types and pure functions of the
// deposit-gated signature request protocol: request identifiers, the
// signature encoding produced by the signer network, the fee-payer variants,
// and the outcome encoding of remote executions.
package protocol

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
)

// RequestID is the 256-bit identifier binding a request to its response.
// It is derived, never stored: requester and signer compute it independently
// from the request fields.
type RequestID [32]byte

// Hex returns the 0x-prefixed hex form of the identifier.
func (id RequestID) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id RequestID) String() string { return id.Hex() }

// MarshalJSON encodes the identifier as a 0x-prefixed hex string.
func (id RequestID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON decodes a 0x-prefixed hex string of exactly 32 bytes.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return fmt.Errorf("invalid request id: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("invalid request id length: expected 32 bytes, got %d", len(raw))
	}
	copy(id[:], raw)
	return nil
}

// RequestIDFromHex parses a 0x-prefixed or bare hex identifier.
func RequestIDFromHex(s string) (RequestID, error) {
	var id RequestID
	if len(s) >= 2 && s[:2] != "0x" {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return id, fmt.Errorf("invalid request id: %w", err)
	}
	if len(raw) != 32 {
		return id, fmt.Errorf("invalid request id length: expected 32 bytes, got %d", len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// AffinePoint is a secp256k1 curve point as two big-endian coordinates.
type AffinePoint struct {
	X [32]byte
	Y [32]byte
}

// Signature is the ECDSA signature produced by the signer network. BigR
// carries the full R point; RecoveryID disambiguates public key recovery.
type Signature struct {
	BigR       AffinePoint
	S          [32]byte
	RecoveryID byte
}

// Compact returns the 65-byte [R.X || S || V] form expected by secp256k1
// public key recovery.
func (s Signature) Compact() [65]byte {
	var out [65]byte
	copy(out[:32], s.BigR.X[:])
	copy(out[32:64], s.S[:])
	out[64] = s.RecoveryID
	return out
}

// signatureJSON is the wire representation of Signature.
type signatureJSON struct {
	BigR struct {
		X hexutil.Bytes `json:"x"`
		Y hexutil.Bytes `json:"y"`
	} `json:"big_r"`
	S          hexutil.Bytes `json:"s"`
	RecoveryID byte          `json:"recovery_id"`
}

// MarshalJSON encodes the signature with hex coordinate strings.
func (s Signature) MarshalJSON() ([]byte, error) {
	var w signatureJSON
	w.BigR.X = s.BigR.X[:]
	w.BigR.Y = s.BigR.Y[:]
	w.S = s.S[:]
	w.RecoveryID = s.RecoveryID
	return json.Marshal(w)
}

// UnmarshalJSON decodes the hex wire representation, enforcing coordinate widths.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var w signatureJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.BigR.X) != 32 || len(w.BigR.Y) != 32 || len(w.S) != 32 {
		return fmt.Errorf("invalid signature: coordinates must be 32 bytes")
	}
	copy(s.BigR.X[:], w.BigR.X)
	copy(s.BigR.Y[:], w.BigR.Y)
	copy(s.S[:], w.S)
	s.RecoveryID = w.RecoveryID
	return nil
}

// FeePayer selects who funds the deposit of a request: the requester itself
// or a distinct identity. The two cases are exhaustive; there is no unset
// state.
type FeePayer struct {
	distinct bool
	key      solana.PublicKey
}

// SelfFunded returns the fee payer variant where the requester pays its own deposit.
func SelfFunded() FeePayer {
	return FeePayer{}
}

// PaidBy returns the fee payer variant where a distinct identity pays the deposit.
func PaidBy(key solana.PublicKey) FeePayer {
	return FeePayer{distinct: true, key: key}
}

// Resolve returns the identity actually charged for the deposit.
func (f FeePayer) Resolve(requester solana.PublicKey) solana.PublicKey {
	if f.distinct {
		return f.key
	}
	return requester
}

// Distinct returns the payer identity and true when the payer differs from
// the requester.
func (f FeePayer) Distinct() (solana.PublicKey, bool) {
	return f.key, f.distinct
}
