package protocol

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// ComputeRequestID derives the identifier of a request as keccak256 over the
// packed concatenation of its fields in fixed order:
//
//	requester_base58 || payload || chainID || key_version (4-byte BE) ||
//	path || algo || dest || params
//
// The encoding is deliberately not length-prefixed: both sides of the
// protocol must reproduce this exact concatenation byte for byte. For the
// direct flow payload is the 32-byte hash to sign and chainID is the escrow
// instance's network id; for the bidirectional flow payload is the
// serialized destination transaction and chainID is the destination CAIP-2
// identifier.
func ComputeRequestID(
	requester solana.PublicKey,
	payload []byte,
	chainID string,
	keyVersion uint32,
	path string,
	algo string,
	dest string,
	params string,
) RequestID {
	var buf bytes.Buffer
	buf.WriteString(requester.String())
	buf.Write(payload)
	buf.WriteString(chainID)

	var kv [4]byte
	binary.BigEndian.PutUint32(kv[:], keyVersion)
	buf.Write(kv[:])

	buf.WriteString(path)
	buf.WriteString(algo)
	buf.WriteString(dest)
	buf.WriteString(params)

	var id RequestID
	copy(id[:], crypto.Keccak256(buf.Bytes()))
	return id
}

// SignRequest carries the parameters of a direct signing request.
type SignRequest struct {
	Requester  solana.PublicKey
	FeePayer   FeePayer
	Payload    [32]byte // hash to sign
	KeyVersion uint32
	Path       string
	Algo       string // reserved, forwarded verbatim
	Dest       string // reserved, forwarded verbatim
	Params     string // reserved, forwarded verbatim
}

// ID computes the request identifier for the direct flow. networkID is the
// chain identifier of the escrow instance the request is placed on.
func (r SignRequest) ID(networkID string) RequestID {
	return ComputeRequestID(
		r.Requester, r.Payload[:], networkID,
		r.KeyVersion, r.Path, r.Algo, r.Dest, r.Params,
	)
}

// BidirectionalRequest carries the parameters of a bidirectional request:
// a serialized destination-chain transaction to sign, execute remotely, and
// attest the outcome of.
type BidirectionalRequest struct {
	Requester             solana.PublicKey
	FeePayer              FeePayer
	SerializedTransaction []byte // opaque destination-chain encoding, must be non-empty
	CAIP2ID               string // destination ledger, e.g. "eip155:1"
	KeyVersion            uint32
	Path                  string
	Algo                  string
	Dest                  string
	Params                string
	Callback              string // reserved callback identity, forwarded verbatim
	OutputSchema          []byte // how the signer parses the destination return value
	RespondSchema         []byte // how the signer re-serializes it for the requester
}

// ID computes the request identifier for the bidirectional flow.
func (r BidirectionalRequest) ID() RequestID {
	return ComputeRequestID(
		r.Requester, r.SerializedTransaction, r.CAIP2ID,
		r.KeyVersion, r.Path, r.Algo, r.Dest, r.Params,
	)
}
