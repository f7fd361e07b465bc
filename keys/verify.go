package keys

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"

	"github.com/signet-protocol/signet-node/errors"
	"github.com/signet-protocol/signet-node/protocol"
)

// ResponseMessageHash computes the hash the signer network signs when
// attesting an outcome: keccak256(request_id || serialized_output).
func ResponseMessageHash(requestID protocol.RequestID, serializedOutput []byte) []byte {
	msg := make([]byte, 0, len(requestID)+len(serializedOutput))
	msg = append(msg, requestID[:]...)
	msg = append(msg, serializedOutput...)
	return crypto.Keccak256(msg)
}

// RecoverSigner recovers the EVM-style address that produced sig over
// messageHash, using the signature's recovery id.
func RecoverSigner(messageHash []byte, sig protocol.Signature) (common.Address, error) {
	compact := sig.Compact()
	pub, err := crypto.SigToPub(messageHash, compact[:])
	if err != nil {
		return common.Address{}, errors.New(errors.CodeInvalidSignature, "signature recovery failed").WithCause(err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifyResponse is the trust anchor of the protocol. Anyone may submit a
// response record; this check — not the submitter's identity — decides
// whether it is authentic. It accepts iff the signature over
// keccak256(request_id || output) recovers to the address derived for the
// requester under the reserved response path.
func VerifyResponse(
	root *ecdsa.PublicKey,
	chainID string,
	requester solana.PublicKey,
	keyVersion uint32,
	requestID protocol.RequestID,
	serializedOutput []byte,
	sig protocol.Signature,
) error {
	expected, err := DeriveAddress(root, chainID, requester, keyVersion, ResponsePath)
	if err != nil {
		return errors.New(errors.CodeInvalidSignature, "failed to derive response key").WithCause(err)
	}

	recovered, err := RecoverSigner(ResponseMessageHash(requestID, serializedOutput), sig)
	if err != nil {
		return err
	}

	if recovered != expected {
		return errors.New(errors.CodeInvalidSignature, "response signature does not recover to the response-path key").
			WithContext("expected", expected.Hex()).
			WithContext("recovered", recovered.Hex())
	}
	return nil
}
