package api

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/signet-protocol/signet-node/protocol"
)

// ErrorResponse is the JSON error envelope returned on rejected operations.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SignRequest is the wire form of a direct signing request.
type SignRequest struct {
	Requester  string        `json:"requester"`
	FeePayer   string        `json:"fee_payer,omitempty"` // distinct deposit payer, optional
	Payload    hexutil.Bytes `json:"payload"`             // 32-byte hash to sign
	KeyVersion uint32        `json:"key_version"`
	Path       string        `json:"path"`
	Algo       string        `json:"algo"`
	Dest       string        `json:"dest"`
	Params     string        `json:"params"`
}

// SignBidirectionalRequest is the wire form of a bidirectional request.
type SignBidirectionalRequest struct {
	Requester             string        `json:"requester"`
	FeePayer              string        `json:"fee_payer,omitempty"`
	SerializedTransaction hexutil.Bytes `json:"serialized_transaction"`
	CAIP2ID               string        `json:"caip2_id"`
	KeyVersion            uint32        `json:"key_version"`
	Path                  string        `json:"path"`
	Algo                  string        `json:"algo"`
	Dest                  string        `json:"dest"`
	Params                string        `json:"params"`
	Callback              string        `json:"callback"`
	OutputSchema          hexutil.Bytes `json:"output_deserialization_schema"`
	RespondSchema         hexutil.Bytes `json:"respond_serialization_schema"`
}

// RequestCreatedResponse returns the derived identifier of a placed request.
type RequestCreatedResponse struct {
	RequestID protocol.RequestID `json:"request_id"`
}

// RespondRequest is a batch of signature responses.
type RespondRequest struct {
	Responder  string               `json:"responder"`
	RequestIDs []protocol.RequestID `json:"request_ids"`
	Signatures []protocol.Signature `json:"signatures"`
}

// RespondErrorRequest is a batch of unverified signer diagnostics.
type RespondErrorRequest struct {
	Responder  string               `json:"responder"`
	RequestIDs []protocol.RequestID `json:"request_ids"`
	Messages   []string             `json:"messages"`
}

// BatchAcceptedResponse reports how many records a batch emitted.
type BatchAcceptedResponse struct {
	Emitted int `json:"emitted"`
}

// RespondBidirectionalRequest carries one attested remote-execution outcome.
type RespondBidirectionalRequest struct {
	Responder        string             `json:"responder"`
	RequestID        protocol.RequestID `json:"request_id"`
	SerializedOutput hexutil.Bytes      `json:"serialized_output"`
	Signature        protocol.Signature `json:"signature"`
}

// OutcomeResponse is the classification of a submitted outcome.
type OutcomeResponse struct {
	RequestID protocol.RequestID `json:"request_id"`
	Failed    bool               `json:"failed"`
	Payload   hexutil.Bytes      `json:"payload"`
}

// VerifyRequest asks the node to run the response authentication check.
type VerifyRequest struct {
	Requester        string             `json:"requester"`
	KeyVersion       uint32             `json:"key_version"`
	RequestID        protocol.RequestID `json:"request_id"`
	SerializedOutput hexutil.Bytes      `json:"serialized_output"`
	Signature        protocol.Signature `json:"signature"`
}

// VerifyResponse reports the authentication result and, when authentic, the
// outcome classification.
type VerifyResponse struct {
	Authentic bool          `json:"authentic"`
	Failed    bool          `json:"failed"`
	Payload   hexutil.Bytes `json:"payload,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}

// DepositResponse reports the current required deposit and instance identity.
type DepositResponse struct {
	RequiredDeposit uint64 `json:"required_deposit"`
	NetworkID       string `json:"network_id"`
}

// ConfigureDepositRequest is the admin deposit reconfiguration.
type ConfigureDepositRequest struct {
	Caller     string `json:"caller"`
	NewDeposit uint64 `json:"new_deposit"`
}

// WithdrawRequest is the admin pool withdrawal.
type WithdrawRequest struct {
	Caller    string `json:"caller"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// FundRequest credits a hosting-ledger account.
type FundRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// BalanceResponse reports a hosting-ledger balance.
type BalanceResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}
