package protocol

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Event types of the record stream. Records are append-only facts; consumers
// subscribe to the stream rather than polling mutable state.
//
// Everything under "diagnostic." is an unverified informational channel:
// submission is unauthenticated and nothing in it may feed a trust decision.
// Authenticity of "signature.responded" and "bidirectional.responded" is
// established by signature recovery (keys.VerifyResponse), never by the
// responder identity recorded on the event.
const (
	TypeSignatureRequested     = "signature.requested"
	TypeBidirectionalRequested = "bidirectional.requested"
	TypeSignatureResponded     = "signature.responded"
	TypeBidirectionalResponded = "bidirectional.responded"
	TypeDepositUpdated         = "deposit.updated"
	TypeFundsWithdrawn         = "funds.withdrawn"
	TypeAccountFunded          = "account.funded"
	TypeDiagnosticError        = "diagnostic.error"
)

// SignatureRequestedEvent records a direct signing request and the deposit
// escrowed for it.
type SignatureRequestedEvent struct {
	Sender     string        `json:"sender"`
	Payload    hexutil.Bytes `json:"payload"`
	KeyVersion uint32        `json:"key_version"`
	Deposit    uint64        `json:"deposit"`
	ChainID    string        `json:"chain_id"`
	Path       string        `json:"path"`
	Algo       string        `json:"algo"`
	Dest       string        `json:"dest"`
	Params     string        `json:"params"`
	FeePayer   *string       `json:"fee_payer,omitempty"` // present only when distinct from sender
}

// BidirectionalRequestedEvent records a bidirectional request: transaction
// bytes for a destination ledger plus the schemas the signer needs to report
// the outcome back.
type BidirectionalRequestedEvent struct {
	Sender                string        `json:"sender"`
	SerializedTransaction hexutil.Bytes `json:"serialized_transaction"`
	CAIP2ID               string        `json:"caip2_id"`
	KeyVersion            uint32        `json:"key_version"`
	Deposit               uint64        `json:"deposit"`
	Path                  string        `json:"path"`
	Algo                  string        `json:"algo"`
	Dest                  string        `json:"dest"`
	Params                string        `json:"params"`
	Callback              string        `json:"callback"`
	OutputSchema          hexutil.Bytes `json:"output_deserialization_schema"`
	RespondSchema         hexutil.Bytes `json:"respond_serialization_schema"`
	FeePayer              *string       `json:"fee_payer,omitempty"`
}

// SignatureRespondedEvent records one signature produced for a request.
type SignatureRespondedEvent struct {
	RequestID RequestID `json:"request_id"`
	Responder string    `json:"responder"`
	Signature Signature `json:"signature"`
}

// BidirectionalRespondedEvent records the attested outcome of a remote
// execution. The signature covers keccak256(request_id || serialized_output)
// under the response-path key.
type BidirectionalRespondedEvent struct {
	RequestID        RequestID     `json:"request_id"`
	Responder        string        `json:"responder"`
	SerializedOutput hexutil.Bytes `json:"serialized_output"`
	Signature        Signature     `json:"signature"`
}

// DepositUpdatedEvent records an admin change of the required deposit.
type DepositUpdatedEvent struct {
	OldDeposit uint64 `json:"old_deposit"`
	NewDeposit uint64 `json:"new_deposit"`
}

// FundsWithdrawnEvent records an admin withdrawal from the pool.
type FundsWithdrawnEvent struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
}

// AccountFundedEvent records a hosting-ledger balance credit.
type AccountFundedEvent struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Balance   uint64 `json:"balance"`
}

// DiagnosticErrorEvent is an unverified signer diagnostic for a request.
// Informational only: never authenticated, never a trust input.
type DiagnosticErrorEvent struct {
	RequestID RequestID `json:"request_id"`
	Responder string    `json:"responder"`
	Message   string    `json:"message"`
}
