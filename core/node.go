// Package core wires the protocol together: each exported operation runs as
// one database transaction — escrow movement plus record emission commit
// together or not at all — and live subscribers are notified only after
// commit.
package core

import (
	"crypto/ecdsa"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/signet-protocol/signet-node/config"
	"github.com/signet-protocol/signet-node/db"
	"github.com/signet-protocol/signet-node/errors"
	"github.com/signet-protocol/signet-node/escrow"
	"github.com/signet-protocol/signet-node/events"
	"github.com/signet-protocol/signet-node/keys"
	"github.com/signet-protocol/signet-node/protocol"
	"github.com/signet-protocol/signet-node/store"
)

// Node hosts the protocol operations over the node database.
type Node struct {
	logger   zerolog.Logger
	database *db.DB
	cfg      config.Config
	ledger   *escrow.Ledger
	emitter  *events.Emitter
	rootKey  *ecdsa.PublicKey // nil until a signer root key is configured
}

// NewNode creates a Node. The signer root key is optional; without it the
// /verify operation is unavailable but everything else works.
func NewNode(cfg config.Config, database *db.DB, logger zerolog.Logger) (*Node, error) {
	var rootKey *ecdsa.PublicKey
	if cfg.RootPublicKey != "" {
		parsed, err := keys.ParsePublicKey(cfg.RootPublicKey)
		if err != nil {
			return nil, errors.Wrap(err, "invalid root public key in config")
		}
		rootKey = parsed
	}

	return &Node{
		logger:   logger.With().Str("component", "core").Logger(),
		database: database,
		cfg:      cfg,
		ledger:   escrow.NewLedger(logger),
		emitter:  events.NewEmitter(logger),
		rootKey:  rootKey,
	}, nil
}

// Emitter exposes the record stream for subscription.
func (n *Node) Emitter() *events.Emitter {
	return n.emitter
}

// Bootstrap creates the program state on first run; an existing state is
// left untouched, so admin and network id are immutable after creation.
func (n *Node) Bootstrap() error {
	return n.database.Transaction(func(tx *gorm.DB) error {
		if state, err := escrow.State(tx); err == nil {
			n.logger.Info().
				Str("admin", state.Admin).
				Str("network_id", state.NetworkID).
				Uint64("required_deposit", state.RequiredDeposit).
				Msg("program state ready")
			return nil
		} else if !errors.IsCode(err, errors.CodeNotFound) {
			return err
		}

		if n.cfg.AdminAddress == "" {
			return errors.New(errors.CodeMalformedRequest, "admin_address must be configured before bootstrap")
		}
		admin, err := solana.PublicKeyFromBase58(n.cfg.AdminAddress)
		if err != nil {
			return errors.New(errors.CodeMalformedRequest, "admin_address is not a valid identity").WithCause(err)
		}

		state, err := escrow.Bootstrap(tx, admin, n.cfg.NetworkID, n.cfg.InitialDeposit)
		if err != nil {
			return err
		}
		n.logger.Info().
			Str("admin", state.Admin).
			Str("network_id", state.NetworkID).
			Uint64("required_deposit", state.RequiredDeposit).
			Msg("program state created")
		return nil
	})
}

// RequestSignature escrows the deposit and emits the request record for the
// direct signing flow. Returns the derived request identifier.
func (n *Node) RequestSignature(req protocol.SignRequest) (protocol.RequestID, error) {
	var (
		requestID protocol.RequestID
		emitted   *store.EventRecord
	)

	err := n.database.Transaction(func(tx *gorm.DB) error {
		state, err := escrow.State(tx)
		if err != nil {
			return err
		}

		payer := req.FeePayer.Resolve(req.Requester)
		deposit, err := n.ledger.Collect(tx, payer)
		if err != nil {
			return err
		}

		requestID = req.ID(state.NetworkID)

		payload := protocol.SignatureRequestedEvent{
			Sender:     req.Requester.String(),
			Payload:    req.Payload[:],
			KeyVersion: req.KeyVersion,
			Deposit:    deposit,
			ChainID:    state.NetworkID,
			Path:       req.Path,
			Algo:       req.Algo,
			Dest:       req.Dest,
			Params:     req.Params,
		}
		if feePayer, distinct := req.FeePayer.Distinct(); distinct {
			s := feePayer.String()
			payload.FeePayer = &s
		}

		emitted, err = n.emitter.Append(tx, protocol.TypeSignatureRequested, payload)
		return err
	})
	if err != nil {
		return protocol.RequestID{}, err
	}

	n.emitter.Publish(emitted)
	n.logger.Info().
		Str("request_id", requestID.Hex()).
		Str("requester", req.Requester.String()).
		Msg("signature requested")
	return requestID, nil
}

// RequestBidirectional escrows the deposit and emits the request record for
// the bidirectional flow. The serialized transaction must be non-empty.
func (n *Node) RequestBidirectional(req protocol.BidirectionalRequest) (protocol.RequestID, error) {
	if len(req.SerializedTransaction) == 0 {
		return protocol.RequestID{}, errors.New(errors.CodeMalformedRequest, "serialized transaction must not be empty")
	}

	var emitted *store.EventRecord
	requestID := req.ID()

	err := n.database.Transaction(func(tx *gorm.DB) error {
		payer := req.FeePayer.Resolve(req.Requester)
		deposit, err := n.ledger.Collect(tx, payer)
		if err != nil {
			return err
		}

		payload := protocol.BidirectionalRequestedEvent{
			Sender:                req.Requester.String(),
			SerializedTransaction: req.SerializedTransaction,
			CAIP2ID:               req.CAIP2ID,
			KeyVersion:            req.KeyVersion,
			Deposit:               deposit,
			Path:                  req.Path,
			Algo:                  req.Algo,
			Dest:                  req.Dest,
			Params:                req.Params,
			Callback:              req.Callback,
			OutputSchema:          req.OutputSchema,
			RespondSchema:         req.RespondSchema,
		}
		if feePayer, distinct := req.FeePayer.Distinct(); distinct {
			s := feePayer.String()
			payload.FeePayer = &s
		}

		emitted, err = n.emitter.Append(tx, protocol.TypeBidirectionalRequested, payload)
		return err
	})
	if err != nil {
		return protocol.RequestID{}, err
	}

	n.emitter.Publish(emitted)
	n.logger.Info().
		Str("request_id", requestID.Hex()).
		Str("caip2_id", req.CAIP2ID).
		Msg("bidirectional signature requested")
	return requestID, nil
}

// SubmitSignatures emits one response record per (request_id, signature)
// pair, in input order. A length mismatch rejects the whole batch and emits
// nothing. Submission is open to any party; authenticity of each signature
// is a consumer-side check.
func (n *Node) SubmitSignatures(responder solana.PublicKey, requestIDs []protocol.RequestID, signatures []protocol.Signature) (int, error) {
	if len(requestIDs) != len(signatures) {
		return 0, errors.New(errors.CodeInvalidInputLength, "request id and signature arrays must have the same length").
			WithContext("request_ids", len(requestIDs)).
			WithContext("signatures", len(signatures))
	}

	emitted := make([]*store.EventRecord, 0, len(requestIDs))
	err := n.database.Transaction(func(tx *gorm.DB) error {
		for i := range requestIDs {
			payload := protocol.SignatureRespondedEvent{
				RequestID: requestIDs[i],
				Responder: responder.String(),
				Signature: signatures[i],
			}
			row, err := n.emitter.Append(tx, protocol.TypeSignatureResponded, payload)
			if err != nil {
				return err
			}
			emitted = append(emitted, row)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	n.emitter.Publish(emitted...)
	n.logger.Info().
		Int("count", len(emitted)).
		Str("responder", responder.String()).
		Msg("signatures submitted")
	return len(emitted), nil
}

// SubmitErrors emits one diagnostic record per (request_id, message) pair.
// The channel is unauthenticated and informational only.
func (n *Node) SubmitErrors(responder solana.PublicKey, requestIDs []protocol.RequestID, messages []string) (int, error) {
	if len(requestIDs) != len(messages) {
		return 0, errors.New(errors.CodeInvalidInputLength, "request id and message arrays must have the same length").
			WithContext("request_ids", len(requestIDs)).
			WithContext("messages", len(messages))
	}

	emitted := make([]*store.EventRecord, 0, len(requestIDs))
	err := n.database.Transaction(func(tx *gorm.DB) error {
		for i := range requestIDs {
			payload := protocol.DiagnosticErrorEvent{
				RequestID: requestIDs[i],
				Responder: responder.String(),
				Message:   messages[i],
			}
			row, err := n.emitter.Append(tx, protocol.TypeDiagnosticError, payload)
			if err != nil {
				return err
			}
			emitted = append(emitted, row)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	n.emitter.Publish(emitted...)
	return len(emitted), nil
}

// SubmitBidirectionalResult emits the outcome record of a remote execution
// and returns its classification. Submission is unauthenticated; consumers
// establish authenticity via VerifyResult or keys.VerifyResponse.
func (n *Node) SubmitBidirectionalResult(
	responder solana.PublicKey,
	requestID protocol.RequestID,
	serializedOutput []byte,
	sig protocol.Signature,
) (protocol.Outcome, error) {
	var emitted *store.EventRecord

	err := n.database.Transaction(func(tx *gorm.DB) error {
		payload := protocol.BidirectionalRespondedEvent{
			RequestID:        requestID,
			Responder:        responder.String(),
			SerializedOutput: serializedOutput,
			Signature:        sig,
		}
		var err error
		emitted, err = n.emitter.Append(tx, protocol.TypeBidirectionalResponded, payload)
		return err
	})
	if err != nil {
		return protocol.Outcome{}, err
	}

	n.emitter.Publish(emitted)

	outcome := protocol.ParseOutcome(serializedOutput)
	n.logger.Info().
		Str("request_id", requestID.Hex()).
		Bool("failed", outcome.Failed).
		Msg("bidirectional result submitted")
	return outcome, nil
}

// VerifyResult performs the response authentication check for a consumer:
// accepted iff the signature over keccak256(request_id || output) recovers
// to the requester's response-path key. Returns the outcome classification
// on success.
func (n *Node) VerifyResult(
	requester solana.PublicKey,
	keyVersion uint32,
	requestID protocol.RequestID,
	serializedOutput []byte,
	sig protocol.Signature,
) (protocol.Outcome, error) {
	if n.rootKey == nil {
		return protocol.Outcome{}, errors.New(errors.CodeNotFound, "signer root public key not configured")
	}

	var networkID string
	err := n.database.Transaction(func(tx *gorm.DB) error {
		state, err := escrow.State(tx)
		if err != nil {
			return err
		}
		networkID = state.NetworkID
		return nil
	})
	if err != nil {
		return protocol.Outcome{}, err
	}

	if err := keys.VerifyResponse(n.rootKey, networkID, requester, keyVersion, requestID, serializedOutput, sig); err != nil {
		return protocol.Outcome{}, err
	}
	return protocol.ParseOutcome(serializedOutput), nil
}

// ConfigureDeposit replaces the required deposit. Admin only.
func (n *Node) ConfigureDeposit(caller solana.PublicKey, newDeposit uint64) error {
	var emitted *store.EventRecord

	err := n.database.Transaction(func(tx *gorm.DB) error {
		oldDeposit, err := n.ledger.Configure(tx, caller, newDeposit)
		if err != nil {
			return err
		}
		emitted, err = n.emitter.Append(tx, protocol.TypeDepositUpdated, protocol.DepositUpdatedEvent{
			OldDeposit: oldDeposit,
			NewDeposit: newDeposit,
		})
		return err
	})
	if err != nil {
		return err
	}

	n.emitter.Publish(emitted)
	return nil
}

// Withdraw moves pooled funds to a recipient. Admin only.
func (n *Node) Withdraw(caller, recipient solana.PublicKey, amount uint64) error {
	var emitted *store.EventRecord

	err := n.database.Transaction(func(tx *gorm.DB) error {
		if err := n.ledger.Withdraw(tx, caller, recipient, amount); err != nil {
			return err
		}
		var err error
		emitted, err = n.emitter.Append(tx, protocol.TypeFundsWithdrawn, protocol.FundsWithdrawnEvent{
			Amount:    amount,
			Recipient: recipient.String(),
		})
		return err
	})
	if err != nil {
		return err
	}

	n.emitter.Publish(emitted)
	return nil
}

// FundAccount credits a hosting-ledger balance. Returns the new balance.
func (n *Node) FundAccount(recipient solana.PublicKey, amount uint64) (uint64, error) {
	var (
		balance uint64
		emitted *store.EventRecord
	)

	err := n.database.Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = n.ledger.Fund(tx, recipient, amount)
		if err != nil {
			return err
		}
		emitted, err = n.emitter.Append(tx, protocol.TypeAccountFunded, protocol.AccountFundedEvent{
			Recipient: recipient.String(),
			Amount:    amount,
			Balance:   balance,
		})
		return err
	})
	if err != nil {
		return 0, err
	}

	n.emitter.Publish(emitted)
	return balance, nil
}

// RequiredDeposit returns the deposit currently collected per request.
func (n *Node) RequiredDeposit() (uint64, error) {
	var deposit uint64
	err := n.database.Transaction(func(tx *gorm.DB) error {
		var err error
		deposit, err = n.ledger.RequiredDeposit(tx)
		return err
	})
	return deposit, err
}

// Balance returns a hosting-ledger account balance.
func (n *Node) Balance(identity solana.PublicKey) (uint64, error) {
	var balance uint64
	err := n.database.Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = n.ledger.Balance(tx, identity)
		return err
	})
	return balance, err
}

// NetworkID returns the chain identifier of this escrow instance.
func (n *Node) NetworkID() (string, error) {
	var networkID string
	err := n.database.Transaction(func(tx *gorm.DB) error {
		state, err := escrow.State(tx)
		if err != nil {
			return err
		}
		networkID = state.NetworkID
		return nil
	})
	return networkID, err
}

// ReplayEvents returns committed records after the given cursor.
func (n *Node) ReplayEvents(afterID uint, limit int) ([]events.Record, error) {
	return events.Replay(n.database.Client(), afterID, limit)
}
