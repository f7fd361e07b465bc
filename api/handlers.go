package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/spf13/cast"

	"github.com/signet-protocol/signet-node/errors"
	"github.com/signet-protocol/signet-node/protocol"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleDeposit handles GET /v1/deposit
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	deposit, err := s.node.RequiredDeposit()
	if err != nil {
		s.writeError(w, err)
		return
	}
	networkID, err := s.node.NetworkID()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DepositResponse{
		RequiredDeposit: deposit,
		NetworkID:       networkID,
	})
}

// handleBalance handles GET /v1/balance/{address}
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	address, err := parseIdentity(mux.Vars(r)["address"], "address")
	if err != nil {
		s.writeError(w, err)
		return
	}
	balance, err := s.node.Balance(address)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BalanceResponse{
		Address: address.String(),
		Balance: balance,
	})
}

// handleSign handles POST /v1/sign
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	var req SignRequest
	if !s.decode(w, r, &req) {
		return
	}

	requester, err := parseIdentity(req.Requester, "requester")
	if err != nil {
		s.writeError(w, err)
		return
	}
	feePayer, err := parseFeePayer(req.FeePayer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Payload) != 32 {
		s.writeError(w, errors.Newf(errors.CodeMalformedRequest, "payload must be 32 bytes, got %d", len(req.Payload)))
		return
	}

	var payload [32]byte
	copy(payload[:], req.Payload)

	requestID, err := s.node.RequestSignature(protocol.SignRequest{
		Requester:  requester,
		FeePayer:   feePayer,
		Payload:    payload,
		KeyVersion: req.KeyVersion,
		Path:       req.Path,
		Algo:       req.Algo,
		Dest:       req.Dest,
		Params:     req.Params,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, RequestCreatedResponse{RequestID: requestID})
}

// handleSignBidirectional handles POST /v1/sign-bidirectional
func (s *Server) handleSignBidirectional(w http.ResponseWriter, r *http.Request) {
	var req SignBidirectionalRequest
	if !s.decode(w, r, &req) {
		return
	}

	requester, err := parseIdentity(req.Requester, "requester")
	if err != nil {
		s.writeError(w, err)
		return
	}
	feePayer, err := parseFeePayer(req.FeePayer)
	if err != nil {
		s.writeError(w, err)
		return
	}

	requestID, err := s.node.RequestBidirectional(protocol.BidirectionalRequest{
		Requester:             requester,
		FeePayer:              feePayer,
		SerializedTransaction: req.SerializedTransaction,
		CAIP2ID:               req.CAIP2ID,
		KeyVersion:            req.KeyVersion,
		Path:                  req.Path,
		Algo:                  req.Algo,
		Dest:                  req.Dest,
		Params:                req.Params,
		Callback:              req.Callback,
		OutputSchema:          req.OutputSchema,
		RespondSchema:         req.RespondSchema,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, RequestCreatedResponse{RequestID: requestID})
}

// handleRespond handles POST /v1/respond
func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if !s.decode(w, r, &req) {
		return
	}

	responder, err := parseIdentity(req.Responder, "responder")
	if err != nil {
		s.writeError(w, err)
		return
	}

	emitted, err := s.node.SubmitSignatures(responder, req.RequestIDs, req.Signatures)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BatchAcceptedResponse{Emitted: emitted})
}

// handleRespondError handles POST /v1/respond-error
func (s *Server) handleRespondError(w http.ResponseWriter, r *http.Request) {
	var req RespondErrorRequest
	if !s.decode(w, r, &req) {
		return
	}

	responder, err := parseIdentity(req.Responder, "responder")
	if err != nil {
		s.writeError(w, err)
		return
	}

	emitted, err := s.node.SubmitErrors(responder, req.RequestIDs, req.Messages)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BatchAcceptedResponse{Emitted: emitted})
}

// handleRespondBidirectional handles POST /v1/respond-bidirectional
func (s *Server) handleRespondBidirectional(w http.ResponseWriter, r *http.Request) {
	var req RespondBidirectionalRequest
	if !s.decode(w, r, &req) {
		return
	}

	responder, err := parseIdentity(req.Responder, "responder")
	if err != nil {
		s.writeError(w, err)
		return
	}

	outcome, err := s.node.SubmitBidirectionalResult(responder, req.RequestID, req.SerializedOutput, req.Signature)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, OutcomeResponse{
		RequestID: req.RequestID,
		Failed:    outcome.Failed,
		Payload:   outcome.Payload,
	})
}

// handleVerify handles POST /v1/verify
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !s.decode(w, r, &req) {
		return
	}

	requester, err := parseIdentity(req.Requester, "requester")
	if err != nil {
		s.writeError(w, err)
		return
	}

	outcome, err := s.node.VerifyResult(requester, req.KeyVersion, req.RequestID, req.SerializedOutput, req.Signature)
	if err != nil {
		if errors.IsCode(err, errors.CodeInvalidSignature) {
			s.writeJSON(w, http.StatusOK, VerifyResponse{
				Authentic: false,
				Reason:    err.Error(),
			})
			return
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, VerifyResponse{
		Authentic: true,
		Failed:    outcome.Failed,
		Payload:   outcome.Payload,
	})
}

// handleConfigureDeposit handles POST /v1/admin/deposit
func (s *Server) handleConfigureDeposit(w http.ResponseWriter, r *http.Request) {
	var req ConfigureDepositRequest
	if !s.decode(w, r, &req) {
		return
	}

	caller, err := parseIdentity(req.Caller, "caller")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.node.ConfigureDeposit(caller, req.NewDeposit); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWithdraw handles POST /v1/admin/withdraw
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if !s.decode(w, r, &req) {
		return
	}

	caller, err := parseIdentity(req.Caller, "caller")
	if err != nil {
		s.writeError(w, err)
		return
	}
	// The zero identity must reach the ledger's own InvalidRecipient check,
	// so the recipient is parsed permissively here.
	recipient, err := parseIdentityAllowZero(req.Recipient)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.node.Withdraw(caller, recipient, req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFund handles POST /v1/admin/fund
func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	var req FundRequest
	if !s.decode(w, r, &req) {
		return
	}

	recipient, err := parseIdentity(req.Recipient, "recipient")
	if err != nil {
		s.writeError(w, err)
		return
	}

	balance, err := s.node.FundAccount(recipient, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BalanceResponse{
		Address: recipient.String(),
		Balance: balance,
	})
}

// handleEvents handles GET /v1/events?after=<id>&limit=<n>
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	after := cast.ToUint(r.URL.Query().Get("after"))
	limit := cast.ToInt(r.URL.Query().Get("limit"))

	records, err := s.node.ReplayEvents(after, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

// handleEventStream handles GET /v1/events/stream as server-sent events.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	records, cancel := s.node.Emitter().Subscribe(64)
	defer cancel()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case record, open := <-records:
			if !open {
				return
			}
			data, err := json.Marshal(record)
			if err != nil {
				s.logger.Error().Err(err).Msg("failed to marshal event record")
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", record.ID, record.Type, data)
			flusher.Flush()
		}
	}
}

// decode reads a JSON body, reporting a malformed-request error on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, errors.New(errors.CodeMalformedRequest, "invalid request body").WithCause(err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps protocol failure conditions to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.CodeUnauthorized:
		status = http.StatusForbidden
	case errors.CodeInsufficientDeposit, errors.CodeInsufficientFunds:
		status = http.StatusPaymentRequired
	case errors.CodeInvalidRecipient, errors.CodeMalformedRequest, errors.CodeInvalidInputLength:
		status = http.StatusBadRequest
	case errors.CodeInvalidSignature:
		status = http.StatusUnauthorized
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}

	s.writeJSON(w, status, ErrorResponse{
		Error: err.Error(),
		Code:  string(code),
	})
}

func parseIdentity(s, field string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, errors.Newf(errors.CodeMalformedRequest, "%s is required", field)
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, errors.Newf(errors.CodeMalformedRequest, "%s is not a valid identity", field).WithCause(err)
	}
	return key, nil
}

func parseIdentityAllowZero(s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, nil
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, errors.New(errors.CodeMalformedRequest, "recipient is not a valid identity").WithCause(err)
	}
	return key, nil
}

func parseFeePayer(s string) (protocol.FeePayer, error) {
	if s == "" {
		return protocol.SelfFunded(), nil
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return protocol.FeePayer{}, errors.New(errors.CodeMalformedRequest, "fee_payer is not a valid identity").WithCause(err)
	}
	return protocol.PaidBy(key), nil
}
