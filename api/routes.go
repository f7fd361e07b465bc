package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API server.
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Queries
	v1.HandleFunc("/deposit", s.handleDeposit).Methods(http.MethodGet)
	v1.HandleFunc("/balance/{address}", s.handleBalance).Methods(http.MethodGet)

	// Request placement
	v1.HandleFunc("/sign", s.handleSign).Methods(http.MethodPost)
	v1.HandleFunc("/sign-bidirectional", s.handleSignBidirectional).Methods(http.MethodPost)

	// Response submission (open to any caller)
	v1.HandleFunc("/respond", s.handleRespond).Methods(http.MethodPost)
	v1.HandleFunc("/respond-error", s.handleRespondError).Methods(http.MethodPost)
	v1.HandleFunc("/respond-bidirectional", s.handleRespondBidirectional).Methods(http.MethodPost)

	// Consumer-side response authentication
	v1.HandleFunc("/verify", s.handleVerify).Methods(http.MethodPost)

	// Admin operations
	v1.HandleFunc("/admin/deposit", s.handleConfigureDeposit).Methods(http.MethodPost)
	v1.HandleFunc("/admin/withdraw", s.handleWithdraw).Methods(http.MethodPost)
	v1.HandleFunc("/admin/fund", s.handleFund).Methods(http.MethodPost)

	// Record stream
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/events/stream", s.handleEventStream).Methods(http.MethodGet)

	return r
}
