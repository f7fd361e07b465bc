// Package api exposes the protocol operations over HTTP, plus the record
// stream as replay and server-sent events. Response submission endpoints are
// deliberately open to any caller; authenticity is the consumer's
// cryptographic check, never transport identity.
package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/signet-protocol/signet-node/core"
)

// Server provides the HTTP endpoints of a signetd node.
type Server struct {
	logger zerolog.Logger
	node   *core.Node
	server *http.Server
}

// NewServer creates a Server around a node.
func NewServer(node *core.Node, logger zerolog.Logger, port int) *Server {
	s := &Server{
		logger: logger.With().Str("component", "api").Logger(),
		node:   node,
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.setupRoutes(),
	}

	return s
}

// Start starts the HTTP server and confirms the port could be bound.
func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("api server is nil")
	}

	startupChan := make(chan error, 1)

	go func() {
		// Probe the port first so startup failures surface synchronously.
		ln, err := net.Listen("tcp", s.server.Addr)
		if err != nil {
			startupChan <- fmt.Errorf("failed to bind to address %s: %w", s.server.Addr, err)
			return
		}
		ln.Close()

		startupChan <- nil

		err = s.server.ListenAndServe()
		switch err {
		case nil:
			s.logger.Info().Msg("api server stopped normally")
		case http.ErrServerClosed:
			s.logger.Info().Msg("api server closed gracefully")
		default:
			s.logger.Error().Err(err).Msg("api server error")
		}
	}()

	select {
	case err := <-startupChan:
		if err != nil {
			return err
		}
		s.logger.Info().Str("addr", s.server.Addr).Msg("api server listening")
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("server startup timeout")
	}
}

// Stop shuts down the HTTP server.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
