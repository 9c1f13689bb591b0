// Package server provides a read-only web view over an attached notebook.
//
// Pages render as HTML at paths mirroring their namespaces
// (/Projects/Garden.html), namespaces render as index listings, and the
// root serves the full page tree.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/inkwell-tools/satchel/pkg/types"
)

// Config holds server configuration.
type Config struct {
	// Addr to listen on (default: "localhost:8080").
	Addr string

	// Logger for server activity (default: log.Default()).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:   "localhost:8080",
		Logger: log.Default(),
	}
}

// Server serves the notebook over HTTP with a Start/Stop lifecycle.
type Server struct {
	addr     string
	listener net.Listener
	server   *http.Server
	notebook types.Notebook

	wg     sync.WaitGroup
	logger *log.Logger
}

// NewServer creates a server over an attached notebook.
func NewServer(notebook types.Notebook, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Addr == "" {
		config.Addr = "localhost:8080"
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	return &Server{
		addr:     config.Addr,
		notebook: notebook,
		logger:   config.Logger,
	}
}

// Start begins listening and serving. It returns once the listener is
// bound; serving continues in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:      &handler{notebook: s.notebook, logger: s.logger},
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("Serving notebook on http://%s", s.GetAddr())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.wg.Wait()
	s.logger.Println("Server stopped")
	return nil
}

// GetAddr returns the actual listening address, useful when the
// configured address used port 0.
func (s *Server) GetAddr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
