package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultReadTimeout bounds how long reading a request may take.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout bounds how long writing a response may take.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout closes keep-alive connections that sit idle.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is how long Stop waits for in-flight requests.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes caps request header size.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)

// Server wraps http.Server with graceful shutdown and functional options.
// Safe for concurrent use.
type Server struct {
	mu      sync.RWMutex
	server  *http.Server
	running bool

	addr           string
	logger         *slog.Logger
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
	shutdown       time.Duration
	maxHeaderBytes int
	tlsConfig      *tls.Config
}

// New creates a Server that will listen on addr once started. Timeouts
// default to the package constants and logging goes to a discard logger
// until WithLogger replaces it.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:           addr,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdown:       DefaultShutdownTimeout,
		readTimeout:    DefaultReadTimeout,
		writeTimeout:   DefaultWriteTimeout,
		idleTimeout:    DefaultIdleTimeout,
		maxHeaderBytes: DefaultMaxHeaderBytes,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// prepare builds the http.Server under the lock and flips the running
// flag. The serving goroutine works off the returned values only.
func (s *Server) prepare(handler http.Handler) (*http.Server, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil, false, ErrServerAlreadyRunning
	}
	s.running = true

	s.server = &http.Server{
		Addr:           s.addr,
		Handler:        handler,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		TLSConfig:      s.tlsConfig,
	}

	return s.server, s.tlsConfig != nil, nil
}

// Start serves the handler and blocks until the context is canceled or
// the listener fails. It returns ctx.Err() on cancellation; pair it with
// Stop for a graceful drain.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	srv, hasTLS, err := s.prepare(handler)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "http server listening", "addr", srv.Addr)

		serve := srv.ListenAndServe
		if hasTLS {
			serve = func() error { return srv.ListenAndServeTLS("", "") }
		}

		if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains in-flight requests within the configured shutdown timeout.
// Calling it on a server that is not running is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	s.logger.Info("draining http server", "timeout", s.shutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.running = false
	if err != nil {
		s.logger.Error("http server shutdown", "error", err)
		return err
	}

	s.logger.Info("http server stopped")
	return nil
}

// Run adapts the server to errgroup.Go: the returned function starts the
// server, waits for the context, then shuts down gracefully. Context
// cancellation counts as a clean exit, not an error.
func (s *Server) Run(ctx context.Context, handler http.Handler) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.Start(ctx, handler)
		}()

		select {
		case <-ctx.Done():
			if err := s.Stop(); err != nil {
				s.logger.Error("stop after context cancellation", "error", err)
			}
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Run starts a server with default settings and blocks until ctx is canceled.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	return New(addr).Start(ctx, handler)
}
