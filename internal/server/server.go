package server

import (
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akashmaji946/resp-kv/internal/logging"
)

// Server runs the accept loop: one goroutine is spawned per accepted
// connection, all sharing a single Handler (and through it, a single
// store). There is no cooperative scheduler or event loop here, per the
// concurrency model this server is built to.
type Server struct {
	handler  *Handler
	log      *logging.Logger
	listener net.Listener
	wg       sync.WaitGroup
}

// New builds a Server that will accept connections on address once Serve
// is called.
func New(address string, handler *Handler, log *logging.Logger) (*Server, error) {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return &Server{handler: handler, log: log, listener: l}, nil
}

// Addr returns the address the server is actually listening on, useful
// when address was ":0" and the OS picked a port.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve runs the accept loop until the listener is closed (directly, or
// via a SIGINT/SIGTERM delivered while ServeUntilSignal is driving this
// Server). It returns once every spawned connection goroutine has
// finished.
func (s *Server) Serve() {
	s.log.Info("listening", "addr", s.listener.Addr().String())
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.log.Info("accept loop stopping", "reason", err)
			break
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handler.HandleConnection(conn)
		}()
	}
	s.wg.Wait()
}

// Shutdown stops accepting new connections. In-flight connections are not
// forcibly closed; Serve returns once they finish on their own, matching
// this server's scope (graceful shutdown of accept, not of live
// connections — per-request cancellation is out of scope).
func (s *Server) Shutdown() error {
	return s.listener.Close()
}

// ServeUntilSignal runs Serve and arranges for SIGINT/SIGTERM to trigger
// Shutdown, returning once the accept loop and all connections have
// drained.
func (s *Server) ServeUntilSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		s.log.Info("signal received, shutting down", "signal", sig.String())
		if err := s.Shutdown(); err != nil {
			s.log.Error("error during shutdown", "error", err)
		}
	}()

	s.Serve()
}
