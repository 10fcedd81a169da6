// Package irc hosts the line-oriented protocol on a raw TCP listener.
package irc

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/duplexchat/duplexd/internal/core"
	wire "github.com/duplexchat/duplexd/internal/irc"
)

// Server accepts TCP connections and drives line-protocol sessions.
type Server struct {
	addr string
	hub  *core.Hub
	log  *zerolog.Logger

	listener net.Listener
	ready    chan struct{}
	quit     chan struct{}
	wg       sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewServer builds a TCP server for the given listen address.
func NewServer(addr string, hub *core.Hub, logger *zerolog.Logger) *Server {
	return &Server{
		addr:  addr,
		hub:   hub,
		log:   logger,
		ready: make(chan struct{}),
		quit:  make(chan struct{}),
		conns: make(map[net.Conn]struct{}),
	}
}

// Start begins accepting connections and blocks until Stop is called or the
// listener fails.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen irc: %w", err)
	}
	s.listener = listener
	close(s.ready)
	s.log.Info().Str("addr", listener.Addr().String()).Msg("irc listener started")

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
				s.log.Warn().Err(err).Msg("accept irc connection")
				continue
			}
		}

		s.track(conn)
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Stop closes the listener and every open connection, then waits for the
// per-connection goroutines.
func (s *Server) Stop() {
	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listen address, useful for tests listening on ":0".
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)

	session := core.NewSession(core.ProtoLine)
	s.hub.Register(session)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Close()
		for buf := range session.Outgoing {
			if _, err := conn.Write(buf); err != nil {
				s.log.Warn().Err(err).Str("session_id", session.ID).Msg("write irc line")
				return
			}
		}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		msg, err := wire.ParseMessage(scanner.Text())
		if err != nil {
			if errors.Is(err, wire.ErrEmptyLine) {
				continue
			}
			// Malformed lines terminate the session.
			s.log.Warn().Err(err).Str("session_id", session.ID).Msg("bad irc line")
			break
		}
		for _, cmd := range wire.DecodeCommands(msg) {
			s.hub.Submit(session, cmd)
		}
	}

	s.hub.Unregister(session)
	conn.Close()
	<-done
}
