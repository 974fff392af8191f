// Package server accepts TCP connections and runs the wire loop: read
// bytes, feed the framer, dispatch the completed request, write the
// response, close. One goroutine per connection; one request per
// connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"shortlink/internal/domain"
	"shortlink/internal/handler"
	"shortlink/internal/protocol"
	"shortlink/pkg/logger"
)

const readBufferSize = 4096

// Server owns the listener and the per-connection tasks.
type Server struct {
	router   *handler.Router
	logger   *logger.Logger
	limits   *limiterRegistry // nil when rate limiting is disabled
	listener net.Listener
	wg       sync.WaitGroup // tracks in-flight connections for graceful shutdown
	shutdown atomic.Bool
}

// New creates a server. ratePerMinute of 0 disables rate limiting.
func New(router *handler.Router, log *logger.Logger, ratePerMinute int) *Server {
	s := &Server{
		router: router,
		logger: log,
	}
	if ratePerMinute > 0 {
		s.limits = newLimiterRegistry(ratePerMinute)
	}
	return s
}

// Listen binds the listener. Split from Serve so callers can learn the
// bound address before the accept loop starts.
func (s *Server) Listen(network, address string) error {
	listener, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs the accept loop until Shutdown closes the listener.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// During shutdown, closing the listener makes Accept fail.
			// The flag distinguishes that from a real error.
			if s.shutdown.Load() {
				return nil
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// handleConn runs the read-frame-dispatch-write cycle for one connection.
// Closing the connection abandons only this task.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if s.limits != nil {
		host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
		if err != nil {
			host = conn.RemoteAddr().String()
		}
		if !s.limits.allow(host) {
			s.logger.Warn("Rate limit exceeded", "host", host)
			s.writeResponse(conn, &protocol.Response{
				StatusCode: 429,
				StatusText: "Too Many Requests",
				Body:       domain.ErrorResponse{Error: "Too many requests, please try again later"},
			})
			return
		}
	}

	var framer protocol.Framer
	buf := make([]byte, readBufferSize)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			framer.Feed(buf[:n])
		}

		req, parseErr := framer.Next()
		if parseErr == nil {
			resp := s.router.Dispatch(context.Background(), req)
			s.writeResponse(conn, resp)
			return // one request per connection: write, then close
		}
		if !errors.Is(parseErr, protocol.ErrIncomplete) {
			// Malformed request line: terminal, answer 400 and close.
			s.logger.Warn("Malformed request", "remote", conn.RemoteAddr(), "error", parseErr)
			s.writeResponse(conn, &protocol.Response{
				StatusCode: 400,
				StatusText: "Bad Request",
				Body:       domain.ErrorResponse{Error: "Malformed request"},
			})
			return
		}

		if err != nil {
			// Connection closed before a complete request arrived.
			return
		}
	}
}

// writeResponse serializes and writes resp. Nothing is written when
// serialization fails, so the client never sees partial response bytes.
func (s *Server) writeResponse(conn net.Conn, resp *protocol.Response) {
	raw, err := resp.Serialize()
	if err != nil {
		s.logger.Error("Failed to serialize response", "error", err)
		return
	}
	if _, err := conn.Write(raw); err != nil {
		s.logger.Warn("Failed to write response", "remote", conn.RemoteAddr(), "error", err)
	}
}

// Shutdown stops accepting connections and waits for in-flight ones.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.shutdown.Store(true)
	if s.listener != nil {
		_ = s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for open connections to finish")
	}
}
