// Package server accepts TCP connections and drives each one through the
// request/response cycle exactly once. A bounded worker pool caps how many
// connections are in flight; the accept loop blocks only on Accept and, when
// the pool is saturated, on handing off the next connection.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tinyhttpd/internal/request"
	"tinyhttpd/internal/response"
)

const DefaultWorkers = 8

type Server struct {
	listener    net.Listener
	handler     Handler
	log         *slog.Logger
	sem         chan struct{}
	isListening atomic.Bool
}

// Serve binds addr and starts accepting in the background. workers bounds
// the number of connections handled in parallel; values below one fall back
// to DefaultWorkers.
func Serve(addr string, workers int, handler Handler, log *slog.Logger) (*Server, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = slog.Default()
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: listener,
		handler:  handler,
		log:      log,
		sem:      make(chan struct{}, workers),
	}
	s.isListening.Store(true)
	go s.listen()

	return s, nil
}

// Addr reports the bound listen address, useful when addr was ":0".
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Close() error {
	if !s.isListening.CompareAndSwap(true, false) {
		return nil
	}

	if s.listener != nil {
		return s.listener.Close()
	}

	return nil
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.isListening.Load() {
				return
			}
			s.log.Error("error accepting connection", "err", err)
			continue
		}

		s.sem <- struct{}{}
		go func() {
			defer func() { <-s.sem }()
			s.handle(conn)
		}()
	}
}

// handle owns conn for its whole lifetime: read, route, write, close. A
// failing or panicking connection never takes down the dispatcher or another
// connection.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	log := s.log.With("conn_id", uuid.NewString(), "remote", conn.RemoteAddr().String())
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panicked", "panic", r)
		}
	}()

	req, err := request.RequestFromReader(conn)
	if err != nil {
		// A peer that hangs up mid-request gets no response; a peer that
		// sent malformed bytes gets a 400.
		if errors.Is(err, request.ErrNoRequest) || errors.Is(err, io.ErrUnexpectedEOF) {
			log.Debug("peer disconnected during read", "err", err)
			return
		}
		log.Warn("malformed request", "err", err)
		writeBadRequest(conn)
		return
	}

	w := response.NewWriter(conn)
	s.handler(w, req)

	log.Info("request handled",
		"method", req.RequestLine.Method,
		"target", req.RequestLine.RequestTarget,
		"status", int(w.Status()),
		"duration", time.Since(start),
	)
}

// writeBadRequest answers a protocol error with a complete 400. Write
// failures here are ignored: the connection is closing either way.
func writeBadRequest(conn net.Conn) {
	w := response.NewWriter(conn)
	if err := w.WriteStatusLine(response.StatusBadRequest); err != nil {
		return
	}
	w.WriteHeaders(response.GetDefaultHeaders(0))
}
