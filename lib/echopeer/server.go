// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package echopeer

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/echoline/lib/clock"
	"github.com/bureau-foundation/echoline/lib/netutil"
	"github.com/bureau-foundation/echoline/transport"
)

// Compile-time interface check.
var _ transport.ConnHandler = (*Server)(nil)

// expired is a deadline that has already passed. Setting it on a
// connection aborts any blocked Read or Write.
var expired = time.Unix(1, 0)

// DefaultBufferSize is the read buffer used when Config leaves
// BufferSize at zero.
const DefaultBufferSize = 1024

// Config controls how the peer answers each connection.
type Config struct {
	// BufferSize is the most bytes taken from a client in its single
	// read. Anything beyond it is discarded when the connection closes.
	BufferSize int

	// Transform is applied to the received bytes. Empty means Echo.
	Transform Transform

	// ReadTimeout bounds the wait for the client's bytes. Zero waits
	// until the client sends or disconnects.
	ReadTimeout time.Duration
}

// Server answers each connection exactly once: one read, one
// transformed write, close. Each connection is served on its own
// goroutine by the listener; Server itself holds only counters.
type Server struct {
	config Config
	logger *slog.Logger
	clock  clock.Clock

	startedAt time.Time
	address   atomic.Value // string

	connections  atomic.Uint64
	exchanges    atomic.Uint64
	disconnects  atomic.Uint64
	failures     atomic.Uint64
	bytesIn      atomic.Uint64
	bytesOut     atomic.Uint64
	lastExchange atomic.Int64 // unix nanoseconds; zero before the first exchange
}

// New creates a peer. The clock supplies status timestamps and read
// deadlines.
func New(config Config, logger *slog.Logger, clk clock.Clock) *Server {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.Transform == "" {
		config.Transform = Echo
	}
	return &Server{
		config:    config,
		logger:    logger,
		clock:     clk,
		startedAt: clk.Now(),
	}
}

// Serve answers connections from listener until ctx is cancelled.
// In-flight exchanges complete before Serve returns.
func (s *Server) Serve(ctx context.Context, listener *transport.StreamListener) error {
	s.address.Store(listener.Address())
	s.logger.Info("echo peer listening",
		"address", listener.Address(),
		"transform", string(s.config.Transform),
		"buffer_size", s.config.BufferSize,
	)
	return listener.Serve(ctx, s)
}

// ServeConn performs one exchange on conn and closes it. Cancelling
// ctx aborts a pending read or write; the connection then counts as a
// disconnect.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	s.connections.Add(1)
	logger := s.logger.With("remote", conn.RemoteAddr().String())

	if s.config.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(s.clock.Now().Add(s.config.ReadTimeout)); err != nil {
			s.failures.Add(1)
			logger.Warn("setting read deadline failed", "error", err)
			return
		}
	}
	// Registered after the read deadline above so a shutdown cannot be
	// overwritten by it.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(expired)
	})
	defer stop()

	buffer := make([]byte, s.config.BufferSize)
	n, err := conn.Read(buffer)
	if n == 0 {
		s.handleEmptyRead(ctx, logger, err)
		return
	}
	payload := buffer[:n]
	s.bytesIn.Add(uint64(n))

	reply := s.config.Transform.Apply(payload)
	written, err := conn.Write(reply)
	s.bytesOut.Add(uint64(written))
	if err != nil {
		if ctx.Err() != nil || netutil.IsExpectedCloseError(err) {
			s.disconnects.Add(1)
			logger.Debug("client left before reading reply", "error", err)
			return
		}
		s.failures.Add(1)
		logger.Warn("writing reply failed", "error", err)
		return
	}

	s.exchanges.Add(1)
	s.lastExchange.Store(s.clock.Now().UnixNano())
	logger.Debug("exchange complete",
		"bytes_in", n,
		"bytes_out", written,
		"digest", digest(payload),
	)
}

func (s *Server) handleEmptyRead(ctx context.Context, logger *slog.Logger, err error) {
	var netErr net.Error
	switch {
	case ctx.Err() != nil:
		s.disconnects.Add(1)
		logger.Debug("connection abandoned for shutdown")
	case err == nil || netutil.IsExpectedCloseError(err):
		s.disconnects.Add(1)
		logger.Debug("client disconnected without sending")
	case errors.As(err, &netErr) && netErr.Timeout():
		s.failures.Add(1)
		logger.Warn("client sent nothing before read deadline", "timeout", s.config.ReadTimeout)
	default:
		s.failures.Add(1)
		logger.Warn("reading from client failed", "error", err)
	}
}

// digest identifies a payload in logs without revealing it: the first
// 16 hex characters of its BLAKE3 hash.
func digest(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}
