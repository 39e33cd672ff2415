// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/bureau-foundation/echoline/transport"
)

// DefaultBufferSize is the reply buffer capacity used when Config
// leaves BufferSize at zero.
const DefaultBufferSize = 1024

var (
	// ErrEmptyMessage is returned when the outbound message has no
	// bytes. Exchange checks this before dialing.
	ErrEmptyMessage = errors.New("input must not be empty")

	// ErrNotConnected is returned by Send and Receive before Connect
	// has succeeded.
	ErrNotConnected = errors.New("session is not connected")

	// ErrClosed is returned by Send and Receive after Close.
	ErrClosed = errors.New("session is closed")

	// ErrInvalidState is returned by Connect when the session has
	// already left the Disconnected state.
	ErrInvalidState = errors.New("session cannot connect from its current state")
)

// Config identifies the peer and bounds the reply.
type Config struct {
	// Host is the peer's hostname or IP address.
	Host string

	// Port is the peer's TCP port.
	Port int

	// BufferSize is the maximum number of reply bytes returned by a
	// single Receive. Zero means DefaultBufferSize.
	BufferSize int
}

// DefaultConfig returns the loopback peer on port 12001 with a
// 1024-byte reply buffer.
func DefaultConfig() Config {
	return Config{
		Host:       "127.0.0.1",
		Port:       12001,
		BufferSize: DefaultBufferSize,
	}
}

// Address returns the peer address in "host:port" form.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) bufferSize() int {
	if c.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return c.BufferSize
}

// State is the lifecycle position of a Session.
type State int

const (
	// Disconnected is the initial state. No socket exists.
	Disconnected State = iota
	// Connected means the socket is open and owned by the session.
	Connected
	// Closed is terminal. The socket, if any, has been released.
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is a single request/reply conversation with a peer over one
// TCP connection. Transitions are Disconnected → Connected → Closed
// with no way back. A Session is owned by one goroutine.
type Session struct {
	config Config
	dialer transport.Dialer
	state  State
	conn   net.Conn
}

// New creates a Disconnected session. The dialer opens the connection
// on Connect; tests substitute in-memory dialers.
func New(config Config, dialer transport.Dialer) *Session {
	return &Session{
		config: config,
		dialer: dialer,
		state:  Disconnected,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Connect dials the configured peer. On failure the session stays
// Disconnected.
func (s *Session) Connect(ctx context.Context) error {
	if s.state != Disconnected {
		return fmt.Errorf("%w (state %s)", ErrInvalidState, s.state)
	}
	address := s.config.Address()
	conn, err := s.dialer.DialContext(ctx, address)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", address, err)
	}
	s.conn = conn
	s.state = Connected
	return nil
}

// Send writes message to the peer exactly as given. No length prefix,
// delimiter, or trailing bytes are added.
func (s *Session) Send(message []byte) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	if len(message) == 0 {
		return ErrEmptyMessage
	}
	if _, err := s.conn.Write(message); err != nil {
		return fmt.Errorf("sending to %s: %w", s.config.Address(), err)
	}
	return nil
}

// Receive performs one read of at most BufferSize bytes and returns
// what arrived. Anything the peer sent beyond the buffer stays unread.
// A peer that closes without replying yields an empty reply.
func (s *Session) Receive() ([]byte, error) {
	if err := s.requireConnected(); err != nil {
		return nil, err
	}
	buffer := make([]byte, s.config.bufferSize())
	n, err := s.conn.Read(buffer)
	if n > 0 {
		return buffer[:n], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return buffer[:0], nil
	}
	return nil, fmt.Errorf("receiving from %s: %w", s.config.Address(), err)
}

// Close releases the connection and moves the session to Closed.
// Calling Close again is a no-op.
func (s *Session) Close() error {
	if s.state == Closed {
		return nil
	}
	s.state = Closed
	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	return conn.Close()
}

func (s *Session) requireConnected() error {
	switch s.state {
	case Connected:
		return nil
	case Closed:
		return ErrClosed
	default:
		return ErrNotConnected
	}
}

// Exchange runs one complete conversation: connect, send message,
// receive one reply, close. An empty message fails with
// ErrEmptyMessage before any connection is attempted.
func Exchange(ctx context.Context, config Config, dialer transport.Dialer, message []byte) ([]byte, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}

	conversation := New(config, dialer)
	if err := conversation.Connect(ctx); err != nil {
		return nil, err
	}
	defer conversation.Close()

	if err := conversation.Send(message); err != nil {
		return nil, err
	}
	reply, err := conversation.Receive()
	if err != nil {
		return nil, err
	}
	if err := conversation.Close(); err != nil {
		return nil, fmt.Errorf("closing connection to %s: %w", config.Address(), err)
	}
	return reply, nil
}
