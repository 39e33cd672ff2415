// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Compile-time interface check.
var _ Dialer = (*TCPDialer)(nil)

// TCPListener serves HTTP over TCP. The echo peer uses it for its
// status endpoint, separate from the raw line listener.
type TCPListener struct {
	listener net.Listener
	server   *http.Server
}

// NewTCPListener creates a TCP listener on the specified address
// (e.g., ":12002" or "127.0.0.1:12002"). Use ":0" for a random
// available port.
func NewTCPListener(address string) (*TCPListener, error) {
	listener, err := listenTCP(address, ListenOptions{})
	if err != nil {
		return nil, err
	}
	return &TCPListener{
		listener: listener,
		server: &http.Server{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}, nil
}

// Serve starts accepting TCP connections and dispatches to handler.
// Blocks until ctx is cancelled or Close is called.
func (l *TCPListener) Serve(ctx context.Context, handler http.Handler) error {
	l.server.Handler = handler

	stop := context.AfterFunc(ctx, func() {
		l.server.Close()
	})
	defer stop()

	err := l.server.Serve(l.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Address returns the TCP address in "host:port" format.
func (l *TCPListener) Address() string {
	return l.listener.Addr().String()
}

// Close shuts down the TCP listener and any connections it is serving.
// A later Serve returns immediately.
func (l *TCPListener) Close() error {
	serverErr := l.server.Close()
	if err := l.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return serverErr
}

// TCPDialer opens TCP connections to a peer.
type TCPDialer struct {
	// Timeout is the maximum time to wait for a TCP connection to be
	// established. Zero means no standalone timeout; only the context
	// deadline (and the operating system's connect timeout) applies.
	Timeout time.Duration
}

// DialContext opens a TCP connection to the given address (host:port).
func (d *TCPDialer) DialContext(ctx context.Context, address string) (net.Conn, error) {
	return (&net.Dialer{Timeout: d.Timeout}).DialContext(ctx, "tcp", address)
}
