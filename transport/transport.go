// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"net"
	"net/http"
)

// Dialer opens connections to a peer. The client session uses a Dialer
// so the connection source can be swapped in tests.
type Dialer interface {
	// DialContext opens a stream connection to the peer at address
	// ("host:port" for TCP).
	DialContext(ctx context.Context, address string) (net.Conn, error)
}

// ConnHandler serves one accepted connection. The handler owns conn
// and must close it before returning.
type ConnHandler interface {
	ServeConn(ctx context.Context, conn net.Conn)
}

// ConnHandlerFunc adapts a function to ConnHandler.
type ConnHandlerFunc func(ctx context.Context, conn net.Conn)

// ServeConn calls f(ctx, conn).
func (f ConnHandlerFunc) ServeConn(ctx context.Context, conn net.Conn) {
	f(ctx, conn)
}

// HTTPTransport creates an http.RoundTripper that routes all requests
// through the given Dialer to the specified transport address. The URL
// host in requests is ignored. The peer status client uses this to
// reach a status listener by its raw address.
func HTTPTransport(dialer Dialer, address string) http.RoundTripper {
	return &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, address)
		},
	}
}
