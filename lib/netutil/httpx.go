// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides network and HTTP I/O utilities.
//
// HTTP body helpers ([ReadResponse], [ErrorBody]) bound reads at
// [MaxResponseSize] so a misbehaving status endpoint cannot exhaust
// memory. Connection error helpers ([IsExpectedCloseError]) classify
// errors that occur when a client hangs up mid-exchange.
package netutil

import "io"

// MaxResponseSize bounds HTTP response body reads: 1 MB. Status
// documents are a few hundred bytes.
const MaxResponseSize int64 = 1 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes. Use
// instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an HTTP error response body for a diagnostic
// message. Read errors are ignored; a partial body is still useful.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}
