// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session implements the client side of a one-shot line
// exchange over TCP: connect to a peer, send the bytes of one line,
// read one reply of bounded size, and close.
//
// There is no framing. [Session.Send] writes the message bytes as-is
// and [Session.Receive] returns whatever a single read delivers, up to
// [Config].BufferSize bytes. A reply longer than the buffer is
// truncated; the remainder is never read.
//
// A [Session] moves strictly forward through three states:
//
//	Disconnected --Connect--> Connected --Close--> Closed
//
// Connect failures leave the session Disconnected. There is no retry
// and no reconnect. [Exchange] wraps the full sequence and rejects an
// empty message with [ErrEmptyMessage] before dialing.
//
// The dialer is a [transport.Dialer], so tests can supply net.Pipe or
// a loopback listener without touching the session code.
package session
