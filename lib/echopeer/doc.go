// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package echopeer implements the peer that the line client talks to.
//
// For every accepted connection the [Server] reads once (up to
// [Config].BufferSize bytes), applies a [Transform], writes the result
// once, and closes. There is no framing: whatever the single read
// returns is the message. A client that disconnects without sending is
// counted and logged at debug level; it gets no reply.
//
// The transport's StreamListener runs each connection on its own
// goroutine, so a slow client never blocks others. The Server keeps
// only atomic counters, exposed by [Server.Status] and served as CBOR
// by [Server.StatusHandler]. [FetchStatus] is the matching client.
//
// Payload contents never appear in logs. Each exchange is identified
// by a short BLAKE3 digest instead.
package echopeer
