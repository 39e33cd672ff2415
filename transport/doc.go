// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport provides the connection plumbing between the
// echoline client and its peer.
//
// The client side is the [Dialer] interface. [TCPDialer] is the
// production implementation; [MemoryDialer] serves each dial from an
// in-process handler over net.Pipe and records dialed addresses, which
// lets tests prove that a code path never touched the network.
//
// The peer side has two listeners. [StreamListener] accepts raw TCP
// connections and runs a [ConnHandler] per connection on its own
// goroutine, draining them on shutdown. [TCPListener] serves HTTP and
// carries the peer's status endpoint. [ListenOptions] can set
// SO_REUSEPORT on the stream listener so several peers share one
// address. The accept loop retries failed accepts with a capped
// backoff until its context is cancelled.
//
// [HTTPTransport] wraps a Dialer as an http.RoundTripper so a standard
// http.Client can reach a listener by raw address.
package transport
