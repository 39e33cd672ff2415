// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"net"
	"sync"
)

// Compile-time interface check.
var _ Dialer = (*MemoryDialer)(nil)

// MemoryDialer is an in-process Dialer for tests. Each DialContext
// creates a net.Pipe, hands the server end to the handler on a new
// goroutine, and returns the client end. It records every address
// dialed so tests can assert that no connection was attempted.
type MemoryDialer struct {
	handler ConnHandler

	mu      sync.Mutex
	dialed  []string
	serving sync.WaitGroup
}

// NewMemoryDialer creates a dialer whose connections are served by
// handler.
func NewMemoryDialer(handler ConnHandler) *MemoryDialer {
	return &MemoryDialer{handler: handler}
}

// DialContext returns the client end of a fresh pipe. Fails only when
// ctx is already done.
func (d *MemoryDialer) DialContext(ctx context.Context, address string) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, &net.OpError{Op: "dial", Net: "pipe", Err: err}
	}

	d.mu.Lock()
	d.dialed = append(d.dialed, address)
	d.mu.Unlock()

	client, server := net.Pipe()
	d.serving.Add(1)
	go func() {
		defer d.serving.Done()
		d.handler.ServeConn(ctx, server)
	}()
	return client, nil
}

// Dialed returns the addresses passed to DialContext, in order.
func (d *MemoryDialer) Dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.dialed...)
}

// Wait blocks until every handler started by DialContext has returned.
func (d *MemoryDialer) Wait() {
	d.serving.Wait()
}
