// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Accept retry backoff bounds. A failing Accept (EMFILE, ENFILE,
// ECONNABORTED) is retried after a delay that starts at
// minAcceptBackoff and doubles up to maxAcceptBackoff.
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// StreamListener accepts raw TCP connections and hands each one to a
// ConnHandler on its own goroutine. Unlike TCPListener there is no
// protocol layer: the handler reads and writes bytes directly.
type StreamListener struct {
	listener net.Listener
	logger   *slog.Logger

	handlers sync.WaitGroup
}

// NewStreamListener creates a raw TCP listener on address. Use
// "127.0.0.1:0" for a random available port.
func NewStreamListener(address string, options ListenOptions, logger *slog.Logger) (*StreamListener, error) {
	listener, err := listenTCP(address, options)
	if err != nil {
		return nil, err
	}
	return newStreamListener(listener, logger), nil
}

func newStreamListener(listener net.Listener, logger *slog.Logger) *StreamListener {
	return &StreamListener{listener: listener, logger: logger}
}

// Serve accepts connections until ctx is cancelled or Close is called,
// dispatching each to handler in a new goroutine. Returns nil on clean
// shutdown, after every in-flight handler has returned. Handlers see
// ctx and are expected to abandon blocked I/O when it is cancelled.
//
// Accept errors do not stop the loop: each one is logged and Accept is
// retried after a capped exponential backoff.
func (l *StreamListener) Serve(ctx context.Context, handler ConnHandler) error {
	stop := context.AfterFunc(ctx, func() {
		l.listener.Close()
	})
	defer stop()
	defer l.handlers.Wait()

	var backoff time.Duration
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			backoff = min(max(2*backoff, minAcceptBackoff), maxAcceptBackoff)
			l.logger.Warn("accept failed, retrying", "error", err, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0

		l.handlers.Add(1)
		go func() {
			defer l.handlers.Done()
			handler.ServeConn(ctx, conn)
		}()
	}
}

// Address returns the listening address in "host:port" format.
func (l *StreamListener) Address() string {
	return l.listener.Addr().String()
}

// Close stops accepting connections. Handlers already running are not
// interrupted; Serve waits for them before returning.
func (l *StreamListener) Close() error {
	return l.listener.Close()
}
