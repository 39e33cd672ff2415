// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"net"
)

// ErrReusePortUnsupported is returned when ListenOptions.ReusePort is
// requested on a platform without SO_REUSEPORT.
var ErrReusePortUnsupported = errors.New("SO_REUSEPORT is not supported on this platform")

// ListenOptions are socket options applied before a listener binds.
type ListenOptions struct {
	// ReusePort sets SO_REUSEPORT so several peers, each opening its
	// own listener with this option, can bind the same address. The
	// kernel spreads incoming connections across them.
	ReusePort bool
}

func listenTCP(address string, options ListenOptions) (net.Listener, error) {
	var config net.ListenConfig
	if options.ReusePort {
		config.Control = setReusePort
	}
	return config.Listen(context.Background(), "tcp", address)
}
