// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"net"
	"testing"
)

// UnusedLoopbackAddress returns a 127.0.0.1 address with a port that
// had nothing listening a moment ago. It binds an ephemeral port and
// releases it immediately, so a dial to the result is refused unless
// something else grabs the port in between.
func UnusedLoopbackAddress(t testing.TB) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving loopback port: %v", err)
	}
	address := listener.Addr().String()
	if err := listener.Close(); err != nil {
		t.Fatalf("releasing loopback port: %v", err)
	}
	return address
}
