// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"context"
	"testing"
	"time"

	"github.com/bureau-foundation/echoline/lib/session"
	"github.com/bureau-foundation/echoline/transport"
)

func TestServe_ReusePortSharesListenAddress(t *testing.T) {
	first, _ := startServe(t, "--listen", "127.0.0.1:0", "--reuse-port", "--transform", "upper")
	second, _ := startServe(t, "--listen", first.line, "--reuse-port", "--transform", "upper")

	if second.line != first.line {
		t.Fatalf("second peer bound %s, want shared %s", second.line, first.line)
	}

	reply, err := session.Exchange(context.Background(), sessionConfig(t, first.line),
		&transport.TCPDialer{Timeout: 5 * time.Second}, []byte("shared"))
	if err != nil {
		t.Fatalf("Exchange() error: %v", err)
	}
	if string(reply) != "SHARED" {
		t.Errorf("reply = %q, want %q", reply, "SHARED")
	}
}
