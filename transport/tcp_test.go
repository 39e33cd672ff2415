// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/echoline/lib/testutil"
)

func TestTCPListener_Address(t *testing.T) {
	listener, err := NewTCPListener("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewTCPListener() error: %v", err)
	}
	defer listener.Close()

	address := listener.Address()
	if !strings.HasPrefix(address, "127.0.0.1:") {
		t.Errorf("Address() = %q, expected 127.0.0.1:port", address)
	}
}

func TestHTTPTransport_IgnoresURLHost(t *testing.T) {
	listener, err := NewTCPListener("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewTCPListener() error: %v", err)
	}
	defer listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go listener.Serve(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, r.Method+" "+r.URL.Path)
	}))

	// The URL host is never resolved: every request goes to the
	// listener's address through the dialer.
	client := &http.Client{
		Transport: HTTPTransport(&TCPDialer{}, listener.Address()),
		Timeout:   5 * time.Second,
	}
	response, err := client.Get("http://peer.invalid/status")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if want := "GET /status"; string(body) != want {
		t.Errorf("response body = %q, want %q", body, want)
	}
}

func TestTCPListener_ContextCancellation(t *testing.T) {
	listener, err := NewTCPListener("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewTCPListener() error: %v", err)
	}
	defer listener.Close()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- listener.Serve(ctx, http.NotFoundHandler())
	}()

	cancel()

	if err := testutil.RequireReceive(t, done, 5*time.Second, "Serve after cancel"); err != nil {
		t.Errorf("Serve() returned error: %v", err)
	}
}

func TestTCPDialer_ConnectionRefused(t *testing.T) {
	address := testutil.UnusedLoopbackAddress(t)

	dialer := &TCPDialer{Timeout: time.Second}
	if _, err := dialer.DialContext(context.Background(), address); err == nil {
		t.Errorf("expected error connecting to closed port %s", address)
	}
}

func TestTCPDialer_ContextCancellation(t *testing.T) {
	dialer := &TCPDialer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := dialer.DialContext(ctx, "127.0.0.1:1"); err == nil {
		t.Error("expected error with cancelled context")
	}
}

func TestTCPListener_CloseBeforeServe(t *testing.T) {
	listener, err := NewTCPListener("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewTCPListener() error: %v", err)
	}
	if err := listener.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := listener.Serve(context.Background(), http.NotFoundHandler()); err != nil {
		t.Errorf("Serve() after Close = %v, want nil", err)
	}
}
