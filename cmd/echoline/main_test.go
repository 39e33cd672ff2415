// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/echoline/lib/clock"
	"github.com/bureau-foundation/echoline/lib/config"
	"github.com/bureau-foundation/echoline/lib/echopeer"
	"github.com/bureau-foundation/echoline/lib/session"
	"github.com/bureau-foundation/echoline/transport"
)

type harness struct {
	command *lineCommand
	stdout  *bytes.Buffer
	dialer  *transport.MemoryDialer
	timeout time.Duration
}

// newHarness wires the command to an in-memory upper-casing peer.
func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	peer := echopeer.New(echopeer.Config{Transform: echopeer.Upper}, logger, clock.Real())
	h := &harness{
		stdout: &bytes.Buffer{},
		dialer: transport.NewMemoryDialer(peer),
	}
	h.command = &lineCommand{
		stdin:  strings.NewReader(input),
		stdout: h.stdout,
		logger: logger,
		dialer: func(timeout time.Duration) transport.Dialer {
			h.timeout = timeout
			return h.dialer
		},
	}
	return h
}

func TestRun_PrintsReply(t *testing.T) {
	h := newHarness(t, "hello world\n")

	if err := h.command.run(context.Background(), nil); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	h.dialer.Wait()

	want := prompt + replyPrefix + "HELLO WORLD\n"
	if h.stdout.String() != want {
		t.Errorf("stdout = %q, want %q", h.stdout.String(), want)
	}
	if dialed := h.dialer.Dialed(); len(dialed) != 1 || dialed[0] != "127.0.0.1:12001" {
		t.Errorf("Dialed() = %v, want [127.0.0.1:12001]", dialed)
	}
	if h.timeout != 10*time.Second {
		t.Errorf("dial timeout = %v, want default 10s", h.timeout)
	}
}

func TestRun_StripsCRLF(t *testing.T) {
	h := newHarness(t, "windows line\r\n")

	if err := h.command.run(context.Background(), nil); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	h.dialer.Wait()

	if !strings.HasSuffix(h.stdout.String(), replyPrefix+"WINDOWS LINE\n") {
		t.Errorf("stdout = %q, want reply without carriage return", h.stdout.String())
	}
}

func TestRun_InputWithoutNewline(t *testing.T) {
	h := newHarness(t, "no newline at eof")

	if err := h.command.run(context.Background(), nil); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	h.dialer.Wait()

	if !strings.HasSuffix(h.stdout.String(), replyPrefix+"NO NEWLINE AT EOF\n") {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestRun_EmptyInputNeverConnects(t *testing.T) {
	for _, input := range []string{"", "\n", "\r\n"} {
		h := newHarness(t, input)

		err := h.command.run(context.Background(), nil)
		if !errors.Is(err, session.ErrEmptyMessage) {
			t.Errorf("input %q: run() error = %v, want ErrEmptyMessage", input, err)
		}
		if dialed := h.dialer.Dialed(); len(dialed) != 0 {
			t.Errorf("input %q: dialed %v, want no connection", input, dialed)
		}
		if h.stdout.String() != prompt {
			t.Errorf("input %q: stdout = %q, want only the prompt", input, h.stdout.String())
		}
	}
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	h := newHarness(t, "flags\n")
	configPath := filepath.Join(t.TempDir(), "echoline.yaml")
	configContent := `
client:
  host: from-file
  port: 13000
  dial_timeout: 4s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	args := []string{"--config", configPath, "--port", "13999"}
	if err := h.command.run(context.Background(), args); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	h.dialer.Wait()

	if dialed := h.dialer.Dialed(); len(dialed) != 1 || dialed[0] != "from-file:13999" {
		t.Errorf("Dialed() = %v, want [from-file:13999]", dialed)
	}
	if h.timeout != 4*time.Second {
		t.Errorf("dial timeout = %v, want 4s from config", h.timeout)
	}
}

func TestRun_ConfigFromEnvironment(t *testing.T) {
	h := newHarness(t, "env\n")
	configPath := filepath.Join(t.TempDir(), "echoline.yaml")
	if err := os.WriteFile(configPath, []byte("client:\n  host: env-peer\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv(config.EnvironmentVariable, configPath)

	if err := h.command.run(context.Background(), []string{"--host", "flag-peer"}); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	h.dialer.Wait()

	if dialed := h.dialer.Dialed(); len(dialed) != 1 || dialed[0] != "flag-peer:12001" {
		t.Errorf("Dialed() = %v, want [flag-peer:12001]", dialed)
	}
}

func TestRun_IgnoresPeerSectionProblems(t *testing.T) {
	h := newHarness(t, "shared config\n")
	configPath := filepath.Join(t.TempDir(), "echoline.yaml")
	if err := os.WriteFile(configPath, []byte("peer:\n  transform: rot13\n  listen: \"\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := h.command.run(context.Background(), []string{"--config", configPath}); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	h.dialer.Wait()

	if !strings.HasSuffix(h.stdout.String(), replyPrefix+"SHARED CONFIG\n") {
		t.Errorf("stdout = %q, want reply despite a broken peer section", h.stdout.String())
	}
}

func TestRun_BufferSizeFlagTruncates(t *testing.T) {
	h := newHarness(t, "truncate me\n")

	if err := h.command.run(context.Background(), []string{"--buffer-size", "5"}); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if !strings.HasSuffix(h.stdout.String(), replyPrefix+"TRUNC\n") {
		t.Errorf("stdout = %q, want reply truncated to 5 bytes", h.stdout.String())
	}
}

func TestRun_InvalidPort(t *testing.T) {
	h := newHarness(t, "never sent\n")

	err := h.command.run(context.Background(), []string{"--port", "0"})
	if err == nil || !strings.Contains(err.Error(), "client.port") {
		t.Fatalf("run() error = %v, want client.port validation error", err)
	}
	if len(h.dialer.Dialed()) != 0 {
		t.Error("dialed despite invalid configuration")
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing before validation passes", h.stdout.String())
	}
}

func TestRun_ConnectFailure(t *testing.T) {
	h := newHarness(t, "hello\n")
	refused := errors.New("connection refused")
	h.command.dialer = func(time.Duration) transport.Dialer { return failingDialer{err: refused} }

	err := h.command.run(context.Background(), nil)
	if !errors.Is(err, refused) {
		t.Fatalf("run() error = %v, want wrapped %v", err, refused)
	}
	if !strings.Contains(err.Error(), "127.0.0.1:12001") {
		t.Errorf("error %q does not name the peer address", err)
	}
}

func TestRun_Version(t *testing.T) {
	h := newHarness(t, "")

	if err := h.command.run(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.HasPrefix(h.stdout.String(), "echoline ") {
		t.Errorf("stdout = %q, want version line", h.stdout.String())
	}
	if len(h.dialer.Dialed()) != 0 {
		t.Error("--version connected to the peer")
	}
}

func TestRun_Help(t *testing.T) {
	h := newHarness(t, "")

	if err := h.command.run(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "--buffer-size") {
		t.Errorf("help output missing flag list: %q", h.stdout.String())
	}
}

func TestRun_RejectsUnknownFlagsAndArgs(t *testing.T) {
	for _, args := range [][]string{{"--nope"}, {"extra"}} {
		h := newHarness(t, "hello\n")
		if err := h.command.run(context.Background(), args); err == nil {
			t.Errorf("run(%v) succeeded, want error", args)
		}
	}
}

type failingDialer struct{ err error }

func (d failingDialer) DialContext(context.Context, string) (net.Conn, error) {
	return nil, d.err
}
