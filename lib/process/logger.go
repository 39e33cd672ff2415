// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// DebugVariable enables debug-level logging when set to any non-empty
// value.
const DebugVariable = "ECHOLINE_DEBUG"

// NewLogger creates the structured logger for a binary. When stderr is
// a terminal, uses slog.TextHandler for human-readable output. When
// stderr is piped or redirected, uses slog.JSONHandler.
//
// Callers scope the logger with the binary name:
//
//	logger := process.NewLogger().With("binary", "echoline-peer")
func NewLogger() *slog.Logger {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), os.Getenv(DebugVariable) != "")
}

func newLogger(w io.Writer, terminal, debug bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		options.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if terminal {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
