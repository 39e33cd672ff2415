// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the echoline
// client and peer:
//
//   - [Fatal] reports an error from run() on stderr and exits 1.
//   - [NewLogger] builds the structured logger: text on a terminal,
//     JSON when stderr is piped, debug level when ECHOLINE_DEBUG is set.
//
// Logs always go to stderr. Stdout is reserved for the prompt and the
// peer's reply so the client stays scriptable.
package process
