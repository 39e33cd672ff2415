// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package transport

import "syscall"

func setReusePort(_, _ string, _ syscall.RawConn) error {
	return ErrReusePortUnsupported
}
