// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the wall clock for testability. Production code
// injects Real(); tests inject Fake() and move time explicitly.
//
// The echo peer reads the clock for status timestamps and to compute
// read deadlines. Socket deadlines are absolute times, so a fake clock
// set in the past makes a deadline expire immediately, which is how
// tests exercise the timeout path without sleeping.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
