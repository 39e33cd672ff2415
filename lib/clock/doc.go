// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// [Real] wraps time.Now. [Fake] returns a [FakeClock] that only moves
// when a test calls Advance or Set, so timestamps in status documents
// and computed socket deadlines are deterministic under test.
package clock
