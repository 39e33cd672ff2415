// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for echoline packages.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so a hung peer or handler fails the test instead of hanging
// it. [UnusedLoopbackAddress] yields an address with no listener for
// connection-refused tests. [UniqueID] produces distinguishable
// payloads.
//
// All helpers call t.Fatalf on failure rather than returning errors.
//
// This package has no echoline-internal dependencies.
package testutil
