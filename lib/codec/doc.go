// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the shared CBOR configuration for echoline's
// structured documents.
//
// The line exchange itself is raw bytes and never passes through this
// package. CBOR is used only for out-of-band structured data, currently
// the echo peer's status document served over HTTP with
// [ContentType].
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same logical value always produces identical bytes:
//
//	data, err := codec.Marshal(status)
//	err = codec.Unmarshal(data, &status)
//
// [Diagnose] renders raw bytes in RFC 8949 diagnostic notation for
// inspecting a document without a schema.
//
// Types serialized only as CBOR carry `cbor` struct tags. Types that
// are also printed as JSON carry `json` tags, which fxamacker/cbor
// reads as a fallback. Never use both on one field.
package codec
