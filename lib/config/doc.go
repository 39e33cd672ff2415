// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the echoline
// client and peer.
//
// Configuration comes from a single file named by either the
// ECHOLINE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no search path. When neither is given,
// [Load] returns [Default]: loopback address, port 12001, and a
// 1024-byte reply buffer. Command-line flags layered on top by the binaries are the
// only other source of values.
//
// YAML is the primary format. Files ending in .json or .jsonc are
// accepted too; comments and trailing commas are stripped with
// tidwall/jsonc before decoding through the same struct tags.
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. Production without an explicit section
// shortens the client dial timeout to three seconds.
//
// ${VAR} and ${VAR:-default} are expanded in client.host, peer.listen,
// and peer.status_listen after loading.
package config
