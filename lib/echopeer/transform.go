// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package echopeer

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Transform is the function the peer applies to received bytes before
// replying.
type Transform string

const (
	// Echo replies with the received bytes unchanged.
	Echo Transform = "echo"
	// Upper replies with the received text upper-cased.
	Upper Transform = "upper"
	// Reverse replies with the received text reversed rune by rune.
	Reverse Transform = "reverse"
)

// Transforms lists every supported transform.
var Transforms = []Transform{Echo, Upper, Reverse}

// ParseTransform resolves a transform name from config or flags.
func ParseTransform(name string) (Transform, error) {
	for _, transform := range Transforms {
		if string(transform) == name {
			return transform, nil
		}
	}
	return "", fmt.Errorf("unknown transform %q (want one of %v)", name, Transforms)
}

// Apply returns the reply for payload. The result never aliases
// payload.
func (t Transform) Apply(payload []byte) []byte {
	switch t {
	case Upper:
		return bytes.ToUpper(payload)
	case Reverse:
		return reverseRunes(payload)
	default:
		return bytes.Clone(payload)
	}
}

// reverseRunes reverses UTF-8 sequences as units. Bytes that are not
// valid UTF-8 are treated as one-byte units and kept verbatim.
func reverseRunes(payload []byte) []byte {
	reversed := make([]byte, len(payload))
	end := len(reversed)
	for len(payload) > 0 {
		_, size := utf8.DecodeRune(payload)
		end -= size
		copy(reversed[end:], payload[:size])
		payload = payload[size:]
	}
	return reversed
}
