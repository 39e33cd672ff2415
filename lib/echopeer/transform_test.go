// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package echopeer

import (
	"bytes"
	"testing"
)

func TestTransformApply(t *testing.T) {
	tests := []struct {
		transform Transform
		input     string
		want      string
	}{
		{Echo, "hello world", "hello world"},
		{Upper, "hello world", "HELLO WORLD"},
		{Upper, "café au lait", "CAFÉ AU LAIT"},
		{Reverse, "hello", "olleh"},
		{Reverse, "añb", "bña"},
		{Reverse, "", ""},
	}
	for _, test := range tests {
		got := test.transform.Apply([]byte(test.input))
		if string(got) != test.want {
			t.Errorf("%s.Apply(%q) = %q, want %q", test.transform, test.input, got, test.want)
		}
	}
}

func TestTransformApply_DoesNotAlias(t *testing.T) {
	payload := []byte("abc")
	for _, transform := range Transforms {
		reply := transform.Apply(payload)
		if len(reply) > 0 {
			reply[0] = 'X'
		}
		if string(payload) != "abc" {
			t.Fatalf("%s.Apply modified its input: %q", transform, payload)
		}
	}
}

func TestReverse_KeepsInvalidBytes(t *testing.T) {
	payload := []byte{'a', 0xff, 'b'}
	got := Reverse.Apply(payload)
	if want := []byte{'b', 0xff, 'a'}; !bytes.Equal(got, want) {
		t.Errorf("Reverse.Apply(%x) = %x, want %x", payload, got, want)
	}
}

func TestParseTransform(t *testing.T) {
	for _, transform := range Transforms {
		parsed, err := ParseTransform(string(transform))
		if err != nil {
			t.Errorf("ParseTransform(%q) error: %v", transform, err)
		}
		if parsed != transform {
			t.Errorf("ParseTransform(%q) = %q", transform, parsed)
		}
	}
	if _, err := ParseTransform("rot13"); err == nil {
		t.Error("ParseTransform(rot13) should fail")
	}
}
