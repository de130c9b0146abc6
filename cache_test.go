package stitch_test

import (
	"regexp"
	"testing"

	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// Ensure cache keys are stable, hex-encoded, and normalization-driven.
func TestKey(t *testing.T) {
	key := stitch.Key(stitch.Normalize("Hello, World!"))

	// Stable across calls.
	if other := stitch.Key(stitch.Normalize("Hello, World!")); other != key {
		t.Fatalf("key not stable: %s != %s", other, key)
	}

	// Differently-cased and punctuated messages share a key.
	if other := stitch.Key(stitch.Normalize("hello world")); other != key {
		t.Fatalf("equivalent messages have different keys: %s != %s", other, key)
	}

	// Distinct messages do not.
	if other := stitch.Key(stitch.Normalize("goodbye world")); other == key {
		t.Fatalf("distinct messages share key: %s", key)
	}

	// 128-bit lowercase hex.
	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(key) {
		t.Fatalf("unexpected key format: %q", key)
	}
}
