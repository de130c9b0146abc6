package stitch

import "strings"

// Normalize returns the canonical matching form of a raw message:
// lowercased, restricted to the alphabet {a-z, 0-9, space}, with runs
// of spaces collapsed to a single space. Characters outside the
// alphabet are dropped, not replaced, so "don't" normalizes to "dont".
// Normalize is pure, total, and idempotent, and its output is the sole
// input to cache key derivation.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastSpace := false
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ':
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return b.String()
}
