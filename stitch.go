// Package stitch composes a single audio clip out of named audio assets
// that occur in a text message. The root package holds the domain types,
// the pure matching pipeline, and the service interfaces implemented by
// the storage, codec, and notification adapter packages.
package stitch

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// GenerateToken returns a random string.
func GenerateToken() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf)
}

// Digest returns a 128-bit lowercase hexadecimal digest of b.
// Used for asset content hashes and cache keys.
func Digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:16])
}
