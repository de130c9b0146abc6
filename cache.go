package stitch

import "context"

// Key returns the cache key for a normalized message: a deterministic
// 128-bit lowercase hexadecimal digest, stable across runs and
// processes. Two raw messages that normalize identically share a key.
func Key(normalized string) string {
	return Digest([]byte(normalized))
}

// Cache represents a best-effort namespace of previously stitched
// outputs, addressed by cache key. Every operation is an optimization:
// failures degrade to a full stitch and never fail the pipeline. The
// namespace provides no mutual exclusion; concurrent requests for the
// same key may both stitch, with last-writer-wins on Store.
type Cache interface {
	// Exists reports whether a cached output is recorded under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Copy publishes the cached output for key at the destination.
	Copy(ctx context.Context, key, dest string) error

	// Store records the output at dest under key for future lookups.
	Store(ctx context.Context, dest, key string) error
}
