package stitch

import (
	"context"
	"fmt"
	"io"
)

// Pipeline errors.
const (
	ErrMessageRequired = Error("message required")
)

// Result describes a completed pipeline run.
type Result struct {
	Output string `json:"output"` // destination name
	Key    string `json:"key"`    // cache key of the normalized message
	Cached bool   `json:"cached"` // true if served from cache
	Assets int    `json:"assets"` // number of assets stitched (0 when cached)
}

// Pipeline turns a message into a stitched audio output:
// normalize, consult the cache, match assets, order by occurrence,
// stitch, persist, record in the cache.
type Pipeline struct {
	Repository Repository
	Codec      Codec
	Cache      Cache // optional; nil disables caching

	// Decode failure policy, see Stitcher.
	SilenceOnDecodeError bool

	LogOutput io.Writer
}

// NewPipeline returns a new instance of Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{LogOutput: io.Discard}
}

// Run executes the pipeline for one message and writes the result to
// the named output. Cache lookup and record failures are logged and
// never fail the run; catalog, persist, and (under the strict policy)
// decode failures do.
func (p *Pipeline) Run(ctx context.Context, message, output string) (*Result, error) {
	if message == "" {
		return nil, ErrMessageRequired
	} else if output == "" {
		return nil, ErrOutputNameRequired
	}

	normalized := Normalize(message)
	key := Key(normalized)
	fmt.Fprintf(p.LogOutput, "pipeline: start: key=%s normalized=%q\n", key, normalized)

	// Serve from cache when a previous run produced this message.
	if p.copyFromCache(ctx, key, output) {
		fmt.Fprintf(p.LogOutput, "pipeline: cache hit: key=%s output=%s\n", key, output)
		return &Result{Output: output, Key: key, Cached: true}, nil
	}

	// Enumerate the catalog. This is the only fatal listing failure.
	assets, err := p.Repository.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	// Match asset names against the message and order by occurrence.
	matches := MatchAssets(normalized, assets)
	ordered := OrderMatches(matches)
	fmt.Fprintf(p.LogOutput, "pipeline: matched: key=%s assets=%d catalog=%d\n", key, len(ordered), len(assets))

	// Decode and concatenate. No match yields an empty buffer.
	stitcher := NewStitcher()
	stitcher.Repository = p.Repository
	stitcher.Codec = p.Codec
	stitcher.SilenceOnDecodeError = p.SilenceOnDecodeError
	stitcher.LogOutput = p.LogOutput

	stitched, err := stitcher.Stitch(ctx, ordered)
	if err != nil {
		return nil, err
	}

	// Encode and persist.
	rc, err := p.Codec.Encode(ctx, stitched)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	defer rc.Close()

	if err := p.Repository.WriteOutput(ctx, output, rc); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	// Record in the cache for future lookups, best-effort.
	if p.Cache != nil {
		if err := p.Cache.Store(ctx, output, key); err != nil {
			fmt.Fprintf(p.LogOutput, "pipeline: cache store failed: key=%s err=%q\n", key, err)
		}
	}

	fmt.Fprintf(p.LogOutput, "pipeline: done: key=%s output=%s duration=%s\n", key, output, stitched.Duration())
	return &Result{Output: output, Key: key, Assets: len(ordered)}, nil
}

// copyFromCache returns true if a cached output for key was published
// at dest. Lookup and copy failures degrade to a cache miss.
func (p *Pipeline) copyFromCache(ctx context.Context, key, dest string) bool {
	if p.Cache == nil {
		return false
	}

	ok, err := p.Cache.Exists(ctx, key)
	if err != nil {
		fmt.Fprintf(p.LogOutput, "pipeline: cache lookup failed: key=%s err=%q\n", key, err)
		return false
	} else if !ok {
		return false
	}

	if err := p.Cache.Copy(ctx, key, dest); err != nil {
		fmt.Fprintf(p.LogOutput, "pipeline: cache copy failed: key=%s err=%q\n", key, err)
		return false
	}
	return true
}
