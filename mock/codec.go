package mock

import (
	"context"
	"io"

	stitch "github.com/rishikaushal2009/Audio-Stich"
)

var _ stitch.Codec = &Codec{}

// Codec is a mock of stitch.Codec.
type Codec struct {
	DecodeFn func(ctx context.Context, r io.Reader) (*stitch.Audio, error)
	EncodeFn func(ctx context.Context, a *stitch.Audio) (io.ReadCloser, error)
}

func (c *Codec) Decode(ctx context.Context, r io.Reader) (*stitch.Audio, error) {
	return c.DecodeFn(ctx, r)
}

func (c *Codec) Encode(ctx context.Context, a *stitch.Audio) (io.ReadCloser, error) {
	return c.EncodeFn(ctx, a)
}
