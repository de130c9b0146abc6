package stitch

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
)

// Audio errors.
const (
	ErrDecode = Error("decode error")
)

// Default PCM parameters. Codec implementations decode every asset to
// one parameter set so that buffers concatenate without resampling.
const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
)

// BytesPerSample is the sample width of the PCM representation
// (signed 16-bit little-endian).
const BytesPerSample = 2

// SilenceDuration is the length of the placeholder buffer substituted
// for an asset that fails to decode, when that policy is enabled.
const SilenceDuration = 1 * time.Second

// Audio represents an in-memory PCM buffer (signed 16-bit
// little-endian, interleaved).
type Audio struct {
	Rate     int
	Channels int
	Data     []byte
}

// NewAudio returns an empty zero-duration buffer.
func NewAudio(rate, channels int) *Audio {
	return &Audio{Rate: rate, Channels: channels}
}

// Silence returns a buffer of d worth of silence.
func Silence(rate, channels int, d time.Duration) *Audio {
	n := int(d.Seconds() * float64(rate))
	return &Audio{
		Rate:     rate,
		Channels: channels,
		Data:     make([]byte, n*channels*BytesPerSample),
	}
}

// Duration returns the playback duration of the buffer.
func (a *Audio) Duration() time.Duration {
	if a.Rate == 0 || a.Channels == 0 {
		return 0
	}
	frames := len(a.Data) / (a.Channels * BytesPerSample)
	return time.Duration(frames) * time.Second / time.Duration(a.Rate)
}

// Append concatenates other onto the end of a. No cross-fade, gain
// adjustment, or resampling is performed.
func (a *Audio) Append(other *Audio) {
	a.Data = append(a.Data, other.Data...)
}

// Codec represents the audio decode/encode boundary.
type Codec interface {
	// Decode decodes one asset's raw bytes into a PCM buffer.
	// Decode failures wrap ErrDecode, distinct from I/O errors.
	Decode(ctx context.Context, r io.Reader) (*Audio, error)

	// Encode encodes a PCM buffer into the persisted output format.
	// The reader must be closed by the caller.
	Encode(ctx context.Context, a *Audio) (io.ReadCloser, error)
}

// Stitcher decodes ordered assets and concatenates them into a single
// buffer. Assets decode in parallel; the result order is always the
// input order, independent of decode completion timing.
type Stitcher struct {
	Repository Repository
	Codec      Codec

	// SilenceOnDecodeError substitutes SilenceDuration of silence for
	// an asset that fails to decode instead of failing the stitch.
	// This can mask data-integrity problems and is off by default.
	SilenceOnDecodeError bool

	LogOutput io.Writer
}

// NewStitcher returns a new instance of Stitcher.
func NewStitcher() *Stitcher {
	return &Stitcher{LogOutput: io.Discard}
}

// Stitch decodes each asset in order and returns the concatenation.
// An empty asset list yields an empty zero-duration buffer.
func (s *Stitcher) Stitch(ctx context.Context, assets []Asset) (*Audio, error) {
	buffers := make([]*Audio, len(assets))

	var wg errgroup.Group
	for i, asset := range assets {
		i, asset := i, asset
		wg.Go(func() error {
			buf, err := s.decodeAsset(ctx, asset)
			buffers[i] = buf
			return err
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}

	stitched := NewAudio(DefaultSampleRate, DefaultChannels)
	for _, buf := range buffers {
		if len(stitched.Data) == 0 {
			stitched.Rate, stitched.Channels = buf.Rate, buf.Channels
		}
		stitched.Append(buf)
	}
	return stitched, nil
}

// decodeAsset reads and decodes a single asset, applying the decode
// failure policy.
func (s *Stitcher) decodeAsset(ctx context.Context, asset Asset) (*Audio, error) {
	buf, err := s.readAndDecode(ctx, asset)
	if err == nil {
		return buf, nil
	}

	if !s.SilenceOnDecodeError {
		return nil, fmt.Errorf("decode asset %q: %w", asset.Name, err)
	}

	fmt.Fprintf(s.LogOutput, "stitch: decode failed, substituting silence: asset=%s err=%q\n", asset.Name, err)
	return Silence(DefaultSampleRate, DefaultChannels, SilenceDuration), nil
}

func (s *Stitcher) readAndDecode(ctx context.Context, asset Asset) (*Audio, error) {
	rc, err := s.Repository.ReadAsset(ctx, asset)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return s.Codec.Decode(ctx, rc)
}
