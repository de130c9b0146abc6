// Package ffmpeg implements the audio codec boundary by shelling out to
// an ffmpeg binary.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// DefaultPath is the ffmpeg binary looked up on $PATH.
const DefaultPath = "ffmpeg"

// Ensure codec implements interface.
var _ stitch.Codec = &Codec{}

// Codec decodes and encodes audio through ffmpeg subprocesses. Every
// decode produces signed 16-bit little-endian PCM at the configured
// sample rate and channel count, so buffers from assets with differing
// source formats concatenate without resampling concerns.
type Codec struct {
	Path       string
	SampleRate int
	Channels   int

	LogOutput io.Writer
}

// NewCodec returns a new instance of Codec with default parameters.
func NewCodec() *Codec {
	return &Codec{
		Path:       DefaultPath,
		SampleRate: stitch.DefaultSampleRate,
		Channels:   stitch.DefaultChannels,
		LogOutput:  io.Discard,
	}
}

// Decode converts one asset's raw bytes into a PCM buffer. ffmpeg
// failures wrap stitch.ErrDecode so callers can apply the decode
// failure policy.
func (c *Codec) Decode(ctx context.Context, r io.Reader) (*stitch.Audio, error) {
	args := []string{
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(c.SampleRate),
		"-ac", strconv.Itoa(c.Channels),
		"pipe:1",
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdin = r
	cmd.Stdout = &out
	cmd.Stderr = c.LogOutput
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %s", stitch.ErrDecode, err)
	}

	return &stitch.Audio{
		Rate:     c.SampleRate,
		Channels: c.Channels,
		Data:     out.Bytes(),
	}, nil
}

// Encode converts a PCM buffer into an MP3 byte stream, staged through
// a temporary file that is deleted when the reader is closed.
func (c *Codec) Encode(ctx context.Context, a *stitch.Audio) (io.ReadCloser, error) {
	// Create a temporary destination path with the proper extension.
	f, err := os.CreateTemp("", "stitch-encode-")
	if err != nil {
		return nil, err
	} else if err := f.Close(); err != nil {
		return nil, err
	} else if err := os.Remove(f.Name()); err != nil {
		return nil, err
	}
	path := f.Name() + ".mp3"

	args := []string{
		"-f", "s16le",
		"-ar", strconv.Itoa(a.Rate),
		"-ac", strconv.Itoa(a.Channels),
		"-i", "pipe:0",
		"-f", "mp3",
		path,
	}

	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdin = bytes.NewReader(a.Data)
	cmd.Stdout = c.LogOutput
	cmd.Stderr = c.LogOutput
	if err := cmd.Run(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("ffmpeg encode: %s", err)
	}

	// Open file handle to return for reading.
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &oneTimeReader{File: file}, nil
}

// oneTimeReader allows the reader to read once and then it deletes on close.
type oneTimeReader struct {
	*os.File
}

// Close closes the file handle and deletes the file.
func (r *oneTimeReader) Close() error {
	if err := r.File.Close(); err != nil {
		return err
	}
	return os.Remove(r.File.Name())
}
