package stitch_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	stitch "github.com/rishikaushal2009/Audio-Stich"
	"github.com/rishikaushal2009/Audio-Stich/mock"
)

// Ensure buffers append without modification.
func TestAudio_Append(t *testing.T) {
	a := &stitch.Audio{Rate: 44100, Channels: 2, Data: []byte{1, 2, 3, 4}}
	a.Append(&stitch.Audio{Rate: 44100, Channels: 2, Data: []byte{5, 6}})
	if !bytes.Equal(a.Data, []byte{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("unexpected data: %v", a.Data)
	}
}

// Ensure silence has the requested duration.
func TestSilence(t *testing.T) {
	s := stitch.Silence(44100, 2, time.Second)
	if d := s.Duration(); d != time.Second {
		t.Fatalf("unexpected duration: %s", d)
	}
	for _, b := range s.Data {
		if b != 0 {
			t.Fatal("silence contains non-zero samples")
		}
	}
}

// Ensure stitching concatenates decoded assets in input order even
// though decodes run concurrently.
func TestStitcher_Stitch(t *testing.T) {
	repo := &mock.Repository{
		ReadAssetFn: func(ctx context.Context, asset stitch.Asset) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(asset.Name)), nil
		},
	}
	codec := &mock.Codec{
		DecodeFn: func(ctx context.Context, r io.Reader) (*stitch.Audio, error) {
			buf, _ := io.ReadAll(r)
			return &stitch.Audio{Rate: 44100, Channels: 2, Data: buf}, nil
		},
	}

	s := stitch.NewStitcher()
	s.Repository = repo
	s.Codec = codec

	a, err := s.Stitch(context.Background(), []stitch.Asset{{Name: "dog"}, {Name: "cat"}})
	if err != nil {
		t.Fatal(err)
	} else if string(a.Data) != "dogcat" {
		t.Fatalf("unexpected data: %q", a.Data)
	}
}

// Ensure an empty asset list yields an empty zero-duration buffer.
func TestStitcher_Stitch_Empty(t *testing.T) {
	s := stitch.NewStitcher()
	s.Repository = &mock.Repository{}
	s.Codec = &mock.Codec{}

	a, err := s.Stitch(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	} else if len(a.Data) != 0 {
		t.Fatalf("unexpected data length: %d", len(a.Data))
	} else if a.Duration() != 0 {
		t.Fatalf("unexpected duration: %s", a.Duration())
	}
}

// Ensure a decode failure aborts the stitch under the strict policy.
func TestStitcher_Stitch_DecodeError(t *testing.T) {
	repo := &mock.Repository{
		ReadAssetFn: func(ctx context.Context, asset stitch.Asset) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("")), nil
		},
	}
	codec := &mock.Codec{
		DecodeFn: func(ctx context.Context, r io.Reader) (*stitch.Audio, error) {
			return nil, stitch.ErrDecode
		},
	}

	s := stitch.NewStitcher()
	s.Repository = repo
	s.Codec = codec

	if _, err := s.Stitch(context.Background(), []stitch.Asset{{Name: "dog"}}); !errors.Is(err, stitch.ErrDecode) {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure a decode failure substitutes silence under the lenient policy.
func TestStitcher_Stitch_SilenceOnDecodeError(t *testing.T) {
	repo := &mock.Repository{
		ReadAssetFn: func(ctx context.Context, asset stitch.Asset) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(asset.Name)), nil
		},
	}
	codec := &mock.Codec{
		DecodeFn: func(ctx context.Context, r io.Reader) (*stitch.Audio, error) {
			buf, _ := io.ReadAll(r)
			if string(buf) == "bad" {
				return nil, stitch.ErrDecode
			}
			return stitch.Silence(stitch.DefaultSampleRate, stitch.DefaultChannels, time.Second), nil
		},
	}

	s := stitch.NewStitcher()
	s.Repository = repo
	s.Codec = codec
	s.SilenceOnDecodeError = true

	a, err := s.Stitch(context.Background(), []stitch.Asset{{Name: "good"}, {Name: "bad"}})
	if err != nil {
		t.Fatal(err)
	} else if d := a.Duration(); d != 2*time.Second {
		t.Fatalf("unexpected duration: %s", d)
	}
}
