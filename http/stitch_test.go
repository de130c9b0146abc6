package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	stitch "github.com/rishikaushal2009/Audio-Stich"
	"github.com/rishikaushal2009/Audio-Stich/mock"
)

// Ensure a stitch request runs the pipeline and reports the result.
func TestStitchHandler_Post(t *testing.T) {
	var out bytes.Buffer
	p := stitch.NewPipeline()
	p.Repository = &mock.Repository{
		ListAssetsFn: func(ctx context.Context) ([]stitch.Asset, error) {
			return []stitch.Asset{{Name: "hello", Path: "hello.mp3"}}, nil
		},
		ReadAssetFn: func(ctx context.Context, asset stitch.Asset) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(asset.Name)), nil
		},
		WriteOutputFn: func(ctx context.Context, name string, r io.Reader) error {
			_, err := io.Copy(&out, r)
			return err
		},
	}
	p.Codec = &mock.Codec{
		DecodeFn: func(ctx context.Context, r io.Reader) (*stitch.Audio, error) {
			buf, _ := io.ReadAll(r)
			return &stitch.Audio{Rate: 44100, Channels: 2, Data: buf}, nil
		},
		EncodeFn: func(ctx context.Context, a *stitch.Audio) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(a.Data)), nil
		},
	}

	h := newStitchHandler()
	h.pipeline = p
	h.logOutput = io.Discard

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"message":"Hello!","output":"out.mp3"}`))
	h.ServeHTTP(w, r)

	if w.Code != 200 {
		t.Fatalf("unexpected status: %d: %s", w.Code, w.Body.String())
	}

	var result stitch.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatal(err)
	} else if result.Assets != 1 {
		t.Fatalf("unexpected asset count: %d", result.Assets)
	} else if result.Output != "out.mp3" {
		t.Fatalf("unexpected output: %s", result.Output)
	} else if out.String() != "hello" {
		t.Fatalf("unexpected written data: %q", out.String())
	}
}

// Ensure malformed bodies return a bad request.
func TestStitchHandler_Post_InvalidBody(t *testing.T) {
	h := newStitchHandler()
	h.pipeline = stitch.NewPipeline()
	h.logOutput = io.Discard

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	h.ServeHTTP(w, r)

	if w.Code != 400 {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

// Ensure a missing message returns a bad request, not an internal error.
func TestStitchHandler_Post_MessageRequired(t *testing.T) {
	h := newStitchHandler()
	h.pipeline = stitch.NewPipeline()
	h.logOutput = io.Discard

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"output":"out.mp3"}`))
	h.ServeHTTP(w, r)

	if w.Code != 400 {
		t.Fatalf("unexpected status: %d", w.Code)
	} else if !strings.Contains(w.Body.String(), "message required") {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

// Ensure unrecognized errors are masked from end users.
func TestError_MasksInternal(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Accept", "application/json")

	Error(w, r, stitch.Error("secret detail"))

	if w.Code != 500 {
		t.Fatalf("unexpected status: %d", w.Code)
	} else if strings.Contains(w.Body.String(), "secret detail") {
		t.Fatalf("leaked error detail: %q", w.Body.String())
	} else if !strings.Contains(w.Body.String(), "internal error") {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}
