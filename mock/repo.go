package mock

import (
	"context"
	"io"

	stitch "github.com/rishikaushal2009/Audio-Stich"
)

var _ stitch.Repository = &Repository{}

// Repository is a mock of stitch.Repository.
type Repository struct {
	ListAssetsFn  func(ctx context.Context) ([]stitch.Asset, error)
	ReadAssetFn   func(ctx context.Context, asset stitch.Asset) (io.ReadCloser, error)
	WriteOutputFn func(ctx context.Context, name string, r io.Reader) error
	FindOutputFn  func(ctx context.Context, name string) (*stitch.Output, io.ReadCloser, error)
}

func (s *Repository) ListAssets(ctx context.Context) ([]stitch.Asset, error) {
	return s.ListAssetsFn(ctx)
}

func (s *Repository) ReadAsset(ctx context.Context, asset stitch.Asset) (io.ReadCloser, error) {
	return s.ReadAssetFn(ctx, asset)
}

func (s *Repository) WriteOutput(ctx context.Context, name string, r io.Reader) error {
	return s.WriteOutputFn(ctx, name, r)
}

func (s *Repository) FindOutput(ctx context.Context, name string) (*stitch.Output, io.ReadCloser, error) {
	return s.FindOutputFn(ctx, name)
}
