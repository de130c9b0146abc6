package stitch

import (
	"context"
	"io"
	"path"
	"strings"
)

// Asset errors.
const (
	ErrOutputNameRequired = Error("output name required")
)

// Allowed audio asset extensions. Files with any other extension are
// silently excluded from the catalog.
var AllowedExtensions = []string{".mp3", ".wav"}

// AllowedExtension returns true if ext is an allowed audio extension.
// The comparison is case-insensitive.
func AllowedExtension(ext string) bool {
	for _, s := range AllowedExtensions {
		if strings.EqualFold(ext, s) {
			return true
		}
	}
	return false
}

// Asset represents a single named audio unit available for stitching.
// Name is the matchable token (the filename without extension), Path is
// the repository-specific locator, and Hash is a digest of the asset's
// raw bytes. Assets are immutable for the duration of one pipeline run.
type Asset struct {
	Root string `json:"root"`
	Name string `json:"name"`
	Ext  string `json:"ext"`
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// Output represents a produced stitched output file.
type Output struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Repository represents a storage backend holding audio assets and
// produced outputs. Implementations exist for the local filesystem and
// for S3; callers never branch on which variant they hold.
type Repository interface {
	// ListAssets enumerates the available audio assets, filtered by
	// AllowedExtensions. Enumeration order is storage-defined.
	ListAssets(ctx context.Context) ([]Asset, error)

	// ReadAsset returns the raw bytes of one asset.
	// The reader must be closed by the caller.
	ReadAsset(ctx context.Context, asset Asset) (io.ReadCloser, error)

	// WriteOutput publishes the contents of r under name.
	// The write is all-or-nothing: a failed or canceled write must not
	// leave a partial file at the destination.
	WriteOutput(ctx context.Context, name string, r io.Reader) error

	// FindOutput returns a previously written output and a reader to
	// its contents, or nil if no such output exists.
	// The reader must be closed by the caller.
	FindOutput(ctx context.Context, name string) (*Output, io.ReadCloser, error)
}

// AssetName returns the matchable asset name for a storage key or
// filename: the base name with the extension removed.
func AssetName(key string) (name, ext string) {
	base := path.Base(key)
	ext = path.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}
