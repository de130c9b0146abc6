// Package local implements the asset repository and result cache on the
// local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// Ensure service implements interfaces.
var (
	_ stitch.Repository = &Repository{}
	_ stitch.Cache      = &Repository{}
)

// Repository represents an asset repository on the local filesystem.
// Assets are the audio files directly inside AudioPath; outputs are
// written relative to the process working directory unless given as
// absolute paths. CachePath, if set, holds cached outputs per key.
type Repository struct {
	AudioPath string
	CachePath string

	GenerateToken func() string
}

// NewRepository returns a new instance of Repository.
func NewRepository() *Repository {
	return &Repository{
		GenerateToken: stitch.GenerateToken,
	}
}

// ListAssets enumerates the audio files in AudioPath, skipping
// subdirectories and files with disallowed extensions. Each asset's
// content is hashed at enumeration time.
func (r *Repository) ListAssets(ctx context.Context) ([]stitch.Asset, error) {
	entries, err := os.ReadDir(r.AudioPath)
	if err != nil {
		return nil, err
	}

	var assets []stitch.Asset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name, ext := stitch.AssetName(entry.Name())
		if !stitch.AllowedExtension(ext) {
			continue
		}

		path := filepath.Join(r.AudioPath, entry.Name())
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		assets = append(assets, stitch.Asset{
			Root: r.AudioPath,
			Name: name,
			Ext:  ext,
			Path: path,
			Hash: stitch.Digest(buf),
		})
	}
	return assets, nil
}

// ReadAsset returns a reader over one asset's bytes.
// The reader must be closed by the caller.
func (r *Repository) ReadAsset(ctx context.Context, asset stitch.Asset) (io.ReadCloser, error) {
	return os.Open(asset.Path)
}

// WriteOutput writes the contents of rd to name. The data is staged in
// a temporary file next to the destination and renamed into place, so a
// failed or canceled write leaves no partial output.
func (r *Repository) WriteOutput(ctx context.Context, name string, rd io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(name), 0777); err != nil {
		return err
	}
	return writeAtomic(name, rd, r.GenerateToken)
}

// FindOutput returns a previously written output and a reader to its
// contents. The reader must be closed by the caller.
func (r *Repository) FindOutput(ctx context.Context, name string) (*stitch.Output, io.ReadCloser, error) {
	fi, err := os.Stat(name)
	if os.IsNotExist(err) {
		return nil, nil, nil
	} else if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(name)
	if os.IsNotExist(err) {
		return nil, nil, nil
	} else if err != nil {
		return nil, nil, err
	}

	return &stitch.Output{Name: name, Size: fi.Size()}, file, nil
}

// Exists reports whether a cached output is recorded under key.
func (r *Repository) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := os.Stat(r.cachePath(key)); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// Copy publishes the cached output for key at dest.
func (r *Repository) Copy(ctx context.Context, key, dest string) error {
	src, err := os.Open(r.cachePath(key))
	if err != nil {
		return err
	}
	defer src.Close()

	return r.WriteOutput(ctx, dest, src)
}

// Store records the output at dest in the cache under key. The store
// takes a per-key advisory lock; if another process holds the lock the
// store is skipped, since its writer is producing the same content.
func (r *Repository) Store(ctx context.Context, dest, key string) error {
	if err := os.MkdirAll(r.CachePath, 0777); err != nil {
		return err
	}

	lock := flock.New(r.cachePath(key) + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return err
	} else if !ok {
		return nil
	}
	defer lock.Unlock()

	src, err := os.Open(dest)
	if err != nil {
		return err
	}
	defer src.Close()

	return writeAtomic(r.cachePath(key), src, r.GenerateToken)
}

// cachePath returns the cache file path for a key.
func (r *Repository) cachePath(key string) string {
	return filepath.Join(r.CachePath, key+".mp3")
}

// writeAtomic copies rd into path via a temporary file and rename.
func writeAtomic(path string, rd io.Reader, token func() string) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, token())
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, rd); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
