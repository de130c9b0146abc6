package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// CachePrefix is the key prefix of the cached output namespace.
const CachePrefix = "cache/"

// Ensure service implements interfaces.
var (
	_ stitch.Repository = &Repository{}
	_ stitch.Cache      = &Repository{}
)

// Repository represents an asset repository in an S3 bucket. Assets are
// the audio objects in the bucket outside the cache prefix; outputs and
// cached results are written back to the same bucket.
type Repository struct {
	Session *Session
	Bucket  string

	LogOutput io.Writer
}

// NewRepository returns a new instance of Repository.
func NewRepository() *Repository {
	return &Repository{LogOutput: io.Discard}
}

// ListAssets enumerates the audio objects in the bucket, skipping the
// cache namespace and objects with disallowed extensions. Each object
// is fetched once to compute its content hash.
func (r *Repository) ListAssets(ctx context.Context) ([]stitch.Asset, error) {
	svc := s3.New(r.Session.session)

	var assets []stitch.Asset
	input := &s3.ListObjectsV2Input{Bucket: aws.String(r.Bucket)}
	err := svc.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if strings.HasPrefix(key, CachePrefix) {
				continue
			}

			name, ext := stitch.AssetName(key)
			if !stitch.AllowedExtension(ext) {
				fmt.Fprintf(r.LogOutput, "s3: skipping object: key=%s ext=%s\n", key, ext)
				continue
			}

			assets = append(assets, stitch.Asset{
				Root: r.Bucket,
				Name: name,
				Ext:  ext,
				Path: key,
			})
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	// Hash object contents.
	for i, asset := range assets {
		hash, err := r.hashObject(ctx, svc, asset.Path)
		if err != nil {
			return nil, err
		}
		assets[i].Hash = hash
	}

	return assets, nil
}

// hashObject downloads one object and digests its bytes.
func (r *Repository) hashObject(ctx context.Context, svc *s3.S3, key string) (string, error) {
	out, err := svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", err
	}
	defer out.Body.Close()

	buf, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}
	return stitch.Digest(buf), nil
}

// ReadAsset returns a reader over one asset's bytes.
// The reader must be closed by the caller.
func (r *Repository) ReadAsset(ctx context.Context, asset stitch.Asset) (io.ReadCloser, error) {
	svc := s3.New(r.Session.session)
	out, err := svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(asset.Path),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// WriteOutput uploads the contents of rd under name. The data is staged
// in a temporary file first since S3 uploads need a seekable body; the
// object appears atomically on success.
func (r *Repository) WriteOutput(ctx context.Context, name string, rd io.Reader) error {
	f, err := os.CreateTemp("", "stitch-upload-")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if _, err := io.Copy(f, rd); err != nil {
		return err
	} else if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	svc := s3.New(r.Session.session)
	_, err = svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.Bucket),
		Key:         aws.String(name),
		Body:        f,
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(r.LogOutput, "s3: uploaded: bucket=%s key=%s\n", r.Bucket, name)
	return nil
}

// FindOutput returns a previously written output and a reader to its
// contents. The reader must be closed by the caller.
func (r *Repository) FindOutput(ctx context.Context, name string) (*stitch.Output, io.ReadCloser, error) {
	svc := s3.New(r.Session.session)
	out, err := svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(name),
	})
	if isNotFound(err) {
		return nil, nil, nil
	} else if err != nil {
		return nil, nil, err
	}

	output := &stitch.Output{Name: name, Size: aws.Int64Value(out.ContentLength)}
	return output, out.Body, nil
}

// Exists reports whether a cached output is recorded under key.
func (r *Repository) Exists(ctx context.Context, key string) (bool, error) {
	svc := s3.New(r.Session.session)
	_, err := svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(cacheKeyPath(key)),
	})
	if isNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// Copy publishes the cached output for key at dest via a server-side
// object copy.
func (r *Repository) Copy(ctx context.Context, key, dest string) error {
	return r.copyObject(ctx, cacheKeyPath(key), dest)
}

// Store records the output at dest in the cache under key. Concurrent
// stores for the same key are last-writer-wins.
func (r *Repository) Store(ctx context.Context, dest, key string) error {
	return r.copyObject(ctx, dest, cacheKeyPath(key))
}

func (r *Repository) copyObject(ctx context.Context, src, dest string) error {
	svc := s3.New(r.Session.session)
	_, err := svc.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(r.Bucket),
		CopySource: aws.String(r.Bucket + "/" + src),
		Key:        aws.String(dest),
	})
	return err
}

// cacheKeyPath returns the object key of a cached output.
func cacheKeyPath(key string) string {
	return CachePrefix + key + ".mp3"
}

// isNotFound returns true if err is an S3 missing-object error.
func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	default:
		return false
	}
}
