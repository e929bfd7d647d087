package document

import (
	"context"
	"fmt"
	"strings"

	"gocloud.dev/blob"

	// Bucket drivers selected by the ARTIFACT_BUCKET_URL scheme.
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

// ArtifactStore persists signed documents. The signed PDF is always written as
// a new artifact; the unsigned original is never overwritten, preserving an
// audit-safe copy of what was sent for review.
type ArtifactStore interface {
	// Put stores the artifact under the given key and returns a reference URL.
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Close releases the underlying bucket.
	Close() error
}

// blobArtifactStore implements ArtifactStore on a gocloud.dev/blob bucket.
type blobArtifactStore struct {
	bucket    *blob.Bucket
	bucketURL string
}

// NewBlobArtifactStore opens the bucket at the given gocloud.dev URL
// (e.g., "file:///var/data/signed", "s3://bucket-name", "mem://").
func NewBlobArtifactStore(ctx context.Context, bucketURL string) (ArtifactStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open artifact bucket")
	}
	return &blobArtifactStore{
		bucket:    bucket,
		bucketURL: strings.TrimSuffix(bucketURL, "/"),
	}, nil
}

// Put writes the artifact and returns its reference URL within the bucket.
func (b *blobArtifactStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	opts := &blob.WriterOptions{ContentType: "application/pdf"}
	if err := b.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return "", apperrors.Wrap(err, "failed to write signed artifact")
	}
	return fmt.Sprintf("%s/%s", b.bucketURL, key), nil
}

// Close releases the underlying bucket.
func (b *blobArtifactStore) Close() error {
	return b.bucket.Close()
}
