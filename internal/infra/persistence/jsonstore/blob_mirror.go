package jsonstore

import (
	"context"
	"strings"

	"usersvc/internal/errors"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	_ "gocloud.dev/blob/s3blob"   // s3:// buckets
)

const jsonContentType = "application/json"

// BlobMirror stores the document as a single object in a gocloud bucket.
// Every write replaces the whole object.
type BlobMirror struct {
	bucket   *blob.Bucket
	key      string
	location string
}

// OpenBlobMirror opens the bucket at bucketURL and mirrors to the object key.
func OpenBlobMirror(ctx context.Context, bucketURL, key string) (*BlobMirror, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", bucketURL)
	}

	return NewBlobMirror(bucket, key, bucketURL), nil
}

// NewBlobMirror wraps an already open bucket. The mirror owns the bucket and closes it.
func NewBlobMirror(bucket *blob.Bucket, key, location string) *BlobMirror {
	return &BlobMirror{
		bucket:   bucket,
		key:      strings.TrimPrefix(key, "/"),
		location: location,
	}
}

func (m *BlobMirror) Exists(ctx context.Context) (bool, error) {
	ok, err := m.bucket.Exists(ctx, m.key)
	if err != nil {
		return false, errors.Wrapf(err, "exists %s", m)
	}

	return ok, nil
}

func (m *BlobMirror) Read(ctx context.Context) ([]byte, error) {
	data, err := m.bucket.ReadAll(ctx, m.key)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", m)
	}

	return data, nil
}

func (m *BlobMirror) Write(ctx context.Context, data []byte) error {
	err := m.bucket.WriteAll(ctx, m.key, data, &blob.WriterOptions{ContentType: jsonContentType})

	return errors.Wrapf(err, "write %s", m)
}

func (m *BlobMirror) Close() error {
	return errors.WithStack(m.bucket.Close())
}

func (m *BlobMirror) String() string {
	return m.location + "#" + m.key
}
