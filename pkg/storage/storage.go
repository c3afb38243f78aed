// Package storage gives ingestion read-only access to object stores so that
// s3:// and minio:// locations can be organized like local paths.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// StorageType names an object store backend; it doubles as the URI scheme.
type StorageType string

const (
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Bucket       string
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Storage is the read-only view of a bucket-addressed object store.
// Implementations must never write or delete.
type Storage interface {
	// Stat returns the object's metadata or ErrNotFound.
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)
	// Get opens the object for reading.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	// List returns every object under prefix, recursively, ordered by key.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}

// Location is a parsed object URI such as s3://bucket/path/to/file.pdf.
type Location struct {
	Type   StorageType
	Bucket string
	Key    string
}

func (l Location) String() string {
	return fmt.Sprintf("%s://%s/%s", l.Type, l.Bucket, l.Key)
}

// IsURI reports whether path uses one of the object store schemes.
func IsURI(path string) bool {
	return strings.HasPrefix(path, string(StorageTypeS3)+"://") ||
		strings.HasPrefix(path, string(StorageTypeMinio)+"://")
}

// ParseURI splits an object URI into its parts.
func ParseURI(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid object uri %q: %w", raw, err)
	}

	typ := StorageType(strings.ToLower(u.Scheme))
	if typ != StorageTypeS3 && typ != StorageTypeMinio {
		return Location{}, fmt.Errorf("unsupported storage type: %s", u.Scheme)
	}
	if u.Host == "" {
		return Location{}, fmt.Errorf("object uri %q has no bucket", raw)
	}
	return Location{
		Type:   typ,
		Bucket: u.Host,
		Key:    strings.TrimPrefix(u.Path, "/"),
	}, nil
}
