package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/feichai0017/file-organizer/pkg/storage"
)

type entry struct {
	size  int64
	isDir bool
}

// source abstracts where files live: the local filesystem or an object store.
type source interface {
	stat(ctx context.Context, path string) (entry, error)
	readFile(ctx context.Context, path string) ([]byte, error)
	// walk returns every file below root in lexical order.
	walk(ctx context.Context, root string) ([]string, error)
}

type localSource struct{}

func (localSource) stat(_ context.Context, path string) (entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entry{}, ErrNotFound
		}
		return entry{}, err
	}
	return entry{size: info.Size(), isDir: info.IsDir()}, nil
}

func (localSource) readFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (localSource) walk(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// only an unreadable root fails the walk
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		switch {
		case d.Type().IsRegular():
			files = append(files, path)
		case d.Type()&fs.ModeSymlink != 0:
			// linked files count, linked directories are not descended
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				files = append(files, path)
			}
		}
		return nil
	})
	return files, err
}

// objectSource reads s3:// or minio:// URIs. A key that is not an object
// but prefixes other objects is treated as a directory.
type objectSource struct {
	store storage.Storage
}

func (s objectSource) stat(ctx context.Context, uri string) (entry, error) {
	loc, err := storage.ParseURI(uri)
	if err != nil {
		return entry{}, err
	}

	if loc.Key != "" && !strings.HasSuffix(loc.Key, "/") {
		info, err := s.store.Stat(ctx, loc.Bucket, loc.Key)
		if err == nil {
			return entry{size: info.Size}, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return entry{}, err
		}
	}

	objs, err := s.store.List(ctx, loc.Bucket, dirPrefix(loc.Key))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return entry{}, ErrNotFound
		}
		return entry{}, err
	}
	if len(objs) == 0 {
		return entry{}, ErrNotFound
	}
	return entry{isDir: true}, nil
}

func (s objectSource) readFile(ctx context.Context, uri string) ([]byte, error) {
	loc, err := storage.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	rc, err := s.store.Get(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

func (s objectSource) walk(ctx context.Context, root string) ([]string, error) {
	loc, err := storage.ParseURI(root)
	if err != nil {
		return nil, err
	}
	objs, err := s.store.List(ctx, loc.Bucket, dirPrefix(loc.Key))
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(objs))
	for _, obj := range objs {
		// zero-byte "folder" markers
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		files = append(files, storage.Location{Type: loc.Type, Bucket: loc.Bucket, Key: obj.Key}.String())
	}
	return files, nil
}

func dirPrefix(key string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key
	}
	return key + "/"
}
