package loglocator

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bitrise-io/go-utils/v2/pathutil"
)

// Object is an open file of a run's storage.
type Object interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
}

// ObjectInfo ...
type ObjectInfo struct {
	Size    int64
	ModTime time.Time
}

// RunStore gives access to the files stored under a run's root.
// Names are slash separated and relative to the root. A missing file is reported with an
// error matching fs.ErrNotExist.
type RunStore interface {
	Open(ctx context.Context, name string) (Object, ObjectInfo, error)
}

// DirStore is a RunStore backed by a local directory.
type DirStore struct {
	root        string
	pathChecker pathutil.PathChecker
}

// NewDirStore ...
func NewDirStore(root string, pathChecker pathutil.PathChecker) *DirStore {
	return &DirStore{
		root:        root,
		pathChecker: pathChecker,
	}
}

// Root ...
func (s *DirStore) Root() string {
	return s.root
}

func (s *DirStore) Open(_ context.Context, name string) (Object, ObjectInfo, error) {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return nil, ObjectInfo{}, fmt.Errorf("%s is outside of the run root: %w", name, fs.ErrNotExist)
	}

	pth := filepath.Join(s.root, filepath.FromSlash(name))
	exists, err := s.pathChecker.IsPathExists(pth)
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("failed to check if %s exists: %w", pth, err)
	}
	if !exists {
		return nil, ObjectInfo{}, fmt.Errorf("%s: %w", pth, fs.ErrNotExist)
	}

	f, err := os.Open(pth)
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("failed to open %s: %w", pth, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("failed to stat %s: %w", pth, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("%s is a directory: %w", pth, fs.ErrNotExist)
	}

	return f, ObjectInfo{Size: info.Size(), ModTime: info.ModTime()}, nil
}
