// Package filex provides filesystem helpers for the upload client: disk and
// in-memory upload sources, plus small directory utilities.
package filex

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// EnsureDir creates dir (and any missing parents) and returns its absolute
// path. Existing directories are left untouched.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	return abs, nil
}

// DiskSource is an upload source backed by a file on disk. Metadata is
// captured at construction time; Open is called once per upload attempt.
type DiskSource struct {
	path        string
	name        string
	size        int64
	contentType string
}

// NewDiskSource stats the file and sniffs its MIME type from content.
func NewDiskSource(path string) (*DiskSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectFile(path); err == nil {
		contentType = mtype.String()
	}

	return &DiskSource{
		path:        path,
		name:        filepath.Base(path),
		size:        fi.Size(),
		contentType: contentType,
	}, nil
}

func (s *DiskSource) Name() string        { return s.name }
func (s *DiskSource) Size() int64         { return s.size }
func (s *DiskSource) ContentType() string { return s.contentType }

func (s *DiskSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

// BytesSource is an in-memory upload source, used by tests and small
// programmatic uploads.
type BytesSource struct {
	name        string
	contentType string
	data        []byte
}

func NewBytesSource(name, contentType string, data []byte) *BytesSource {
	return &BytesSource{name: name, contentType: contentType, data: data}
}

func (s *BytesSource) Name() string        { return s.name }
func (s *BytesSource) Size() int64         { return int64(len(s.data)) }
func (s *BytesSource) ContentType() string { return s.contentType }

func (s *BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}
