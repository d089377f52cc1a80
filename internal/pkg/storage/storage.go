package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage saves and serves files under a local root directory
type Storage struct {
	root string
}

// New creates a storage rooted at the given directory
func New(root string) *Storage {
	return &Storage{root: root}
}

// Save stores an uploaded file under the named bucket with a generated
// name, preserving the original extension. Returns the stored path.
func (s *Storage) Save(file *multipart.FileHeader, bucket string) (string, error) {
	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return dst, nil
}

// Path returns the absolute-ish path of a file inside the storage root
func (s *Storage) Path(parts ...string) string {
	return filepath.Join(append([]string{s.root}, parts...)...)
}

// Exists reports whether a file exists under the storage root
func (s *Storage) Exists(parts ...string) bool {
	info, err := os.Stat(s.Path(parts...))
	return err == nil && !info.IsDir()
}
