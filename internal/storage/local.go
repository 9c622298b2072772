package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/models"

	"github.com/google/uuid"
)

// LocalStorage writes uploads to a directory served by the static file
// handler. URLs it returns are rooted at /uploads/.
type LocalStorage struct {
	dir     string
	maxSize int64
}

// NewLocalStorage creates a LocalStorage rooted at dir.
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir, maxSize: MaxUploadSize}
}

// Save stores the stream under a random object name and returns the URL the
// static handler serves it at.
func (s *LocalStorage) Save(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error) {
	if err := ValidateImageFilename(filename); err != nil {
		return "", err
	}
	if size > s.maxSize {
		return "", models.NewValidationError("File too large (max 10 MB)")
	}

	name := objectName(filename)
	destDir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", models.NewStorageError(err)
	}

	f, err := os.Create(filepath.Join(destDir, name))
	if err != nil {
		return "", models.NewStorageError(err)
	}
	defer f.Close()

	limited := io.LimitReader(r, s.maxSize+1)
	n, err := io.Copy(f, limited)
	if err != nil {
		return "", models.NewStorageError(err)
	}
	if n > s.maxSize {
		_ = os.Remove(f.Name())
		return "", models.NewValidationError("File too large (max 10 MB)")
	}

	return fmt.Sprintf("/uploads/%s/%s", folder, name), nil
}

// objectName keeps the original extension but replaces the name with a
// random id, so uploads never collide or leak local filenames.
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.New().String() + ext
}
