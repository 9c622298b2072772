// Package storage abstracts where uploaded images live. Handlers hand a
// file stream to a BlobStorage and persist the public URL it returns.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"inkwell/internal/models"
)

// Upload folders, one per kind of image.
const (
	FolderBlogCovers = "blog-covers"
	FolderAvatars    = "avatars"
)

// MaxUploadSize caps a single uploaded file.
const MaxUploadSize = 10 << 20 // 10 MB

// BlobStorage stores an uploaded file stream and returns a publicly
// retrievable URL for it.
type BlobStorage interface {
	Save(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error)
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ValidateImageFilename rejects files whose extension is not a known image
// format.
func ValidateImageFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return models.NewValidationError("Unsupported image format; use jpg, jpeg, png, gif or webp")
	}
	return nil
}
