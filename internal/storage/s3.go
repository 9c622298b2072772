package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage stores uploads in an S3 bucket fronted by a public base URL
// (the bucket website endpoint or a CDN).
type S3Storage struct {
	client        *s3.Client
	bucket        string
	prefix        string
	publicBaseURL string
	maxSize       int64
}

// NewS3Storage creates an S3-backed BlobStorage.
func NewS3Storage(client *s3.Client, bucket, prefix, publicBaseURL string) *S3Storage {
	return &S3Storage{
		client:        client,
		bucket:        bucket,
		prefix:        prefix,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		maxSize:       MaxUploadSize,
	}
}

// Save uploads the stream to S3 and returns its public URL.
func (s *S3Storage) Save(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error) {
	if err := ValidateImageFilename(filename); err != nil {
		return "", err
	}
	if size > s.maxSize {
		return "", models.NewValidationError("File too large (max 10 MB)")
	}

	key := s.prefix + folder + "/" + objectName(filename)

	// Buffer the upload; covers and avatars are small enough that
	// multipart streaming is not worth the complexity.
	var buf bytes.Buffer
	limited := io.LimitReader(r, s.maxSize+1)
	n, err := io.Copy(&buf, limited)
	if err != nil {
		return "", models.NewStorageError(err)
	}
	if n > s.maxSize {
		return "", models.NewValidationError("File too large (max 10 MB)")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": filename,
			"upload-time":       time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", models.NewStorageError(fmt.Errorf("s3 upload failed: %w", err))
	}

	return s.publicBaseURL + "/" + key, nil
}
