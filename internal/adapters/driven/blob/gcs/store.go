// Package gcs stores uploaded document bytes in Google Cloud Storage.
// Locators have the form gs://bucket/object.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/logger"
)

var log = logger.Named("gcs")

// Scheme prefixes every locator produced by this store.
const Scheme = "gs://"

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store is a BlobStore backed by a GCS bucket.
type Store struct {
	client *storage.Client
	bucket string
}

// New creates a store writing to bucket. Credentials come from opts or
// the application default credentials.
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: gcs bucket is required", domain.ErrInvalidInput)
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

// Read downloads the object at locator.
func (s *Store) Read(ctx context.Context, locator string) ([]byte, error) {
	bucket, object, err := ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("reading blob %s: %w", locator, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading blob %s: %w", locator, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", locator, err)
	}
	return data, nil
}

// Write uploads data as object key and returns its locator.
func (s *Store) Write(ctx context.Context, key string, data []byte) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty blob key", domain.ErrInvalidInput)
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing GCS write: %w", err)
	}

	locator := Locator(s.bucket, key)
	log.Debug("Uploaded %d bytes to %s", len(data), locator)
	return locator, nil
}

// Delete removes the object at locator. A missing object is not an error.
func (s *Store) Delete(ctx context.Context, locator string) error {
	bucket, object, err := ParseLocator(locator)
	if err != nil {
		return err
	}
	err = s.client.Bucket(bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting blob %s: %w", locator, err)
	}
	return nil
}

// Close releases the storage client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Locator formats a gs:// locator.
func Locator(bucket, object string) string {
	return Scheme + bucket + "/" + object
}

// ParseLocator splits gs://bucket/object into its parts.
func ParseLocator(locator string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(locator, Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: not a gcs locator: %q", domain.ErrInvalidInput, locator)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: malformed gcs locator: %q", domain.ErrInvalidInput, locator)
	}
	return bucket, object, nil
}
