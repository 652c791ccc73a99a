package driven

import "context"

// BlobStore gives byte access to uploaded documents by locator.
type BlobStore interface {
	// Read returns the content stored at locator.
	Read(ctx context.Context, locator string) ([]byte, error)

	// Write stores data under key and returns its locator.
	Write(ctx context.Context, key string, data []byte) (string, error)

	// Delete removes the content at locator. Missing content is not an error.
	Delete(ctx context.Context, locator string) error
}
