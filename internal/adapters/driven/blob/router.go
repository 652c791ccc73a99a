// Package blob routes document byte access to the store that owns a locator.
package blob

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docaudit/internal/adapters/driven/blob/gcs"
	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.BlobStore = (*Router)(nil)

// Router dispatches on the locator scheme: gs:// locators go to the remote
// store, everything else to the local one. New content is written remotely
// when a remote store is configured.
type Router struct {
	local  driven.BlobStore
	remote driven.BlobStore
}

// NewRouter creates a router. remote may be nil.
func NewRouter(local, remote driven.BlobStore) *Router {
	return &Router{local: local, remote: remote}
}

// Read returns the content at locator.
func (r *Router) Read(ctx context.Context, locator string) ([]byte, error) {
	store, err := r.storeFor(locator)
	if err != nil {
		return nil, err
	}
	return store.Read(ctx, locator)
}

// Write stores data under key.
func (r *Router) Write(ctx context.Context, key string, data []byte) (string, error) {
	if r.remote != nil {
		return r.remote.Write(ctx, key, data)
	}
	return r.local.Write(ctx, key, data)
}

// Delete removes the content at locator.
func (r *Router) Delete(ctx context.Context, locator string) error {
	store, err := r.storeFor(locator)
	if err != nil {
		return err
	}
	return store.Delete(ctx, locator)
}

func (r *Router) storeFor(locator string) (driven.BlobStore, error) {
	if strings.HasPrefix(locator, gcs.Scheme) {
		if r.remote == nil {
			return nil, fmt.Errorf("%w: no gcs bucket configured for %s", domain.ErrInvalidInput, locator)
		}
		return r.remote, nil
	}
	return r.local, nil
}
