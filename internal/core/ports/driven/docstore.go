package driven

import (
	"context"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// DocumentStore persists documents.
// A successful Save is immediately visible to subsequent reads.
type DocumentStore interface {
	// Save inserts or updates a document.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// ListByAudit returns an audit's documents ordered by creation time.
	ListByAudit(ctx context.Context, auditID string) ([]domain.Document, error)

	// Delete removes a document. Its issues are kept.
	Delete(ctx context.Context, id string) error
}
