package driven

import (
	"context"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// IssueStore persists issues.
type IssueStore interface {
	// SaveAll inserts issues atomically.
	SaveAll(ctx context.Context, issues []domain.Issue) error

	// Get retrieves an issue by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Issue, error)

	// ListByAudit returns an audit's issues ordered by creation time.
	ListByAudit(ctx context.Context, auditID string) ([]domain.Issue, error)

	// ListByDocument returns a document's issues ordered by creation time.
	ListByDocument(ctx context.Context, documentID string) ([]domain.Issue, error)

	// UpdateStatus changes the review status of an issue.
	UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error
}
