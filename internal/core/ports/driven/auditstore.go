package driven

import (
	"context"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// AuditStore persists audits.
type AuditStore interface {
	// Save inserts or updates an audit.
	Save(ctx context.Context, audit domain.Audit) error

	// Get retrieves an audit by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Audit, error)

	// List returns all audits ordered by creation time.
	List(ctx context.Context) ([]domain.Audit, error)
}

// TemplateStore persists rule templates.
type TemplateStore interface {
	// Save inserts or updates a template.
	Save(ctx context.Context, tmpl domain.RuleTemplate) error

	// Get retrieves a template by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.RuleTemplate, error)

	// List returns all templates ordered by name.
	List(ctx context.Context) ([]domain.RuleTemplate, error)

	// Delete removes a template.
	Delete(ctx context.Context, id string) error
}
