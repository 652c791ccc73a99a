package driving

import (
	"context"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// AuditService manages audits and the documents uploaded to them.
type AuditService interface {
	// Create creates an audit bound to an existing template.
	Create(ctx context.Context, name, templateID string) (*domain.Audit, error)

	// Get retrieves an audit by ID.
	Get(ctx context.Context, id string) (*domain.Audit, error)

	// List returns all audits.
	List(ctx context.Context) ([]domain.Audit, error)

	// Upload stores content and registers it as an UPLOADED document.
	Upload(ctx context.Context, auditID, fileName string, content []byte) (*domain.Document, error)

	// Documents returns an audit's documents.
	Documents(ctx context.Context, auditID string) ([]domain.Document, error)

	// Document retrieves a document by ID.
	Document(ctx context.Context, id string) (*domain.Document, error)
}

// TemplateService manages rule templates.
type TemplateService interface {
	// Create stores a new template.
	Create(ctx context.Context, tmpl domain.RuleTemplate) (*domain.RuleTemplate, error)

	// Get retrieves a template by ID.
	Get(ctx context.Context, id string) (*domain.RuleTemplate, error)

	// List returns all templates.
	List(ctx context.Context) ([]domain.RuleTemplate, error)

	// Delete removes a template.
	Delete(ctx context.Context, id string) error
}

// IssueService reads and resolves issues.
type IssueService interface {
	// ListByAudit returns an audit's issues.
	ListByAudit(ctx context.Context, auditID string) ([]domain.Issue, error)

	// ListByDocument returns a document's issues.
	ListByDocument(ctx context.Context, documentID string) ([]domain.Issue, error)

	// Critical returns an audit's issues whose type signals a critical problem.
	Critical(ctx context.Context, auditID string) ([]domain.Issue, error)

	// Resolve marks an issue Resolved.
	Resolve(ctx context.Context, id string) error
}

// ExtractionService exposes text extraction to driving adapters.
type ExtractionService interface {
	// Extract returns the text of content, "" for unsupported kinds.
	Extract(ctx context.Context, content []byte, fileName string) (string, error)

	// Preview returns at most maxChars characters of the text.
	Preview(ctx context.Context, content []byte, fileName string, maxChars int) (string, error)

	// Supports returns true if the file's kind can be extracted.
	Supports(fileName string) bool

	// SupportedExtensions lists the extractable extensions.
	SupportedExtensions() []string
}
