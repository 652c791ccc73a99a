package services

import (
	"context"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
	"github.com/custodia-labs/docaudit/internal/core/response"
)

// Ensure IssueService implements the interface.
var _ driving.IssueService = (*IssueService)(nil)

// IssueService reads issues and flips their review status.
type IssueService struct {
	store driven.IssueStore
}

// NewIssueService creates a new issue service.
func NewIssueService(store driven.IssueStore) *IssueService {
	return &IssueService{store: store}
}

// ListByAudit returns an audit's issues.
func (s *IssueService) ListByAudit(ctx context.Context, auditID string) ([]domain.Issue, error) {
	return s.store.ListByAudit(ctx, auditID)
}

// ListByDocument returns a document's issues.
func (s *IssueService) ListByDocument(ctx context.Context, documentID string) ([]domain.Issue, error) {
	return s.store.ListByDocument(ctx, documentID)
}

// Critical returns an audit's issues whose type signals a critical problem.
func (s *IssueService) Critical(ctx context.Context, auditID string) ([]domain.Issue, error) {
	issues, err := s.store.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	return response.FilterCritical(issues), nil
}

// Resolve marks an issue Resolved. Resolving twice is not an error.
func (s *IssueService) Resolve(ctx context.Context, id string) error {
	return s.store.UpdateStatus(ctx, id, domain.IssueResolved)
}
