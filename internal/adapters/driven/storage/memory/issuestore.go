package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// Ensure IssueStore implements the interface.
var _ driven.IssueStore = (*IssueStore)(nil)

// IssueStore is an in-memory implementation of driven.IssueStore.
type IssueStore struct {
	mu     sync.RWMutex
	issues map[string]domain.Issue
	order  map[string]int
	seq    int
}

// NewIssueStore creates a new in-memory issue store.
func NewIssueStore() *IssueStore {
	return &IssueStore{
		issues: make(map[string]domain.Issue),
		order:  make(map[string]int),
	}
}

// SaveAll inserts issues. Nothing is stored if any issue lacks an ID.
func (s *IssueStore) SaveAll(_ context.Context, issues []domain.Issue) error {
	for _, issue := range issues {
		if issue.ID == "" {
			return domain.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, issue := range issues {
		if _, ok := s.order[issue.ID]; !ok {
			s.seq++
			s.order[issue.ID] = s.seq
		}
		s.issues[issue.ID] = cloneIssue(issue)
	}
	return nil
}

// Get retrieves an issue by ID.
func (s *IssueStore) Get(_ context.Context, id string) (*domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issue, ok := s.issues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneIssue(issue)
	return &out, nil
}

// ListByAudit returns an audit's issues ordered by creation time.
func (s *IssueStore) ListByAudit(_ context.Context, auditID string) ([]domain.Issue, error) {
	return s.filter(func(i domain.Issue) bool { return i.AuditID == auditID }), nil
}

// ListByDocument returns a document's issues ordered by creation time.
func (s *IssueStore) ListByDocument(_ context.Context, documentID string) ([]domain.Issue, error) {
	return s.filter(func(i domain.Issue) bool {
		return i.DocumentID != nil && *i.DocumentID == documentID
	}), nil
}

// UpdateStatus changes the review status of an issue.
func (s *IssueStore) UpdateStatus(_ context.Context, id string, status domain.IssueStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	issue, ok := s.issues[id]
	if !ok {
		return domain.ErrNotFound
	}
	issue.Status = status
	s.issues[id] = issue
	return nil
}

func (s *IssueStore) filter(match func(domain.Issue) bool) []domain.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Issue, 0)
	for _, issue := range s.issues {
		if match(issue) {
			result = append(result, cloneIssue(issue))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return s.order[result[i].ID] < s.order[result[j].ID]
	})
	return result
}

func cloneIssue(issue domain.Issue) domain.Issue {
	if issue.DocumentID != nil {
		id := *issue.DocumentID
		issue.DocumentID = &id
	}
	if issue.PageNumber != nil {
		n := *issue.PageNumber
		issue.PageNumber = &n
	}
	if issue.ParagraphNumber != nil {
		n := *issue.ParagraphNumber
		issue.ParagraphNumber = &n
	}
	return issue
}
