package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// Ensure the stores implement the interfaces.
var (
	_ driven.AuditStore    = (*AuditStore)(nil)
	_ driven.TemplateStore = (*TemplateStore)(nil)
)

// AuditStore is an in-memory implementation of driven.AuditStore.
type AuditStore struct {
	mu     sync.RWMutex
	audits map[string]domain.Audit
}

// NewAuditStore creates a new in-memory audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{audits: make(map[string]domain.Audit)}
}

// Save inserts or updates an audit.
func (s *AuditStore) Save(_ context.Context, audit domain.Audit) error {
	if audit.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits[audit.ID] = audit
	return nil
}

// Get retrieves an audit by ID.
func (s *AuditStore) Get(_ context.Context, id string) (*domain.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	audit, ok := s.audits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &audit, nil
}

// List returns all audits ordered by creation time.
func (s *AuditStore) List(_ context.Context) ([]domain.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Audit, 0, len(s.audits))
	for _, audit := range s.audits {
		result = append(result, audit)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// TemplateStore is an in-memory implementation of driven.TemplateStore.
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[string]domain.RuleTemplate
}

// NewTemplateStore creates a new in-memory template store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{templates: make(map[string]domain.RuleTemplate)}
}

// Save inserts or updates a template.
func (s *TemplateStore) Save(_ context.Context, tmpl domain.RuleTemplate) error {
	if tmpl.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tmpl.ID] = tmpl
	return nil
}

// Get retrieves a template by ID.
func (s *TemplateStore) Get(_ context.Context, id string) (*domain.RuleTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tmpl, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tmpl, nil
}

// List returns all templates ordered by name.
func (s *TemplateStore) List(_ context.Context) ([]domain.RuleTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RuleTemplate, 0, len(s.templates))
	for _, tmpl := range s.templates {
		result = append(result, tmpl)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a template.
func (s *TemplateStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.templates, id)
	return nil
}
