package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
)

// Ensure TemplateService implements the interface.
var _ driving.TemplateService = (*TemplateService)(nil)

// TemplateService manages rule templates.
type TemplateService struct {
	store driven.TemplateStore

	now   func() time.Time
	newID func() string
}

// NewTemplateService creates a new template service.
func NewTemplateService(store driven.TemplateStore) *TemplateService {
	return &TemplateService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create stores a new template. An empty ID is generated.
func (s *TemplateService) Create(ctx context.Context, tmpl domain.RuleTemplate) (*domain.RuleTemplate, error) {
	tmpl.Name = strings.TrimSpace(tmpl.Name)
	if tmpl.Name == "" {
		return nil, fmt.Errorf("%w: template name is required", domain.ErrInvalidInput)
	}
	if tmpl.RuleCount < 0 {
		return nil, fmt.Errorf("%w: rule count must not be negative", domain.ErrInvalidInput)
	}

	if tmpl.ID == "" {
		tmpl.ID = s.newID()
	} else if _, err := s.store.Get(ctx, tmpl.ID); err == nil {
		return nil, fmt.Errorf("%w: template %s", domain.ErrAlreadyExists, tmpl.ID)
	}
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = s.now()
	}

	if err := s.store.Save(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return &tmpl, nil
}

// Get retrieves a template by ID.
func (s *TemplateService) Get(ctx context.Context, id string) (*domain.RuleTemplate, error) {
	return s.store.Get(ctx, id)
}

// List returns all templates.
func (s *TemplateService) List(ctx context.Context) ([]domain.RuleTemplate, error) {
	return s.store.List(ctx)
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
