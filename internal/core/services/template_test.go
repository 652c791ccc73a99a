package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docaudit/internal/core/domain"
)

func TestTemplateService_CRUD(t *testing.T) {
	svc := NewTemplateService(memory.NewTemplateStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.RuleTemplate{
		Name:         " RGPD ",
		Organization: "CNIL",
		Description:  "Protection des données",
		RuleCount:    12,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "RGPD", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CNIL", got.Organization)
	assert.Equal(t, 12, got.RuleCount)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTemplateService_Create_Validation(t *testing.T) {
	svc := NewTemplateService(memory.NewTemplateStore())
	ctx := context.Background()

	tests := []struct {
		name string
		tmpl domain.RuleTemplate
		want error
	}{
		{name: "empty name", tmpl: domain.RuleTemplate{Name: "  "}, want: domain.ErrInvalidInput},
		{name: "negative rule count", tmpl: domain.RuleTemplate{Name: "X", RuleCount: -1}, want: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.tmpl)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTemplateService_Create_ExplicitIDConflict(t *testing.T) {
	svc := NewTemplateService(memory.NewTemplateStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.RuleTemplate{ID: "iso-9001", Name: "ISO 9001"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.RuleTemplate{ID: "iso-9001", Name: "Doublon"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}
