package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

func testTemplate() domain.RuleTemplate {
	return domain.RuleTemplate{
		ID:           "tpl-1",
		Name:         "ISO 9001",
		Organization: "AFNOR",
		Description:  "Système de management de la qualité",
		RuleCount:    12,
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build(testTemplate(), "hello world", "notes.txt")
	b := Build(testTemplate(), "hello world", "notes.txt")
	assert.Equal(t, a, b)
}

func TestBuild_SectionOrder(t *testing.T) {
	p := Build(testTemplate(), "CONTENU-MARQUEUR", "rapport.pdf")

	markers := []string{
		"Tu es un auditeur expert",
		"Nom : ISO 9001",
		"Organisation : AFNOR",
		"Description : Système de management de la qualité",
		"Nombre de règles : 12",
		`"issues": [`,
		"CATÉGORIES DE PROBLÈMES :",
		"1. Non-conformité réglementaire",
		"DOCUMENT À ANALYSER : rapport.pdf",
		"CONTENU-MARQUEUR",
		"INSTRUCTIONS FINALES :",
	}

	last := -1
	for _, m := range markers {
		idx := strings.Index(p, m)
		require.GreaterOrEqual(t, idx, 0, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
}

func TestBuild_ResponseFieldNames(t *testing.T) {
	p := Build(testTemplate(), "x", "x.txt")
	for _, field := range []string{"issueType", "description", "pageNumber", "paragraphNumber", "suggestion"} {
		assert.Contains(t, p, `"`+field+`"`)
	}
}

func TestBuild_OptionalTemplateFields(t *testing.T) {
	tmpl := domain.RuleTemplate{Name: "Interne"}
	p := Build(tmpl, "hello world", "notes.txt")

	assert.Contains(t, p, "Nom : Interne")
	assert.NotContains(t, p, "Organisation :")
	assert.NotContains(t, p, "Description :")
	assert.NotContains(t, p, "Nombre de règles :")
}

func TestBuild_DoesNotTruncate(t *testing.T) {
	long := strings.Repeat("a", 500000)
	p := Build(testTemplate(), long, "big.txt")
	assert.Contains(t, p, long)
	assert.NotContains(t, p, TruncationMarker)
}

func TestVariants(t *testing.T) {
	tests := []struct {
		name     string
		build    func() string
		contains []string
	}{
		{
			name:     "minimal",
			build:    func() string { return Minimal("texte", "a.txt") },
			contains: []string{"DOCUMENT À ANALYSER : a.txt", "texte"},
		},
		{
			name:     "comparison",
			build:    func() string { return Comparison("a.txt", "texte A", "b.txt", "texte B") },
			contains: []string{"DOCUMENT A : a.txt", "texte A", "DOCUMENT B : b.txt", "texte B"},
		},
		{
			name:     "compliance",
			build:    func() string { return Compliance("RGPD", "texte", "a.txt") },
			contains: []string{"NORME DE RÉFÉRENCE : RGPD", "texte"},
		},
		{
			name:     "quality",
			build:    func() string { return Quality("texte", "a.txt") },
			contains: []string{"DOCUMENT À ÉVALUER : a.txt", "texte"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.build()
			assert.Equal(t, p, tt.build())
			assert.Contains(t, p, `"issues": [`)
			assert.Contains(t, p, "INSTRUCTIONS FINALES :")
			for _, c := range tt.contains {
				assert.Contains(t, p, c)
			}
		})
	}
}

func TestTruncateContent(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", TruncateContent("hello", 5))
		assert.Equal(t, "hello", TruncateContent("hello", 100))
		assert.Equal(t, "", TruncateContent("", 0))
	})

	t.Run("long text cut with marker", func(t *testing.T) {
		out := TruncateContent("hello world", 5)
		assert.Equal(t, "hello"+TruncationMarker, out)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		out := TruncateContent("éléphant", 3)
		assert.Equal(t, "élé"+TruncationMarker, out)
		assert.True(t, utf8.ValidString(out))
	})

	t.Run("negative length", func(t *testing.T) {
		assert.Equal(t, TruncationMarker, TruncateContent("abc", -1))
	})

	t.Run("idempotent on its own prefix", func(t *testing.T) {
		for _, n := range []int{0, 1, 7, 20} {
			s := strings.Repeat("αβγ ", 10)
			out := TruncateContent(s, n)
			prefix := string([]rune(out)[:n])
			assert.Equal(t, prefix, TruncateContent(prefix, n))
		}
	})
}
