package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

func TestAnalyzeTextCmd_FromArgs(t *testing.T) {
	env := setupTestServices(t)
	env.addTemplate(t, "iso")

	out, err := executeCommand("analyze-text", "--template", "iso", "Le", "fournisseur", "doit")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 issues")
	assert.Contains(t, out, "CONTENT")
	assert.Contains(t, out, "Suggestion:")

	issues, err := env.issues.ListByAudit(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, issues, "ad-hoc analysis is not persisted")
}

func TestAnalyzeTextCmd_FromFileAndStdin(t *testing.T) {
	env := setupTestServices(t)
	env.addTemplate(t, "iso")
	env.addAudit(t, "a1", "iso")

	path := env.writeFile(t, "texte.txt", "Contenu à vérifier")
	out, err := executeCommand("analyze-text", "--template", "iso", "--audit", "a1", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 issues")

	analyzeFile = ""
	out, err = executeWithInput(strings.NewReader("Texte depuis stdin"), "analyze-text", "--template", "iso")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 issues")
}

func TestAnalyzeTextCmd_Errors(t *testing.T) {
	env := setupTestServices(t)
	env.addTemplate(t, "iso")

	_, err := executeWithInput(strings.NewReader("   "), "analyze-text", "--template", "iso")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCommand("analyze-text", "--template", "missing", "texte")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = executeCommand("analyze-text", "--template", "iso", "--audit", "missing", "texte")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
