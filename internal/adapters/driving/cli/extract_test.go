package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCmd(t *testing.T) {
	env := setupTestServices(t)
	path := env.writeFile(t, "notes.md", "# Titre\nUn texte assez long pour être tronqué par l'aperçu.")

	out, err := executeCommand("extract", path)
	require.NoError(t, err)
	assert.Equal(t, "# Titre\nUn texte ass\n", out)

	out, err = executeCommand("extract", "--max", "7", path)
	require.NoError(t, err)
	assert.Equal(t, "# Titre\n", out)

	extractMaxChars = 0
	out, err = executeCommand("extract", "--full", path)
	require.NoError(t, err)
	assert.Contains(t, out, "tronqué par l'aperçu.")
}

func TestExtractCmd_Errors(t *testing.T) {
	env := setupTestServices(t)

	_, err := executeCommand("extract", env.writeFile(t, "archive.zip", "PK"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
	assert.Contains(t, err.Error(), ".docx")

	_, err = executeCommand("extract", env.dir+"/missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
