package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range templateCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"add", "list", "show", "delete"}, names)
}

func TestTemplateCmd_Lifecycle(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No templates configured.")

	out, err = executeCommand("template", "add", "--id", "rgpd", "--name", "RGPD",
		"--org", "CNIL", "--description", "Protection des données", "--rules", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Added template: rgpd")

	out, err = executeCommand("template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "rgpd")
	assert.Contains(t, out, "CNIL")
	assert.Contains(t, out, "Total: 1 templates")

	out, err = executeCommand("template", "show", "rgpd")
	require.NoError(t, err)
	assert.Contains(t, out, "Rules:        12")
	assert.Contains(t, out, "Protection des données")

	out, err = executeCommand("template", "delete", "rgpd")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted template: rgpd")

	_, err = executeCommand("template", "show", "rgpd")
	assert.Error(t, err)
}

func TestTemplateAddCmd_RequiresName(t *testing.T) {
	setupTestServices(t)
	templateAddCmd.Flags().Lookup("name").Changed = false

	_, err := executeCommand("template", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestTemplateShowCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand("template", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
