package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docaudit", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commandNames := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		commandNames = append(commandNames, cmd.Name())
	}

	for _, name := range []string{
		"template", "audit", "document", "analyze-text", "extract",
		"issue", "settings", "watch", "mcp", "version",
	} {
		assert.Contains(t, commandNames, name)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	setupTestServices(t)
	defer logger.SetVerbose(false)

	_, err := executeCommand("--verbose", "version")
	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestCommands_ServiceNotConfigured(t *testing.T) {
	SetServices(Services{})
	resetFlags()

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"template", "list"}, want: "template service not configured"},
		{args: []string{"audit", "list"}, want: "audit service not configured"},
		{args: []string{"audit", "analyze", "a1"}, want: "analysis service not configured"},
		{args: []string{"document", "analyze", "d1"}, want: "analysis service not configured"},
		{args: []string{"issue", "list", "a1"}, want: "issue service not configured"},
		{args: []string{"extract", "a.txt"}, want: "extraction service not configured"},
		{args: []string{"settings", "show"}, want: "settings service not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := executeCommand(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStyles_StatusStyle(t *testing.T) {
	s := NewStyles(nil)
	theme := DefaultTheme()

	assert.Equal(t, theme.Success, s.StatusStyle("ANALYZED").GetForeground())
	assert.Equal(t, theme.Warning, s.StatusStyle("PROCESSING").GetForeground())
	assert.Equal(t, theme.Error, s.StatusStyle("ERROR").GetForeground())
	assert.Equal(t, theme.Muted, s.StatusStyle("UPLOADED").GetForeground())
}
