package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "0", port.DefValue)
	assert.Equal(t, "p", port.Shorthand)

	host := mcpServeCmd.Flags().Lookup("host")
	require.NotNil(t, host)
	assert.Equal(t, "localhost", host.DefValue)
}

func TestNewMCPServer(t *testing.T) {
	setupTestServices(t)

	server, err := newMCPServer()
	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestNewMCPServer_RequiresAnalysis(t *testing.T) {
	SetServices(Services{})

	_, err := newMCPServer()
	assert.ErrorIs(t, err, mcp.ErrMissingAnalysisService)
}

func TestMCPServeCmd_InvalidPort(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand("mcp", "serve", "--port", "70000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 70000")
}
