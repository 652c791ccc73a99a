package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/adapters/driven/ai"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/completion/simulation"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/services"
	"github.com/custodia-labs/docaudit/internal/extractors"
)

// testEnv wires real services over memory stores and the simulation provider.
type testEnv struct {
	dir       string
	templates *memory.TemplateStore
	audits    *memory.AuditStore
	docs      *memory.DocumentStore
	issues    *memory.IssueStore
	config    *memory.ConfigStore
}

func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		dir:       t.TempDir(),
		templates: memory.NewTemplateStore(),
		audits:    memory.NewAuditStore(),
		docs:      memory.NewDocumentStore(),
		issues:    memory.NewIssueStore(),
		config:    memory.NewConfigStore(),
	}

	blobs, err := filesystem.New(filepath.Join(env.dir, "blobs"))
	require.NoError(t, err)

	registry := extractors.Default()
	gateway := ai.NewGateway(simulation.New(), ai.GatewayConfig{Timeout: 5 * time.Second})
	analysis := domain.AnalysisSettings{MaxContentChars: 100000, Workers: 2, PreviewChars: 20}

	SetServices(Services{
		Template: services.NewTemplateService(env.templates),
		Audit:    services.NewAuditService(env.audits, env.templates, env.docs, blobs, 1024),
		Analysis: services.NewAnalysisService(env.docs, env.issues, env.audits, env.templates,
			blobs, registry, gateway, analysis),
		Issue:      services.NewIssueService(env.issues),
		Extraction: services.NewExtractionService(registry, analysis.PreviewChars),
		Settings:   services.NewSettingsService(env.config),
	})
	resetFlags()

	t.Cleanup(func() {
		SetServices(Services{})
		resetFlags()
		rootCmd.SetIn(nil)
	})
	return env
}

// resetFlags clears flag variables that persist between executions.
func resetFlags() {
	verbose = false
	templateID, templateName, templateOrganization, templateDescription = "", "", "", ""
	templateRuleCount = 0
	auditTemplate = ""
	analyzeTemplate, analyzeAudit, analyzeFile = "", "", ""
	extractMaxChars, extractFull = 0, false
	issueCritical = false
	watchAudit = ""
	mcpPort, mcpHost = 0, "localhost"
	versionShort = false
}

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func executeWithInput(input io.Reader, args ...string) (string, error) {
	rootCmd.SetIn(input)
	defer rootCmd.SetIn(nil)
	return executeCommand(args...)
}

func (e *testEnv) addTemplate(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.templates.Save(context.Background(), domain.RuleTemplate{
		ID: id, Name: "ISO 9001", Organization: "ISO", RuleCount: 10, CreatedAt: time.Now(),
	}))
}

func (e *testEnv) addAudit(t *testing.T, id, templateID string) {
	t.Helper()
	require.NoError(t, e.audits.Save(context.Background(), domain.Audit{
		ID: id, Name: "Audit fournisseurs", TemplateID: templateID, CreatedAt: time.Now(),
	}))
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// lineValue returns the text after prefix on the first line containing it.
func lineValue(output, prefix string) string {
	for _, line := range strings.Split(output, "\n") {
		if i := strings.Index(line, prefix); i >= 0 {
			return strings.TrimSpace(line[i+len(prefix):])
		}
	}
	return ""
}
