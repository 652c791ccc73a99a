// Package cli provides the docaudit command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
	"github.com/custodia-labs/docaudit/internal/logger"
)

// version is set at build time through -ldflags.
var version = "dev"

// Services used by the commands, injected by SetServices.
var (
	templateService   driving.TemplateService
	auditService      driving.AuditService
	analysisService   driving.AnalysisService
	issueService      driving.IssueService
	extractionService driving.ExtractionService
	settingsService   driving.SettingsService
)

// Services groups the driving ports the CLI depends on.
type Services struct {
	Template   driving.TemplateService
	Audit      driving.AuditService
	Analysis   driving.AnalysisService
	Issue      driving.IssueService
	Extraction driving.ExtractionService
	Settings   driving.SettingsService
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docaudit",
	Short: "Audit documents against rule templates with AI",
	Long: `docaudit extracts the text of PDF, Word, Excel and text documents,
asks an AI model to check it against a rule template, and stores the issues found.

Without an API key the analysis runs in simulation mode and returns sample issues.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print pipeline progress to stderr")
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	templateService = s.Template
	auditService = s.Audit
	analysisService = s.Analysis
	issueService = s.Issue
	extractionService = s.Extraction
	settingsService = s.Settings
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Cancelling ctx stops long-running commands.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
