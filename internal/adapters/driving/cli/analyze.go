package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

var analyzeTextCmd = &cobra.Command{
	Use:   "analyze-text [text]",
	Short: "Analyse free text against a template",
	Long: `Analyse free text against a rule template and print the issues found.
The issues are not stored.

The text is taken from the arguments, from --file, or from stdin when neither is given.`,
	RunE: runAnalyzeText,
}

// Flags for analyze-text.
var (
	analyzeTemplate string
	analyzeAudit    string
	analyzeFile     string
)

func init() {
	analyzeTextCmd.Flags().StringVarP(&analyzeTemplate, "template", "t", "", "Rule template ID")
	analyzeTextCmd.Flags().StringVarP(&analyzeAudit, "audit", "a", "", "Audit the issues are attributed to")
	analyzeTextCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Read the text from a file")
	_ = analyzeTextCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(analyzeTextCmd)
}

func runAnalyzeText(cmd *cobra.Command, args []string) error {
	if analysisService == nil || templateService == nil {
		return errors.New("analysis service not configured")
	}

	text, err := readAnalyzeInput(cmd, args)
	if err != nil {
		return err
	}

	tmpl, err := templateService.Get(cmd.Context(), analyzeTemplate)
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}

	audit := domain.Audit{ID: analyzeAudit, TemplateID: tmpl.ID}
	if analyzeAudit != "" && auditService != nil {
		found, err := auditService.Get(cmd.Context(), analyzeAudit)
		if err != nil {
			return fmt.Errorf("failed to get audit: %w", err)
		}
		audit = *found
	}

	issues, err := analysisService.AnalyzeText(cmd.Context(), text, *tmpl, audit)
	if err != nil {
		return fmt.Errorf("failed to analyse text: %w", err)
	}

	cmd.Printf("Found %d issues\n\n", len(issues))
	printIssues(cmd, issues)
	return nil
}

func readAnalyzeInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case analyzeFile != "":
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", analyzeFile, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
}
