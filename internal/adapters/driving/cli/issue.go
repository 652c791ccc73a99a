package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Review issues",
	Long:  `List the issues found by analysis and mark them resolved.`,
}

var issueListCmd = &cobra.Command{
	Use:   "list [audit-id]",
	Short: "List the issues of an audit",
	Args:  cobra.ExactArgs(1),
	RunE:  runIssueList,
}

var issueResolveCmd = &cobra.Command{
	Use:   "resolve [issue-id]",
	Short: "Mark an issue resolved",
	Args:  cobra.ExactArgs(1),
	RunE:  runIssueResolve,
}

// issueCritical is the --critical flag for the list command.
var issueCritical bool

func init() {
	issueListCmd.Flags().BoolVarP(&issueCritical, "critical", "c", false, "Only critical or non-compliance issues")

	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueResolveCmd)
	rootCmd.AddCommand(issueCmd)
}

func runIssueList(cmd *cobra.Command, args []string) error {
	if issueService == nil {
		return errors.New("issue service not configured")
	}

	var (
		issues []domain.Issue
		err    error
	)
	if issueCritical {
		issues, err = issueService.Critical(cmd.Context(), args[0])
	} else {
		issues, err = issueService.ListByAudit(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to list issues: %w", err)
	}

	if len(issues) == 0 {
		cmd.Printf("No issues for audit: %s\n", args[0])
		return nil
	}

	printIssues(cmd, issues)
	cmd.Printf("Total: %d issues\n", len(issues))
	return nil
}

func runIssueResolve(cmd *cobra.Command, args []string) error {
	if issueService == nil {
		return errors.New("issue service not configured")
	}

	if err := issueService.Resolve(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to resolve issue: %w", err)
	}

	cmd.Printf("Resolved issue: %s\n", args[0])
	return nil
}

func printIssues(cmd *cobra.Command, issues []domain.Issue) {
	for i := range issues {
		issue := &issues[i]
		cmd.Printf("  [%s] %s\n", renderIssueStatus(issue.Status), styles.Title.Render(issue.IssueType))
		if issue.ID != "" {
			cmd.Printf("    ID:         %s\n", styles.Muted.Render(issue.ID))
		}
		if issue.DocumentID != nil {
			cmd.Printf("    Document:   %s\n", *issue.DocumentID)
		}
		if loc := issueLocation(issue); loc != "" {
			cmd.Printf("    Location:   %s\n", loc)
		}
		cmd.Printf("    Problem:    %s\n", issue.Description)
		if issue.Suggestion != "" {
			cmd.Printf("    Suggestion: %s\n", issue.Suggestion)
		}
		cmd.Println()
	}
}

func issueLocation(issue *domain.Issue) string {
	switch {
	case issue.PageNumber != nil && issue.ParagraphNumber != nil:
		return fmt.Sprintf("page %d, paragraph %d", *issue.PageNumber, *issue.ParagraphNumber)
	case issue.PageNumber != nil:
		return fmt.Sprintf("page %d", *issue.PageNumber)
	case issue.ParagraphNumber != nil:
		return fmt.Sprintf("paragraph %d", *issue.ParagraphNumber)
	default:
		return ""
	}
}
