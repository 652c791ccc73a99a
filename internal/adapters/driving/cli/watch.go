package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docaudit/internal/adapters/driving/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Analyse files dropped into an inbox directory",
	Long: `Watch a directory and upload every new PDF, Word, Excel or text file
to an audit, then analyse it. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// watchAudit is the --audit flag for the watch command.
var watchAudit string

func init() {
	watchCmd.Flags().StringVarP(&watchAudit, "audit", "a", "", "Audit the files are uploaded to")
	_ = watchCmd.MarkFlagRequired("audit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if auditService == nil || analysisService == nil || extractionService == nil {
		return errors.New("audit service not configured")
	}

	if _, err := auditService.Get(cmd.Context(), watchAudit); err != nil {
		return fmt.Errorf("failed to get audit: %w", err)
	}

	w, err := watcher.New(args[0], watchAudit, auditService, analysisService, extractionService)
	if err != nil {
		return err
	}

	results, err := w.Watch(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Dir())
	for res := range results {
		switch {
		case res.Document == nil:
			cmd.Printf("%s %s: %v\n", styles.Error.Render("✗"), res.Path, res.Err)
		case res.Err != nil:
			cmd.Printf("%s %s (%s): %v\n", styles.Error.Render("✗"), res.Document.Name, res.Document.ID, res.Err)
		default:
			cmd.Printf("%s %s (%s): %d issues\n", styles.Success.Render("✓"), res.Document.Name, res.Document.ID, res.IssuesCount)
		}
	}
	return nil
}
