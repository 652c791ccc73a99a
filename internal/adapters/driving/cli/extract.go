package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the extracted text of a local file",
	Long: `Extract the plain text of a local PDF, Word, Excel or text file.

By default a preview is printed; use --full for the whole text.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// Flags for extract.
var (
	extractMaxChars int
	extractFull     bool
)

func init() {
	extractCmd.Flags().IntVarP(&extractMaxChars, "max", "m", 0, "Preview length in characters (default from settings)")
	extractCmd.Flags().BoolVar(&extractFull, "full", false, "Print the whole text")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	path := args[0]
	if !extractionService.Supports(path) {
		return fmt.Errorf("unsupported file type %q (supported: %s)",
			path, strings.Join(extractionService.SupportedExtensions(), ", "))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var text string
	if extractFull {
		text, err = extractionService.Extract(cmd.Context(), content, path)
	} else {
		text, err = extractionService.Preview(cmd.Context(), content, path, extractMaxChars)
	}
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", path, err)
	}

	cmd.Println(text)
	return nil
}
