package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/commitlint-core/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse batch results in an interactive terminal UI",
	Long: `Validate a batch file like the batch command, then open a terminal
browser over the results. Use n/N to move between messages, ] and [ to jump
between failing ones and v to switch between findings and the JSON report.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("input", "i", "", "batch file, or - for stdin (required)")
	reviewCmd.Flags().IntP("workers", "w", 4, "messages analysed concurrently")
	reviewCmd.Flags().Bool("timestamp", false, "include generated_at in each report")
	_ = reviewCmd.MarkFlagRequired("input")
}

func runReview(cmd *cobra.Command, args []string) error {
	entries, err := runBatchInput(cmd)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No messages to review.")
		return nil
	}

	return tui.Run(entries)
}
