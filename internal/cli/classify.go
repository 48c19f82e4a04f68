package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/commitlint-core/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Print the parsed header, inferred type and scope verdict as JSON",
	Long: `Parse a commit message and print how it was understood: the header
breakdown, body and footers, the inferred commit type with its rationale,
and the scope verdict. No rules are reported and the exit code is 0 unless
the message cannot be parsed.`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringP("message-file", "m", "", "commit message file, or - for stdin (required)")
	classifyCmd.Flags().String("meta-file", "", "change metadata as JSON")
	classifyCmd.Flags().String("diff-file", "", "unified diff to derive change metadata from")
	classifyCmd.Flags().String("cleanup", "verbatim", "'#' line handling: verbatim, or strip for COMMIT_EDITMSG files")
	_ = classifyCmd.MarkFlagRequired("message-file")
}

func runClassify(cmd *cobra.Command, args []string) error {
	res, err := analyzeOne(cmd, false)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(res.View(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding classification: %w", err)
	}
	writeReport(cmd, string(data)+"\n", report.TargetJSON)
	return nil
}
