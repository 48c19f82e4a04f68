package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/engine"
	"github.com/sprite-ai/commitlint-core/internal/model"
	"github.com/sprite-ai/commitlint-core/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one commit message and print a report",
	Long: `Parse, classify and validate a single commit message.

The report goes to stdout and a one-line summary to stderr, so the
command can gate a commit-msg hook or a CI step.

Exit codes:
  0  pass
  1  warnings found
  2  failures found
  3  message could not be parsed
  4  configuration or usage error`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("message-file", "m", "", "commit message file, or - for stdin (required)")
	validateCmd.Flags().String("meta-file", "", "change metadata as JSON")
	validateCmd.Flags().String("diff-file", "", "unified diff to derive change metadata from")
	validateCmd.Flags().StringP("format", "f", "table", "output format: json, table, markdown")
	validateCmd.Flags().Bool("timestamp", false, "include generated_at in the report")
	validateCmd.Flags().String("cleanup", "verbatim", "'#' line handling: verbatim, or strip for COMMIT_EDITMSG files")
	_ = validateCmd.MarkFlagRequired("message-file")
}

// analyzeOne loads configuration and metadata, then runs the engine on the message file.
func analyzeOne(cmd *cobra.Command, timestamp bool) (*engine.Result, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	cleanupMode, _ := cmd.Flags().GetString("cleanup")
	cleanup, err := parseCleanup(cleanupMode)
	if err != nil {
		return nil, err
	}

	messageFile, _ := cmd.Flags().GetString("message-file")
	metaFile, _ := cmd.Flags().GetString("meta-file")
	diffFile, _ := cmd.Flags().GetString("diff-file")

	meta, err := readMetadata(cmd, metaFile, diffFile)
	if err != nil {
		return nil, err
	}
	raw, err := readInput(cmd, messageFile)
	if err != nil {
		return nil, err
	}

	res, err := newEngine(cfg, engineOptions{timestamp: timestamp, cleanup: cleanup}).Analyze(string(raw), meta)
	if err != nil {
		var pe *commit.ParseError
		if errors.As(err, &pe) {
			return nil, wrapExit(ExitParse, "parsing commit message", err)
		}
		return nil, err
	}
	return res, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	target, err := parseFormat(format)
	if err != nil {
		return err
	}
	timestamp, _ := cmd.Flags().GetBool("timestamp")

	res, err := analyzeOne(cmd, timestamp)
	if err != nil {
		return err
	}

	out, err := report.Format(res.Report, target)
	if err != nil {
		return wrapExit(ExitConfig, "formatting report", err)
	}
	writeReport(cmd, out, target)
	fmt.Fprintln(cmd.ErrOrStderr(), report.SummaryLine(res.Report))

	return statusExit(res.Report.Status)
}

// statusCode is the exit code for one analysed message.
func statusCode(s model.Status) int {
	return ExitCodeOf(statusExit(s))
}
