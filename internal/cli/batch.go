package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sprite-ai/commitlint-core/internal/engine"
	"github.com/sprite-ai/commitlint-core/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Validate many commit messages from a YAML or JSON file",
	Long: `Validate a list of messages concurrently. The input is a YAML or JSON
list of {id, message, meta} items; meta is optional change metadata.

Entries are reported in input order. A message that cannot be parsed only
fails its own entry. The exit code is the worst code of any entry.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringP("input", "i", "", "batch file, or - for stdin (required)")
	batchCmd.Flags().StringP("format", "f", "table", "output format: json, table, markdown")
	batchCmd.Flags().IntP("workers", "w", 4, "messages analysed concurrently")
	batchCmd.Flags().Bool("timestamp", false, "include generated_at in each report")
	_ = batchCmd.MarkFlagRequired("input")
}

// runBatchInput loads the batch file and analyses every item.
func runBatchInput(cmd *cobra.Command) ([]engine.Entry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	input, _ := cmd.Flags().GetString("input")
	workers, _ := cmd.Flags().GetInt("workers")
	timestamp, _ := cmd.Flags().GetBool("timestamp")
	if workers < 1 {
		return nil, usageErr("--workers must be at least 1")
	}

	items, err := readItems(cmd, input)
	if err != nil {
		return nil, err
	}

	eng := newEngine(cfg, engineOptions{workers: workers, timestamp: timestamp})
	return eng.Batch(cmd.Context(), items), nil
}

// batchExitCode is the worst exit code across entries.
func batchExitCode(entries []engine.Entry) int {
	code := ExitPass
	for _, e := range entries {
		c := ExitParse
		if e.Err == nil && e.Result != nil {
			c = statusCode(e.Result.Report.Status)
		}
		if c > code {
			code = c
		}
	}
	return code
}

func runBatch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	target, err := parseFormat(format)
	if err != nil {
		return err
	}

	entries, err := runBatchInput(cmd)
	if err != nil {
		return err
	}

	reports := engine.Reports(entries)
	out, err := report.FormatBatch(reports, target)
	if err != nil {
		return wrapExit(ExitConfig, "formatting report", err)
	}
	writeReport(cmd, out, target)
	fmt.Fprintln(cmd.ErrOrStderr(), report.BatchSummaryLine(reports))

	code := batchExitCode(entries)
	logger.Debug("batch finished", zap.Int("entries", len(entries)), zap.Int("exit_code", code))
	if code == ExitPass {
		return nil
	}
	return &ExitError{code: code, msg: "batch validation did not pass", silent: true}
}
