// Package cli implements the commitlint-core command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose      bool
	registryPath string
	noColor      bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "commitlint-core",
	Short: "Classify and validate commit messages",
	Long: `commitlint-core parses Conventional Commits messages, infers their type
from change metadata, checks scopes against a registry and reports rule
violations for CI or humans.

Exit codes:
  0  pass
  1  warnings found
  2  failures found
  3  message could not be parsed
  4  configuration or usage error`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return wrapExit(ExitConfig, "failed to initialize logger", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&registryPath, "registry", "r", "",
		"scope registry / config file (YAML or JSON); defaults to $COMMITLINT_REGISTRY")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return wrapExit(ExitConfig, fmt.Sprintf("%s: invalid arguments", cmd.CommandPath()), err)
	})

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
