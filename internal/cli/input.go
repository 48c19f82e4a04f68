package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/config"
	"github.com/sprite-ai/commitlint-core/internal/diff"
	"github.com/sprite-ai/commitlint-core/internal/engine"
	"github.com/sprite-ai/commitlint-core/internal/model"
	"github.com/sprite-ai/commitlint-core/internal/report"
)

// readInput reads path, or the command's stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, wrapExit(ExitConfig, "reading stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapExit(ExitConfig, "reading input", err)
	}
	return data, nil
}

// readMetadata loads change metadata from a JSON file or a unified diff.
// Neither flag set means no metadata.
func readMetadata(cmd *cobra.Command, metaPath, diffPath string) (*model.ChangeMetadata, error) {
	switch {
	case metaPath != "" && diffPath != "":
		return nil, usageErr("--meta-file and --diff-file are mutually exclusive")
	case metaPath != "":
		data, err := readInput(cmd, metaPath)
		if err != nil {
			return nil, err
		}
		var meta model.ChangeMetadata
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&meta); err != nil {
			return nil, wrapExit(ExitConfig, "parsing metadata "+metaPath, err)
		}
		return &meta, nil
	case diffPath != "":
		data, err := readInput(cmd, diffPath)
		if err != nil {
			return nil, err
		}
		meta, err := diff.ParseMetadata(string(data))
		if err != nil {
			return nil, wrapExit(ExitConfig, "reading diff "+diffPath, err)
		}
		logger.Debug("metadata from diff",
			zap.Int("files", len(meta.FilesChanged)),
			zap.Int("symbols_removed", meta.SymbolsRemoved),
		)
		return meta, nil
	}
	return nil, nil
}

// readItems decodes a YAML or JSON list of batch items.
// Items without an id are numbered from 1.
func readItems(cmd *cobra.Command, path string) ([]engine.Item, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var items []engine.Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, wrapExit(ExitConfig, "parsing batch input "+path, err)
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = fmt.Sprintf("%d", i+1)
		}
	}
	return items, nil
}

// loadConfig resolves --registry against $COMMITLINT_REGISTRY and loads it.
func loadConfig() (*config.Config, error) {
	path := config.Resolve(registryPath)
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, wrapExit(ExitConfig, "loading configuration", err)
	}
	logger.Debug("configuration loaded",
		zap.String("path", path),
		zap.Strings("scopes", cfg.Registry.Scopes()),
		zap.Strings("types", cfg.Types),
	)
	return cfg, nil
}

type engineOptions struct {
	workers   int
	timestamp bool
	cleanup   commit.Cleanup
}

func newEngine(cfg *config.Config, opts engineOptions) *engine.Engine {
	eo := engine.Options{
		Registry:  cfg.Registry,
		Validator: cfg.ValidatorOptions(),
		Workers:   opts.workers,
		Logger:    logger,
		Cleanup:   opts.cleanup,
	}
	if opts.timestamp {
		eo.Clock = time.Now
	}
	return engine.New(eo)
}

func parseCleanup(s string) (commit.Cleanup, error) {
	c, err := commit.ParseCleanup(s)
	if err != nil {
		return 0, wrapExit(ExitConfig, "invalid --cleanup", err)
	}
	return c, nil
}

func parseFormat(s string) (report.Target, error) {
	t, err := report.ParseTarget(s)
	if err != nil {
		return "", wrapExit(ExitConfig, "invalid --format", err)
	}
	return t, nil
}

// writeReport prints rendered output, coloring JSON on a terminal.
func writeReport(cmd *cobra.Command, out string, target report.Target) {
	w := cmd.OutOrStdout()
	if target == report.TargetJSON && !noColor {
		if f, ok := w.(*os.File); ok && report.ColorEnabled(f) {
			out = report.Highlight(out, "json")
		}
	}
	fmt.Fprint(w, out)
}
