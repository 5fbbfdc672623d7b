package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/triage/internal/batchfile"
	"github.com/papapumpkin/triage/internal/config"
	"github.com/papapumpkin/triage/internal/engine"
	"github.com/papapumpkin/triage/internal/logging"
	"github.com/papapumpkin/triage/internal/report"
	"github.com/papapumpkin/triage/internal/task"
)

// session bundles what every analysis command needs.
type session struct {
	cfg      config.Config
	logger   *slog.Logger
	analyzer *engine.Analyzer
}

// setup loads config and builds the logger and analyzer.
func setup() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.Log.Level
	if cfg.Verbose {
		level = "debug"
	}
	logger := logging.New(os.Stderr, level, cfg.Log.Format)

	opts := cfg.EngineOptions()
	opts.Logger = logger
	analyzer, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, analyzer: analyzer}, nil
}

// addInputFlags registers the flags shared by commands that read a batch.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("input-format", "", "input format: json, toml, or yaml (default from file extension, json for stdin)")
	cmd.Flags().String("now", "", "reference date YYYY-MM-DD (default today)")
}

// addOutputFlags registers the flags shared by commands that print a report.
func addOutputFlags(cmd *cobra.Command, defaultFormat report.Format) {
	cmd.Flags().StringP("format", "f", string(defaultFormat), "output format: list, matrix, or json")
	cmd.Flags().StringP("sort", "s", string(report.ByPriority), "sort order: priority, fastest, impact, or deadline")
	cmd.Flags().Bool("no-color", false, "disable colored output")
}

// batchPath returns the positional file argument, or stdin.
func batchPath(args []string) string {
	if len(args) == 0 {
		return batchfile.Stdin
	}
	return args[0]
}

func loadBatch(cmd *cobra.Command, path string) (any, error) {
	name, _ := cmd.Flags().GetString("input-format")
	format, err := batchfile.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return batchfile.Load(path, format, cmd.InOrStdin())
}

// referenceTime resolves --now. A date is taken at midnight UTC so the
// result does not depend on the local zone.
func referenceTime(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("now")
	if raw == "" {
		return time.Now(), nil
	}
	d, err := task.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now: %w", err)
	}
	return d.Time(), nil
}

func newStrategy(cmd *cobra.Command, cfg config.Config) (report.Strategy, error) {
	formatName, _ := cmd.Flags().GetString("format")
	sortName, _ := cmd.Flags().GetString("sort")
	noColor, _ := cmd.Flags().GetBool("no-color")

	order, err := report.ParseSortOrder(sortName)
	if err != nil {
		return nil, err
	}
	return report.New(report.Options{
		Format: report.Format(formatName),
		Order:  order,
		Tiers:  report.Tiers{High: cfg.Thresholds.HighScore, Medium: cfg.Thresholds.MediumScore},
		Color:  !noColor && os.Getenv("NO_COLOR") == "",
	})
}
