package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/triage/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Score every task in a batch",
	Long: "Analyze reads a batch of tasks from a JSON, TOML, or YAML file (or stdin when the " +
		"file is omitted or \"-\") and prints each task with its score and explanation.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addInputFlags(analyzeCmd)
	addOutputFlags(analyzeCmd, report.FormatList)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := setup()
	if err != nil {
		return err
	}
	strategy, err := newStrategy(cmd, s.cfg)
	if err != nil {
		return err
	}
	now, err := referenceTime(cmd)
	if err != nil {
		return err
	}

	payload, err := loadBatch(cmd, batchPath(args))
	if err != nil {
		return err
	}
	tasks, err := s.analyzer.Analyze(payload, now)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), strategy.Render(tasks))
	return nil
}
