package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/triage/internal/engine"
	"github.com/papapumpkin/triage/internal/report"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [file]",
	Short: "Show the top tasks to work on next",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().IntP("count", "n", 0, "number of suggestions (default suggest_count from config)")
	addInputFlags(suggestCmd)
	addOutputFlags(suggestCmd, report.FormatList)
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	s, err := setup()
	if err != nil {
		return err
	}
	n := s.cfg.SuggestCount
	if v, _ := cmd.Flags().GetInt("count"); v != 0 {
		if v < 0 {
			return fmt.Errorf("--count must be positive, got %d", v)
		}
		n = v
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

	fmt.Fprint(cmd.OutOrStdout(), strategy.Render(engine.Suggest(tasks, n)))
	return nil
}
