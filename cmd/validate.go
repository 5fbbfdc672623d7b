package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/triage/internal/batchfile"
	"github.com/papapumpkin/triage/internal/task"
	"github.com/papapumpkin/triage/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a batch without scoring it",
	Long: "Validate reports whether a batch is well formed and lists every field that " +
		"would be corrected during analysis. It exits non-zero on malformed input.",
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("input-format", "", "input format: json, toml, or yaml (default from file extension, json for stdin)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	path := batchPath(args)
	source := path
	if path == batchfile.Stdin {
		source = "stdin"
	}

	payload, err := loadBatch(cmd, path)
	if err != nil {
		printer.Error(err.Error())
		return reportedError{err}
	}
	tasks, err := task.Validate(payload)
	if err != nil {
		if errors.Is(err, task.ErrMalformedInput) {
			printer.ValidateFailed(source, err)
			return reportedError{err}
		}
		return err
	}
	printer.ValidateResult(source, tasks)
	return nil
}
